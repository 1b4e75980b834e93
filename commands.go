package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Blackcats4567/scratch-www/auditlog"
	"github.com/Blackcats4567/scratch-www/config"
	"github.com/Blackcats4567/scratch-www/locales"
	"github.com/Blackcats4567/scratch-www/server"
)

func checkFatal(err error) {
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

// All diagnostics go to standard output; the exit code is the only other channel the
// build reports through.
func newLogger() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	checkFatal(err)

	return logger.Sugar()
}

// build merges the localization platform's per-language files into one bundle per
// view. Expects two positional arguments after the command: the localizations
// directory and the output directory.
func build(c config.Config) {
	args := flag.Args()[1:]

	if len(args) < 1 {
		fmt.Println("No localizations directory given")
		os.Exit(1)
	}
	locDir := args[0]
	if info, err := os.Stat(locDir); err != nil || !info.IsDir() {
		fmt.Printf("Localizations directory '%v' does not exist\n", locDir)
		os.Exit(1)
	}

	if len(args) < 2 {
		fmt.Println("No output directory given")
		os.Exit(1)
	}
	outDir := args[1]
	if err := os.Mkdir(outDir, 0o755); err != nil && !os.IsExist(err) {
		checkFatal(err)
	}

	log := newLogger()
	defer log.Sync()

	start := time.Now()
	res, err := locales.NewBuilder(c, log).Build(locDir, outDir)
	checkFatal(err)

	elapsed := time.Since(start)
	recordRun(c, log, start, elapsed, locDir, res)

	log.Infof("Built %v views in %fs", res.Views, elapsed.Seconds())

	if len(res.Failures) > 0 {
		log.Errorf("%v failures, see log above", len(res.Failures))
		os.Exit(1)
	}
}

// recordRun appends the run to the audit database when one is configured. Audit
// problems never fail a build.
func recordRun(c config.Config, log *zap.SugaredLogger, start time.Time, elapsed time.Duration, locDir string, res locales.Result) {
	if c.Audit.File == "" {
		return
	}

	store, err := auditlog.Open(c.Audit.File)
	if err != nil {
		log.Errorf("opening audit database: %v", err)
		return
	}
	defer store.Close()

	failures := make([]auditlog.Failure, len(res.Failures))
	for i, f := range res.Failures {
		failures[i] = auditlog.Failure{View: f.View, Language: f.Language, Message: f.Message}
	}

	if _, err := store.RecordRun(start, elapsed, locDir, res.Views, failures); err != nil {
		log.Errorf("recording build run: %v", err)
	}
}

// serve starts the bundle preview server.
func serve(c config.Config) {
	server.Serve(c)
}

// history prints the most recent build runs from the audit database.
func history(c config.Config) {
	if c.Audit.File == "" {
		checkFatal(fmt.Errorf("no audit.file configured"))
	}

	store, err := auditlog.Open(c.Audit.File)
	checkFatal(err)
	defer store.Close()

	runs, err := store.LastRuns(20)
	checkFatal(err)

	for _, r := range runs {
		fmt.Printf("%v  %v  %v views, %v failures, %vms (%v)\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Views, r.Failures, r.DurationMs, r.LocalizationsDir)
		if r.Failures == 0 {
			continue
		}
		failures, err := store.RunFailures(r.ID)
		checkFatal(err)
		for _, f := range failures {
			fmt.Printf("    %v/%v: %v\n", f.View, f.Language, f.Message)
		}
	}
}
