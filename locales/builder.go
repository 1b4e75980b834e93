/*
Package locales assembles per-view locale bundles from the translation files exported
by the localization platform.

For every view the builder layers, per language: the general strings for that
language, the view's own strings (the default English table or the language's
translation file), and finally a fill of any still-missing ids from the finalized
English table. English itself is built purely from the general and default tables and
is never replaced by a downloaded file, so every other language's table covers at
least the ids English covers.
*/
package locales

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/Blackcats4567/scratch-www/catalog"
	"github.com/Blackcats4567/scratch-www/config"
)

// Failure records one non-fatal problem encountered during a build: a translation
// file that would not parse, or a bundle that could not be written. Language is empty
// for view-level failures.
type Failure struct {
	View     string
	Language string
	Message  string
}

// Result summarises one build run.
type Result struct {
	Views    int
	Failures []Failure
}

// Builder builds all views' locale bundles for one run.
type Builder struct {
	cfg config.Config
	log *zap.SugaredLogger
}

func NewBuilder(cfg config.Config, log *zap.SugaredLogger) *Builder {
	return &Builder{cfg: cfg, log: log}
}

// Build runs the whole pipeline: loads the view list and the general strings, builds
// every view's bundle with bounded parallelism and writes them to outDir. The
// returned error is fatal (bad configuration, unreadable inputs); per-item problems
// are returned as Result.Failures and leave the other views' output intact.
func (b *Builder) Build(locDir, outDir string) (res Result, err error) {
	views, err := LoadViews(b.cfg)
	if err != nil {
		return res, err
	}

	general, err := LoadGeneral(b.cfg, locDir)
	if err != nil {
		return res, err
	}

	res.Views = len(views)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fatal *multierror.Error
	)
	sem := make(chan struct{}, b.cfg.Build.ViewConcurrency)

	for _, v := range views {
		wg.Add(1)
		go func(v View) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			failures, err := b.buildView(v, general, locDir, outDir)

			mu.Lock()
			res.Failures = append(res.Failures, failures...)
			if err != nil {
				fatal = multierror.Append(fatal, err)
			}
			mu.Unlock()
		}(v)
	}
	wg.Wait()

	return res, fatal.ErrorOrNil()
}

type langResult struct {
	code    string
	table   catalog.Table
	failure *Failure
	err     error
}

// buildView assembles and writes one view's bundle. The returned error is fatal to
// the run; failures are local to one (view, language) pair or to the bundle write.
func (b *Builder) buildView(v View, general map[string]catalog.Table, locDir, outDir string) (failures []Failure, err error) {
	// English comes solely from the general and default tables, view defaults
	// winning, even when an en.json exists in the localizations directory.
	en := catalog.Merge(general[config.FallbackLanguage], v.Defaults)
	bundle := map[string]catalog.Table{config.FallbackLanguage: en}

	results := make(chan langResult)
	n := 0
	for _, code := range b.cfg.Languages.Codes {
		if code == config.FallbackLanguage {
			continue
		}
		n++
		go func(code string) {
			results <- b.loadLanguage(v, code, general[code], en, locDir)
		}(code)
	}

	var fatal error
	for i := 0; i < n; i++ {
		r := <-results
		if r.err != nil {
			fatal = r.err
			continue
		}
		if r.failure != nil {
			failures = append(failures, *r.failure)
			continue
		}
		bundle[r.code] = r.table
	}
	if fatal != nil {
		return failures, fatal
	}

	for code, table := range bundle {
		for key, url := range v.AssetURLs(code) {
			table[key] = url
		}
	}

	if err := b.writeBundle(outDir, v.Name, bundle); err != nil {
		b.log.Errorf("writing bundle for view %v: %v", v.Name, err)
		failures = append(failures, Failure{View: v.Name, Message: err.Error()})
	}

	return failures, nil
}

// loadLanguage produces one language's finalized message table for a view. A missing
// translation file falls back to the general and default tables; a malformed one is a
// per-(view, language) failure; any other read error is fatal to the run.
func (b *Builder) loadLanguage(v View, code string, general, en catalog.Table, locDir string) langResult {
	path := resourceFile(locDir, v.Resource, code)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if !b.cfg.IsQuiet(code) {
			b.log.Infof("no translation file for view %v in %v, falling back to English", v.Name, code)
		}
		return langResult{code: code, table: catalog.Defaults(catalog.Merge(general, v.Defaults), en)}
	}
	if err != nil {
		return langResult{code: code, err: fmt.Errorf("view %v: reading %v: %w", v.Name, path, err)}
	}

	parsed, err := catalog.Parse(data)
	if err != nil {
		b.log.Errorf("malformed translation file %v: %v", path, err)
		return langResult{code: code, failure: &Failure{View: v.Name, Language: code, Message: err.Error()}}
	}

	return langResult{code: code, table: catalog.Defaults(catalog.Merge(general, parsed), en)}
}

// BundleFile is the output file name for a view's bundle.
func BundleFile(view string) string {
	return view + ".intl.js"
}

// writeBundle serializes a view's per-language table set as a single JS global
// assignment. The file is written to a temp name and renamed into place so a failed
// write never leaves a truncated bundle behind.
func (b *Builder) writeBundle(outDir, view string, bundle map[string]catalog.Table) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(outDir, BundleFile(view)+".tmp-*")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(tmp, "%v = %v;\n", b.cfg.App.GlobalName, string(data))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err = os.Rename(tmp.Name(), filepath.Join(outDir, BundleFile(view))); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}
