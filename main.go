/*
A tool for building the per-view locale bundles served to the web client. It merges
the per-language JSON fragments exported by the localization platform with each view's
default English strings and localized asset URLs, writing one <view>.intl.js bundle
per view with English filling in for anything untranslated.

Various program settings are controlled by a TOML config file, which must be available
for the program to run. By default, the program will look for a file called
'intl-builder.toml' in the current directory.

The program must be run with a 'command' argument to indicate what you would like it
to do. Available commands are:

  - build: Builds all views' locale bundles from a localizations directory into an output directory.
  - serve: Starts an HTTP server for previewing previously built bundles.
  - history: Prints recent build runs from the audit database.
  - help: Prints usage instructions
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Blackcats4567/scratch-www/config"
)

var (
	configPath string
)

const (
	cmdMissing      = "missing"
	cmdUnrecognised = "unrecognised"
	cmdHelp         = "help"
	cmdBuild        = "build"
	cmdServe        = "serve"
	cmdHistory      = "history"
)

func init() {
	defaultConfigPath := filepath.FromSlash("./intl-builder.toml")
	flag.StringVar(&configPath, "config", defaultConfigPath, "Full `path` and file name to the config file")
}

type Command interface {
	Run(config.Config)
}

type CommandFunc func(config.Config)

func (f CommandFunc) Run(c config.Config) {
	f(c)
}

// Gets list of available commands
func availableCommands() []string {
	return []string{cmdBuild, cmdServe, cmdHistory, cmdHelp}
}

// Converts os.Args to one of the cmd* constants.
func parseArgs(args []string) (command string) {
	if len(args) < 1 {
		return cmdMissing
	}

	switch args[0] {
	case cmdHelp:
		return cmdHelp
	case cmdBuild:
		return cmdBuild
	case cmdServe:
		return cmdServe
	case cmdHistory:
		return cmdHistory
	}

	return cmdUnrecognised
}

// Prints a normal usage message.
func printUsage(c config.Config) {
	fmt.Println("Usage: intl-builder [-config path] <command>")
	fmt.Println("  build <localizations-dir> <output-dir>")
	fmt.Println("  serve")
	fmt.Println("  history")
	flag.PrintDefaults()
}

// Prints a usage message indicating that a command must be given.
func printMissingCommandUsage(c config.Config) {
	fmt.Printf("No command given. Command can be one of: %v\n\n", strings.Join(availableCommands(), ", "))
	printUsage(c)
	os.Exit(1)
}

// Prints a usage message indicating that the given command was not recognised.
func printUnrecognisedCommandUsage(cmd string) CommandFunc {
	return func(c config.Config) {
		fmt.Printf("Command '%v' not recognised. Command must be one of: %v\n\n", cmd, strings.Join(availableCommands(), ", "))
		printUsage(c)
		os.Exit(1)
	}
}

func main() {
	flag.Parse()
	config, cfgErr := config.Load(configPath)
	var command = parseArgs(flag.Args())

	var commandFunc = CommandFunc(printMissingCommandUsage)
	switch command {
	case cmdUnrecognised:
		commandFunc = printUnrecognisedCommandUsage(flag.Args()[0])
	case cmdHelp:
		commandFunc = CommandFunc(printUsage)
	case cmdBuild:
		commandFunc = CommandFunc(build)
	case cmdServe:
		commandFunc = CommandFunc(serve)
	case cmdHistory:
		commandFunc = CommandFunc(history)
	}

	// Invalid config only matters for non-'help' commands
	if command != cmdUnrecognised && command != cmdMissing && command != cmdHelp {
		checkFatal(cfgErr)
	}

	commandFunc.Run(config)
}
