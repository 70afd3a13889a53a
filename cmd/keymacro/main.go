// Package main is the entry point for the keymacro recorder.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dshills/keymacro/internal/app"
	"github.com/dshills/keymacro/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage reports a command line that could not be parsed. The usage
// text has already been printed.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// globalOptions are the flags accepted before the command name.
type globalOptions struct {
	configPath string
	logLevel   string
}

// env is what every command runs with.
type env struct {
	cfg    config.Config
	log    *app.Logger
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts globalOptions
	var showVersion bool

	fs := flag.NewFlagSet("keymacro", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "keymacro %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: loading config: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		switch opts.logLevel {
		case "debug", "info", "warn", "error":
			cfg.Log.Level = opts.logLevel
		default:
			fmt.Fprintf(stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
			return 2
		}
	}

	e := &env{
		cfg: cfg,
		log: app.NewLogger(app.LoggerConfig{
			Level:  app.ParseLogLevel(cfg.Log.Level),
			Output: stderr,
			Prefix: "keymacro",
		}),
		stdout: stdout,
		stderr: stderr,
	}

	name, cmdArgs := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", name)
		fs.Usage()
		return 2
	}

	if err := cmd.run(e, cmdArgs); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "keymacro - record keystrokes and edit them as macros\n\n")
	fmt.Fprintf(w, "Usage: keymacro [options] <command> [arguments]\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nCommands:\n")
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  keymacro record -save greet      Record until Ctrl+] and save a document\n")
	fmt.Fprintf(w, "  keymacro compile keys.yaml       Compile a key log and print the actions\n")
	fmt.Fprintf(w, "  keymacro save greet              Copy a document into the library\n")
	fmt.Fprintf(w, "  keymacro list                    List library macros\n")
}
