package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"mini/interpreter-go/pkg/driver"
)

// commandFlags are shared by every command that loads and runs a source.
type commandFlags struct {
	configPath     string
	associativity  string
	duplicateCheck string
	maxDepth       int
	maxSteps       int
	maxCallDepth   int
	maxNesting     int
	trace          bool
	gitRepo        string
}

func newCommandFlags(name string) (*flag.FlagSet, *commandFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	flags := &commandFlags{}
	fs.StringVar(&flags.configPath, "config", "", "path to mini.yml (default: search upward, or $"+driver.ConfigEnvVar+")")
	fs.StringVar(&flags.associativity, "assoc", "", "binary operator associativity: left or right")
	fs.StringVar(&flags.duplicateCheck, "duplicate-check", "", "declaration collision scope: stack or frame")
	fs.IntVar(&flags.maxDepth, "max-depth", 0, "parser nesting limit (0 = built-in default)")
	fs.IntVar(&flags.maxSteps, "max-steps", 0, "step budget (0 = unlimited)")
	fs.IntVar(&flags.maxCallDepth, "max-call-depth", 0, "call depth limit (0 = unlimited)")
	fs.IntVar(&flags.maxNesting, "max-nesting-depth", 0, "nesting limit per call frame (0 = unlimited)")
	fs.BoolVar(&flags.trace, "trace", false, "log declarations and calls to stderr")
	fs.StringVar(&flags.gitRepo, "git", "", "read the source from a git repository: repo[@revision]")
	return fs, flags
}

type settings struct {
	Config  *driver.Config
	Options driver.Options
}

// resolveSettings layers explicitly set flags over the resolved config file.
func resolveSettings(fs *flag.FlagSet, flags *commandFlags, sourceName string) (*settings, error) {
	start := "."
	if sourceName != "" {
		if info, err := os.Stat(sourceName); err == nil && !info.IsDir() {
			start = sourceName
		}
	}
	cfg, err := driver.ResolveConfig(flags.configPath, start)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["assoc"] {
		cfg.Parser.Associativity = flags.associativity
	}
	if set["duplicate-check"] {
		cfg.Interpreter.DuplicateCheck = flags.duplicateCheck
	}
	if set["max-depth"] {
		cfg.Parser.MaxDepth = flags.maxDepth
	}
	if set["max-steps"] {
		cfg.Interpreter.MaxSteps = flags.maxSteps
	}
	if set["max-call-depth"] {
		cfg.Interpreter.MaxCallDepth = flags.maxCallDepth
	}
	if set["max-nesting-depth"] {
		cfg.Interpreter.MaxNestingDepth = flags.maxNesting
	}
	if set["trace"] {
		cfg.Interpreter.Trace = flags.trace
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	popts, err := cfg.ParserOptions()
	if err != nil {
		return nil, err
	}
	iopts, err := cfg.InterpreterOptions()
	if err != nil {
		return nil, err
	}
	if cfg.Interpreter.Trace {
		iopts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return &settings{
		Config:  cfg,
		Options: driver.Options{Parser: popts, Interpreter: iopts},
	}, nil
}

func loadCommandSource(flags *commandFlags, args []string, command string) (driver.Source, int) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "mini %s requires exactly one source file (use - for stdin)\n", command)
		return driver.Source{}, 2
	}
	if flags.gitRepo != "" {
		ref, err := driver.ParseGitRef(flags.gitRepo + ":" + args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return driver.Source{}, 2
		}
		src, err := driver.LoadGitSource(context.Background(), ref)
		if err != nil {
			printDiagnostic(err)
			return driver.Source{}, 1
		}
		return src, 0
	}
	src, err := driver.LoadFile(args[0])
	if err != nil {
		printDiagnostic(err)
		return driver.Source{}, 1
	}
	return src, 0
}
