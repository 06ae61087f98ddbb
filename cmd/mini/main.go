package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"mini/interpreter-go/pkg/driver"
	"mini/interpreter-go/pkg/interpreter"
	"mini/interpreter-go/pkg/lexer"
)

const cliToolVersion = "mini-cli 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runProgram(args[1:])
	case "tokens":
		return runTokens(args[1:])
	case "ast":
		return runAST(args[1:])
	case "check":
		return runCheck(args[1:])
	case "repl":
		return runRepl(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		if strings.HasPrefix(args[0], "-") && args[0] != driver.StdinName {
			fmt.Fprintf(os.Stderr, "unknown command or flag %q\n", args[0])
			printUsage()
			return 2
		}
		return runProgram(args)
	}
}

func runProgram(args []string) int {
	fs, flags := newCommandFlags("run")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	src, code := loadCommandSource(flags, fs.Args(), "run")
	if code != 0 {
		return code
	}
	settings, err := resolveSettings(fs, flags, src.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	opts := settings.Options
	opts.Interpreter.Sink = interpreter.WriterSink(os.Stdout)
	if _, err := driver.Run(context.Background(), src, opts); err != nil {
		printDiagnostic(err)
		return 1
	}
	return 0
}

func runTokens(args []string) int {
	fs, flags := newCommandFlags("tokens")
	format := fs.String("format", "json", "output format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	dumpFormat, err := driver.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}
	src, code := loadCommandSource(flags, fs.Args(), "tokens")
	if code != 0 {
		return code
	}
	tokens, err := lexer.Tokenize(src.Text)
	if err != nil {
		printDiagnostic(&driver.StageError{Stage: driver.StageLex, Source: src.Name, Err: err})
		return 1
	}
	if err := driver.DumpTokens(os.Stdout, tokens, dumpFormat); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write tokens: %v\n", err)
		return 1
	}
	return 0
}

func runAST(args []string) int {
	fs, flags := newCommandFlags("ast")
	format := fs.String("format", "json", "output format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	dumpFormat, err := driver.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}
	src, code := loadCommandSource(flags, fs.Args(), "ast")
	if code != 0 {
		return code
	}
	settings, err := resolveSettings(fs, flags, src.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	res, err := driver.Check(src, settings.Options)
	if err != nil {
		printDiagnostic(err)
		return 1
	}
	if err := driver.DumpProgram(os.Stdout, res.Program, dumpFormat); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write ast: %v\n", err)
		return 1
	}
	return 0
}

func runCheck(args []string) int {
	fs, flags := newCommandFlags("check")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	src, code := loadCommandSource(flags, fs.Args(), "check")
	if code != 0 {
		return code
	}
	settings, err := resolveSettings(fs, flags, src.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	res, diags, err := driver.Analyze(src, settings.Options)
	if err != nil {
		printDiagnostic(err)
		return 1
	}
	if len(diags) > 0 {
		for _, diag := range diags {
			fmt.Fprintln(os.Stderr, red(diag.String()))
		}
		return 1
	}
	fmt.Fprintf(os.Stdout, "%s: ok (%d statements, %d tokens)\n", src.Name, len(res.Program.Body), len(res.Tokens))
	return 0
}
