package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"mini/interpreter-go/pkg/driver"
	"mini/interpreter-go/pkg/interpreter"
	"mini/interpreter-go/pkg/lexer"
	"mini/interpreter-go/pkg/parser"
)

const (
	historyFile = ".mini_history"
	promptMain  = "mini> "
	promptCont  = "  ... "
	replSource  = "<repl>"
)

const replHelp = `Commands:
  :help        show this help
  :quit        leave the REPL (also Ctrl+D)
  :reset       drop all bindings and functions
  :bindings    list live bindings, oldest first
  :functions   list declared functions, newest first
`

// prompter is the subset of *liner.State the REPL uses.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func runRepl(args []string) int {
	fs, flags := newCommandFlags("repl")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "mini repl takes no arguments")
		return 2
	}
	settings, err := resolveSettings(fs, flags, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	histPath, keepHistory := historyPath()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if keepHistory {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	fmt.Fprintf(os.Stdout, "%s (type :help for commands)\n", cliToolVersion)
	code := repl(ln, os.Stdout, os.Stderr, settings.Options)

	if keepHistory {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return code
}

// historyPath locates the history file in the home directory. The second
// result is false when no home directory is known.
func historyPath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", false
	}
	return filepath.Join(home, historyFile), true
}

// repl evaluates each complete program read from p on one interpreter, so
// bindings and functions persist between entries.
func repl(p prompter, out, errOut io.Writer, opts driver.Options) int {
	iopts := opts.Interpreter
	iopts.Sink = interpreter.WriterSink(out)
	interp := interpreter.New(iopts)

	for {
		src, ok := readUntilParsed(p, promptMain, promptCont, opts.Parser)
		if !ok {
			fmt.Fprintln(out)
			return 0
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if done := handleReplCommand(interp, out, trimmed); done {
				return 0
			}
			continue
		}
		p.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		res, err := driver.Check(driver.Source{Name: replSource, Text: src}, opts)
		if err != nil {
			fmt.Fprintln(errOut, red(driver.DiagnosticFromError(err).String()))
			continue
		}
		if err := interp.Execute(context.Background(), res.Program); err != nil {
			err = &driver.StageError{Stage: driver.StageRuntime, Source: replSource, Err: err}
			fmt.Fprintln(errOut, red(driver.DiagnosticFromError(err).String()))
		}
	}
}

func handleReplCommand(interp *interpreter.Interpreter, out io.Writer, line string) (exit bool) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Fprint(out, replHelp)
	case ":quit", ":exit":
		return true
	case ":reset":
		interp.Reset()
		fmt.Fprintln(out, "interpreter reset.")
	case ":bindings":
		for _, b := range interp.Bindings() {
			fmt.Fprintf(out, "%s %s = %s\n", b.Kind, b.Name, interpreter.FormatValue(b.Value))
		}
	case ":functions":
		for _, fn := range interp.Functions() {
			fmt.Fprintf(out, "function %s(%s)\n", fn.Name, strings.Join(fn.Params, ", "))
		}
	default:
		fmt.Fprintln(out, "unknown command. Type :help for help.")
	}
	return false
}

// readUntilParsed reads lines until the buffer parses, or fails for a
// reason more input cannot fix. The second result is false on end of input.
func readUntilParsed(p prompter, prompt, cont string, opts parser.Options) (string, bool) {
	var b strings.Builder
	for {
		current := prompt
		if b.Len() > 0 {
			current = cont
		}
		line, err := p.Prompt(current)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending entry.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		_, perr := parser.ParseSource(src, opts)
		if perr == nil || !needsMoreInput(perr) {
			return src, true
		}
	}
}

func needsMoreInput(err error) bool {
	if parser.IsIncomplete(err) {
		return true
	}
	var lexErr *lexer.Error
	return errors.As(err, &lexErr) && lexErr.Kind == lexer.ErrUnterminatedString
}
