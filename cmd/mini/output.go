package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"mini/interpreter-go/pkg/driver"
)

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

func useColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func red(s string) string {
	if !useColor(os.Stderr) {
		return s
	}
	return ansiRed + s + ansiReset
}

func printDiagnostic(err error) {
	diag := driver.DiagnosticFromError(err)
	if diag == nil {
		return
	}
	fmt.Fprintln(os.Stderr, red(diag.String()))
}
