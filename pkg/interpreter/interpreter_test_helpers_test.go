package interpreter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mini/interpreter-go/pkg/parser"
)

func runSource(t *testing.T, src string, opts Options) ([]string, *Interpreter, error) {
	t.Helper()
	program, err := parser.ParseSource(src, parser.Options{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var out []string
	opts.Sink = CollectSink(&out)
	interp := New(opts)
	err = interp.Execute(context.Background(), program)
	return out, interp, err
}

func mustRun(t *testing.T, src string) []string {
	t.Helper()
	out, _, err := runSource(t, src, DefaultOptions())
	if err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	return out
}

func expectOutput(t *testing.T, src string, want ...string) {
	t.Helper()
	got := mustRun(t, src)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("output mismatch for %q\n got: %q\nwant: %q", src, got, want)
	}
}

func expectKind(t *testing.T, src string, opts Options, kind ErrorKind, sentinel error) *Error {
	t.Helper()
	_, _, err := runSource(t, src, opts)
	if err == nil {
		t.Fatalf("expected %s error for %q", kind, src)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected errors.Is(%v, %v)", err, sentinel)
	}
	var execErr *Error
	if !errors.As(err, &execErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if execErr.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, execErr.Kind, err)
	}
	return execErr
}
