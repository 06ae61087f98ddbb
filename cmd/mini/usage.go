package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  mini run [flags] <file.mini|->")
	fmt.Fprintln(os.Stderr, "  mini <file.mini>")
	fmt.Fprintln(os.Stderr, "  mini tokens [--format json|yaml] <file.mini>")
	fmt.Fprintln(os.Stderr, "  mini ast [--format json|yaml] <file.mini>")
	fmt.Fprintln(os.Stderr, "  mini check <file.mini>             lex, parse and static call checks")
	fmt.Fprintln(os.Stderr, "  mini repl [flags]")
	fmt.Fprintln(os.Stderr, "  mini serve [--addr host:port] [--timeout 5s]")
	fmt.Fprintln(os.Stderr, "  mini version")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  --config path          config file (default: nearest mini.yml)")
	fmt.Fprintln(os.Stderr, "  --assoc left|right     grouping of same-precedence operators")
	fmt.Fprintln(os.Stderr, "  --duplicate-check stack|frame")
	fmt.Fprintln(os.Stderr, "  --max-steps n          step budget (0 = unlimited)")
	fmt.Fprintln(os.Stderr, "  --max-call-depth n     call depth limit (0 = unlimited)")
	fmt.Fprintln(os.Stderr, "  --max-depth n          parser nesting limit (default 1000)")
	fmt.Fprintln(os.Stderr, "  --max-nesting-depth n  nesting limit per call frame (0 = unlimited)")
	fmt.Fprintln(os.Stderr, "  --trace                log declarations and calls")
	fmt.Fprintln(os.Stderr, "  --git repo[@rev]       read the file from a git repository")
}
