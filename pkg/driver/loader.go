package driver

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// StdinName is the path that selects standard input.
const StdinName = "-"

// Source is one program text and the name diagnostics refer to it by.
type Source struct {
	Name string
	Text string
}

// LoadFile reads path, or standard input when path is "-".
func LoadFile(path string) (Source, error) {
	if path == StdinName {
		return LoadReader("<stdin>", os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	return newSource(path, data)
}

// LoadReader reads r to completion.
func LoadReader(name string, r io.Reader) (Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Source{}, fmt.Errorf("read %s: %w", name, err)
	}
	return newSource(name, data)
}

func newSource(name string, data []byte) (Source, error) {
	if !utf8.Valid(data) {
		return Source{}, fmt.Errorf("read %s: source is not valid UTF-8", name)
	}
	return Source{Name: name, Text: string(data)}, nil
}
