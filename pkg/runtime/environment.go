package runtime

import (
	"fmt"

	"mini/interpreter-go/pkg/ast"
)

// Binding is one named slot on the variable stack.
type Binding struct {
	Name  string
	Kind  ast.DeclarationKind
	Value Value
}

// Mutable reports whether assignment may overwrite the binding.
func (b Binding) Mutable() bool {
	return b.Kind != ast.DeclarationConst
}

// Stack is the whole variable store: a single ordered sequence of bindings.
// Blocks do not introduce scopes; call frames are delimited by recording the
// depth on entry and truncating back to it on exit.
type Stack struct {
	bindings []Binding
}

// NewStack creates an empty variable store.
func NewStack() *Stack {
	return &Stack{}
}

// Len is the current depth.
func (s *Stack) Len() int {
	return len(s.bindings)
}

// Push appends a binding without any duplicate check.
func (s *Stack) Push(name string, kind ast.DeclarationKind, value Value) {
	s.bindings = append(s.bindings, Binding{Name: name, Kind: kind, Value: value})
}

// indexOf scans newest to oldest, stopping at floor.
func (s *Stack) indexOf(name string, floor int) int {
	for i := len(s.bindings) - 1; i >= floor; i-- {
		if s.bindings[i].Name == name {
			return i
		}
	}
	return -1
}

// Contains reports whether name is bound at or above depth floor.
func (s *Stack) Contains(name string, floor int) bool {
	if floor < 0 {
		floor = 0
	}
	return s.indexOf(name, floor) >= 0
}

// Lookup returns the nearest binding for name.
func (s *Stack) Lookup(name string) (Binding, bool) {
	idx := s.indexOf(name, 0)
	if idx < 0 {
		return Binding{}, false
	}
	return s.bindings[idx], true
}

// Assign overwrites the nearest binding for name in place. The returned
// binding is the one that was found, so callers can tell a const apart from
// a missing name.
func (s *Stack) Assign(name string, value Value) (Binding, bool) {
	idx := s.indexOf(name, 0)
	if idx < 0 {
		return Binding{}, false
	}
	if !s.bindings[idx].Mutable() {
		return s.bindings[idx], true
	}
	s.bindings[idx].Value = value
	return s.bindings[idx], true
}

// Truncate drops every binding at or above depth.
func (s *Stack) Truncate(depth int) {
	if depth < 0 || depth > len(s.bindings) {
		panic(fmt.Sprintf("runtime: truncate to %d outside stack of depth %d", depth, len(s.bindings)))
	}
	for i := depth; i < len(s.bindings); i++ {
		s.bindings[i] = Binding{}
	}
	s.bindings = s.bindings[:depth]
}

// Snapshot returns a copy of the bindings, oldest first.
func (s *Stack) Snapshot() []Binding {
	out := make([]Binding, len(s.bindings))
	copy(out, s.bindings)
	return out
}

// Reset empties the store.
func (s *Stack) Reset() {
	s.Truncate(0)
}
