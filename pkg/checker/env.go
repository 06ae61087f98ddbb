package checker

import "sort"

// Environment records every function signature declared anywhere in a
// program. The registry is global at run time, so position does not matter.
type Environment struct {
	arities map[string][]int
}

func NewEnvironment() *Environment {
	return &Environment{arities: make(map[string][]int)}
}

// Define adds one declaration of name with the given parameter count.
func (e *Environment) Define(name string, arity int) {
	for _, existing := range e.arities[name] {
		if existing == arity {
			return
		}
	}
	e.arities[name] = append(e.arities[name], arity)
	sort.Ints(e.arities[name])
}

// Lookup returns the distinct arities declared for name, ascending.
func (e *Environment) Lookup(name string) ([]int, bool) {
	arities, ok := e.arities[name]
	return arities, ok
}

// Accepts reports whether some declaration of name takes arity arguments.
func (e *Environment) Accepts(name string, arity int) bool {
	for _, candidate := range e.arities[name] {
		if candidate == arity {
			return true
		}
	}
	return false
}
