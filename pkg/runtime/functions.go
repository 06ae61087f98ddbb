package runtime

import "mini/interpreter-go/pkg/ast"

// FunctionEntry is a declared function. The body is shared with the tree and
// never mutated.
type FunctionEntry struct {
	Name   string
	Params []string
	Body   *ast.BlockStatement
}

// Arity is the number of declared parameters.
func (f FunctionEntry) Arity() int {
	return len(f.Params)
}

// Registry holds declared functions in declaration order. Entries are never
// removed; a later declaration with the same name shadows earlier ones.
type Registry struct {
	entries []FunctionEntry
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends the declaration.
func (r *Registry) Register(decl *ast.FunctionDeclaration) FunctionEntry {
	entry := FunctionEntry{Name: decl.Name, Params: decl.Params, Body: decl.Body}
	r.entries = append(r.entries, entry)
	return entry
}

// Lookup returns the newest entry named name.
func (r *Registry) Lookup(name string) (FunctionEntry, bool) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].Name == name {
			return r.entries[i], true
		}
	}
	return FunctionEntry{}, false
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns a copy in declaration order.
func (r *Registry) Entries() []FunctionEntry {
	out := make([]FunctionEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Registry) Reset() {
	r.entries = nil
}
