// Package symbols implements the scoped symbol table the semantic
// analyzer checks declarations and uses against.
package symbols

import (
	"fmt"
	"strings"
)

// Symbol is a single declared name. Type is recorded for diagnostics
// only; the analyzer does not use it to drive any checking beyond
// storage (the language is effectively single-type).
type Symbol struct {
	Name string
	Type string
}

// Error is raised by Table.Add when a name collides within one scope.
// The analyzer surfaces this as a SemanticError.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Table is a non-empty stack of scopes, innermost last. The global
// scope (index 0) is never removed.
type Table struct {
	scopes []map[string]*Symbol
}

// New returns a table holding only the global scope.
func New() *Table {
	return &Table{scopes: []map[string]*Symbol{{}}}
}

// EnterScope pushes a new, empty frame.
func (t *Table) EnterScope() {
	t.scopes = append(t.scopes, map[string]*Symbol{})
}

// ExitScope pops the innermost frame. It is a no-op if only the global
// frame remains.
func (t *Table) ExitScope() {
	if len(t.scopes) <= 1 {
		return
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Depth reports how many scopes are currently on the stack.
func (t *Table) Depth() int { return len(t.scopes) }

// Add inserts sym into the innermost scope. It fails if that scope
// already holds a symbol with the same name.
func (t *Table) Add(sym Symbol) error {
	top := t.scopes[len(t.scopes)-1]
	if _, exists := top[sym.Name]; exists {
		return &Error{Message: fmt.Sprintf("Variable '%s' already declared in this scope.", sym.Name)}
	}
	top[sym.Name] = &sym
	return nil
}

// Lookup searches innermost to outermost and returns the first hit.
func (t *Table) Lookup(name string) (Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i][name]; ok {
			return *sym, true
		}
	}
	return Symbol{}, false
}

// Reset drops every scope but the global one, and empties it.
func (t *Table) Reset() {
	t.scopes = []map[string]*Symbol{{}}
}

// Dump renders every scope, outermost first, for `triadc compile
// --symbols` to print. Symbols within a scope are unordered: a map
// backs each frame, and the table never needs declaration order.
func (t *Table) Dump() string {
	var b strings.Builder
	for depth, scope := range t.scopes {
		fmt.Fprintf(&b, "scope %d:\n", depth)
		if len(scope) == 0 {
			b.WriteString("  (empty)\n")
			continue
		}
		for name, sym := range scope {
			fmt.Fprintf(&b, "  %s %s\n", sym.Type, name)
		}
	}
	return b.String()
}
