package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndLookup(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.Add(Symbol{Name: "a", Type: "int"}))

	sym, ok := tbl.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "int", sym.Type)

	_, ok = tbl.Lookup("b")
	assert.False(t, ok)
}

func TestRedeclarationRejected(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.Add(Symbol{Name: "a", Type: "int"}))

	err := tbl.Add(Symbol{Name: "a", Type: "int"})
	require.Error(t, err)
	assert.Equal(t, "Variable 'a' already declared in this scope.", err.Error())
}

func TestShadowingAcrossScopes(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.Add(Symbol{Name: "a", Type: "int"}))

	tbl.EnterScope()
	require.NoError(t, tbl.Add(Symbol{Name: "a", Type: "int"}), "shadowing in an inner scope must succeed")

	sym, ok := tbl.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "int", sym.Type)

	tbl.ExitScope()
	_, ok = tbl.Lookup("a")
	assert.True(t, ok, "outer declaration survives once the inner scope closes")
}

func TestExitScopeNeverRemovesGlobal(t *testing.T) {
	tbl := New()
	tbl.ExitScope()
	tbl.ExitScope()
	assert.Equal(t, 1, tbl.Depth())
}

func TestReset(t *testing.T) {
	tbl := New()
	tbl.EnterScope()
	require.NoError(t, tbl.Add(Symbol{Name: "a", Type: "int"}))

	tbl.Reset()
	assert.Equal(t, 1, tbl.Depth())
	_, ok := tbl.Lookup("a")
	assert.False(t, ok)
}

func TestDumpIncludesEveryScope(t *testing.T) {
	tbl := New()
	require.NoError(t, tbl.Add(Symbol{Name: "a", Type: "int"}))
	tbl.EnterScope()
	require.NoError(t, tbl.Add(Symbol{Name: "b", Type: "int"}))

	out := tbl.Dump()
	assert.Contains(t, out, "scope 0:")
	assert.Contains(t, out, "int a")
	assert.Contains(t, out, "scope 1:")
	assert.Contains(t, out, "int b")
}

func TestDumpMarksEmptyScope(t *testing.T) {
	tbl := New()
	tbl.EnterScope()
	assert.Contains(t, tbl.Dump(), "(empty)")
}
