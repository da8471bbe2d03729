package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triadc/triadc/pkg/ast"
)

func TestParseDeclarationAndAssignment(t *testing.T) {
	prog, err := Parse(`int a; a = 3 + 4;`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)

	decl, ok := prog.Statements[0].(*ast.Declaration)
	require.True(t, ok)
	assert.Equal(t, "a", decl.Name)
	assert.Nil(t, decl.Init)

	assign, ok := prog.Statements[1].(*ast.Assignment)
	require.True(t, ok)
	assert.Equal(t, "a", assign.Name)

	bin, ok := assign.Expr.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.Add, bin.Op)
}

func TestParseIfElse(t *testing.T) {
	prog, err := Parse(`int x; x = 1; if (x < 2) { x = 3; } else { x = 4; }`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 3)

	ifStmt, ok := prog.Statements[2].(*ast.IfStatement)
	require.True(t, ok)
	cond, ok := ifStmt.Cond.(*ast.BinaryOp)
	require.True(t, ok)
	assert.True(t, cond.Op.IsRelational())
	assert.NotNil(t, ifStmt.Else)
}

func TestParseForLoop(t *testing.T) {
	prog, err := Parse(`int i; for (i = 0; i < 3; i++) { i = i + 1; }`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 2)

	forStmt, ok := prog.Statements[1].(*ast.ForStatement)
	require.True(t, ok)

	_, ok = forStmt.Init.(*ast.Assignment)
	assert.True(t, ok)

	step, ok := forStmt.Step.(*ast.IncrementStatement)
	require.True(t, ok)
	assert.Equal(t, ast.Incr, step.Op)

	body, ok := forStmt.Body.(*ast.Block)
	require.True(t, ok)
	assert.Len(t, body.Body.Statements, 1)
}

func TestParsePreAndPostIncrement(t *testing.T) {
	prog, err := Parse(`int i; i++; --i;`)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 3)

	post, ok := prog.Statements[1].(*ast.IncrementStatement)
	require.True(t, ok)
	assert.Equal(t, ast.Incr, post.Op)

	pre, ok := prog.Statements[2].(*ast.IncrementStatement)
	require.True(t, ok)
	assert.Equal(t, ast.Decr, pre.Op)
}

func TestConditionMustBeRelational(t *testing.T) {
	_, err := Parse(`int x; if (x + 1) { x = 2; }`)
	require.Error(t, err)
}

func TestNestedIfInsideFor(t *testing.T) {
	src := `int i; for (i = 0; i < 3; i++) { if (i == 1) { i = 9; } }`
	prog, err := Parse(src)
	require.NoError(t, err)

	forStmt := prog.Statements[1].(*ast.ForStatement)
	block := forStmt.Body.(*ast.Block)
	_, ok := block.Body.Statements[0].(*ast.IfStatement)
	assert.True(t, ok)
}
