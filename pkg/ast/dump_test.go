package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDumpRendersNestedBinaryOp(t *testing.T) {
	root := &StatementList{Statements: []Stmt{
		&Assignment{Name: "a", Expr: &BinaryOp{
			Op:    Add,
			Left:  &Identifier{Name: "b"},
			Right: &Number{Value: 3},
		}},
	}}

	out := Dump(root)
	assert.Contains(t, out, "StatementList")
	assert.Contains(t, out, "Assignment a")
	assert.Contains(t, out, "BinaryOp +")
	assert.Contains(t, out, "Identifier b")
	assert.Contains(t, out, "Number 3")
}

func TestDumpIndentsByDepth(t *testing.T) {
	root := &StatementList{Statements: []Stmt{
		&IfStatement{
			Cond: &BinaryOp{Op: Lt, Left: &Identifier{Name: "x"}, Right: &Number{Value: 5}},
			Then: &Block{Body: &StatementList{}},
		},
	}}

	out := Dump(root)
	assert.Contains(t, out, "  IfStatement\n")
	assert.Contains(t, out, "    BinaryOp <\n")
}

func TestDumpHandlesNilStatementList(t *testing.T) {
	var root *StatementList
	assert.Equal(t, "StatementList <nil>\n", Dump(root))
}
