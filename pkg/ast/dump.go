package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders node as an indented, s-expression-like tree, for
// `triadc compile --ast` to print.
func Dump(node any) string {
	var b strings.Builder
	dumpNode(&b, node, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func dumpNode(b *strings.Builder, node any, depth int) {
	indent(b, depth)
	switch n := node.(type) {
	case *StatementList:
		if n == nil {
			b.WriteString("StatementList <nil>\n")
			return
		}
		b.WriteString("StatementList\n")
		for _, stmt := range n.Statements {
			dumpNode(b, stmt, depth+1)
		}
	case *Declaration:
		fmt.Fprintf(b, "Declaration %s %s\n", n.Type, n.Name)
		if n.Init != nil {
			dumpNode(b, n.Init, depth+1)
		}
	case *Assignment:
		fmt.Fprintf(b, "Assignment %s\n", n.Name)
		dumpNode(b, n.Expr, depth+1)
	case *IncrementStatement:
		fmt.Fprintf(b, "IncrementStatement %s %s\n", n.Name, n.Op)
	case *IfStatement:
		b.WriteString("IfStatement\n")
		dumpNode(b, n.Cond, depth+1)
		dumpNode(b, n.Then, depth+1)
		if n.Else != nil {
			dumpNode(b, n.Else, depth+1)
		}
	case *ForStatement:
		b.WriteString("ForStatement\n")
		dumpNode(b, n.Init, depth+1)
		dumpNode(b, n.Cond, depth+1)
		dumpNode(b, n.Step, depth+1)
		dumpNode(b, n.Body, depth+1)
	case *Block:
		b.WriteString("Block\n")
		dumpNode(b, n.Body, depth+1)
	case *Number:
		fmt.Fprintf(b, "Number %s\n", strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *Identifier:
		fmt.Fprintf(b, "Identifier %s\n", n.Name)
	case *BinaryOp:
		fmt.Fprintf(b, "BinaryOp %s\n", n.Op)
		dumpNode(b, n.Left, depth+1)
		dumpNode(b, n.Right, depth+1)
	case *UnaryOp:
		fmt.Fprintf(b, "UnaryOp %s\n", n.Op)
		dumpNode(b, n.Operand, depth+1)
	case nil:
		b.WriteString("<nil>\n")
	default:
		fmt.Fprintf(b, "%T\n", n)
	}
}
