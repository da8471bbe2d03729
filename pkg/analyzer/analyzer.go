// Package analyzer implements two-pass semantic analysis and TAC
// lowering: pass one checks declarations and scoping, pass two lowers
// the same tree into three-address code.
package analyzer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/triadc/triadc/pkg/ast"
	"github.com/triadc/triadc/pkg/symbols"
	"github.com/triadc/triadc/pkg/tac"
)

// SemanticError is the only error kind the analyzer raises. The first
// one encountered aborts the compilation.
type SemanticError struct {
	Message string
}

func (e *SemanticError) Error() string {
	return "Semantic Error: " + e.Message
}

func undeclaredInAssignment(name string) error {
	return &SemanticError{Message: fmt.Sprintf("Undeclared variable '%s' used in assignment.", name)}
}

func undeclaredInExpression(name string) error {
	return &SemanticError{Message: fmt.Sprintf("Undeclared variable '%s' used in expression.", name)}
}

// Analyzer owns the symbol table and code buffer for one compilation.
// The driver holds the Analyzer and calls Reset() before each compile.
type Analyzer struct {
	Symbols *symbols.Table
	Code    *tac.Buffer
}

// New returns an Analyzer over a fresh symbol table and code buffer.
func New() *Analyzer {
	return &Analyzer{Symbols: symbols.New(), Code: tac.New()}
}

// Reset clears both the symbol table and the code buffer so the
// Analyzer can be reused for an independent compilation.
func (a *Analyzer) Reset() {
	a.Symbols.Reset()
	a.Code.Reset()
}

// Analyze runs the checking pass and, if it succeeds, the TAC-lowering
// pass over root. On failure the code buffer holds no output from this
// compilation's lowering pass (lowering never starts).
func (a *Analyzer) Analyze(root *ast.StatementList) error {
	if err := a.checkStatementList(root); err != nil {
		return err
	}
	a.lowerStatementList(root)
	return nil
}

// ---- pass 1: checking ----

func (a *Analyzer) checkStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.StatementList:
		return a.checkStatementList(s)
	case *ast.Declaration:
		if err := a.Symbols.Add(symbols.Symbol{Name: s.Name, Type: s.Type}); err != nil {
			return &SemanticError{Message: err.Error()}
		}
		if s.Init != nil {
			return a.checkExpr(s.Init)
		}
		return nil
	case *ast.Assignment:
		if _, ok := a.Symbols.Lookup(s.Name); !ok {
			return undeclaredInAssignment(s.Name)
		}
		return a.checkExpr(s.Expr)
	case *ast.IncrementStatement:
		return nil
	case *ast.IfStatement:
		if err := a.checkExpr(s.Cond); err != nil {
			return err
		}
		if err := a.checkStmt(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return a.checkStmt(s.Else)
		}
		return nil
	case *ast.ForStatement:
		a.Symbols.EnterScope()
		defer a.Symbols.ExitScope()
		if err := a.checkStmt(s.Init); err != nil {
			return err
		}
		if err := a.checkExpr(s.Cond); err != nil {
			return err
		}
		if err := a.checkStmt(s.Step); err != nil {
			return err
		}
		return a.checkStmt(s.Body)
	case *ast.Block:
		a.Symbols.EnterScope()
		defer a.Symbols.ExitScope()
		return a.checkStatementList(s.Body)
	default:
		return fmt.Errorf("analyzer: unhandled statement type %T", stmt)
	}
}

func (a *Analyzer) checkStatementList(list *ast.StatementList) error {
	for _, stmt := range list.Statements {
		if err := a.checkStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) checkExpr(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.Number:
		return nil
	case *ast.Identifier:
		if _, ok := a.Symbols.Lookup(e.Name); !ok {
			return undeclaredInExpression(e.Name)
		}
		return nil
	case *ast.BinaryOp:
		if err := a.checkExpr(e.Left); err != nil {
			return err
		}
		return a.checkExpr(e.Right)
	case *ast.UnaryOp:
		return a.checkExpr(e.Operand)
	default:
		return fmt.Errorf("analyzer: unhandled expression type %T", expr)
	}
}

// ---- pass 2: TAC lowering ----

func (a *Analyzer) lowerStatementList(list *ast.StatementList) {
	for _, stmt := range list.Statements {
		a.lowerStmt(stmt)
	}
}

func (a *Analyzer) lowerStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.StatementList:
		a.lowerStatementList(s)
	case *ast.Declaration:
		if s.Init != nil {
			v := a.lowerExpr(s.Init)
			a.Code.Emit(fmt.Sprintf("MOV %s, %s", s.Name, v))
		}
	case *ast.Assignment:
		v := a.lowerExpr(s.Expr)
		a.Code.Emit(fmt.Sprintf("MOV %s, %s", s.Name, v))
	case *ast.IncrementStatement:
		if s.Op == ast.Incr {
			a.Code.Emit(fmt.Sprintf("ADD %s, %s, 1", s.Name, s.Name))
		} else {
			a.Code.Emit(fmt.Sprintf("SUB %s, %s, 1", s.Name, s.Name))
		}
	case *ast.IfStatement:
		a.lowerIf(s)
	case *ast.ForStatement:
		a.lowerFor(s)
	case *ast.Block:
		a.lowerStatementList(s.Body)
	}
}

func (a *Analyzer) lowerIf(s *ast.IfStatement) {
	cond := s.Cond.(*ast.BinaryOp)
	left := a.lowerExpr(cond.Left)
	right := a.lowerExpr(cond.Right)

	if s.Else == nil {
		ltrue := a.Code.NewLabel()
		lend := a.Code.NewLabel()
		a.Code.Emit(fmt.Sprintf("IF %s %s %s GOTO %s", left, string(cond.Op), right, ltrue))
		a.Code.Emit(fmt.Sprintf("GOTO %s", lend))
		a.Code.Emit(ltrue + ":")
		a.Code.IncreaseIndent()
		a.lowerStmt(s.Then)
		a.Code.DecreaseIndent()
		a.Code.Emit(lend + ":")
		return
	}

	ltrue := a.Code.NewLabel()
	lend := a.Code.NewLabel()
	lfalse := a.Code.NewLabel()
	a.Code.Emit(fmt.Sprintf("IF %s %s %s GOTO %s", left, string(cond.Op), right, ltrue))
	a.Code.Emit(fmt.Sprintf("GOTO %s", lfalse))
	a.Code.Emit(ltrue + ":")
	a.Code.IncreaseIndent()
	a.lowerStmt(s.Then)
	a.Code.DecreaseIndent()
	a.Code.Emit(fmt.Sprintf("GOTO %s", lend))
	a.Code.Emit(lfalse + ":")
	a.Code.IncreaseIndent()
	a.lowerStmt(s.Else)
	a.Code.DecreaseIndent()
	a.Code.Emit(lend + ":")
}

func (a *Analyzer) lowerFor(s *ast.ForStatement) {
	a.lowerStmt(s.Init)

	lstart := a.Code.NewLabel()
	lbody := a.Code.NewLabel()
	lend := a.Code.NewLabel()

	a.Code.Emit(lstart + ":")
	cond := s.Cond.(*ast.BinaryOp)
	left := a.lowerExpr(cond.Left)
	right := a.lowerExpr(cond.Right)
	a.Code.Emit(fmt.Sprintf("IF %s %s %s GOTO %s", left, string(cond.Op), right, lbody))
	a.Code.Emit(fmt.Sprintf("GOTO %s", lend))
	a.Code.Emit(lbody + ":")
	a.Code.IncreaseIndent()
	a.lowerStmt(s.Body)
	a.lowerStmt(s.Step)
	a.Code.DecreaseIndent()
	a.Code.Emit(fmt.Sprintf("GOTO %s", lstart))
	a.Code.Emit(lend + ":")
}

func (a *Analyzer) lowerExpr(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Number:
		t := a.Code.NewTemp()
		a.Code.Emit(fmt.Sprintf("%s = %s", t, formatNumber(e.Value)))
		return t
	case *ast.Identifier:
		return e.Name
	case *ast.BinaryOp:
		l := a.lowerExpr(e.Left)
		r := a.lowerExpr(e.Right)
		t := a.Code.NewTemp()
		a.Code.Emit(fmt.Sprintf("%s = %s %s %s", t, l, string(e.Op), r))
		return t
	case *ast.UnaryOp:
		v := a.lowerExpr(e.Operand)
		t := a.Code.NewTemp()
		a.Code.Emit(fmt.Sprintf("%s = %s %s", t, string(e.Op), v))
		return t
	default:
		panic(fmt.Sprintf("analyzer: unhandled expression type %T", expr))
	}
}

// formatNumber serializes a literal without decoration: whole values
// print without a decimal point, matching the integer-only semantics
// this layer guarantees.
func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
