// Package driver orchestrates one compilation: reset the reusable
// state, analyze (which lowers to TAC as a side effect on success),
// then run the assembly generator over the resulting TAC text.
package driver

import (
	"github.com/triadc/triadc/pkg/analyzer"
	"github.com/triadc/triadc/pkg/asmgen"
	"github.com/triadc/triadc/pkg/parser"
	"github.com/triadc/triadc/pkg/symbols"
)

// Result holds every artifact a successful compilation can produce.
type Result struct {
	TAC      string
	Assembly string
}

// Driver is a reusable compiler instance. Each Compile call is
// independent: Reset() runs at entry so repeated invocations never
// see state from a previous call.
type Driver struct {
	analyzer *analyzer.Analyzer
}

// New returns a Driver with a fresh analyzer.
func New() *Driver {
	return &Driver{analyzer: analyzer.New()}
}

// Compile parses src, analyzes it, and on success lowers the TAC to
// assembly. A *analyzer.SemanticError or a parser error aborts the
// compilation before any artifact is produced.
func (d *Driver) Compile(src string) (*Result, error) {
	d.analyzer.Reset()

	root, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}

	if err := d.analyzer.Analyze(root); err != nil {
		return nil, err
	}

	tacText := d.analyzer.Code.GetCode()
	asmText := asmgen.GenerateFromTAC(tacText)

	return &Result{TAC: tacText, Assembly: asmText}, nil
}

// Symbols returns the symbol table built by the most recent Compile
// call. It is reset at the start of the next call, so callers that
// need it (the CLI's --symbols dump) must read it before compiling
// again.
func (d *Driver) Symbols() *symbols.Table {
	return d.analyzer.Symbols
}
