// Package diagnostics turns the core's errors (lexer, parser,
// semantic) into a user-visible banner: a first line identifying the
// cause (followed by the source line and a caret when a position is
// known), with no compile artifacts printed alongside it.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/triadc/triadc/pkg/analyzer"
	"github.com/triadc/triadc/pkg/lexer"
	"github.com/triadc/triadc/pkg/parser"
)

// CompileError wraps a core error with enough context to render a
// one-glance banner: which phase raised it, the message, and, when
// the failure carries a source position, the offending line with a
// caret under the column.
type CompileError struct {
	Phase         string
	Message       string
	Line          int // 0 if unknown
	Column        int // 0 if unknown
	SourceSnippet string
}

// Error satisfies the error interface with the plain-text banner.
func (e *CompileError) Error() string {
	return e.Format(false)
}

// Format renders the banner, optionally with fatih/color highlighting
// for the phase tag and the caret line.
func (e *CompileError) Format(useColor bool) string {
	var b strings.Builder

	header := fmt.Sprintf("[%s] %s", e.Phase, e.Message)
	if useColor {
		header = color.New(color.FgRed, color.Bold).Sprint(header)
	}
	b.WriteString(header)

	if e.Line > 0 && e.SourceSnippet != "" {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %d | %s\n", e.Line, e.SourceSnippet)
		caret := strings.Repeat(" ", len(fmt.Sprintf("  %d | ", e.Line))+max(0, e.Column-1)) + "^"
		if useColor {
			caret = color.New(color.FgYellow).Sprint(caret)
		}
		b.WriteString(caret)
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// FromError classifies err against the core's known error types and
// attaches a source snippet from src when a position is available.
// Unrecognized errors (e.g. from an external collaborator the core
// never produces) still get a generic banner.
func FromError(err error, src string) *CompileError {
	lines := strings.Split(src, "\n")
	snippetFor := func(line int) string {
		if line >= 1 && line <= len(lines) {
			return lines[line-1]
		}
		return ""
	}

	switch e := err.(type) {
	case *analyzer.SemanticError:
		return &CompileError{Phase: "semantic", Message: e.Message}
	case *parser.Error:
		return &CompileError{Phase: "parse", Message: e.Message, Line: e.Line, Column: e.Column, SourceSnippet: snippetFor(e.Line)}
	case *lexer.Error:
		return &CompileError{Phase: "lex", Message: e.Message, Line: e.Line, Column: e.Column, SourceSnippet: snippetFor(e.Line)}
	default:
		return &CompileError{Phase: "compile", Message: err.Error()}
	}
}
