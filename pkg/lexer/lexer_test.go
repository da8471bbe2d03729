package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeDeclaration(t *testing.T) {
	toks, err := New(`int a = 3 + 4;`).Tokenize()
	require.NoError(t, err)

	kinds := make([]Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{Keyword, Ident, Assign, Number, Plus, Number, Semicolon, EOF}, kinds)
}

func TestTokenizeRelationalAndIncrement(t *testing.T) {
	toks, err := New(`i <= 3; i++; i != 2;`).Tokenize()
	require.NoError(t, err)

	var sawLe, sawIncrement, sawNotEq bool
	for _, tok := range toks {
		switch tok.Kind {
		case Le:
			sawLe = true
		case Increment:
			sawIncrement = true
		case NotEq:
			sawNotEq = true
		}
	}
	assert.True(t, sawLe)
	assert.True(t, sawIncrement)
	assert.True(t, sawNotEq)
}

func TestTokenizeFloatLiteral(t *testing.T) {
	toks, err := New(`3.5`).Tokenize()
	require.NoError(t, err)
	require.Equal(t, Number, toks[0].Kind)
	assert.Equal(t, "3.5", toks[0].Lit)
}

func TestTokenizeSkipsLineComments(t *testing.T) {
	toks, err := New("int a; // trailing comment\nint b;").Tokenize()
	require.NoError(t, err)

	var idents []string
	for _, tok := range toks {
		if tok.Kind == Ident {
			idents = append(idents, tok.Lit)
		}
	}
	assert.Equal(t, []string{"a", "b"}, idents)
}

func TestUnexpectedCharacterReportsPosition(t *testing.T) {
	_, err := New(`int a = @;`).Tokenize()
	require.Error(t, err)
	lexErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, 1, lexErr.Line)
}

func TestKindStringNamesKnownKindsAndFallsBackToUnknown(t *testing.T) {
	assert.Equal(t, "NUMBER", Number.String())
	assert.Equal(t, "IDENT", Ident.String())
	assert.Equal(t, "UNKNOWN", Kind(999).String())
}

func TestTokenStringIncludesPositionAndLiteral(t *testing.T) {
	tok := Token{Kind: Ident, Lit: "a", Line: 1, Column: 5}
	assert.Equal(t, "1:5\tIDENT\t\"a\"", tok.String())
}
