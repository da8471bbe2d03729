package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triadc/triadc/pkg/parser"
)

func analyze(t *testing.T, src string) (*Analyzer, error) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	a := New()
	return a, a.Analyze(prog)
}

// S1: simple declaration and assignment.
func TestS1DeclarationAndAssignment(t *testing.T) {
	a, err := analyze(t, `int a; a = 3 + 4;`)
	require.NoError(t, err)
	assert.Equal(t, "t1 = 3\nt2 = 4\nt3 = t1 + t2\nMOV a, t3", a.Code.GetCode())
}

// S2: undeclared use.
func TestS2UndeclaredUseInAssignment(t *testing.T) {
	_, err := analyze(t, `a = 5;`)
	require.Error(t, err)
	assert.Equal(t, "Semantic Error: Undeclared variable 'a' used in assignment.", err.Error())
}

func TestUndeclaredUseInExpression(t *testing.T) {
	_, err := analyze(t, `int a; a = b + 1;`)
	require.Error(t, err)
	assert.Equal(t, "Semantic Error: Undeclared variable 'b' used in expression.", err.Error())
}

// S3: redeclaration.
func TestS3Redeclaration(t *testing.T) {
	_, err := analyze(t, `int a; int a;`)
	require.Error(t, err)
	assert.Equal(t, "Semantic Error: Variable 'a' already declared in this scope.", err.Error())
}

func TestShadowingAcrossBlockSucceeds(t *testing.T) {
	_, err := analyze(t, `int a; { int a; }`)
	assert.NoError(t, err)
}

// S4: if/else.
func TestS4IfElse(t *testing.T) {
	a, err := analyze(t, `int x; x = 1; if (x < 2) { x = 3; } else { x = 4; }`)
	require.NoError(t, err)
	want := "t1 = 1\nMOV x, t1\n" +
		"t2 = 2\n" +
		"IF x < t2 GOTO L1\n" +
		"GOTO L3\n" +
		"L1:\n" +
		"\tt3 = 3\n" +
		"\tMOV x, t3\n" +
		"GOTO L2\n" +
		"L3:\n" +
		"\tt4 = 4\n" +
		"\tMOV x, t4\n" +
		"L2:"
	assert.Equal(t, want, a.Code.GetCode())
}

func TestIfWithoutElse(t *testing.T) {
	a, err := analyze(t, `int x; x = 1; if (x < 2) { x = 3; }`)
	require.NoError(t, err)
	want := "t1 = 1\nMOV x, t1\n" +
		"t2 = 2\n" +
		"IF x < t2 GOTO L1\n" +
		"GOTO L2\n" +
		"L1:\n" +
		"\tt3 = 3\n" +
		"\tMOV x, t3\n" +
		"L2:"
	assert.Equal(t, want, a.Code.GetCode())
}

// S5: for loop with body.
func TestS5ForLoop(t *testing.T) {
	a, err := analyze(t, `int i; for (i = 0; i < 3; i++) { i = i + 1; }`)
	require.NoError(t, err)
	want := "t1 = 0\nMOV i, t1\n" +
		"L1:\n" +
		"t2 = 3\n" +
		"IF i < t2 GOTO L2\n" +
		"GOTO L3\n" +
		"L2:\n" +
		"\tt3 = 1\n" +
		"\tt4 = i + t3\n" +
		"\tMOV i, t4\n" +
		"\tADD i, i, 1\n" +
		"GOTO L1\n" +
		"L3:"
	assert.Equal(t, want, a.Code.GetCode())
}

func TestForInductionVariableScopedToLoop(t *testing.T) {
	_, err := analyze(t, `for (int i = 0; i < 3; i++) { i = i + 1; } i = 1;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undeclared variable 'i'")
}

func TestDeclarationInitializerSeesOwnName(t *testing.T) {
	// DESIGN NOTES §9.1: the declared name is inserted before its
	// initializer is checked, so self-reference passes analysis.
	_, err := analyze(t, `int a = a;`)
	assert.NoError(t, err)
}

func TestRepeatedCompilationIsDeterministic(t *testing.T) {
	src := `int a; a = 3 + 4;`
	a1, err := analyze(t, src)
	require.NoError(t, err)
	a2, err := analyze(t, src)
	require.NoError(t, err)
	assert.Equal(t, a1.Code.GetCode(), a2.Code.GetCode())
}

func TestResetAllowsIndependentRecompilation(t *testing.T) {
	a := New()
	prog1, err := parser.Parse(`int a; a = 1;`)
	require.NoError(t, err)
	require.NoError(t, a.Analyze(prog1))
	first := a.Code.GetCode()

	a.Reset()
	prog2, err := parser.Parse(`int a; a = 1;`)
	require.NoError(t, err)
	require.NoError(t, a.Analyze(prog2))

	assert.Equal(t, first, a.Code.GetCode())
}
