package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btouchard/condor/internal/analyzer"
	"github.com/btouchard/condor/internal/ast"
	"github.com/btouchard/condor/internal/parser"
	"github.com/btouchard/condor/internal/scanner"
	"github.com/btouchard/condor/internal/token"
)

func analyze(t *testing.T, src string) (*ast.File, *analyzer.Analyzer) {
	t.Helper()
	p := parser.New(scanner.New(src), "test.cb")
	file := p.ParseFile()
	require.False(t, p.Errors().HasErrors(), "unexpected parse errors: %v", p.Errors().Errors())

	a := analyzer.New(nil)
	a.Analyze(file)
	return file, a
}

func TestInferredVarTypeFromArithmetic(t *testing.T) {
	file, a := analyze(t, `var x = 1 + 2;`)
	require.False(t, a.Errors().HasErrors(), "unexpected semantic errors: %v", a.Errors().Errors())

	x := file.Scope.Children()[0].(*ast.VarDecl)
	assert.Equal(t, token.INT_TYPE, x.ResolvedType)
}

func TestUndefinedIdentifierReported(t *testing.T) {
	_, a := analyze(t, `var x = y + 1;`)
	require.True(t, a.Errors().HasErrors())
	errs := a.Errors().Errors()
	assert.Equal(t, "UNDEFINED", string(errs[0].Kind))
}

func TestForwardReferenceAcrossTopLevelDecls(t *testing.T) {
	// Two-pass analysis (header pass, then body pass) lets f call g even
	// though g is declared later in the file.
	_, a := analyze(t, `
		func f() int { return g(); }
		func g() int { return 1; }
	`)
	assert.False(t, a.Errors().HasErrors(), "unexpected semantic errors: %v", a.Errors().Errors())
}

func TestAssignabilityWidensNumericButNotNarrows(t *testing.T) {
	_, a := analyze(t, `var x int = 1; var y double = x;`)
	assert.False(t, a.Errors().HasErrors(), "int -> double should widen: %v", a.Errors().Errors())

	_, a2 := analyze(t, `var x double = 1.5; var y int = x;`)
	require.True(t, a2.Errors().HasErrors(), "double -> int must not be assignable without a cast")
	assert.Equal(t, "TYPE_MISMATCH", string(a2.Errors().Errors()[0].Kind))
}

func TestTypeMismatchDiagnosticPointsAtAssignToken(t *testing.T) {
	_, a := analyze(t, `var x int = "hi";`)
	require.True(t, a.Errors().HasErrors())
	errs := a.Errors().Errors()
	assert.Equal(t, "TYPE_MISMATCH", string(errs[0].Kind))
	assert.Equal(t, 1, errs[0].Pos.Line)
	assert.Equal(t, 11, errs[0].Pos.Column, "caret must align with the '=' token, not the initializer")
}

func TestAnyPrimitiveAssignableToString(t *testing.T) {
	_, a := analyze(t, `var x int = 1; var y string = x;`)
	assert.False(t, a.Errors().HasErrors(), "any primitive should be assignable to string: %v", a.Errors().Errors())
}

func TestCastMatrixAllowsNumericAndStringConversions(t *testing.T) {
	_, a := analyze(t, `var x double = (double) 1; var y string = (string) 2.5; var z int = (int) "3";`)
	assert.False(t, a.Errors().HasErrors(), "unexpected cast errors: %v", a.Errors().Errors())
}

func TestCastMatrixRejectsBoolToNumeric(t *testing.T) {
	_, a := analyze(t, `var x int = (int) true;`)
	require.True(t, a.Errors().HasErrors())
	assert.Equal(t, "INVALID_CAST", string(a.Errors().Errors()[0].Kind))
}

func TestObjectExtendsMergesBaseMembers(t *testing.T) {
	file, a := analyze(t, `
		object Animal {
			func speak() string { return "..."; }
		}
		object Dog extends Animal {
			func bark() string { return "woof"; }
		}
	`)
	require.False(t, a.Errors().HasErrors(), "unexpected semantic errors: %v", a.Errors().Errors())

	dog := file.Scope.Children()[1].(*ast.ObjectDecl)
	_, ok := dog.Members.LookupLocal("speak")
	assert.True(t, ok, "inherited member must be visible via the derived object's own scope")
}

func TestObjectOverrideWithMismatchedSignatureIsDuplicateMember(t *testing.T) {
	_, a := analyze(t, `
		object Animal {
			func speak() string { return "..."; }
		}
		object Dog extends Animal {
			func speak() int { return 1; }
		}
	`)
	require.True(t, a.Errors().HasErrors())
	assert.Equal(t, "DUPLICATE_MEMBER", string(a.Errors().Errors()[0].Kind))
}

func TestMemberAccessResolvesThroughObjectScope(t *testing.T) {
	_, a := analyze(t, `
		object Point {
			var x int = 0;
			func Point() { this.x = 1; }
		}
	`)
	assert.False(t, a.Errors().HasErrors(), "unexpected semantic errors: %v", a.Errors().Errors())
}

func TestConditionMustBeBoolean(t *testing.T) {
	_, a := analyze(t, `func f() { if (1) { } }`)
	require.True(t, a.Errors().HasErrors())
	assert.Equal(t, "TYPE_MISMATCH", string(a.Errors().Errors()[0].Kind))
}

func TestArgumentCountMismatch(t *testing.T) {
	_, a := analyze(t, `
		func add(a: int, b: int) int { return a + b; }
		func main() { add(1); }
	`)
	require.True(t, a.Errors().HasErrors())
	assert.Equal(t, "TYPE_MISMATCH", string(a.Errors().Errors()[0].Kind))
}
