package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btouchard/condor/internal/ast"
	"github.com/btouchard/condor/internal/parser"
	"github.com/btouchard/condor/internal/scanner"
	"github.com/btouchard/condor/internal/token"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	p := parser.New(scanner.New(src), "test.cb")
	file := p.ParseFile()
	require.False(t, p.Errors().HasErrors(), "unexpected parse errors: %v", p.Errors().Errors())
	return file
}

func TestParseVarDeclInferredAndTyped(t *testing.T) {
	file := parse(t, `var x = 1; var y int = 2;`)

	decls := file.Scope.Children()
	require.Len(t, decls, 2)

	x, ok := decls[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", x.Name)
	assert.Equal(t, token.Type(""), x.DeclaredType.Type)

	y, ok := decls[1].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, token.INT_TYPE, y.DeclaredType.Type)
}

func TestParseFuncDeclWithParamsAndReturnType(t *testing.T) {
	file := parse(t, `func add(a: int, b: int) int { return a + b; }`)

	decls := file.Scope.Children()
	require.Len(t, decls, 1)
	fn, ok := decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, token.INT_TYPE, fn.ReturnType.Type)
	require.Len(t, fn.Body.Statements, 1)
}

func TestParseVariadicParams(t *testing.T) {
	file := parse(t, `func sum(...values: int) int { return 0; }`)

	fn := file.Scope.Children()[0].(*ast.FuncDecl)
	assert.True(t, fn.Variadic)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "values", fn.Params[0].Name)
}

func TestPrattPrecedenceOfArithmeticAndLogical(t *testing.T) {
	file := parse(t, `var x = 1 + 2 * 3 == 7 && true;`)

	x := file.Scope.Children()[0].(*ast.VarDecl)
	and, ok := x.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.AND, and.Op)

	eq, ok := and.Left.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.EQ, eq.Op)

	sum, ok := eq.Left.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.PLUS, sum.Op)

	product, ok := sum.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.ASTERISK, product.Op)
}

func TestCastVsGroupedExpressionDisambiguation(t *testing.T) {
	file := parse(t, `var x = (int) 1.5; var y = (1 + 2) * 3;`)

	x := file.Scope.Children()[0].(*ast.VarDecl)
	cast, ok := x.Init.(*ast.CastExpr)
	require.True(t, ok, "expected a cast expression, got %T", x.Init)
	assert.Equal(t, token.INT_TYPE, cast.Target)

	y := file.Scope.Children()[1].(*ast.VarDecl)
	mul, ok := y.Init.(*ast.BinaryExpr)
	require.True(t, ok, "expected a grouped-then-multiplied expression, got %T", y.Init)
	assert.Equal(t, token.ASTERISK, mul.Op)
	_, ok = mul.Left.(*ast.BinaryExpr)
	require.True(t, ok, "left of '*' must be the grouped '1 + 2'")
}

func TestParseArrayLiteral(t *testing.T) {
	file := parse(t, `var xs = [int]{1, 2, 3};`)

	decl := file.Scope.Children()[0].(*ast.VarDecl)
	arr, ok := decl.Init.(*ast.ArrayLit)
	require.True(t, ok)
	assert.Equal(t, token.INT_TYPE, arr.ElemType.Type)
	assert.Len(t, arr.Elements, 3)
}

func TestParseNewExpressionDesugarsToCall(t *testing.T) {
	file := parse(t, `var p = new Point(1, 2);`)

	decl := file.Scope.Children()[0].(*ast.VarDecl)
	call, ok := decl.Init.(*ast.CallExpr)
	require.True(t, ok)
	callee, ok := call.Callee.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "Point", callee.Name)
	assert.Len(t, call.Args, 2)
}

func TestParseIfElseIfChain(t *testing.T) {
	file := parse(t, `func f() { if (true) { var a = 1; } else if (false) { var b = 2; } else { var c = 3; } }`)

	fn := file.Scope.Children()[0].(*ast.FuncDecl)
	ifStmt, ok := fn.Body.Statements[0].(*ast.IfStmt)
	require.True(t, ok)

	elseIf, ok := ifStmt.Else.(*ast.IfStmt)
	require.True(t, ok, "else-if must parse as a nested IfStmt")
	_, ok = elseIf.Else.(*ast.Block)
	require.True(t, ok, "final else must be a plain block")
}

func TestParseForAndWhile(t *testing.T) {
	file := parse(t, `func f() {
		for (var i = 0; i < 10; i += 1) { }
		while (true) { }
	}`)

	fn := file.Scope.Children()[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Statements, 2)

	forStmt, ok := fn.Body.Statements[0].(*ast.ForStmt)
	require.True(t, ok)
	require.NotNil(t, forStmt.Init)
	require.NotNil(t, forStmt.Cond)
	require.NotNil(t, forStmt.Post)

	_, ok = fn.Body.Statements[1].(*ast.WhileStmt)
	require.True(t, ok)
}

func TestParseSwitchStmt(t *testing.T) {
	file := parse(t, `func f() {
		switch (1) {
		case 1, 2:
			break;
		default:
			break;
		}
	}`)

	fn := file.Scope.Children()[0].(*ast.FuncDecl)
	sw, ok := fn.Body.Statements[0].(*ast.SwitchStmt)
	require.True(t, ok)
	require.Len(t, sw.Cases, 2)
	assert.Len(t, sw.Cases[0].Values, 2)
	assert.True(t, sw.Cases[1].IsDefault)
}

func TestParseObjectWithExtendsAndConstructor(t *testing.T) {
	file := parse(t, `object Animal {
		var name string = "";
	}
	object Dog extends Animal {
		func Dog() { }
		func bark() string { return "woof"; }
	}`)

	decls := file.Scope.Children()
	require.Len(t, decls, 2)

	dog, ok := decls[1].(*ast.ObjectDecl)
	require.True(t, ok)
	assert.Equal(t, "Animal", dog.Extends)

	members := dog.Members.Children()
	require.Len(t, members, 2)
	ctor, ok := members[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.True(t, ctor.IsConstructor)
}

func TestParseMemberAccessAndAssignment(t *testing.T) {
	file := parse(t, `func f() {
		a.b = 1;
		a.b.c += 2;
	}`)

	fn := file.Scope.Children()[0].(*ast.FuncDecl)
	require.Len(t, fn.Body.Statements, 2)

	assign, ok := fn.Body.Statements[0].(*ast.AssignStmt)
	require.True(t, ok)
	member, ok := assign.Target.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.DOT, member.Op)

	compound, ok := fn.Body.Statements[1].(*ast.AssignStmt)
	require.True(t, ok)
	assert.Equal(t, token.PLUS_ASSIGN, compound.Op)
}

func TestParsePublicModifier(t *testing.T) {
	file := parse(t, `public var x = 1; public func f() { }`)

	decls := file.Scope.Children()
	require.Len(t, decls, 2)
	assert.True(t, decls[0].(*ast.VarDecl).IsExport)
	assert.True(t, decls[1].(*ast.FuncDecl).IsExport)
}

func TestParseImportAndIncludeRecordedVerbatim(t *testing.T) {
	file := parse(t, `import "app"; include "util.cb"; var x = 1;`)

	require.Len(t, file.Imports, 1)
	assert.Equal(t, "app", file.Imports[0].Name)
	require.Len(t, file.Includes, 1)
	assert.Equal(t, "util.cb", file.Includes[0].Path)
}
