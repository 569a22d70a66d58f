package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btouchard/condor/internal/ast"
	"github.com/btouchard/condor/internal/token"
)

func TestNewFileInitializesScopeAndKind(t *testing.T) {
	f := ast.NewFile("main.cb")
	assert.Equal(t, ast.KindFile, f.Kind())
	require.NotNil(t, f.Scope)
	assert.Equal(t, "main.cb", f.Scope.Name)
}

func TestBasePosAndKind(t *testing.T) {
	v := &ast.VarDecl{
		Base: ast.Base{NodeKind: ast.KindVar, Position: token.Position{Line: 4, Column: 2}},
		Name: "x",
	}
	assert.Equal(t, ast.KindVar, v.Kind())
	assert.Equal(t, 4, v.Pos().Line)
	assert.Equal(t, "x", v.DeclName())
}

func TestVarDeclIsBothDeclarationAndStatement(t *testing.T) {
	v := &ast.VarDecl{Base: ast.Base{NodeKind: ast.KindVar}, Name: "count"}

	var _ ast.Statement = v
	var decl interface {
		DeclName() string
		DeclPos() token.Position
	} = v
	assert.Equal(t, "count", decl.DeclName())
}

func TestExportableSetExport(t *testing.T) {
	v := &ast.VarDecl{Base: ast.Base{NodeKind: ast.KindVar}, Name: "x"}

	var exportable ast.Exportable = v
	assert.False(t, v.IsExport)
	exportable.SetExport(true)
	assert.True(t, v.IsExport)
}

func TestExpressionTypeRoundTrip(t *testing.T) {
	id := &ast.Identifier{Base: ast.Base{NodeKind: ast.KindIdent}, Name: "x"}
	assert.Equal(t, token.Type(""), id.Type())

	ast.SetType(id, token.INT_TYPE)
	assert.Equal(t, token.INT_TYPE, id.Type())
}

func TestBlockDeclNameIsAnonymous(t *testing.T) {
	b := &ast.Block{Base: ast.Base{NodeKind: ast.KindBlock}}
	assert.Equal(t, "", b.DeclName())
}

func TestIfStmtElseHoldsNestedIfForElseIfChains(t *testing.T) {
	inner := &ast.IfStmt{Base: ast.Base{NodeKind: ast.KindIf}}
	outer := &ast.IfStmt{Base: ast.Base{NodeKind: ast.KindIf}, Else: inner}

	nested, ok := outer.Else.(*ast.IfStmt)
	require.True(t, ok)
	assert.Same(t, inner, nested)
}

func TestCallExprImplementsExpression(t *testing.T) {
	call := &ast.CallExpr{
		Base:   ast.Base{NodeKind: ast.KindCall},
		Callee: &ast.Identifier{Name: "print"},
		Args:   []ast.Expression{&ast.Literal{LitKind: token.STRING, Text: "hi"}},
	}
	var _ ast.Expression = call
	assert.Len(t, call.Args, 1)
}
