package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btouchard/condor/internal/scope"
	"github.com/btouchard/condor/internal/token"
)

type fakeDecl struct {
	name string
	pos  token.Position
}

func (d fakeDecl) DeclName() string        { return d.name }
func (d fakeDecl) DeclPos() token.Position { return d.pos }

func TestInsertAndLookupLocal(t *testing.T) {
	s := scope.New("file", nil)
	s.Insert(fakeDecl{name: "x"})

	decl, ok := s.LookupLocal("x")
	require.True(t, ok)
	assert.Equal(t, "x", decl.DeclName())

	_, ok = s.LookupLocal("y")
	assert.False(t, ok)
}

func TestLookupWalksParentChain(t *testing.T) {
	outer := scope.New("file", nil)
	outer.Insert(fakeDecl{name: "x"})

	inner := scope.New("block", outer)
	inner.Insert(fakeDecl{name: "y"})

	decl, ok := inner.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "x", decl.DeclName())

	_, ok = outer.Lookup("y")
	assert.False(t, ok, "outer scope must not see inner declarations")
}

func TestFirstBindingIsAuthoritative(t *testing.T) {
	s := scope.New("file", nil)
	s.Insert(fakeDecl{name: "x", pos: token.Position{Line: 1}})
	s.Insert(fakeDecl{name: "x", pos: token.Position{Line: 2}})

	decl, ok := s.LookupLocal("x")
	require.True(t, ok)
	assert.Equal(t, 1, decl.DeclPos().Line)
	assert.Len(t, s.Children(), 2, "both declarations remain visible via Children for diagnostics")
}

func TestIsAncestorOf(t *testing.T) {
	file := scope.New("file", nil)
	block := scope.New("block", file)
	nested := scope.New("nested", block)

	assert.True(t, file.IsAncestorOf(block))
	assert.True(t, file.IsAncestorOf(nested))
	assert.True(t, file.IsAncestorOf(file))
	assert.False(t, nested.IsAncestorOf(file))
}

func TestIsParsedGuard(t *testing.T) {
	s := scope.New("file", nil)
	assert.False(t, s.IsParsed())
	s.SetParsed(true)
	assert.True(t, s.IsParsed())
}
