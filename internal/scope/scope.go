// Package scope implements the lexical environment the parser builds and the
// analyzer resolves identifiers against.
package scope

import "github.com/btouchard/condor/internal/token"

// Declaration is anything a Scope can bind a name to: a var, func, object or
// nested block. ast node types implement this without scope importing ast,
// which would otherwise create an import cycle (ast.Block embeds *Scope).
type Declaration interface {
	DeclName() string
	DeclPos() token.Position
}

// Scope is an ordered, insertion-order list of declarations with a parent
// link. Lookup walks the child list of the innermost scope outward through
// parents. A declaration is bound in the scope that declares it; the same
// declaration can also be inserted into further scopes (the orchestrator's
// import/include merge and the analyzer's extends merge do this), so it is
// not owned by exactly one scope.
type Scope struct {
	Name     string // file/function/block qualifier, for diagnostics
	Parent   *Scope
	children []Declaration
	byName   map[string]Declaration

	// isParsed guards the two-pass analysis (§4.3.2): it is set before a
	// scope's bodies are walked, so a forward reference that re-enters
	// ScanScope on the same scope sees headers without recursing into
	// bodies a second time.
	isParsed bool
}

func New(name string, parent *Scope) *Scope {
	return &Scope{
		Name:   name,
		Parent: parent,
		byName: make(map[string]Declaration),
	}
}

// Insert binds decl's name in this scope. A duplicate name is allowed at the
// storage layer — rejecting redeclaration is a semantic-analysis concern
// (DUPLICATE_MEMBER), not a structural one — but Insert keeps the first
// binding authoritative for Lookup so shadowing diagnostics can still see
// the original via Children().
func (s *Scope) Insert(decl Declaration) {
	s.children = append(s.children, decl)
	if _, exists := s.byName[decl.DeclName()]; !exists {
		s.byName[decl.DeclName()] = decl
	}
}

// Children returns the scope's declarations in insertion order.
func (s *Scope) Children() []Declaration {
	return s.children
}

// LookupLocal resolves name in this scope only, ignoring parents.
func (s *Scope) LookupLocal(name string) (Declaration, bool) {
	d, ok := s.byName[name]
	return d, ok
}

// Lookup resolves name by walking this scope then each parent in turn.
func (s *Scope) Lookup(name string) (Declaration, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if d, ok := cur.byName[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// IsAncestorOf reports whether s is on other's parent chain (or is other
// itself). Only this package's own tests call it.
func (s *Scope) IsAncestorOf(other *Scope) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == s {
			return true
		}
	}
	return false
}

func (s *Scope) IsParsed() bool   { return s.isParsed }
func (s *Scope) SetParsed(v bool) { s.isParsed = v }
