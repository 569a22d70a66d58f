package analyzer

import (
	"github.com/btouchard/condor/internal/ast"
	"github.com/btouchard/condor/internal/diagnostics"
	"github.com/btouchard/condor/internal/scope"
	"github.com/btouchard/condor/internal/token"
)

// walkBlock opens the block's own scope (created by the parser with Scope
// == nil; the analyzer is responsible for wiring it to its parent — the
// parser only builds structure) and walks it.
func (a *Analyzer) walkBlock(b *ast.Block) {
	if b.Scope == nil {
		b.Scope = scope.New("", a.current())
	} else {
		b.Scope.Parent = a.current()
	}
	a.pushScope(b.Scope)
	defer a.popScope()
	a.walkStatements(b.Statements)
}

func (a *Analyzer) walkStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		if v, ok := s.(*ast.VarDecl); ok {
			a.current().Insert(v)
		}
		a.validateStatement(s)
	}
}

func (a *Analyzer) validateStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.VarDecl:
		a.ValidateVar(st)
	case *ast.IfStmt:
		a.ValidateIf(st)
	case *ast.ForStmt:
		a.ValidateFor(st)
	case *ast.WhileStmt:
		a.ValidateWhile(st)
	case *ast.SwitchStmt:
		a.ValidateSwitch(st)
	case *ast.ReturnStmt:
		if st.Value != nil {
			a.checkReturn(st, a.ValidateExpr(st.Value))
		}
	case *ast.BreakStmt, *ast.ContinueStmt:
		// Structural only: no break/continue-outside-loop diagnostic,
		// so nothing to validate beyond parsing.
	case *ast.ExprStmt:
		a.ValidateExpr(st.X)
	case *ast.AssignStmt:
		a.ValidateAssign(st)
	case *ast.Block:
		a.walkBlock(st)
	}
}

// ValidateIf validates the condition (must be boolean) and both branches.
func (a *Analyzer) ValidateIf(s *ast.IfStmt) {
	a.requireBoolean(s.Cond)
	if s.Then != nil {
		a.walkBlock(s.Then)
	}
	if s.Else != nil {
		a.validateStatement(s.Else)
	}
}

// ValidateFor opens a scope hosting the init statement (so a `for (var i =
// 0; ...)` counter is visible to cond/post/body only), then validates cond
// as boolean and walks the body.
func (a *Analyzer) ValidateFor(s *ast.ForStmt) {
	loopScope := scope.New("", a.current())
	a.pushScope(loopScope)
	defer a.popScope()

	if s.Init != nil {
		a.validateStatement(s.Init)
	}
	if s.Cond != nil {
		a.requireBoolean(s.Cond)
	}
	if s.Post != nil {
		a.validateStatement(s.Post)
	}
	if s.Body != nil {
		a.walkBlock(s.Body)
	}
}

func (a *Analyzer) ValidateWhile(s *ast.WhileStmt) {
	a.requireBoolean(s.Cond)
	if s.Body != nil {
		a.walkBlock(s.Body)
	}
}

// ValidateSwitch validates the tag expression and each case against it.
func (a *Analyzer) ValidateSwitch(s *ast.SwitchStmt) {
	tagType := a.ValidateExpr(s.Tag)
	for _, c := range s.Cases {
		a.ValidateCase(c, tagType)
	}
}

// ValidateCase checks each case value is assignable to the switch tag's
// type, then walks the case body in a scope of its own.
func (a *Analyzer) ValidateCase(c *ast.CaseClause, tagType token.Type) {
	for _, v := range c.Values {
		vt := a.ValidateExpr(v)
		if !a.assignable(vt, tagType) && !a.assignable(tagType, vt) {
			a.errorf(diagnostics.TypeMismatch, v.Pos(), "case value type %s does not match switch tag type %s", vt, tagType)
		}
	}
	caseScope := scope.New("", a.current())
	a.pushScope(caseScope)
	defer a.popScope()
	a.walkStatements(c.Body)
}

func (a *Analyzer) requireBoolean(e ast.Expression) {
	if e == nil {
		return
	}
	t := a.ValidateExpr(e)
	if t != token.BOOL_TYPE {
		a.errorf(diagnostics.TypeMismatch, e.Pos(), "condition must be boolean, got %s", t)
	}
}

// ValidateAssign checks the target is an identifier or member-access
// lvalue, and that the value is assignable to the target's resolved type.
func (a *Analyzer) ValidateAssign(s *ast.AssignStmt) {
	switch t := s.Target.(type) {
	case *ast.Identifier:
	case *ast.BinaryExpr:
		if t.Op != token.DOT {
			a.errorf(diagnostics.TypeMismatch, s.Position, "assignment target must be an identifier or member access")
		}
	default:
		a.errorf(diagnostics.TypeMismatch, s.Position, "assignment target must be an identifier or member access")
	}
	targetType := a.ValidateExpr(s.Target)
	valueType := a.ValidateExpr(s.Value)
	if !a.assignable(valueType, targetType) {
		a.errorf(diagnostics.TypeMismatch, s.Position, "cannot assign %s to %s", valueType, targetType)
	}
}
