// Package analyzer implements two-pass semantic analysis: identifier
// resolution, type-checking, and declaration validation over the AST the
// parser produces. Declaration headers are resolved in a first pass so
// bodies can reference declarations appearing later in the same file;
// bodies are then validated in a second pass, including object
// extends/override checks and the this-stack for method bodies.
package analyzer

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/btouchard/condor/internal/ast"
	"github.com/btouchard/condor/internal/diagnostics"
	"github.com/btouchard/condor/internal/scope"
	"github.com/btouchard/condor/internal/token"
)

// Analyzer walks one file's AST. Construct one per file; it is not
// reentrant-safe across goroutines — this language's re-entry model is
// single-threaded cooperative.
type Analyzer struct {
	errs   *diagnostics.List
	log    hclog.Logger
	scopes []*scope.Scope    // stack, top = scopes[0]
	this   []*ast.ObjectDecl // stack, top = this[len-1]

	// returnDeclared/returnInferred track the enclosing function's return
	// type while walking its body, one slot per nesting level (functions
	// never nest in this language, but object methods do share the walk).
	returnDeclared []token.Type
	returnInferred []token.Type

	// objects indexes every ObjectDecl seen in the file scope by name, so
	// `extends`/`new T(...)`/member access can find the declaration behind
	// an object-typed identifier.
	objects map[string]*ast.ObjectDecl
	// objectTypeOf records, out-of-band, which object an expression whose
	// canonical type is token.ObjectType actually names — Type is a closed
	// token.Type enum and has no room for a payload (see token.ObjectType).
	objectTypeOf map[ast.Expression]string
}

// New builds an Analyzer. log may be nil, in which case a null logger is
// used so library callers never see output unless they ask.
func New(log hclog.Logger) *Analyzer {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Analyzer{
		errs:         &diagnostics.List{},
		log:          log,
		objects:      make(map[string]*ast.ObjectDecl),
		objectTypeOf: make(map[ast.Expression]string),
	}
}

func (a *Analyzer) Errors() *diagnostics.List { return a.errs }

func (a *Analyzer) pushScope(s *scope.Scope) { a.scopes = append([]*scope.Scope{s}, a.scopes...) }
func (a *Analyzer) popScope()                { a.scopes = a.scopes[1:] }
func (a *Analyzer) current() *scope.Scope    { return a.scopes[0] }

// swapScope temporarily replaces the whole scope stack with a single
// scope (used for `a.b` member resolution) and returns a restore func so
// the caller can `defer restore()`, guaranteeing the stack is restored on
// every exit path.
func (a *Analyzer) swapScope(s *scope.Scope) (restore func()) {
	prev := a.scopes
	a.scopes = []*scope.Scope{s}
	return func() { a.scopes = prev }
}

func (a *Analyzer) pushReturn(declared token.Type) {
	a.returnDeclared = append(a.returnDeclared, declared)
	a.returnInferred = append(a.returnInferred, "")
}

// popReturn pops the return-type tracking frame and reports what was
// inferred (empty if the function declared an explicit return type).
func (a *Analyzer) popReturn() token.Type {
	n := len(a.returnDeclared) - 1
	inferred := a.returnInferred[n]
	a.returnDeclared = a.returnDeclared[:n]
	a.returnInferred = a.returnInferred[:n]
	return inferred
}

// checkReturn validates a return statement's value against the declared
// return type in scope, or records it as the inferred type if none was
// declared and nothing has been inferred yet.
func (a *Analyzer) checkReturn(ret *ast.ReturnStmt, valueType token.Type) {
	if len(a.returnDeclared) == 0 {
		return
	}
	top := len(a.returnDeclared) - 1
	declared := a.returnDeclared[top]
	if declared != "" {
		if !a.assignable(valueType, declared) {
			a.errorf(diagnostics.TypeMismatch, ret.Position, "return type mismatch: got %s, want %s", valueType, declared)
		}
		return
	}
	if a.returnInferred[top] == "" {
		a.returnInferred[top] = valueType
	}
}

func (a *Analyzer) pushThis(o *ast.ObjectDecl) { a.this = append(a.this, o) }
func (a *Analyzer) popThis()                   { a.this = a.this[:len(a.this)-1] }
func (a *Analyzer) currentThis() *ast.ObjectDecl {
	if len(a.this) == 0 {
		return nil
	}
	return a.this[len(a.this)-1]
}

func (a *Analyzer) errorf(kind diagnostics.Kind, pos token.Position, format string, args ...interface{}) {
	a.errs.Add(diagnostics.New(kind, diagnostics.PhaseSemantic, pos, fmt.Sprintf(format, args...)))
}

// Analyze runs ScanScope over the file's top-level scope. This is the single
// entry point the orchestrator calls after a file's imports/includes have
// been merged into file.Scope.
func (a *Analyzer) Analyze(file *ast.File) {
	for _, o := range file.Scope.Children() {
		if decl, ok := o.(*ast.ObjectDecl); ok {
			a.objects[decl.Name] = decl
		}
	}
	a.pushScope(file.Scope)
	defer a.popScope()
	a.ScanScope(file.Scope)
}

// ScanScope runs a two-pass walk: pass 1 validates headers (declared
// types, parameter lists) without descending into bodies; pass 2 walks
// bodies. The isParsed flag on Scope prevents a forward
// reference from re-triggering pass 2 while pass 2 is already underway.
func (a *Analyzer) ScanScope(s *scope.Scope) {
	if s.IsParsed() {
		return
	}
	s.SetParsed(true)

	for _, decl := range s.Children() {
		a.validateHeader(decl)
	}
	for _, decl := range s.Children() {
		a.validateBody(decl)
	}
}

func (a *Analyzer) validateHeader(decl scope.Declaration) {
	switch d := decl.(type) {
	case *ast.VarDecl:
		if d.DeclaredType.Type != "" {
			d.ResolvedType = token.Canonical(d.DeclaredType.Type)
		}
	case *ast.FuncDecl:
		// Parameter/return types are already resolved tokens from the
		// parser; nothing further to precompute before body-walking.
	case *ast.ObjectDecl:
		if d.Extends != "" {
			if base, ok := a.objects[d.Extends]; ok {
				d.Base_ = base
			} else {
				a.errorf(diagnostics.Undefined, d.Position, "undefined base object %q", d.Extends)
			}
		}
	}
}

func (a *Analyzer) validateBody(decl scope.Declaration) {
	switch d := decl.(type) {
	case *ast.VarDecl:
		a.ValidateVar(d)
	case *ast.FuncDecl:
		a.ValidateFunc(d)
	case *ast.ObjectDecl:
		a.ValidateObject(d)
	case *ast.Block:
		a.walkBlock(d)
	}
}

// ValidateVar determines a var's type from its initializer (and checks
// assignability against a declared type if present). Binding into a scope
// happens elsewhere — Scope.Insert at parse time for top-level and member
// vars, walkStatements for block-local vars — so here we only need to
// resolve+check the type.
func (a *Analyzer) ValidateVar(v *ast.VarDecl) {
	var initType token.Type
	if v.Init != nil {
		initType = a.ValidateExpr(v.Init)
	}

	switch {
	case v.DeclaredType.Type != "" && v.Init != nil:
		declared := token.Canonical(v.DeclaredType.Type)
		if !a.assignable(initType, declared) {
			a.errorf(diagnostics.TypeMismatch, v.AssignPos, "cannot assign %s to %s %s", initType, declared, v.Name)
			return
		}
		v.ResolvedType = declared
	case v.DeclaredType.Type != "":
		v.ResolvedType = token.Canonical(v.DeclaredType.Type)
	default:
		v.ResolvedType = initType
	}
}

// ValidateFunc opens a scope for parameters + body, walks the body, and
// unifies every return statement's expression type with the declared
// return type (or, if the return type was omitted, infers it from the
// first return encountered).
func (a *Analyzer) ValidateFunc(f *ast.FuncDecl) {
	if f.Body == nil {
		return
	}
	f.Body.Scope = scope.New(f.Name, a.current())
	for _, p := range f.Params {
		// Parameters are synthetic VarDecls: no initializer, declared type
		// only, bound directly into the function's body scope.
		f.Body.Scope.Insert(&ast.VarDecl{
			Base:         ast.Base{Position: f.Position},
			Name:         p.Name,
			DeclaredType: p.Type,
			ResolvedType: token.Canonical(p.Type.Type),
		})
	}

	a.pushScope(f.Body.Scope)
	a.pushReturn(token.Canonical(f.ReturnType.Type))
	defer a.popScope()
	defer func() {
		if inferred := a.popReturn(); f.ReturnType.Type == "" && inferred != "" {
			f.ReturnType = token.Token{Type: inferred}
		}
	}()

	a.walkStatements(f.Body.Statements)
}

// ValidateObject validates each member; if the object extends a base, the
// base's members are merged first, an override with a mismatched
// signature being a DUPLICATE_MEMBER error: same-name methods override
// only if their signatures match.
func (a *Analyzer) ValidateObject(o *ast.ObjectDecl) {
	o.Members.Parent = a.current()

	if o.Base_ != nil {
		a.mergeBase(o, o.Base_)
	}

	a.pushScope(o.Members)
	a.pushThis(o)
	defer a.popThis()
	defer a.popScope()

	a.ScanScope(o.Members)
}

func (a *Analyzer) mergeBase(o, base *ast.ObjectDecl) {
	for _, decl := range base.Members.Children() {
		fn, isFunc := decl.(*ast.FuncDecl)
		if existing, ok := o.Members.LookupLocal(decl.DeclName()); ok {
			existingFn, existingIsFunc := existing.(*ast.FuncDecl)
			if isFunc && existingIsFunc {
				if !sameSignature(fn, existingFn) {
					a.errorf(diagnostics.DuplicateMember, existing.DeclPos(), "method %s overrides %s.%s with a different signature", existingFn.Name, base.Name, fn.Name)
				}
				continue // override accepted, keep the derived body
			}
			a.errorf(diagnostics.DuplicateMember, existing.DeclPos(), "member %s duplicates inherited member from %s", decl.DeclName(), base.Name)
			continue
		}
		o.Members.Insert(decl)
	}
}

func sameSignature(a, b *ast.FuncDecl) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if token.Canonical(a.Params[i].Type.Type) != token.Canonical(b.Params[i].Type.Type) {
			return false
		}
	}
	return token.Canonical(a.ReturnType.Type) == token.Canonical(b.ReturnType.Type)
}

// assignable holds when A == B; or both are numeric and A widens to B
// (int -> float -> double, char -> int); or B is string (any primitive
// implicitly stringifies for `+`).
func (a *Analyzer) assignable(from, to token.Type) bool {
	if from == to {
		return true
	}
	if to == token.STRING_TYPE {
		return token.IsNumeric(from) || from == token.BOOL_TYPE
	}
	if token.IsNumeric(from) && token.IsNumeric(to) {
		return widens(from, to)
	}
	return false
}

// widens encodes the numeric promotion chain char -> int -> float -> double.
func widens(from, to token.Type) bool {
	rank := map[token.Type]int{
		token.CHAR_TYPE:   0,
		token.INT_TYPE:    1,
		token.FLOAT_TYPE:  2,
		token.DOUBLE_TYPE: 3,
	}
	fr, fok := rank[from]
	tr, tok := rank[to]
	return fok && tok && fr <= tr
}
