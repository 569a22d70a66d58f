package analyzer

import (
	"github.com/btouchard/condor/internal/ast"
	"github.com/btouchard/condor/internal/diagnostics"
	"github.com/btouchard/condor/internal/scope"
	"github.com/btouchard/condor/internal/token"
)

// intrinsics names host-implemented functions ValidateInternal recognizes
// without a FuncDecl backing them — the print/len surface a minimal runtime
// needs.
var intrinsics = map[string]struct {
	params []token.Type // empty/variadic-compatible: nil means "any"
	ret    token.Type
}{
	"print":  {ret: token.VOID_TYPE},
	"len":    {ret: token.INT_TYPE},
	"string": {ret: token.STRING_TYPE},
}

// ValidateExpr dispatches on node kind and returns the expression's
// canonical resolved type, annotating the node in place via ast.SetType so
// a second visit (e.g. from the printer) doesn't need to re-resolve it.
func (a *Analyzer) ValidateExpr(e ast.Expression) token.Type {
	if e == nil {
		return ""
	}
	var t token.Type
	switch x := e.(type) {
	case *ast.Literal:
		t = a.validateLiteral(x)
	case *ast.Identifier:
		t = a.validateIdentifier(x)
	case *ast.BinaryExpr:
		t = a.validateBinary(x)
	case *ast.UnaryExpr:
		t = a.validateUnary(x)
	case *ast.CallExpr:
		t = a.validateCall(x)
	case *ast.ArrayLit:
		t = a.validateArray(x)
	case *ast.IndexExpr:
		t = a.validateIndex(x)
	case *ast.CastExpr:
		t = a.ValidateCast(x)
	default:
		a.errorf(diagnostics.Internal, e.Pos(), "unhandled expression kind")
	}
	ast.SetType(e, t)
	return t
}

func (a *Analyzer) validateLiteral(l *ast.Literal) token.Type {
	return token.Canonical(l.LitKind)
}

// validateIdentifier resolves an identifier by walking the scope stack
// from innermost to outermost, including `this` when walking inside an
// object method.
func (a *Analyzer) validateIdentifier(id *ast.Identifier) token.Type {
	if id.Name == "this" {
		if obj := a.currentThis(); obj != nil {
			id.Decl = obj
			a.objectTypeOf[id] = obj.Name
			return token.ObjectType
		}
		a.errorf(diagnostics.Undefined, id.Position, "'this' used outside an object method")
		return ""
	}

	if decl, ok := a.current().Lookup(id.Name); ok {
		id.Decl = decl
		return a.typeOfDecl(id, decl)
	}
	a.errorf(diagnostics.Undefined, id.Position, "undefined identifier %q", id.Name)
	return ""
}

func (a *Analyzer) typeOfDecl(id *ast.Identifier, decl scope.Declaration) token.Type {
	switch d := decl.(type) {
	case *ast.VarDecl:
		return d.ResolvedType
	case *ast.FuncDecl:
		return token.Canonical(d.ReturnType.Type)
	case *ast.ObjectDecl:
		a.objectTypeOf[id] = d.Name
		return token.ObjectType
	default:
		return ""
	}
}

// validateBinary handles both `a.b` member access (Op == DOT, swapping the
// scope stack into the left side's object scope to resolve the right side)
// and arithmetic/logical/comparison operators.
func (a *Analyzer) validateBinary(b *ast.BinaryExpr) token.Type {
	if b.Op == token.DOT {
		return a.validateMemberAccess(b)
	}

	lt := a.ValidateExpr(b.Left)
	rt := a.ValidateExpr(b.Right)

	switch b.Op {
	case token.AND, token.OR:
		if lt != token.BOOL_TYPE || rt != token.BOOL_TYPE {
			a.errorf(diagnostics.TypeMismatch, b.Position, "operator %s requires boolean operands, got %s and %s", b.Op, lt, rt)
		}
		return token.BOOL_TYPE
	case token.EQ, token.NOT_EQ, token.LT, token.GT, token.LT_EQ, token.GT_EQ:
		return token.BOOL_TYPE
	case token.PLUS:
		if lt == token.STRING_TYPE || rt == token.STRING_TYPE {
			return token.STRING_TYPE
		}
		return a.widestNumeric(b, lt, rt)
	default: // - * /
		return a.widestNumeric(b, lt, rt)
	}
}

func (a *Analyzer) widestNumeric(b *ast.BinaryExpr, lt, rt token.Type) token.Type {
	if !token.IsNumeric(lt) || !token.IsNumeric(rt) {
		a.errorf(diagnostics.TypeMismatch, b.Position, "operator %s requires numeric operands, got %s and %s", b.Op, lt, rt)
		return lt
	}
	rank := map[token.Type]int{token.CHAR_TYPE: 0, token.INT_TYPE: 1, token.FLOAT_TYPE: 2, token.DOUBLE_TYPE: 3}
	if rank[rt] > rank[lt] {
		return rt
	}
	return lt
}

// validateMemberAccess implements the `a.b` case: validate the left side,
// then — if it names an object — swap the scope stack to that object's
// member scope and validate the right side within it, restoring on return
// via a deferred restore (the resolved SwapScopes discipline, analyzer.go).
func (a *Analyzer) validateMemberAccess(b *ast.BinaryExpr) token.Type {
	lt := a.ValidateExpr(b.Left)
	if lt != token.ObjectType {
		a.errorf(diagnostics.TypeMismatch, b.Left.Pos(), "member access on non-object type %s", lt)
		return ""
	}

	objName, ok := a.objectTypeOf[b.Left]
	if !ok {
		return ""
	}
	obj, ok := a.objects[objName]
	if !ok {
		a.errorf(diagnostics.Undefined, b.Left.Pos(), "undefined object %q", objName)
		return ""
	}

	restore := a.swapScope(obj.Members)
	defer restore()

	rt, ok := b.Right.(*ast.Identifier)
	if !ok {
		a.errorf(diagnostics.Internal, b.Right.Pos(), "member access right side must be an identifier")
		return ""
	}
	return a.validateIdentifier(rt)
}

func (a *Analyzer) validateUnary(u *ast.UnaryExpr) token.Type {
	operandType := a.ValidateExpr(u.Operand)

	switch u.Op {
	case token.BANG:
		if operandType != token.BOOL_TYPE {
			a.errorf(diagnostics.TypeMismatch, u.Position, "operator ! requires a boolean operand, got %s", operandType)
		}
		return token.BOOL_TYPE
	case token.MINUS, token.PLUS:
		if !token.IsNumeric(operandType) {
			a.errorf(diagnostics.TypeMismatch, u.Position, "operator %s requires a numeric operand, got %s", u.Op, operandType)
		}
		return operandType
	case token.INCREMENT, token.DECREMENT:
		if _, ok := u.Operand.(*ast.Identifier); !ok {
			a.errorf(diagnostics.TypeMismatch, u.Position, "operator %s requires an lvalue identifier", u.Op)
		}
		return operandType
	default:
		return operandType
	}
}

// validateCall resolves the callee, checks argument count/types against the
// parameter list (unless the last parameter is variadic), and dispatches
// host intrinsics through ValidateInternal.
func (a *Analyzer) validateCall(c *ast.CallExpr) token.Type {
	id, isIdent := c.Callee.(*ast.Identifier)
	if isIdent {
		if ret, handled := a.ValidateInternal(c, id); handled {
			return ret
		}
	}

	calleeType := a.ValidateExpr(c.Callee)

	if isIdent {
		if obj, ok := a.objects[id.Name]; ok {
			return a.validateConstructorCall(c, obj)
		}
		if fn, ok := id.Decl.(*ast.FuncDecl); ok {
			c.ResolvedFunc = fn
			a.checkArgs(c, fn.Params, fn.Variadic)
			return token.Canonical(fn.ReturnType.Type)
		}
	}

	for _, arg := range c.Args {
		a.ValidateExpr(arg)
	}
	return calleeType
}

// ValidateInternal recognizes calls to host-implemented intrinsics by name
// and validates each argument expression; neither the argument count nor
// the argument types are checked against the intrinsic. Returns handled ==
// false if the name is not an intrinsic.
func (a *Analyzer) ValidateInternal(c *ast.CallExpr, callee *ast.Identifier) (token.Type, bool) {
	sig, ok := intrinsics[callee.Name]
	if !ok {
		return "", false
	}
	c.IsIntrinsic = true
	c.IntrinsicName = callee.Name
	for _, arg := range c.Args {
		a.ValidateExpr(arg)
	}
	return sig.ret, true
}

func (a *Analyzer) validateConstructorCall(c *ast.CallExpr, obj *ast.ObjectDecl) token.Type {
	ctor, hasCtor := obj.Members.LookupLocal(obj.Name)
	if hasCtor {
		if fn, ok := ctor.(*ast.FuncDecl); ok {
			a.checkArgs(c, fn.Params, fn.Variadic)
		}
	}
	for _, arg := range c.Args {
		a.ValidateExpr(arg)
	}
	a.objectTypeOf[c] = obj.Name
	return token.ObjectType
}

func (a *Analyzer) checkArgs(c *ast.CallExpr, params []*ast.Param, variadic bool) {
	if !variadic && len(c.Args) != len(params) {
		a.errorf(diagnostics.TypeMismatch, c.Position, "argument count mismatch: got %d, want %d", len(c.Args), len(params))
	}
	for i, arg := range c.Args {
		argType := a.ValidateExpr(arg)
		var paramType token.Type
		switch {
		case i < len(params):
			paramType = token.Canonical(params[i].Type.Type)
		case variadic && len(params) > 0:
			paramType = token.Canonical(params[len(params)-1].Type.Type)
		default:
			continue
		}
		if !a.assignable(argType, paramType) {
			a.errorf(diagnostics.TypeMismatch, arg.Pos(), "argument %d: cannot assign %s to %s", i+1, argType, paramType)
		}
	}
}

func (a *Analyzer) validateArray(arr *ast.ArrayLit) token.Type {
	elemType := token.Canonical(arr.ElemType.Type)
	for _, el := range arr.Elements {
		t := a.ValidateExpr(el)
		if !a.assignable(t, elemType) {
			a.errorf(diagnostics.TypeMismatch, el.Pos(), "array element type %s not assignable to %s", t, elemType)
		}
	}
	return elemType
}

func (a *Analyzer) validateIndex(x *ast.IndexExpr) token.Type {
	arrType := a.ValidateExpr(x.Array)
	idxType := a.ValidateExpr(x.Index)
	if idxType != token.INT_TYPE {
		a.errorf(diagnostics.TypeMismatch, x.Index.Pos(), "array index must be int, got %s", idxType)
	}
	return arrType
}

// ValidateCast enforces a fixed matrix: any numeric <-> numeric; any ->
// string; string -> numeric only (deferred to runtime, since whether the
// literal parses isn't known until evaluated).
func (a *Analyzer) ValidateCast(c *ast.CastExpr) token.Type {
	innerType := a.ValidateExpr(c.Inner)
	target := token.Canonical(c.Target)

	switch {
	case token.IsNumeric(innerType) && token.IsNumeric(target):
		return target
	case target == token.STRING_TYPE:
		return target
	case innerType == token.STRING_TYPE && token.IsNumeric(target):
		return target
	default:
		a.errorf(diagnostics.InvalidCast, c.Position, "cannot cast %s to %s", innerType, target)
		return target
	}
}
