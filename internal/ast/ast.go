// Package ast defines the tagged-union AST produced by the parser and
// annotated in place by the analyzer: each node kind is its own struct
// embedding Base and carrying a Kind() tag, and visitors dispatch with a
// type switch on the concrete node type — no virtual dispatch required.
package ast

import (
	"github.com/btouchard/condor/internal/scope"
	"github.com/btouchard/condor/internal/token"
)

// Kind tags a node's concrete variant. Where a token.Type and a Kind name
// the same concept (IDENT, IMPORT...) they are spelled identically.
type Kind string

const (
	KindFile    Kind = "FILE"
	KindBlock   Kind = "BLOCK"
	KindVar     Kind = "VAR"
	KindFunc    Kind = "FUNC"
	KindObject  Kind = "OBJECT"
	KindImport  Kind = "IMPORT"
	KindInclude Kind = "INCLUDE"

	KindIdent   Kind = "IDENT"
	KindLiteral Kind = "LITERARY"
	KindUnary   Kind = "UNARY"
	KindBinary  Kind = "BINARY"
	KindCall    Kind = "FUNC_CALL"
	KindArray   Kind = "ARRAY"
	KindCast    Kind = "CAST"
	KindIndex   Kind = "INDEX"

	KindIf       Kind = "IF"
	KindFor      Kind = "FOR"
	KindWhile    Kind = "WHILE"
	KindSwitch   Kind = "SWITCH"
	KindCase     Kind = "CASE"
	KindReturn   Kind = "RETURN"
	KindBreak    Kind = "BREAK"
	KindContinue Kind = "CONTINUE"
	KindExprStmt Kind = "EXPR_STMT"
	KindAssign   Kind = "ASSIGN"
)

// Node is the common header every AST node carries: a position copied from
// its first consumed token, a kind tag, and an export flag.
type Node interface {
	Pos() token.Position
	Kind() Kind
}

// Base is embedded by every concrete node type.
type Base struct {
	NodeKind Kind
	Position token.Position
	IsExport bool
}

func (b *Base) Pos() token.Position { return b.Position }
func (b *Base) Kind() Kind          { return b.NodeKind }

// SetExport marks a node exported, promoted onto every concrete node type
// that embeds Base — used by the orchestrator's subModule export filter
// without a per-kind type switch.
func (b *Base) SetExport(v bool) { b.IsExport = v }

// Exportable is implemented by every node that embeds Base.
type Exportable interface {
	SetExport(bool)
}

// Statement is implemented by every node usable as a statement.
type Statement interface {
	Node
	stmtNode()
}

// Expression is implemented by every node usable as an expression.
type Expression interface {
	Node
	exprNode()
	// Type returns the expression's resolved type, valid only after a
	// successful analysis pass. It is the zero token.Type beforehand.
	Type() token.Type
	setType(token.Type)
}

// typed is embedded by expression nodes to share Type()/setType().
type typed struct {
	resolved token.Type
}

func (t *typed) Type() token.Type    { return t.resolved }
func (t *typed) setType(k token.Type) { t.resolved = k }

// SetType lets the analyzer annotate any expression with its resolved type
// without each call site needing the unexported setter.
func SetType(e Expression, k token.Type) { e.setType(k) }

// ============ FILE ============

// File is the root node of one compiled source unit.
type File struct {
	Base
	Name     string
	Scope    *scope.Scope
	Imports  []*ImportDecl
	Includes []*IncludeDecl
}

func NewFile(name string) *File {
	f := &File{Name: name}
	f.NodeKind = KindFile
	f.Scope = scope.New(name, nil)
	return f
}

// ============ IMPORT / INCLUDE ============

// ImportDecl is `import "pkg";` or `import "pkg.sym";`.
type ImportDecl struct {
	Base
	Name string // "pkg" or "pkg.sym", dotted verbatim
}

// ImportDecl is recorded in the file's side list only — it binds no name in
// the file scope, so it does not implement scope.Declaration.

// IncludeDecl is `include "path";`.
type IncludeDecl struct {
	Base
	Path string
}

// ============ VAR ============

// VarDecl is a var declaration: `var x int = 1;` or `var x = 1;`. Using a
// full token.Token (not just a Type) for DeclaredType lets an object type
// name ride along as the token's Literal, rather than a bare type tag.
type VarDecl struct {
	Base
	Name         string
	DeclaredType token.Token    // zero value (Type == "") if inferred
	AssignPos    token.Position // position of the "=" token, for diagnostics
	Init         Expression     // required by grammar; nil only for parse-error recovery
	ResolvedType token.Type     // canonical resolved type, filled by the analyzer
	Owner        *scope.Scope
}

func (v *VarDecl) DeclName() string        { return v.Name }
func (v *VarDecl) DeclPos() token.Position { return v.Position }

// stmtNode lets a VarDecl sit directly in a Block's Statements list (a var
// declaration is also a statement inside a function body), while still
// implementing scope.Declaration so the block's scope can bind its name.
func (v *VarDecl) stmtNode() {}

// ============ FUNC ============

type Param struct {
	Name string
	Type token.Token
}

// FuncDecl is a function declaration, including object methods.
type FuncDecl struct {
	Base
	Name          string
	Params        []*Param
	Variadic      bool // true if the last parameter accepts extra trailing args
	Body          *Block
	ReturnType    token.Token
	IsConstructor bool
	IsStatic      bool
}

func (f *FuncDecl) DeclName() string        { return f.Name }
func (f *FuncDecl) DeclPos() token.Position { return f.Position }

// ============ OBJECT ============

// ObjectDecl is `object Name [extends Base] { ... }`.
type ObjectDecl struct {
	Base
	Name    string
	Members *scope.Scope
	Extends string      // target object name, empty if none
	Base_   *ObjectDecl // resolved by the analyzer once Extends is looked up
}

func (o *ObjectDecl) DeclName() string        { return o.Name }
func (o *ObjectDecl) DeclPos() token.Position { return o.Position }

// ============ BLOCK ============

// Block is `{ statements... }`, owning its own Scope.
type Block struct {
	Base
	Scope      *scope.Scope
	Statements []Statement
}

func (b *Block) stmtNode() {}

// DeclName/DeclPos let a Block be inserted into a parent scope's child
// list alongside var/func/object declarations; a Block is anonymous, so
// DeclName returns "".
func (b *Block) DeclName() string        { return "" }
func (b *Block) DeclPos() token.Position { return b.Position }

// ============ STATEMENTS ============

type IfStmt struct {
	Base
	Cond Expression
	Then *Block
	Else Statement // *Block, *IfStmt (else-if chain), or nil
}

func (s *IfStmt) stmtNode() {}

type ForStmt struct {
	Base
	Init Statement // may be nil
	Cond Expression
	Post Statement // may be nil
	Body *Block
}

func (s *ForStmt) stmtNode() {}

type WhileStmt struct {
	Base
	Cond Expression
	Body *Block
}

func (s *WhileStmt) stmtNode() {}

type CaseClause struct {
	Base
	Values    []Expression // empty for the default case
	IsDefault bool
	Body      []Statement
}

func (c *CaseClause) stmtNode() {}

type SwitchStmt struct {
	Base
	Tag   Expression
	Cases []*CaseClause
}

func (s *SwitchStmt) stmtNode() {}

type ReturnStmt struct {
	Base
	Value Expression // nil for a bare return
}

func (s *ReturnStmt) stmtNode() {}

type BreakStmt struct{ Base }

func (s *BreakStmt) stmtNode() {}

type ContinueStmt struct{ Base }

func (s *ContinueStmt) stmtNode() {}

// ExprStmt wraps an expression used as a statement (e.g. a call).
type ExprStmt struct {
	Base
	X Expression
}

func (s *ExprStmt) stmtNode() {}

// AssignStmt covers `=`, `+=`, `-=`, `*=`, `/=`.
type AssignStmt struct {
	Base
	Target Expression // Identifier or BinaryExpr(".") lvalue
	Op     token.Type
	Value  Expression
}

func (s *AssignStmt) stmtNode() {}

// ============ EXPRESSIONS ============

// Identifier resolves to a declaration at analysis time.
type Identifier struct {
	Base
	typed
	Name string
	Decl scope.Declaration // filled by the analyzer; nil until resolved
}

func (i *Identifier) exprNode() {}

// Literal is any primitive literal (int/float/double/boolean/char/string).
type Literal struct {
	Base
	typed
	LitKind token.Type // one of INT, FLOAT, DOUBLE, BOOLEAN, CHAR, STRING
	Text    string
}

func (l *Literal) exprNode() {}

// UnaryExpr is `!x`, `-x`, `+x`, `++x`, `--x`.
type UnaryExpr struct {
	Base
	typed
	Op      token.Type
	Operand Expression
}

func (u *UnaryExpr) exprNode() {}

// BinaryExpr covers arithmetic/logical/comparison operators and `a.b`
// member access (Op == token.DOT).
type BinaryExpr struct {
	Base
	typed
	Left  Expression
	Op    token.Type
	Right Expression
}

func (b *BinaryExpr) exprNode() {}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Base
	typed
	Callee        Expression
	Args          []Expression
	ResolvedFunc  *FuncDecl // filled by the analyzer
	IsIntrinsic   bool      // true if Callee resolved to a host intrinsic
	IntrinsicName string
}

func (c *CallExpr) exprNode() {}

// ArrayLit is `[T]{e1, e2, ...}`.
type ArrayLit struct {
	Base
	typed
	ElemType token.Token
	Elements []Expression
}

func (a *ArrayLit) exprNode() {}

// IndexExpr is `a[i]`, the postfix index form, binding as tightly as a
// call or member access.
type IndexExpr struct {
	Base
	typed
	Array Expression
	Index Expression
}

func (x *IndexExpr) exprNode() {}

// CastExpr is `(T) expr`.
type CastExpr struct {
	Base
	typed
	Target token.Type
	Inner  Expression
}

func (c *CastExpr) exprNode() {}
