// Package printer reconstructs source text from an AST: parse, print,
// re-parse must yield a structurally-equal AST.
package printer

import (
	"fmt"
	"strings"

	"github.com/btouchard/condor/internal/ast"
	"github.com/btouchard/condor/internal/token"
)

// Print renders a *ast.File back to Condor source. Positions are allowed
// to drift on reprint; node shape must not.
func Print(f *ast.File) string {
	var b strings.Builder
	p := &printerState{b: &b}
	p.printFile(f)
	return b.String()
}

type printerState struct {
	b     *strings.Builder
	depth int
}

func (p *printerState) indent() {
	p.b.WriteString(strings.Repeat("    ", p.depth))
}

func (p *printerState) printFile(f *ast.File) {
	for _, imp := range f.Imports {
		fmt.Fprintf(p.b, "import \"%s\";\n", imp.Name)
	}
	for _, inc := range f.Includes {
		fmt.Fprintf(p.b, "include \"%s\";\n", inc.Path)
	}
	if len(f.Imports)+len(f.Includes) > 0 {
		p.b.WriteString("\n")
	}

	for _, decl := range f.Scope.Children() {
		p.printTopLevel(decl)
		p.b.WriteString("\n")
	}
}

func (p *printerState) printModifiers(isExport, isStatic bool) {
	if isExport {
		p.b.WriteString("public ")
	}
	if isStatic {
		p.b.WriteString("static ")
	}
}

func (p *printerState) printTopLevel(decl interface{}) {
	switch d := decl.(type) {
	case *ast.VarDecl:
		p.printModifiers(d.IsExport, false)
		p.printVarDecl(d)
	case *ast.FuncDecl:
		p.printModifiers(d.IsExport, d.IsStatic)
		p.printFuncDecl(d)
	case *ast.ObjectDecl:
		p.printModifiers(d.IsExport, false)
		p.printObjectDecl(d)
	}
}

func (p *printerState) printVarDecl(v *ast.VarDecl) {
	p.indent()
	fmt.Fprintf(p.b, "var %s", v.Name)
	if v.DeclaredType.Type != "" {
		fmt.Fprintf(p.b, " %s", typeName(v.DeclaredType))
	}
	if v.Init != nil {
		p.b.WriteString(" = ")
		p.printExpr(v.Init)
	}
	p.b.WriteString(";\n")
}

func (p *printerState) printFuncDecl(f *ast.FuncDecl) {
	p.indent()
	fmt.Fprintf(p.b, "func %s(", f.Name)
	for i, param := range f.Params {
		if i > 0 {
			p.b.WriteString(", ")
		}
		if f.Variadic && i == len(f.Params)-1 {
			p.b.WriteString("...")
		}
		fmt.Fprintf(p.b, "%s: %s", param.Name, typeName(param.Type))
	}
	p.b.WriteString(")")
	if f.ReturnType.Type != "" {
		fmt.Fprintf(p.b, " %s", typeName(f.ReturnType))
	}
	p.b.WriteString(" ")
	if f.Body != nil {
		p.printBlock(f.Body)
	} else {
		p.b.WriteString("{}\n")
	}
}

func (p *printerState) printObjectDecl(o *ast.ObjectDecl) {
	p.indent()
	fmt.Fprintf(p.b, "object %s", o.Name)
	if o.Extends != "" {
		fmt.Fprintf(p.b, " extends %s", o.Extends)
	}
	p.b.WriteString(" {\n")
	p.depth++
	for _, member := range o.Members.Children() {
		switch m := member.(type) {
		case *ast.VarDecl:
			p.printVarDecl(m)
		case *ast.FuncDecl:
			p.printModifiers(false, m.IsStatic)
			p.printFuncDecl(m)
		}
	}
	p.depth--
	p.indent()
	p.b.WriteString("}\n")
}

func (p *printerState) printBlock(b *ast.Block) {
	p.b.WriteString("{\n")
	p.depth++
	for _, stmt := range b.Statements {
		p.printStatement(stmt)
	}
	p.depth--
	p.indent()
	p.b.WriteString("}\n")
}

func (p *printerState) printStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.VarDecl:
		p.printVarDecl(st)
	case *ast.IfStmt:
		p.printIf(st)
	case *ast.ForStmt:
		p.printFor(st)
	case *ast.WhileStmt:
		p.printWhile(st)
	case *ast.SwitchStmt:
		p.printSwitch(st)
	case *ast.ReturnStmt:
		p.indent()
		p.b.WriteString("return")
		if st.Value != nil {
			p.b.WriteString(" ")
			p.printExpr(st.Value)
		}
		p.b.WriteString(";\n")
	case *ast.BreakStmt:
		p.indent()
		p.b.WriteString("break;\n")
	case *ast.ContinueStmt:
		p.indent()
		p.b.WriteString("continue;\n")
	case *ast.ExprStmt:
		p.indent()
		p.printExpr(st.X)
		p.b.WriteString(";\n")
	case *ast.AssignStmt:
		p.indent()
		p.printExpr(st.Target)
		fmt.Fprintf(p.b, " %s ", st.Op)
		p.printExpr(st.Value)
		p.b.WriteString(";\n")
	case *ast.Block:
		p.indent()
		p.printBlock(st)
	}
}

func (p *printerState) printIf(s *ast.IfStmt) {
	p.indent()
	p.printIfHeader(s)
}

// printIfHeader renders "if (cond) { ... }" without a leading indent, so an
// else-if chain can continue on the same line as the preceding "} else ".
func (p *printerState) printIfHeader(s *ast.IfStmt) {
	p.b.WriteString("if (")
	p.printExpr(s.Cond)
	p.b.WriteString(") ")
	p.printBlock(s.Then)
	if s.Else == nil {
		return
	}

	p.trimTrailingNewline()
	p.b.WriteString(" else ")
	switch e := s.Else.(type) {
	case *ast.IfStmt:
		p.printIfHeader(e)
	case *ast.Block:
		p.printBlock(e)
	}
}

// trimTrailingNewline removes the single newline printBlock just wrote so
// "else" can be appended on the closing brace's line.
func (p *printerState) trimTrailingNewline() {
	str := p.b.String()
	p.b.Reset()
	p.b.WriteString(strings.TrimSuffix(str, "\n"))
}

func (p *printerState) printFor(s *ast.ForStmt) {
	p.indent()
	p.b.WriteString("for (")
	if s.Init != nil {
		p.printInline(s.Init)
	}
	p.b.WriteString("; ")
	if s.Cond != nil {
		p.printExpr(s.Cond)
	}
	p.b.WriteString("; ")
	if s.Post != nil {
		p.printInline(s.Post)
	}
	p.b.WriteString(") ")
	p.printBlock(s.Body)
}

// printInline renders a statement without its own indentation/newline/
// trailing semicolon, for the for-loop init/post clauses.
func (p *printerState) printInline(s ast.Statement) {
	switch st := s.(type) {
	case *ast.VarDecl:
		fmt.Fprintf(p.b, "var %s", st.Name)
		if st.DeclaredType.Type != "" {
			fmt.Fprintf(p.b, " %s", typeName(st.DeclaredType))
		}
		if st.Init != nil {
			p.b.WriteString(" = ")
			p.printExpr(st.Init)
		}
	case *ast.AssignStmt:
		p.printExpr(st.Target)
		fmt.Fprintf(p.b, " %s ", st.Op)
		p.printExpr(st.Value)
	case *ast.ExprStmt:
		p.printExpr(st.X)
	}
}

func (p *printerState) printWhile(s *ast.WhileStmt) {
	p.indent()
	p.b.WriteString("while (")
	p.printExpr(s.Cond)
	p.b.WriteString(") ")
	p.printBlock(s.Body)
}

func (p *printerState) printSwitch(s *ast.SwitchStmt) {
	p.indent()
	p.b.WriteString("switch (")
	p.printExpr(s.Tag)
	p.b.WriteString(") {\n")
	p.depth++
	for _, c := range s.Cases {
		p.indent()
		if c.IsDefault {
			p.b.WriteString("default:\n")
		} else {
			p.b.WriteString("case ")
			for i, v := range c.Values {
				if i > 0 {
					p.b.WriteString(", ")
				}
				p.printExpr(v)
			}
			p.b.WriteString(":\n")
		}
		p.depth++
		for _, stmt := range c.Body {
			p.printStatement(stmt)
		}
		p.depth--
	}
	p.depth--
	p.indent()
	p.b.WriteString("}\n")
}

func (p *printerState) printExpr(e ast.Expression) {
	switch x := e.(type) {
	case *ast.Literal:
		p.printLiteral(x)
	case *ast.Identifier:
		p.b.WriteString(x.Name)
	case *ast.UnaryExpr:
		fmt.Fprintf(p.b, "%s", x.Op)
		p.printExpr(x.Operand)
	case *ast.BinaryExpr:
		p.printExpr(x.Left)
		if x.Op == token.DOT {
			p.b.WriteString(".")
		} else {
			fmt.Fprintf(p.b, " %s ", x.Op)
		}
		p.printExpr(x.Right)
	case *ast.CallExpr:
		p.printExpr(x.Callee)
		p.b.WriteString("(")
		for i, arg := range x.Args {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.printExpr(arg)
		}
		p.b.WriteString(")")
	case *ast.IndexExpr:
		p.printExpr(x.Array)
		p.b.WriteString("[")
		p.printExpr(x.Index)
		p.b.WriteString("]")
	case *ast.ArrayLit:
		fmt.Fprintf(p.b, "[%s]{", typeName(x.ElemType))
		for i, el := range x.Elements {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.printExpr(el)
		}
		p.b.WriteString("}")
	case *ast.CastExpr:
		fmt.Fprintf(p.b, "(%s) ", typeName(token.Token{Type: x.Target}))
		p.printExpr(x.Inner)
	}
}

func (p *printerState) printLiteral(l *ast.Literal) {
	switch l.LitKind {
	case token.STRING:
		fmt.Fprintf(p.b, "%q", l.Text)
	case token.CHAR:
		fmt.Fprintf(p.b, "'%s'", l.Text)
	default:
		p.b.WriteString(l.Text)
	}
}

// typeName renders a declared-type token back to source text: the lowercase
// keyword spelling for primitives, or the literal identifier for an object
// type name.
func typeName(t token.Token) string {
	switch t.Type {
	case token.INT_TYPE:
		return "int"
	case token.FLOAT_TYPE:
		return "float"
	case token.DOUBLE_TYPE:
		return "double"
	case token.BOOL_TYPE:
		return "bool"
	case token.CHAR_TYPE:
		return "char"
	case token.STRING_TYPE:
		return "string"
	case token.VOID_TYPE:
		return "void"
	default:
		return t.Literal
	}
}
