package parser

import (
	"github.com/btouchard/condor/internal/ast"
	"github.com/btouchard/condor/internal/scope"
	"github.com/btouchard/condor/internal/token"
)

// parseObjectDecl parses `object Name [extends Base] { members... }`.
func (p *Parser) parseObjectDecl() *ast.ObjectDecl {
	pos := p.curToken.Pos
	if !p.expect(token.IDENT) {
		p.nextToken()
		return nil
	}

	obj := &ast.ObjectDecl{Name: p.curToken.Literal}
	obj.NodeKind = ast.KindObject
	obj.Position = pos
	obj.Members = scope.New(obj.Name, nil) // re-parented to the file scope by the analyzer

	if p.peekIs(token.EXTENDS) {
		p.nextToken()
		if !p.expect(token.IDENT) {
			p.nextToken()
			return obj
		}
		obj.Extends = p.curToken.Literal
	}

	if !p.expect(token.LBRACE) {
		p.nextToken()
		return obj
	}
	p.nextToken()

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.parseObjectMember(obj)
	}

	if !p.curIs(token.RBRACE) {
		p.errorExpected("}")
	}
	p.nextToken()
	return obj
}

func (p *Parser) parseObjectMember(obj *ast.ObjectDecl) {
	isStatic := false
	if p.curIs(token.STATIC) {
		isStatic = true
		p.nextToken()
	}

	switch p.curToken.Type {
	case token.VAR:
		if v := p.parseVarDecl(); v != nil {
			v.Owner = obj.Members
			obj.Members.Insert(v)
		}
	case token.FUNC:
		if f := p.parseFuncDecl(); f != nil {
			f.IsStatic = isStatic
			f.IsConstructor = f.Name == obj.Name
			obj.Members.Insert(f)
		}
	default:
		p.errorf(p.curToken.Pos, "expected var or func member, got %s", p.curToken.Type)
		p.nextToken()
	}
}
