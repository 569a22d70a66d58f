package parser

import (
	"github.com/btouchard/condor/internal/ast"
	"github.com/btouchard/condor/internal/token"
)

// parseExpression is the Pratt loop: prefix, then climb while the peeked
// operator binds tighter than precedence.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix, ok := p.prefixFns[p.curToken.Type]
	if !ok {
		p.errorf(p.curToken.Pos, "no prefix parse function for %s", p.curToken.Type)
		return nil
	}
	left := prefix()

	for !p.peekIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	id := &ast.Identifier{Name: p.curToken.Literal}
	id.NodeKind = ast.KindIdent
	id.Position = p.curToken.Pos
	return id
}

func (p *Parser) parseLiteral(kind token.Type) prefixParseFn {
	return func() ast.Expression {
		lit := &ast.Literal{LitKind: kind, Text: p.curToken.Literal}
		lit.NodeKind = ast.KindLiteral
		lit.Position = p.curToken.Pos
		return lit
	}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	lit := &ast.Literal{LitKind: token.BOOLEAN, Text: p.curToken.Literal}
	lit.NodeKind = ast.KindLiteral
	lit.Position = p.curToken.Pos
	return lit
}

func (p *Parser) parseUnary() ast.Expression {
	u := &ast.UnaryExpr{Op: p.curToken.Type}
	u.NodeKind = ast.KindUnary
	u.Position = p.curToken.Pos
	p.nextToken()
	u.Operand = p.parseExpression(UNARY)
	return u
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	b := &ast.BinaryExpr{Left: left, Op: p.curToken.Type}
	b.NodeKind = ast.KindBinary
	b.Position = p.curToken.Pos
	prec := p.curPrecedence()
	p.nextToken()
	b.Right = p.parseExpression(prec)
	return b
}

// parseMember handles `a.b`, represented as a BinaryExpr with Op == DOT so
// the analyzer's member-access resolution has a single node shape to
// dispatch on.
func (p *Parser) parseMember(left ast.Expression) ast.Expression {
	b := &ast.BinaryExpr{Left: left, Op: token.DOT}
	b.NodeKind = ast.KindBinary
	b.Position = p.curToken.Pos
	if !p.expect(token.IDENT) {
		return b
	}
	b.Right = p.parseIdentifier()
	return b
}

func (p *Parser) parseCall(callee ast.Expression) ast.Expression {
	call := &ast.CallExpr{Callee: callee}
	call.NodeKind = ast.KindCall
	call.Position = p.curToken.Pos
	call.Args = p.parseExpressionList(token.RPAREN)
	return call
}

func (p *Parser) parseIndex(array ast.Expression) ast.Expression {
	idx := &ast.IndexExpr{Array: array}
	idx.NodeKind = ast.KindIndex
	idx.Position = p.curToken.Pos
	p.nextToken()
	idx.Index = p.parseExpression(LOWEST)
	if !p.expect(token.RBRACKET) {
		return idx
	}
	return idx
}

func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression

	if p.peekIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))

	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}

	if !p.expect(end) {
		return list
	}
	return list
}

// parseArrayLiteral parses `[T]{e1, e2, ...}`. Current token is LBRACKET.
func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLit{}
	arr.NodeKind = ast.KindArray
	arr.Position = p.curToken.Pos

	if !p.isTypeToken(p.peekToken) {
		p.errorExpected("array element type")
		return arr
	}
	p.nextToken()
	arr.ElemType = p.curToken

	if !p.expect(token.RBRACKET) {
		return arr
	}
	if !p.expect(token.LBRACE) {
		return arr
	}
	arr.Elements = p.parseExpressionList(token.RBRACE)
	return arr
}

// parseNewExpression parses `new Type(args...)`, desugared directly into a
// CallExpr whose callee is the type identifier — the analyzer recognizes a
// call to an ObjectDecl name as a constructor invocation.
func (p *Parser) parseNewExpression() ast.Expression {
	pos := p.curToken.Pos
	if !p.expect(token.IDENT) {
		return nil
	}
	callee := p.parseIdentifier()

	if !p.peekIs(token.LPAREN) {
		p.errorExpected("(")
		return callee
	}
	p.nextToken()

	call := &ast.CallExpr{Callee: callee}
	call.NodeKind = ast.KindCall
	call.Position = pos
	call.Args = p.parseExpressionList(token.RPAREN)
	return call
}

// parseGroupedOrCast resolves the `(T) expr` cast vs. `(expr)` grouping
// ambiguity by speculatively trying the cast shape first: LPAREN, a single
// type-keyword token, RPAREN, then something that can start an expression.
// Mis-speculation rewinds the scanner via checkpoint/restore and falls back
// to ordinary grouping — there is no other way to tell the two apart with
// one token of lookahead, since both start with '('.
func (p *Parser) parseGroupedOrCast() ast.Expression {
	pos := p.curToken.Pos

	if token.IsTypeKeyword(p.peekToken.Type) {
		mark := p.mark()
		p.nextToken() // consume '(', cur = type keyword
		target := p.curToken.Type

		if p.peekIs(token.RPAREN) {
			p.nextToken() // cur = ')'
			p.nextToken() // cur = start of inner expr
			if _, ok := p.prefixFns[p.curToken.Type]; ok {
				cast := &ast.CastExpr{Target: target}
				cast.NodeKind = ast.KindCast
				cast.Position = pos
				cast.Inner = p.parseExpression(UNARY)
				return cast
			}
		}
		p.reset(mark)
	}

	p.nextToken() // consume '(', cur = start of inner expr
	inner := p.parseExpression(LOWEST)
	if !p.expect(token.RPAREN) {
		return inner
	}
	return inner
}
