package parser

import (
	"github.com/btouchard/condor/internal/ast"
	"github.com/btouchard/condor/internal/token"
)

var assignOps = map[token.Type]bool{
	token.ASSIGN:       true,
	token.PLUS_ASSIGN:  true,
	token.MINUS_ASSIGN: true,
	token.MUL_ASSIGN:   true,
	token.DIV_ASSIGN:   true,
}

// parseBlock parses `{ statements... }`, current token LBRACE. The block's
// Scope is left nil here; the analyzer creates it, links it to the
// enclosing one and walks the statements in order — the parser only
// builds structure.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{}
	block.NodeKind = ast.KindBlock
	block.Position = p.curToken.Pos

	p.nextToken()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}

	if !p.curIs(token.RBRACE) {
		p.errorExpected("}")
	}
	p.nextToken()
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.VAR:
		return p.parseVarStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.SWITCH:
		return p.parseSwitchStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.BREAK:
		return p.parseBreakStmt()
	case token.CONTINUE:
		return p.parseContinueStmt()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return p.parseSimpleStmt()
	}
}

// parseVarStmt parses a var declaration appearing inside a block body.
// *ast.VarDecl implements both scope.Declaration and ast.Statement so it can
// be bound in the block's scope and sit in its Statements list.
func (p *Parser) parseVarStmt() ast.Statement {
	decl := p.parseVarDecl()
	if decl == nil {
		return nil
	}
	return decl
}

// parseSimpleStmt parses an expression, then checks whether it is actually
// the target of an assignment, including compound assignment.
func (p *Parser) parseSimpleStmt() ast.Statement {
	pos := p.curToken.Pos
	expr := p.parseExpression(LOWEST)

	if assignOps[p.peekToken.Type] {
		p.nextToken()
		op := p.curToken.Type
		p.nextToken()
		value := p.parseExpression(LOWEST)
		stmt := &ast.AssignStmt{Target: expr, Op: op, Value: value}
		stmt.NodeKind = ast.KindAssign
		stmt.Position = pos
		if p.peekIs(token.SEMICOLON) {
			p.nextToken()
		}
		p.nextToken()
		return stmt
	}

	stmt := &ast.ExprStmt{X: expr}
	stmt.NodeKind = ast.KindExprStmt
	stmt.Position = pos
	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}
	p.nextToken()
	return stmt
}

func (p *Parser) parseIfStmt() ast.Statement {
	stmt := &ast.IfStmt{}
	stmt.NodeKind = ast.KindIf
	stmt.Position = p.curToken.Pos

	if !p.expect(token.LPAREN) {
		p.nextToken()
		return stmt
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if !p.expect(token.RPAREN) {
		p.nextToken()
		return stmt
	}
	if !p.expect(token.LBRACE) {
		p.nextToken()
		return stmt
	}
	stmt.Then = p.parseBlock()

	if p.curIs(token.ELSE) {
		if p.peekIs(token.IF) {
			p.nextToken()
			stmt.Else = p.parseIfStmt()
		} else if p.expect(token.LBRACE) {
			stmt.Else = p.parseBlock()
		}
	}

	return stmt
}

func (p *Parser) parseForStmt() ast.Statement {
	stmt := &ast.ForStmt{}
	stmt.NodeKind = ast.KindFor
	stmt.Position = p.curToken.Pos

	if !p.expect(token.LPAREN) {
		p.nextToken()
		return stmt
	}
	p.nextToken()

	if !p.curIs(token.SEMICOLON) {
		stmt.Init = p.parseStatement()
	} else {
		p.nextToken()
	}

	if !p.curIs(token.SEMICOLON) {
		stmt.Cond = p.parseExpression(LOWEST)
	}
	if !p.expect(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}
	if !p.peekIs(token.RPAREN) {
		p.nextToken()
		stmt.Post = p.parseSimpleStmtNoConsume()
	}
	if !p.expect(token.RPAREN) {
		p.nextToken()
		return stmt
	}
	if !p.expect(token.LBRACE) {
		p.nextToken()
		return stmt
	}
	stmt.Body = p.parseBlock()
	return stmt
}

// parseSimpleStmtNoConsume parses the for-loop post-clause: an expression or
// assignment with no trailing semicolon to swallow (the loop header's ')'
// follows directly). It leaves the clause's last token current.
func (p *Parser) parseSimpleStmtNoConsume() ast.Statement {
	pos := p.curToken.Pos
	expr := p.parseExpression(LOWEST)

	if assignOps[p.peekToken.Type] {
		p.nextToken()
		op := p.curToken.Type
		p.nextToken()
		value := p.parseExpression(LOWEST)
		stmt := &ast.AssignStmt{Target: expr, Op: op, Value: value}
		stmt.NodeKind = ast.KindAssign
		stmt.Position = pos
		return stmt
	}

	stmt := &ast.ExprStmt{X: expr}
	stmt.NodeKind = ast.KindExprStmt
	stmt.Position = pos
	return stmt
}

func (p *Parser) parseWhileStmt() ast.Statement {
	stmt := &ast.WhileStmt{}
	stmt.NodeKind = ast.KindWhile
	stmt.Position = p.curToken.Pos

	if !p.expect(token.LPAREN) {
		p.nextToken()
		return stmt
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if !p.expect(token.RPAREN) {
		p.nextToken()
		return stmt
	}
	if !p.expect(token.LBRACE) {
		p.nextToken()
		return stmt
	}
	stmt.Body = p.parseBlock()
	return stmt
}

func (p *Parser) parseSwitchStmt() ast.Statement {
	stmt := &ast.SwitchStmt{}
	stmt.NodeKind = ast.KindSwitch
	stmt.Position = p.curToken.Pos

	if !p.expect(token.LPAREN) {
		p.nextToken()
		return stmt
	}
	p.nextToken()
	stmt.Tag = p.parseExpression(LOWEST)
	if !p.expect(token.RPAREN) {
		p.nextToken()
		return stmt
	}
	if !p.expect(token.LBRACE) {
		p.nextToken()
		return stmt
	}
	p.nextToken()

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		clause := p.parseCaseClause()
		if clause != nil {
			stmt.Cases = append(stmt.Cases, clause)
		}
	}

	if !p.curIs(token.RBRACE) {
		p.errorExpected("}")
	}
	p.nextToken()
	return stmt
}

func (p *Parser) parseCaseClause() *ast.CaseClause {
	clause := &ast.CaseClause{}
	clause.NodeKind = ast.KindCase
	clause.Position = p.curToken.Pos

	switch p.curToken.Type {
	case token.CASE:
		p.nextToken()
		clause.Values = append(clause.Values, p.parseExpression(LOWEST))
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			clause.Values = append(clause.Values, p.parseExpression(LOWEST))
		}
	case token.DEFAULT:
		clause.IsDefault = true
	default:
		p.errorf(p.curToken.Pos, "expected case or default, got %s", p.curToken.Type)
		p.nextToken()
		return nil
	}

	if !p.expect(token.COLON) {
		p.nextToken()
		return clause
	}
	p.nextToken()

	for !p.curIs(token.CASE) && !p.curIs(token.DEFAULT) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			clause.Body = append(clause.Body, stmt)
		}
	}

	return clause
}

func (p *Parser) parseReturnStmt() ast.Statement {
	stmt := &ast.ReturnStmt{}
	stmt.NodeKind = ast.KindReturn
	stmt.Position = p.curToken.Pos

	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
		p.nextToken()
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}
	p.nextToken()
	return stmt
}

func (p *Parser) parseBreakStmt() ast.Statement {
	stmt := &ast.BreakStmt{}
	stmt.NodeKind = ast.KindBreak
	stmt.Position = p.curToken.Pos
	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}
	p.nextToken()
	return stmt
}

func (p *Parser) parseContinueStmt() ast.Statement {
	stmt := &ast.ContinueStmt{}
	stmt.NodeKind = ast.KindContinue
	stmt.Position = p.curToken.Pos
	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}
	p.nextToken()
	return stmt
}
