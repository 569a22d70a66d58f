// Package parser implements a recursive-descent parser with Pratt-style
// expression climbing over a whole source file, extended with the
// statement and declaration forms (for/while/switch/object/extends) a
// function-and-expression-only grammar wouldn't need.
package parser

import (
	"fmt"

	"github.com/btouchard/condor/internal/ast"
	"github.com/btouchard/condor/internal/diagnostics"
	"github.com/btouchard/condor/internal/scanner"
	"github.com/btouchard/condor/internal/scope"
	"github.com/btouchard/condor/internal/token"
)

// Precedence levels for the Pratt expression parser, lowest to highest.
const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * / %
	UNARY       // ! - + ++ --
	CALL        // . () [] postfix
)

var precedences = map[token.Type]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LT_EQ:    LESSGREATER,
	token.GT_EQ:    LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.DOT:      CALL,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser turns a token stream into a *ast.File. Construct one per script,
// like the scanner it wraps.
type Parser struct {
	s *scanner.Scanner

	curToken  token.Token
	peekToken token.Token

	fileName string
	errs     *diagnostics.List

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

// checkpoint snapshots enough parser state to backtrack a speculative parse
// (used for the cast-vs-grouped-expression ambiguity in parsePrimary).
type checkpoint struct {
	cur, peek token.Token
	scanner   scanner.Checkpoint
}

func New(s *scanner.Scanner, fileName string) *Parser {
	p := &Parser{
		s:        s,
		fileName: fileName,
		errs:     &diagnostics.List{},
	}

	p.prefixFns = map[token.Type]prefixParseFn{
		token.IDENT:     p.parseIdentifier,
		token.INT:       p.parseLiteral(token.INT),
		token.FLOAT:     p.parseLiteral(token.FLOAT),
		token.DOUBLE:    p.parseLiteral(token.DOUBLE),
		token.STRING:    p.parseLiteral(token.STRING),
		token.CHAR:      p.parseLiteral(token.CHAR),
		token.TRUE:      p.parseBoolLiteral,
		token.FALSE:     p.parseBoolLiteral,
		token.BANG:      p.parseUnary,
		token.MINUS:     p.parseUnary,
		token.PLUS:      p.parseUnary,
		token.INCREMENT: p.parseUnary,
		token.DECREMENT: p.parseUnary,
		token.LPAREN:    p.parseGroupedOrCast,
		token.LBRACKET:  p.parseArrayLiteral,
		token.THIS:      p.parseIdentifier,
		token.NEW:       p.parseNewExpression,
	}

	p.infixFns = map[token.Type]infixParseFn{
		token.PLUS:     p.parseBinary,
		token.MINUS:    p.parseBinary,
		token.ASTERISK: p.parseBinary,
		token.SLASH:    p.parseBinary,
		token.PERCENT:  p.parseBinary,
		token.EQ:       p.parseBinary,
		token.NOT_EQ:   p.parseBinary,
		token.LT:       p.parseBinary,
		token.GT:       p.parseBinary,
		token.LT_EQ:    p.parseBinary,
		token.GT_EQ:    p.parseBinary,
		token.AND:      p.parseBinary,
		token.OR:       p.parseBinary,
		token.DOT:      p.parseMember,
		token.LPAREN:   p.parseCall,
		token.LBRACKET: p.parseIndex,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the diagnostics accumulated while parsing.
func (p *Parser) Errors() *diagnostics.List { return p.errs }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.s.Next()
}

func (p *Parser) mark() checkpoint {
	return checkpoint{cur: p.curToken, peek: p.peekToken, scanner: p.s.Checkpoint()}
}

func (p *Parser) reset(c checkpoint) {
	p.curToken = c.cur
	p.peekToken = c.peek
	p.s.Restore(c.scanner)
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expect(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errorExpected(string(t))
	return false
}

func (p *Parser) errorExpected(expected string) {
	p.errs.Add(diagnostics.ExpectedErr(diagnostics.PhaseParser, p.peekToken.Pos, expected, p.peekToken.Type, p.peekToken.Literal))
}

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) {
	p.errs.Add(diagnostics.New(diagnostics.Internal, diagnostics.PhaseParser, pos, fmt.Sprintf(format, args...)))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// isTypeToken reports whether the current token can start a declared-type
// position: a primitive type keyword or an object type name.
func (p *Parser) isTypeToken(t token.Token) bool {
	return token.IsTypeKeyword(t.Type) || t.Type == token.IDENT
}

// ParseFile is the entry point: it consumes the whole token stream and
// produces a *ast.File rooted at the file scope, with import/include
// directives recorded verbatim in side lists — the parser never resolves
// them itself.
func (p *Parser) ParseFile() *ast.File {
	file := ast.NewFile(p.fileName)

	for !p.curIs(token.EOF) {
		switch p.curToken.Type {
		case token.IMPORT:
			if imp := p.parseImportDecl(); imp != nil {
				file.Imports = append(file.Imports, imp)
			}
		case token.INCLUDE:
			if inc := p.parseIncludeDecl(); inc != nil {
				file.Includes = append(file.Includes, inc)
			}
		case token.PUBLIC, token.STATIC:
			p.parseModifiedTopLevel(file)
		case token.VAR:
			if v := p.parseVarDecl(); v != nil {
				v.Owner = file.Scope
				file.Scope.Insert(v)
			}
		case token.FUNC:
			if f := p.parseFuncDecl(); f != nil {
				file.Scope.Insert(f)
			}
		case token.OBJECT:
			if o := p.parseObjectDecl(); o != nil {
				file.Scope.Insert(o)
			}
		default:
			p.errorf(p.curToken.Pos, "expected import, include, var, func, or object declaration, got %s", p.curToken.Type)
			p.nextToken()
		}
	}

	return file
}

// parseModifiedTopLevel handles `public`/`static` prefixing a var/func/object
// declaration and marks the resulting node IsExport (public) accordingly.
func (p *Parser) parseModifiedTopLevel(file *ast.File) {
	isPublic := p.curIs(token.PUBLIC)
	isStatic := p.curIs(token.STATIC)
	p.nextToken()
	if p.curIs(token.STATIC) {
		isStatic = true
		p.nextToken()
	} else if p.curIs(token.PUBLIC) {
		isPublic = true
		p.nextToken()
	}

	switch p.curToken.Type {
	case token.VAR:
		if v := p.parseVarDecl(); v != nil {
			v.IsExport = isPublic
			v.Owner = file.Scope
			file.Scope.Insert(v)
		}
	case token.FUNC:
		if f := p.parseFuncDecl(); f != nil {
			f.IsExport = isPublic
			f.IsStatic = isStatic
			file.Scope.Insert(f)
		}
	case token.OBJECT:
		if o := p.parseObjectDecl(); o != nil {
			o.IsExport = isPublic
			file.Scope.Insert(o)
		}
	default:
		p.errorf(p.curToken.Pos, "expected var, func, or object after modifier, got %s", p.curToken.Type)
	}
}

// ============ IMPORT / INCLUDE ============

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	pos := p.curToken.Pos
	if !p.expect(token.STRING) {
		p.nextToken()
		return nil
	}
	decl := &ast.ImportDecl{Name: p.curToken.Literal}
	decl.NodeKind = ast.KindImport
	decl.Position = pos
	if !p.expect(token.SEMICOLON) {
		return decl
	}
	p.nextToken()
	return decl
}

func (p *Parser) parseIncludeDecl() *ast.IncludeDecl {
	pos := p.curToken.Pos
	if !p.expect(token.STRING) {
		p.nextToken()
		return nil
	}
	decl := &ast.IncludeDecl{Path: p.curToken.Literal}
	decl.NodeKind = ast.KindInclude
	decl.Position = pos
	if !p.expect(token.SEMICOLON) {
		return decl
	}
	p.nextToken()
	return decl
}

// ============ VAR ============

// parseVarDecl parses `var name [type] = expr ;`. Current token is VAR.
func (p *Parser) parseVarDecl() *ast.VarDecl {
	pos := p.curToken.Pos
	if !p.expect(token.IDENT) {
		p.nextToken()
		return nil
	}

	decl := &ast.VarDecl{Name: p.curToken.Literal}
	decl.NodeKind = ast.KindVar
	decl.Position = pos

	if p.isTypeToken(p.peekToken) && !p.peekIs(token.ASSIGN) {
		p.nextToken()
		decl.DeclaredType = p.curToken
	}

	if !p.expect(token.ASSIGN) {
		p.nextToken()
		return decl
	}
	decl.AssignPos = p.curToken.Pos

	p.nextToken()
	decl.Init = p.parseExpression(LOWEST)

	if !p.expect(token.SEMICOLON) {
		return decl
	}
	p.nextToken()
	return decl
}

// ============ FUNC ============

func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	pos := p.curToken.Pos
	if !p.expect(token.IDENT) {
		p.nextToken()
		return nil
	}

	fn := &ast.FuncDecl{Name: p.curToken.Literal}
	fn.NodeKind = ast.KindFunc
	fn.Position = pos

	if !p.expect(token.LPAREN) {
		p.nextToken()
		return fn
	}
	fn.Params, fn.Variadic = p.parseParams()

	if p.isTypeToken(p.peekToken) {
		p.nextToken()
		fn.ReturnType = p.curToken
	}

	if !p.expect(token.LBRACE) {
		p.nextToken()
		return fn
	}
	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseParams() ([]*ast.Param, bool) {
	var params []*ast.Param
	variadic := false

	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return params, variadic
	}

	p.nextToken()
	for {
		if p.curIs(token.DOT) && p.peekIs(token.DOT) {
			// '...' variadic marker, consumed as three DOT tokens.
			p.nextToken()
			p.nextToken()
			variadic = true
			p.nextToken()
		}

		if !p.curIs(token.IDENT) {
			p.errorf(p.curToken.Pos, "expected parameter name, got %s", p.curToken.Type)
			break
		}
		param := &ast.Param{Name: p.curToken.Literal}
		if !p.expect(token.COLON) {
			break
		}
		if !p.isTypeToken(p.peekToken) {
			p.errorExpected("type")
			break
		}
		p.nextToken()
		param.Type = p.curToken
		params = append(params, param)

		if !p.peekIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}

	if !p.expect(token.RPAREN) {
		return params, variadic
	}
	return params, variadic
}
