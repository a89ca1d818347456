// Package parser turns a lexer.Token stream into an *ast.Module. It is a
// plain recursive-descent/precedence-climbing parser covering the
// expression and statement grammar ast.go fixes the shape of — a
// scoped-down front end, not a full CPython grammar, matched to what the
// host API's literal source strings and the conformance suite actually
// exercise.
package parser

import (
	"fmt"

	"github.com/kustomzone/monty/ast"
	"github.com/kustomzone/monty/lexer"
)

// SyntaxError reports a parse failure.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SyntaxError: %s (line %d)", e.Msg, e.Line)
}

type Parser struct {
	toks []lexer.Token
	pos  int
}

// Parse tokenizes src and parses it into a module.
func Parse(src string) (*ast.Module, error) {
	lx := lexer.New(src)
	toks, err := lx.Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseModule()
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) at(t lexer.TokenType) bool { return p.cur().Type == t }

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(t lexer.TokenType, what string) (lexer.Token, error) {
	if !p.at(t) {
		return lexer.Token{}, &SyntaxError{Line: p.cur().Line, Msg: fmt.Sprintf("expected %s", what)}
	}
	return p.advance(), nil
}

func (p *Parser) skipNewlines() {
	for p.at(lexer.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) parseModule() (*ast.Module, error) {
	p.skipNewlines()
	var body []ast.Stmt
	for !p.at(lexer.EOF) {
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmts...)
		p.skipNewlines()
	}
	return ast.NewModule(body), nil
}

// parseBlock parses ':' NEWLINE INDENT stmt+ DEDENT.
func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(lexer.COLON, "':'"); err != nil {
		return nil, err
	}
	if p.at(lexer.NEWLINE) {
		p.advance()
		if _, err := p.expect(lexer.INDENT, "indented block"); err != nil {
			return nil, err
		}
		var body []ast.Stmt
		for !p.at(lexer.DEDENT) && !p.at(lexer.EOF) {
			stmts, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			body = append(body, stmts...)
			p.skipNewlines()
		}
		if _, err := p.expect(lexer.DEDENT, "dedent"); err != nil {
			return nil, err
		}
		return body, nil
	}
	// Single-line suite: `if x: y = 1`
	return p.parseSimpleStatementLine()
}

// parseStatement parses one logical statement (compound, or one or more
// simple statements separated by ';' on a single line) and returns the
// list of statements it produced.
func (p *Parser) parseStatement() ([]ast.Stmt, error) {
	switch p.cur().Type {
	case lexer.KwIf:
		s, err := p.parseIf()
		return []ast.Stmt{s}, err
	case lexer.KwWhile:
		s, err := p.parseWhile()
		return []ast.Stmt{s}, err
	case lexer.KwFor:
		s, err := p.parseFor()
		return []ast.Stmt{s}, err
	case lexer.KwTry:
		s, err := p.parseTry()
		return []ast.Stmt{s}, err
	case lexer.KwWith:
		s, err := p.parseWith()
		return []ast.Stmt{s}, err
	default:
		return p.parseSimpleStatementLine()
	}
}

// parseSimpleStatementLine parses `simple_stmt (';' simple_stmt)* NEWLINE`.
func (p *Parser) parseSimpleStatementLine() ([]ast.Stmt, error) {
	var out []ast.Stmt
	for {
		s, err := p.parseSimpleStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		if p.at(lexer.SEMI) {
			p.advance()
			if p.at(lexer.NEWLINE) || p.at(lexer.EOF) {
				break
			}
			continue
		}
		break
	}
	if p.at(lexer.NEWLINE) {
		p.advance()
	} else if !p.at(lexer.EOF) && !p.at(lexer.DEDENT) {
		return nil, &SyntaxError{Line: p.cur().Line, Msg: "expected newline"}
	}
	return out, nil
}

func (p *Parser) parseSimpleStatement() (ast.Stmt, error) {
	line := p.cur().Line
	switch p.cur().Type {
	case lexer.KwPass:
		p.advance()
		return &ast.PassStmt{Base: ast.Line(line)}, nil
	case lexer.KwBreak:
		p.advance()
		return &ast.BreakStmt{Base: ast.Line(line)}, nil
	case lexer.KwContinue:
		p.advance()
		return &ast.ContinueStmt{Base: ast.Line(line)}, nil
	case lexer.KwReturn:
		p.advance()
		if p.at(lexer.NEWLINE) || p.at(lexer.SEMI) || p.at(lexer.EOF) {
			return &ast.ReturnStmt{Base: ast.Line(line)}, nil
		}
		v, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Base: ast.Line(line), Value: v}, nil
	case lexer.KwAssert:
		p.advance()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		var msg ast.Expr
		if p.at(lexer.COMMA) {
			p.advance()
			msg, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		return &ast.AssertStmt{Base: ast.Line(line), Cond: cond, Msg: msg}, nil
	case lexer.KwRaise:
		p.advance()
		if p.at(lexer.NEWLINE) || p.at(lexer.SEMI) || p.at(lexer.EOF) {
			return &ast.RaiseStmt{Base: ast.Line(line)}, nil
		}
		exc, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		var from ast.Expr
		if p.at(lexer.KwFrom) {
			p.advance()
			from, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
		return &ast.RaiseStmt{Base: ast.Line(line), Exc: exc, From: from}, nil
	case lexer.KwImport:
		return p.parseImport()
	case lexer.KwFrom:
		return p.parseImportFrom()
	case lexer.KwNonlocal:
		// def/lambda bodies are reserved keywords but never parsed as
		// statements, so a function body lexically never exists: nonlocal
		// is unreachable from anywhere but module scope, and that's a
		// static error, not a runtime one.
		return nil, &SyntaxError{Line: line, Msg: "nonlocal declaration not allowed at module level"}
	case lexer.KwGlobal:
		p.advance()
		names, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		return &ast.GlobalStmt{Base: ast.Line(line), Names: names}, nil
	default:
		return p.parseExprOrAssignStatement()
	}
}

func (p *Parser) parseNameList() ([]string, error) {
	var names []string
	for {
		tok, err := p.expect(lexer.NAME, "name")
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Text)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return names, nil
}

func (p *Parser) parseImport() (ast.Stmt, error) {
	line := p.cur().Line
	p.advance()
	nameTok, err := p.expect(lexer.NAME, "module name")
	if err != nil {
		return nil, err
	}
	mod := nameTok.Text
	for p.at(lexer.DOT) {
		p.advance()
		tok, err := p.expect(lexer.NAME, "name")
		if err != nil {
			return nil, err
		}
		mod += "." + tok.Text
	}
	alias := ""
	if p.at(lexer.KwAs) {
		p.advance()
		tok, err := p.expect(lexer.NAME, "name")
		if err != nil {
			return nil, err
		}
		alias = tok.Text
	}
	return &ast.ImportStmt{Base: ast.Line(line), Module: mod, Alias: alias}, nil
}

func (p *Parser) parseImportFrom() (ast.Stmt, error) {
	line := p.cur().Line
	p.advance()
	modTok, err := p.expect(lexer.NAME, "module name")
	if err != nil {
		return nil, err
	}
	mod := modTok.Text
	for p.at(lexer.DOT) {
		p.advance()
		tok, err := p.expect(lexer.NAME, "name")
		if err != nil {
			return nil, err
		}
		mod += "." + tok.Text
	}
	if _, err := p.expect(lexer.KwImport, "'import'"); err != nil {
		return nil, err
	}
	var names, aliases []string
	paren := false
	if p.at(lexer.LPAREN) {
		paren = true
		p.advance()
	}
	for {
		tok, err := p.expect(lexer.NAME, "name")
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Text)
		alias := ""
		if p.at(lexer.KwAs) {
			p.advance()
			a, err := p.expect(lexer.NAME, "name")
			if err != nil {
				return nil, err
			}
			alias = a.Text
		}
		aliases = append(aliases, alias)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if paren {
		if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
			return nil, err
		}
	}
	return &ast.ImportFromStmt{Base: ast.Line(line), Module: mod, Names: names, Aliases: aliases}, nil
}

var augOps = map[lexer.TokenType]string{
	lexer.PLUSEQ: "+", lexer.MINUSEQ: "-", lexer.STAREQ: "*", lexer.SLASHEQ: "/",
	lexer.PERCENTEQ: "%",
}

func (p *Parser) parseExprOrAssignStatement() (ast.Stmt, error) {
	line := p.cur().Line
	first, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if op, ok := augOps[p.cur().Type]; ok {
		p.advance()
		val, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return &ast.AugAssignStmt{Base: ast.Line(line), Target: first, Op: op, Value: val}, nil
	}
	if p.at(lexer.ASSIGN) {
		p.advance()
		val, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Base: ast.Line(line), Target: first, Value: val}, nil
	}
	return &ast.ExprStmt{Base: ast.Line(line), X: first}, nil
}

// parseExprList parses a comma-separated expression list, producing a
// TupleExpr when more than one element (or a single trailing comma) is
// present, matching `a, b = ...` and bare tuple display semantics.
func (p *Parser) parseExprList() (ast.Expr, error) {
	line := p.cur().Line
	first, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.COMMA) {
		return first, nil
	}
	elts := []ast.Expr{first}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.ASSIGN) || p.at(lexer.NEWLINE) || p.at(lexer.EOF) || p.at(lexer.COLON) {
			break
		}
		e, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	return &ast.TupleExpr{Base: ast.Line(line), Elts: elts}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	line := p.cur().Line
	p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var orelse []ast.Stmt
	if p.at(lexer.KwElif) {
		s, err := p.parseIf2AsElif()
		if err != nil {
			return nil, err
		}
		orelse = []ast.Stmt{s}
	} else if p.at(lexer.KwElse) {
		p.advance()
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Base: ast.Line(line), Cond: cond, Body: body, Orelse: orelse}, nil
}

// parseIf2AsElif treats the current 'elif' token like an 'if' for recursion.
func (p *Parser) parseIf2AsElif() (ast.Stmt, error) {
	line := p.cur().Line
	p.advance() // consume 'elif'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var orelse []ast.Stmt
	if p.at(lexer.KwElif) {
		s, err := p.parseIf2AsElif()
		if err != nil {
			return nil, err
		}
		orelse = []ast.Stmt{s}
	} else if p.at(lexer.KwElse) {
		p.advance()
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Base: ast.Line(line), Cond: cond, Body: body, Orelse: orelse}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	line := p.cur().Line
	p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var orelse []ast.Stmt
	if p.at(lexer.KwElse) {
		p.advance()
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.WhileStmt{Base: ast.Line(line), Cond: cond, Body: body, Orelse: orelse}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	line := p.cur().Line
	p.advance()
	target, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KwIn, "'in'"); err != nil {
		return nil, err
	}
	iter, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var orelse []ast.Stmt
	if p.at(lexer.KwElse) {
		p.advance()
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.ForStmt{Base: ast.Line(line), Target: target, Iter: iter, Body: body, Orelse: orelse}, nil
}

func (p *Parser) parseTry() (ast.Stmt, error) {
	line := p.cur().Line
	p.advance()
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var handlers []ast.ExceptHandler
	for p.at(lexer.KwExcept) {
		hline := p.cur().Line
		p.advance()
		var types []ast.Expr
		name := ""
		if !p.at(lexer.COLON) {
			first, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			types = append(types, first)
			for p.at(lexer.COMMA) {
				p.advance()
				if p.at(lexer.RPAREN) {
					break
				}
				e, err := p.parseTernary()
				if err != nil {
					return nil, err
				}
				types = append(types, e)
			}
			if p.at(lexer.KwAs) {
				p.advance()
				tok, err := p.expect(lexer.NAME, "name")
				if err != nil {
					return nil, err
				}
				name = tok.Text
			}
		}
		hbody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, ast.ExceptHandler{Base: ast.Line(hline), Types: types, Name: name, Body: hbody})
	}
	var orelse, finally []ast.Stmt
	if p.at(lexer.KwElse) {
		p.advance()
		orelse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	if p.at(lexer.KwFinally) {
		p.advance()
		finally, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.TryStmt{Base: ast.Line(line), Body: body, Handlers: handlers, Orelse: orelse, Finally: finally}, nil
}

func (p *Parser) parseWith() (ast.Stmt, error) {
	line := p.cur().Line
	p.advance()
	var items []ast.WithItem
	for {
		ctx, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		name := ""
		if p.at(lexer.KwAs) {
			p.advance()
			tok, err := p.expect(lexer.NAME, "name")
			if err != nil {
				return nil, err
			}
			name = tok.Text
		}
		items = append(items, ast.WithItem{Context: ctx, Name: name})
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WithStmt{Base: ast.Line(line), Items: items, Body: body}, nil
}

// ---- Expression grammar (precedence climbing) ----

func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseTernary() }

func (p *Parser) parseTernary() (ast.Expr, error) {
	line := p.cur().Line
	then, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.KwIf) {
		p.advance()
		cond, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KwElse, "'else'"); err != nil {
			return nil, err
		}
		els, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return &ast.IfExpr{Base: ast.Line(line), Cond: cond, Then: then, Else: els}, nil
	}
	return then, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	line := p.cur().Line
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.KwOr) {
		return first, nil
	}
	vals := []ast.Expr{first}
	for p.at(lexer.KwOr) {
		p.advance()
		v, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return &ast.BoolOpExpr{Base: ast.Line(line), Op: "or", Vals: vals}, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	line := p.cur().Line
	first, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.KwAnd) {
		return first, nil
	}
	vals := []ast.Expr{first}
	for p.at(lexer.KwAnd) {
		p.advance()
		v, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return &ast.BoolOpExpr{Base: ast.Line(line), Op: "and", Vals: vals}, nil
}

func (p *Parser) parseNot() (ast.Expr, error) {
	if p.at(lexer.KwNot) {
		line := p.cur().Line
		p.advance()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: ast.Line(line), Op: "not", X: x}, nil
	}
	return p.parseComparison()
}

var compareOps = map[lexer.TokenType]string{
	lexer.LT: "<", lexer.LE: "<=", lexer.GT: ">", lexer.GE: ">=",
	lexer.EQ: "==", lexer.NE: "!=",
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	line := p.cur().Line
	first, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	var ops []string
	var rest []ast.Expr
	for {
		if op, ok := compareOps[p.cur().Type]; ok {
			p.advance()
			r, err := p.parseBitOr()
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
			rest = append(rest, r)
			continue
		}
		if p.at(lexer.KwIn) {
			p.advance()
			r, err := p.parseBitOr()
			if err != nil {
				return nil, err
			}
			ops = append(ops, "in")
			rest = append(rest, r)
			continue
		}
		if p.at(lexer.KwNot) && p.peekIsIn() {
			p.advance()
			p.advance()
			r, err := p.parseBitOr()
			if err != nil {
				return nil, err
			}
			ops = append(ops, "not in")
			rest = append(rest, r)
			continue
		}
		if p.at(lexer.KwIs) {
			p.advance()
			negate := false
			if p.at(lexer.KwNot) {
				p.advance()
				negate = true
			}
			r, err := p.parseBitOr()
			if err != nil {
				return nil, err
			}
			if negate {
				ops = append(ops, "is not")
			} else {
				ops = append(ops, "is")
			}
			rest = append(rest, r)
			continue
		}
		break
	}
	if len(ops) == 0 {
		return first, nil
	}
	return &ast.CompareExpr{Base: ast.Line(line), Left: first, Ops: ops, Rest: rest}, nil
}

func (p *Parser) peekIsIn() bool {
	return p.pos+1 < len(p.toks) && p.toks[p.pos+1].Type == lexer.KwIn
}

func (p *Parser) parseBitOr() (ast.Expr, error) {
	return p.parseBinaryLevel([]lexer.TokenType{lexer.PIPE}, p.parseBitXor)
}
func (p *Parser) parseBitXor() (ast.Expr, error) {
	return p.parseBinaryLevel([]lexer.TokenType{lexer.CARET}, p.parseBitAnd)
}
func (p *Parser) parseBitAnd() (ast.Expr, error) {
	return p.parseBinaryLevel([]lexer.TokenType{lexer.AMP}, p.parseShift)
}
func (p *Parser) parseShift() (ast.Expr, error) {
	return p.parseBinaryLevel([]lexer.TokenType{lexer.LSHIFT, lexer.RSHIFT}, p.parseAddSub)
}
func (p *Parser) parseAddSub() (ast.Expr, error) {
	return p.parseBinaryLevel([]lexer.TokenType{lexer.PLUS, lexer.MINUS}, p.parseMulDiv)
}
func (p *Parser) parseMulDiv() (ast.Expr, error) {
	return p.parseBinaryLevel([]lexer.TokenType{lexer.STAR, lexer.SLASH, lexer.DOUBLESLASH, lexer.PERCENT}, p.parseUnary)
}

var opText = map[lexer.TokenType]string{
	lexer.PIPE: "|", lexer.CARET: "^", lexer.AMP: "&",
	lexer.LSHIFT: "<<", lexer.RSHIFT: ">>",
	lexer.PLUS: "+", lexer.MINUS: "-",
	lexer.STAR: "*", lexer.SLASH: "/", lexer.DOUBLESLASH: "//", lexer.PERCENT: "%",
}

func (p *Parser) parseBinaryLevel(ops []lexer.TokenType, next func() (ast.Expr, error)) (ast.Expr, error) {
	line := p.cur().Line
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		matched := false
		for _, op := range ops {
			if p.at(op) {
				p.advance()
				right, err := next()
				if err != nil {
					return nil, err
				}
				left = &ast.BinaryExpr{Base: ast.Line(line), Op: opText[op], Left: left, Right: right}
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	line := p.cur().Line
	switch p.cur().Type {
	case lexer.MINUS:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: ast.Line(line), Op: "-", X: x}, nil
	case lexer.PLUS:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: ast.Line(line), Op: "+", X: x}, nil
	case lexer.TILDE:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: ast.Line(line), Op: "~", X: x}, nil
	}
	return p.parsePower()
}

func (p *Parser) parsePower() (ast.Expr, error) {
	line := p.cur().Line
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.DOUBLESTAR) {
		p.advance()
		exp, err := p.parseUnary() // right-associative; allows -1 as exponent
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Base: ast.Line(line), Op: "**", Left: base, Right: exp}, nil
	}
	return base, nil
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		line := p.cur().Line
		switch p.cur().Type {
		case lexer.DOT:
			p.advance()
			tok, err := p.expect(lexer.NAME, "attribute name")
			if err != nil {
				return nil, err
			}
			expr = &ast.AttributeExpr{Base: ast.Line(line), X: expr, Attr: tok.Text}
		case lexer.LPAREN:
			p.advance()
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Base: ast.Line(line), Func: expr, Args: args}
		case lexer.LBRACKET:
			p.advance()
			idx, err := p.parseSubscript()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACKET, "']'"); err != nil {
				return nil, err
			}
			expr = &ast.SubscriptExpr{Base: ast.Line(line), X: expr, Index: idx}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseCallArgs() ([]ast.CallArg, error) {
	var args []ast.CallArg
	for !p.at(lexer.RPAREN) {
		if p.at(lexer.NAME) && p.pos+1 < len(p.toks) && p.toks[p.pos+1].Type == lexer.ASSIGN {
			name := p.advance().Text
			p.advance() // '='
			v, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			args = append(args, ast.CallArg{Name: name, Val: v})
		} else {
			v, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			args = append(args, ast.CallArg{Val: v})
		}
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

// parseSubscript parses an index or slice expression inside `[...]`.
func (p *Parser) parseSubscript() (ast.Expr, error) {
	line := p.cur().Line
	var lower, upper, step ast.Expr
	var err error
	isSlice := false
	if !p.at(lexer.COLON) {
		lower, err = p.parseTernary()
		if err != nil {
			return nil, err
		}
	}
	if p.at(lexer.COLON) {
		isSlice = true
		p.advance()
		if !p.at(lexer.COLON) && !p.at(lexer.RBRACKET) {
			upper, err = p.parseTernary()
			if err != nil {
				return nil, err
			}
		}
		if p.at(lexer.COLON) {
			p.advance()
			if !p.at(lexer.RBRACKET) {
				step, err = p.parseTernary()
				if err != nil {
					return nil, err
				}
			}
		}
	}
	if isSlice {
		return &ast.SliceExpr{Base: ast.Line(line), Lower: lower, Upper: upper, Step: step}, nil
	}
	return lower, nil
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	tok := p.cur()
	line := tok.Line
	switch tok.Type {
	case lexer.KwNone:
		p.advance()
		return &ast.NoneLit{Base: ast.Line(line)}, nil
	case lexer.KwTrue:
		p.advance()
		return &ast.BoolLit{Base: ast.Line(line), Value: true}, nil
	case lexer.KwFalse:
		p.advance()
		return &ast.BoolLit{Base: ast.Line(line), Value: false}, nil
	case lexer.INT:
		p.advance()
		return &ast.IntLit{Base: ast.Line(line), Text: tok.Text}, nil
	case lexer.FLOAT:
		p.advance()
		return parseFloatLit(line, tok.Text)
	case lexer.STRING:
		p.advance()
		return &ast.StringLit{Base: ast.Line(line), Value: tok.Text}, nil
	case lexer.BYTES:
		p.advance()
		return &ast.BytesLit{Base: ast.Line(line), Value: []byte(tok.Text)}, nil
	case lexer.NAME:
		p.advance()
		return &ast.Name{Base: ast.Line(line), Id: tok.Text}, nil
	case lexer.LPAREN:
		return p.parseParenOrTuple()
	case lexer.LBRACKET:
		return p.parseListOrComprehension()
	case lexer.LBRACE:
		return p.parseSetOrDict()
	}
	return nil, &SyntaxError{Line: line, Msg: fmt.Sprintf("unexpected token %q", tok.Text)}
}

func parseFloatLit(line int, text string) (ast.Expr, error) {
	var f float64
	_, err := fmt.Sscanf(text, "%g", &f)
	if err != nil {
		return nil, &SyntaxError{Line: line, Msg: "invalid float literal"}
	}
	return &ast.FloatLit{Base: ast.Line(line), Value: f}, nil
}

func (p *Parser) parseParenOrTuple() (ast.Expr, error) {
	line := p.cur().Line
	p.advance() // '('
	if p.at(lexer.RPAREN) {
		p.advance()
		return &ast.TupleExpr{Base: ast.Line(line), Elts: nil}, nil
	}
	first, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.KwFor) {
		comp, err := p.parseComprehensionTail(line, "generator", first)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return comp, nil
	}
	if p.at(lexer.COMMA) {
		elts := []ast.Expr{first}
		for p.at(lexer.COMMA) {
			p.advance()
			if p.at(lexer.RPAREN) {
				break
			}
			e, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			elts = append(elts, e)
		}
		if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return &ast.TupleExpr{Base: ast.Line(line), Elts: elts}, nil
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return first, nil
}

func (p *Parser) parseListOrComprehension() (ast.Expr, error) {
	line := p.cur().Line
	p.advance() // '['
	if p.at(lexer.RBRACKET) {
		p.advance()
		return &ast.ListExpr{Base: ast.Line(line)}, nil
	}
	first, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.KwFor) {
		comp, err := p.parseComprehensionTail(line, "list", first)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACKET, "']'"); err != nil {
			return nil, err
		}
		return comp, nil
	}
	elts := []ast.Expr{first}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RBRACKET) {
			break
		}
		e, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	if _, err := p.expect(lexer.RBRACKET, "']'"); err != nil {
		return nil, err
	}
	return &ast.ListExpr{Base: ast.Line(line), Elts: elts}, nil
}

func (p *Parser) parseSetOrDict() (ast.Expr, error) {
	line := p.cur().Line
	p.advance() // '{'
	if p.at(lexer.RBRACE) {
		p.advance()
		return &ast.DictExpr{Base: ast.Line(line)}, nil
	}
	firstKey, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if p.at(lexer.COLON) {
		p.advance()
		firstVal, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if p.at(lexer.KwFor) {
			comp, err := p.parseDictComprehensionTail(line, firstKey, firstVal)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACE, "'}'"); err != nil {
				return nil, err
			}
			return comp, nil
		}
		keys := []ast.Expr{firstKey}
		vals := []ast.Expr{firstVal}
		for p.at(lexer.COMMA) {
			p.advance()
			if p.at(lexer.RBRACE) {
				break
			}
			k, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON, "':'"); err != nil {
				return nil, err
			}
			v, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
			vals = append(vals, v)
		}
		if _, err := p.expect(lexer.RBRACE, "'}'"); err != nil {
			return nil, err
		}
		return &ast.DictExpr{Base: ast.Line(line), Keys: keys, Values: vals}, nil
	}
	if p.at(lexer.KwFor) {
		comp, err := p.parseComprehensionTail(line, "set", firstKey)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACE, "'}'"); err != nil {
			return nil, err
		}
		return comp, nil
	}
	elts := []ast.Expr{firstKey}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RBRACE) {
			break
		}
		e, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		elts = append(elts, e)
	}
	if _, err := p.expect(lexer.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return &ast.SetExpr{Base: ast.Line(line), Elts: elts}, nil
}

func (p *Parser) parseComprehensionTail(line int, kind string, elt ast.Expr) (ast.Expr, error) {
	if _, err := p.expect(lexer.KwFor, "'for'"); err != nil {
		return nil, err
	}
	target, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KwIn, "'in'"); err != nil {
		return nil, err
	}
	iter, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	var ifs []ast.Expr
	for p.at(lexer.KwIf) {
		p.advance()
		cond, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		ifs = append(ifs, cond)
	}
	return &ast.Comprehension{Base: ast.Line(line), Kind: kind, Elt: elt, Target: target, Iter: iter, Ifs: ifs}, nil
}

func (p *Parser) parseDictComprehensionTail(line int, key, val ast.Expr) (ast.Expr, error) {
	if _, err := p.expect(lexer.KwFor, "'for'"); err != nil {
		return nil, err
	}
	target, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KwIn, "'in'"); err != nil {
		return nil, err
	}
	iter, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	var ifs []ast.Expr
	for p.at(lexer.KwIf) {
		p.advance()
		cond, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		ifs = append(ifs, cond)
	}
	return &ast.Comprehension{Base: ast.Line(line), Kind: "dict", Elt: key, Value: val, Target: target, Iter: iter, Ifs: ifs}, nil
}
