// Package parser is the PostgreSQL-flavoured grammar: a hand-written lexer
// and recursive-descent parser that builds raw parse trees from pkg/nodes.
//
// # Usage
//
//	tree, err := parser.Parse("SELECT 1;", parser.ModeDefault)
//	if err != nil {
//	    // err is an *elog.ErrorData carrying message and SQLSTATE
//	}
//
// Inside a protected region the grammar can be driven directly; errors
// then unwind to the enclosing elog.State.Try:
//
//	ed := es.Try(func() { tree = parser.RawParser(es, src, mode) })
//
// # Grammar Overview
//
//	stmtmulti     → [toplevel_stmt] (";" [toplevel_stmt])*
//	toplevel_stmt → select_stmt | insert_stmt | update_stmt | delete_stmt
//	select_stmt   → [WITH cte_list] select_clause [ORDER BY ...] [LIMIT ...] [OFFSET ...]
//	select_clause → simple_select ((UNION|EXCEPT|INTERSECT) [ALL|DISTINCT] simple_select)*
//	simple_select → SELECT ... | VALUES ... | "(" select_stmt ")"
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"github.com/leapstack-labs/pgparse/pkg/elog"
	"github.com/leapstack-labs/pgparse/pkg/nodes"
	"github.com/leapstack-labs/pgparse/pkg/token"
)

// Parser parses SQL into a raw parse tree.
type Parser struct {
	lexer *Lexer
	es    *elog.State
	src   string
	token token.Token   // current token
	ahead []token.Token // lexed lookahead tokens
}

// NewParser creates a parser over src that reports errors to es.
func NewParser(es *elog.State, src string, opts ...Option) *Parser {
	p := &Parser{
		lexer: NewLexer(es, src, opts...),
		es:    es,
		src:   src,
	}
	p.nextToken()
	return p
}

// RawParser parses src from the entry point selected by mode. A syntax
// error is raised through es and does not return; call it inside
// es.Try.
func RawParser(es *elog.State, src string, mode Mode, opts ...Option) *nodes.List {
	p := NewParser(es, src, opts...)

	var tree *nodes.List
	switch mode {
	case ModeTypeName:
		tree = nodes.MakeList(p.parseTypename())
	case ModePLpgSQLExpr:
		tree = nodes.MakeList(&nodes.RawStmt{Stmt: p.parsePLpgSQLExpr()})
	case ModePLpgSQLAssign1, ModePLpgSQLAssign2, ModePLpgSQLAssign3:
		tree = nodes.MakeList(&nodes.RawStmt{Stmt: p.parsePLAssignStmt(mode.assignNames())})
	default:
		tree = p.parseStmtMulti()
	}

	if !p.check(token.EOF) {
		p.syntaxError()
	}
	return tree
}

// Parse parses src with a private error state and returns the first error
// as an *elog.ErrorData.
func Parse(src string, mode Mode, opts ...Option) (*nodes.List, error) {
	es := elog.NewState(nil, nil)
	var tree *nodes.List
	if ed := es.Try(func() { tree = RawParser(es, src, mode, opts...) }); ed != nil {
		return nil, ed
	}
	return tree, nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	if len(p.ahead) > 0 {
		p.token = p.ahead[0]
		p.ahead = p.ahead[1:]
		return
	}
	p.token = p.lexer.NextToken()
}

// peekN returns the token n positions after the current one (n >= 1),
// lexing it if needed.
func (p *Parser) peekN(n int) token.Token {
	for len(p.ahead) < n {
		p.ahead = append(p.ahead, p.lexer.NextToken())
	}
	return p.ahead[n-1]
}

// peek returns the lookahead token.
func (p *Parser) peek() token.Token {
	return p.peekN(1)
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the lookahead token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek().Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise raises a
// syntax error.
func (p *Parser) expect(t token.TokenType) token.Token {
	tok := p.token
	if !p.check(t) {
		p.syntaxError()
	}
	p.nextToken()
	return tok
}

// loc returns the parse location of the current token.
func (p *Parser) loc() int {
	return p.token.Pos.Offset
}

// ---------- Errors ----------

// syntaxError raises a syntax error at the current token.
func (p *Parser) syntaxError() {
	p.syntaxErrorAt(p.token)
}

func (p *Parser) syntaxErrorAt(tok token.Token) {
	if tok.Type == token.EOF {
		p.es.Errorf(elog.ErrcodeSyntaxError, cursorAt(p.src, len(p.src)), ErrSyntaxAtEnd)
	}
	p.es.Errorf(elog.ErrcodeSyntaxError, cursorAt(p.src, tok.Pos.Offset), ErrSyntaxAtOrNear, p.src[tok.Pos.Offset:tok.End])
}

// errorAt raises an error whose cursor points at location.
func (p *Parser) errorAt(code elog.SQLState, location int, format string, args ...any) {
	p.es.Errorf(code, cursorAt(p.src, location), format, args...)
}

// ---------- Keyword Helpers ----------

// isColID reports whether t can be a column, table or variable name.
func isColID(t token.TokenType) bool {
	if t == token.IDENT {
		return true
	}
	c := token.CategoryOf(t)
	return c == token.Unreserved || c == token.ColName
}

// isTypeFunctionName reports whether t can name a function or type.
func isTypeFunctionName(t token.TokenType) bool {
	if t == token.IDENT {
		return true
	}
	c := token.CategoryOf(t)
	return c == token.Unreserved || c == token.TypeFuncName
}

// isColLabel reports whether t can follow AS or ".": any word at all.
func isColLabel(t token.TokenType) bool {
	return t == token.IDENT || token.IsKeyword(t)
}

// isBareLabel reports whether t can be a column alias without AS.
func isBareLabel(t token.TokenType) bool {
	return t == token.IDENT || token.CategoryOf(t) == token.Unreserved
}

// parseColID consumes a ColId and returns its name.
func (p *Parser) parseColID() string {
	if !isColID(p.token.Type) {
		p.syntaxError()
	}
	name := p.token.Literal
	p.nextToken()
	return name
}

// parseColLabel consumes a ColLabel and returns its name.
func (p *Parser) parseColLabel() string {
	if !isColLabel(p.token.Type) {
		p.syntaxError()
	}
	name := p.token.Literal
	p.nextToken()
	return name
}

// parseNameList parses name ("," name)*.
func (p *Parser) parseNameList() *nodes.List {
	list := &nodes.List{}
	for {
		list.Append(nodes.MakeString(p.parseColID()))
		if !p.match(token.COMMA) {
			return list
		}
	}
}

// parseIconst consumes an integer constant.
func (p *Parser) parseIconst() (int64, int) {
	tok := p.expect(token.ICONST)
	return atoi(tok.Literal), tok.Pos.Offset
}
