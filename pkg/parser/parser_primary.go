package parser

import (
	"strconv"

	"github.com/leapstack-labs/pgparse/pkg/elog"
	"github.com/leapstack-labs/pgparse/pkg/nodes"
	"github.com/leapstack-labs/pgparse/pkg/token"
)

// Primary expression parsing: literals, column refs, function calls.
//
// Grammar:
//
//	primary     → literal | PARAM [indirection] | "(" expr ")" [indirection]
//	            | select_with_parens [indirection] | EXISTS select_with_parens
//	            | ARRAY (select_with_parens | array_expr)
//	            | case_expr | CAST "(" expr AS typename ")"
//	            | const_typename SCONST | func_name SCONST
//	            | column_ref | func_call
//	literal     → ICONST | FCONST | SCONST | TRUE | FALSE | NULL
//	column_ref  → ColId ("." (ColLabel | "*"))* [indirection]
//	indirection → ("." ColLabel | "." "*" | "[" expr "]" | "[" [expr] ":" [expr] "]")+
//	func_call   → func_name "(" ["*" | [ALL | DISTINCT] expr_list [sort_clause]] ")"
//	              [FILTER "(" WHERE expr ")"] [OVER (ColId | window_spec)]
//	case_expr   → CASE [expr] (WHEN expr THEN expr)+ [ELSE expr] END
//	array_expr  → "[" [expr_list | array_expr ("," array_expr)*] "]"

// parsePrimary parses primary expressions.
func (p *Parser) parsePrimary() nodes.Node {
	loc := p.loc()

	switch p.token.Type {
	case token.ICONST:
		val := &nodes.Integer{Ival: atoi(p.token.Literal)}
		p.nextToken()
		return &nodes.A_Const{Val: val, Location: loc}

	case token.FCONST:
		val := &nodes.Float{Fval: p.token.Literal}
		p.nextToken()
		return &nodes.A_Const{Val: val, Location: loc}

	case token.SCONST:
		val := nodes.MakeString(p.token.Literal)
		p.nextToken()
		return &nodes.A_Const{Val: val, Location: loc}

	case token.TRUE, token.FALSE:
		val := &nodes.Boolean{Boolval: p.check(token.TRUE)}
		p.nextToken()
		return &nodes.A_Const{Val: val, Location: loc}

	case token.NULL:
		p.nextToken()
		return &nodes.A_Const{Isnull: true, Location: loc}

	case token.PARAM:
		n, _ := strconv.Atoi(p.token.Literal)
		p.nextToken()
		return p.wrapIndirection(&nodes.ParamRef{Number: n, Location: loc})

	case token.LPAREN:
		if p.parenStartsSubquery() {
			sub := p.parseSelectWithParens()
			return p.wrapIndirection(&nodes.SubLink{SubLinkType: nodes.EXPR_SUBLINK, Subselect: sub, Location: loc})
		}
		p.nextToken()
		expr := p.parseExpr()
		p.expect(token.RPAREN)
		return p.wrapIndirection(expr)

	case token.CASE:
		return p.parseCaseExpr()

	case token.CAST:
		p.nextToken()
		p.expect(token.LPAREN)
		arg := p.parseExpr()
		p.expect(token.AS)
		tn := p.parseTypename()
		p.expect(token.RPAREN)
		return &nodes.TypeCast{Arg: arg, TypeName: tn, Location: loc}

	case token.EXISTS:
		if p.checkPeek(token.LPAREN) {
			p.nextToken()
			sub := p.parseSelectWithParens()
			return &nodes.SubLink{SubLinkType: nodes.EXISTS_SUBLINK, Subselect: sub, Location: loc}
		}

	case token.ARRAY:
		p.nextToken()
		if p.parenStartsSubquery() {
			sub := p.parseSelectWithParens()
			return &nodes.SubLink{SubLinkType: nodes.ARRAY_SUBLINK, Subselect: sub, Location: loc}
		}
		return p.parseArrayExpr(loc)
	}

	if p.isConstTypenameStart() {
		return p.parseConstTypeLiteral()
	}
	if isColID(p.token.Type) || isTypeFunctionName(p.token.Type) {
		return p.parseNameExpr()
	}

	p.syntaxError()
	return nil
}

// parseNameExpr parses an expression starting with a name: a column
// reference, a function call, or a generic typed literal such as
// date '2024-01-01'.
func (p *Parser) parseNameExpr() nodes.Node {
	first := p.token
	loc := p.loc()
	p.nextToken()

	if isTypeFunctionName(first.Type) {
		switch {
		case p.check(token.LPAREN):
			return p.parseFuncCall(nodes.StringList(first.Literal), loc)
		case p.check(token.SCONST):
			return p.parseGenericTypeLiteral(nodes.MakeTypeName(loc, first.Literal))
		}
	}
	if !isColID(first.Type) {
		p.syntaxErrorAt(first)
	}

	fields := nodes.MakeList(nodes.MakeString(first.Literal))
	star := false
	for p.check(token.DOT) && !star {
		p.nextToken()
		if p.match(token.STAR) {
			fields.Append(&nodes.A_Star{})
			star = true
			continue
		}
		fields.Append(nodes.MakeString(p.parseColLabel()))
	}

	if fields.Len() > 1 && !star {
		switch {
		case p.check(token.LPAREN):
			return p.parseFuncCall(fields, loc)
		case p.check(token.SCONST):
			tn := &nodes.TypeName{Names: fields, Typemod: -1, Location: loc}
			return p.parseGenericTypeLiteral(tn)
		}
	}

	if star && (p.check(token.DOT) || p.check(token.LBRACKET)) {
		p.errorAt(elog.ErrcodeSyntaxError, loc, ErrImproperStar)
	}
	return p.wrapIndirection(&nodes.ColumnRef{Fields: fields, Location: loc})
}

// parseGenericTypeLiteral parses the string of a typed literal whose type
// has already been parsed.
func (p *Parser) parseGenericTypeLiteral(tn *nodes.TypeName) nodes.Node {
	str := p.expect(token.SCONST)
	arg := &nodes.A_Const{Val: nodes.MakeString(str.Literal), Location: str.Pos.Offset}
	return &nodes.TypeCast{Arg: arg, TypeName: tn, Location: -1}
}

// isConstTypenameStart reports whether the current token starts a typed
// literal of a built-in type, such as interval '1 day' or
// timestamp(3) with time zone '...'.
func (p *Parser) isConstTypenameStart() bool {
	switch p.token.Type {
	case token.DOUBLE:
		return p.checkPeek(token.PRECISION)
	case token.INT, token.INTEGER, token.SMALLINT, token.BIGINT, token.REAL, token.FLOAT,
		token.DECIMAL, token.DEC, token.NUMERIC, token.BOOLEAN, token.BIT,
		token.CHAR, token.CHARACTER, token.VARCHAR, token.TIME, token.TIMESTAMP, token.INTERVAL:
		switch p.peek().Type {
		case token.SCONST, token.LPAREN, token.VARYING, token.WITH, token.WITHOUT:
			return true
		}
	}
	return false
}

// parseConstTypeLiteral parses const_typename SCONST.
func (p *Parser) parseConstTypeLiteral() nodes.Node {
	return p.parseGenericTypeLiteral(p.parseSimpleTypename(true))
}

// parseFuncCall parses the argument list and trailing clauses of a call
// to the function named names.
func (p *Parser) parseFuncCall(names *nodes.List, loc int) nodes.Node {
	fc := &nodes.FuncCall{Funcname: names, Funcformat: nodes.COERCE_EXPLICIT_CALL, Location: loc}

	p.expect(token.LPAREN)
	switch {
	case p.match(token.STAR):
		fc.AggStar = true
	case p.check(token.RPAREN):
	default:
		if p.match(token.DISTINCT) {
			fc.AggDistinct = true
		} else {
			p.match(token.ALL)
		}
		fc.Args = p.parseExprList()
		if p.check(token.ORDER) {
			fc.AggOrder = p.parseSortClause()
		}
	}
	p.expect(token.RPAREN)

	// FILTER clause (for aggregates)
	if p.match(token.FILTER) {
		p.expect(token.LPAREN)
		p.expect(token.WHERE)
		fc.AggFilter = p.parseExpr()
		p.expect(token.RPAREN)
	}

	// OVER clause (window function)
	if p.match(token.OVER) {
		fc.Over = p.parseOverClause()
	}
	return fc
}

// parseCaseExpr parses CASE ... END.
func (p *Parser) parseCaseExpr() nodes.Node {
	ce := &nodes.CaseExpr{Location: p.loc()}
	p.expect(token.CASE)

	if !p.check(token.WHEN) {
		ce.Arg = p.parseExpr()
	}

	if !p.check(token.WHEN) {
		p.syntaxError()
	}
	ce.Args = &nodes.List{}
	for p.check(token.WHEN) {
		when := &nodes.CaseWhen{Location: p.loc()}
		p.nextToken()
		when.Expr = p.parseExpr()
		p.expect(token.THEN)
		when.Result = p.parseExpr()
		ce.Args.Append(when)
	}

	if p.match(token.ELSE) {
		ce.Defresult = p.parseExpr()
	}
	p.expect(token.END)
	return ce
}

// parseArrayExpr parses "[" ... "]" after ARRAY or inside another array.
func (p *Parser) parseArrayExpr(loc int) nodes.Node {
	arr := &nodes.A_ArrayExpr{Location: loc}
	p.expect(token.LBRACKET)

	switch {
	case p.check(token.RBRACKET):
	case p.check(token.LBRACKET):
		for {
			arr.Elements = arr.Elements.Append(p.parseArrayExpr(p.loc()))
			if !p.match(token.COMMA) {
				break
			}
		}
	default:
		arr.Elements = p.parseExprList()
	}

	p.expect(token.RBRACKET)
	return arr
}

// wrapIndirection parses optional indirection after arg. Without any,
// arg is returned as is.
func (p *Parser) wrapIndirection(arg nodes.Node) nodes.Node {
	indirection := p.parseOptIndirection()
	if indirection == nil {
		return arg
	}
	return &nodes.A_Indirection{Arg: arg, Indirection: indirection}
}

// parseOptIndirection parses field selections and subscripts. A "*" is
// only allowed as the last element.
func (p *Parser) parseOptIndirection() *nodes.List {
	var list *nodes.List
	for {
		switch {
		case p.check(token.LBRACKET):
			list = list.Append(p.parseSubscript())

		case p.check(token.DOT):
			loc := p.loc()
			p.nextToken()
			if !p.match(token.STAR) {
				list = list.Append(nodes.MakeString(p.parseColLabel()))
				continue
			}
			list = list.Append(&nodes.A_Star{})
			if p.check(token.DOT) || p.check(token.LBRACKET) {
				p.errorAt(elog.ErrcodeSyntaxError, loc, ErrImproperStar)
			}

		default:
			return list
		}
	}
}

// parseSubscript parses "[" expr "]" or a slice "[" [lower] ":" [upper] "]".
func (p *Parser) parseSubscript() *nodes.A_Indices {
	p.expect(token.LBRACKET)

	ind := &nodes.A_Indices{}
	if !p.check(token.COLON) {
		ind.Uidx = p.parseExpr()
	}
	if p.match(token.COLON) {
		ind.IsSlice = true
		ind.Lidx, ind.Uidx = ind.Uidx, nil
		if !p.check(token.RBRACKET) {
			ind.Uidx = p.parseExpr()
		}
	}

	p.expect(token.RBRACKET)
	return ind
}

// atoi converts an ICONST literal, which the lexer guarantees fits.
func atoi(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
