package parser

import (
	"github.com/leapstack-labs/pgparse/pkg/nodes"
	"github.com/leapstack-labs/pgparse/pkg/token"
)

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels, loosest first:
//
//	precOr         = 1  OR
//	precAnd        = 2  AND
//	precNot        = 3  NOT (prefix)
//	precIs         = 4  IS NULL, IS TRUE, IS DISTINCT FROM   (non-associative)
//	precComparison = 5  < > = <= >= <>                        (non-associative)
//	precLike       = 6  [NOT] IN, BETWEEN, LIKE, ILIKE        (non-associative)
//	precOp         = 7  any other operator
//	precAdd        = 8  + -
//	precMul        = 9  * / %
//	precExp        = 10 ^
//	precUnary      = 11 prefix + - (binds tighter than every infix but ::)
//	precTypecast   = 12 ::
//
// Operators on one non-associative level cannot be chained without
// parentheses: a = b = c is a syntax error.
const (
	precNone = iota
	precOr
	precAnd
	precNot
	precIs
	precComparison
	precLike
	precOp
	precAdd
	precMul
	precExp
	precUnary
	precTypecast
)

func isNonassoc(prec int) bool {
	return prec == precIs || prec == precComparison || prec == precLike
}

// parseExpr parses a full expression.
func (p *Parser) parseExpr() nodes.Node {
	return p.parseExprPrec(precOr)
}

// parseExprPrec parses an expression whose infix operators all bind at
// least as tightly as minPrec.
func (p *Parser) parseExprPrec(minPrec int) nodes.Node {
	left := p.parsePrefixExpr()

	lastNonassoc := precNone
	for {
		prec := p.infixPrecedence()
		if prec == precNone || prec < minPrec {
			return left
		}
		if prec == lastNonassoc {
			p.syntaxError()
		}

		left = p.parseInfixExpr(left, prec)

		lastNonassoc = precNone
		if isNonassoc(prec) {
			lastNonassoc = prec
		}
	}
}

// parsePrefixExpr parses prefix operators and primary expressions.
func (p *Parser) parsePrefixExpr() nodes.Node {
	loc := p.loc()
	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		return makeNotExpr(p.parseExprPrec(precNot), loc)
	case token.MINUS:
		p.nextToken()
		return doNegate(p.parseExprPrec(precUnary), loc)
	case token.PLUS:
		p.nextToken()
		return makeSimpleAExpr("+", nil, p.parseExprPrec(precUnary), loc)
	case token.OP:
		op := p.token.Literal
		p.nextToken()
		return makeSimpleAExpr(op, nil, p.parseExprPrec(precAdd), loc)
	}
	return p.parsePrimary()
}

// infixPrecedence returns the precedence of the current token as an infix
// operator, or precNone.
func (p *Parser) infixPrecedence() int {
	switch p.token.Type {
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.IS:
		return precIs
	case token.LT, token.GT, token.EQ, token.LESS_EQUALS, token.GREATER_EQUALS, token.NOT_EQUALS:
		return precComparison
	case token.IN, token.BETWEEN, token.LIKE, token.ILIKE:
		return precLike
	case token.NOT:
		switch p.peek().Type {
		case token.IN, token.BETWEEN, token.LIKE, token.ILIKE:
			return precLike
		}
	case token.OP:
		return precOp
	case token.PLUS, token.MINUS:
		return precAdd
	case token.STAR, token.SLASH, token.PERCENT:
		return precMul
	case token.CARET:
		return precExp
	case token.TYPECAST:
		return precTypecast
	}
	return precNone
}

// parseInfixExpr parses the operator at the current token applied to left.
func (p *Parser) parseInfixExpr(left nodes.Node, prec int) nodes.Node {
	op := p.token
	loc := p.loc()
	p.nextToken()

	switch op.Type {
	case token.OR:
		return makeBoolExpr(nodes.OR_EXPR, left, p.parseExprPrec(precOr+1), loc)
	case token.AND:
		return makeBoolExpr(nodes.AND_EXPR, left, p.parseExprPrec(precAnd+1), loc)
	case token.IS:
		return p.parseIsExpr(left, loc)
	case token.NOT:
		return p.parseNotInfixExpr(left, loc)
	case token.IN:
		return p.parseInExpr(left, false, loc)
	case token.BETWEEN:
		return p.parseBetweenExpr(left, false, loc)
	case token.LIKE, token.ILIKE:
		return p.parseLikeExpr(left, op.Type, false, loc)
	case token.TYPECAST:
		return &nodes.TypeCast{Arg: left, TypeName: p.parseTypename(), Location: loc}
	}

	// op ANY/SOME/ALL (...)
	if (p.check(token.ANY) || p.check(token.SOME) || p.check(token.ALL)) && p.checkPeek(token.LPAREN) {
		return p.parseSubqueryOp(left, op.Literal, loc)
	}
	return makeSimpleAExpr(op.Literal, left, p.parseExprPrec(prec+1), loc)
}

// parseNotInfixExpr parses the remainder of NOT IN, NOT BETWEEN, NOT LIKE
// and NOT ILIKE.
func (p *Parser) parseNotInfixExpr(left nodes.Node, loc int) nodes.Node {
	op := p.token.Type
	p.nextToken()

	switch op {
	case token.IN:
		return p.parseInExpr(left, true, loc)
	case token.BETWEEN:
		return p.parseBetweenExpr(left, true, loc)
	default:
		return p.parseLikeExpr(left, op, true, loc)
	}
}

// parseIsExpr parses the remainder of IS [NOT] (NULL | TRUE | FALSE |
// DISTINCT FROM expr).
func (p *Parser) parseIsExpr(left nodes.Node, loc int) nodes.Node {
	not := p.match(token.NOT)

	switch {
	case p.match(token.NULL):
		nt := &nodes.NullTest{Arg: left, Nulltesttype: nodes.IS_NULL, Location: loc}
		if not {
			nt.Nulltesttype = nodes.IS_NOT_NULL
		}
		return nt

	case p.match(token.TRUE):
		bt := &nodes.BooleanTest{Arg: left, Booltesttype: nodes.IS_TRUE, Location: loc}
		if not {
			bt.Booltesttype = nodes.IS_NOT_TRUE
		}
		return bt

	case p.match(token.FALSE):
		bt := &nodes.BooleanTest{Arg: left, Booltesttype: nodes.IS_FALSE, Location: loc}
		if not {
			bt.Booltesttype = nodes.IS_NOT_FALSE
		}
		return bt

	case p.match(token.DISTINCT):
		p.expect(token.FROM)
		kind := nodes.AEXPR_DISTINCT
		if not {
			kind = nodes.AEXPR_NOT_DISTINCT
		}
		right := p.parseExprPrec(precIs + 1)
		return &nodes.A_Expr{Kind: kind, Name: nodes.StringList("="), Lexpr: left, Rexpr: right, Location: loc}
	}

	p.syntaxError()
	return nil
}

// parseInExpr parses the remainder of [NOT] IN (list | subquery).
func (p *Parser) parseInExpr(left nodes.Node, not bool, loc int) nodes.Node {
	if p.parenStartsSubquery() {
		sub := &nodes.SubLink{
			SubLinkType: nodes.ANY_SUBLINK,
			Testexpr:    left,
			Subselect:   p.parseSelectWithParens(),
			Location:    loc,
		}
		if not {
			return makeNotExpr(sub, loc)
		}
		return sub
	}

	p.expect(token.LPAREN)
	list := p.parseExprList()
	p.expect(token.RPAREN)

	name := "="
	if not {
		name = "<>"
	}
	return &nodes.A_Expr{Kind: nodes.AEXPR_IN, Name: nodes.StringList(name), Lexpr: left, Rexpr: list, Location: loc}
}

// parseBetweenExpr parses the remainder of [NOT] BETWEEN low AND high. The
// bounds cannot contain AND, comparisons or other predicates unparenthesized.
func (p *Parser) parseBetweenExpr(left nodes.Node, not bool, loc int) nodes.Node {
	low := p.parseExprPrec(precOp)
	p.expect(token.AND)
	high := p.parseExprPrec(precOp)

	kind, name := nodes.AEXPR_BETWEEN, "BETWEEN"
	if not {
		kind, name = nodes.AEXPR_NOT_BETWEEN, "NOT BETWEEN"
	}
	return &nodes.A_Expr{Kind: kind, Name: nodes.StringList(name), Lexpr: left, Rexpr: nodes.MakeList(low, high), Location: loc}
}

// parseLikeExpr parses the pattern of [NOT] LIKE / ILIKE.
func (p *Parser) parseLikeExpr(left nodes.Node, op token.TokenType, not bool, loc int) nodes.Node {
	kind, name := nodes.AEXPR_LIKE, "~~"
	if op == token.ILIKE {
		kind, name = nodes.AEXPR_ILIKE, "~~*"
	}
	if not {
		name = "!" + name
	}
	right := p.parseExprPrec(precLike + 1)
	return &nodes.A_Expr{Kind: kind, Name: nodes.StringList(name), Lexpr: left, Rexpr: right, Location: loc}
}

// parseSubqueryOp parses ANY/SOME/ALL after a binary operator, against
// either a sub-select or an array expression.
func (p *Parser) parseSubqueryOp(left nodes.Node, op string, loc int) nodes.Node {
	all := p.check(token.ALL)
	p.nextToken()

	if p.parenStartsSubquery() {
		kind := nodes.ANY_SUBLINK
		if all {
			kind = nodes.ALL_SUBLINK
		}
		return &nodes.SubLink{
			SubLinkType: kind,
			Testexpr:    left,
			OperName:    nodes.StringList(op),
			Subselect:   p.parseSelectWithParens(),
			Location:    loc,
		}
	}

	p.expect(token.LPAREN)
	arr := p.parseExpr()
	p.expect(token.RPAREN)

	kind := nodes.AEXPR_OP_ANY
	if all {
		kind = nodes.AEXPR_OP_ALL
	}
	return &nodes.A_Expr{Kind: kind, Name: nodes.StringList(op), Lexpr: left, Rexpr: arr, Location: loc}
}

// parseExprList parses expr ("," expr)*.
func (p *Parser) parseExprList() *nodes.List {
	list := &nodes.List{}
	for {
		list.Append(p.parseExpr())
		if !p.match(token.COMMA) {
			return list
		}
	}
}

// parseAllOp parses any operator usable after ORDER BY ... USING.
func (p *Parser) parseAllOp() string {
	switch p.token.Type {
	case token.OP, token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.CARET,
		token.LT, token.GT, token.EQ, token.LESS_EQUALS, token.GREATER_EQUALS, token.NOT_EQUALS:
		op := p.token.Literal
		p.nextToken()
		return op
	}
	p.syntaxError()
	return ""
}

// startsExpr reports whether an expression can begin with t.
func startsExpr(t token.TokenType) bool {
	switch t {
	case token.IDENT, token.ICONST, token.FCONST, token.SCONST, token.PARAM,
		token.LPAREN, token.MINUS, token.PLUS, token.OP,
		token.NOT, token.CASE, token.CAST, token.ARRAY, token.TRUE, token.FALSE, token.NULL:
		return true
	}
	c := token.CategoryOf(t)
	return c == token.Unreserved || c == token.ColName || c == token.TypeFuncName
}

// ---------- Node Constructors ----------

func makeSimpleAExpr(op string, lexpr, rexpr nodes.Node, loc int) *nodes.A_Expr {
	return &nodes.A_Expr{Kind: nodes.AEXPR_OP, Name: nodes.StringList(op), Lexpr: lexpr, Rexpr: rexpr, Location: loc}
}

// makeBoolExpr joins left and right with op, flattening a left operand
// that already uses the same connective.
func makeBoolExpr(op nodes.BoolExprType, left, right nodes.Node, loc int) nodes.Node {
	if b, ok := left.(*nodes.BoolExpr); ok && b.Boolop == op {
		b.Args.Append(right)
		return b
	}
	return &nodes.BoolExpr{Boolop: op, Args: nodes.MakeList(left, right), Location: loc}
}

func makeNotExpr(arg nodes.Node, loc int) nodes.Node {
	return &nodes.BoolExpr{Boolop: nodes.NOT_EXPR, Args: nodes.MakeList(arg), Location: loc}
}

// doNegate folds a minus sign into a numeric constant; anything else
// becomes a prefix "-" expression.
func doNegate(n nodes.Node, loc int) nodes.Node {
	if c, ok := n.(*nodes.A_Const); ok && !c.Isnull {
		switch v := c.Val.(type) {
		case *nodes.Integer:
			v.Ival = -v.Ival
			c.Location = loc
			return c
		case *nodes.Float:
			if len(v.Fval) > 0 && v.Fval[0] == '-' {
				v.Fval = v.Fval[1:]
			} else {
				v.Fval = "-" + v.Fval
			}
			c.Location = loc
			return c
		}
	}
	return makeSimpleAExpr("-", nil, n, loc)
}
