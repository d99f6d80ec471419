package parser

import (
	"github.com/leapstack-labs/pgparse/pkg/elog"
	"github.com/leapstack-labs/pgparse/pkg/nodes"
	"github.com/leapstack-labs/pgparse/pkg/token"
)

// Type name parsing.
//
// Grammar:
//
//	typename        → [SETOF] simple_typename [array_bounds]
//	array_bounds    → ("[" [ICONST] "]")+ | ARRAY ["[" ICONST "]"]
//	simple_typename → generic_type | numeric | bit | character | datetime | interval
//	generic_type    → type_function_name ("." ColLabel)* ["(" expr_list ")"]
//	numeric         → INT | INTEGER | SMALLINT | BIGINT | REAL | FLOAT ["(" ICONST ")"]
//	                | DOUBLE PRECISION | (DECIMAL | DEC | NUMERIC) ["(" expr_list ")"] | BOOLEAN
//	bit             → BIT [VARYING] ["(" expr_list ")"]
//	character       → (CHARACTER | CHAR) [VARYING] ["(" ICONST ")"] | VARCHAR ["(" ICONST ")"]
//	datetime        → (TIMESTAMP | TIME) ["(" ICONST ")"] [(WITH | WITHOUT) TIME ZONE]
//	interval        → INTERVAL ["(" ICONST ")"]
//
// Built-in types resolve to pg_catalog names. In a typed literal
// (constant context) bit and character types without a length get no
// default length modifier.

// intervalFullRange is the interval typmod for "no field restriction".
const intervalFullRange = 0x7FFF

// parseTypename parses a full type name.
func (p *Parser) parseTypename() *nodes.TypeName {
	setof := p.match(token.SETOF)
	tn := p.parseSimpleTypename(false)
	tn.Setof = setof

	if p.match(token.ARRAY) {
		bound := int64(-1)
		if p.match(token.LBRACKET) {
			bound, _ = p.parseIconst()
			p.expect(token.RBRACKET)
		}
		tn.ArrayBounds = nodes.MakeList(&nodes.Integer{Ival: bound})
		return tn
	}

	for p.match(token.LBRACKET) {
		bound := int64(-1)
		if p.check(token.ICONST) {
			bound, _ = p.parseIconst()
		}
		p.expect(token.RBRACKET)
		tn.ArrayBounds = tn.ArrayBounds.Append(&nodes.Integer{Ival: bound})
	}
	return tn
}

// parseSimpleTypename parses a type name without SETOF or array bounds.
// constant is set when the type introduces a typed literal.
func (p *Parser) parseSimpleTypename(constant bool) *nodes.TypeName {
	loc := p.loc()

	switch p.token.Type {
	case token.INT, token.INTEGER:
		p.nextToken()
		return nodes.SystemTypeName("int4", loc)
	case token.SMALLINT:
		p.nextToken()
		return nodes.SystemTypeName("int2", loc)
	case token.BIGINT:
		p.nextToken()
		return nodes.SystemTypeName("int8", loc)
	case token.REAL:
		p.nextToken()
		return nodes.SystemTypeName("float4", loc)
	case token.FLOAT:
		p.nextToken()
		return p.parseFloatType(loc)
	case token.DOUBLE:
		p.nextToken()
		p.expect(token.PRECISION)
		return nodes.SystemTypeName("float8", loc)
	case token.DECIMAL, token.DEC, token.NUMERIC:
		p.nextToken()
		tn := nodes.SystemTypeName("numeric", loc)
		tn.Typmods = p.parseOptTypeModifiers()
		return tn
	case token.BOOLEAN:
		p.nextToken()
		return nodes.SystemTypeName("bool", loc)
	case token.BIT:
		p.nextToken()
		return p.parseBitType(loc, constant)
	case token.CHARACTER, token.CHAR, token.VARCHAR:
		return p.parseCharacterType(loc, constant)
	case token.TIMESTAMP, token.TIME:
		return p.parseDatetimeType(loc)
	case token.INTERVAL:
		p.nextToken()
		tn := nodes.SystemTypeName("interval", loc)
		if p.match(token.LPAREN) {
			prec, precLoc := p.parseIconst()
			p.expect(token.RPAREN)
			tn.Typmods = nodes.MakeList(makeIntConst(intervalFullRange, -1), makeIntConst(prec, precLoc))
		}
		return tn
	}

	if !isTypeFunctionName(p.token.Type) {
		p.syntaxError()
	}
	return p.parseGenericType()
}

// parseGenericType parses a possibly qualified user type name.
func (p *Parser) parseGenericType() *nodes.TypeName {
	loc := p.loc()
	names := nodes.StringList(p.token.Literal)
	p.nextToken()
	for p.match(token.DOT) {
		names.Append(nodes.MakeString(p.parseColLabel()))
	}

	tn := &nodes.TypeName{Names: names, Typemod: -1, Location: loc}
	tn.Typmods = p.parseOptTypeModifiers()
	return tn
}

// parseOptTypeModifiers parses an optional "(" expr_list ")".
func (p *Parser) parseOptTypeModifiers() *nodes.List {
	if !p.match(token.LPAREN) {
		return nil
	}
	mods := p.parseExprList()
	p.expect(token.RPAREN)
	return mods
}

// parseFloatType parses the optional precision after FLOAT, choosing
// float4 or float8 by the number of bits.
func (p *Parser) parseFloatType(loc int) *nodes.TypeName {
	if !p.match(token.LPAREN) {
		return nodes.SystemTypeName("float8", loc)
	}
	prec, precLoc := p.parseIconst()
	p.expect(token.RPAREN)

	switch {
	case prec < 1:
		p.errorAt(elog.ErrcodeInvalidParameterValue, precLoc, ErrFloatPrecisionLow)
	case prec <= 24:
		return nodes.SystemTypeName("float4", loc)
	case prec <= 53:
		return nodes.SystemTypeName("float8", loc)
	}
	p.errorAt(elog.ErrcodeInvalidParameterValue, precLoc, ErrFloatPrecisionHigh)
	return nil
}

// parseBitType parses the rest of BIT [VARYING] [(n)].
func (p *Parser) parseBitType(loc int, constant bool) *nodes.TypeName {
	varying := p.match(token.VARYING)
	name := "bit"
	if varying {
		name = "varbit"
	}

	tn := nodes.SystemTypeName(name, loc)
	tn.Typmods = p.parseOptTypeModifiers()
	if tn.Typmods == nil && !varying && !constant {
		tn.Typmods = nodes.MakeList(makeIntConst(1, -1))
	}
	return tn
}

// parseCharacterType parses CHARACTER/CHAR [VARYING] or VARCHAR with an
// optional length.
func (p *Parser) parseCharacterType(loc int, constant bool) *nodes.TypeName {
	varying := p.check(token.VARCHAR)
	p.nextToken()
	if !varying {
		varying = p.match(token.VARYING)
	}

	name := "bpchar"
	if varying {
		name = "varchar"
	}
	tn := nodes.SystemTypeName(name, loc)

	if p.match(token.LPAREN) {
		n, nLoc := p.parseIconst()
		p.expect(token.RPAREN)
		tn.Typmods = nodes.MakeList(makeIntConst(n, nLoc))
	} else if !varying && !constant {
		tn.Typmods = nodes.MakeList(makeIntConst(1, -1))
	}
	return tn
}

// parseDatetimeType parses TIMESTAMP or TIME with optional precision and
// time zone clause.
func (p *Parser) parseDatetimeType(loc int) *nodes.TypeName {
	name := "time"
	if p.check(token.TIMESTAMP) {
		name = "timestamp"
	}
	p.nextToken()

	var typmods *nodes.List
	if p.match(token.LPAREN) {
		prec, precLoc := p.parseIconst()
		p.expect(token.RPAREN)
		typmods = nodes.MakeList(makeIntConst(prec, precLoc))
	}

	if p.check(token.WITH) && p.checkPeek(token.TIME) {
		p.nextToken()
		p.nextToken()
		p.expect(token.ZONE)
		name += "tz"
	} else if p.check(token.WITHOUT) && p.checkPeek(token.TIME) {
		p.nextToken()
		p.nextToken()
		p.expect(token.ZONE)
	}

	tn := nodes.SystemTypeName(name, loc)
	tn.Typmods = typmods
	return tn
}

func makeIntConst(v int64, loc int) *nodes.A_Const {
	return &nodes.A_Const{Val: &nodes.Integer{Ival: v}, Location: loc}
}
