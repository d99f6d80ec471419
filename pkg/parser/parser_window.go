package parser

import (
	"github.com/leapstack-labs/pgparse/pkg/nodes"
	"github.com/leapstack-labs/pgparse/pkg/token"
)

// Window specification parsing: OVER clauses, WINDOW definitions, PARTITION BY, ORDER BY.
//
// Grammar:
//
//	over_clause   → ColId | window_spec
//	window_clause → WINDOW ColId AS window_spec ("," ColId AS window_spec)*
//	window_spec   → "(" [ColId] [PARTITION BY expr_list] [sort_clause] ")"
//
// Frame clauses are not supported; every window gets the default frame.

// parseOverClause parses what follows OVER.
func (p *Parser) parseOverClause() *nodes.WindowDef {
	if p.check(token.LPAREN) {
		return p.parseWindowSpec()
	}

	// Named window reference
	loc := p.loc()
	return &nodes.WindowDef{Name: p.parseColID(), FrameOptions: nodes.FRAMEOPTION_DEFAULTS, Location: loc}
}

// parseWindowSpec parses a parenthesized window specification.
func (p *Parser) parseWindowSpec() *nodes.WindowDef {
	spec := &nodes.WindowDef{FrameOptions: nodes.FRAMEOPTION_DEFAULTS, Location: p.loc()}
	p.expect(token.LPAREN)

	// Existing window name; "partition" is only a name when BY does not follow.
	if isColID(p.token.Type) && !(p.check(token.PARTITION) && p.checkPeek(token.BY)) {
		spec.Refname = p.parseColID()
	}

	// PARTITION BY
	if p.match(token.PARTITION) {
		p.expect(token.BY)
		spec.PartitionClause = p.parseExprList()
	}

	// ORDER BY
	if p.check(token.ORDER) {
		spec.OrderClause = p.parseSortClause()
	}

	p.expect(token.RPAREN)
	return spec
}

// parseWindowClause parses WINDOW name AS (...) [, ...].
func (p *Parser) parseWindowClause() *nodes.List {
	p.expect(token.WINDOW)

	list := &nodes.List{}
	for {
		name := p.parseColID()
		p.expect(token.AS)
		def := p.parseWindowSpec()
		def.Name = name
		list.Append(def)
		if !p.match(token.COMMA) {
			return list
		}
	}
}
