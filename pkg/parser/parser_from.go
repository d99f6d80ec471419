package parser

import (
	"strings"

	"github.com/leapstack-labs/pgparse/pkg/elog"
	"github.com/leapstack-labs/pgparse/pkg/nodes"
	"github.com/leapstack-labs/pgparse/pkg/token"
)

// FROM clause parsing: table references, derived tables, lateral subqueries, JOINs.
//
// Grammar:
//
//	from_list      → table_ref ("," table_ref)*
//	table_ref      → table_primary (join)*
//	table_primary  → relation_expr [alias_clause]
//	               | [LATERAL] "(" select_stmt ")" [alias_clause]
//	               | "(" table_ref join ")" [alias_clause]
//	relation_expr  → qualified_name ["*"]
//	qualified_name → ColId ["." ColLabel ["." ColLabel]]
//	alias_clause   → [AS] ColId ["(" name_list ")"]
//	join           → CROSS JOIN table_primary
//	               | NATURAL [join_type] JOIN table_primary
//	               | [join_type] JOIN table_primary (ON expr | USING "(" name_list ")" [AS ColId])
//	join_type      → INNER | (LEFT | RIGHT | FULL) [OUTER]

// parseFromList parses table_ref ("," table_ref)*.
func (p *Parser) parseFromList() *nodes.List {
	list := &nodes.List{}
	for {
		list.Append(p.parseTableRef())
		if !p.match(token.COMMA) {
			return list
		}
	}
}

// parseTableRef parses a table reference and the joins that follow it.
func (p *Parser) parseTableRef() nodes.Node {
	left := p.parseTablePrimary()
	for isJoinStart(p.token.Type) {
		left = p.parseJoin(left)
	}
	return left
}

// parseTablePrimary parses a single FROM item.
func (p *Parser) parseTablePrimary() nodes.Node {
	// LATERAL subquery
	if p.match(token.LATERAL) {
		sub := p.parseSelectWithParens()
		return &nodes.RangeSubselect{Lateral: true, Subquery: sub, Alias: p.parseOptAliasClause()}
	}

	if p.check(token.LPAREN) {
		// Derived table
		if p.parenStartsSelect() {
			sub := p.parseSelectWithParens()
			return &nodes.RangeSubselect{Subquery: sub, Alias: p.parseOptAliasClause()}
		}

		// Parenthesized join
		p.nextToken()
		ref := p.parseTableRef()
		join, ok := ref.(*nodes.JoinExpr)
		if !ok {
			p.syntaxError()
		}
		p.expect(token.RPAREN)
		join.Alias = p.parseOptAliasClause()
		return join
	}

	rv := p.parseRelationExpr()
	rv.Alias = p.parseOptAliasClause()
	return rv
}

// parseOptAliasClause parses an optional [AS] alias with column names.
func (p *Parser) parseOptAliasClause() *nodes.Alias {
	if !p.match(token.AS) && !isColID(p.token.Type) {
		return nil
	}
	alias := &nodes.Alias{Aliasname: p.parseColID()}
	if p.match(token.LPAREN) {
		alias.Colnames = p.parseNameList()
		p.expect(token.RPAREN)
	}
	return alias
}

func isJoinStart(t token.TokenType) bool {
	switch t {
	case token.CROSS, token.NATURAL, token.JOIN, token.INNER, token.LEFT, token.RIGHT, token.FULL:
		return true
	}
	return false
}

// parseJoin parses one join onto left.
func (p *Parser) parseJoin(left nodes.Node) *nodes.JoinExpr {
	if p.match(token.CROSS) {
		p.expect(token.JOIN)
		return &nodes.JoinExpr{Jointype: nodes.JOIN_INNER, Larg: left, Rarg: p.parseTablePrimary()}
	}

	if p.match(token.NATURAL) {
		jt := p.parseJoinType()
		p.expect(token.JOIN)
		return &nodes.JoinExpr{Jointype: jt, IsNatural: true, Larg: left, Rarg: p.parseTablePrimary()}
	}

	join := &nodes.JoinExpr{Jointype: p.parseJoinType(), Larg: left}
	p.expect(token.JOIN)

	// The right side may itself be a qualified join, as in
	// a JOIN b JOIN c ON x ON y.
	right := p.parseTablePrimary()
	for isJoinStart(p.token.Type) {
		right = p.parseJoin(right)
	}
	join.Rarg = right

	switch {
	case p.match(token.ON):
		join.Quals = p.parseExpr()
	case p.match(token.USING):
		p.expect(token.LPAREN)
		join.UsingClause = p.parseNameList()
		p.expect(token.RPAREN)
		if p.match(token.AS) {
			join.JoinUsingAlias = &nodes.Alias{Aliasname: p.parseColID()}
		}
	default:
		p.syntaxError()
	}
	return join
}

// parseJoinType parses an optional join type; a bare JOIN is INNER.
func (p *Parser) parseJoinType() nodes.JoinType {
	switch {
	case p.match(token.INNER):
		return nodes.JOIN_INNER
	case p.match(token.LEFT):
		p.match(token.OUTER)
		return nodes.JOIN_LEFT
	case p.match(token.RIGHT):
		p.match(token.OUTER)
		return nodes.JOIN_RIGHT
	case p.match(token.FULL):
		p.match(token.OUTER)
		return nodes.JOIN_FULL
	}
	return nodes.JOIN_INNER
}

// parseRelationExpr parses qualified_name ["*"].
func (p *Parser) parseRelationExpr() *nodes.RangeVar {
	rv := p.parseQualifiedName()
	p.match(token.STAR)
	return rv
}

// parseRelationExprOptAlias parses a relation with an optional alias, as
// the target of UPDATE and DELETE. A bare word equal to stop is not taken
// as the alias.
func (p *Parser) parseRelationExprOptAlias(stop token.TokenType) *nodes.RangeVar {
	rv := p.parseRelationExpr()
	if p.match(token.AS) || (isColID(p.token.Type) && !p.check(stop)) {
		rv.Alias = &nodes.Alias{Aliasname: p.parseColID()}
	}
	return rv
}

// parseQualifiedName parses a possibly qualified relation name into a
// RangeVar.
func (p *Parser) parseQualifiedName() *nodes.RangeVar {
	loc := p.loc()
	names := []string{p.parseColID()}
	for p.match(token.DOT) {
		names = append(names, p.parseColLabel())
	}

	rv := &nodes.RangeVar{
		Inh:            true,
		Relpersistence: nodes.RELPERSISTENCE_PERMANENT,
		Location:       loc,
	}
	switch len(names) {
	case 1:
		rv.Relname = names[0]
	case 2:
		rv.Schemaname, rv.Relname = names[0], names[1]
	case 3:
		rv.Catalogname, rv.Schemaname, rv.Relname = names[0], names[1], names[2]
	default:
		p.errorAt(elog.ErrcodeSyntaxError, loc, ErrImproperQualifiedName, strings.Join(names, "."))
	}
	return rv
}
