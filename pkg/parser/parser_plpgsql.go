package parser

import (
	"github.com/leapstack-labs/pgparse/pkg/nodes"
	"github.com/leapstack-labs/pgparse/pkg/token"
)

// PL/pgSQL entry points.
//
// Grammar:
//
//	plpgsql_expr   → [ALL | DISTINCT [ON "(" expr_list ")"]] [target_list]
//	                 [FROM from_list] [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//	                 [WINDOW window_list] [sort_clause] [select_limit]
//	plpgsql_assign → (ColId | PARAM) [indirection] (":=" | "=") plpgsql_expr

// parsePLpgSQLExpr parses a SELECT with the SELECT keyword omitted. Set
// operations are not allowed at this level.
func (p *Parser) parsePLpgSQLExpr() *nodes.SelectStmt {
	stmt := &nodes.SelectStmt{}
	if !p.match(token.ALL) && p.check(token.DISTINCT) {
		stmt.DistinctClause = p.parseDistinctClause()
	}
	stmt.TargetList = p.parseOptTargetList()
	p.parseSelectTail(stmt)
	p.parseSelectOptions(stmt, nil)
	return stmt
}

// parsePLAssignStmt parses an assignment. nnames records how many
// leading names of the target make up the variable name.
func (p *Parser) parsePLAssignStmt(nnames int) *nodes.PLAssignStmt {
	stmt := &nodes.PLAssignStmt{Nnames: nnames, Location: p.loc()}

	if p.check(token.PARAM) {
		stmt.Name = "$" + p.token.Literal
		p.nextToken()
	} else {
		stmt.Name = p.parseColID()
	}
	stmt.Indirection = p.parseOptIndirection()

	if !p.match(token.COLON_EQUALS) && !p.match(token.EQ) {
		p.syntaxError()
	}
	stmt.Val = p.parsePLpgSQLExpr()
	return stmt
}
