package parser

import (
	"github.com/leapstack-labs/pgparse/pkg/elog"
	"github.com/leapstack-labs/pgparse/pkg/nodes"
	"github.com/leapstack-labs/pgparse/pkg/token"
)

// Statement parsing: statement lists, SELECT, set operations, WITH, VALUES,
// ORDER BY and LIMIT, and the data-modifying statements.
//
// Grammar:
//
//	stmtmulti     → [toplevel_stmt] (";" [toplevel_stmt])*
//	toplevel_stmt → [with_clause] (select_stmt | insert_stmt | update_stmt | delete_stmt)
//	select_stmt   → [with_clause] select_clause [sort_clause] [select_limit]
//	select_clause → simple_select ((UNION|EXCEPT) [ALL|DISTINCT] simple_select)*
//	                with INTERSECT binding tighter than UNION and EXCEPT
//	simple_select → SELECT [ALL | DISTINCT [ON "(" expr_list ")"]] [target_list]
//	                [FROM from_list] [WHERE expr] [GROUP BY [ALL|DISTINCT] expr_list]
//	                [HAVING expr] [WINDOW window_list]
//	              | VALUES "(" expr_list ")" ("," "(" expr_list ")")*
//	              | "(" select_stmt ")"
//	with_clause   → WITH [RECURSIVE] cte ("," cte)*
//	cte           → name ["(" name_list ")"] AS "(" toplevel_stmt ")"
//	sort_clause   → ORDER BY sortby ("," sortby)*
//	sortby        → expr [ASC | DESC | USING operator] [NULLS (FIRST | LAST)]
//	select_limit  → LIMIT (expr | ALL) [OFFSET expr] | OFFSET expr [LIMIT (expr | ALL)]
//	insert_stmt   → INSERT INTO qualified_name [AS name] ["(" column_list ")"]
//	                (select_stmt | DEFAULT VALUES) [RETURNING target_list]
//	update_stmt   → UPDATE relation [[AS] alias] SET set_list [FROM from_list]
//	                [WHERE expr] [RETURNING target_list]
//	delete_stmt   → DELETE FROM relation [[AS] alias] [USING from_list]
//	                [WHERE expr] [RETURNING target_list]

// parseStmtMulti parses statements separated by semicolons. Empty
// statements are skipped. Each statement after the first starts just
// after the preceding semicolon, and its length runs up to the next one;
// a final statement with no semicolon has length 0.
func (p *Parser) parseStmtMulti() *nodes.List {
	list := &nodes.List{}
	var last *nodes.RawStmt
	start := 0

	for {
		if !p.check(token.SEMICOLON) && !p.check(token.EOF) {
			last = &nodes.RawStmt{Stmt: p.parseToplevelStmt(), StmtLocation: start}
			list.Append(last)
		}
		if p.check(token.EOF) {
			return list
		}
		semi := p.expect(token.SEMICOLON)
		if last != nil && last.StmtLen == 0 {
			last.StmtLen = semi.Pos.Offset - last.StmtLocation
		}
		start = semi.Pos.Offset + 1
	}
}

// parseToplevelStmt parses one statement.
func (p *Parser) parseToplevelStmt() nodes.Node {
	var with *nodes.WithClause
	if p.check(token.WITH) {
		with = p.parseWithClause()
	}

	switch p.token.Type {
	case token.SELECT, token.VALUES, token.LPAREN:
		return p.parseSelectRest(with)
	case token.INSERT:
		return p.parseInsertStmt(with)
	case token.UPDATE:
		return p.parseUpdateStmt(with)
	case token.DELETE:
		return p.parseDeleteStmt(with)
	}
	p.syntaxError()
	return nil
}

// parseSelectStmt parses a complete SELECT, including a leading WITH.
func (p *Parser) parseSelectStmt() *nodes.SelectStmt {
	var with *nodes.WithClause
	if p.check(token.WITH) {
		with = p.parseWithClause()
	}
	return p.parseSelectRest(with)
}

// parseSelectRest parses a select clause and its trailing options; with
// is an already parsed WITH clause or nil.
func (p *Parser) parseSelectRest(with *nodes.WithClause) *nodes.SelectStmt {
	stmt := p.parseSelectClause(1)
	p.parseSelectOptions(stmt, with)
	return stmt
}

// parseSelectWithParens parses "(" select_stmt ")".
func (p *Parser) parseSelectWithParens() *nodes.SelectStmt {
	p.expect(token.LPAREN)
	stmt := p.parseSelectStmt()
	p.expect(token.RPAREN)
	return stmt
}

func setOpPrecedence(t token.TokenType) int {
	switch t {
	case token.UNION, token.EXCEPT:
		return 1
	case token.INTERSECT:
		return 2
	}
	return 0
}

// parseSelectClause parses set operations by precedence climbing.
func (p *Parser) parseSelectClause(minPrec int) *nodes.SelectStmt {
	left := p.parseSimpleSelect()

	for {
		prec := setOpPrecedence(p.token.Type)
		if prec == 0 || prec < minPrec {
			return left
		}

		var op nodes.SetOperation
		switch p.token.Type {
		case token.UNION:
			op = nodes.SETOP_UNION
		case token.INTERSECT:
			op = nodes.SETOP_INTERSECT
		default:
			op = nodes.SETOP_EXCEPT
		}
		p.nextToken()

		all := p.match(token.ALL)
		if !all {
			p.match(token.DISTINCT)
		}

		right := p.parseSelectClause(prec + 1)
		left = &nodes.SelectStmt{Op: op, All: all, Larg: left, Rarg: right}
	}
}

// parseSimpleSelect parses one operand of a set operation.
func (p *Parser) parseSimpleSelect() *nodes.SelectStmt {
	switch p.token.Type {
	case token.SELECT:
		return p.parseSelectCore()
	case token.VALUES:
		return p.parseValuesClause()
	case token.LPAREN:
		return p.parseSelectWithParens()
	}
	p.syntaxError()
	return nil
}

// parseSelectCore parses SELECT ... up to the end of the WINDOW clause.
func (p *Parser) parseSelectCore() *nodes.SelectStmt {
	p.expect(token.SELECT)
	stmt := &nodes.SelectStmt{}

	if !p.match(token.ALL) && p.check(token.DISTINCT) {
		stmt.DistinctClause = p.parseDistinctClause()
	}
	stmt.TargetList = p.parseOptTargetList()
	p.parseSelectTail(stmt)
	return stmt
}

// parseDistinctClause parses DISTINCT [ON (...)]. Plain DISTINCT is a
// list holding a single NIL.
func (p *Parser) parseDistinctClause() *nodes.List {
	p.expect(token.DISTINCT)
	if !p.match(token.ON) {
		return nodes.MakeList(nil)
	}
	p.expect(token.LPAREN)
	exprs := p.parseExprList()
	p.expect(token.RPAREN)
	return exprs
}

// parseSelectTail parses FROM, WHERE, GROUP BY, HAVING and WINDOW.
func (p *Parser) parseSelectTail(stmt *nodes.SelectStmt) {
	if p.match(token.FROM) {
		stmt.FromClause = p.parseFromList()
	}
	if p.match(token.WHERE) {
		stmt.WhereClause = p.parseExpr()
	}
	if p.match(token.GROUP) {
		p.expect(token.BY)
		if !p.match(token.ALL) {
			stmt.GroupDistinct = p.match(token.DISTINCT)
		}
		stmt.GroupClause = p.parseExprList()
	}
	if p.match(token.HAVING) {
		stmt.HavingClause = p.parseExpr()
	}
	if p.check(token.WINDOW) {
		stmt.WindowClause = p.parseWindowClause()
	}
}

// parseOptTargetList parses a target list if one starts here.
func (p *Parser) parseOptTargetList() *nodes.List {
	if !p.check(token.STAR) && !startsExpr(p.token.Type) {
		return nil
	}
	return p.parseTargetList()
}

// parseTargetList parses target_el ("," target_el)*.
func (p *Parser) parseTargetList() *nodes.List {
	list := &nodes.List{}
	for {
		list.Append(p.parseTargetEl())
		if !p.match(token.COMMA) {
			return list
		}
	}
}

// parseTargetEl parses "*" or expr [[AS] label].
func (p *Parser) parseTargetEl() *nodes.ResTarget {
	loc := p.loc()
	if p.match(token.STAR) {
		star := &nodes.ColumnRef{Fields: nodes.MakeList(&nodes.A_Star{}), Location: loc}
		return &nodes.ResTarget{Val: star, Location: loc}
	}

	rt := &nodes.ResTarget{Val: p.parseExpr(), Location: loc}
	switch {
	case p.match(token.AS):
		rt.Name = p.parseColLabel()
	case isBareLabel(p.token.Type):
		rt.Name = p.token.Literal
		p.nextToken()
	}
	return rt
}

// parseValuesClause parses VALUES (...), (...).
func (p *Parser) parseValuesClause() *nodes.SelectStmt {
	p.expect(token.VALUES)
	lists := &nodes.List{}
	for {
		p.expect(token.LPAREN)
		lists.Append(p.parseExprList())
		p.expect(token.RPAREN)
		if !p.match(token.COMMA) {
			return &nodes.SelectStmt{ValuesLists: lists}
		}
	}
}

// parseWithClause parses a WITH clause with CTEs.
func (p *Parser) parseWithClause() *nodes.WithClause {
	with := &nodes.WithClause{Location: p.loc()}
	p.expect(token.WITH)
	with.Recursive = p.match(token.RECURSIVE)

	with.Ctes = &nodes.List{}
	for {
		with.Ctes.Append(p.parseCTE())
		if !p.match(token.COMMA) {
			return with
		}
	}
}

// parseCTE parses a single CTE.
func (p *Parser) parseCTE() *nodes.CommonTableExpr {
	cte := &nodes.CommonTableExpr{Location: p.loc()}
	cte.Ctename = p.parseColID()

	if p.match(token.LPAREN) {
		cte.Aliascolnames = p.parseNameList()
		p.expect(token.RPAREN)
	}

	p.expect(token.AS)
	p.expect(token.LPAREN)
	cte.Ctequery = p.parseToplevelStmt()
	p.expect(token.RPAREN)
	return cte
}

// parseSelectOptions parses ORDER BY and LIMIT/OFFSET after a select
// clause and attaches them, with any WITH clause, to stmt.
func (p *Parser) parseSelectOptions(stmt *nodes.SelectStmt, with *nodes.WithClause) {
	var sortClause *nodes.List
	sortLoc := p.loc()
	if p.check(token.ORDER) {
		sortClause = p.parseSortClause()
	}

	var offset, count nodes.Node
	offsetLoc, countLoc := -1, -1
	for range 2 {
		switch {
		case p.check(token.LIMIT) && count == nil:
			countLoc = p.loc()
			count = p.parseLimitClause()
		case p.check(token.OFFSET) && offset == nil:
			offsetLoc = p.loc()
			p.nextToken()
			offset = p.parseExpr()
		}
	}

	if sortClause != nil {
		if stmt.SortClause != nil {
			p.errorAt(elog.ErrcodeSyntaxError, sortLoc, ErrMultipleClause, "ORDER BY")
		}
		stmt.SortClause = sortClause
	}
	if offset != nil {
		if stmt.LimitOffset != nil {
			p.errorAt(elog.ErrcodeSyntaxError, offsetLoc, ErrMultipleClause, "OFFSET")
		}
		stmt.LimitOffset = offset
	}
	if count != nil {
		if stmt.LimitCount != nil {
			p.errorAt(elog.ErrcodeSyntaxError, countLoc, ErrMultipleClause, "LIMIT")
		}
		stmt.LimitCount = count
	}
	if with != nil {
		if stmt.WithClause != nil {
			p.errorAt(elog.ErrcodeSyntaxError, with.Location, ErrMultipleClause, "WITH")
		}
		stmt.WithClause = with
	}
}

// parseLimitClause parses LIMIT (expr | ALL). LIMIT ALL is a NULL constant.
func (p *Parser) parseLimitClause() nodes.Node {
	limitLoc := p.loc()
	p.expect(token.LIMIT)

	var count nodes.Node
	if p.check(token.ALL) {
		count = &nodes.A_Const{Isnull: true, Location: p.loc()}
		p.nextToken()
	} else {
		count = p.parseExpr()
	}

	if p.check(token.COMMA) {
		p.errorAt(elog.ErrcodeSyntaxError, limitLoc, ErrLimitCommaSyntax)
	}
	return count
}

// parseSortClause parses ORDER BY sortby ("," sortby)*.
func (p *Parser) parseSortClause() *nodes.List {
	p.expect(token.ORDER)
	p.expect(token.BY)

	list := &nodes.List{}
	for {
		list.Append(p.parseSortBy())
		if !p.match(token.COMMA) {
			return list
		}
	}
}

// parseSortBy parses one ORDER BY item.
func (p *Parser) parseSortBy() *nodes.SortBy {
	sb := &nodes.SortBy{Node: p.parseExpr(), Location: -1}

	switch {
	case p.match(token.ASC):
		sb.SortbyDir = nodes.SORTBY_ASC
	case p.match(token.DESC):
		sb.SortbyDir = nodes.SORTBY_DESC
	case p.check(token.USING):
		p.nextToken()
		sb.Location = p.loc()
		sb.SortbyDir = nodes.SORTBY_USING
		sb.UseOp = nodes.StringList(p.parseAllOp())
	}

	if p.match(token.NULLS) {
		if p.match(token.FIRST) {
			sb.SortbyNulls = nodes.SORTBY_NULLS_FIRST
		} else {
			p.expect(token.LAST)
			sb.SortbyNulls = nodes.SORTBY_NULLS_LAST
		}
	}
	return sb
}

// parseInsertStmt parses INSERT INTO ...
func (p *Parser) parseInsertStmt(with *nodes.WithClause) *nodes.InsertStmt {
	p.expect(token.INSERT)
	p.expect(token.INTO)

	stmt := &nodes.InsertStmt{WithClause: with}
	stmt.Relation = p.parseQualifiedName()
	if p.match(token.AS) {
		stmt.Relation.Alias = &nodes.Alias{Aliasname: p.parseColID()}
	}

	if p.check(token.LPAREN) && !p.parenStartsSelect() {
		p.nextToken()
		stmt.Cols = &nodes.List{}
		for {
			stmt.Cols.Append(p.parseInsertColumn())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
		stmt.SelectStmt = p.parseSelectStmt()
	} else if p.match(token.DEFAULT) {
		p.expect(token.VALUES)
	} else {
		stmt.SelectStmt = p.parseSelectStmt()
	}

	if p.match(token.RETURNING) {
		stmt.ReturningList = p.parseTargetList()
	}
	return stmt
}

// parseInsertColumn parses ColId [indirection] in an INSERT column list.
func (p *Parser) parseInsertColumn() *nodes.ResTarget {
	loc := p.loc()
	name := p.parseColID()
	return &nodes.ResTarget{Name: name, Indirection: p.parseOptIndirection(), Location: loc}
}

// parseUpdateStmt parses UPDATE ... SET ...
func (p *Parser) parseUpdateStmt(with *nodes.WithClause) *nodes.UpdateStmt {
	p.expect(token.UPDATE)

	stmt := &nodes.UpdateStmt{WithClause: with}
	stmt.Relation = p.parseRelationExprOptAlias(token.SET)
	p.expect(token.SET)

	stmt.TargetList = &nodes.List{}
	for {
		target := p.parseInsertColumn()
		p.expect(token.EQ)
		target.Val = p.parseExpr()
		stmt.TargetList.Append(target)
		if !p.match(token.COMMA) {
			break
		}
	}

	if p.match(token.FROM) {
		stmt.FromClause = p.parseFromList()
	}
	if p.match(token.WHERE) {
		stmt.WhereClause = p.parseExpr()
	}
	if p.match(token.RETURNING) {
		stmt.ReturningList = p.parseTargetList()
	}
	return stmt
}

// parseDeleteStmt parses DELETE FROM ...
func (p *Parser) parseDeleteStmt(with *nodes.WithClause) *nodes.DeleteStmt {
	p.expect(token.DELETE)
	p.expect(token.FROM)

	stmt := &nodes.DeleteStmt{WithClause: with}
	stmt.Relation = p.parseRelationExprOptAlias(token.USING)

	if p.match(token.USING) {
		stmt.UsingClause = p.parseFromList()
	}
	if p.match(token.WHERE) {
		stmt.WhereClause = p.parseExpr()
	}
	if p.match(token.RETURNING) {
		stmt.ReturningList = p.parseTargetList()
	}
	return stmt
}

// parenStartsSelect reports whether the "(" at the current token opens a
// sub-select, looking through any further "(".
func (p *Parser) parenStartsSelect() bool {
	i := 1
	for p.peekN(i).Type == token.LPAREN {
		i++
	}
	return startsSelect(p.peekN(i).Type)
}

// parenStartsSubquery reports whether the current token is "(" directly
// followed by the start of a SELECT.
func (p *Parser) parenStartsSubquery() bool {
	return p.check(token.LPAREN) && startsSelect(p.peek().Type)
}

func startsSelect(t token.TokenType) bool {
	return t == token.SELECT || t == token.VALUES || t == token.WITH
}
