package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pgparse/pkg/elog"
	"github.com/leapstack-labs/pgparse/pkg/nodes"
	"github.com/leapstack-labs/pgparse/pkg/parser"
)

// ---------- Helpers ----------

func parse(t *testing.T, sql string) *nodes.List {
	t.Helper()
	tree, err := parser.Parse(sql, parser.ModeDefault)
	require.NoError(t, err)
	return tree
}

// parseStmt parses sql, which must hold exactly one statement, and
// returns that statement.
func parseStmt(t *testing.T, sql string) nodes.Node {
	t.Helper()
	tree := parse(t, sql)
	require.Equal(t, 1, tree.Len())
	raw, ok := tree.Items[0].(*nodes.RawStmt)
	require.True(t, ok)
	return raw.Stmt
}

func parseSelect(t *testing.T, sql string) *nodes.SelectStmt {
	t.Helper()
	stmt, ok := parseStmt(t, sql).(*nodes.SelectStmt)
	require.True(t, ok, "expected a SelectStmt")
	return stmt
}

// exprOf parses src as a PL/pgSQL expression, so locations start at 0,
// and returns its single target expression.
func exprOf(t *testing.T, src string) nodes.Node {
	t.Helper()
	tree, err := parser.Parse(src, parser.ModePLpgSQLExpr)
	require.NoError(t, err)
	require.Equal(t, 1, tree.Len())
	stmt := tree.Items[0].(*nodes.RawStmt).Stmt.(*nodes.SelectStmt)
	require.Equal(t, 1, stmt.TargetList.Len())
	return stmt.TargetList.Items[0].(*nodes.ResTarget).Val
}

func parseError(t *testing.T, sql string, mode parser.Mode) *elog.ErrorData {
	t.Helper()
	_, err := parser.Parse(sql, mode)
	require.Error(t, err)
	var ed *elog.ErrorData
	require.ErrorAs(t, err, &ed)
	return ed
}

func iconst(v int64, loc int) *nodes.A_Const {
	return &nodes.A_Const{Val: &nodes.Integer{Ival: v}, Location: loc}
}

func sconst(s string, loc int) *nodes.A_Const {
	return &nodes.A_Const{Val: nodes.MakeString(s), Location: loc}
}

func colref(loc int, names ...string) *nodes.ColumnRef {
	return &nodes.ColumnRef{Fields: nodes.StringList(names...), Location: loc}
}

func aexpr(op string, l, r nodes.Node, loc int) *nodes.A_Expr {
	return &nodes.A_Expr{Kind: nodes.AEXPR_OP, Name: nodes.StringList(op), Lexpr: l, Rexpr: r, Location: loc}
}

func assertTree(t *testing.T, want, got nodes.Node) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

// ---------- Statement Lists ----------

func TestParseSelectOne(t *testing.T) {
	tree := parse(t, "SELECT 1")

	want := nodes.MakeList(&nodes.RawStmt{
		Stmt: &nodes.SelectStmt{
			TargetList: nodes.MakeList(&nodes.ResTarget{Val: iconst(1, 7), Location: 7}),
		},
	})
	assertTree(t, want, tree)
}

func TestParseSelectOneOutput(t *testing.T) {
	tree := parse(t, "SELECT 1;")
	want := `({RAWSTMT :stmt {SELECTSTMT :distinctClause <> :intoClause <> ` +
		`:targetList ({RESTARGET :name <> :indirection <> :val {A_CONST :val 1 :location 7} :location 7}) ` +
		`:fromClause <> :whereClause <> :groupClause <> :groupDistinct false :havingClause <> ` +
		`:windowClause <> :valuesLists <> :sortClause <> :limitOffset <> :limitCount <> ` +
		`:limitOption 0 :lockingClause <> :withClause <> :op 0 :all false :larg <> :rarg <>} ` +
		`:stmt_location 0 :stmt_len 8})`
	assert.Equal(t, want, nodes.NodeToString(tree))
}

func TestParseStatementLocations(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		locs [][2]int // stmt_location, stmt_len
	}{
		{"single without semicolon", "SELECT 1", [][2]int{{0, 0}}},
		{"single with semicolon", "SELECT 1;", [][2]int{{0, 8}}},
		{"two statements", "SELECT 1; SELECT 2;", [][2]int{{0, 8}, {9, 9}}},
		{"last without semicolon", "SELECT 1;SELECT 2", [][2]int{{0, 8}, {9, 0}}},
		{"leading empty statements", ";;SELECT 1", [][2]int{{2, 0}}},
		{"trailing empty statements", "SELECT 1;;", [][2]int{{0, 8}}},
		{"empty between", "SELECT 1; ; SELECT 2", [][2]int{{0, 8}, {11, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, tt.sql)
			require.Equal(t, len(tt.locs), tree.Len())
			for i, loc := range tt.locs {
				raw := tree.Items[i].(*nodes.RawStmt)
				assert.Equal(t, loc[0], raw.StmtLocation, "stmt %d location", i)
				assert.Equal(t, loc[1], raw.StmtLen, "stmt %d len", i)
			}
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, sql := range []string{"", "   ", ";", " ; ;", "-- only a comment"} {
		tree := parse(t, sql)
		assert.Equal(t, 0, tree.Len(), "input %q", sql)
	}
}

// ---------- SELECT ----------

func TestParseTargetList(t *testing.T) {
	stmt := parseSelect(t, "SELECT a AS x, b y, c, * FROM t")
	require.Equal(t, 4, stmt.TargetList.Len())

	names := []string{"x", "y", "", ""}
	for i, name := range names {
		assert.Equal(t, name, stmt.TargetList.Items[i].(*nodes.ResTarget).Name)
	}

	star := stmt.TargetList.Items[3].(*nodes.ResTarget)
	assertTree(t, &nodes.ColumnRef{Fields: nodes.MakeList(&nodes.A_Star{}), Location: 23}, star.Val)

	assertTree(t, nodes.MakeList(&nodes.RangeVar{
		Relname:        "t",
		Inh:            true,
		Relpersistence: 'p',
		Location:       30,
	}), stmt.FromClause)
}

func TestParseSelectWithoutTargets(t *testing.T) {
	stmt := parseSelect(t, "SELECT FROM t")
	assert.Nil(t, stmt.TargetList)
	assert.Equal(t, 1, stmt.FromClause.Len())
}

func TestParseDistinct(t *testing.T) {
	stmt := parseSelect(t, "SELECT DISTINCT a FROM t")
	require.Equal(t, 1, stmt.DistinctClause.Len())
	assert.Nil(t, stmt.DistinctClause.Items[0])

	stmt = parseSelect(t, "SELECT DISTINCT ON (a, b) a FROM t")
	assert.Equal(t, 2, stmt.DistinctClause.Len())

	stmt = parseSelect(t, "SELECT ALL a FROM t")
	assert.Nil(t, stmt.DistinctClause)
}

func TestParseClauses(t *testing.T) {
	stmt := parseSelect(t,
		"SELECT a, count(*) FROM t WHERE a > 0 GROUP BY DISTINCT a HAVING count(*) > 1 WINDOW w AS (ORDER BY a)")

	assert.NotNil(t, stmt.WhereClause)
	assert.True(t, stmt.GroupDistinct)
	assert.Equal(t, 1, stmt.GroupClause.Len())
	assert.IsType(t, &nodes.A_Expr{}, stmt.HavingClause)

	require.Equal(t, 1, stmt.WindowClause.Len())
	win := stmt.WindowClause.Items[0].(*nodes.WindowDef)
	assert.Equal(t, "w", win.Name)
	assert.Equal(t, 1, win.OrderClause.Len())
	assert.Equal(t, nodes.FRAMEOPTION_DEFAULTS, win.FrameOptions)
}

func TestParseOrderByAndLimit(t *testing.T) {
	stmt := parseSelect(t, "SELECT a FROM t ORDER BY a USING > NULLS LAST, b DESC LIMIT 10 OFFSET 5")

	require.Equal(t, 2, stmt.SortClause.Len())
	assertTree(t, &nodes.SortBy{
		Node:        colref(25, "a"),
		SortbyDir:   nodes.SORTBY_USING,
		SortbyNulls: nodes.SORTBY_NULLS_LAST,
		UseOp:       nodes.StringList(">"),
		Location:    33,
	}, stmt.SortClause.Items[0])

	desc := stmt.SortClause.Items[1].(*nodes.SortBy)
	assert.Equal(t, nodes.SORTBY_DESC, desc.SortbyDir)
	assert.Equal(t, -1, desc.Location)

	assertTree(t, iconst(10, 60), stmt.LimitCount)
	assertTree(t, iconst(5, 70), stmt.LimitOffset)
}

func TestParseLimitAll(t *testing.T) {
	stmt := parseSelect(t, "SELECT 1 LIMIT ALL OFFSET 3")
	assertTree(t, &nodes.A_Const{Isnull: true, Location: 15}, stmt.LimitCount)
	assertTree(t, iconst(3, 26), stmt.LimitOffset)

	// OFFSET may come first.
	stmt = parseSelect(t, "SELECT 1 OFFSET 3 LIMIT 2")
	assert.NotNil(t, stmt.LimitOffset)
	assert.NotNil(t, stmt.LimitCount)
}

func TestParseSetOperations(t *testing.T) {
	stmt := parseSelect(t, "SELECT 1 UNION SELECT 2 INTERSECT SELECT 3")
	assert.Equal(t, nodes.SETOP_UNION, stmt.Op)
	assert.Nil(t, stmt.TargetList)
	require.NotNil(t, stmt.Rarg)
	assert.Equal(t, nodes.SETOP_INTERSECT, stmt.Rarg.Op)
	assert.Equal(t, nodes.SETOP_NONE, stmt.Larg.Op)

	// Left-associative at equal precedence.
	stmt = parseSelect(t, "SELECT 1 EXCEPT ALL SELECT 2 UNION SELECT 3")
	assert.Equal(t, nodes.SETOP_UNION, stmt.Op)
	assert.False(t, stmt.All)
	assert.Equal(t, nodes.SETOP_EXCEPT, stmt.Larg.Op)
	assert.True(t, stmt.Larg.All)

	// Trailing ORDER BY and LIMIT attach to the whole set operation.
	stmt = parseSelect(t, "SELECT 1 UNION SELECT 2 ORDER BY 1 LIMIT 5")
	assert.Equal(t, nodes.SETOP_UNION, stmt.Op)
	assert.Equal(t, 1, stmt.SortClause.Len())
	assert.NotNil(t, stmt.LimitCount)
	assert.Nil(t, stmt.Rarg.SortClause)
}

func TestParseParenthesizedSelect(t *testing.T) {
	stmt := parseSelect(t, "((SELECT 1) ORDER BY 1)")
	assert.Equal(t, 1, stmt.TargetList.Len())
	assert.Equal(t, 1, stmt.SortClause.Len())
}

func TestParseValues(t *testing.T) {
	stmt := parseSelect(t, "VALUES (1, 'a'), (2, 'b')")
	require.Equal(t, 2, stmt.ValuesLists.Len())
	assertTree(t, nodes.MakeList(iconst(1, 8), sconst("a", 11)), stmt.ValuesLists.Items[0])
}

func TestParseWith(t *testing.T) {
	stmt := parseSelect(t, "WITH x(a) AS (SELECT 1) SELECT a FROM x")
	require.NotNil(t, stmt.WithClause)
	assert.Equal(t, 0, stmt.WithClause.Location)
	assert.False(t, stmt.WithClause.Recursive)

	require.Equal(t, 1, stmt.WithClause.Ctes.Len())
	cte := stmt.WithClause.Ctes.Items[0].(*nodes.CommonTableExpr)
	assert.Equal(t, "x", cte.Ctename)
	assert.Equal(t, 5, cte.Location)
	assertTree(t, nodes.StringList("a"), cte.Aliascolnames)
	assert.IsType(t, &nodes.SelectStmt{}, cte.Ctequery)

	stmt = parseSelect(t, "WITH RECURSIVE r AS (SELECT 1 UNION ALL SELECT 2) SELECT * FROM r")
	assert.True(t, stmt.WithClause.Recursive)
}

// ---------- FROM ----------

func TestParseJoins(t *testing.T) {
	stmt := parseSelect(t, "SELECT * FROM a LEFT JOIN b USING (id) JOIN c ON true")
	require.Equal(t, 1, stmt.FromClause.Len())

	outer := stmt.FromClause.Items[0].(*nodes.JoinExpr)
	assert.Equal(t, nodes.JOIN_INNER, outer.Jointype)
	assertTree(t, &nodes.A_Const{Val: &nodes.Boolean{Boolval: true}, Location: 49}, outer.Quals)

	inner := outer.Larg.(*nodes.JoinExpr)
	assert.Equal(t, nodes.JOIN_LEFT, inner.Jointype)
	assertTree(t, nodes.StringList("id"), inner.UsingClause)
	assert.Nil(t, inner.Quals)
	assert.Equal(t, "a", inner.Larg.(*nodes.RangeVar).Relname)
	assert.Equal(t, "b", inner.Rarg.(*nodes.RangeVar).Relname)
}

func TestParseJoinTypes(t *testing.T) {
	tests := []struct {
		sql     string
		want    nodes.JoinType
		natural bool
	}{
		{"SELECT * FROM a JOIN b ON x", nodes.JOIN_INNER, false},
		{"SELECT * FROM a INNER JOIN b ON x", nodes.JOIN_INNER, false},
		{"SELECT * FROM a LEFT OUTER JOIN b ON x", nodes.JOIN_LEFT, false},
		{"SELECT * FROM a RIGHT JOIN b ON x", nodes.JOIN_RIGHT, false},
		{"SELECT * FROM a FULL JOIN b ON x", nodes.JOIN_FULL, false},
		{"SELECT * FROM a CROSS JOIN b", nodes.JOIN_INNER, false},
		{"SELECT * FROM a NATURAL JOIN b", nodes.JOIN_INNER, true},
		{"SELECT * FROM a NATURAL FULL OUTER JOIN b", nodes.JOIN_FULL, true},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			join := parseSelect(t, tt.sql).FromClause.Items[0].(*nodes.JoinExpr)
			assert.Equal(t, tt.want, join.Jointype)
			assert.Equal(t, tt.natural, join.IsNatural)
		})
	}
}

func TestParseJoinRequiresQualifier(t *testing.T) {
	ed := parseError(t, "SELECT * FROM a JOIN b", parser.ModeDefault)
	assert.Equal(t, "syntax error at end of input", ed.Message)
}

func TestParseFromItems(t *testing.T) {
	stmt := parseSelect(t, "SELECT * FROM cat.sch.tbl AS t1 (x, y), LATERAL (SELECT 1) s, (a CROSS JOIN b) AS j")
	require.Equal(t, 3, stmt.FromClause.Len())

	rv := stmt.FromClause.Items[0].(*nodes.RangeVar)
	assert.Equal(t, "cat", rv.Catalogname)
	assert.Equal(t, "sch", rv.Schemaname)
	assert.Equal(t, "tbl", rv.Relname)
	assertTree(t, &nodes.Alias{Aliasname: "t1", Colnames: nodes.StringList("x", "y")}, rv.Alias)

	sub := stmt.FromClause.Items[1].(*nodes.RangeSubselect)
	assert.True(t, sub.Lateral)
	assert.Equal(t, "s", sub.Alias.Aliasname)

	join := stmt.FromClause.Items[2].(*nodes.JoinExpr)
	assert.Equal(t, "j", join.Alias.Aliasname)
}

// ---------- Data-Modifying Statements ----------

func TestParseInsert(t *testing.T) {
	stmt, ok := parseStmt(t, "INSERT INTO s.t (a, b) VALUES (1, 2) RETURNING id").(*nodes.InsertStmt)
	require.True(t, ok)

	want := &nodes.InsertStmt{
		Relation: &nodes.RangeVar{Schemaname: "s", Relname: "t", Inh: true, Relpersistence: 'p', Location: 12},
		Cols: nodes.MakeList(
			&nodes.ResTarget{Name: "a", Location: 17},
			&nodes.ResTarget{Name: "b", Location: 20},
		),
		SelectStmt: &nodes.SelectStmt{
			ValuesLists: nodes.MakeList(nodes.MakeList(iconst(1, 31), iconst(2, 34))),
		},
		ReturningList: nodes.MakeList(&nodes.ResTarget{Val: colref(47, "id"), Location: 47}),
	}
	assertTree(t, want, stmt)
}

func TestParseInsertVariants(t *testing.T) {
	stmt := parseStmt(t, "INSERT INTO t DEFAULT VALUES").(*nodes.InsertStmt)
	assert.Nil(t, stmt.SelectStmt)

	stmt = parseStmt(t, "INSERT INTO t (SELECT 1)").(*nodes.InsertStmt)
	assert.Nil(t, stmt.Cols)
	assert.NotNil(t, stmt.SelectStmt)

	stmt = parseStmt(t, "INSERT INTO t AS x SELECT * FROM u").(*nodes.InsertStmt)
	assert.Equal(t, "x", stmt.Relation.Alias.Aliasname)

	stmt = parseStmt(t, "WITH x AS (SELECT 1) INSERT INTO t SELECT * FROM x").(*nodes.InsertStmt)
	assert.NotNil(t, stmt.WithClause)
}

func TestParseUpdate(t *testing.T) {
	stmt, ok := parseStmt(t, "UPDATE t AS x SET a = 1, b[1] = 2 FROM u WHERE x.id = u.id RETURNING *").(*nodes.UpdateStmt)
	require.True(t, ok)

	assert.Equal(t, "x", stmt.Relation.Alias.Aliasname)
	require.Equal(t, 2, stmt.TargetList.Len())
	assertTree(t, &nodes.ResTarget{Name: "a", Val: iconst(1, 22), Location: 18}, stmt.TargetList.Items[0])

	second := stmt.TargetList.Items[1].(*nodes.ResTarget)
	assert.Equal(t, "b", second.Name)
	assert.Equal(t, 1, second.Indirection.Len())

	assert.Equal(t, 1, stmt.FromClause.Len())
	assert.NotNil(t, stmt.WhereClause)
	assert.Equal(t, 1, stmt.ReturningList.Len())

	// SET is never taken as an alias.
	stmt = parseStmt(t, "UPDATE t SET a = 1").(*nodes.UpdateStmt)
	assert.Nil(t, stmt.Relation.Alias)
}

func TestParseDelete(t *testing.T) {
	stmt, ok := parseStmt(t, "DELETE FROM t USING u WHERE t.id = u.id RETURNING t.*").(*nodes.DeleteStmt)
	require.True(t, ok)

	assert.Equal(t, "t", stmt.Relation.Relname)
	assert.Equal(t, 1, stmt.UsingClause.Len())
	assert.NotNil(t, stmt.WhereClause)

	ret := stmt.ReturningList.Items[0].(*nodes.ResTarget)
	assertTree(t, &nodes.ColumnRef{
		Fields:   nodes.MakeList(nodes.MakeString("t"), &nodes.A_Star{}),
		Location: 50,
	}, ret.Val)
}

// ---------- Expressions ----------

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want nodes.Node
	}{
		{"1 + 2 * 3", aexpr("+", iconst(1, 0), aexpr("*", iconst(2, 4), iconst(3, 8), 6), 2)},
		{"(1 + 2) * 3", aexpr("*", aexpr("+", iconst(1, 1), iconst(2, 5), 3), iconst(3, 10), 8)},
		{"2 ^ 3 ^ 4", aexpr("^", aexpr("^", iconst(2, 0), iconst(3, 4), 2), iconst(4, 8), 6)},
		{"a || b", aexpr("||", colref(0, "a"), colref(5, "b"), 2)},
		{"a != b", aexpr("<>", colref(0, "a"), colref(5, "b"), 2)},
		{"-5", iconst(-5, 0)},
		{"-1.5", &nodes.A_Const{Val: &nodes.Float{Fval: "-1.5"}, Location: 0}},
		{"- x", aexpr("-", nil, colref(2, "x"), 0)},
		{"a AND b AND c OR d", &nodes.BoolExpr{
			Boolop: nodes.OR_EXPR,
			Args: nodes.MakeList(
				&nodes.BoolExpr{
					Boolop:   nodes.AND_EXPR,
					Args:     nodes.MakeList(colref(0, "a"), colref(6, "b"), colref(12, "c")),
					Location: 2,
				},
				colref(17, "d"),
			),
			Location: 14,
		}},
		{"NOT a = b", &nodes.BoolExpr{
			Boolop:   nodes.NOT_EXPR,
			Args:     nodes.MakeList(aexpr("=", colref(4, "a"), colref(8, "b"), 6)),
			Location: 0,
		}},
		{"x IS NOT NULL", &nodes.NullTest{Arg: colref(0, "x"), Nulltesttype: nodes.IS_NOT_NULL, Location: 2}},
		{"x IS FALSE", &nodes.BooleanTest{Arg: colref(0, "x"), Booltesttype: nodes.IS_FALSE, Location: 2}},
		{"a IS DISTINCT FROM b", &nodes.A_Expr{
			Kind: nodes.AEXPR_DISTINCT, Name: nodes.StringList("="),
			Lexpr: colref(0, "a"), Rexpr: colref(19, "b"), Location: 2,
		}},
		{"x NOT IN (1, 2)", &nodes.A_Expr{
			Kind: nodes.AEXPR_IN, Name: nodes.StringList("<>"),
			Lexpr: colref(0, "x"), Rexpr: nodes.MakeList(iconst(1, 10), iconst(2, 13)), Location: 2,
		}},
		{"x BETWEEN 1 AND 2", &nodes.A_Expr{
			Kind: nodes.AEXPR_BETWEEN, Name: nodes.StringList("BETWEEN"),
			Lexpr: colref(0, "x"), Rexpr: nodes.MakeList(iconst(1, 10), iconst(2, 16)), Location: 2,
		}},
		{"name ILIKE 'a%'", &nodes.A_Expr{
			Kind: nodes.AEXPR_ILIKE, Name: nodes.StringList("~~*"),
			Lexpr: colref(0, "name"), Rexpr: sconst("a%", 11), Location: 5,
		}},
		{"s NOT LIKE 'x'", &nodes.A_Expr{
			Kind: nodes.AEXPR_LIKE, Name: nodes.StringList("!~~"),
			Lexpr: colref(0, "s"), Rexpr: sconst("x", 11), Location: 2,
		}},
		{"x::int", &nodes.TypeCast{Arg: colref(0, "x"), TypeName: nodes.SystemTypeName("int4", 3), Location: 1}},
		{"CAST(x AS varchar(10))", &nodes.TypeCast{
			Arg: colref(5, "x"),
			TypeName: &nodes.TypeName{
				Names:    nodes.StringList("pg_catalog", "varchar"),
				Typmods:  nodes.MakeList(iconst(10, 18)),
				Typemod:  -1,
				Location: 10,
			},
			Location: 0,
		}},
		{"date '2024-01-01'", &nodes.TypeCast{
			Arg: sconst("2024-01-01", 5), TypeName: nodes.MakeTypeName(0, "date"), Location: -1,
		}},
		{"interval '1 day'", &nodes.TypeCast{
			Arg: sconst("1 day", 9), TypeName: nodes.SystemTypeName("interval", 0), Location: -1,
		}},
		{"x = ANY (SELECT 1)", &nodes.SubLink{
			SubLinkType: nodes.ANY_SUBLINK,
			Testexpr:    colref(0, "x"),
			OperName:    nodes.StringList("="),
			Subselect: &nodes.SelectStmt{
				TargetList: nodes.MakeList(&nodes.ResTarget{Val: iconst(1, 16), Location: 16}),
			},
			Location: 2,
		}},
		{"x = ANY (arr)", &nodes.A_Expr{
			Kind: nodes.AEXPR_OP_ANY, Name: nodes.StringList("="),
			Lexpr: colref(0, "x"), Rexpr: colref(9, "arr"), Location: 2,
		}},
		{"EXISTS (SELECT 1)", &nodes.SubLink{
			SubLinkType: nodes.EXISTS_SUBLINK,
			Subselect: &nodes.SelectStmt{
				TargetList: nodes.MakeList(&nodes.ResTarget{Val: iconst(1, 15), Location: 15}),
			},
			Location: 0,
		}},
		{"ARRAY[[1, 2], [3]]", &nodes.A_ArrayExpr{
			Elements: nodes.MakeList(
				&nodes.A_ArrayExpr{Elements: nodes.MakeList(iconst(1, 7), iconst(2, 10)), Location: 6},
				&nodes.A_ArrayExpr{Elements: nodes.MakeList(iconst(3, 15)), Location: 14},
			),
			Location: 0,
		}},
		{"a.b[1].c", &nodes.A_Indirection{
			Arg:         colref(0, "a", "b"),
			Indirection: nodes.MakeList(&nodes.A_Indices{Uidx: iconst(1, 4)}, nodes.MakeString("c")),
		}},
		{"arr[1:]", &nodes.A_Indirection{
			Arg:         colref(0, "arr"),
			Indirection: nodes.MakeList(&nodes.A_Indices{IsSlice: true, Lidx: iconst(1, 4)}),
		}},
		{"$1[2]", &nodes.A_Indirection{
			Arg:         &nodes.ParamRef{Number: 1, Location: 0},
			Indirection: nodes.MakeList(&nodes.A_Indices{Uidx: iconst(2, 3)}),
		}},
		{"CASE WHEN a THEN 1 ELSE 2 END", &nodes.CaseExpr{
			Args:      nodes.MakeList(&nodes.CaseWhen{Expr: colref(10, "a"), Result: iconst(1, 17), Location: 5}),
			Defresult: iconst(2, 24),
			Location:  0,
		}},
		{"NULL", &nodes.A_Const{Isnull: true, Location: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assertTree(t, tt.want, exprOf(t, tt.src))
		})
	}
}

func TestParseFuncCall(t *testing.T) {
	got := exprOf(t, "count(*) OVER (PARTITION BY a ORDER BY b DESC)")

	want := &nodes.FuncCall{
		Funcname: nodes.StringList("count"),
		AggStar:  true,
		Over: &nodes.WindowDef{
			PartitionClause: nodes.MakeList(colref(28, "a")),
			OrderClause: nodes.MakeList(&nodes.SortBy{
				Node:      colref(39, "b"),
				SortbyDir: nodes.SORTBY_DESC,
				Location:  -1,
			}),
			FrameOptions: nodes.FRAMEOPTION_DEFAULTS,
			Location:     14,
		},
		Funcformat: nodes.COERCE_EXPLICIT_CALL,
		Location:   0,
	}
	assertTree(t, want, got)
}

func TestParseFuncCallOptions(t *testing.T) {
	fc := exprOf(t, "pg_catalog.string_agg(DISTINCT x, ',' ORDER BY x) FILTER (WHERE x IS NOT NULL)").(*nodes.FuncCall)
	assertTree(t, nodes.StringList("pg_catalog", "string_agg"), fc.Funcname)
	assert.True(t, fc.AggDistinct)
	assert.Equal(t, 2, fc.Args.Len())
	assert.Equal(t, 1, fc.AggOrder.Len())
	assert.IsType(t, &nodes.NullTest{}, fc.AggFilter)

	fc = exprOf(t, "rank() OVER w").(*nodes.FuncCall)
	assert.Nil(t, fc.Args)
	assert.Equal(t, "w", fc.Over.Name)
	assert.Equal(t, 12, fc.Over.Location)

	fc = exprOf(t, "left('abc', 1)").(*nodes.FuncCall)
	assertTree(t, nodes.StringList("left"), fc.Funcname)
}

func TestParseSubqueries(t *testing.T) {
	sub := exprOf(t, "(SELECT 1)").(*nodes.SubLink)
	assert.Equal(t, nodes.EXPR_SUBLINK, sub.SubLinkType)

	not := exprOf(t, "x NOT IN (SELECT y FROM t)").(*nodes.BoolExpr)
	assert.Equal(t, nodes.NOT_EXPR, not.Boolop)
	in := not.Args.Items[0].(*nodes.SubLink)
	assert.Equal(t, nodes.ANY_SUBLINK, in.SubLinkType)
	assert.Nil(t, in.OperName)

	arr := exprOf(t, "ARRAY(SELECT 1)").(*nodes.SubLink)
	assert.Equal(t, nodes.ARRAY_SUBLINK, arr.SubLinkType)
}

func TestParseKeywordsAsNames(t *testing.T) {
	// Unreserved and column-name keywords can name columns.
	stmt := parseSelect(t, "SELECT first, last, exists FROM filter")
	assert.Equal(t, 3, stmt.TargetList.Len())
	assert.Equal(t, "filter", stmt.FromClause.Items[0].(*nodes.RangeVar).Relname)

	// Reserved keywords are fine after AS.
	stmt = parseSelect(t, "SELECT 1 AS select")
	assert.Equal(t, "select", stmt.TargetList.Items[0].(*nodes.ResTarget).Name)
}

// ---------- Type Names ----------

func TestParseTypeNames(t *testing.T) {
	varchar := nodes.SystemTypeName("varchar", 0)
	varchar.Typmods = nodes.MakeList(iconst(20, 18))
	varchar.ArrayBounds = nodes.MakeList(&nodes.Integer{Ival: -1})

	bpchar := nodes.SystemTypeName("bpchar", 0)
	bpchar.Typmods = nodes.MakeList(iconst(1, -1))

	tstz := nodes.SystemTypeName("timestamptz", 0)
	tstz.Typmods = nodes.MakeList(iconst(3, 10))

	setof := nodes.MakeTypeName(6, "myschema", "mytype")
	setof.Setof = true

	bit := nodes.SystemTypeName("bit", 0)
	bit.Typmods = nodes.MakeList(iconst(1, -1))

	interval := nodes.SystemTypeName("interval", 0)
	interval.Typmods = nodes.MakeList(iconst(0x7FFF, -1), iconst(2, 9))

	numeric := nodes.SystemTypeName("numeric", 0)
	numeric.Typmods = nodes.MakeList(iconst(10, 8), iconst(2, 12))

	intArray := nodes.SystemTypeName("int4", 0)
	intArray.ArrayBounds = nodes.MakeList(&nodes.Integer{Ival: 4})

	tests := []struct {
		src  string
		want *nodes.TypeName
	}{
		{"int", nodes.SystemTypeName("int4", 0)},
		{"INTEGER", nodes.SystemTypeName("int4", 0)},
		{"smallint", nodes.SystemTypeName("int2", 0)},
		{"bigint", nodes.SystemTypeName("int8", 0)},
		{"real", nodes.SystemTypeName("float4", 0)},
		{"float", nodes.SystemTypeName("float8", 0)},
		{"float(24)", nodes.SystemTypeName("float4", 0)},
		{"float(25)", nodes.SystemTypeName("float8", 0)},
		{"double precision", nodes.SystemTypeName("float8", 0)},
		{"boolean", nodes.SystemTypeName("bool", 0)},
		{"character varying(20)[]", varchar},
		{"char", bpchar},
		{"timestamp(3) with time zone", tstz},
		{"time without time zone", nodes.SystemTypeName("time", 0)},
		{"setof myschema.mytype", setof},
		{"bit", bit},
		{"bit varying", nodes.SystemTypeName("varbit", 0)},
		{"interval(2)", interval},
		{"numeric(10, 2)", numeric},
		{"int array[4]", intArray},
		{"text", nodes.MakeTypeName(0, "text")},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree, err := parser.Parse(tt.src, parser.ModeTypeName)
			require.NoError(t, err)
			require.Equal(t, 1, tree.Len())
			assertTree(t, tt.want, tree.Items[0])
		})
	}
}

func TestParseTypeNameErrors(t *testing.T) {
	ed := parseError(t, "float(0)", parser.ModeTypeName)
	assert.Equal(t, elog.ErrcodeInvalidParameterValue, ed.SQLState)
	assert.Equal(t, parser.ErrFloatPrecisionLow, ed.Message)
	assert.Equal(t, 7, ed.Cursor)

	ed = parseError(t, "float(54)", parser.ModeTypeName)
	assert.Equal(t, parser.ErrFloatPrecisionHigh, ed.Message)

	ed = parseError(t, "int extra", parser.ModeTypeName)
	assert.Equal(t, `syntax error at or near "extra"`, ed.Message)
}

func TestParseConstTypeLiteralHasNoDefaultLength(t *testing.T) {
	cast := exprOf(t, "char 'x'").(*nodes.TypeCast)
	assertTree(t, nodes.SystemTypeName("bpchar", 0), cast.TypeName)
}

// ---------- PL/pgSQL ----------

func TestParsePLpgSQLExpr(t *testing.T) {
	tree, err := parser.Parse("a + 1 FROM t WHERE b ORDER BY a LIMIT 1", parser.ModePLpgSQLExpr)
	require.NoError(t, err)

	raw := tree.Items[0].(*nodes.RawStmt)
	assert.Equal(t, 0, raw.StmtLocation)
	assert.Equal(t, 0, raw.StmtLen)

	stmt := raw.Stmt.(*nodes.SelectStmt)
	assert.Equal(t, 1, stmt.FromClause.Len())
	assert.NotNil(t, stmt.WhereClause)
	assert.Equal(t, 1, stmt.SortClause.Len())
	assert.NotNil(t, stmt.LimitCount)

	// Set operations are not part of the expression grammar.
	ed := parseError(t, "1 UNION SELECT 2", parser.ModePLpgSQLExpr)
	assert.Equal(t, `syntax error at or near "UNION"`, ed.Message)
}

func TestParsePLAssign(t *testing.T) {
	tree, err := parser.Parse("x := y + 1", parser.ModePLpgSQLAssign1)
	require.NoError(t, err)

	want := nodes.MakeList(&nodes.RawStmt{
		Stmt: &nodes.PLAssignStmt{
			Name:   "x",
			Nnames: 1,
			Val: &nodes.SelectStmt{
				TargetList: nodes.MakeList(&nodes.ResTarget{
					Val:      aexpr("+", colref(5, "y"), iconst(1, 9), 7),
					Location: 5,
				}),
			},
			Location: 0,
		},
	})
	assertTree(t, want, tree)
}

func TestParsePLAssignTargets(t *testing.T) {
	tree, err := parser.Parse("rec.field[1] = 2", parser.ModePLpgSQLAssign2)
	require.NoError(t, err)
	stmt := tree.Items[0].(*nodes.RawStmt).Stmt.(*nodes.PLAssignStmt)
	assert.Equal(t, "rec", stmt.Name)
	assert.Equal(t, 2, stmt.Nnames)
	assertTree(t, nodes.MakeList(nodes.MakeString("field"), &nodes.A_Indices{Uidx: iconst(1, 10)}), stmt.Indirection)

	tree, err = parser.Parse("$1 := 5", parser.ModePLpgSQLAssign3)
	require.NoError(t, err)
	stmt = tree.Items[0].(*nodes.RawStmt).Stmt.(*nodes.PLAssignStmt)
	assert.Equal(t, "$1", stmt.Name)
	assert.Equal(t, 3, stmt.Nnames)

	ed := parseError(t, "a.*.b := 1", parser.ModePLpgSQLAssign1)
	assert.Equal(t, parser.ErrImproperStar, ed.Message)

	ed = parseError(t, "a 1", parser.ModePLpgSQLAssign1)
	assert.Equal(t, `syntax error at or near "1"`, ed.Message)
}

// ---------- Errors ----------

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		code    elog.SQLState
		message string
		cursor  int
	}{
		{"misspelled keyword", "SELEC 1", elog.ErrcodeSyntaxError, `syntax error at or near "SELEC"`, 1},
		{"unexpected keyword", "SELECT FROM WHERE", elog.ErrcodeSyntaxError, `syntax error at or near "WHERE"`, 13},
		{"end of input", "SELECT 1 +", elog.ErrcodeSyntaxError, "syntax error at end of input", 11},
		{"cursor counts characters", "SELECT 'é' +", elog.ErrcodeSyntaxError, "syntax error at end of input", 13},
		{"unclosed paren", "SELECT (1", elog.ErrcodeSyntaxError, "syntax error at end of input", 10},
		{"missing separator", "SELECT 1 2", elog.ErrcodeSyntaxError, `syntax error at or near "2"`, 10},
		{"non-associative comparison", "SELECT a = b = c", elog.ErrcodeSyntaxError, `syntax error at or near "="`, 14},
		{"limit comma", "SELECT 1 LIMIT 1, 2", elog.ErrcodeSyntaxError, parser.ErrLimitCommaSyntax, 10},
		{"qualified name too long", "SELECT * FROM a.b.c.d", elog.ErrcodeSyntaxError,
			"improper qualified name (too many dotted names): a.b.c.d", 15},
		{"multiple order by", "(SELECT 1 ORDER BY 1) ORDER BY 1", elog.ErrcodeSyntaxError,
			"multiple ORDER BY clauses not allowed", 23},
		{"multiple limit", "(SELECT 1 LIMIT 1) LIMIT 2", elog.ErrcodeSyntaxError,
			"multiple LIMIT clauses not allowed", 20},
		{"lexer error", "SELECT 'abc", elog.ErrcodeSyntaxError, "unterminated quoted string", 8},
		{"illegal character", "SELECT 1 {", elog.ErrcodeSyntaxError, `syntax error at or near "{"`, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := parseError(t, tt.sql, parser.ModeDefault)
			assert.Equal(t, elog.ERROR, ed.Level)
			assert.Equal(t, tt.code, ed.SQLState)
			assert.Equal(t, tt.message, ed.Message)
			assert.Equal(t, tt.cursor, ed.Cursor)
		})
	}
}

func TestRawParserRaisesThroughState(t *testing.T) {
	es := elog.NewState(nil, nil)
	ed := es.Try(func() { parser.RawParser(es, "SELECT )", parser.ModeDefault) })
	require.NotNil(t, ed)
	assert.Equal(t, `syntax error at or near ")"`, ed.Message)
	assert.Equal(t, 0, es.Pending())
}

func TestParseOptions(t *testing.T) {
	tree, err := parser.Parse(`SELECT 'a\tb'`, parser.ModeDefault, parser.WithStandardConformingStrings(false))
	require.NoError(t, err)
	target := tree.Items[0].(*nodes.RawStmt).Stmt.(*nodes.SelectStmt).TargetList.Items[0].(*nodes.ResTarget)
	assertTree(t, sconst("a\tb", 7), target.Val)
}
