package nodes

import (
	"bytes"
	"reflect"
	"strconv"
)

// NodeToString renders a node in the outfuncs text format:
// {LABEL :field value ...}, lists as ( ... ), and NIL as <>.
// Every field of a node is written, in declaration order, so the output
// is fully determined by the tree.
func NodeToString(n Node) string {
	p := &printer{}
	p.node(n)
	return p.out.String()
}

type printer struct {
	out bytes.Buffer
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (p *printer) node(n Node) {
	if isNil(n) {
		p.out.WriteString("<>")
		return
	}

	switch v := n.(type) {
	case *List:
		p.list(v)
	case *String:
		p.out.WriteByte('"')
		if v.Sval != "" {
			writeToken(&p.out, v.Sval)
		}
		p.out.WriteByte('"')
	case *Integer:
		p.out.WriteString(strconv.FormatInt(v.Ival, 10))
	case *Float:
		p.out.WriteString(v.Fval)
	case *Boolean:
		p.out.WriteString(strconv.FormatBool(v.Boolval))
	default:
		p.out.WriteByte('{')
		p.out.WriteString(n.Tag().Label())
		p.fields(n)
		p.out.WriteByte('}')
	}
}

func (p *printer) list(l *List) {
	if l.Len() == 0 {
		p.out.WriteString("<>")
		return
	}
	p.out.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			p.out.WriteByte(' ')
		}
		p.node(item)
	}
	p.out.WriteByte(')')
}

func (p *printer) label(name string) {
	p.out.WriteString(" :")
	p.out.WriteString(name)
	p.out.WriteByte(' ')
}

func (p *printer) nodeField(name string, n Node) {
	p.label(name)
	p.node(n)
}

func (p *printer) listField(name string, l *List) {
	p.label(name)
	if l == nil {
		p.out.WriteString("<>")
		return
	}
	p.list(l)
}

func (p *printer) stringField(name, s string) {
	p.label(name)
	if s == "" {
		p.out.WriteString("<>")
		return
	}
	writeToken(&p.out, s)
}

func (p *printer) intField(name string, v int) {
	p.label(name)
	p.out.WriteString(strconv.Itoa(v))
}

func (p *printer) oidField(name string, v Oid) {
	p.label(name)
	p.out.WriteString(strconv.FormatUint(uint64(v), 10))
}

func (p *printer) boolField(name string, v bool) {
	p.label(name)
	p.out.WriteString(strconv.FormatBool(v))
}

func (p *printer) charField(name string, c byte) {
	p.label(name)
	if c == 0 {
		p.out.WriteString("<>")
		return
	}
	writeToken(&p.out, string(c))
}

func (p *printer) fields(n Node) {
	switch v := n.(type) {
	case *RawStmt:
		p.nodeField("stmt", v.Stmt)
		p.intField("stmt_location", v.StmtLocation)
		p.intField("stmt_len", v.StmtLen)
	case *SelectStmt:
		p.listField("distinctClause", v.DistinctClause)
		p.nodeField("intoClause", v.IntoClause)
		p.listField("targetList", v.TargetList)
		p.listField("fromClause", v.FromClause)
		p.nodeField("whereClause", v.WhereClause)
		p.listField("groupClause", v.GroupClause)
		p.boolField("groupDistinct", v.GroupDistinct)
		p.nodeField("havingClause", v.HavingClause)
		p.listField("windowClause", v.WindowClause)
		p.listField("valuesLists", v.ValuesLists)
		p.listField("sortClause", v.SortClause)
		p.nodeField("limitOffset", v.LimitOffset)
		p.nodeField("limitCount", v.LimitCount)
		p.intField("limitOption", int(v.LimitOption))
		p.listField("lockingClause", v.LockingClause)
		p.nodeField("withClause", v.WithClause)
		p.intField("op", int(v.Op))
		p.boolField("all", v.All)
		p.nodeField("larg", v.Larg)
		p.nodeField("rarg", v.Rarg)
	case *InsertStmt:
		p.nodeField("relation", v.Relation)
		p.listField("cols", v.Cols)
		p.nodeField("selectStmt", v.SelectStmt)
		p.nodeField("onConflictClause", v.OnConflictClause)
		p.listField("returningList", v.ReturningList)
		p.nodeField("withClause", v.WithClause)
		p.intField("override", int(v.Override))
	case *UpdateStmt:
		p.nodeField("relation", v.Relation)
		p.listField("targetList", v.TargetList)
		p.nodeField("whereClause", v.WhereClause)
		p.listField("fromClause", v.FromClause)
		p.listField("returningList", v.ReturningList)
		p.nodeField("withClause", v.WithClause)
	case *DeleteStmt:
		p.nodeField("relation", v.Relation)
		p.listField("usingClause", v.UsingClause)
		p.nodeField("whereClause", v.WhereClause)
		p.listField("returningList", v.ReturningList)
		p.nodeField("withClause", v.WithClause)
	case *PLAssignStmt:
		p.stringField("name", v.Name)
		p.listField("indirection", v.Indirection)
		p.intField("nnames", v.Nnames)
		p.nodeField("val", v.Val)
		p.intField("location", v.Location)
	case *ResTarget:
		p.stringField("name", v.Name)
		p.listField("indirection", v.Indirection)
		p.nodeField("val", v.Val)
		p.intField("location", v.Location)
	case *ColumnRef:
		p.listField("fields", v.Fields)
		p.intField("location", v.Location)
	case *ParamRef:
		p.intField("number", v.Number)
		p.intField("location", v.Location)
	case *A_Const:
		if v.Isnull {
			p.out.WriteString(" :isnull true")
		} else {
			p.nodeField("val", v.Val)
		}
		p.intField("location", v.Location)
	case *A_Expr:
		p.out.WriteString(aexprKindWords[v.Kind])
		p.listField("name", v.Name)
		p.nodeField("lexpr", v.Lexpr)
		p.nodeField("rexpr", v.Rexpr)
		p.intField("location", v.Location)
	case *A_Star:
	case *A_Indices:
		p.boolField("is_slice", v.IsSlice)
		p.nodeField("lidx", v.Lidx)
		p.nodeField("uidx", v.Uidx)
	case *A_Indirection:
		p.nodeField("arg", v.Arg)
		p.listField("indirection", v.Indirection)
	case *A_ArrayExpr:
		p.listField("elements", v.Elements)
		p.intField("location", v.Location)
	case *BoolExpr:
		p.label("boolop")
		writeToken(&p.out, v.Boolop.String())
		p.listField("args", v.Args)
		p.intField("location", v.Location)
	case *NullTest:
		p.nodeField("arg", v.Arg)
		p.intField("nulltesttype", int(v.Nulltesttype))
		p.boolField("argisrow", v.Argisrow)
		p.intField("location", v.Location)
	case *BooleanTest:
		p.nodeField("arg", v.Arg)
		p.intField("booltesttype", int(v.Booltesttype))
		p.intField("location", v.Location)
	case *SubLink:
		p.intField("subLinkType", int(v.SubLinkType))
		p.intField("subLinkId", v.SubLinkId)
		p.nodeField("testexpr", v.Testexpr)
		p.listField("operName", v.OperName)
		p.nodeField("subselect", v.Subselect)
		p.intField("location", v.Location)
	case *FuncCall:
		p.listField("funcname", v.Funcname)
		p.listField("args", v.Args)
		p.listField("agg_order", v.AggOrder)
		p.nodeField("agg_filter", v.AggFilter)
		p.nodeField("over", v.Over)
		p.boolField("agg_within_group", v.AggWithinGroup)
		p.boolField("agg_star", v.AggStar)
		p.boolField("agg_distinct", v.AggDistinct)
		p.boolField("func_variadic", v.FuncVariadic)
		p.intField("funcformat", int(v.Funcformat))
		p.intField("location", v.Location)
	case *TypeCast:
		p.nodeField("arg", v.Arg)
		p.nodeField("typeName", v.TypeName)
		p.intField("location", v.Location)
	case *TypeName:
		p.listField("names", v.Names)
		p.oidField("typeOid", v.TypeOid)
		p.boolField("setof", v.Setof)
		p.boolField("pct_type", v.PctType)
		p.listField("typmods", v.Typmods)
		p.intField("typemod", v.Typemod)
		p.listField("arrayBounds", v.ArrayBounds)
		p.intField("location", v.Location)
	case *SortBy:
		p.nodeField("node", v.Node)
		p.intField("sortby_dir", int(v.SortbyDir))
		p.intField("sortby_nulls", int(v.SortbyNulls))
		p.listField("useOp", v.UseOp)
		p.intField("location", v.Location)
	case *CaseExpr:
		p.oidField("casetype", v.Casetype)
		p.oidField("casecollid", v.Casecollid)
		p.nodeField("arg", v.Arg)
		p.listField("args", v.Args)
		p.nodeField("defresult", v.Defresult)
		p.intField("location", v.Location)
	case *CaseWhen:
		p.nodeField("expr", v.Expr)
		p.nodeField("result", v.Result)
		p.intField("location", v.Location)
	case *WindowDef:
		p.stringField("name", v.Name)
		p.stringField("refname", v.Refname)
		p.listField("partitionClause", v.PartitionClause)
		p.listField("orderClause", v.OrderClause)
		p.intField("frameOptions", v.FrameOptions)
		p.nodeField("startOffset", v.StartOffset)
		p.nodeField("endOffset", v.EndOffset)
		p.intField("location", v.Location)
	case *RangeVar:
		p.stringField("catalogname", v.Catalogname)
		p.stringField("schemaname", v.Schemaname)
		p.stringField("relname", v.Relname)
		p.boolField("inh", v.Inh)
		p.charField("relpersistence", v.Relpersistence)
		p.nodeField("alias", v.Alias)
		p.intField("location", v.Location)
	case *RangeSubselect:
		p.boolField("lateral", v.Lateral)
		p.nodeField("subquery", v.Subquery)
		p.nodeField("alias", v.Alias)
	case *JoinExpr:
		p.intField("jointype", int(v.Jointype))
		p.boolField("isNatural", v.IsNatural)
		p.nodeField("larg", v.Larg)
		p.nodeField("rarg", v.Rarg)
		p.listField("usingClause", v.UsingClause)
		p.nodeField("join_using_alias", v.JoinUsingAlias)
		p.nodeField("quals", v.Quals)
		p.nodeField("alias", v.Alias)
		p.intField("rtindex", v.Rtindex)
	case *Alias:
		p.stringField("aliasname", v.Aliasname)
		p.listField("colnames", v.Colnames)
	case *WithClause:
		p.listField("ctes", v.Ctes)
		p.boolField("recursive", v.Recursive)
		p.intField("location", v.Location)
	case *CommonTableExpr:
		p.stringField("ctename", v.Ctename)
		p.listField("aliascolnames", v.Aliascolnames)
		p.intField("ctematerialized", int(v.Ctematerialized))
		p.nodeField("ctequery", v.Ctequery)
		p.nodeField("search_clause", v.SearchClause)
		p.nodeField("cycle_clause", v.CycleClause)
		p.intField("location", v.Location)
		p.boolField("cterecursive", v.Cterecursive)
		p.intField("cterefcount", v.Cterefcount)
		p.listField("ctecolnames", v.Ctecolnames)
		p.listField("ctecoltypes", v.Ctecoltypes)
		p.listField("ctecoltypmods", v.Ctecoltypmods)
		p.listField("ctecolcollations", v.Ctecolcollations)
	}
}

// writeToken writes s so that the node reader would read it back as one
// token: a leading character that would start another token kind is
// escaped, as is whitespace and every delimiter.
func writeToken(out *bytes.Buffer, s string) {
	if s == "" {
		out.WriteString(`""`)
		return
	}
	c := s[0]
	if c == '<' || c == '"' || isDigit(c) ||
		((c == '+' || c == '-') && len(s) > 1 && (isDigit(s[1]) || s[1] == '.')) {
		out.WriteByte('\\')
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\n', '\t', '(', ')', '{', '}', '\\':
			out.WriteByte('\\')
		}
		out.WriteByte(s[i])
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
