package nodes

// RawStmt wraps one statement of a multi-statement source. StmtLen is 0
// when the statement runs to the end of the source.
type RawStmt struct {
	Stmt         Node
	StmtLocation int
	StmtLen      int
}

func (n *RawStmt) Tag() NodeTag { return T_RawStmt }

// SelectStmt is a SELECT, a VALUES list, or a set operation tree. For a
// set operation Op is set and Larg/Rarg hold the operands.
type SelectStmt struct {
	DistinctClause *List
	IntoClause     Node
	TargetList     *List
	FromClause     *List
	WhereClause    Node
	GroupClause    *List
	GroupDistinct  bool
	HavingClause   Node
	WindowClause   *List
	ValuesLists    *List
	SortClause     *List
	LimitOffset    Node
	LimitCount     Node
	LimitOption    LimitOption
	LockingClause  *List
	WithClause     *WithClause
	Op             SetOperation
	All            bool
	Larg           *SelectStmt
	Rarg           *SelectStmt
}

func (n *SelectStmt) Tag() NodeTag { return T_SelectStmt }

// InsertStmt is INSERT INTO relation [(cols)] source [RETURNING ...].
type InsertStmt struct {
	Relation         *RangeVar
	Cols             *List
	SelectStmt       Node
	OnConflictClause Node
	ReturningList    *List
	WithClause       *WithClause
	Override         OverridingKind
}

func (n *InsertStmt) Tag() NodeTag { return T_InsertStmt }

// UpdateStmt is UPDATE relation SET ... [FROM] [WHERE] [RETURNING].
type UpdateStmt struct {
	Relation      *RangeVar
	TargetList    *List
	WhereClause   Node
	FromClause    *List
	ReturningList *List
	WithClause    *WithClause
}

func (n *UpdateStmt) Tag() NodeTag { return T_UpdateStmt }

// DeleteStmt is DELETE FROM relation [USING] [WHERE] [RETURNING].
type DeleteStmt struct {
	Relation      *RangeVar
	UsingClause   *List
	WhereClause   Node
	ReturningList *List
	WithClause    *WithClause
}

func (n *DeleteStmt) Tag() NodeTag { return T_DeleteStmt }

// PLAssignStmt is a PL/pgSQL assignment target := expression. Nnames is
// how many leading names of the target form the variable name.
type PLAssignStmt struct {
	Name        string
	Indirection *List
	Nnames      int
	Val         *SelectStmt
	Location    int
}

func (n *PLAssignStmt) Tag() NodeTag { return T_PLAssignStmt }

// ResTarget is a target list entry, a SET target, or an INSERT column.
type ResTarget struct {
	Name        string
	Indirection *List
	Val         Node
	Location    int
}

func (n *ResTarget) Tag() NodeTag { return T_ResTarget }

// ColumnRef is a possibly qualified column reference; the last field may
// be A_Star.
type ColumnRef struct {
	Fields   *List
	Location int
}

func (n *ColumnRef) Tag() NodeTag { return T_ColumnRef }

// ParamRef is a positional parameter $n.
type ParamRef struct {
	Number   int
	Location int
}

func (n *ParamRef) Tag() NodeTag { return T_ParamRef }

// A_Const is a literal constant. Val is nil when Isnull is set.
type A_Const struct {
	Isnull   bool
	Val      Node
	Location int
}

func (n *A_Const) Tag() NodeTag { return T_A_Const }

// A_Expr is an operator expression. Lexpr is nil for prefix operators.
type A_Expr struct {
	Kind     A_Expr_Kind
	Name     *List
	Lexpr    Node
	Rexpr    Node
	Location int
}

func (n *A_Expr) Tag() NodeTag { return T_A_Expr }

// A_Star is '*' in a target list or column reference.
type A_Star struct{}

func (n *A_Star) Tag() NodeTag { return T_A_Star }

// A_Indices is a subscript [i] or slice [l:u].
type A_Indices struct {
	IsSlice bool
	Lidx    Node
	Uidx    Node
}

func (n *A_Indices) Tag() NodeTag { return T_A_Indices }

// A_Indirection applies subscripts and field selections to an expression.
type A_Indirection struct {
	Arg         Node
	Indirection *List
}

func (n *A_Indirection) Tag() NodeTag { return T_A_Indirection }

// A_ArrayExpr is ARRAY[...].
type A_ArrayExpr struct {
	Elements *List
	Location int
}

func (n *A_ArrayExpr) Tag() NodeTag { return T_A_ArrayExpr }

// BoolExpr is AND, OR or NOT over Args.
type BoolExpr struct {
	Boolop   BoolExprType
	Args     *List
	Location int
}

func (n *BoolExpr) Tag() NodeTag { return T_BoolExpr }

// NullTest is arg IS [NOT] NULL.
type NullTest struct {
	Arg          Node
	Nulltesttype NullTestType
	Argisrow     bool
	Location     int
}

func (n *NullTest) Tag() NodeTag { return T_NullTest }

// BooleanTest is arg IS [NOT] TRUE/FALSE/UNKNOWN.
type BooleanTest struct {
	Arg          Node
	Booltesttype BoolTestType
	Location     int
}

func (n *BooleanTest) Tag() NodeTag { return T_BooleanTest }

// SubLink is a sub-select appearing in an expression.
type SubLink struct {
	SubLinkType SubLinkType
	SubLinkId   int
	Testexpr    Node
	OperName    *List
	Subselect   Node
	Location    int
}

func (n *SubLink) Tag() NodeTag { return T_SubLink }

// FuncCall is a function or aggregate call.
type FuncCall struct {
	Funcname       *List
	Args           *List
	AggOrder       *List
	AggFilter      Node
	Over           *WindowDef
	AggWithinGroup bool
	AggStar        bool
	AggDistinct    bool
	FuncVariadic   bool
	Funcformat     CoercionForm
	Location       int
}

func (n *FuncCall) Tag() NodeTag { return T_FuncCall }

// TypeCast is arg::type or CAST(arg AS type).
type TypeCast struct {
	Arg      Node
	TypeName *TypeName
	Location int
}

func (n *TypeCast) Tag() NodeTag { return T_TypeCast }

// TypeName is a type reference as written. Typemod is -1 unless resolved.
type TypeName struct {
	Names       *List
	TypeOid     Oid
	Setof       bool
	PctType     bool
	Typmods     *List
	Typemod     int
	ArrayBounds *List
	Location    int
}

func (n *TypeName) Tag() NodeTag { return T_TypeName }

// SortBy is an ORDER BY item.
type SortBy struct {
	Node        Node
	SortbyDir   SortByDir
	SortbyNulls SortByNulls
	UseOp       *List
	Location    int
}

func (n *SortBy) Tag() NodeTag { return T_SortBy }

// CaseExpr is CASE [arg] WHEN ... [ELSE defresult] END.
type CaseExpr struct {
	Casetype   Oid
	Casecollid Oid
	Arg        Node
	Args       *List
	Defresult  Node
	Location   int
}

func (n *CaseExpr) Tag() NodeTag { return T_CaseExpr }

// CaseWhen is one WHEN expr THEN result arm.
type CaseWhen struct {
	Expr     Node
	Result   Node
	Location int
}

func (n *CaseWhen) Tag() NodeTag { return T_CaseWhen }

// WindowDef is an OVER clause or WINDOW definition.
type WindowDef struct {
	Name            string
	Refname         string
	PartitionClause *List
	OrderClause     *List
	FrameOptions    int
	StartOffset     Node
	EndOffset       Node
	Location        int
}

func (n *WindowDef) Tag() NodeTag { return T_WindowDef }

// RangeVar is a possibly qualified relation name.
type RangeVar struct {
	Catalogname    string
	Schemaname     string
	Relname        string
	Inh            bool
	Relpersistence byte
	Alias          *Alias
	Location       int
}

func (n *RangeVar) Tag() NodeTag { return T_RangeVar }

// RangeSubselect is a sub-select in FROM.
type RangeSubselect struct {
	Lateral  bool
	Subquery Node
	Alias    *Alias
}

func (n *RangeSubselect) Tag() NodeTag { return T_RangeSubselect }

// JoinExpr is a join between two FROM items.
type JoinExpr struct {
	Jointype       JoinType
	IsNatural      bool
	Larg           Node
	Rarg           Node
	UsingClause    *List
	JoinUsingAlias *Alias
	Quals          Node
	Alias          *Alias
	Rtindex        int
}

func (n *JoinExpr) Tag() NodeTag { return T_JoinExpr }

// Alias is AS name [(colnames)].
type Alias struct {
	Aliasname string
	Colnames  *List
}

func (n *Alias) Tag() NodeTag { return T_Alias }

// WithClause is WITH [RECURSIVE] ctes.
type WithClause struct {
	Ctes      *List
	Recursive bool
	Location  int
}

func (n *WithClause) Tag() NodeTag { return T_WithClause }

// CommonTableExpr is one WITH item. The trailing fields are filled in by
// analysis and are always empty in a raw tree.
type CommonTableExpr struct {
	Ctename          string
	Aliascolnames    *List
	Ctematerialized  CTEMaterialize
	Ctequery         Node
	SearchClause     Node
	CycleClause      Node
	Location         int
	Cterecursive     bool
	Cterefcount      int
	Ctecolnames      *List
	Ctecoltypes      *List
	Ctecoltypmods    *List
	Ctecolcollations *List
}

func (n *CommonTableExpr) Tag() NodeTag { return T_CommonTableExpr }

// MakeTypeName returns a TypeName with the given names and no modifiers.
func MakeTypeName(location int, names ...string) *TypeName {
	return &TypeName{Names: StringList(names...), Typemod: -1, Location: location}
}

// SystemTypeName returns a TypeName qualified with pg_catalog.
func SystemTypeName(name string, location int) *TypeName {
	return MakeTypeName(location, "pg_catalog", name)
}
