package nodes

// SetOperation is the set operator of a SelectStmt.
type SetOperation int

const (
	SETOP_NONE SetOperation = iota
	SETOP_UNION
	SETOP_INTERSECT
	SETOP_EXCEPT
)

// LimitOption selects between LIMIT and FETCH ... WITH TIES.
type LimitOption int

const (
	LIMIT_OPTION_COUNT LimitOption = iota
	LIMIT_OPTION_WITH_TIES
)

// A_Expr_Kind classifies an A_Expr.
type A_Expr_Kind int

const (
	AEXPR_OP A_Expr_Kind = iota
	AEXPR_OP_ANY
	AEXPR_OP_ALL
	AEXPR_DISTINCT
	AEXPR_NOT_DISTINCT
	AEXPR_NULLIF
	AEXPR_IN
	AEXPR_LIKE
	AEXPR_ILIKE
	AEXPR_SIMILAR
	AEXPR_BETWEEN
	AEXPR_NOT_BETWEEN
	AEXPR_BETWEEN_SYM
	AEXPR_NOT_BETWEEN_SYM
)

// aexprKindWords are the words written before an A_Expr's name; AEXPR_OP
// writes none.
var aexprKindWords = map[A_Expr_Kind]string{
	AEXPR_OP_ANY:          " ANY",
	AEXPR_OP_ALL:          " ALL",
	AEXPR_DISTINCT:        " DISTINCT",
	AEXPR_NOT_DISTINCT:    " NOT_DISTINCT",
	AEXPR_NULLIF:          " NULLIF",
	AEXPR_IN:              " IN",
	AEXPR_LIKE:            " LIKE",
	AEXPR_ILIKE:           " ILIKE",
	AEXPR_SIMILAR:         " SIMILAR",
	AEXPR_BETWEEN:         " BETWEEN",
	AEXPR_NOT_BETWEEN:     " NOT_BETWEEN",
	AEXPR_BETWEEN_SYM:     " BETWEEN_SYM",
	AEXPR_NOT_BETWEEN_SYM: " NOT_BETWEEN_SYM",
}

// BoolExprType is the connective of a BoolExpr.
type BoolExprType int

const (
	AND_EXPR BoolExprType = iota
	OR_EXPR
	NOT_EXPR
)

func (t BoolExprType) String() string {
	switch t {
	case AND_EXPR:
		return "and"
	case OR_EXPR:
		return "or"
	case NOT_EXPR:
		return "not"
	}
	return "???"
}

// NullTestType distinguishes IS NULL from IS NOT NULL.
type NullTestType int

const (
	IS_NULL NullTestType = iota
	IS_NOT_NULL
)

// BoolTestType is the test of a BooleanTest.
type BoolTestType int

const (
	IS_TRUE BoolTestType = iota
	IS_NOT_TRUE
	IS_FALSE
	IS_NOT_FALSE
	IS_UNKNOWN
	IS_NOT_UNKNOWN
)

// SubLinkType is the kind of a sub-select expression.
type SubLinkType int

const (
	EXISTS_SUBLINK SubLinkType = iota
	ALL_SUBLINK
	ANY_SUBLINK
	ROWCOMPARE_SUBLINK
	EXPR_SUBLINK
	MULTIEXPR_SUBLINK
	ARRAY_SUBLINK
	CTE_SUBLINK
)

// JoinType is the kind of a JoinExpr.
type JoinType int

const (
	JOIN_INNER JoinType = iota
	JOIN_LEFT
	JOIN_FULL
	JOIN_RIGHT
)

// SortByDir is the direction of a SortBy.
type SortByDir int

const (
	SORTBY_DEFAULT SortByDir = iota
	SORTBY_ASC
	SORTBY_DESC
	SORTBY_USING
)

// SortByNulls is the NULLS placement of a SortBy.
type SortByNulls int

const (
	SORTBY_NULLS_DEFAULT SortByNulls = iota
	SORTBY_NULLS_FIRST
	SORTBY_NULLS_LAST
)

// CoercionForm records how a function call was written.
type CoercionForm int

const (
	COERCE_EXPLICIT_CALL CoercionForm = iota
	COERCE_EXPLICIT_CAST
	COERCE_IMPLICIT_CAST
	COERCE_SQL_SYNTAX
)

// OverridingKind is the OVERRIDING clause of an INSERT.
type OverridingKind int

const (
	OVERRIDING_NOT_SET OverridingKind = iota
	OVERRIDING_USER_VALUE
	OVERRIDING_SYSTEM_VALUE
)

// CTEMaterialize is the MATERIALIZED option of a CTE.
type CTEMaterialize int

const (
	CTEMaterializeDefault CTEMaterialize = iota
	CTEMaterializeAlways
	CTEMaterializeNever
)

// Window frame option bits.
const (
	FRAMEOPTION_NONDEFAULT                = 0x00001
	FRAMEOPTION_RANGE                     = 0x00002
	FRAMEOPTION_ROWS                      = 0x00004
	FRAMEOPTION_GROUPS                    = 0x00008
	FRAMEOPTION_BETWEEN                   = 0x00010
	FRAMEOPTION_START_UNBOUNDED_PRECEDING = 0x00020
	FRAMEOPTION_END_CURRENT_ROW           = 0x00400

	FRAMEOPTION_DEFAULTS = FRAMEOPTION_RANGE | FRAMEOPTION_START_UNBOUNDED_PRECEDING | FRAMEOPTION_END_CURRENT_ROW
)

// Relation persistence codes.
const (
	RELPERSISTENCE_PERMANENT = 'p'
	RELPERSISTENCE_UNLOGGED  = 'u'
	RELPERSISTENCE_TEMP      = 't'
)
