package nodes

import "fmt"

// NodeTag identifies the concrete type of a Node.
type NodeTag int

// Node tags.
const (
	T_Invalid NodeTag = iota

	// value nodes
	T_List
	T_String
	T_Integer
	T_Float
	T_Boolean

	// statements
	T_RawStmt
	T_SelectStmt
	T_InsertStmt
	T_UpdateStmt
	T_DeleteStmt
	T_PLAssignStmt

	// expressions and clauses
	T_ResTarget
	T_ColumnRef
	T_ParamRef
	T_A_Const
	T_A_Expr
	T_A_Star
	T_A_Indices
	T_A_Indirection
	T_A_ArrayExpr
	T_BoolExpr
	T_NullTest
	T_BooleanTest
	T_SubLink
	T_FuncCall
	T_TypeCast
	T_TypeName
	T_SortBy
	T_CaseExpr
	T_CaseWhen
	T_WindowDef
	T_RangeVar
	T_RangeSubselect
	T_JoinExpr
	T_Alias
	T_WithClause
	T_CommonTableExpr
)

// tagInfo holds the Go-side name of a node type and the label its dump
// starts with.
type tagInfo struct {
	name  string
	label string
}

var tagInfos = map[NodeTag]tagInfo{
	T_List:    {"List", ""},
	T_String:  {"String", ""},
	T_Integer: {"Integer", ""},
	T_Float:   {"Float", ""},
	T_Boolean: {"Boolean", ""},

	T_RawStmt:      {"RawStmt", "RAWSTMT"},
	T_SelectStmt:   {"SelectStmt", "SELECTSTMT"},
	T_InsertStmt:   {"InsertStmt", "INSERTSTMT"},
	T_UpdateStmt:   {"UpdateStmt", "UPDATESTMT"},
	T_DeleteStmt:   {"DeleteStmt", "DELETESTMT"},
	T_PLAssignStmt: {"PLAssignStmt", "PLASSIGN"},

	T_ResTarget:       {"ResTarget", "RESTARGET"},
	T_ColumnRef:       {"ColumnRef", "COLUMNREF"},
	T_ParamRef:        {"ParamRef", "PARAMREF"},
	T_A_Const:         {"A_Const", "A_CONST"},
	T_A_Expr:          {"A_Expr", "A_EXPR"},
	T_A_Star:          {"A_Star", "A_STAR"},
	T_A_Indices:       {"A_Indices", "A_INDICES"},
	T_A_Indirection:   {"A_Indirection", "A_INDIRECTION"},
	T_A_ArrayExpr:     {"A_ArrayExpr", "A_ARRAYEXPR"},
	T_BoolExpr:        {"BoolExpr", "BOOLEXPR"},
	T_NullTest:        {"NullTest", "NULLTEST"},
	T_BooleanTest:     {"BooleanTest", "BOOLEANTEST"},
	T_SubLink:         {"SubLink", "SUBLINK"},
	T_FuncCall:        {"FuncCall", "FUNCCALL"},
	T_TypeCast:        {"TypeCast", "TYPECAST"},
	T_TypeName:        {"TypeName", "TYPENAME"},
	T_SortBy:          {"SortBy", "SORTBY"},
	T_CaseExpr:        {"CaseExpr", "CASE"},
	T_CaseWhen:        {"CaseWhen", "WHEN"},
	T_WindowDef:       {"WindowDef", "WINDOWDEF"},
	T_RangeVar:        {"RangeVar", "RANGEVAR"},
	T_RangeSubselect:  {"RangeSubselect", "RANGESUBSELECT"},
	T_JoinExpr:        {"JoinExpr", "JOINEXPR"},
	T_Alias:           {"Alias", "ALIAS"},
	T_WithClause:      {"WithClause", "WITHCLAUSE"},
	T_CommonTableExpr: {"CommonTableExpr", "COMMONTABLEEXPR"},
}

// String returns the Go-side type name of the tag.
func (t NodeTag) String() string {
	if info, ok := tagInfos[t]; ok {
		return info.name
	}
	return fmt.Sprintf("NodeTag(%d)", int(t))
}

// Label returns the label that opens the node's dump, e.g. "SELECTSTMT".
func (t NodeTag) Label() string {
	return tagInfos[t].label
}
