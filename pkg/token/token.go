// Package token defines the lexical vocabulary of the PostgreSQL-flavoured
// grammar: token types, keyword categories and positions.
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier or quoted identifier
	ICONST // integer literal
	FCONST // numeric literal with fraction/exponent, or integer too wide for int4
	SCONST // 'string'
	PARAM  // $1

	// Multi-character operators with a dedicated grammar role
	OP             // any other operator sequence (||, @>, ~~ ...)
	TYPECAST       // ::
	DOT_DOT        // ..
	COLON_EQUALS   // :=
	EQUALS_GREATER // =>
	LESS_EQUALS    // <=
	GREATER_EQUALS // >=
	NOT_EQUALS     // <> or !=

	// Self-delimiting characters
	COMMA     // ,
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	DOT       // .
	SEMICOLON // ;
	COLON     // :
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	CARET     // ^
	LT        // <
	GT        // >
	EQ        // =

	keywordStart

	// Keywords (alphabetical)
	ALL
	AND
	ANY
	ARRAY
	AS
	ASC
	BETWEEN
	BIGINT
	BIT
	BOOLEAN
	BY
	CASE
	CAST
	CHAR
	CHARACTER
	CROSS
	DEC
	DECIMAL
	DEFAULT
	DELETE
	DESC
	DISTINCT
	DOUBLE
	ELSE
	END
	EXCEPT
	EXISTS
	FALSE
	FILTER
	FIRST
	FLOAT
	FROM
	FULL
	GROUP
	HAVING
	ILIKE
	IN
	INNER
	INSERT
	INT
	INTEGER
	INTERSECT
	INTERVAL
	INTO
	IS
	JOIN
	LAST
	LATERAL
	LEFT
	LIKE
	LIMIT
	NATURAL
	NOT
	NULL
	NULLS
	NUMERIC
	OFFSET
	ON
	OR
	ORDER
	OUTER
	OVER
	PARTITION
	PRECISION
	REAL
	RECURSIVE
	RETURNING
	RIGHT
	SELECT
	SET
	SETOF
	SMALLINT
	SOME
	THEN
	TIME
	TIMESTAMP
	TRUE
	UNION
	UPDATE
	USING
	VALUES
	VARCHAR
	VARYING
	WHEN
	WHERE
	WINDOW
	WITH
	WITHOUT
	ZONE

	keywordEnd
)

// Category classifies keywords the way the grammar decides where a keyword
// may double as a name.
type Category int

// Keyword categories.
const (
	NotKeyword   Category = iota
	Unreserved            // usable as any name
	ColName               // usable as a column name, not a function or type name
	TypeFuncName          // usable as a function or type name, not a column name
	Reserved              // usable only as a label after AS or "."
)

type keywordDef struct {
	name     string
	category Category
}

var keywordDefs = map[TokenType]keywordDef{
	ALL:        {"all", Reserved},
	AND:        {"and", Reserved},
	ANY:        {"any", Reserved},
	ARRAY:      {"array", Reserved},
	AS:         {"as", Reserved},
	ASC:        {"asc", Reserved},
	BETWEEN:    {"between", ColName},
	BIGINT:     {"bigint", ColName},
	BIT:        {"bit", ColName},
	BOOLEAN:    {"boolean", ColName},
	BY:         {"by", Unreserved},
	CASE:       {"case", Reserved},
	CAST:       {"cast", Reserved},
	CHAR:       {"char", ColName},
	CHARACTER:  {"character", ColName},
	CROSS:      {"cross", TypeFuncName},
	DEC:        {"dec", ColName},
	DECIMAL:    {"decimal", ColName},
	DEFAULT:    {"default", Reserved},
	DELETE:     {"delete", Unreserved},
	DESC:       {"desc", Reserved},
	DISTINCT:   {"distinct", Reserved},
	DOUBLE:     {"double", Unreserved},
	ELSE:       {"else", Reserved},
	END:        {"end", Reserved},
	EXCEPT:     {"except", Reserved},
	EXISTS:     {"exists", ColName},
	FALSE:      {"false", Reserved},
	FILTER:     {"filter", Unreserved},
	FIRST:      {"first", Unreserved},
	FLOAT:      {"float", ColName},
	FROM:       {"from", Reserved},
	FULL:       {"full", TypeFuncName},
	GROUP:      {"group", Reserved},
	HAVING:     {"having", Reserved},
	ILIKE:      {"ilike", TypeFuncName},
	IN:         {"in", Reserved},
	INNER:      {"inner", TypeFuncName},
	INSERT:     {"insert", Unreserved},
	INT:        {"int", ColName},
	INTEGER:    {"integer", ColName},
	INTERSECT:  {"intersect", Reserved},
	INTERVAL:   {"interval", ColName},
	INTO:       {"into", Reserved},
	IS:         {"is", TypeFuncName},
	JOIN:       {"join", TypeFuncName},
	LAST:       {"last", Unreserved},
	LATERAL:    {"lateral", Reserved},
	LEFT:       {"left", TypeFuncName},
	LIKE:       {"like", TypeFuncName},
	LIMIT:      {"limit", Reserved},
	NATURAL:    {"natural", TypeFuncName},
	NOT:        {"not", Reserved},
	NULL:       {"null", Reserved},
	NULLS:      {"nulls", Unreserved},
	NUMERIC:    {"numeric", ColName},
	OFFSET:     {"offset", Reserved},
	ON:         {"on", Reserved},
	OR:         {"or", Reserved},
	ORDER:      {"order", Reserved},
	OUTER:      {"outer", TypeFuncName},
	OVER:       {"over", Unreserved},
	PARTITION:  {"partition", Unreserved},
	PRECISION:  {"precision", ColName},
	REAL:       {"real", ColName},
	RECURSIVE:  {"recursive", Unreserved},
	RETURNING:  {"returning", Reserved},
	RIGHT:      {"right", TypeFuncName},
	SELECT:     {"select", Reserved},
	SET:        {"set", Unreserved},
	SETOF:      {"setof", ColName},
	SMALLINT:   {"smallint", ColName},
	SOME:       {"some", Reserved},
	THEN:       {"then", Reserved},
	TIME:       {"time", ColName},
	TIMESTAMP:  {"timestamp", ColName},
	TRUE:       {"true", Reserved},
	UNION:      {"union", Reserved},
	UPDATE:     {"update", Unreserved},
	USING:      {"using", Reserved},
	VALUES:     {"values", ColName},
	VARCHAR:    {"varchar", ColName},
	VARYING:    {"varying", Unreserved},
	WHEN:       {"when", Reserved},
	WHERE:      {"where", Reserved},
	WINDOW:     {"window", Reserved},
	WITH:       {"with", Reserved},
	WITHOUT:    {"without", Unreserved},
	ZONE:       {"zone", Unreserved},
}

// keywords maps lowercase keyword strings to their token types.
var keywords = func() map[string]TokenType {
	m := make(map[string]TokenType, len(keywordDefs))
	for t, def := range keywordDefs {
		m[def.name] = t
	}
	return m
}()

// tokenNames maps non-keyword token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	ICONST: "ICONST",
	FCONST: "FCONST",
	SCONST: "SCONST",
	PARAM:  "PARAM",

	OP:             "Op",
	TYPECAST:       "::",
	DOT_DOT:        "..",
	COLON_EQUALS:   ":=",
	EQUALS_GREATER: "=>",
	LESS_EQUALS:    "<=",
	GREATER_EQUALS: ">=",
	NOT_EQUALS:     "<>",

	COMMA:     ",",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	DOT:       ".",
	SEMICOLON: ";",
	COLON:     ":",
	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	CARET:     "^",
	LT:        "<",
	GT:        ">",
	EQ:        "=",
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if def, ok := keywordDefs[t]; ok {
		return strings.ToUpper(def.name)
	}
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// LookupKeyword returns the token type for a down-cased identifier, or
// IDENT when the word is not a keyword.
func LookupKeyword(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t > keywordStart && t < keywordEnd
}

// CategoryOf returns the keyword category of t, or NotKeyword.
func CategoryOf(t TokenType) Category {
	if def, ok := keywordDefs[t]; ok {
		return def.category
	}
	return NotKeyword
}

// Token represents a lexical token with position information.
//
// Literal holds the processed value: the down-cased (or quoted verbatim)
// identifier, the unescaped string constant, the operator text, or the
// numeric text as written.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	End     int // byte offset just past the token's source text
}

// Keyword returns the canonical lower-case spelling of a keyword token.
func (t Token) Keyword() string {
	if def, ok := keywordDefs[t.Type]; ok {
		return def.name
	}
	return ""
}
