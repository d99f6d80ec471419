package parser

// Error messages raised by the lexer and the grammar.
const (
	ErrSyntaxAtOrNear      = "syntax error at or near \"%s\""
	ErrSyntaxAtEnd         = "syntax error at end of input"
	ErrUnterminatedString  = "unterminated quoted string"
	ErrUnterminatedIdent   = "unterminated quoted identifier"
	ErrUnterminatedComment = "unterminated /* comment"
	ErrUnterminatedDollar  = "unterminated dollar-quoted string"
	ErrZeroLengthIdent     = "zero-length delimited identifier"

	ErrImproperQualifiedName = "improper qualified name (too many dotted names): %s"
	ErrImproperStar          = "improper use of \"*\""
	ErrMultipleClause        = "multiple %s clauses not allowed"
	ErrLimitCommaSyntax      = "LIMIT #,# syntax is not supported"
	ErrFloatPrecisionLow     = "precision for type float must be at least 1 bit"
	ErrFloatPrecisionHigh    = "precision for type float must be less than 54 bits"
)
