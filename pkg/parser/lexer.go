package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/pgparse/pkg/elog"
	"github.com/leapstack-labs/pgparse/pkg/token"
)

// Lexer tokenizes PostgreSQL-flavoured SQL on demand. Lexical errors are
// raised through the error state and do not return.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	es   *elog.State
	opts options
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(es *elog.State, input string, opts ...Option) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		es:    es,
		opts:  newOptions(opts),
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	return l.peekAt(1)
}

// peekAt returns the character n bytes ahead of the current one.
func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// advance consumes n characters.
func (l *Lexer) advance(n int) {
	for range n {
		l.readChar()
	}
}

// errorAt raises a lexical error whose cursor points at offset.
func (l *Lexer) errorAt(code elog.SQLState, offset int, format string, args ...any) {
	l.es.Errorf(code, cursorAt(l.input, offset), format, args...)
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	tok := l.scan()
	tok.Pos = pos
	tok.End = l.pos
	return tok
}

func (l *Lexer) scan() token.Token {
	if l.atEOF() {
		return token.Token{Type: token.EOF}
	}

	switch ch := l.ch; {
	case ch == '\'':
		return token.Token{Type: token.SCONST, Literal: l.readString(l.pos, !l.opts.standardConformingStrings)}
	case (ch == 'e' || ch == 'E') && l.peekChar() == '\'':
		start := l.pos
		l.readChar()
		return token.Token{Type: token.SCONST, Literal: l.readString(start, true)}
	case ch == '"':
		return token.Token{Type: token.IDENT, Literal: l.readQuotedIdentifier()}
	case ch == '$':
		return l.readDollar()
	case isIdentStart(ch):
		return l.readWord()
	case isDigit(ch), ch == '.' && isDigit(l.peekChar()):
		return l.readNumber()
	case ch == ':':
		switch l.peekChar() {
		case ':':
			l.advance(2)
			return token.Token{Type: token.TYPECAST, Literal: "::"}
		case '=':
			l.advance(2)
			return token.Token{Type: token.COLON_EQUALS, Literal: ":="}
		}
		l.readChar()
		return token.Token{Type: token.COLON, Literal: ":"}
	case ch == '.':
		if l.peekChar() == '.' {
			l.advance(2)
			return token.Token{Type: token.DOT_DOT, Literal: ".."}
		}
		l.readChar()
		return token.Token{Type: token.DOT, Literal: "."}
	case isOpChar(ch):
		return l.readOperator()
	}

	if t, ok := selfTokens[l.ch]; ok {
		lit := string(l.ch)
		l.readChar()
		return token.Token{Type: t, Literal: lit}
	}

	// Anything else is returned as a lone character; the grammar rejects it.
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	lit := l.input[l.pos : l.pos+size]
	l.advance(size)
	return token.Token{Type: token.ILLEGAL, Literal: lit}
}

// skipWhitespaceAndComments skips whitespace, -- comments and nested
// /* */ comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for isSpace(l.ch) && !l.atEOF() {
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			l.skipBlockComment()
			continue
		}

		break
	}
}

func (l *Lexer) skipBlockComment() {
	start := l.pos
	depth := 0
	for !l.atEOF() {
		switch {
		case l.ch == '/' && l.peekChar() == '*':
			depth++
			l.advance(2)
		case l.ch == '*' && l.peekChar() == '/':
			depth--
			l.advance(2)
			if depth == 0 {
				return
			}
		default:
			l.readChar()
		}
	}
	l.errorAt(elog.ErrcodeSyntaxError, start, ErrUnterminatedComment)
}

// readString reads a quoted string whose text begins at start; the current
// character is the opening quote. With escapes set, backslash escapes are
// processed. Segments separated by whitespace containing a newline are
// concatenated.
func (l *Lexer) readString(start int, escapes bool) string {
	plain := l.input[start] == '\''
	var sb strings.Builder
	warned := false
	for {
		l.readChar() // opening quote
		for {
			if l.atEOF() {
				l.errorAt(elog.ErrcodeSyntaxError, start, ErrUnterminatedString)
			}
			if l.ch == '\'' {
				if l.peekChar() == '\'' {
					sb.WriteByte('\'')
					l.advance(2)
					continue
				}
				l.readChar()
				break
			}
			if l.ch == '\\' && escapes {
				if !warned && plain {
					l.es.Ereport(elog.WARNING, elog.ErrcodeNonstandardUseOfEscapeCharacter,
						cursorAt(l.input, l.pos), "nonstandard use of escape in a string literal")
					warned = true
				}
				l.readEscape(&sb, start)
				continue
			}
			sb.WriteByte(l.ch)
			l.readChar()
		}

		if !l.continuesString() {
			break
		}
	}

	s := sb.String()
	if escapes && l.opts.encodingCheck != nil {
		if i := l.opts.encodingCheck(s); i >= 0 && i < len(s) {
			l.errorAt(elog.ErrcodeCharacterNotInRepertoire, start,
				"invalid byte sequence for encoding \"UTF8\": 0x%02x", s[i])
		}
	}
	return s
}

// continuesString reports whether the string just closed is followed by
// whitespace including a newline and another quote, and if so skips to it.
func (l *Lexer) continuesString() bool {
	i := l.pos
	newline := false
	for i < len(l.input) && isSpace(l.input[i]) {
		if l.input[i] == '\n' || l.input[i] == '\r' {
			newline = true
		}
		i++
	}
	if !newline || i >= len(l.input) || l.input[i] != '\'' {
		return false
	}
	l.advance(i - l.pos)
	return true
}

// readEscape consumes one backslash escape at the current position.
func (l *Lexer) readEscape(sb *strings.Builder, start int) {
	l.readChar() // backslash
	if l.atEOF() {
		l.errorAt(elog.ErrcodeSyntaxError, start, ErrUnterminatedString)
	}
	switch c := l.ch; c {
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'v':
		sb.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := 0
		for i := 0; i < 3 && l.ch >= '0' && l.ch <= '7'; i++ {
			n = n*8 + int(l.ch-'0')
			l.readChar()
		}
		sb.WriteByte(byte(n))
		return
	case 'x':
		if !isHexDigit(l.peekChar()) {
			sb.WriteByte('x')
			break
		}
		l.readChar()
		n := 0
		for i := 0; i < 2 && isHexDigit(l.ch); i++ {
			n = n*16 + hexValue(l.ch)
			l.readChar()
		}
		sb.WriteByte(byte(n))
		return
	case 'u', 'U':
		width := 4
		if c == 'U' {
			width = 8
		}
		escStart := l.pos - 1
		l.readChar()
		r := 0
		for i := 0; i < width; i++ {
			if !isHexDigit(l.ch) {
				l.errorAt(elog.ErrcodeInvalidEscapeSequence, escStart, "invalid Unicode escape")
			}
			r = r*16 + hexValue(l.ch)
			l.readChar()
		}
		if r == 0 || r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
			l.errorAt(elog.ErrcodeInvalidEscapeSequence, escStart, "invalid Unicode escape value")
		}
		sb.WriteRune(rune(r))
		return
	default:
		sb.WriteByte(c)
	}
	l.readChar()
}

// readQuotedIdentifier reads a double-quoted identifier.
// Handles doubled double quotes as escape: "col""name" -> col"name
func (l *Lexer) readQuotedIdentifier() string {
	start := l.pos
	l.readChar() // skip opening quote

	var sb strings.Builder
	for {
		if l.atEOF() {
			l.errorAt(elog.ErrcodeSyntaxError, start, ErrUnterminatedIdent)
		}
		if l.ch == '"' {
			if l.peekChar() == '"' {
				sb.WriteByte('"')
				l.advance(2)
				continue
			}
			l.readChar()
			break
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}

	if sb.Len() == 0 {
		l.errorAt(elog.ErrcodeSyntaxError, start, ErrZeroLengthIdent)
	}
	return l.truncateIdentifier(sb.String(), start)
}

// readWord reads an unquoted identifier or keyword.
func (l *Lexer) readWord() token.Token {
	start := l.pos
	for isIdentCont(l.ch) && !l.atEOF() {
		l.readChar()
	}
	word := downcase(l.input[start:l.pos])
	if t := token.LookupKeyword(word); t != token.IDENT {
		return token.Token{Type: t, Literal: word}
	}
	return token.Token{Type: token.IDENT, Literal: l.truncateIdentifier(word, start)}
}

// truncateIdentifier clips ident to the configured length on a character
// boundary, with a NOTICE.
func (l *Lexer) truncateIdentifier(ident string, start int) string {
	limit := l.opts.maxIdentifierLength
	if limit <= 0 || len(ident) <= limit {
		return ident
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(ident[cut]) {
		cut--
	}
	l.es.Ereport(elog.NOTICE, elog.ErrcodeNameTooLong, cursorAt(l.input, start),
		"identifier \"%s\" will be truncated to \"%s\"", ident, ident[:cut])
	return ident[:cut]
}

// readDollar reads a positional parameter or a dollar-quoted string.
func (l *Lexer) readDollar() token.Token {
	start := l.pos

	if isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
		text := l.input[start:l.pos]
		if isIdentCont(l.ch) && !l.atEOF() {
			l.errorAt(elog.ErrcodeSyntaxError, start, "trailing junk after parameter at or near \"%s\"", text+string(l.ch))
		}
		n, err := strconv.ParseInt(text[1:], 10, 32)
		if err != nil {
			l.errorAt(elog.ErrcodeSyntaxError, start, "parameter number too large at or near \"%s\"", text)
		}
		return token.Token{Type: token.PARAM, Literal: strconv.FormatInt(n, 10)}
	}

	// $tag$ ... $tag$
	i := l.pos + 1
	if i < len(l.input) && isIdentStart(l.input[i]) {
		i++
		for i < len(l.input) && isIdentCont(l.input[i]) && l.input[i] != '$' {
			i++
		}
	}
	if i >= len(l.input) || l.input[i] != '$' {
		l.readChar()
		return token.Token{Type: token.ILLEGAL, Literal: "$"}
	}
	delim := l.input[start : i+1]
	body := l.input[i+1:]
	end := strings.Index(body, delim)
	if end < 0 {
		l.errorAt(elog.ErrcodeSyntaxError, start, ErrUnterminatedDollar)
	}
	l.advance(len(delim) + end + len(delim))
	return token.Token{Type: token.SCONST, Literal: body[:end]}
}

// readNumber reads an integer or numeric literal. Integers that do not fit
// in 32 bits are returned as FCONST.
func (l *Lexer) readNumber() token.Token {
	start := l.pos
	float := false

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && l.peekChar() != '.' {
		float = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if (l.ch == 'e' || l.ch == 'E') &&
		(isDigit(l.peekChar()) || ((l.peekChar() == '+' || l.peekChar() == '-') && isDigit(l.peekAt(2)))) {
		float = true
		l.advance(2)
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	text := l.input[start:l.pos]
	if isIdentStart(l.ch) && !l.atEOF() {
		l.errorAt(elog.ErrcodeSyntaxError, start, "trailing junk after numeric literal at or near \"%s\"", text+string(l.ch))
	}
	if !float {
		if _, err := strconv.ParseInt(text, 10, 32); err == nil {
			return token.Token{Type: token.ICONST, Literal: text}
		}
	}
	return token.Token{Type: token.FCONST, Literal: text}
}

// readOperator reads a run of operator characters. A run is cut before an
// embedded comment start, and trailing + or - are given back unless the
// run contains a character only found in user-defined operators.
func (l *Lexer) readOperator() token.Token {
	start := l.pos
	n := 0
	for start+n < len(l.input) && isOpChar(l.input[start+n]) {
		if n > 0 {
			rest := l.input[start+n:]
			if strings.HasPrefix(rest, "--") || strings.HasPrefix(rest, "/*") {
				break
			}
		}
		n++
	}
	op := l.input[start : start+n]

	if len(op) > 1 && (op[len(op)-1] == '+' || op[len(op)-1] == '-') && !strings.ContainsAny(op, "~!@#^&|`?%") {
		for len(op) > 1 && (op[len(op)-1] == '+' || op[len(op)-1] == '-') {
			op = op[:len(op)-1]
		}
	}
	l.advance(len(op))

	if len(op) == 1 {
		if t, ok := selfTokens[op[0]]; ok {
			return token.Token{Type: t, Literal: op}
		}
	}
	switch op {
	case "=>":
		return token.Token{Type: token.EQUALS_GREATER, Literal: op}
	case "<=":
		return token.Token{Type: token.LESS_EQUALS, Literal: op}
	case ">=":
		return token.Token{Type: token.GREATER_EQUALS, Literal: op}
	case "<>", "!=":
		return token.Token{Type: token.NOT_EQUALS, Literal: "<>"}
	}
	return token.Token{Type: token.OP, Literal: op}
}

var selfTokens = map[byte]token.TokenType{
	',': token.COMMA,
	'(': token.LPAREN,
	')': token.RPAREN,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	';': token.SEMICOLON,
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.STAR,
	'/': token.SLASH,
	'%': token.PERCENT,
	'^': token.CARET,
	'<': token.LT,
	'>': token.GT,
	'=': token.EQ,
}

// downcase lower-cases ASCII letters only; other bytes are kept.
func downcase(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}

// cursorAt converts a byte offset into the 1-based character position
// reported with errors.
func cursorAt(input string, offset int) int {
	if offset > len(input) {
		offset = len(input)
	}
	return utf8.RuneCountInString(input[:offset]) + 1
}

func invalidUTF8Offset(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch >= 0x80
}

func isIdentCont(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '$'
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch byte) int {
	switch {
	case isDigit(ch):
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	default:
		return int(ch-'A') + 10
	}
}

func isOpChar(ch byte) bool {
	return strings.IndexByte("~!@#^&|`?+-*/%<>=", ch) >= 0
}

// Tokenize returns all tokens from the input, up to and including EOF.
func Tokenize(es *elog.State, input string, opts ...Option) []token.Token {
	l := NewLexer(es, input, opts...)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
