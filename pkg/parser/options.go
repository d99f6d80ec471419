package parser

// DefaultMaxIdentifierLength is the longest identifier kept before
// truncation, in bytes.
const DefaultMaxIdentifierLength = 63

type options struct {
	standardConformingStrings bool
	maxIdentifierLength       int
	encodingCheck             func(string) int
}

// Option configures the lexer and parser.
type Option func(*options)

// WithStandardConformingStrings controls whether backslashes in ordinary
// '...' literals are taken literally (the default) or as escapes.
func WithStandardConformingStrings(on bool) Option {
	return func(o *options) { o.standardConformingStrings = on }
}

// WithMaxIdentifierLength sets the byte length identifiers are truncated
// to. A value of zero or less disables truncation.
func WithMaxIdentifierLength(n int) Option {
	return func(o *options) { o.maxIdentifierLength = n }
}

// WithEncodingCheck sets how strings built from escape sequences are
// checked against the client encoding. fn returns the offset of the first
// invalid byte, or -1. The default accepts valid UTF-8.
func WithEncodingCheck(fn func(s string) int) Option {
	return func(o *options) { o.encodingCheck = fn }
}

func newOptions(opts []Option) options {
	o := options{
		standardConformingStrings: true,
		maxIdentifierLength:       DefaultMaxIdentifierLength,
		encodingCheck:             invalidUTF8Offset,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
