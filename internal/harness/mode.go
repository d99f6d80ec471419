package harness

import "github.com/leapstack-labs/pgparse/pkg/parser"

// SelectMode maps a --mode value onto a grammar entry point. Unknown
// values, the empty string included, select the default mode.
func SelectMode(token string) parser.Mode {
	mode, _ := parser.ParseMode(token)
	return mode
}
