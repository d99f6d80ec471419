package token

// Position represents a location in the source text.
type Position struct {
	Offset int // 0-based byte offset, reported as a parse location
	Line   int // 1-based line number
	Column int // 1-based column number
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Location returns the byte offset used in parse-tree location fields.
func (p Position) Location() int {
	if !p.IsValid() {
		return -1
	}
	return p.Offset
}
