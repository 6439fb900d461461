package parse

import (
	"fmt"
	"unicode/utf8"
)

// A Position is a 1-based line and column, columns are counted in runes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LineColumn returns the position of the byte at offset in source. Offsets
// past the end are clamped to the end of source.
func LineColumn(source string, offset int) Position {
	line := 1
	col := 1
	i := 0

	for i < offset && i < len(source) {
		r, size := utf8.DecodeRuneInString(source[i:])
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}

		i += size
	}

	return Position{Line: line, Column: col}
}
