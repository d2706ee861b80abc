package token

import "fmt"

// Position is a location in program source.
type Position struct {
	Line   int // 1-based
	Column int // 1-based byte column
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether p refers to a real location.
func (p Position) IsValid() bool {
	return p.Line > 0
}
