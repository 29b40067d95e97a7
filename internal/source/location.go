package source

import "fmt"

// Location represents a span of source code with start and end positions.
// Every token and AST node carries one. Start never comes after End.
type Location struct {
	Start *Position
	End   *Position
}

// NewLocation creates a new Location with the given start and end positions
func NewLocation(start, end *Position) *Location {
	return &Location{
		Start: start,
		End:   end,
	}
}

// Span builds a Location from two position values, copying both.
func Span(start, end Position) Location {
	s, e := start, end
	return Location{Start: &s, End: &e}
}

// Contains checks if the given position is within this location
func (l *Location) Contains(pos *Position) bool {
	if l.Start.Line > pos.Line || (l.Start.Line == pos.Line && l.Start.Column > pos.Column) {
		return false
	}
	if l.End.Line < pos.Line || (l.End.Line == pos.Line && l.End.Column < pos.Column) {
		return false
	}
	return true
}

// Valid reports whether the span is ordered (Start ≤ End lexicographically).
func (l *Location) Valid() bool {
	if l.Start == nil || l.End == nil {
		return false
	}
	return l.Start.Before(l.End)
}

func (l *Location) String() string {
	if l.Start == nil || l.End == nil {
		return "Location(unknown)"
	}

	return fmt.Sprintf("Location(%d:%d - %d:%d)", l.Start.Line, l.Start.Column, l.End.Line, l.End.Column)
}
