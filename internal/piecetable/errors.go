package piecetable

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a logical position lies outside the
// document. The table is left unchanged.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidPosition(op string, pos, length int) error {
	return fmt.Errorf("%s: position %d outside document of length %d: %w", op, pos, length, ErrInvalidArgument)
}

// InvariantError reports a corrupted piece list. It indicates a bug in the
// table, never a caller mistake.
type InvariantError struct {
	Index  int
	Piece  Piece
	Reason string
}

func (e *InvariantError) Error() string {
	if e.Index < 0 {
		return "piecetable: " + e.Reason
	}
	return fmt.Sprintf("piecetable: piece %d {%s %d %d}: %s", e.Index, e.Piece.Source, e.Piece.Start, e.Piece.Length, e.Reason)
}
