// Package piecetable stores an editable document as pieces referencing an
// immutable original store and an append-only add store.
//
// Positions and lengths are measured in runes. Text need not be valid
// UTF-8: each invalid byte counts as one character and is returned
// unchanged by Text.
package piecetable

// Source identifies the backing store a piece slices.
type Source int

const (
	Original Source = iota
	Add
)

func (s Source) String() string {
	switch s {
	case Original:
		return "original"
	case Add:
		return "add"
	}
	return "unknown"
}

// Piece references Length runes starting at Start in one backing store.
type Piece struct {
	Source Source
	Start  int
	Length int
}

func (p Piece) end() int {
	return p.Start + p.Length
}
