package piecetable

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Table is a piece table. It is not safe for concurrent use.
//
// Pieces are located with a linear scan, which is fine at interactive
// editing scale. Large documents would want the pieces indexed by
// cumulative offset in a balanced tree.
type Table struct {
	original []rune
	add      []rune
	pieces   []Piece
	length   int
}

// New creates a table holding original. An empty document is a single
// zero-length original piece.
func New(original string) *Table {
	orig := decode(original)
	return &Table{
		original: orig,
		add:      make([]rune, 0, 64),
		pieces:   []Piece{{Source: Original, Start: 0, Length: len(orig)}},
		length:   len(orig),
	}
}

// Len returns the document length in runes.
func (t *Table) Len() int {
	return t.length
}

// Text materializes the document.
func (t *Table) Text() string {
	var sb strings.Builder
	sb.Grow(t.length)
	for _, p := range t.pieces {
		writeRunes(&sb, t.store(p.Source)[p.Start:p.end()])
	}
	return sb.String()
}

// RuneAt returns the rune at logical position pos. A byte that was not
// valid UTF-8 reports utf8.RuneError.
func (t *Table) RuneAt(pos int) (rune, error) {
	if pos < 0 || pos >= t.length {
		return 0, invalidPosition("rune at", pos, t.length)
	}
	i, off := t.locate(pos)
	p := t.pieces[i]
	r := t.store(p.Source)[p.Start+off]
	if isEscaped(r) {
		return utf8.RuneError, nil
	}
	return r, nil
}

// Pieces returns a copy of the piece list.
func (t *Table) Pieces() []Piece {
	return slices.Clone(t.pieces)
}

// Insert places text at logical position pos. Inserting an empty string
// is a no-op.
func (t *Table) Insert(text string, pos int) error {
	if pos < 0 || pos > t.length {
		return invalidPosition("insert", pos, t.length)
	}
	if text == "" {
		return nil
	}
	runes := decode(text)
	p := Piece{Source: Add, Start: len(t.add), Length: len(runes)}
	t.add = append(t.add, runes...)
	t.insertPiece(p, pos)
	t.length += p.Length
	return nil
}

// Append inserts text at the end of the document.
func (t *Table) Append(text string) error {
	return t.Insert(text, t.length)
}

// insertPiece puts p into the sequence so its content starts at pos.
func (t *Table) insertPiece(p Piece, pos int) {
	if t.length == 0 {
		// Replace the zero-length piece of the empty document.
		t.pieces = []Piece{p}
		return
	}
	curr := 0
	for i, old := range t.pieces {
		if pos == curr {
			t.pieces = slices.Insert(t.pieces, i, p)
			return
		}
		end := curr + old.Length
		if pos < end {
			leftLen := pos - curr
			right := Piece{Source: old.Source, Start: old.Start + leftLen, Length: old.Length - leftLen}
			t.pieces[i].Length = leftLen
			t.pieces = slices.Insert(t.pieces, i+1, p, right)
			return
		}
		curr = end
	}
	t.pieces = append(t.pieces, p)
}

// DeleteAt removes the rune at logical position pos. Backing stores are
// never modified; only the piece list shrinks.
func (t *Table) DeleteAt(pos int) error {
	if pos < 0 || pos >= t.length {
		return invalidPosition("delete", pos, t.length)
	}
	i, off := t.locate(pos)
	p := t.pieces[i]
	switch {
	case p.Length == 1:
		t.pieces = slices.Delete(t.pieces, i, i+1)
	case off == 0:
		t.pieces[i].Start++
		t.pieces[i].Length--
	case off == p.Length-1:
		t.pieces[i].Length--
	default:
		right := Piece{Source: p.Source, Start: p.Start + off + 1, Length: p.Length - off - 1}
		t.pieces[i].Length = off
		t.pieces = slices.Insert(t.pieces, i+1, right)
	}
	t.length--
	if len(t.pieces) == 0 {
		t.pieces = []Piece{{Source: Original}}
	}
	return nil
}

// Delete removes the half-open range [start, end).
func (t *Table) Delete(start, end int) error {
	if start < 0 || end > t.length || start > end {
		return fmt.Errorf("delete range [%d, %d) in document of length %d: %w", start, end, t.length, ErrInvalidArgument)
	}
	for n := end - start; n > 0; n-- {
		if err := t.DeleteAt(start); err != nil {
			return err
		}
	}
	return nil
}

// locate returns the index of the piece containing pos and the offset of
// pos inside it. pos must be within [0, Len()).
func (t *Table) locate(pos int) (int, int) {
	curr := 0
	for i, p := range t.pieces {
		if pos < curr+p.Length {
			return i, pos - curr
		}
		curr += p.Length
	}
	panic(fmt.Sprintf("piecetable: position %d not covered by pieces (length %d)", pos, t.length))
}

func (t *Table) store(s Source) []rune {
	if s == Add {
		return t.add
	}
	return t.original
}

// Check verifies the piece list against the backing stores.
func (t *Table) Check() error {
	if len(t.pieces) == 0 {
		return &InvariantError{Index: -1, Reason: "empty piece list"}
	}
	sum := 0
	for i, p := range t.pieces {
		if p.Source != Original && p.Source != Add {
			return &InvariantError{Index: i, Piece: p, Reason: "unknown source"}
		}
		if p.Start < 0 || p.Length < 0 {
			return &InvariantError{Index: i, Piece: p, Reason: "negative start or length"}
		}
		if p.end() > len(t.store(p.Source)) {
			return &InvariantError{Index: i, Piece: p, Reason: fmt.Sprintf("exceeds %s store of length %d", p.Source, len(t.store(p.Source)))}
		}
		if p.Length == 0 && len(t.pieces) > 1 {
			return &InvariantError{Index: i, Piece: p, Reason: "zero-length piece"}
		}
		sum += p.Length
	}
	if sum != t.length {
		return &InvariantError{Index: -1, Reason: fmt.Sprintf("piece lengths sum to %d, length is %d", sum, t.length)}
	}
	return nil
}
