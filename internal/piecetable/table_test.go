package piecetable

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func mustCheck(t *testing.T, pt *Table) {
	t.Helper()
	if err := pt.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestNewRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "Hello", "héllo wörld", "line1\nline2\n", "日本語", "caf\xe9 \xff"} {
		pt := New(s)
		mustCheck(t, pt)
		if got := pt.Text(); got != s {
			t.Fatalf("Text() = %q, want %q", got, s)
		}
		if got, want := pt.Len(), len([]rune(s)); got != want {
			t.Fatalf("Len() = %d, want %d", got, want)
		}
	}
}

func TestNewEmptyDocumentPiece(t *testing.T) {
	pt := New("")
	want := []Piece{{Source: Original, Start: 0, Length: 0}}
	if diff := cmp.Diff(want, pt.Pieces()); diff != "" {
		t.Fatalf("pieces mismatch (-want +got):\n%s", diff)
	}
}

func TestTablesDoNotSharePieces(t *testing.T) {
	a := New("abc")
	b := New("xyz")
	if err := a.Append("!"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if got := b.Text(); got != "xyz" {
		t.Fatalf("b.Text() = %q, want %q", got, "xyz")
	}
	if got := len(b.Pieces()); got != 1 {
		t.Fatalf("b pieces = %d, want 1", got)
	}
}

func TestAppendOrdering(t *testing.T) {
	pt := New("")
	if err := pt.Append("Hello"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := pt.Append(", world"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	mustCheck(t, pt)
	if got := pt.Text(); got != "Hello, world" {
		t.Fatalf("Text() = %q, want %q", got, "Hello, world")
	}
	want := []Piece{
		{Source: Add, Start: 0, Length: 5},
		{Source: Add, Start: 5, Length: 7},
	}
	if diff := cmp.Diff(want, pt.Pieces()); diff != "" {
		t.Fatalf("pieces mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertAtBoundaries(t *testing.T) {
	pt := New("body")
	if err := pt.Insert(">", 0); err != nil {
		t.Fatalf("Insert at 0: %v", err)
	}
	if got := pt.Text(); got != ">body" {
		t.Fatalf("Text() = %q, want %q", got, ">body")
	}
	if err := pt.Insert("<", pt.Len()); err != nil {
		t.Fatalf("Insert at end: %v", err)
	}
	mustCheck(t, pt)
	if got := pt.Text(); got != ">body<" {
		t.Fatalf("Text() = %q, want %q", got, ">body<")
	}
	if got := len(pt.Pieces()); got != 3 {
		t.Fatalf("pieces = %d, want 3", got)
	}
}

func TestInsertMidPiece(t *testing.T) {
	pt := New("Helo")
	if err := pt.Insert("l", 2); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	mustCheck(t, pt)
	if got := pt.Text(); got != "Hello" {
		t.Fatalf("Text() = %q, want %q", got, "Hello")
	}
	want := []Piece{
		{Source: Original, Start: 0, Length: 2},
		{Source: Add, Start: 0, Length: 1},
		{Source: Original, Start: 2, Length: 2},
	}
	if diff := cmp.Diff(want, pt.Pieces()); diff != "" {
		t.Fatalf("pieces mismatch (-want +got):\n%s", diff)
	}
}

func TestRepeatedInsertSamePosition(t *testing.T) {
	pt := New("From beggining")
	if err := pt.Insert(" the end", 14); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := pt.Insert(" to", 14); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	mustCheck(t, pt)
	if got, want := pt.Text(), "From beggining to the end"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
}

func TestInsertBetweenPiecesDoesNotSplit(t *testing.T) {
	pt := New("ab")
	if err := pt.Append("cd"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := pt.Insert("X", 2); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	mustCheck(t, pt)
	want := []Piece{
		{Source: Original, Start: 0, Length: 2},
		{Source: Add, Start: 2, Length: 1},
		{Source: Add, Start: 0, Length: 2},
	}
	if diff := cmp.Diff(want, pt.Pieces()); diff != "" {
		t.Fatalf("pieces mismatch (-want +got):\n%s", diff)
	}
	if got := pt.Text(); got != "abXcd" {
		t.Fatalf("Text() = %q, want %q", got, "abXcd")
	}
}

func TestInsertIntoEmptyReplacesEmptyPiece(t *testing.T) {
	pt := New("")
	if err := pt.Insert("x", 0); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	mustCheck(t, pt)
	want := []Piece{{Source: Add, Start: 0, Length: 1}}
	if diff := cmp.Diff(want, pt.Pieces()); diff != "" {
		t.Fatalf("pieces mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertEmptyIsNoop(t *testing.T) {
	pt := New("text")
	before := pt.Pieces()
	for pos := 0; pos <= pt.Len(); pos++ {
		if err := pt.Insert("", pos); err != nil {
			t.Fatalf("Insert(\"\", %d): %v", pos, err)
		}
	}
	if got := pt.Text(); got != "text" {
		t.Fatalf("Text() = %q, want %q", got, "text")
	}
	if diff := cmp.Diff(before, pt.Pieces()); diff != "" {
		t.Fatalf("pieces changed (-before +after):\n%s", diff)
	}
	if len(pt.add) != 0 {
		t.Fatalf("add store length = %d, want 0", len(pt.add))
	}
}

func TestInsertOutOfBounds(t *testing.T) {
	pt := New("abc")
	for _, pos := range []int{-1, 4} {
		err := pt.Insert("x", pos)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("Insert at %d error = %v, want ErrInvalidArgument", pos, err)
		}
	}
	if got := pt.Text(); got != "abc" {
		t.Fatalf("Text() = %q, want %q", got, "abc")
	}
	if len(pt.add) != 0 {
		t.Fatalf("add store length = %d, want 0", len(pt.add))
	}
	mustCheck(t, pt)
}

func TestInsertGrowsPiecesByAtMostTwo(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	pt := New("the quick brown fox")
	for i := 0; i < 200; i++ {
		before := len(pt.Pieces())
		pos := rng.IntN(pt.Len() + 1)
		if err := pt.Insert("ab", pos); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if grown := len(pt.Pieces()) - before; grown > 2 || grown < 0 {
			t.Fatalf("insert at %d grew pieces by %d", pos, grown)
		}
	}
	mustCheck(t, pt)
}

func TestDeleteAtCases(t *testing.T) {
	tests := []struct {
		name  string
		pos   int
		want  string
		count int
	}{
		{"head", 0, "ello", 1},
		{"tail", 4, "Hell", 1},
		{"middle", 2, "Helo", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := New("Hello")
			if err := pt.DeleteAt(tt.pos); err != nil {
				t.Fatalf("DeleteAt: %v", err)
			}
			mustCheck(t, pt)
			if got := pt.Text(); got != tt.want {
				t.Fatalf("Text() = %q, want %q", got, tt.want)
			}
			if got := len(pt.Pieces()); got != tt.count {
				t.Fatalf("pieces = %d, want %d", got, tt.count)
			}
		})
	}
}

func TestDeleteAtRemovesSingleRunePiece(t *testing.T) {
	pt := New("Helo")
	if err := pt.Insert("l", 2); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := pt.DeleteAt(2); err != nil {
		t.Fatalf("DeleteAt: %v", err)
	}
	mustCheck(t, pt)
	if got := pt.Text(); got != "Helo" {
		t.Fatalf("Text() = %q, want %q", got, "Helo")
	}
	if got := len(pt.Pieces()); got != 2 {
		t.Fatalf("pieces = %d, want 2", got)
	}
	if got := string(pt.add); got != "l" {
		t.Fatalf("add store = %q, want %q", got, "l")
	}
}

func TestDeleteAtToEmpty(t *testing.T) {
	pt := New("ab")
	for pt.Len() > 0 {
		if err := pt.DeleteAt(pt.Len() - 1); err != nil {
			t.Fatalf("DeleteAt: %v", err)
		}
	}
	mustCheck(t, pt)
	want := []Piece{{Source: Original}}
	if diff := cmp.Diff(want, pt.Pieces()); diff != "" {
		t.Fatalf("pieces mismatch (-want +got):\n%s", diff)
	}
	if err := pt.Append("z"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	mustCheck(t, pt)
	if got := pt.Text(); got != "z" {
		t.Fatalf("Text() = %q, want %q", got, "z")
	}
}

func TestDeleteAtOutOfBounds(t *testing.T) {
	pt := New("abc")
	for _, pos := range []int{-1, 3} {
		if err := pt.DeleteAt(pos); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("DeleteAt(%d) error = %v, want ErrInvalidArgument", pos, err)
		}
	}
	if err := New("").DeleteAt(0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("DeleteAt on empty error = %v, want ErrInvalidArgument", err)
	}
}

func TestInsertDeleteRoundTrip(t *testing.T) {
	const orig = "piece table"
	for pos := 0; pos <= len(orig); pos++ {
		pt := New(orig)
		if err := pt.Insert("#", pos); err != nil {
			t.Fatalf("Insert at %d: %v", pos, err)
		}
		if err := pt.DeleteAt(pos); err != nil {
			t.Fatalf("DeleteAt %d: %v", pos, err)
		}
		mustCheck(t, pt)
		if got := pt.Text(); got != orig {
			t.Fatalf("pos %d: Text() = %q, want %q", pos, got, orig)
		}
	}
}

func TestDeleteRange(t *testing.T) {
	pt := New("Hello")
	if err := pt.Append(", world"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := pt.Delete(3, 9); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	mustCheck(t, pt)
	if got := pt.Text(); got != "Helrld" {
		t.Fatalf("Text() = %q, want %q", got, "Helrld")
	}
	if err := pt.Delete(4, 3); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Delete(4, 3) error = %v, want ErrInvalidArgument", err)
	}
	if err := pt.Delete(0, 7); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Delete(0, 7) error = %v, want ErrInvalidArgument", err)
	}
}

func TestRuneAt(t *testing.T) {
	pt := New("añb")
	if err := pt.Insert("ç", 1); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	want := []rune("açñb")
	for i, w := range want {
		r, err := pt.RuneAt(i)
		if err != nil {
			t.Fatalf("RuneAt(%d): %v", i, err)
		}
		if r != w {
			t.Fatalf("RuneAt(%d) = %q, want %q", i, r, w)
		}
	}
	if _, err := pt.RuneAt(len(want)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("RuneAt(end) error = %v, want ErrInvalidArgument", err)
	}
}

func TestRandomEditsMatchModel(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	model := []rune("initial document\nwith two lines")
	pt := New(string(model))
	alphabet := []rune("xyzé\n ")
	for i := 0; i < 1000; i++ {
		if len(model) > 0 && rng.IntN(3) == 0 {
			pos := rng.IntN(len(model))
			if err := pt.DeleteAt(pos); err != nil {
				t.Fatalf("step %d DeleteAt(%d): %v", i, pos, err)
			}
			model = slices.Delete(model, pos, pos+1)
		} else {
			pos := rng.IntN(len(model) + 1)
			n := rng.IntN(4)
			ins := make([]rune, n)
			for j := range ins {
				ins[j] = alphabet[rng.IntN(len(alphabet))]
			}
			if err := pt.Insert(string(ins), pos); err != nil {
				t.Fatalf("step %d Insert(%q, %d): %v", i, string(ins), pos, err)
			}
			model = slices.Insert(model, pos, ins...)
		}
		if err := pt.Check(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got, want := pt.Text(), string(model); got != want {
			t.Fatalf("step %d: Text() = %q, want %q", i, got, want)
		}
	}
}

func TestCheckReportsCorruption(t *testing.T) {
	pt := New("abc")
	pt.pieces[0].Length = 10
	var ie *InvariantError
	if err := pt.Check(); !errors.As(err, &ie) {
		t.Fatalf("Check error = %v, want *InvariantError", err)
	}
	if ie.Index != 0 {
		t.Fatalf("InvariantError.Index = %d, want 0", ie.Index)
	}
}

func TestInvalidUTF8Preserved(t *testing.T) {
	const orig = "caf\xe9 \xff"
	pt := New(orig)
	if got := pt.Text(); got != orig {
		t.Fatalf("Text = %q, want %q", got, orig)
	}
	if pt.Len() != 6 {
		t.Fatalf("Len = %d, want 6", pt.Len())
	}
	if r, err := pt.RuneAt(3); err != nil || r != utf8.RuneError {
		t.Fatalf("RuneAt(3) = %q, %v, want RuneError", r, err)
	}

	if err := pt.Insert("\x80x", 4); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got, want := pt.Text(), "caf\xe9\x80x \xff"; got != want {
		t.Fatalf("Text after insert = %q, want %q", got, want)
	}
	if err := pt.DeleteAt(3); err != nil {
		t.Fatalf("DeleteAt: %v", err)
	}
	if got, want := pt.Text(), "caf\x80x \xff"; got != want {
		t.Fatalf("Text after delete = %q, want %q", got, want)
	}
	mustCheck(t, pt)
}

func TestReplacementCharacterKept(t *testing.T) {
	const orig = "a�b"
	pt := New(orig)
	if got := pt.Text(); got != orig {
		t.Fatalf("Text = %q, want %q", got, orig)
	}
	if pt.Len() != 3 {
		t.Fatalf("Len = %d, want 3", pt.Len())
	}
}
