// Package buffer is the text buffer the editor talks to. It wraps a piece
// table and speaks in logical rune positions only.
package buffer

import (
	"io"
	"strings"

	"github.com/kobzarvs/ptedit/internal/logger"
	"github.com/kobzarvs/ptedit/internal/piecetable"
)

// TextBuffer owns one piece table for the lifetime of an editing session.
// It is not safe for concurrent use.
type TextBuffer struct {
	table *piecetable.Table
}

func New(initial string) *TextBuffer {
	return &TextBuffer{table: piecetable.New(initial)}
}

// FromReader loads the initial document from r.
func FromReader(r io.Reader) (*TextBuffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(string(data)), nil
}

func (b *TextBuffer) Text() string {
	return b.table.Text()
}

func (b *TextBuffer) Len() int {
	return b.table.Len()
}

// Lines splits the document on newlines. There is always at least one line.
func (b *TextBuffer) Lines() []string {
	return strings.Split(b.table.Text(), "\n")
}

func (b *TextBuffer) Append(text string) error {
	return b.Insert(b.table.Len(), text)
}

// Insert places text at index. Errors wrap piecetable.ErrInvalidArgument
// and leave the buffer untouched.
func (b *TextBuffer) Insert(index int, text string) error {
	if err := b.table.Insert(text, index); err != nil {
		logger.Warn("insert rejected", "index", index, "err", err)
		return err
	}
	logger.Debug("insert", "index", index, "runes", len([]rune(text)), "length", b.table.Len())
	return nil
}

// DeleteAt removes the character at index.
func (b *TextBuffer) DeleteAt(index int) error {
	if err := b.table.DeleteAt(index); err != nil {
		logger.Warn("delete rejected", "index", index, "err", err)
		return err
	}
	logger.Debug("delete", "index", index, "length", b.table.Len())
	return nil
}

// Backspace removes the last character. It does nothing on an empty buffer.
func (b *TextBuffer) Backspace() {
	if n := b.table.Len(); n > 0 {
		_ = b.DeleteAt(n - 1)
	}
}

// Table exposes the underlying piece table for diagnostics.
func (b *TextBuffer) Table() *piecetable.Table {
	return b.table
}
