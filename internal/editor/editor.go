package editor

import (
	"errors"
	"os"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/ptedit/internal/buffer"
	"github.com/kobzarvs/ptedit/internal/config"
	"github.com/kobzarvs/ptedit/internal/logger"
	"github.com/kobzarvs/ptedit/internal/syntax"
)

const (
	actionBackspace  = "backspace"
	actionDeleteChar = "delete_char"
	actionNewline    = "newline"
	actionInsertTab  = "insert_tab"
	actionMoveLeft   = "move_left"
	actionMoveRight  = "move_right"
	actionMoveUp     = "move_up"
	actionMoveDown   = "move_down"
	actionLineStart  = "line_start"
	actionLineEnd    = "line_end"
	actionFileStart  = "file_start"
	actionFileEnd    = "file_end"
	actionSave       = "save"
	actionQuit       = "quit"
	actionForceQuit  = "force_quit"
)

// Highlighter produces syntax spans for the text of a file.
type Highlighter interface {
	Parse(path, text string) bool
	Highlights(path string, startLine, endLine int) map[int][]syntax.Span
}

// Editor is the terminal front end of a TextBuffer. It tracks a logical
// cursor offset and converts it to rows and columns only for display.
type Editor struct {
	buf      *buffer.TextBuffer
	cursor   int
	filename string
	keymap   map[string]string
	tabWidth int

	lineNumbers   bool
	scroll        int
	viewHeight    int
	dirty         bool
	changeTick    uint64
	statusMessage string
	quitPending   bool

	highlighter  Highlighter
	parsedTick   uint64
	parsed       bool
	styleMain    tcell.Style
	styleStatus  tcell.Style
	styleGutter  tcell.Style
	syntaxStyles map[string]tcell.Style
}

func New(cfg config.Config) *Editor {
	keymap := make(map[string]string, len(cfg.Keymap))
	for k, v := range cfg.Keymap {
		keymap[k] = v
	}
	tabWidth := cfg.Editor.TabWidth
	if tabWidth < 1 {
		tabWidth = 1
	}
	mainFg := parseColor(cfg.Theme.Foreground, tcell.ColorWhite)
	mainBg := parseColor(cfg.Theme.Background, tcell.ColorBlack)
	statusFg := parseColor(cfg.Theme.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(cfg.Theme.StatuslineBackground, tcell.ColorGray)
	gutterFg := parseColor(cfg.Theme.LineNumberForeground, tcell.ColorGray)
	fg := func(name string) tcell.Style {
		return tcell.StyleDefault.Foreground(parseColor(name, mainFg)).Background(mainBg)
	}
	return &Editor{
		buf:         buffer.New(""),
		keymap:      keymap,
		tabWidth:    tabWidth,
		lineNumbers: cfg.Editor.LineNumbers,
		styleMain:   tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		styleStatus: tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		styleGutter: tcell.StyleDefault.Foreground(gutterFg).Background(mainBg),
		syntaxStyles: map[string]tcell.Style{
			"keyword":  fg(cfg.Theme.SyntaxKeyword),
			"string":   fg(cfg.Theme.SyntaxString),
			"comment":  fg(cfg.Theme.SyntaxComment),
			"type":     fg(cfg.Theme.SyntaxType),
			"function": fg(cfg.Theme.SyntaxFunction),
			"number":   fg(cfg.Theme.SyntaxNumber),
			"constant": fg(cfg.Theme.SyntaxConstant),
			"property": fg(cfg.Theme.SyntaxProperty),
		},
	}
}

func (e *Editor) SetHighlighter(h Highlighter) {
	e.highlighter = h
	e.parsed = false
}

// OpenFile loads path into a fresh buffer. A missing file opens as an
// empty document that Save will create.
func (e *Editor) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if !utf8.Valid(data) {
		logger.Warn("file is not valid UTF-8, invalid bytes kept as-is", "path", path)
	}
	e.Load(string(data))
	e.filename = path
	logger.Info("opened file", "path", path, "length", e.buf.Len())
	return nil
}

// Load replaces the document with text and resets the cursor.
func (e *Editor) Load(text string) {
	e.buf = buffer.New(text)
	e.cursor = 0
	e.scroll = 0
	e.dirty = false
	e.statusMessage = ""
	e.parsed = false
	e.changeTick++
}

func (e *Editor) Save(path string) error {
	if path == "" {
		if e.filename == "" {
			return errors.New("no file name")
		}
		path = e.filename
	}
	if err := os.WriteFile(path, []byte(e.buf.Text()), 0o644); err != nil {
		return err
	}
	e.filename = path
	e.dirty = false
	logger.Info("saved file", "path", path, "length", e.buf.Len())
	return nil
}

func (e *Editor) Content() string {
	return e.buf.Text()
}

func (e *Editor) Buffer() *buffer.TextBuffer {
	return e.buf
}

func (e *Editor) Filename() string {
	return e.filename
}

func (e *Editor) Cursor() int {
	return e.cursor
}

// SetCursor moves the cursor to offset, clamped to the document.
func (e *Editor) SetCursor(offset int) {
	e.cursor = clamp(offset, 0, e.buf.Len())
}

func (e *Editor) Dirty() bool {
	return e.dirty
}

// ChangeTick increases on every document change.
func (e *Editor) ChangeTick() uint64 {
	return e.changeTick
}

func (e *Editor) StatusMessage() string {
	return e.statusMessage
}

func (e *Editor) SetStatusMessage(msg string) {
	e.statusMessage = msg
}

// HandleKey applies a key event and reports whether the editor should quit.
// A quit on a dirty buffer only arms; the next key must be quit again.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	e.statusMessage = ""
	armed := e.quitPending
	e.quitPending = false
	if key := keyString(ev); key != "" {
		if action, ok := e.keymap[key]; ok {
			return e.execAction(action, armed)
		}
	}
	if ev.Key() == tcell.KeyRune {
		e.insertText(string(ev.Rune()))
	}
	return false
}

func (e *Editor) execAction(action string, quitArmed bool) bool {
	switch action {
	case actionBackspace:
		e.backspace()
	case actionDeleteChar:
		e.deleteChar()
	case actionNewline:
		e.insertText("\n")
	case actionInsertTab:
		e.insertText("\t")
	case actionMoveLeft:
		e.SetCursor(e.cursor - 1)
	case actionMoveRight:
		e.SetCursor(e.cursor + 1)
	case actionMoveUp:
		e.moveVertical(-1)
	case actionMoveDown:
		e.moveVertical(1)
	case actionLineStart:
		lines := e.buf.Lines()
		row, _ := offsetToRowCol(lines, e.cursor)
		e.cursor = rowColToOffset(lines, row, 0)
	case actionLineEnd:
		lines := e.buf.Lines()
		row, _ := offsetToRowCol(lines, e.cursor)
		e.cursor = rowColToOffset(lines, row, utf8.RuneCountInString(lines[row]))
	case actionFileStart:
		e.cursor = 0
	case actionFileEnd:
		e.cursor = e.buf.Len()
	case actionSave:
		if err := e.Save(""); err != nil {
			logger.Warn("save failed", "err", err)
			e.statusMessage = err.Error()
		} else {
			e.statusMessage = "written " + e.filename
		}
	case actionQuit:
		if e.dirty && !quitArmed {
			e.quitPending = true
			e.statusMessage = "unsaved changes (quit again to discard)"
			return false
		}
		return true
	case actionForceQuit:
		return true
	default:
		logger.Debug("unknown action", "action", action)
	}
	return false
}

func (e *Editor) insertText(text string) {
	if err := e.buf.Insert(e.cursor, text); err != nil {
		e.statusMessage = err.Error()
		return
	}
	e.cursor += utf8.RuneCountInString(text)
	e.markChanged()
}

// backspace removes the character before the cursor. At the end of the
// document this is the buffer's own Backspace.
func (e *Editor) backspace() {
	if e.cursor == 0 {
		return
	}
	if e.cursor == e.buf.Len() {
		e.buf.Backspace()
	} else if err := e.buf.DeleteAt(e.cursor - 1); err != nil {
		e.statusMessage = err.Error()
		return
	}
	e.cursor--
	e.markChanged()
}

func (e *Editor) deleteChar() {
	if e.cursor >= e.buf.Len() {
		return
	}
	if err := e.buf.DeleteAt(e.cursor); err != nil {
		e.statusMessage = err.Error()
		return
	}
	e.markChanged()
}

func (e *Editor) moveVertical(delta int) {
	lines := e.buf.Lines()
	row, col := offsetToRowCol(lines, e.cursor)
	row += delta
	if row < 0 || row >= len(lines) {
		return
	}
	e.cursor = rowColToOffset(lines, row, col)
}

func (e *Editor) markChanged() {
	e.dirty = true
	e.changeTick++
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
