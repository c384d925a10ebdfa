package editor

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/ptedit/internal/syntax"
)

// Render draws the visible lines, the status line and the cursor.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	viewHeight := max(h-1, 0)
	e.viewHeight = viewHeight

	lines := e.buf.Lines()
	row, col := offsetToRowCol(lines, e.cursor)
	e.ensureVisible(row, viewHeight)

	s.SetStyle(e.styleMain)
	s.Clear()

	spans := e.highlights(viewHeight)
	gutter := e.gutterWidth(len(lines))
	for y := 0; y < viewHeight; y++ {
		lineIdx := e.scroll + y
		if lineIdx >= len(lines) {
			clearLine(s, y, w, e.styleMain)
			continue
		}
		if gutter > 0 {
			num := fmt.Sprintf("%*d ", gutter-1, lineIdx+1)
			drawText(s, 0, y, gutter, num, e.styleGutter)
		}
		e.drawLine(s, y, gutter, w, lines[lineIdx], spans[lineIdx])
	}

	e.renderStatusline(s, w, h-1, row, col)

	cy := row - e.scroll
	cx := gutter + visualCol([]rune(lines[row]), col, e.tabWidth)
	if cy < 0 || cy >= viewHeight || cx >= w {
		s.HideCursor()
	} else {
		s.ShowCursor(cx, cy)
	}
	s.Show()
}

func (e *Editor) ensureVisible(row, viewHeight int) {
	if row < e.scroll {
		e.scroll = row
	}
	if viewHeight > 0 && row >= e.scroll+viewHeight {
		e.scroll = row - viewHeight + 1
	}
}

func (e *Editor) gutterWidth(lineCount int) int {
	if !e.lineNumbers {
		return 0
	}
	return len(strconv.Itoa(lineCount)) + 1
}

func (e *Editor) highlights(viewHeight int) map[int][]syntax.Span {
	if e.highlighter == nil || e.filename == "" || viewHeight == 0 {
		return nil
	}
	if !e.parsed || e.parsedTick != e.changeTick {
		if !e.highlighter.Parse(e.filename, e.buf.Text()) {
			return nil
		}
		e.parsed = true
		e.parsedTick = e.changeTick
	}
	return e.highlighter.Highlights(e.filename, e.scroll, e.scroll+viewHeight-1)
}

func (e *Editor) drawLine(s tcell.Screen, y, x0, w int, line string, spans []syntax.Span) {
	x := x0
	byteCol := 0
	for _, r := range line {
		if x >= w {
			return
		}
		style := e.spanStyle(spans, byteCol)
		byteCol += utf8.RuneLen(r)
		if r == '\t' {
			rel := x - x0
			next := x0 + rel + e.tabWidth - rel%e.tabWidth
			for ; x < next && x < w; x++ {
				s.SetContent(x, y, ' ', nil, style)
			}
			continue
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// spanStyle returns the style of the first span covering byteCol.
func (e *Editor) spanStyle(spans []syntax.Span, byteCol int) tcell.Style {
	for _, sp := range spans {
		if byteCol >= sp.StartCol && byteCol < sp.EndCol {
			if style, ok := e.syntaxStyles[sp.Kind]; ok {
				return style
			}
		}
	}
	return e.styleMain
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y, row, col int) {
	if y < 0 {
		return
	}
	name := e.filename
	if name == "" {
		name = "[scratch]"
	}
	if e.dirty {
		name += " [+]"
	}
	left := " " + name
	if e.statusMessage != "" {
		left += "  " + e.statusMessage
	}
	right := fmt.Sprintf("%d chars  %d:%d ", e.buf.Len(), row+1, col+1)
	drawText(s, 0, y, w, string(composeStatusLine(left, right, w)), e.styleStatus)
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func drawText(s tcell.Screen, x, y, w int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	line = append(line, []rune(strings.Repeat(" ", width-len(leftRunes)-len(rightRunes)))...)
	line = append(line, rightRunes...)
	return line
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
