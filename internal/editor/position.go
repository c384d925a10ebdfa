package editor

import "unicode/utf8"

// offsetToRowCol converts a logical rune offset into a line index and a
// rune column within that line.
func offsetToRowCol(lines []string, offset int) (int, int) {
	for row, line := range lines {
		n := utf8.RuneCountInString(line)
		if offset <= n || row == len(lines)-1 {
			return row, min(offset, n)
		}
		offset -= n + 1 // newline
	}
	return 0, 0
}

// rowColToOffset is the inverse of offsetToRowCol. Out-of-range rows and
// columns are clamped.
func rowColToOffset(lines []string, row, col int) int {
	if len(lines) == 0 {
		return 0
	}
	row = clamp(row, 0, len(lines)-1)
	offset := 0
	for i := 0; i < row; i++ {
		offset += utf8.RuneCountInString(lines[i]) + 1
	}
	return offset + clamp(col, 0, utf8.RuneCountInString(lines[row]))
}

func visualCol(line []rune, logicalCol int, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	logicalCol = clamp(logicalCol, 0, len(line))
	col := 0
	for i := 0; i < logicalCol; i++ {
		if line[i] == '\t' {
			col += tabWidth - (col % tabWidth)
			continue
		}
		col++
	}
	return col
}
