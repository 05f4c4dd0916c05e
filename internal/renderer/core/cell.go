package core

import "github.com/rivo/uniseg"

// Cell is one screen cell holding a grapheme cluster. A wide cluster is
// followed by continuation cells with Width 0.
type Cell struct {
	Text  string
	Width int
	Style Style
}

// EmptyCell is a blank cell in the default style.
func EmptyCell() Cell {
	return Cell{Text: " ", Width: 1, Style: DefaultStyle()}
}

// IsContinuation reports whether c is the tail of a wide cluster.
func (c Cell) IsContinuation() bool {
	return c.Width == 0
}

// CellsFromString lays out s as cells, one per grapheme cluster plus
// continuation cells.
func CellsFromString(s string, style Style) []Cell {
	cells := make([]Cell, 0, len(s))
	state := -1
	for len(s) > 0 {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if width == 0 {
			continue
		}
		cells = append(cells, Cell{Text: cluster, Width: width, Style: style})
		for i := 1; i < width; i++ {
			cells = append(cells, Cell{Style: style})
		}
	}
	return cells
}

// StringWidth returns the display width of s in cells.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// ColumnOf returns the display column of byte offset byteCol in line.
// A tab advances to the next multiple of tabWidth.
func ColumnOf(line string, byteCol, tabWidth int) int {
	if byteCol > len(line) {
		byteCol = len(line)
	}
	col, i, state := 0, 0, -1
	for i < byteCol {
		if line[i] == '\t' {
			col += tabWidth - col%tabWidth
			i++
			state = -1
			continue
		}
		cluster, _, width, newState := uniseg.FirstGraphemeClusterInString(line[i:], state)
		col += width
		i += len(cluster)
		state = newState
	}
	return col
}

// ByteColumnAt returns the byte offset in line of the cluster covering
// display column col, clamped to the line end.
func ByteColumnAt(line string, col, tabWidth int) int {
	x, i, state := 0, 0, -1
	for i < len(line) {
		width := 0
		size := 1
		if line[i] == '\t' {
			width = tabWidth - x%tabWidth
			state = -1
		} else {
			var cluster string
			cluster, _, width, state = uniseg.FirstGraphemeClusterInString(line[i:], state)
			size = len(cluster)
		}
		if x+width > col {
			return i
		}
		x += width
		i += size
	}
	return len(line)
}
