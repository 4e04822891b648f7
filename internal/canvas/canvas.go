// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/canvas/canvas.go
// Summary: Double-grid differential renderer emitting minimal ANSI output.
// Usage: Windows draw into the back grid; the controller calls Flush once
// per processed keystroke and writes the result to the terminal.

package canvas

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// moveGapThreshold is the run of unchanged cells above which a cursor
// reposition is cheaper than overwriting them.
const moveGapThreshold = 3

// Canvas owns the front (on terminal) and back (being drawn) grids, the
// desired hardware cursor position, and the current pen.
type Canvas struct {
	front, back *Grid
	curRow      int
	curCol      int
	showCursor  bool

	// Emission state valid only during Flush.
	pen      Cell
	penValid bool
	outRow   int
	outCol   int
}

// New returns a canvas for a rows × cols terminal.
func New(rows, cols int) *Canvas {
	return &Canvas{
		front:      NewGrid(rows, cols),
		back:       NewGrid(rows, cols),
		showCursor: true,
	}
}

// Rows returns the terminal row count.
func (c *Canvas) Rows() int { return c.back.rows }

// Cols returns the terminal column count.
func (c *Canvas) Cols() int { return c.back.cols }

// Resize reallocates both grids. The front grid is forgotten, forcing the
// next Flush to repaint everything.
func (c *Canvas) Resize(rows, cols int) {
	c.front = NewGrid(rows, cols)
	c.back = NewGrid(rows, cols)
	c.back.markAllDirty()
	// Poison the front so every back cell differs.
	for i := range c.front.cells {
		c.front.cells[i] = Cell{Ch: 0, Fg: -2, Bg: -2}
	}
	if c.curRow >= rows {
		c.curRow = rows - 1
	}
	if c.curCol >= cols {
		c.curCol = cols - 1
	}
}

// WriteAt places a cell in the back grid. A double-width rune claims the
// following cell as a continuation.
func (c *Canvas) WriteAt(row, col int, cell Cell) {
	c.back.Set(row, col, cell)
	if cell.Ch != 0 && runewidth.RuneWidth(cell.Ch) == 2 && col+1 < c.back.cols {
		cont := cell
		cont.Ch = 0
		c.back.Set(row, col+1, cont)
	}
}

// Rect is a rectangular region in grid coordinates.
type Rect struct {
	Row, Col, Rows, Cols int
}

// Fill bulk-writes cell over the rectangle.
func (c *Canvas) Fill(r Rect, cell Cell) {
	for row := r.Row; row < r.Row+r.Rows; row++ {
		for col := r.Col; col < r.Col+r.Cols; col++ {
			c.back.Set(row, col, cell)
		}
	}
}

// SetCursor records where the hardware cursor lands after the next flush.
func (c *Canvas) SetCursor(row, col int) {
	c.curRow, c.curCol = row, col
}

// Cursor returns the pending hardware cursor position.
func (c *Canvas) Cursor() (row, col int) {
	return c.curRow, c.curCol
}

// SetCursorVisible controls whether Flush shows or hides the cursor.
func (c *Canvas) SetCursorVisible(v bool) {
	c.showCursor = v
}

// Flush diffs back against front and returns the ANSI byte stream that
// brings the terminal in line with the back grid, then copies back to
// front. Emitted bytes are proportional to changed cells plus touched
// rows.
func (c *Canvas) Flush() []byte {
	var sb strings.Builder
	c.penValid = false
	c.outRow, c.outCol = -1, -1

	sb.WriteString("\x1b[?25l") // hide while painting
	for row := 0; row < c.back.rows; row++ {
		d := c.back.dirty[row]
		if d.lo == d.hi {
			continue
		}
		c.flushRow(&sb, row, d.lo, d.hi)
	}
	c.back.clearDirty()

	// Land the hardware cursor.
	fmt.Fprintf(&sb, "\x1b[%d;%dH", c.curRow+1, c.curCol+1)
	if c.showCursor {
		sb.WriteString("\x1b[?25h")
	}
	return []byte(sb.String())
}

// flushRow emits the changed cells of one row within [lo, hi).
func (c *Canvas) flushRow(sb *strings.Builder, row, lo, hi int) {
	col := lo
	for col < hi {
		// Skip a run of unchanged cells; reposition only when the run is
		// long enough to beat overwriting.
		run := 0
		for col+run < hi && c.back.At(row, col+run) == c.front.At(row, col+run) {
			run++
		}
		if col+run >= hi {
			break
		}
		if run > 0 && (run > moveGapThreshold || c.outRow != row) {
			col += run
		} else if run > 0 {
			// Cheaper to overwrite the unchanged gap than to move.
			for i := 0; i < run; i++ {
				c.emitCell(sb, row, col)
				col++
			}
		}
		for col < hi && c.back.At(row, col) != c.front.At(row, col) {
			c.emitCell(sb, row, col)
			col++
		}
	}
	// Sync the front row.
	for x := lo; x < hi; x++ {
		c.front.cells[row*c.front.cols+x] = c.back.At(row, x)
	}
}

// emitCell writes one back cell at (row, col), moving the emission cursor
// and changing the pen only when needed.
func (c *Canvas) emitCell(sb *strings.Builder, row, col int) {
	cell := c.back.At(row, col)
	if cell.Ch == 0 {
		// Continuation of a double-width rune; the lead cell painted it.
		c.front.cells[row*c.front.cols+col] = cell
		return
	}
	if c.outRow != row || c.outCol != col {
		fmt.Fprintf(sb, "\x1b[%d;%dH", row+1, col+1)
		c.outRow, c.outCol = row, col
	}
	if !c.penValid || !c.pen.samePen(cell) {
		c.emitPen(sb, cell)
	}
	sb.WriteRune(cell.Ch)
	c.outCol += runewidth.RuneWidth(cell.Ch)
}

// emitPen writes the SGR sequence selecting cell's colors and attributes.
func (c *Canvas) emitPen(sb *strings.Builder, cell Cell) {
	sb.WriteString("\x1b[0")
	if cell.At&AttrBold != 0 {
		sb.WriteString(";1")
	}
	if cell.At&AttrDim != 0 {
		sb.WriteString(";2")
	}
	if cell.At&AttrUnderline != 0 {
		sb.WriteString(";4")
	}
	if cell.At&AttrReverse != 0 {
		sb.WriteString(";7")
	}
	if cell.Fg >= 0 {
		fmt.Fprintf(sb, ";38;5;%d", cell.Fg)
	}
	if cell.Bg >= 0 {
		fmt.Fprintf(sb, ";48;5;%d", cell.Bg)
	}
	sb.WriteString("m")
	c.pen = cell
	c.penValid = true
}

// FrontEqualsBack reports whether the two grids are identical. True after
// every Flush; exposed for tests.
func (c *Canvas) FrontEqualsBack() bool {
	if c.front.rows != c.back.rows || c.front.cols != c.back.cols {
		return false
	}
	for i := range c.front.cells {
		if c.front.cells[i] != c.back.cells[i] {
			return false
		}
	}
	return true
}
