// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/workspace/window.go
// Summary: A window renders its editor's visible region into the canvas
// region it owns, plus a one-row banner.
// Usage: The workspace tiles windows and assigns their regions; the
// controller asks the focused window for the hardware cursor cell.

package workspace

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/framegrace/ped/internal/canvas"
	"github.com/framegrace/ped/internal/editor"
	"github.com/framegrace/ped/internal/theming"
)

// lineMarginCols is the width of the line-number margin including the
// separator space.
const lineMarginCols = 6

// tabGlyph and ctrlGlyph stand in for tabs and control scalars.
const (
	tabGlyph  = '→'
	ctrlGlyph = '¿'
)

// Window is a viewport onto one editor.
type Window struct {
	OriginRow, OriginCol int
	Rows, Cols           int // text area; the banner row is extra

	Ed *editor.Editor

	ShowLines     bool
	ShowSpotlight bool
	ShowEol       bool
	BannerActive  bool
}

// NewWindow wraps an editor.
func NewWindow(ed *editor.Editor) *Window {
	return &Window{Ed: ed}
}

// textCols returns the columns available to buffer text.
func (w *Window) textCols() int {
	if w.ShowLines {
		return w.Cols - lineMarginCols
	}
	return w.Cols
}

// Layout places the window and propagates the text area to its editor.
func (w *Window) Layout(originRow, originCol, rows, cols int) {
	w.OriginRow, w.OriginCol = originRow, originCol
	w.Rows, w.Cols = rows, cols
	w.Ed.SetView(rows, w.textCols())
}

// lineNumber renders a 1-based line number right-justified into the
// margin. Numbers past five digits keep their last three digits behind
// a marker.
func lineNumber(n int) string {
	if n <= 99999 {
		return fmt.Sprintf("%5d", n)
	}
	return fmt.Sprintf("--%03d", n%1000)
}

// Render paints the editor's visible region and banner into cv.
func (w *Window) Render(cv *canvas.Canvas, th *theming.Theme) {
	ed := w.Ed
	textFg := ed.DefaultColor()
	textBg := th.Color(theming.SlotTextBg)
	lineFg := th.Color(theming.SlotLineFg)
	selBg := th.Color(theming.SlotSelectBg)
	spotBg := th.Color(theming.SlotSpotlightBg)
	eolFg := th.Color(theming.SlotEolFg)

	selLo, selHi, hasSel := ed.Selection()
	buf := ed.Buf()
	spans := ed.Spans()
	cols := w.textCols()
	margin := w.Cols - cols

	row := 0
	pos := ed.Top().Pos
	line := ed.Top().Line
	n := buf.Len()
	curRow, _ := w.cursorCell()

	for row < w.Rows {
		// One logical line, wrapped over as many visual rows as needed.
		col := 0
		w.paintMargin(cv, row, margin, true, line+1, lineFg, textBg)
		for pos < n && buf.Get(pos) != '\n' {
			r := buf.Get(pos)
			cell := canvas.Cell{Ch: r, Fg: spans.ColorAt(pos, textFg), Bg: textBg}
			switch {
			case r == '\t':
				cell.Ch = tabGlyph
				cell.Fg = eolFg
			case r < 0x20 || r == 0x7f:
				cell.Ch = ctrlGlyph
				cell.At |= canvas.AttrDim
			}
			if hasSel && pos >= selLo && pos < selHi {
				cell.Bg = selBg
			} else if w.ShowSpotlight && row == curRow {
				cell.Bg = spotBg
			}
			cv.WriteAt(w.OriginRow+row, w.OriginCol+margin+col, cell)
			pos++
			col++
			if col >= cols {
				col = 0
				row++
				if row >= w.Rows {
					break
				}
				w.paintMargin(cv, row, margin, false, 0, lineFg, textBg)
			}
		}
		if row >= w.Rows {
			break
		}
		if w.ShowEol && pos < n && col < cols {
			cv.WriteAt(w.OriginRow+row, w.OriginCol+margin+col,
				canvas.Cell{Ch: '¬', Fg: eolFg, Bg: textBg})
			col++
		}
		w.fillRest(cv, row, margin+col, textBg, spotBg, row == curRow)
		row++
		if pos >= n {
			break
		}
		pos++ // the line break
		line++
	}

	// Blank rows below the end of the buffer.
	for ; row < w.Rows; row++ {
		cv.Fill(canvas.Rect{Row: w.OriginRow + row, Col: w.OriginCol, Rows: 1, Cols: w.Cols},
			canvas.Blank(textFg, textBg))
	}

	w.renderBanner(cv, th)
}

// paintMargin draws the line-number margin cells for one visual row.
func (w *Window) paintMargin(cv *canvas.Canvas, row, margin int, firstRow bool, line, lineFg, textBg int) {
	if margin == 0 {
		return
	}
	text := strings.Repeat(" ", margin)
	if firstRow {
		text = lineNumber(line) + " "
	}
	for i, r := range text {
		cv.WriteAt(w.OriginRow+row, w.OriginCol+i, canvas.Cell{Ch: r, Fg: lineFg, Bg: textBg})
	}
}

// fillRest blanks a visual row from col to the window edge.
func (w *Window) fillRest(cv *canvas.Canvas, row, col int, textBg, spotBg int, cursorRow bool) {
	bg := textBg
	if w.ShowSpotlight && cursorRow {
		bg = spotBg
	}
	if col < w.Cols {
		cv.Fill(canvas.Rect{Row: w.OriginRow + row, Col: w.OriginCol + col, Rows: 1, Cols: w.Cols - col},
			canvas.Blank(canvas.ColorDefault, bg))
	}
}

// cursorCell returns the cursor's cell within the text area, in window
// coordinates (row relative to the top of the window, col excluding the
// margin).
func (w *Window) cursorCell() (row, col int) {
	ed := w.Ed
	cols := ed.Cols()
	// Walk logical lines from the top anchor to the cursor line.
	row = 0
	p := ed.Top().Pos
	for p < ed.Cur().Pos {
		nl := ed.Buf().FindForward(p, func(r rune) bool { return r == '\n' })
		if nl < 0 {
			break
		}
		lineLen := nl - p
		row += lineLen/cols + 1
		p = nl + 1
	}
	off := ed.Pos() - ed.Cur().Pos
	row += off / cols
	col = off % cols
	return row, col
}

// PosAt maps an absolute canvas cell back to a buffer position, for
// mouse clicks. Clicks in the margin snap to the line start; clicks
// past the line end snap to it.
func (w *Window) PosAt(screenRow, screenCol int) (int, bool) {
	ed := w.Ed
	row := screenRow - w.OriginRow
	if row < 0 || row >= w.Rows {
		return 0, false
	}
	margin := w.Cols - w.textCols()
	col := screenCol - w.OriginCol - margin
	if col < 0 {
		col = 0
	}
	cols := ed.Cols()
	if col >= cols {
		col = cols - 1
	}

	buf := ed.Buf()
	p := ed.Top().Pos
	r := 0
	for {
		nl := buf.FindForward(p, func(ch rune) bool { return ch == '\n' })
		end := nl
		if end < 0 {
			end = buf.Len()
		}
		lineRows := (end-p)/cols + 1
		if row < r+lineRows {
			off := (row-r)*cols + col
			if p+off > end {
				return end, true
			}
			return p + off, true
		}
		if nl < 0 {
			return buf.Len(), true
		}
		r += lineRows
		p = nl + 1
	}
}

// CursorScreenCell maps the editor cursor to absolute canvas
// coordinates.
func (w *Window) CursorScreenCell() (row, col int) {
	r, c := w.cursorCell()
	margin := w.Cols - w.textCols()
	return w.OriginRow + r, w.OriginCol + margin + c
}

// renderBanner paints the status row under the text area.
func (w *Window) renderBanner(cv *canvas.Canvas, th *theming.Theme) {
	ed := w.Ed
	bg := th.Color(theming.SlotInactiveBg)
	if w.BannerActive {
		bg = th.Color(theming.SlotActiveBg)
	}
	fg := th.Color(theming.SlotBannerFg)
	srcFg := fg
	if ed.Dirty() {
		srcFg = th.Color(theming.SlotDirtyFg)
	}

	row := w.OriginRow + w.Rows
	cv.Fill(canvas.Rect{Row: row, Col: w.OriginCol, Rows: 1, Cols: w.Cols}, canvas.Blank(fg, bg))

	syntaxName := ""
	switch {
	case ed.Syntax != nil:
		syntaxName = ed.Syntax.Name
	case ed.Language != "":
		syntaxName = ed.Language
	}

	eolMark := "lf"
	if ed.EolMode == editor.EolCRLF {
		eolMark = "crlf"
	}
	tabMark := fmt.Sprintf("s%d", ed.TabSize)
	if ed.TabHard {
		tabMark = "t"
	}

	var hex string
	if ed.Pos() < ed.Buf().Len() {
		hex = fmt.Sprintf("U+%04X", ed.Buf().Get(ed.Pos()))
	}
	loc := fmt.Sprintf("%d,%d", ed.Cur().Line+1, ed.Column()+1)

	// Progressive truncation: drop the code point, then the syntax, then
	// the location as the window narrows.
	parts := []string{ed.Name}
	if syntaxName != "" && w.Cols >= 32 {
		parts = append(parts, "("+syntaxName+")")
	}
	parts = append(parts, "-"+eolMark+tabMark+"-")
	if hex != "" && w.Cols >= 48 {
		parts = append(parts, hex)
	}
	if w.Cols >= 24 {
		parts = append(parts, loc)
	}
	text := " " + strings.Join(parts, " ")
	text = runewidth.Truncate(text, w.Cols, "")

	col := w.OriginCol
	srcEnd := 1 + len([]rune(ed.Name))
	for i, r := range []rune(text) {
		cellFg := fg
		if i >= 1 && i < srcEnd {
			cellFg = srcFg
		}
		cv.WriteAt(row, col, canvas.Cell{Ch: r, Fg: cellFg, Bg: bg})
		col += runewidth.RuneWidth(r)
	}
}
