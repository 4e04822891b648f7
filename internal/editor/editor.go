// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/editor/editor.go
// Summary: Editor state: buffer, span list, the two line anchors, mark,
// undo/redo, and per-buffer modes.
// Usage: One editor per buffer; a window renders it and the controller
// drives it through the operation registry.
// Notes: The buffer is not line-indexed, so every operation keeps the two
// anchors (top of view, cursor line) consistent locally instead of
// re-deriving them.

package editor

import (
	"errors"

	"github.com/framegrace/ped/internal/gapbuf"
	"github.com/framegrace/ped/internal/span"
	"github.com/framegrace/ped/internal/syntax"
)

// ErrReadonly is returned by mutations on a readonly buffer.
var ErrReadonly = errors.New("buffer is readonly")

// EolMode selects the line ending written on save.
type EolMode int

const (
	EolLF EolMode = iota
	EolCRLF
)

// LineRef anchors a buffer position known to start a logical line.
type LineRef struct {
	Pos  int
	Line int // 0-based
}

// Editor couples a buffer with its span list, cursor, anchors, selection
// mark, and history.
type Editor struct {
	Name      string // display name: path or @name
	Path      string // backing file; empty for ephemerals
	Ephemeral bool

	buf   *gapbuf.Buffer
	spans *span.List

	pos     int
	top     LineRef
	cur     LineRef
	mark    int // -1 when unset
	desired int // sticky visual column for vertical motion; -1 unset

	undo []Change
	redo []Change

	EolMode  EolMode
	TabHard  bool
	TabSize  int
	Readonly bool
	dirty    bool

	rows, cols int // text area of the owning window

	Syntax   *syntax.Definition // nil when no definition matched
	Language string             // detected language for the fallback lexer

	lastSearch SearchSpec

	defColor int
	version  int
}

// Version increments on every mutation; background work uses it to
// detect that a snapshot went stale.
func (e *Editor) Version() int { return e.version }

// New creates an editor over initial content. defColor colors untokenized
// text.
func New(name, content string, defColor int) *Editor {
	buf := gapbuf.FromString(content)
	e := &Editor{
		Name:     name,
		buf:      buf,
		spans:    span.NewList(buf.Len(), defColor),
		mark:     -1,
		desired:  -1,
		TabSize:  4,
		rows:     1,
		cols:     80,
		defColor: defColor,
	}
	if buf.Len() > 0 {
		e.spans.SetNeedsRescan(true)
	}
	return e
}

// Buf exposes the underlying gap buffer for rendering and search.
func (e *Editor) Buf() *gapbuf.Buffer { return e.buf }

// Spans exposes the span list.
func (e *Editor) Spans() *span.List { return e.spans }

// Pos returns the cursor position.
func (e *Editor) Pos() int { return e.pos }

// Top returns the top-of-view anchor.
func (e *Editor) Top() LineRef { return e.top }

// Cur returns the cursor-line anchor.
func (e *Editor) Cur() LineRef { return e.cur }

// Dirty reports unsaved modifications.
func (e *Editor) Dirty() bool { return e.dirty }

// SetDirty overrides the dirty flag; used after save and on load.
func (e *Editor) SetDirty(v bool) { e.dirty = v }

// DefaultColor returns the color for untokenized text.
func (e *Editor) DefaultColor() int { return e.defColor }

// SetView tells the editor the text area it is rendered into. The top
// anchor stays put; a cursor that no longer fits is pulled into the view.
func (e *Editor) SetView(rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	e.rows, e.cols = rows, cols
	e.clampCursorIntoView()
}

// Rows returns the view height in text rows.
func (e *Editor) Rows() int { return e.rows }

// Cols returns the view width in columns.
func (e *Editor) Cols() int { return e.cols }

// Column returns the cursor's offset within its logical line.
func (e *Editor) Column() int { return e.pos - e.cur.Pos }

// isNL matches the line break scalar.
func isNL(r rune) bool { return r == '\n' }

// lineStartBefore returns the start of the line containing pos.
func (e *Editor) lineStartBefore(pos int) int {
	nl := e.buf.FindBackward(pos, isNL)
	return nl + 1
}

// lineEnd returns the position of the \n ending the line containing pos,
// or the buffer length for the last line.
func (e *Editor) lineEnd(pos int) int {
	nl := e.buf.FindForward(pos, isNL)
	if nl < 0 {
		return e.buf.Len()
	}
	return nl
}

// lineLen returns the length of the line starting at start, excluding
// the terminating \n.
func (e *Editor) lineLen(start int) int {
	return e.lineEnd(start) - start
}

// nextLineStart returns the start of the line after the one at start, or
// -1 on the last line.
func (e *Editor) nextLineStart(start int) int {
	nl := e.buf.FindForward(start, isNL)
	if nl < 0 {
		return -1
	}
	return nl + 1
}

// prevLineStart returns the start of the line before the one at start,
// or -1 on the first line.
func (e *Editor) prevLineStart(start int) int {
	if start == 0 {
		return -1
	}
	return e.lineStartBefore(start - 1)
}

// visualRows returns how many window rows the line starting at start
// occupies under the current width.
func (e *Editor) visualRows(start int) int {
	return e.lineLen(start)/e.cols + 1
}

// cursorRow returns the cursor's visual row relative to the top anchor.
// Negative means the cursor is above the view.
func (e *Editor) cursorRow() int {
	if e.cur.Line < e.top.Line {
		// Above the top: walk up from top to the cursor line.
		r := 0
		p := e.top.Pos
		for {
			prev := e.prevLineStart(p)
			if prev < 0 {
				break
			}
			p = prev
			r -= e.visualRows(p)
			if p == e.cur.Pos {
				break
			}
		}
		return r + (e.pos-e.cur.Pos)/e.cols
	}
	r := 0
	p := e.top.Pos
	for p != e.cur.Pos {
		r += e.visualRows(p)
		next := e.nextLineStart(p)
		if next < 0 || next > e.cur.Pos {
			break
		}
		p = next
	}
	return r + (e.pos-e.cur.Pos)/e.cols
}

// ensureVisible scrolls the top anchor the minimum amount needed to keep
// the cursor inside the view.
func (e *Editor) ensureVisible() {
	if e.cur.Line < e.top.Line || (e.cur.Line == e.top.Line && e.cur.Pos < e.top.Pos) {
		e.top = e.cur
		return
	}
	for e.cursorRow() >= e.rows {
		next := e.nextLineStart(e.top.Pos)
		if next < 0 {
			break
		}
		e.top = LineRef{Pos: next, Line: e.top.Line + 1}
	}
}

// reanchor recomputes both anchors after a non-local jump such as undo.
// The cursor line is derived by scanning; the top anchor is kept when it
// still starts a line above the cursor, otherwise the view re-centers.
func (e *Editor) reanchor() {
	if e.pos > e.buf.Len() {
		e.pos = e.buf.Len()
	}
	start := e.lineStartBefore(e.pos)
	line := 0
	oldTop := e.top
	topLine := -1
	for p := 0; p < start; {
		nl := e.buf.FindForward(p, isNL)
		if nl < 0 || nl >= start {
			break
		}
		if p == oldTop.Pos {
			topLine = line
		}
		line++
		p = nl + 1
	}
	if oldTop.Pos == start {
		topLine = line
	}
	e.cur = LineRef{Pos: start, Line: line}
	valid := oldTop.Pos <= start && topLine >= 0 &&
		(oldTop.Pos == 0 || (oldTop.Pos <= e.buf.Len() && oldTop.Pos > 0 && e.buf.Get(oldTop.Pos-1) == '\n'))
	if valid {
		e.top = LineRef{Pos: oldTop.Pos, Line: topLine}
	} else {
		e.centerView()
		return
	}
	e.ensureVisible()
}

// centerView places the cursor line in the middle of the view.
func (e *Editor) centerView() {
	back := (e.rows - 1) / 2
	t := e.cur
	for i := 0; i < back; i++ {
		prev := e.prevLineStart(t.Pos)
		if prev < 0 {
			break
		}
		t = LineRef{Pos: prev, Line: t.Line - 1}
	}
	e.top = t
}

// CheckAnchors verifies the two-anchor invariants; used by tests.
func (e *Editor) CheckAnchors() error {
	if e.top.Pos != 0 && e.buf.Get(e.top.Pos-1) != '\n' {
		return errors.New("top anchor does not start a line")
	}
	if e.cur.Pos != 0 && e.buf.Get(e.cur.Pos-1) != '\n' {
		return errors.New("cursor anchor does not start a line")
	}
	if e.cur.Pos > e.pos {
		return errors.New("cursor anchor beyond cursor")
	}
	if e.pos > e.buf.Len() {
		return errors.New("cursor beyond buffer")
	}
	return nil
}
