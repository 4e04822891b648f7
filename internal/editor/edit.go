// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/editor/edit.go
// Summary: Buffer mutation primitives: insert, remove, selection, tab
// handling. Every mutation adjusts spans, records history, and marks the
// buffer for rescan.

package editor

// countNL counts line breaks in rs.
func countNL(rs []rune) int {
	n := 0
	for _, r := range rs {
		if r == '\n' {
			n++
		}
	}
	return n
}

// markShiftInsert keeps the mark stable across an insertion at p.
func (e *Editor) markShiftInsert(p, k int) {
	if e.mark >= p {
		e.mark += k
	}
}

// markShiftRemove keeps the mark stable across a removal of [from,
// from+k), collapsing marks inside the range onto its start.
func (e *Editor) markShiftRemove(from, k int) {
	switch {
	case e.mark < 0 || e.mark <= from:
	case e.mark >= from+k:
		e.mark -= k
	default:
		e.mark = from
	}
}

// touch flags the buffer modified and its spans stale.
func (e *Editor) touch() {
	e.dirty = true
	e.spans.SetNeedsRescan(true)
	e.desired = -1
	e.version++
}

// InsertRune inserts one scalar at the cursor.
func (e *Editor) InsertRune(r rune) error {
	if e.Readonly {
		return ErrReadonly
	}
	e.recordInsert(e.pos, []rune{r}, r != '\n')
	e.buf.Insert(e.pos, r)
	e.spans.ExpandAt(e.pos, 1, e.defColor)
	e.markShiftInsert(e.pos, 1)
	e.pos++
	if r == '\n' {
		e.cur = LineRef{Pos: e.pos, Line: e.cur.Line + 1}
	}
	e.touch()
	e.ensureVisible()
	return nil
}

// InsertBreak inserts a line break.
func (e *Editor) InsertBreak() error {
	return e.InsertRune('\n')
}

// InsertTab inserts a literal tab or spaces to the next tab stop,
// depending on the tab mode.
func (e *Editor) InsertTab() error {
	if e.Readonly {
		return ErrReadonly
	}
	if e.TabHard {
		return e.InsertRune('\t')
	}
	n := e.TabSize - e.Column()%e.TabSize
	rs := make([]rune, n)
	for i := range rs {
		rs[i] = ' '
	}
	return e.InsertSlice(rs)
}

// InsertSlice inserts multiple scalars at the cursor as one undoable
// change.
func (e *Editor) InsertSlice(rs []rune) error {
	if e.Readonly {
		return ErrReadonly
	}
	if len(rs) == 0 {
		return nil
	}
	e.recordInsert(e.pos, rs, false)
	e.buf.InsertSlice(e.pos, rs)
	e.spans.ExpandAt(e.pos, len(rs), e.defColor)
	e.markShiftInsert(e.pos, len(rs))
	e.pos += len(rs)
	if n := countNL(rs); n > 0 {
		e.cur = LineRef{Pos: e.lineStartBefore(e.pos), Line: e.cur.Line + n}
	}
	e.touch()
	e.ensureVisible()
	return nil
}

// removeRange deletes [from, from+k) recording one undo entry, and
// leaves the cursor at from.
func (e *Editor) removeRange(from, k int) ([]rune, error) {
	if e.Readonly {
		return nil, ErrReadonly
	}
	oldCur := e.cur.Pos
	removed := e.buf.Remove(from, k)
	if len(removed) == 0 {
		return nil, nil
	}
	e.recordRemove(from, removed)
	e.spans.CollapseAt(from, len(removed))
	e.markShiftRemove(from, len(removed))
	// Line numbers before from are untouched; the cursor line drops only
	// by the breaks removed between from and the old line start.
	crossedBefore := 0
	if from < oldCur {
		upto := oldCur - from
		if upto > len(removed) {
			upto = len(removed)
		}
		crossedBefore = countNL(removed[:upto])
	}
	e.pos = from
	e.cur = LineRef{Pos: e.lineStartBefore(from), Line: e.cur.Line - crossedBefore}
	if from < e.top.Pos {
		e.top = e.cur
	}
	e.touch()
	e.ensureVisible()
	return removed, nil
}

// RemoveBefore deletes the scalar before the cursor.
func (e *Editor) RemoveBefore() error {
	if e.pos == 0 {
		return nil
	}
	_, err := e.removeRange(e.pos-1, 1)
	return err
}

// RemoveAfter deletes the scalar under the cursor.
func (e *Editor) RemoveAfter() error {
	if e.pos >= e.buf.Len() {
		return nil
	}
	_, err := e.removeRange(e.pos, 1)
	return err
}

// RemoveToBOL deletes from the start of the line to the cursor.
func (e *Editor) RemoveToBOL() error {
	if e.pos == e.cur.Pos {
		return nil
	}
	_, err := e.removeRange(e.cur.Pos, e.pos-e.cur.Pos)
	return err
}

// RemoveToEOL deletes from the cursor to the end of the line.
func (e *Editor) RemoveToEOL() error {
	end := e.lineEnd(e.pos)
	if end == e.pos {
		// At the line end: join with the next line instead.
		return e.RemoveAfter()
	}
	_, err := e.removeRange(e.pos, end-e.pos)
	return err
}

// SetMark records the selection mark at the cursor.
func (e *Editor) SetMark() {
	e.mark = e.pos
}

// UnsetMark clears the selection mark.
func (e *Editor) UnsetMark() {
	e.mark = -1
}

// Mark returns the mark position and whether it is set.
func (e *Editor) Mark() (int, bool) {
	return e.mark, e.mark >= 0
}

// Selection returns the selected range [lo, hi), or ok=false when no
// mark is set.
func (e *Editor) Selection() (lo, hi int, ok bool) {
	if e.mark < 0 {
		return 0, 0, false
	}
	lo, hi = e.mark, e.pos
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi > e.buf.Len() {
		hi = e.buf.Len()
	}
	return lo, hi, true
}

// copyRange resolves the scalars a copy or cut operates on: the
// selection when a mark is set, otherwise the whole current line
// including its break.
func (e *Editor) copyRange() (lo, hi int) {
	if lo, hi, ok := e.Selection(); ok {
		return lo, hi
	}
	lo = e.cur.Pos
	hi = e.lineEnd(e.pos)
	if hi < e.buf.Len() {
		hi++ // take the \n with the line
	}
	return lo, hi
}

// Copy returns the scalars a copy takes, clearing the mark.
func (e *Editor) Copy() []rune {
	lo, hi := e.copyRange()
	e.mark = -1
	return e.buf.Substring(lo, hi-lo)
}

// Cut removes and returns the copy range as a single undoable change.
func (e *Editor) Cut() ([]rune, error) {
	lo, hi := e.copyRange()
	e.mark = -1
	if hi == lo {
		return nil, nil
	}
	return e.removeRange(lo, hi-lo)
}

// Paste inserts previously copied scalars at the cursor.
func (e *Editor) Paste(rs []rune) error {
	return e.InsertSlice(rs)
}
