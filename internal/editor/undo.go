// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/editor/undo.go
// Summary: Reversible change log. Each record restores buffer content,
// cursor, and the dirty flag exactly.

package editor

// ChangeKind discriminates undo records.
type ChangeKind int

const (
	ChangeInsert ChangeKind = iota
	ChangeRemove
)

// Change is one reversible edit. PreDirty snapshots the dirty flag from
// before the edit so undo can restore it bit-exactly. typed marks a
// single-scalar insertion eligible for coalescing with the next one.
type Change struct {
	Kind     ChangeKind
	Pos      int
	Scalars  []rune
	PreDirty bool
	typed    bool
}

// UndoLen returns the number of undoable records.
func (e *Editor) UndoLen() int { return len(e.undo) }

// RedoLen returns the number of redoable records.
func (e *Editor) RedoLen() int { return len(e.redo) }

// recordInsert logs an insertion about to happen at pos. Consecutive
// typed scalars coalesce into one record so a burst of typing undoes as
// a unit. Any new change invalidates the redo stack.
func (e *Editor) recordInsert(pos int, rs []rune, typed bool) {
	e.redo = nil
	if typed && len(e.undo) > 0 {
		last := &e.undo[len(e.undo)-1]
		if last.Kind == ChangeInsert && last.typed && last.Pos+len(last.Scalars) == pos {
			last.Scalars = append(last.Scalars, rs...)
			return
		}
	}
	e.undo = append(e.undo, Change{
		Kind:     ChangeInsert,
		Pos:      pos,
		Scalars:  append([]rune(nil), rs...),
		PreDirty: e.dirty,
		typed:    typed,
	})
}

// recordRemove logs a removal that just happened at pos.
func (e *Editor) recordRemove(pos int, rs []rune) {
	e.redo = nil
	e.undo = append(e.undo, Change{
		Kind:     ChangeRemove,
		Pos:      pos,
		Scalars:  append([]rune(nil), rs...),
		PreDirty: e.dirty,
	})
}

// applyChange mutates the buffer without touching the history, moving
// the cursor to the end of the applied change.
func (e *Editor) applyChange(kind ChangeKind, pos int, rs []rune) {
	switch kind {
	case ChangeInsert:
		e.buf.InsertSlice(pos, rs)
		e.spans.ExpandAt(pos, len(rs), e.defColor)
		e.pos = pos + len(rs)
	case ChangeRemove:
		e.buf.Remove(pos, len(rs))
		e.spans.CollapseAt(pos, len(rs))
		e.pos = pos
	}
	e.mark = -1
	e.spans.SetNeedsRescan(true)
	e.version++
	e.reanchor()
}

// Undo reverses the most recent change. A no-op on an empty log.
func (e *Editor) Undo() bool {
	if len(e.undo) == 0 || e.Readonly {
		return false
	}
	c := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	switch c.Kind {
	case ChangeInsert:
		e.applyChange(ChangeRemove, c.Pos, c.Scalars)
		e.pos = c.Pos
	case ChangeRemove:
		e.applyChange(ChangeInsert, c.Pos, c.Scalars)
	}
	e.reanchor()
	// The change the record reversed left the buffer dirty; undoing it
	// restores the flag captured when the change was made.
	postDirty := e.dirty
	e.dirty = c.PreDirty
	c.PreDirty = postDirty
	e.redo = append(e.redo, c)
	return true
}

// Redo replays the most recently undone change.
func (e *Editor) Redo() bool {
	if len(e.redo) == 0 || e.Readonly {
		return false
	}
	c := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.applyChange(c.Kind, c.Pos, c.Scalars)
	postDirty := e.dirty
	e.dirty = c.PreDirty
	c.PreDirty = postDirty
	e.undo = append(e.undo, c)
	return true
}
