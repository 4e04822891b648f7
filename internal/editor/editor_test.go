// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/editor/editor_test.go
// Summary: Editor primitives: anchors, motion, mutation, history laws.

package editor

import (
	"strings"
	"testing"
)

const def = 252

func newEd(t *testing.T, content string, rows, cols int) *Editor {
	t.Helper()
	e := New("test", content, def)
	e.SetView(rows, cols)
	if err := e.CheckAnchors(); err != nil {
		t.Fatalf("fresh editor anchors: %v", err)
	}
	return e
}

func mustAnchors(t *testing.T, e *Editor) {
	t.Helper()
	if err := e.CheckAnchors(); err != nil {
		t.Fatalf("anchors: %v", err)
	}
	if e.Spans().Total() != e.Buf().Len() {
		t.Fatalf("spans cover %d of %d", e.Spans().Total(), e.Buf().Len())
	}
}

func TestTypeAndDeleteScenario(t *testing.T) {
	e := newEd(t, "", 10, 40)
	for _, r := range "abc" {
		if err := e.InsertRune(r); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := e.RemoveBefore(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := e.RemoveBefore(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := e.Buf().String(); got != "a" {
		t.Fatalf("content %q", got)
	}
	if e.Pos() != 1 {
		t.Fatalf("cursor %d", e.Pos())
	}
	if !e.Dirty() {
		t.Fatalf("expected dirty")
	}
	if e.UndoLen() != 3 {
		t.Fatalf("undo log length %d", e.UndoLen())
	}
	mustAnchors(t, e)
}

func TestMoveDownUpRoundTrip(t *testing.T) {
	e := newEd(t, "hello\nworld", 10, 40)
	for i := 0; i < 3; i++ {
		e.MoveRight()
	}
	if e.Pos() != 3 {
		t.Fatalf("pos %d", e.Pos())
	}
	e.MoveDown()
	if e.Pos() != 9 {
		t.Fatalf("MoveDown -> %d, want 9", e.Pos())
	}
	e.MoveUp()
	if e.Pos() != 3 {
		t.Fatalf("MoveUp -> %d, want 3", e.Pos())
	}
	mustAnchors(t, e)
}

func TestMoveAcrossLineBreaks(t *testing.T) {
	e := newEd(t, "ab\ncd", 10, 40)
	for i := 0; i < 3; i++ {
		e.MoveRight()
	}
	if e.Cur().Line != 1 || e.Cur().Pos != 3 {
		t.Fatalf("cur = %+v", e.Cur())
	}
	e.MoveLeft()
	if e.Cur().Line != 0 || e.Cur().Pos != 0 || e.Pos() != 2 {
		t.Fatalf("cur = %+v pos = %d", e.Cur(), e.Pos())
	}
	mustAnchors(t, e)
}

func TestClampAtEnds(t *testing.T) {
	e := newEd(t, "x", 10, 40)
	e.MoveLeft()
	if e.Pos() != 0 {
		t.Fatalf("pos %d", e.Pos())
	}
	e.MoveRight()
	e.MoveRight()
	if e.Pos() != 1 {
		t.Fatalf("pos %d", e.Pos())
	}
}

func TestStickyColumn(t *testing.T) {
	e := newEd(t, "longer line\nab\nanother long", 10, 40)
	e.MoveEnd() // col 11
	e.MoveDown()
	if e.Pos() != e.Cur().Pos+2 {
		t.Fatalf("short line should clamp, pos %d cur %+v", e.Pos(), e.Cur())
	}
	e.MoveDown()
	if got := e.Pos() - e.Cur().Pos; got != 11 {
		t.Fatalf("sticky column lost: col %d", got)
	}
}

func TestWrappedLineVerticalMotion(t *testing.T) {
	e := newEd(t, strings.Repeat("x", 25)+"\nend", 10, 10)
	e.MoveDown() // into second visual row of the wrapped line
	if e.Pos() != 10 || e.Cur().Pos != 0 {
		t.Fatalf("pos %d cur %+v", e.Pos(), e.Cur())
	}
	e.MoveDown()
	if e.Pos() != 20 {
		t.Fatalf("pos %d", e.Pos())
	}
	e.MoveDown() // leaves the logical line
	if e.Cur().Line != 1 {
		t.Fatalf("cur %+v", e.Cur())
	}
	mustAnchors(t, e)
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("line\n")
	}
	e := newEd(t, sb.String(), 5, 40)
	for i := 0; i < 20; i++ {
		e.MoveDown()
	}
	if e.Cur().Line != 20 {
		t.Fatalf("cur %+v", e.Cur())
	}
	if e.Cur().Line-e.Top().Line >= 5 {
		t.Fatalf("cursor scrolled out: top %+v cur %+v", e.Top(), e.Cur())
	}
	if e.Top().Line != 16 {
		t.Fatalf("top should trail one view height: %+v", e.Top())
	}
	mustAnchors(t, e)
}

func TestGotoLineCenters(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10000; i++ {
		sb.WriteString("n\n")
	}
	rows := 24
	e := newEd(t, sb.String(), rows, 80)
	e.GotoLine(5000)
	if e.Cur().Line != 4999 {
		t.Fatalf("cur %+v", e.Cur())
	}
	want := 4999 - (rows-1)/2
	if e.Top().Line != want {
		t.Fatalf("top line %d, want %d", e.Top().Line, want)
	}
	mustAnchors(t, e)
}

func TestUndoInsertIsIdentity(t *testing.T) {
	e := newEd(t, "base", 10, 40)
	e.SetDirty(false)
	e.MoveEnd()
	pos := e.Pos()
	if err := e.InsertSlice([]rune("+tail")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !e.Undo() {
		t.Fatalf("undo failed")
	}
	if got := e.Buf().String(); got != "base" {
		t.Fatalf("content %q", got)
	}
	if e.Pos() != pos {
		t.Fatalf("cursor %d, want %d", e.Pos(), pos)
	}
	if e.Dirty() {
		t.Fatalf("dirty flag not restored")
	}
	mustAnchors(t, e)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := newEd(t, "one\ntwo\nthree", 10, 40)
	e.MoveDown()
	if err := e.RemoveToEOL(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	after := e.Buf().String()
	if !e.Undo() {
		t.Fatalf("undo failed")
	}
	if e.Buf().String() != "one\ntwo\nthree" {
		t.Fatalf("undo content %q", e.Buf().String())
	}
	if !e.Redo() {
		t.Fatalf("redo failed")
	}
	if e.Buf().String() != after {
		t.Fatalf("redo content %q", e.Buf().String())
	}
	if !e.Undo() {
		t.Fatalf("second undo failed")
	}
	if e.Buf().String() != "one\ntwo\nthree" {
		t.Fatalf("second undo content %q", e.Buf().String())
	}
	mustAnchors(t, e)
}

func TestNewMutationClearsRedo(t *testing.T) {
	e := newEd(t, "", 10, 40)
	_ = e.InsertRune('a')
	e.Undo()
	if e.RedoLen() != 1 {
		t.Fatalf("redo len %d", e.RedoLen())
	}
	_ = e.InsertRune('b')
	if e.RedoLen() != 0 {
		t.Fatalf("redo not cleared")
	}
}

func TestUndoOnEmptyLogIsNoop(t *testing.T) {
	e := newEd(t, "abc", 10, 40)
	if e.Undo() {
		t.Fatalf("undo on empty log succeeded")
	}
	if e.Redo() {
		t.Fatalf("redo on empty log succeeded")
	}
}

func TestReadonlyRejectsMutation(t *testing.T) {
	e := newEd(t, "abc", 10, 40)
	e.Readonly = true
	if err := e.InsertRune('x'); err != ErrReadonly {
		t.Fatalf("expected ErrReadonly, got %v", err)
	}
	if err := e.RemoveBefore(); err != nil {
		// RemoveBefore at pos 0 is a clamp no-op even when readonly.
		t.Fatalf("unexpected error: %v", err)
	}
	e.MoveRight()
	if err := e.RemoveBefore(); err != ErrReadonly {
		t.Fatalf("expected ErrReadonly, got %v", err)
	}
	if e.Buf().String() != "abc" {
		t.Fatalf("readonly buffer changed")
	}
}

func TestSelectionAndCopyCutPaste(t *testing.T) {
	e := newEd(t, "alpha beta", 10, 40)
	e.SetMark()
	for i := 0; i < 5; i++ {
		e.MoveRight()
	}
	lo, hi, ok := e.Selection()
	if !ok || lo != 0 || hi != 5 {
		t.Fatalf("selection %d..%d %v", lo, hi, ok)
	}
	got := e.Copy()
	if string(got) != "alpha" {
		t.Fatalf("copy %q", string(got))
	}
	if _, ok := e.Mark(); ok {
		t.Fatalf("copy should clear the mark")
	}

	e.MoveEnd()
	if err := e.Paste(got); err != nil {
		t.Fatalf("paste: %v", err)
	}
	if e.Buf().String() != "alpha betaalpha" {
		t.Fatalf("content %q", e.Buf().String())
	}
	mustAnchors(t, e)
}

func TestCutWithoutMarkTakesLine(t *testing.T) {
	e := newEd(t, "one\ntwo\nthree", 10, 40)
	e.MoveDown()
	cut, err := e.Cut()
	if err != nil {
		t.Fatalf("cut: %v", err)
	}
	if string(cut) != "two\n" {
		t.Fatalf("cut %q", string(cut))
	}
	if e.Buf().String() != "one\nthree" {
		t.Fatalf("content %q", e.Buf().String())
	}
	if e.Cur().Line != 1 {
		t.Fatalf("cur %+v", e.Cur())
	}
	mustAnchors(t, e)
}

func TestRemoveToBOLAndEOL(t *testing.T) {
	e := newEd(t, "abcdef", 10, 40)
	for i := 0; i < 3; i++ {
		e.MoveRight()
	}
	if err := e.RemoveToBOL(); err != nil {
		t.Fatalf("bol: %v", err)
	}
	if e.Buf().String() != "def" || e.Pos() != 0 {
		t.Fatalf("content %q pos %d", e.Buf().String(), e.Pos())
	}
	e.MoveRight()
	if err := e.RemoveToEOL(); err != nil {
		t.Fatalf("eol: %v", err)
	}
	if e.Buf().String() != "d" {
		t.Fatalf("content %q", e.Buf().String())
	}
	mustAnchors(t, e)
}

func TestInsertTabModes(t *testing.T) {
	e := newEd(t, "", 10, 40)
	e.TabHard = true
	_ = e.InsertTab()
	if e.Buf().String() != "\t" {
		t.Fatalf("hard tab %q", e.Buf().String())
	}

	e2 := newEd(t, "ab", 10, 40)
	e2.TabSize = 4
	e2.MoveRight()
	e2.MoveRight()
	_ = e2.InsertTab()
	if e2.Buf().String() != "ab  " {
		t.Fatalf("soft tab %q", e2.Buf().String())
	}
}

func TestSearchLiteralAndRegex(t *testing.T) {
	e := newEd(t, "foo bar foo baz FOO", 10, 40)
	ms, err := e.FindMatches(SearchSpec{Term: "foo", CaseSensitive: true})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(ms) != 2 || ms[0].Pos != 0 || ms[1].Pos != 8 {
		t.Fatalf("matches %+v", ms)
	}
	ms, _ = e.FindMatches(SearchSpec{Term: "foo"})
	if len(ms) != 3 {
		t.Fatalf("case-insensitive matches %+v", ms)
	}
	ms, err = e.FindMatches(SearchSpec{Term: `b.r`, Regex: true})
	if err != nil || len(ms) != 1 || ms[0].Pos != 4 {
		t.Fatalf("regex matches %+v err %v", ms, err)
	}
	if _, err := e.FindMatches(SearchSpec{Term: `(`, Regex: true}); err == nil {
		t.Fatalf("bad regex accepted")
	}
}

func TestNextMatchWraps(t *testing.T) {
	ms := []Match{{Pos: 10, Len: 3}, {Pos: 50, Len: 3}, {Pos: 90, Len: 3}}
	m, ok := NextMatch(ms, 0, true)
	if !ok || m.Pos != 10 {
		t.Fatalf("m %+v", m)
	}
	m, _ = NextMatch(ms, 90, true)
	if m.Pos != 10 {
		t.Fatalf("wrap forward %+v", m)
	}
	m, _ = NextMatch(ms, 10, false)
	if m.Pos != 90 {
		t.Fatalf("wrap backward %+v", m)
	}
}

func TestResizeReclampsCursor(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("row\n")
	}
	e := newEd(t, sb.String(), 20, 80)
	for i := 0; i < 15; i++ {
		e.MoveDown()
	}
	top := e.Top()
	e.SetView(5, 80)
	e.ClampIntoView()
	if e.Cur().Line-e.Top().Line >= 5 {
		t.Fatalf("cursor outside shrunk view: top %+v cur %+v", e.Top(), e.Cur())
	}
	_ = top
	mustAnchors(t, e)
}
