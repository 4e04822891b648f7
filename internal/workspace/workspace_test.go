// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/workspace/workspace_test.go
// Summary: Tiling arithmetic, focus movement, and resize behavior.

package workspace

import (
	"testing"

	"github.com/framegrace/ped/internal/editor"
)

func newWs(t *testing.T, rows, cols, windows int) *Workspace {
	t.Helper()
	ws := New(rows, cols)
	ws.AddInitial(NewWindow(editor.New("a", "one\ntwo\nthree\n", 252)))
	for i := 1; i < windows; i++ {
		ws.SplitBottom(editor.New("b", "alpha\nbeta\n", 252))
	}
	return ws
}

func checkTiling(t *testing.T, ws *Workspace) {
	t.Helper()
	if got := ws.TotalRowsUsed(); got != ws.Rows() {
		t.Fatalf("rows used %d != terminal rows %d", got, ws.Rows())
	}
	row := 0
	for i, w := range ws.Windows() {
		if w.OriginRow != row {
			t.Fatalf("window %d origin %d, want %d", i, w.OriginRow, row)
		}
		if w.Cols != ws.Cols() {
			t.Fatalf("window %d cols %d", i, w.Cols)
		}
		row += w.Rows + 1
	}
	if row != ws.EchoRow() {
		t.Fatalf("windows end at %d, echo row is %d", row, ws.EchoRow())
	}
}

func TestSingleWindowTiling(t *testing.T) {
	ws := newWs(t, 24, 80, 1)
	checkTiling(t, ws)
	w := ws.Focused()
	if w.Rows != 22 { // 24 - banner - echo
		t.Fatalf("rows %d", w.Rows)
	}
}

func TestRemainderGoesToTop(t *testing.T) {
	ws := newWs(t, 24, 80, 3)
	checkTiling(t, ws)
	wins := ws.Windows()
	// 23 rows for windows: 7 each with remainder 2 to the top.
	if wins[0].Rows+1 != 9 || wins[1].Rows+1 != 7 || wins[2].Rows+1 != 7 {
		t.Fatalf("heights %d %d %d", wins[0].Rows+1, wins[1].Rows+1, wins[2].Rows+1)
	}
}

func TestResizePreservesTopAnchors(t *testing.T) {
	ws := newWs(t, 24, 80, 3)
	tops := make([]editor.LineRef, 3)
	for i, w := range ws.Windows() {
		tops[i] = w.Ed.Top()
	}
	ws.Resize(10, 80)
	checkTiling(t, ws)
	for i, w := range ws.Windows() {
		if w.Ed.Top() != tops[i] {
			t.Fatalf("window %d top changed: %+v -> %+v", i, tops[i], w.Ed.Top())
		}
		row := w.Ed.Cur().Line - w.Ed.Top().Line
		if row >= w.Ed.Rows() {
			t.Fatalf("window %d cursor outside view", i)
		}
	}
}

func TestSplitPlacements(t *testing.T) {
	ws := newWs(t, 40, 80, 1)
	first := ws.Focused()
	above := ws.SplitAbove(editor.New("above", "", 252))
	if ws.Windows()[0] != above || ws.Focused() != above {
		t.Fatalf("SplitAbove misplaced")
	}
	below := ws.SplitBelow(editor.New("below", "", 252))
	if ws.Windows()[1] != below {
		t.Fatalf("SplitBelow misplaced")
	}
	top := ws.SplitTop(editor.New("top", "", 252))
	if ws.Windows()[0] != top {
		t.Fatalf("SplitTop misplaced")
	}
	bottom := ws.SplitBottom(editor.New("bottom", "", 252))
	if ws.Windows()[len(ws.Windows())-1] != bottom {
		t.Fatalf("SplitBottom misplaced")
	}
	checkTiling(t, ws)
	_ = first
}

func TestFocusCycling(t *testing.T) {
	ws := newWs(t, 40, 80, 3)
	ws.FocusTop()
	if ws.FocusIndex() != 0 {
		t.Fatalf("focus %d", ws.FocusIndex())
	}
	ws.FocusPrev()
	if ws.FocusIndex() != 2 {
		t.Fatalf("FocusPrev did not wrap: %d", ws.FocusIndex())
	}
	ws.FocusNext()
	if ws.FocusIndex() != 0 {
		t.Fatalf("FocusNext did not wrap: %d", ws.FocusIndex())
	}
	ws.FocusBottom()
	if ws.FocusIndex() != 2 {
		t.Fatalf("focus %d", ws.FocusIndex())
	}
	if !ws.Windows()[2].BannerActive || ws.Windows()[0].BannerActive {
		t.Fatalf("banner active flags wrong")
	}
}

func TestCloseCurrentAndOthers(t *testing.T) {
	ws := newWs(t, 40, 80, 3)
	ws.FocusBottom()
	if got := ws.CloseCurrent(); got != 2 {
		t.Fatalf("remaining %d", got)
	}
	if ws.FocusIndex() != 1 {
		t.Fatalf("focus %d", ws.FocusIndex())
	}
	checkTiling(t, ws)
	ws.CloseOthers()
	if ws.Count() != 1 {
		t.Fatalf("count %d", ws.Count())
	}
	checkTiling(t, ws)
	if got := ws.CloseCurrent(); got != 0 {
		t.Fatalf("closing last window left %d", got)
	}
}

func TestWindowAt(t *testing.T) {
	ws := newWs(t, 24, 80, 2)
	wins := ws.Windows()
	if got := ws.WindowAt(0); got != wins[0] {
		t.Fatalf("row 0 -> %v", got)
	}
	if got := ws.WindowAt(wins[1].OriginRow); got != wins[1] {
		t.Fatalf("second window not found")
	}
	if got := ws.WindowAt(ws.EchoRow()); got != nil {
		t.Fatalf("echo row returned a window")
	}
}

func TestLineNumberOverflow(t *testing.T) {
	if got := lineNumber(42); got != "   42" {
		t.Fatalf("lineNumber(42) = %q", got)
	}
	if got := lineNumber(99999); got != "99999" {
		t.Fatalf("lineNumber(99999) = %q", got)
	}
	if got := lineNumber(123456); got != "--456" {
		t.Fatalf("lineNumber(123456) = %q", got)
	}
}
