// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/canvas/canvas_test.go
// Summary: Exercises the differential flush and its guarantees.

package canvas

import (
	"strings"
	"testing"
)

func TestFlushMakesFrontEqualBack(t *testing.T) {
	c := New(4, 10)
	c.WriteAt(1, 2, Cell{Ch: 'a', Fg: 15, Bg: 0})
	c.WriteAt(3, 9, Cell{Ch: 'z', Fg: 7, Bg: ColorDefault})
	c.SetCursor(1, 3)
	out := c.Flush()
	if len(out) == 0 {
		t.Fatalf("expected output bytes")
	}
	if !c.FrontEqualsBack() {
		t.Fatalf("front != back after flush")
	}
}

func TestFlushEmitsNothingForCleanRows(t *testing.T) {
	c := New(3, 5)
	c.WriteAt(0, 0, Cell{Ch: 'x', Fg: 1, Bg: 2})
	c.Flush()

	// Second flush with no writes: only cursor positioning remains.
	out := string(c.Flush())
	if strings.Contains(out, "x") {
		t.Fatalf("clean flush re-emitted cell content: %q", out)
	}
}

func TestFlushSkipsUnchangedGap(t *testing.T) {
	c := New(1, 40)
	for col := 0; col < 40; col++ {
		c.WriteAt(0, col, Cell{Ch: 'a', Fg: 7, Bg: 0})
	}
	c.Flush()

	// Change two cells far apart; the flush must reposition, not rewrite
	// the 29-cell unchanged run between them.
	c.WriteAt(0, 0, Cell{Ch: 'b', Fg: 7, Bg: 0})
	c.WriteAt(0, 30, Cell{Ch: 'c', Fg: 7, Bg: 0})
	out := string(c.Flush())
	if got := strings.Count(out, "a"); got > moveGapThreshold {
		t.Fatalf("flush rewrote %d unchanged cells: %q", got, out)
	}
	if !strings.Contains(out, "b") || !strings.Contains(out, "c") {
		t.Fatalf("changed cells missing from output: %q", out)
	}
	if !c.FrontEqualsBack() {
		t.Fatalf("front != back after flush")
	}
}

func TestPenChangesOnlyWhenNeeded(t *testing.T) {
	c := New(1, 6)
	for col := 0; col < 6; col++ {
		c.WriteAt(0, col, Cell{Ch: 'x', Fg: 3, Bg: 4})
	}
	out := string(c.Flush())
	if got := strings.Count(out, "38;5;3"); got != 1 {
		t.Fatalf("expected one pen selection, saw %d: %q", got, out)
	}
}

func TestFlushPositionsHardwareCursor(t *testing.T) {
	c := New(5, 5)
	c.SetCursor(2, 3)
	out := string(c.Flush())
	if !strings.HasSuffix(out, "\x1b[3;4H\x1b[?25h") {
		t.Fatalf("flush did not finish at the cursor: %q", out)
	}
}

func TestResizeForcesFullRepaint(t *testing.T) {
	c := New(2, 2)
	c.WriteAt(0, 0, Cell{Ch: 'a', Fg: 1, Bg: 1})
	c.Flush()

	c.Resize(2, 3)
	c.Fill(Rect{0, 0, 2, 3}, Blank(ColorDefault, ColorDefault))
	out := string(c.Flush())
	// All six cells repaint after a resize.
	if got := strings.Count(out, " "); got != 6 {
		t.Fatalf("expected 6 blank cells after resize, saw %d: %q", got, out)
	}
	if !c.FrontEqualsBack() {
		t.Fatalf("front != back after resize flush")
	}
}

func TestAttributeEmission(t *testing.T) {
	c := New(1, 2)
	c.WriteAt(0, 0, Cell{Ch: 'q', Fg: 2, Bg: ColorDefault, At: AttrBold | AttrUnderline})
	out := string(c.Flush())
	if !strings.Contains(out, "\x1b[0;1;4;38;5;2m") {
		t.Fatalf("attribute sequence missing: %q", out)
	}
}

func TestWideRuneClaimsContinuation(t *testing.T) {
	c := New(1, 4)
	c.WriteAt(0, 0, Cell{Ch: '世', Fg: 7, Bg: 0})
	c.WriteAt(0, 2, Cell{Ch: 'a', Fg: 7, Bg: 0})
	out := string(c.Flush())
	if !strings.Contains(out, "世") || !strings.Contains(out, "a") {
		t.Fatalf("wide rune output wrong: %q", out)
	}
	if c.back.At(0, 1).Ch != 0 {
		t.Fatalf("continuation cell not claimed")
	}
	if !c.FrontEqualsBack() {
		t.Fatalf("front != back after flush")
	}
}

func TestFillMarksRegionDirty(t *testing.T) {
	c := New(3, 3)
	c.Flush()
	c.Fill(Rect{1, 0, 2, 3}, Cell{Ch: '.', Fg: 8, Bg: 0})
	out := string(c.Flush())
	if got := strings.Count(out, "."); got != 6 {
		t.Fatalf("expected 6 filled cells, saw %d", got)
	}
}
