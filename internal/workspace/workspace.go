// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/workspace/workspace.go
// Summary: Vertical tiling of windows with proportional resize and a
// single echo row at the bottom of the terminal.

package workspace

import (
	"log"

	"github.com/framegrace/ped/internal/editor"
)

// Workspace tiles windows top to bottom. Every window gets a banner row;
// the bottom terminal row is reserved for the echo line.
type Workspace struct {
	rows, cols int
	windows    []*Window
	focus      int
}

// New creates a workspace for a rows × cols terminal.
func New(rows, cols int) *Workspace {
	return &Workspace{rows: rows, cols: cols}
}

// Rows returns the terminal height.
func (ws *Workspace) Rows() int { return ws.rows }

// Cols returns the terminal width.
func (ws *Workspace) Cols() int { return ws.cols }

// Windows returns the windows in top-to-bottom order.
func (ws *Workspace) Windows() []*Window { return ws.windows }

// Count returns the number of windows.
func (ws *Workspace) Count() int { return len(ws.windows) }

// EchoRow returns the terminal row owned by the echo line.
func (ws *Workspace) EchoRow() int { return ws.rows - 1 }

// Focused returns the focused window, or nil when empty.
func (ws *Workspace) Focused() *Window {
	if len(ws.windows) == 0 {
		return nil
	}
	return ws.windows[ws.focus]
}

// FocusIndex returns the index of the focused window.
func (ws *Workspace) FocusIndex() int { return ws.focus }

// layout distributes rows: each window is floor(available/n) tall
// including its banner, remainder to the top window.
func (ws *Workspace) layout() {
	n := len(ws.windows)
	if n == 0 {
		return
	}
	available := ws.rows - 1 // echo row
	base := available / n
	rem := available - base*n
	if base < 2 {
		// Too many windows for the terminal; the minimum is one text row
		// plus the banner.
		log.Printf("workspace: %d windows in %d rows leaves panes under minimum", n, ws.rows)
		base = 2
		rem = 0
	}
	row := 0
	for i, w := range ws.windows {
		h := base
		if i == 0 {
			h += rem
		}
		w.Layout(row, 0, h-1, ws.cols)
		row += h
	}
	ws.updateBanners()
}

// updateBanners marks only the focused window's banner active.
func (ws *Workspace) updateBanners() {
	for i, w := range ws.windows {
		w.BannerActive = i == ws.focus
	}
}

// AddInitial installs the first window.
func (ws *Workspace) AddInitial(w *Window) {
	ws.windows = []*Window{w}
	ws.focus = 0
	ws.layout()
}

// CanSplit reports whether another window still fits.
func (ws *Workspace) CanSplit() bool {
	return (ws.rows-1)/(len(ws.windows)+1) >= 2
}

// insertAt places a window at index i and focuses it.
func (ws *Workspace) insertAt(i int, w *Window) {
	ws.windows = append(ws.windows, nil)
	copy(ws.windows[i+1:], ws.windows[i:])
	ws.windows[i] = w
	ws.focus = i
	ws.layout()
}

// SplitTop opens ed in a new window at the top of the stack.
func (ws *Workspace) SplitTop(ed *editor.Editor) *Window {
	w := NewWindow(ed)
	ws.insertAt(0, w)
	return w
}

// SplitBottom opens ed in a new window at the bottom of the stack.
func (ws *Workspace) SplitBottom(ed *editor.Editor) *Window {
	w := NewWindow(ed)
	ws.insertAt(len(ws.windows), w)
	return w
}

// SplitAbove opens ed directly above the focused window.
func (ws *Workspace) SplitAbove(ed *editor.Editor) *Window {
	w := NewWindow(ed)
	ws.insertAt(ws.focus, w)
	return w
}

// SplitBelow opens ed directly below the focused window.
func (ws *Workspace) SplitBelow(ed *editor.Editor) *Window {
	w := NewWindow(ed)
	ws.insertAt(ws.focus+1, w)
	return w
}

// CloseCurrent removes the focused window and returns the remaining
// count. Closing the last window returns zero; the controller quits.
func (ws *Workspace) CloseCurrent() int {
	if len(ws.windows) == 0 {
		return 0
	}
	i := ws.focus
	ws.windows = append(ws.windows[:i], ws.windows[i+1:]...)
	if ws.focus >= len(ws.windows) && ws.focus > 0 {
		ws.focus--
	}
	ws.layout()
	return len(ws.windows)
}

// CloseOthers keeps only the focused window.
func (ws *Workspace) CloseOthers() {
	if len(ws.windows) <= 1 {
		return
	}
	ws.windows = []*Window{ws.windows[ws.focus]}
	ws.focus = 0
	ws.layout()
}

// FocusTop focuses the top window.
func (ws *Workspace) FocusTop() {
	ws.focus = 0
	ws.updateBanners()
}

// FocusBottom focuses the bottom window.
func (ws *Workspace) FocusBottom() {
	if len(ws.windows) > 0 {
		ws.focus = len(ws.windows) - 1
	}
	ws.updateBanners()
}

// FocusPrev cycles focus upward.
func (ws *Workspace) FocusPrev() {
	if len(ws.windows) == 0 {
		return
	}
	ws.focus = (ws.focus - 1 + len(ws.windows)) % len(ws.windows)
	ws.updateBanners()
}

// FocusNext cycles focus downward.
func (ws *Workspace) FocusNext() {
	if len(ws.windows) == 0 {
		return
	}
	ws.focus = (ws.focus + 1) % len(ws.windows)
	ws.updateBanners()
}

// FocusWindow focuses w if it is tiled here.
func (ws *Workspace) FocusWindow(w *Window) {
	for i, win := range ws.windows {
		if win == w {
			ws.focus = i
			ws.updateBanners()
			return
		}
	}
}

// WindowAt returns the window whose region (text or banner) contains the
// terminal row, or nil for the echo row.
func (ws *Workspace) WindowAt(row int) *Window {
	for _, w := range ws.windows {
		if row >= w.OriginRow && row <= w.OriginRow+w.Rows {
			return w
		}
	}
	return nil
}

// Resize recomputes the tiling for a new terminal geometry. Top anchors
// are untouched; cursors are re-clamped into the shrunk views.
func (ws *Workspace) Resize(rows, cols int) {
	ws.rows, ws.cols = rows, cols
	ws.layout()
	for _, w := range ws.windows {
		w.Ed.ClampIntoView()
	}
}

// TotalRowsUsed sums window text rows plus banners plus the echo row;
// equal to the terminal height by construction.
func (ws *Workspace) TotalRowsUsed() int {
	total := 1 // echo
	for _, w := range ws.windows {
		total += w.Rows + 1
	}
	return total
}
