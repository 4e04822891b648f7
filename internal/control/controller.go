// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/control/controller.go
// Summary: Main loop: keystroke dispatch through the binding trie,
// modal routing, rendering, and idle-time tokenization.
// Usage: cmd/ped builds a Controller after acquiring the terminal and
// calls Run; Run returns when a quit action fires.
// Notes: Single-threaded cooperative: every keystroke is fully handled
// and flushed before the next is read. The tokenizer only runs in the
// poll gaps between keystrokes, one bounded slice at a time.

package control

import (
	"io"
	"log"
	"time"

	"github.com/framegrace/ped/internal/bind"
	"github.com/framegrace/ped/internal/canvas"
	"github.com/framegrace/ped/internal/editor"
	"github.com/framegrace/ped/internal/key"
	"github.com/framegrace/ped/internal/syntax"
	"github.com/framegrace/ped/internal/theming"
)

const (
	// pollInterval bounds the wait for a keystroke before an idle slice
	// runs.
	pollInterval = 30 * time.Millisecond
	// sliceBudget bounds one tokenizer slice; small enough to keep
	// keystroke latency well under the 10ms target.
	sliceBudget = 5 * time.Millisecond
)

// Controller owns the terminal session.
type Controller struct {
	env    *Env
	cv     *canvas.Canvas
	kb     *key.Keyboard
	binds  *bind.Bindings
	ops    *Registry
	out    io.Writer
	resize <-chan struct{}

	// Size queries the terminal geometry on resize; cmd/ped installs
	// the real ioctl-backed query.
	Size func() (rows, cols int)

	pending []key.Key
	modal   Modal

	scan        *syntax.Scanner
	scanEd      *editor.Editor
	scanVersion int

	quit bool
}

// NewController wires the main loop.
func NewController(env *Env, cv *canvas.Canvas, kb *key.Keyboard, binds *bind.Bindings, ops *Registry, out io.Writer, resize <-chan struct{}) *Controller {
	return &Controller{
		env:    env,
		cv:     cv,
		kb:     kb,
		binds:  binds,
		ops:    ops,
		out:    out,
		resize: resize,
	}
}

// Run processes keystrokes until quit.
func (c *Controller) Run() error {
	c.render()
	for !c.quit {
		select {
		case <-c.resize:
			c.handleResize()
			continue
		default:
		}
		k, ok := c.kb.Next(pollInterval)
		if !ok {
			c.idleSlice()
			continue
		}
		c.handleKey(k)
		c.render()
	}
	return nil
}

// handleResize recomputes the tiling and forces a full repaint.
func (c *Controller) handleResize() {
	rows, cols := c.sizeFn()
	log.Printf("controller: resize to %dx%d", rows, cols)
	c.cv.Resize(rows, cols)
	c.env.Ws.Resize(rows, cols)
	c.render()
}

func (c *Controller) sizeFn() (int, int) {
	if c.Size != nil {
		return c.Size()
	}
	return c.cv.Rows(), c.cv.Cols()
}

// handleKey routes one canonical key.
func (c *Controller) handleKey(k key.Key) {
	// Cancel is handled before anything else so it always works.
	if k == key.CtrlKey('g') {
		c.cancel()
		return
	}
	if k.Sym == key.SymResize {
		c.handleResize()
		return
	}
	if k.IsMouse() {
		c.handleMouse(k)
		return
	}
	if c.modal != nil {
		done, act, err := c.modal.HandleKey(c.env, k)
		if err != nil {
			c.env.Echo("%v", err)
		}
		if done {
			c.modal = nil
		}
		c.perform(act)
		return
	}
	c.env.ClearEcho()
	c.pending = append(c.pending, k)
	res := c.binds.Resolve(c.pending)
	switch res.Kind {
	case bind.Incomplete:
		c.env.Echo("%s-", key.FormatSequence(c.pending))
	case bind.Bound:
		c.pending = nil
		c.dispatch(res.Op)
	case bind.Unbound:
		seq := c.pending
		c.pending = nil
		if len(seq) == 1 && seq[0].Sym == key.SymRune && !seq[0].Ctrl && !seq[0].Meta {
			c.selfInsert(seq[0].Ch)
			return
		}
		c.env.Echo("%s is not bound", key.FormatSequence(seq))
	}
}

// cancel aborts an active modal if there is one, otherwise the pending
// sequence if there is one, otherwise runs the cancel operation, which
// clears the mark.
func (c *Controller) cancel() {
	if c.modal != nil {
		done, act, _ := c.modal.HandleKey(c.env, key.CtrlKey('g'))
		if done {
			c.modal = nil
		}
		c.perform(act)
		return
	}
	if len(c.pending) > 0 {
		c.pending = nil
		c.env.Echo("cancelled")
		return
	}
	c.dispatch("cancel")
}

// selfInsert types a printable scalar into the focused editor.
func (c *Controller) selfInsert(r rune) {
	ed := c.env.Focused()
	if ed == nil {
		return
	}
	if err := ed.InsertRune(r); err != nil {
		c.env.Echo("%s is readonly", ed.Name)
	}
}

// dispatch runs a named operation and carries out its action.
func (c *Controller) dispatch(op string) {
	fn, ok := c.ops.Lookup(op)
	if !ok {
		c.env.Echo("unknown operation %s", op)
		return
	}
	act, err := fn(c.env)
	if err != nil {
		c.env.Echo("%v", err)
		return
	}
	c.perform(act)
}

// perform carries out an operation's action.
func (c *Controller) perform(act Action) {
	switch a := act.(type) {
	case nil:
	case actQuit:
		c.quit = true
	case actEcho:
		c.env.Echo("%s", a.text)
	case actModal:
		c.modal = a.m
	}
}

// handleMouse routes scroll and click events to the window under the
// pointer. Scrolling works even while a question is active.
func (c *Controller) handleMouse(k key.Key) {
	w := c.env.Ws.WindowAt(k.Y - 1)
	if w == nil {
		return
	}
	switch k.Sym {
	case key.SymScrollUp:
		w.Ed.ScrollUp()
	case key.SymScrollDown:
		w.Ed.ScrollDown()
	case key.SymMousePress:
		if c.modal != nil {
			return
		}
		c.env.Ws.FocusWindow(w)
		if pos, ok := w.PosAt(k.Y-1, k.X-1); ok {
			w.Ed.MoveToPos(pos)
		}
	}
}

// idleSlice advances background tokenization by one bounded slice.
func (c *Controller) idleSlice() {
	ed := c.env.Focused()
	if ed == nil {
		return
	}
	// A stale scan (edited buffer or different editor) restarts.
	if c.scan != nil && (c.scanEd != ed || c.scanVersion != ed.Version()) {
		c.scan = nil
	}
	if c.scan == nil {
		if !ed.Spans().NeedsRescan() {
			return
		}
		c.startScan(ed)
		if c.scan == nil {
			return
		}
	}
	if c.scan.Step(sliceBudget) {
		if c.scanEd == ed && c.scanVersion == ed.Version() {
			ed.Spans().Replace(c.scan.Result())
			c.render()
		}
		c.scan = nil
	}
}

// startScan snapshots the buffer and picks the rule set: a local syntax
// definition when one matched the file, otherwise the chroma fallback
// runs synchronously (its lexers manage their own state).
func (c *Controller) startScan(ed *editor.Editor) {
	text := ed.Buf().String()
	def := ed.DefaultColor()
	if ed.Syntax != nil {
		c.scan = syntax.NewScanner(text, ed.Syntax.Rules, def)
		c.scanEd = ed
		c.scanVersion = ed.Version()
		return
	}
	if ed.Language != "" {
		if l := syntax.ChromaTokenize(text, ed.Language, c.env.Theme); l != nil {
			ed.Spans().Replace(l)
			c.render()
			return
		}
	}
	ed.Spans().SetNeedsRescan(false)
}

// render paints every window, the echo row, and flushes the diff.
func (c *Controller) render() {
	for _, w := range c.env.Ws.Windows() {
		w.Render(c.cv, c.env.Theme)
	}
	c.renderEcho()
	c.placeCursor()
	if _, err := c.out.Write(c.cv.Flush()); err != nil {
		log.Printf("controller: terminal write failed: %v", err)
	}
}

// renderEcho paints the echo row: an active modal's line or the pending
// message.
func (c *Controller) renderEcho() {
	ws := c.env.Ws
	row := ws.EchoRow()
	fg := c.env.Theme.Color(theming.SlotEchoFg)
	bg := canvas.ColorDefault
	c.cv.Fill(canvas.Rect{Row: row, Col: 0, Rows: 1, Cols: ws.Cols()}, canvas.Blank(fg, bg))

	text := c.env.EchoText()
	if c.modal != nil {
		text, _ = c.modal.Line()
	}
	col := 0
	for _, r := range text {
		if col >= ws.Cols() {
			break
		}
		c.cv.WriteAt(row, col, canvas.Cell{Ch: r, Fg: fg, Bg: bg})
		col++
	}
}

// placeCursor puts the hardware cursor in the echo row during a modal,
// otherwise on the focused editor's cursor cell.
func (c *Controller) placeCursor() {
	if c.modal != nil {
		_, cursor := c.modal.Line()
		ws := c.env.Ws
		if cursor > ws.Cols()-1 {
			cursor = ws.Cols() - 1
		}
		c.cv.SetCursor(ws.EchoRow(), cursor)
		return
	}
	w := c.env.Ws.Focused()
	if w == nil {
		return
	}
	row, col := w.CursorScreenCell()
	c.cv.SetCursor(row, col)
}
