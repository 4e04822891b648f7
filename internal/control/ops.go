// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/control/ops.go
// Summary: Named editing operations and the registry the binding trie
// dispatches into.
// Usage: Operations return Actions the controller carries out (quit,
// echo, modal questions); errors surface on the echo row.

package control

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/framegrace/ped/internal/editor"
	"github.com/framegrace/ped/internal/workspace"
)

// Action is carried out by the controller after an operation returns.
type Action interface{ isAction() }

type actQuit struct{}
type actEcho struct{ text string }
type actModal struct{ m Modal }

func (actQuit) isAction()  {}
func (actEcho) isAction()  {}
func (actModal) isAction() {}

// ActQuit ends the session.
func ActQuit() Action { return actQuit{} }

// ActEcho shows a message in the echo row.
func ActEcho(text string) Action { return actEcho{text: text} }

// ActAsk activates a modal question.
func ActAsk(q *Question) Action { return actModal{m: q} }

// ActModal activates an arbitrary modal.
func ActModal(m Modal) Action { return actModal{m: m} }

// OpFn is an operation handler.
type OpFn func(env *Env) (Action, error)

type opEntry struct {
	fn   OpFn
	desc string
}

// Registry maps operation names to handlers.
type Registry struct {
	ops   map[string]opEntry
	order []string
}

// NewRegistry returns the full built-in operation set.
func NewRegistry() *Registry {
	r := &Registry{ops: make(map[string]opEntry)}
	r.registerAll()
	return r
}

// Register adds one operation.
func (r *Registry) Register(name, desc string, fn OpFn) {
	if _, dup := r.ops[name]; !dup {
		r.order = append(r.order, name)
	}
	r.ops[name] = opEntry{fn: fn, desc: desc}
}

// Lookup resolves an operation by name.
func (r *Registry) Lookup(name string) (OpFn, bool) {
	e, ok := r.ops[name]
	return e.fn, ok
}

// Describe returns an operation's summary line.
func (r *Registry) Describe(name string) string {
	return r.ops[name].desc
}

// Names returns all operation names sorted.
func (r *Registry) Names() []string {
	out := append([]string(nil), r.order...)
	sort.Strings(out)
	return out
}

// focused fetches the focused editor or reports a message action.
func focused(env *Env) (*editor.Editor, Action) {
	ed := env.Focused()
	if ed == nil {
		return nil, ActEcho("no window")
	}
	return ed, nil
}

// motion wraps a plain cursor motion.
func motion(move func(*editor.Editor)) OpFn {
	return func(env *Env) (Action, error) {
		ed, act := focused(env)
		if ed == nil {
			return act, nil
		}
		move(ed)
		return nil, nil
	}
}

// selecting wraps a motion that extends the selection, planting the
// mark when none is set.
func selecting(move func(*editor.Editor)) OpFn {
	return func(env *Env) (Action, error) {
		ed, act := focused(env)
		if ed == nil {
			return act, nil
		}
		if _, ok := ed.Mark(); !ok {
			ed.SetMark()
		}
		move(ed)
		return nil, nil
	}
}

// mutating wraps a buffer mutation, translating readonly failures.
func mutating(edit func(*editor.Editor) error) OpFn {
	return func(env *Env) (Action, error) {
		ed, act := focused(env)
		if ed == nil {
			return act, nil
		}
		if err := edit(ed); err != nil {
			if errors.Is(err, editor.ErrReadonly) {
				return ActEcho(ed.Name + " is readonly"), nil
			}
			return nil, err
		}
		return nil, nil
	}
}

func (r *Registry) registerAll() {
	// exit and cancellation
	r.Register("quit", "save dirty buffers and exit", opQuit)
	r.Register("cancel", "cancel the pending sequence, question, or mark", opCancel)

	// help and listings
	r.Register("help", "open the @help buffer", ephemeralOp("@help"))
	r.Register("list-keys", "open the @keys buffer", ephemeralOp("@keys"))
	r.Register("list-operations", "open the @operations buffer", ephemeralOp("@operations"))
	r.Register("list-bindings", "open the @bindings buffer", ephemeralOp("@bindings"))
	r.Register("list-colors", "open the @colors buffer", ephemeralOp("@colors"))
	r.Register("describe", "describe a named operation", opDescribe)

	// navigation
	r.Register("move-left", "move one scalar left", motion((*editor.Editor).MoveLeft))
	r.Register("move-right", "move one scalar right", motion((*editor.Editor).MoveRight))
	r.Register("move-up", "move one visual row up", motion((*editor.Editor).MoveUp))
	r.Register("move-down", "move one visual row down", motion((*editor.Editor).MoveDown))
	r.Register("move-up-page", "move one page up", motion((*editor.Editor).PageUp))
	r.Register("move-down-page", "move one page down", motion((*editor.Editor).PageDown))
	r.Register("move-start", "move to the start of the line", motion((*editor.Editor).MoveStart))
	r.Register("move-end", "move to the end of the line", motion((*editor.Editor).MoveEnd))
	r.Register("move-top", "move to the start of the buffer", motion((*editor.Editor).MoveTop))
	r.Register("move-bottom", "move to the end of the buffer", motion((*editor.Editor).MoveBottom))
	r.Register("move-left-select", "extend the selection one scalar left", selecting((*editor.Editor).MoveLeft))
	r.Register("move-right-select", "extend the selection one scalar right", selecting((*editor.Editor).MoveRight))
	r.Register("move-up-select", "extend the selection one row up", selecting((*editor.Editor).MoveUp))
	r.Register("move-down-select", "extend the selection one row down", selecting((*editor.Editor).MoveDown))
	r.Register("move-up-page-select", "extend the selection one page up", selecting((*editor.Editor).PageUp))
	r.Register("move-down-page-select", "extend the selection one page down", selecting((*editor.Editor).PageDown))
	r.Register("move-start-select", "extend the selection to the line start", selecting((*editor.Editor).MoveStart))
	r.Register("move-end-select", "extend the selection to the line end", selecting((*editor.Editor).MoveEnd))
	r.Register("move-top-select", "extend the selection to the buffer start", selecting((*editor.Editor).MoveTop))
	r.Register("move-bottom-select", "extend the selection to the buffer end", selecting((*editor.Editor).MoveBottom))
	r.Register("scroll-up", "scroll the view up one line", motion((*editor.Editor).ScrollUp))
	r.Register("scroll-down", "scroll the view down one line", motion((*editor.Editor).ScrollDown))
	r.Register("scroll-center", "center the view on the cursor", motion((*editor.Editor).ScrollCenter))
	r.Register("set-mark", "set the selection mark at the cursor", opSetMark)
	r.Register("goto-line", "jump to a line number", opGotoLine)

	// insertion and removal
	r.Register("insert-line", "insert a line break", mutating((*editor.Editor).InsertBreak))
	r.Register("insert-tab", "insert a tab", mutating((*editor.Editor).InsertTab))
	r.Register("remove-left", "remove the scalar before the cursor", mutating((*editor.Editor).RemoveBefore))
	r.Register("remove-right", "remove the scalar under the cursor", mutating((*editor.Editor).RemoveAfter))
	r.Register("remove-start", "remove to the start of the line", mutating((*editor.Editor).RemoveToBOL))
	r.Register("remove-end", "remove to the end of the line", mutating((*editor.Editor).RemoveToEOL))

	// history
	r.Register("undo", "reverse the last change", opUndo)
	r.Register("redo", "replay the last undone change", opRedo)

	// search
	r.Register("search", "incremental search", opSearch(false))
	r.Register("search-regex", "incremental regex search", opSearch(true))
	r.Register("search-next", "repeat the last search forward", opSearchNext)

	// selection actions
	r.Register("copy", "copy the selection or current line", opCopy(false))
	r.Register("cut", "cut the selection or current line", opCut(false))
	r.Register("paste", "paste the clipboard", opPaste(false))
	r.Register("copy-global", "copy to the system clipboard", opCopy(true))
	r.Register("cut-global", "cut to the system clipboard", opCut(true))
	r.Register("paste-global", "paste from the system clipboard", opPaste(true))

	// file handling
	r.Register("open-file", "open a file in this window", opOpenFile(placeHere))
	r.Register("open-file-top", "open a file in a new top window", opOpenFile(placeTop))
	r.Register("open-file-bottom", "open a file in a new bottom window", opOpenFile(placeBottom))
	r.Register("open-file-above", "open a file in a window above", opOpenFile(placeAbove))
	r.Register("open-file-below", "open a file in a window below", opOpenFile(placeBelow))
	r.Register("save-file", "save the buffer", opSaveFile)
	r.Register("save-file-as", "save the buffer under a new path", opSaveFileAs)

	// window handling
	r.Register("kill-window", "close the window and drop its buffer", opKillWindow)
	r.Register("close-window", "close the window, keeping its buffer", opCloseWindow)
	r.Register("close-other-windows", "keep only this window", opCloseOthers)
	r.Register("top-window", "focus the top window", windowOp((*workspace.Workspace).FocusTop))
	r.Register("bottom-window", "focus the bottom window", windowOp((*workspace.Workspace).FocusBottom))
	r.Register("prev-window", "focus the previous window", windowOp((*workspace.Workspace).FocusPrev))
	r.Register("next-window", "focus the next window", windowOp((*workspace.Workspace).FocusNext))

	// editor handling
	r.Register("prev-editor", "show the previous buffer here", opCycleEditor(-1))
	r.Register("next-editor", "show the next buffer here", opCycleEditor(1))
	r.Register("select-editor", "switch to a buffer by name", opSelectEditor)
}

func windowOp(f func(*workspace.Workspace)) OpFn {
	return func(env *Env) (Action, error) {
		f(env.Ws)
		return nil, nil
	}
}

func ephemeralOp(name string) OpFn {
	return func(env *Env) (Action, error) {
		ed, err := env.Ephemeral(name)
		if err != nil {
			return nil, err
		}
		env.SwitchTo(ed)
		return nil, nil
	}
}

func opCancel(env *Env) (Action, error) {
	if ed := env.Focused(); ed != nil {
		ed.UnsetMark()
	}
	env.ClearEcho()
	return nil, nil
}

func opSetMark(env *Env) (Action, error) {
	ed, act := focused(env)
	if ed == nil {
		return act, nil
	}
	ed.SetMark()
	return ActEcho("mark set"), nil
}

func opUndo(env *Env) (Action, error) {
	ed, act := focused(env)
	if ed == nil {
		return act, nil
	}
	if !ed.Undo() {
		return ActEcho("nothing to undo"), nil
	}
	return nil, nil
}

func opRedo(env *Env) (Action, error) {
	ed, act := focused(env)
	if ed == nil {
		return act, nil
	}
	if !ed.Redo() {
		return ActEcho("nothing to redo"), nil
	}
	return nil, nil
}

func opCopy(global bool) OpFn {
	return func(env *Env) (Action, error) {
		ed, act := focused(env)
		if ed == nil {
			return act, nil
		}
		rs := ed.Copy()
		if global {
			env.Clip.SetGlobal(rs)
		} else {
			env.Clip.Set(rs)
		}
		return ActEcho(fmt.Sprintf("copied %d scalars", len(rs))), nil
	}
}

func opCut(global bool) OpFn {
	return func(env *Env) (Action, error) {
		ed, act := focused(env)
		if ed == nil {
			return act, nil
		}
		rs, err := ed.Cut()
		if err != nil {
			if errors.Is(err, editor.ErrReadonly) {
				return ActEcho(ed.Name + " is readonly"), nil
			}
			return nil, err
		}
		if global {
			env.Clip.SetGlobal(rs)
		} else {
			env.Clip.Set(rs)
		}
		return nil, nil
	}
}

func opPaste(global bool) OpFn {
	return func(env *Env) (Action, error) {
		ed, act := focused(env)
		if ed == nil {
			return act, nil
		}
		rs := env.Clip.Get()
		if global {
			rs = env.Clip.GetGlobal()
		}
		if len(rs) == 0 {
			return ActEcho("clipboard is empty"), nil
		}
		if err := ed.Paste(rs); err != nil {
			if errors.Is(err, editor.ErrReadonly) {
				return ActEcho(ed.Name + " is readonly"), nil
			}
			return nil, err
		}
		return nil, nil
	}
}

func opSearch(regex bool) OpFn {
	return func(env *Env) (Action, error) {
		ed, act := focused(env)
		if ed == nil {
			return act, nil
		}
		return ActModal(NewSearchSession(ed, regex)), nil
	}
}

func opSearchNext(env *Env) (Action, error) {
	ed, act := focused(env)
	if ed == nil {
		return act, nil
	}
	spec := ed.LastSearch()
	if spec.Term == "" {
		return ActEcho("no previous search"), nil
	}
	ms, err := ed.FindMatches(spec)
	if err != nil {
		return nil, err
	}
	m, ok := editor.NextMatch(ms, ed.Pos(), true)
	if !ok {
		return ActEcho("no match"), nil
	}
	ed.MoveToPos(m.Pos)
	return nil, nil
}

func opDescribe(env *Env) (Action, error) {
	q := NewQuestion("describe:", "", OpName(env), func(env *Env, answer string, ok bool) (Action, error) {
		if !ok || answer == "" {
			return nil, nil
		}
		if _, known := env.ops.Lookup(answer); !known {
			return ActEcho("unknown operation " + answer), nil
		}
		desc := env.ops.Describe(answer)
		if seq, bound := env.binds.OpFor(answer); bound {
			return ActEcho(fmt.Sprintf("%s (%s): %s", answer, seq, desc)), nil
		}
		return ActEcho(fmt.Sprintf("%s (unbound): %s", answer, desc)), nil
	})
	return ActAsk(q), nil
}

func opGotoLine(env *Env) (Action, error) {
	ed, act := focused(env)
	if ed == nil {
		return act, nil
	}
	origin := ed.Pos()
	q := NewQuestion("goto line:", "", nil, func(env *Env, answer string, ok bool) (Action, error) {
		if !ok || answer == "" {
			ed.MoveToPos(origin)
			return nil, nil
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 {
			ed.MoveToPos(origin)
			return ActEcho("bad line number " + answer), nil
		}
		ed.GotoLine(n)
		return nil, nil
	})
	q.onEdit = func(input string) {
		if n, err := strconv.Atoi(input); err == nil && n >= 1 {
			ed.GotoLine(n)
		}
	}
	return ActAsk(q), nil
}

// Window placements for the open-file variants.
type placement int

const (
	placeHere placement = iota
	placeTop
	placeBottom
	placeAbove
	placeBelow
)

func opOpenFile(where placement) OpFn {
	return func(env *Env) (Action, error) {
		q := NewQuestion("open:", "", FilePath(), func(env *Env, answer string, ok bool) (Action, error) {
			if !ok || answer == "" {
				return nil, nil
			}
			ed, err := env.OpenPath(answer)
			if err != nil {
				return nil, err
			}
			switch where {
			case placeHere:
				env.SwitchTo(ed)
			case placeTop:
				if !env.Ws.CanSplit() {
					return ActEcho("no room for another window"), nil
				}
				env.Ws.SplitTop(ed)
			case placeBottom:
				if !env.Ws.CanSplit() {
					return ActEcho("no room for another window"), nil
				}
				env.Ws.SplitBottom(ed)
			case placeAbove:
				if !env.Ws.CanSplit() {
					return ActEcho("no room for another window"), nil
				}
				env.Ws.SplitAbove(ed)
			case placeBelow:
				if !env.Ws.CanSplit() {
					return ActEcho("no room for another window"), nil
				}
				env.Ws.SplitBelow(ed)
			}
			if where != placeHere {
				env.SwitchTo(ed)
			}
			return nil, nil
		})
		return ActAsk(q), nil
	}
}

func opSaveFile(env *Env) (Action, error) {
	ed, act := focused(env)
	if ed == nil {
		return act, nil
	}
	if ed.Ephemeral && ed.Name != ScratchName {
		return ActEcho(ed.Name + " is readonly"), nil
	}
	if ed.Path == "" {
		return opSaveFileAs(env)
	}
	if err := env.SaveEditor(ed); err != nil {
		return nil, err
	}
	return ActEcho("saved " + ed.Path), nil
}

func opSaveFileAs(env *Env) (Action, error) {
	ed, act := focused(env)
	if ed == nil {
		return act, nil
	}
	if ed.Ephemeral && ed.Name != ScratchName {
		return ActEcho(ed.Name + " is readonly"), nil
	}
	q := NewQuestion("save as:", ed.Path, FilePath(), func(env *Env, answer string, ok bool) (Action, error) {
		if !ok || answer == "" {
			return nil, nil
		}
		saved, err := env.SaveEditorAs(ed, answer)
		if err != nil {
			return nil, err
		}
		if saved != ed {
			env.SwitchTo(saved)
		}
		return ActEcho("saved " + saved.Path), nil
	})
	return ActAsk(q), nil
}

func opKillWindow(env *Env) (Action, error) {
	w := env.Ws.Focused()
	if w == nil {
		return ActQuit(), nil
	}
	ed := w.Ed
	shownElsewhere := false
	for _, win := range env.Ws.Windows() {
		if win != w && win.Ed == ed {
			shownElsewhere = true
		}
	}
	if !shownElsewhere {
		env.RemoveEditor(ed)
	}
	if env.Ws.CloseCurrent() == 0 {
		return ActQuit(), nil
	}
	return nil, nil
}

func opCloseWindow(env *Env) (Action, error) {
	if env.Ws.CloseCurrent() == 0 {
		return ActQuit(), nil
	}
	return nil, nil
}

func opCloseOthers(env *Env) (Action, error) {
	env.Ws.CloseOthers()
	return nil, nil
}

func opCycleEditor(delta int) OpFn {
	return func(env *Env) (Action, error) {
		env.CycleEditor(delta)
		return nil, nil
	}
}

func opSelectEditor(env *Env) (Action, error) {
	q := NewQuestion("buffer:", "", BufferName(env), func(env *Env, answer string, ok bool) (Action, error) {
		if !ok || answer == "" {
			return nil, nil
		}
		ed, found := env.FindEditor(answer)
		if !found {
			var err error
			ed, err = env.Ephemeral(answer)
			if err != nil {
				return ActEcho("no buffer " + answer), nil
			}
		}
		env.SwitchTo(ed)
		return nil, nil
	})
	return ActAsk(q), nil
}

// opQuit walks dirty file-backed buffers, asking to save each.
func opQuit(env *Env) (Action, error) {
	return quitContinue(env, dirtyEditors(env)), nil
}

// dirtyEditors lists saveable buffers with unsaved changes.
func dirtyEditors(env *Env) []*editor.Editor {
	var out []*editor.Editor
	for _, ed := range env.Editors() {
		if ed.Dirty() && !ed.Ephemeral && ed.Path != "" {
			out = append(out, ed)
		}
	}
	return out
}

// quitContinue asks about the first dirty buffer, then recurses over
// the rest; an empty list quits.
func quitContinue(env *Env, dirty []*editor.Editor) Action {
	if len(dirty) == 0 {
		return ActQuit()
	}
	ed := dirty[0]
	prompt := fmt.Sprintf("save changes to %s [y/n/a]?", ed.Path)
	q := NewQuestion(prompt, "", YesNoAll(), func(env *Env, answer string, ok bool) (Action, error) {
		if !ok {
			return nil, nil // cancelled; stay in the session
		}
		switch answer {
		case "y":
			if err := env.SaveEditor(ed); err != nil {
				return nil, err
			}
			return quitContinue(env, dirty[1:]), nil
		case "n":
			return quitContinue(env, dirty[1:]), nil
		case "a":
			for _, d := range dirty {
				if err := env.SaveEditor(d); err != nil {
					return nil, err
				}
			}
			return ActQuit(), nil
		default:
			return quitContinue(env, dirty), nil
		}
	})
	return ActAsk(q)
}
