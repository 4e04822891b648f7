// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/control/control_test.go
// Summary: Environment, registry, file round-trips, and modal flows.

package control

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/framegrace/ped/config"
	"github.com/framegrace/ped/internal/bind"
	"github.com/framegrace/ped/internal/editor"
	"github.com/framegrace/ped/internal/key"
	"github.com/framegrace/ped/internal/syntax"
	"github.com/framegrace/ped/internal/theming"
	"github.com/framegrace/ped/internal/workspace"
)

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	cfg := config.Default()
	th := theming.NewTheme(theming.NewColorTable(nil), nil)
	ws := workspace.New(24, 80)
	env := NewEnv(ws, cfg, th, syntax.NewRegistry())
	ops := NewRegistry()
	binds := bind.New()
	for seq, op := range cfg.Bindings {
		if err := binds.Bind(seq, op); err != nil {
			t.Fatalf("default binding %s: %v", seq, err)
		}
	}
	env.SetDispatch(ops, binds)
	scratch, _ := env.FindEditor(ScratchName)
	ws.AddInitial(workspace.NewWindow(scratch))
	return env
}

func TestDefaultBindingsAllResolve(t *testing.T) {
	env := newTestEnv(t)
	for seq, op := range env.Cfg.Bindings {
		if _, ok := env.ops.Lookup(op); !ok {
			t.Errorf("binding %s names unknown operation %s", seq, op)
		}
	}
}

func TestScratchAlwaysPresent(t *testing.T) {
	env := newTestEnv(t)
	ed, ok := env.FindEditor(ScratchName)
	if !ok {
		t.Fatalf("no scratch buffer")
	}
	if ed.Readonly {
		t.Fatalf("scratch must be writable")
	}
	env.RemoveEditor(ed)
	if _, ok := env.FindEditor(ScratchName); !ok {
		t.Fatalf("scratch was removable")
	}
}

func TestEphemeralBuffersAreReadonly(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"@help", "@keys", "@operations", "@bindings", "@colors"} {
		ed, err := env.Ephemeral(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !ed.Readonly {
			t.Errorf("%s is writable", name)
		}
		if ed.Buf().Len() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
	if _, err := env.Ephemeral("@nope"); err == nil {
		t.Fatalf("unknown ephemeral accepted")
	}
}

func TestOpenSaveRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	p := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(p, []byte("alpha\nbeta\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ed, err := env.OpenPath(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if ed.Buf().String() != "alpha\nbeta\n" {
		t.Fatalf("content %q", ed.Buf().String())
	}
	if ed.Dirty() {
		t.Fatalf("fresh buffer is dirty")
	}

	ed.MoveBottom()
	if err := ed.InsertSlice([]rune("gamma\n")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := env.SaveEditor(ed); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ed.Dirty() {
		t.Fatalf("dirty after save")
	}
	data, _ := os.ReadFile(p)
	if string(data) != "alpha\nbeta\ngamma\n" {
		t.Fatalf("file %q", string(data))
	}

	// Reopening the same path reuses the buffer.
	again, err := env.OpenPath(p)
	if err != nil || again != ed {
		t.Fatalf("reopen did not reuse the buffer")
	}
}

func TestCRLFRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	p := filepath.Join(t.TempDir(), "dos.txt")
	if err := os.WriteFile(p, []byte("a\r\nb\r\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ed, err := env.OpenPath(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if ed.EolMode != editor.EolCRLF {
		t.Fatalf("eol mode not detected")
	}
	if ed.Buf().String() != "a\nb\n" {
		t.Fatalf("content %q", ed.Buf().String())
	}
	ed.SetDirty(true)
	if err := env.SaveEditor(ed); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, _ := os.ReadFile(p)
	if string(data) != "a\r\nb\r\n" {
		t.Fatalf("file %q", string(data))
	}

	// Reloading in a fresh environment yields the same scalar sequence.
	env2 := newTestEnv(t)
	ed2, err := env2.OpenPath(p)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if ed2.Buf().String() != ed.Buf().String() || ed2.EolMode != ed.EolMode {
		t.Fatalf("round trip changed content")
	}
}

func TestSaveScratchTransfersAndClears(t *testing.T) {
	env := newTestEnv(t)
	scratch, _ := env.FindEditor(ScratchName)
	if err := scratch.InsertSlice([]rune("kept text")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	p := filepath.Join(t.TempDir(), "kept.txt")
	saved, err := env.SaveEditorAs(scratch, p)
	if err != nil {
		t.Fatalf("save as: %v", err)
	}
	if saved == scratch {
		t.Fatalf("scratch itself was rebound")
	}
	data, _ := os.ReadFile(p)
	if string(data) != "kept text" {
		t.Fatalf("file %q", string(data))
	}
	if scratch.Buf().Len() != 0 || scratch.Dirty() {
		t.Fatalf("scratch not cleared")
	}
}

func TestSoftTabSave(t *testing.T) {
	env := newTestEnv(t)
	p := filepath.Join(t.TempDir(), "soft.txt")
	if err := os.WriteFile(p, []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ed, err := env.OpenPath(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ed.TabHard = false
	ed.TabSize = 2
	_ = ed.InsertSlice([]rune("\tx"))
	if err := env.SaveEditor(ed); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, _ := os.ReadFile(p)
	if string(data) != "  x" {
		t.Fatalf("file %q", string(data))
	}
}

func TestQuestionCompletionAndAnswer(t *testing.T) {
	env := newTestEnv(t)
	var got string
	var gotOK bool
	q := NewQuestion("save?", "", YesNoAll(), func(env *Env, answer string, ok bool) (Action, error) {
		got, gotOK = answer, ok
		return nil, nil
	})
	for _, r := range "y" {
		q.HandleKey(env, key.Rune(r))
	}
	done, _, _ := q.HandleKey(env, key.Key{Sym: key.SymRet})
	if !done || !gotOK || got != "y" {
		t.Fatalf("answer %q ok=%v done=%v", got, gotOK, done)
	}

	q2 := NewQuestion("open:", "", nil, func(env *Env, answer string, ok bool) (Action, error) {
		got, gotOK = answer, ok
		return nil, nil
	})
	done, _, _ = q2.HandleKey(env, key.CtrlKey('g'))
	if !done || gotOK {
		t.Fatalf("cancel did not report ok=false")
	}
}

func TestQuestionUniqueCompletionFills(t *testing.T) {
	env := newTestEnv(t)
	q := NewQuestion("buffer:", "", BufferName(env), nil)
	for _, r := range "@scr" {
		q.HandleKey(env, key.Rune(r))
	}
	q.HandleKey(env, key.Key{Sym: key.SymTab})
	text, _ := q.Line()
	if !strings.Contains(text, ScratchName) {
		t.Fatalf("completion did not fill: %q", text)
	}
}

func TestIncrementalSearchScenario(t *testing.T) {
	env := newTestEnv(t)
	// Matches at 10, 50, 90.
	content := strings.Repeat(" ", 10) + "foo" + strings.Repeat(" ", 37) + "foo" + strings.Repeat(" ", 37) + "foo"
	ed := editor.New("s", content, 252)
	ed.SetView(10, 200)
	env.AddEditor(ed)
	env.SwitchTo(ed)

	s := NewSearchSession(ed, false)
	for _, r := range "foo" {
		s.HandleKey(env, key.Rune(r))
	}
	if ed.Pos() != 10 {
		t.Fatalf("initial match at %d, want 10", ed.Pos())
	}
	s.HandleKey(env, key.Key{Sym: key.SymTab})
	if ed.Pos() != 50 {
		t.Fatalf("TAB -> %d, want 50", ed.Pos())
	}
	s.HandleKey(env, key.Key{Sym: key.SymTab})
	if ed.Pos() != 90 {
		t.Fatalf("TAB -> %d, want 90", ed.Pos())
	}
	s.HandleKey(env, key.Key{Sym: key.SymTab, Shift: true})
	if ed.Pos() != 50 {
		t.Fatalf("S-TAB -> %d, want 50", ed.Pos())
	}
	done, _, _ := s.HandleKey(env, key.CtrlKey('g'))
	if !done {
		t.Fatalf("cancel did not finish the session")
	}
	if ed.Pos() != 0 {
		t.Fatalf("cancel left cursor at %d", ed.Pos())
	}
}

func TestSearchNotFoundState(t *testing.T) {
	env := newTestEnv(t)
	ed := editor.New("s", "plain text", 252)
	ed.SetView(5, 40)
	s := NewSearchSession(ed, false)
	for _, r := range "zzz" {
		s.HandleKey(env, key.Rune(r))
	}
	line, _ := s.Line()
	if !strings.Contains(line, "not found") {
		t.Fatalf("line %q", line)
	}
	// TAB is only valid in the found state.
	s.HandleKey(env, key.Key{Sym: key.SymTab})
	if ed.Pos() != 0 {
		t.Fatalf("TAB moved cursor in not-found state")
	}
}

func TestQuitWalksDirtyEditors(t *testing.T) {
	env := newTestEnv(t)
	p := filepath.Join(t.TempDir(), "d.txt")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ed, _ := env.OpenPath(p)
	_ = ed.InsertRune('y')

	act, err := opQuit(env)
	if err != nil {
		t.Fatalf("quit: %v", err)
	}
	modal, ok := act.(actModal)
	if !ok {
		t.Fatalf("quit with dirty buffers should ask, got %T", act)
	}
	q := modal.m.(*Question)
	if !strings.Contains(q.Prompt, "d.txt") {
		t.Fatalf("prompt %q", q.Prompt)
	}
	// Answer yes: the buffer saves and the quit proceeds.
	q.HandleKey(env, key.Rune('y'))
	done, act2, err := q.HandleKey(env, key.Key{Sym: key.SymRet})
	if err != nil || !done {
		t.Fatalf("answer: done=%v err=%v", done, err)
	}
	if _, isQuit := act2.(actQuit); !isQuit {
		t.Fatalf("expected quit, got %T", act2)
	}
	if ed.Dirty() {
		t.Fatalf("buffer not saved")
	}
	data, _ := os.ReadFile(p)
	if string(data) != "yx" {
		t.Fatalf("file %q", string(data))
	}
}

func TestQuitCleanBuffersQuitsImmediately(t *testing.T) {
	env := newTestEnv(t)
	act, err := opQuit(env)
	if err != nil {
		t.Fatalf("quit: %v", err)
	}
	if _, isQuit := act.(actQuit); !isQuit {
		t.Fatalf("expected immediate quit, got %T", act)
	}
}

func TestGotoLineQuestionRetargetsIncrementally(t *testing.T) {
	env := newTestEnv(t)
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString("line\n")
	}
	ed := editor.New("g", sb.String(), 252)
	ed.SetView(10, 40)
	env.AddEditor(ed)
	env.SwitchTo(ed)

	act, _ := opGotoLine(env)
	q := act.(actModal).m.(*Question)
	q.HandleKey(env, key.Rune('4'))
	if ed.Cur().Line != 3 {
		t.Fatalf("after '4': line %d", ed.Cur().Line)
	}
	q.HandleKey(env, key.Rune('2'))
	if ed.Cur().Line != 41 {
		t.Fatalf("after '42': line %d", ed.Cur().Line)
	}
	done, _, _ := q.HandleKey(env, key.CtrlKey('g'))
	if !done || ed.Pos() != 0 {
		t.Fatalf("cancel did not restore: pos %d", ed.Pos())
	}
}

func TestCycleEditor(t *testing.T) {
	env := newTestEnv(t)
	a := editor.New("a", "", 252)
	b := editor.New("b", "", 252)
	env.AddEditor(a)
	env.AddEditor(b)
	env.SwitchTo(a)
	env.CycleEditor(1)
	if env.Focused() != b {
		t.Fatalf("next-editor went to %s", env.Focused().Name)
	}
	env.CycleEditor(-1)
	if env.Focused() != a {
		t.Fatalf("prev-editor went to %s", env.Focused().Name)
	}
}
