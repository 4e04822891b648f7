// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/control/inquirer.go
// Summary: Modal questions in the echo row: line editing, completion,
// and the incremental search session.

package control

import (
	"fmt"

	"github.com/framegrace/ped/internal/editor"
	"github.com/framegrace/ped/internal/key"
)

// AnswerFn consumes a question's answer. ok is false on cancellation.
type AnswerFn func(env *Env, answer string, ok bool) (Action, error)

// Modal is an interaction that owns the echo row until done.
type Modal interface {
	// HandleKey processes one key; done reports the modal finished.
	HandleKey(env *Env, k key.Key) (done bool, act Action, err error)
	// Line returns the echo text and the cursor offset within it.
	Line() (text string, cursor int)
}

// Question is a prompt with editable input and optional completion.
type Question struct {
	Prompt    string
	input     []rune
	cursor    int
	completer Completer
	answer    AnswerFn
	hint      string

	// onEdit, when set, observes every input change; goto-line uses it
	// to retarget the jump on each digit.
	onEdit func(input string)
}

// NewQuestion builds a modal prompt. completer may be nil.
func NewQuestion(prompt, initial string, completer Completer, answer AnswerFn) *Question {
	in := []rune(initial)
	return &Question{
		Prompt:    prompt,
		input:     in,
		cursor:    len(in),
		completer: completer,
		answer:    answer,
	}
}

// Line renders "prompt input hint" with the cursor inside the input.
func (q *Question) Line() (string, int) {
	text := q.Prompt + " " + string(q.input)
	cursor := len([]rune(q.Prompt)) + 1 + q.cursor
	if q.hint != "" {
		text += "  " + q.hint
	}
	return text, cursor
}

// HandleKey edits the input or finishes the question.
func (q *Question) HandleKey(env *Env, k key.Key) (bool, Action, error) {
	switch {
	case k.Ctrl && k.Ch == 'g':
		act, err := q.answer(env, "", false)
		return true, act, err
	case k.Sym == key.SymRet:
		act, err := q.answer(env, string(q.input), true)
		return true, act, err
	case k.Sym == key.SymTab:
		q.complete()
	case k.Sym == key.SymDel:
		if q.cursor > 0 {
			q.input = append(q.input[:q.cursor-1], q.input[q.cursor:]...)
			q.cursor--
			q.refreshHint()
		}
	case k.Sym == key.SymDelete:
		if q.cursor < len(q.input) {
			q.input = append(q.input[:q.cursor], q.input[q.cursor+1:]...)
			q.refreshHint()
		}
	case k.Sym == key.SymLeft:
		if q.cursor > 0 {
			q.cursor--
		}
	case k.Sym == key.SymRight:
		if q.cursor < len(q.input) {
			q.cursor++
		}
	case k.Sym == key.SymHome:
		q.cursor = 0
	case k.Sym == key.SymEnd:
		q.cursor = len(q.input)
	case k.Sym == key.SymRune && !k.Ctrl && !k.Meta:
		q.input = append(q.input[:q.cursor], append([]rune{k.Ch}, q.input[q.cursor:]...)...)
		q.cursor++
		q.refreshHint()
	}
	return false, nil, nil
}

// complete extends the input to the candidates' common prefix, and on a
// unique candidate fills it entirely.
func (q *Question) complete() {
	if q.completer == nil {
		return
	}
	cands := q.completer.Candidates(string(q.input))
	switch len(cands) {
	case 0:
		q.hint = ""
	case 1:
		q.input = []rune(cands[0])
		q.cursor = len(q.input)
		q.hint = ""
	default:
		if p := commonPrefix(cands); len([]rune(p)) > len(q.input) {
			q.input = []rune(p)
			q.cursor = len(q.input)
		}
		q.hint = q.completer.Hint(string(q.input))
	}
}

// refreshHint updates the rendered hint after an edit and notifies the
// edit observer.
func (q *Question) refreshHint() {
	if q.onEdit != nil {
		q.onEdit(string(q.input))
	}
	if q.completer == nil || q.hint == "" {
		return
	}
	q.hint = q.completer.Hint(string(q.input))
}

// searchState is the incremental search state machine.
type searchState int

const (
	searchEntering searchState = iota
	searchFound
	searchNotFound
)

// SearchSession is the incremental search modal. While entering, every
// keystroke re-runs the search; TAB and S-TAB step matches while one is
// found; cancel restores the origin.
type SearchSession struct {
	ed      *editor.Editor
	regex   bool
	origin  int
	state   searchState
	term    []rune
	matches []editor.Match
	current editor.Match
}

// NewSearchSession starts incremental search on ed.
func NewSearchSession(ed *editor.Editor, regex bool) *SearchSession {
	return &SearchSession{ed: ed, regex: regex, origin: ed.Pos(), state: searchEntering}
}

// Line renders the search prompt.
func (s *SearchSession) Line() (string, int) {
	label := "search:"
	if s.regex {
		label = "search/re:"
	}
	if s.state == searchNotFound {
		label = label + " (not found)"
	}
	text := label + " " + string(s.term)
	return text, len([]rune(text))
}

// rerun recomputes matches for the current term and jumps to the first
// match at or after the origin.
func (s *SearchSession) rerun(env *Env) {
	if len(s.term) == 0 {
		s.state = searchEntering
		s.matches = nil
		s.ed.MoveToPos(s.origin)
		return
	}
	spec := editor.SearchSpec{Term: string(s.term), Regex: s.regex}
	ms, err := s.ed.FindMatches(spec)
	if err != nil || len(ms) == 0 {
		s.state = searchNotFound
		s.matches = nil
		s.ed.MoveToPos(s.origin)
		return
	}
	s.matches = ms
	m, _ := editor.NextMatch(ms, s.origin-1, true)
	s.jump(m)
}

// jump moves the cursor to a match.
func (s *SearchSession) jump(m editor.Match) {
	s.current = m
	s.state = searchFound
	s.ed.MoveToPos(m.Pos)
}

// HandleKey advances the search state machine.
func (s *SearchSession) HandleKey(env *Env, k key.Key) (bool, Action, error) {
	switch {
	case k.Ctrl && k.Ch == 'g':
		// Cancel restores the cursor no matter the state.
		s.ed.MoveToPos(s.origin)
		return true, nil, nil
	case k.Sym == key.SymRet:
		if s.state == searchFound {
			s.ed.SetLastSearch(editor.SearchSpec{Term: string(s.term), Regex: s.regex})
			return true, ActEcho(fmt.Sprintf("match at %d", s.current.Pos)), nil
		}
		return true, nil, nil
	case k.Sym == key.SymTab && !k.Shift:
		if s.state == searchFound {
			m, _ := editor.NextMatch(s.matches, s.current.Pos, true)
			s.jump(m)
		}
	case k.Sym == key.SymTab && k.Shift:
		if s.state == searchFound {
			m, _ := editor.NextMatch(s.matches, s.current.Pos, false)
			s.jump(m)
		}
	case k.Sym == key.SymDel:
		if len(s.term) > 0 {
			s.term = s.term[:len(s.term)-1]
			s.rerun(env)
		}
	case k.Sym == key.SymRune && !k.Ctrl && !k.Meta:
		s.term = append(s.term, k.Ch)
		s.rerun(env)
	}
	return false, nil, nil
}
