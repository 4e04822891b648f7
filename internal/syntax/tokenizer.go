// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/syntax/tokenizer.go
// Summary: Regex-driven whole-buffer tokenizer with bounded work slices.
// Usage: The controller pumps a Scanner during idle time; a finished scan
// atomically replaces the buffer's span list.

package syntax

import (
	"time"
	"unicode/utf8"

	"github.com/framegrace/ped/internal/span"
)

// ruleCursor memoizes a rule's next match at or after the scan position.
type ruleCursor struct {
	start, end int // byte offsets; start == -1 means no further match
	valid      bool
}

// Scanner incrementally tokenizes a snapshot of buffer text. The scan is
// resumable between matches so a single slice never exceeds its budget by
// more than one advance (at most one regex search per rule).
type Scanner struct {
	text    string
	rules   []Rule
	def     int // default color
	pos     int // byte offset scanned so far
	cursors []ruleCursor
	spans   []span.Span
	done    bool
}

// NewScanner starts a scan of text under the given rules. def is the
// color for unmatched runs.
func NewScanner(text string, rules []Rule, def int) *Scanner {
	return &Scanner{
		text:    text,
		rules:   rules,
		def:     def,
		cursors: make([]ruleCursor, len(rules)),
	}
}

// Done reports whether the scan has consumed the whole text.
func (s *Scanner) Done() bool {
	return s.done
}

// Step runs the scan until budget elapses or the text is exhausted.
// Returns true when the scan is complete.
func (s *Scanner) Step(budget time.Duration) bool {
	if s.done {
		return true
	}
	deadline := time.Now().Add(budget)
	for !s.done {
		s.advance()
		if time.Now().After(deadline) {
			break
		}
	}
	return s.done
}

// Finish runs the scan to completion regardless of budget.
func (s *Scanner) Finish() {
	for !s.done {
		s.advance()
	}
}

// advance finds the leftmost earliest-precedence match at or after pos
// and emits up to two spans: the default-colored run before the match and
// the colored match itself.
func (s *Scanner) advance() {
	if s.pos >= len(s.text) {
		s.done = true
		return
	}
	best := -1
	bestStart, bestEnd := 0, 0
	for i := range s.rules {
		c := &s.cursors[i]
		if c.valid && c.start >= 0 && c.start < s.pos {
			c.valid = false
		}
		if !c.valid {
			c.start, c.end = s.search(i, s.pos)
			c.valid = true
		}
		if c.start < 0 {
			continue
		}
		// Leftmost wins; ties go to the earlier rule.
		if best == -1 || c.start < bestStart {
			best = i
			bestStart, bestEnd = c.start, c.end
		}
	}
	if best == -1 {
		s.emit(len(s.text), s.def)
		s.done = true
		return
	}
	if bestStart > s.pos {
		s.emit(bestStart, s.def)
	}
	s.emit(bestEnd, s.rules[best].Color)
}

// search finds rule i's next non-empty match at or after byte offset
// from. Empty matches are skipped by restarting one rune later.
func (s *Scanner) search(i, from int) (start, end int) {
	for from <= len(s.text) {
		loc := s.rules[i].Pattern.FindStringIndex(s.text[from:])
		if loc == nil {
			return -1, -1
		}
		if loc[0] != loc[1] {
			return from + loc[0], from + loc[1]
		}
		_, w := utf8.DecodeRuneInString(s.text[from+loc[0]:])
		if w == 0 {
			return -1, -1
		}
		from += loc[0] + w
	}
	return -1, -1
}

// emit appends a span covering text bytes [pos, to) with color, advancing
// pos. Lengths are in runes.
func (s *Scanner) emit(to, color int) {
	if to <= s.pos {
		return
	}
	n := utf8.RuneCountInString(s.text[s.pos:to])
	if k := len(s.spans); k > 0 && s.spans[k-1].Color == color {
		s.spans[k-1].Length += n
	} else {
		s.spans = append(s.spans, span.Span{Color: color, Length: n})
	}
	s.pos = to
}

// Result returns the finished span list. Only valid once Done.
func (s *Scanner) Result() *span.List {
	return span.FromSpans(s.spans)
}

// Tokenize runs a complete scan in one call.
func Tokenize(text string, rules []Rule, def int) *span.List {
	sc := NewScanner(text, rules, def)
	sc.Finish()
	return sc.Result()
}
