// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/syntax/tokenizer_test.go
// Summary: Tokenizer behavior: precedence, coverage, slicing, idempotence.

package syntax

import (
	"regexp"
	"testing"
	"time"

	"github.com/framegrace/ped/internal/span"
)

const defColor = 252

func rules(t *testing.T, pats ...string) []Rule {
	t.Helper()
	out := make([]Rule, 0, len(pats))
	for i, p := range pats {
		out = append(out, Rule{Pattern: regexp.MustCompile(p), Color: 100 + i})
	}
	return out
}

func totalLen(l *span.List) int {
	return l.Total()
}

func TestTokenizeCoversWholeText(t *testing.T) {
	text := "let x = \"hi\" // trailing"
	rs := rules(t, `//.*`, `"[^"]*"`)
	l := Tokenize(text, rs, defColor)
	if totalLen(l) != len([]rune(text)) {
		t.Fatalf("span total %d != text length %d", totalLen(l), len([]rune(text)))
	}
}

func TestLeftmostMatchWins(t *testing.T) {
	text := "aa bb"
	rs := rules(t, `bb`, `aa`)
	l := Tokenize(text, rs, defColor)
	// aa (rule 1, color 101) comes first despite lower precedence.
	if got := l.ColorAt(0, defColor); got != 101 {
		t.Fatalf("ColorAt(0) = %d", got)
	}
	if got := l.ColorAt(3, defColor); got != 100 {
		t.Fatalf("ColorAt(3) = %d", got)
	}
	if got := l.ColorAt(2, defColor); got != defColor {
		t.Fatalf("gap not default colored: %d", got)
	}
}

func TestPrecedenceBreaksTies(t *testing.T) {
	text := "abc"
	rs := rules(t, `ab`, `abc`)
	l := Tokenize(text, rs, defColor)
	// Both match at 0; the earlier rule wins.
	if got := l.ColorAt(0, defColor); got != 100 {
		t.Fatalf("ColorAt(0) = %d", got)
	}
	if got := l.ColorAt(2, defColor); got != defColor {
		t.Fatalf("tail should be default, got %d", got)
	}
}

func TestBlockCommentSpansWholeBuffer(t *testing.T) {
	text := "/* "
	rs := []Rule{{Pattern: regexp.MustCompile(`(?s)/\*.*?(\*/|$)`), Color: 60}}
	l := Tokenize(text, rs, defColor)
	if l.Count() != 1 {
		t.Fatalf("expected a single span, got %v", l.Spans())
	}
	if got := l.ColorAt(0, defColor); got != 60 {
		t.Fatalf("ColorAt(0) = %d", got)
	}
}

func TestTokenizeTwiceIsEqual(t *testing.T) {
	text := "fn main() { // x\n  let s = \"y\";\n}"
	rs := rules(t, `//.*`, `"[^"]*"`, `\b(fn|let)\b`)
	a := Tokenize(text, rs, defColor).Spans()
	b := Tokenize(text, rs, defColor).Spans()
	if len(a) != len(b) {
		t.Fatalf("span counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("span %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestScannerSlicing(t *testing.T) {
	var text string
	for i := 0; i < 2000; i++ {
		text += "word // note\n"
	}
	rs := rules(t, `//.*`)
	sc := NewScanner(text, rs, defColor)
	steps := 0
	for !sc.Done() {
		sc.Step(50 * time.Microsecond)
		steps++
		if steps > 100000 {
			t.Fatalf("scanner failed to converge")
		}
	}
	l := sc.Result()
	if totalLen(l) != len([]rune(text)) {
		t.Fatalf("sliced scan covered %d of %d", totalLen(l), len([]rune(text)))
	}
}

func TestUnicodeLengthsAreRunes(t *testing.T) {
	text := "héllo wörld"
	rs := rules(t, `wörld`)
	l := Tokenize(text, rs, defColor)
	if totalLen(l) != len([]rune(text)) {
		t.Fatalf("span total %d != rune length %d", totalLen(l), len([]rune(text)))
	}
	if got := l.ColorAt(6, defColor); got != 100 {
		t.Fatalf("ColorAt(6) = %d", got)
	}
}

func TestEmptyMatchesDoNotLoop(t *testing.T) {
	text := "xxab"
	rs := rules(t, `a*`)
	done := make(chan *span.List, 1)
	go func() { done <- Tokenize(text, rs, defColor) }()
	select {
	case l := <-done:
		if totalLen(l) != 4 {
			t.Fatalf("span total %d", totalLen(l))
		}
		if got := l.ColorAt(2, defColor); got != 100 {
			t.Fatalf("ColorAt(2) = %d", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("tokenizer did not terminate")
	}
}
