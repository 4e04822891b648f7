// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/editor/search.go
// Summary: Literal and regex search over the buffer, with per-editor
// last-search state for repeat searches.

package editor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// SearchSpec describes one search.
type SearchSpec struct {
	Term          string
	CaseSensitive bool
	Regex         bool
}

// Match is one search hit in rune offsets.
type Match struct {
	Pos int
	Len int
}

// LastSearch returns the most recent search spec.
func (e *Editor) LastSearch() SearchSpec { return e.lastSearch }

// SetLastSearch records the spec used for repeat searches.
func (e *Editor) SetLastSearch(s SearchSpec) { e.lastSearch = s }

// FindMatches returns every match of spec in buffer order. A bad regex
// is an error; an empty term matches nothing.
func (e *Editor) FindMatches(spec SearchSpec) ([]Match, error) {
	if spec.Term == "" {
		return nil, nil
	}
	text := e.buf.String()
	if spec.Regex {
		pat := spec.Term
		if !spec.CaseSensitive {
			pat = "(?i)" + pat
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("bad pattern: %w", err)
		}
		locs := re.FindAllStringIndex(text, -1)
		return byteMatchesToRunes(text, locs), nil
	}
	hay, needle := text, spec.Term
	if !spec.CaseSensitive {
		hay = strings.ToLower(hay)
		needle = strings.ToLower(needle)
	}
	var locs [][]int
	for off := 0; ; {
		i := strings.Index(hay[off:], needle)
		if i < 0 {
			break
		}
		start := off + i
		locs = append(locs, []int{start, start + len(needle)})
		off = start + len(needle)
	}
	return byteMatchesToRunes(text, locs), nil
}

// byteMatchesToRunes converts byte-offset match pairs to rune offsets in
// one pass over the text.
func byteMatchesToRunes(text string, locs [][]int) []Match {
	if len(locs) == 0 {
		return nil
	}
	out := make([]Match, 0, len(locs))
	runeAt := 0
	byteAt := 0
	advance := func(to int) int {
		for byteAt < to {
			_, w := utf8.DecodeRuneInString(text[byteAt:])
			byteAt += w
			runeAt++
		}
		return runeAt
	}
	for _, loc := range locs {
		start := advance(loc[0])
		end := advance(loc[1])
		out = append(out, Match{Pos: start, Len: end - start})
	}
	return out
}

// NextMatch returns the first match strictly after from, wrapping to the
// buffer start; backward searches return the last match strictly before
// from, wrapping to the end. ok is false when there are no matches.
func NextMatch(matches []Match, from int, forward bool) (Match, bool) {
	if len(matches) == 0 {
		return Match{}, false
	}
	if forward {
		for _, m := range matches {
			if m.Pos > from {
				return m, true
			}
		}
		return matches[0], true
	}
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i].Pos < from {
			return matches[i], true
		}
	}
	return matches[len(matches)-1], true
}
