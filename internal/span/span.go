// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/span/span.go
// Summary: Ordered list of colored spans covering a buffer end to end.
// Usage: Kept alongside each buffer; adjusted in O(1) on edits, rebuilt by
// the tokenizer during idle time.

package span

// Span is a run of consecutive runes sharing one color id.
type Span struct {
	Color  int
	Length int
}

// List is an ordered sequence of spans whose cumulative length always
// equals the length of the buffer it covers. An empty buffer is covered by
// an empty list.
type List struct {
	spans       []Span
	total       int
	needsRescan bool
}

// NewList returns a list covering n runes with a single default-colored
// span, or an empty list when n is zero.
func NewList(n, color int) *List {
	l := &List{}
	if n > 0 {
		l.spans = []Span{{Color: color, Length: n}}
		l.total = n
	}
	return l
}

// FromSpans builds a list from already-computed spans, coalescing adjacent
// spans of equal color and dropping empty ones.
func FromSpans(spans []Span) *List {
	l := &List{}
	for _, s := range spans {
		l.appendSpan(s)
	}
	return l
}

func (l *List) appendSpan(s Span) {
	if s.Length <= 0 {
		return
	}
	if n := len(l.spans); n > 0 && l.spans[n-1].Color == s.Color {
		l.spans[n-1].Length += s.Length
	} else {
		l.spans = append(l.spans, s)
	}
	l.total += s.Length
}

// Total returns the cumulative length of all spans.
func (l *List) Total() int {
	return l.total
}

// Count returns the number of spans.
func (l *List) Count() int {
	return len(l.spans)
}

// NeedsRescan reports whether edits have invalidated the span colors.
func (l *List) NeedsRescan() bool {
	return l.needsRescan
}

// SetNeedsRescan marks or clears the rescan flag.
func (l *List) SetNeedsRescan(v bool) {
	l.needsRescan = v
}

// locate returns the index of the span containing pos and the start
// position of that span. pos == total locates the last span.
func (l *List) locate(pos int) (idx, start int) {
	for i, s := range l.spans {
		if pos < start+s.Length {
			return i, start
		}
		start += s.Length
	}
	return len(l.spans) - 1, l.total - l.lastLen()
}

func (l *List) lastLen() int {
	if len(l.spans) == 0 {
		return 0
	}
	return l.spans[len(l.spans)-1].Length
}

// ColorAt returns the color id covering pos, or def when the list is empty
// or pos is out of range.
func (l *List) ColorAt(pos, def int) int {
	if len(l.spans) == 0 || pos < 0 || pos >= l.total {
		return def
	}
	idx, _ := l.locate(pos)
	return l.spans[idx].Color
}

// ExpandAt grows the span containing pos by k runes, covering an insertion
// at pos. Inserting into an empty list creates a span with color def.
func (l *List) ExpandAt(pos, k, def int) {
	if k <= 0 {
		return
	}
	if len(l.spans) == 0 {
		l.spans = append(l.spans, Span{Color: def, Length: k})
		l.total = k
		return
	}
	if pos >= l.total {
		l.spans[len(l.spans)-1].Length += k
	} else {
		idx, _ := l.locate(pos)
		l.spans[idx].Length += k
	}
	l.total += k
}

// CollapseAt shortens spans starting at pos by a total of k runes,
// deleting exhausted spans and coalescing equal-colored neighbors across
// the removal point. Requests past the end are clamped.
func (l *List) CollapseAt(pos, k int) {
	if k <= 0 || len(l.spans) == 0 || pos >= l.total {
		return
	}
	if pos+k > l.total {
		k = l.total - pos
	}
	idx, start := l.locate(pos)
	remaining := k
	i := idx
	// Trim the containing span first, then consume whole spans.
	offset := pos - start
	for remaining > 0 && i < len(l.spans) {
		avail := l.spans[i].Length - offset
		if avail > remaining {
			l.spans[i].Length -= remaining
			remaining = 0
		} else {
			l.spans[i].Length = offset
			remaining -= avail
			if l.spans[i].Length == 0 {
				l.spans = append(l.spans[:i], l.spans[i+1:]...)
			} else {
				i++
			}
			offset = 0
		}
	}
	l.total -= k
	l.coalesceAround(idx)
}

// coalesceAround merges equal-colored neighbors near span index i.
func (l *List) coalesceAround(i int) {
	lo := i - 1
	if lo < 0 {
		lo = 0
	}
	for j := lo; j < len(l.spans)-1; {
		if l.spans[j].Color == l.spans[j+1].Color {
			l.spans[j].Length += l.spans[j+1].Length
			l.spans = append(l.spans[:j+1], l.spans[j+2:]...)
		} else {
			j++
		}
	}
}

// Replace atomically swaps in a freshly tokenized span list and clears the
// rescan flag.
func (l *List) Replace(fresh *List) {
	l.spans = fresh.spans
	l.total = fresh.total
	l.needsRescan = false
}

// Iter is a forward cursor over (start, length, color) triples.
type Iter struct {
	list  *List
	idx   int
	start int
	pos   int
}

// IterFrom returns an iterator positioned at the span containing pos. The
// first triple reports the containing span's true start, which may precede
// pos.
func (l *List) IterFrom(pos int) *Iter {
	it := &Iter{list: l}
	if pos < 0 {
		pos = 0
	}
	for it.idx < len(l.spans) && it.start+l.spans[it.idx].Length <= pos {
		it.start += l.spans[it.idx].Length
		it.idx++
	}
	return it
}

// Next returns the next span triple. ok is false once the list is
// exhausted.
func (it *Iter) Next() (start, length, color int, ok bool) {
	if it.idx >= len(it.list.spans) {
		return 0, 0, 0, false
	}
	s := it.list.spans[it.idx]
	start = it.start
	it.start += s.Length
	it.idx++
	return start, s.Length, s.Color, true
}

// Spans returns a copy of the underlying spans. Intended for tests and
// listings.
func (l *List) Spans() []Span {
	out := make([]Span, len(l.spans))
	copy(out, l.spans)
	return out
}
