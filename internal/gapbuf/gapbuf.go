// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/gapbuf/gapbuf.go
// Summary: Gap buffer holding the text of a single editing buffer.
// Usage: Owned by an editor; all text mutation and scanning goes through here.

package gapbuf

// Buffer is a contiguous block of rune slots with a movable gap. Slots in
// [0, gapStart) and [gapEnd, cap) are live; the gap holds no data. Gap
// movement is deferred until a mutation actually needs the gap at its
// position, so pure cursor motion never shifts runes.
type Buffer struct {
	data     []rune
	gapStart int
	gapEnd   int
}

const initialCapacity = 64

// New creates an empty buffer with a small initial capacity.
func New() *Buffer {
	return &Buffer{data: make([]rune, initialCapacity), gapStart: 0, gapEnd: initialCapacity}
}

// FromRunes creates a buffer whose live content is a copy of rs, with the
// gap placed at the end.
func FromRunes(rs []rune) *Buffer {
	c := len(rs) * 2
	if c < initialCapacity {
		c = initialCapacity
	}
	b := &Buffer{data: make([]rune, c), gapStart: len(rs), gapEnd: c}
	copy(b.data, rs)
	return b
}

// FromString creates a buffer holding the runes of s.
func FromString(s string) *Buffer {
	return FromRunes([]rune(s))
}

// Len returns the number of live runes.
func (b *Buffer) Len() int {
	return b.gapStart + (len(b.data) - b.gapEnd)
}

// Cap returns the total slot count, live plus gap.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// slot maps a logical index to its physical slot.
func (b *Buffer) slot(i int) int {
	if i < b.gapStart {
		return i
	}
	return i + (b.gapEnd - b.gapStart)
}

// Get returns the rune at logical index i. i must be in [0, Len()).
func (b *Buffer) Get(i int) rune {
	return b.data[b.slot(i)]
}

// moveGap repositions the gap so that gapStart == pos, shifting only the
// runes between the old and new positions.
func (b *Buffer) moveGap(pos int) {
	if pos == b.gapStart {
		return
	}
	gap := b.gapEnd - b.gapStart
	if pos < b.gapStart {
		n := b.gapStart - pos
		copy(b.data[b.gapEnd-n:b.gapEnd], b.data[pos:pos+n])
		b.gapStart = pos
		b.gapEnd = pos + gap
	} else {
		n := pos - b.gapStart
		copy(b.data[b.gapStart:b.gapStart+n], b.data[b.gapEnd:b.gapEnd+n])
		b.gapStart = pos
		b.gapEnd = pos + gap
	}
}

// grow reallocates so that the gap can absorb at least n more runes,
// at least doubling capacity.
func (b *Buffer) grow(n int) {
	need := b.Len() + n
	c := len(b.data) * 2
	if c < need {
		c = need * 2
	}
	data := make([]rune, c)
	copy(data, b.data[:b.gapStart])
	tail := len(b.data) - b.gapEnd
	copy(data[c-tail:], b.data[b.gapEnd:])
	b.data = data
	b.gapEnd = c - tail
}

// Insert places r at logical position pos. pos == Len() appends.
func (b *Buffer) Insert(pos int, r rune) {
	if pos > b.Len() {
		pos = b.Len()
	}
	if b.gapStart == b.gapEnd {
		b.grow(1)
	}
	b.moveGap(pos)
	b.data[b.gapStart] = r
	b.gapStart++
}

// InsertSlice places all of rs at logical position pos.
func (b *Buffer) InsertSlice(pos int, rs []rune) {
	if len(rs) == 0 {
		return
	}
	if pos > b.Len() {
		pos = b.Len()
	}
	if b.gapEnd-b.gapStart < len(rs) {
		b.grow(len(rs))
	}
	b.moveGap(pos)
	copy(b.data[b.gapStart:], rs)
	b.gapStart += len(rs)
}

// Remove deletes up to k runes starting at pos and returns a copy of what
// was removed. Requests past the end are clamped.
func (b *Buffer) Remove(pos, k int) []rune {
	n := b.Len()
	if pos >= n || k <= 0 {
		return nil
	}
	if pos+k > n {
		k = n - pos
	}
	b.moveGap(pos)
	removed := make([]rune, k)
	copy(removed, b.data[b.gapEnd:b.gapEnd+k])
	b.gapEnd += k
	return removed
}

// Substring copies k runes starting at pos without moving the gap.
// The range is clamped to the live content.
func (b *Buffer) Substring(pos, k int) []rune {
	n := b.Len()
	if pos < 0 {
		pos = 0
	}
	if pos >= n || k <= 0 {
		return nil
	}
	if pos+k > n {
		k = n - pos
	}
	out := make([]rune, k)
	for i := 0; i < k; i++ {
		out[i] = b.Get(pos + i)
	}
	return out
}

// FindForward scans from pos toward the end and returns the index of the
// first rune satisfying pred, or -1 if none does.
func (b *Buffer) FindForward(pos int, pred func(rune) bool) int {
	n := b.Len()
	if pos < 0 {
		pos = 0
	}
	for i := pos; i < n; i++ {
		if pred(b.Get(i)) {
			return i
		}
	}
	return -1
}

// FindBackward scans from pos-1 toward the start and returns the index of
// the first rune satisfying pred, or -1 if none does.
func (b *Buffer) FindBackward(pos int, pred func(rune) bool) int {
	n := b.Len()
	if pos > n {
		pos = n
	}
	for i := pos - 1; i >= 0; i-- {
		if pred(b.Get(i)) {
			return i
		}
	}
	return -1
}

// String materializes the live content. Used for saving, searching, and
// full rescans; not on the per-keystroke path.
func (b *Buffer) String() string {
	out := make([]rune, 0, b.Len())
	out = append(out, b.data[:b.gapStart]...)
	out = append(out, b.data[b.gapEnd:]...)
	return string(out)
}

// Runes returns a copy of the live content as a rune slice.
func (b *Buffer) Runes() []rune {
	out := make([]rune, 0, b.Len())
	out = append(out, b.data[:b.gapStart]...)
	out = append(out, b.data[b.gapEnd:]...)
	return out
}
