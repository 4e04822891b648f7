// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/key/keyboard.go
// Summary: Byte-stream recognizer turning raw terminal input into
// canonical keys.
// Usage: A reader goroutine feeds terminal bytes into the channel; the
// controller calls Next with a poll timeout to interleave idle work.
// Notes: Malformed sequences are dropped whole, never partially applied.

package key

import (
	"time"
	"unicode/utf8"
)

// escWindow bounds how long a lone ESC waits for a follow-up byte before
// it is emitted as the ESC key itself.
const escWindow = 30 * time.Millisecond

// Keyboard decodes a stream of terminal bytes into keys.
type Keyboard struct {
	in      <-chan byte
	pending []byte

	// TrackLateral passes horizontal scroll keys through; when false
	// they are recognized and discarded.
	TrackLateral bool
}

// NewKeyboard returns a recognizer reading from in.
func NewKeyboard(in <-chan byte) *Keyboard {
	return &Keyboard{in: in, TrackLateral: true}
}

// nextByte returns the next input byte, honoring pushback, waiting at
// most timeout. A negative timeout blocks indefinitely.
func (kb *Keyboard) nextByte(timeout time.Duration) (byte, bool) {
	if n := len(kb.pending); n > 0 {
		b := kb.pending[0]
		kb.pending = kb.pending[1:]
		return b, true
	}
	if timeout < 0 {
		b, ok := <-kb.in
		return b, ok
	}
	select {
	case b, ok := <-kb.in:
		return b, ok
	case <-time.After(timeout):
		return 0, false
	}
}

// pushBack returns a byte for re-reading.
func (kb *Keyboard) pushBack(b byte) {
	kb.pending = append([]byte{b}, kb.pending...)
}

// Next waits up to wait for input and returns the next canonical key.
// ok is false when the window elapsed without a complete key; malformed
// sequences also report false after consuming their bytes.
func (kb *Keyboard) Next(wait time.Duration) (Key, bool) {
	b, ok := kb.nextByte(wait)
	if !ok {
		return None, false
	}
	return kb.decode(b)
}

// decode dispatches on the first byte of a sequence.
func (kb *Keyboard) decode(b byte) (Key, bool) {
	switch {
	case b == 0x1b:
		return kb.decodeEscape()
	case b == '\t':
		return Key{Sym: SymTab}, true
	case b == '\r':
		return Key{Sym: SymRet}, true
	case b == 0x7f:
		return Key{Sym: SymDel}, true
	case b == 0:
		return CtrlKey('@'), true
	case b < 0x1b:
		return CtrlKey(rune('a' + b - 1)), true
	case b < 0x20:
		// 0x1c..0x1f: C-\, C-], C-^, C-_
		return CtrlKey(rune('\\' + b - 0x1c)), true
	default:
		return kb.decodeRune(b, false)
	}
}

// decodeRune finishes a UTF-8 scalar whose lead byte is b.
func (kb *Keyboard) decodeRune(b byte, meta bool) (Key, bool) {
	buf := []byte{b}
	need := 0
	switch {
	case b < 0x80:
		need = 0
	case b&0xe0 == 0xc0:
		need = 1
	case b&0xf0 == 0xe0:
		need = 2
	case b&0xf8 == 0xf0:
		need = 3
	default:
		return None, false // stray continuation byte
	}
	for i := 0; i < need; i++ {
		nb, ok := kb.nextByte(escWindow)
		if !ok || nb&0xc0 != 0x80 {
			return None, false
		}
		buf = append(buf, nb)
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size <= 1 {
		return None, false
	}
	k := Rune(r)
	k.Meta = meta
	return k, true
}

// decodeEscape handles ESC: alone, M- chords, SS3, and CSI.
func (kb *Keyboard) decodeEscape() (Key, bool) {
	b, ok := kb.nextByte(escWindow)
	if !ok {
		return Key{Sym: SymEsc}, true
	}
	switch b {
	case '[':
		return kb.decodeCSI()
	case 'O':
		return kb.decodeSS3()
	default:
		if b >= 0x20 && b != 0x7f {
			return kb.decodeRune(b, true)
		}
		// ESC followed by a control byte: emit ESC, reprocess the byte.
		kb.pushBack(b)
		return Key{Sym: SymEsc}, true
	}
}

// decodeSS3 handles ESC O finals (older function-key encoding).
func (kb *Keyboard) decodeSS3() (Key, bool) {
	b, ok := kb.nextByte(escWindow)
	if !ok {
		return None, false
	}
	switch {
	case b >= 'P' && b <= 'S':
		return Key{Sym: SymFn, Ch: rune(b - 'P' + 1)}, true
	case b == 'H':
		return Key{Sym: SymHome}, true
	case b == 'F':
		return Key{Sym: SymEnd}, true
	}
	return None, false
}

// decodeCSI parses parameter bytes then dispatches on the final byte.
func (kb *Keyboard) decodeCSI() (Key, bool) {
	b, ok := kb.nextByte(escWindow)
	if !ok {
		return None, false
	}
	if b == '<' {
		return kb.decodeMouse()
	}
	params := []int{}
	cur, curSet := 0, false
	for {
		switch {
		case b >= '0' && b <= '9':
			cur = cur*10 + int(b-'0')
			curSet = true
		case b == ';':
			params = append(params, cur)
			cur, curSet = 0, false
		case b >= 0x40 && b <= 0x7e:
			if curSet {
				params = append(params, cur)
			}
			return mapCSIFinal(b, params)
		default:
			return None, false // parameter bytes we do not accept
		}
		if b, ok = kb.nextByte(escWindow); !ok {
			return None, false
		}
	}
}

// modBits decodes the xterm modifier parameter into shift/ctrl flags.
func modBits(param int) (shift, ctrl bool) {
	if param < 1 {
		return false, false
	}
	m := param - 1
	return m&1 != 0, m&4 != 0
}

// mapCSIFinal resolves a CSI final byte plus parameters to a key.
func mapCSIFinal(final byte, params []int) (Key, bool) {
	code := 1
	if len(params) > 0 && params[0] > 0 {
		code = params[0]
	}
	mod := 1
	if len(params) > 1 {
		mod = params[1]
	}
	shift, ctrl := modBits(mod)

	if final == '~' {
		k := Key{Shift: shift, Ctrl: ctrl}
		switch code {
		case 1, 7:
			k.Sym = SymHome
		case 2:
			k.Sym = SymInsert
		case 3:
			k.Sym = SymDelete
		case 4, 8:
			k.Sym = SymEnd
		case 5:
			k.Sym = SymPageUp
		case 6:
			k.Sym = SymPageDown
		case 11, 12, 13, 14, 15:
			k = Key{Sym: SymFn, Ch: rune(code - 10)}
		case 17, 18, 19, 20, 21:
			k = Key{Sym: SymFn, Ch: rune(code - 11)}
		case 23, 24:
			k = Key{Sym: SymFn, Ch: rune(code - 12)}
		default:
			return None, false
		}
		return k, true
	}

	k := Key{Shift: shift, Ctrl: ctrl}
	switch final {
	case 'A':
		k.Sym = SymUp
	case 'B':
		k.Sym = SymDown
	case 'C':
		k.Sym = SymRight
	case 'D':
		k.Sym = SymLeft
	case 'F':
		k.Sym = SymEnd
	case 'H':
		k.Sym = SymHome
	case 'Z':
		k = Key{Sym: SymTab, Shift: true}
	case 'P', 'Q', 'R', 'S':
		k = Key{Sym: SymFn, Ch: rune(final - 'P' + 1)}
	default:
		return None, false
	}
	return k, true
}

// decodeMouse parses an SGR mouse report: ESC [ < b ; x ; y (M|m).
func (kb *Keyboard) decodeMouse() (Key, bool) {
	button, ok := kb.readNumber()
	if !ok {
		return None, false
	}
	if b, ok2 := kb.nextByte(escWindow); !ok2 || b != ';' {
		return None, false
	}
	x, ok := kb.readNumber()
	if !ok {
		return None, false
	}
	if b, ok2 := kb.nextByte(escWindow); !ok2 || b != ';' {
		return None, false
	}
	y, ok := kb.readNumber()
	if !ok {
		return None, false
	}
	fin, ok := kb.nextByte(escWindow)
	if !ok || (fin != 'M' && fin != 'm') {
		return None, false
	}

	shift := button&4 != 0
	k := Key{Shift: shift, X: x, Y: y}
	if button&64 != 0 {
		switch button & 3 {
		case 0:
			k.Sym = SymScrollUp
		case 1:
			k.Sym = SymScrollDown
		case 2:
			k.Sym = SymScrollRight
		case 3:
			k.Sym = SymScrollLeft
		}
		if !kb.TrackLateral && (k.Sym == SymScrollLeft || k.Sym == SymScrollRight) {
			return None, false
		}
		return k, true
	}
	if fin == 'M' {
		k.Sym = SymMousePress
	} else {
		k.Sym = SymMouseRelease
	}
	return k, true
}

// readNumber consumes a run of digits.
func (kb *Keyboard) readNumber() (int, bool) {
	n, any := 0, false
	for {
		b, ok := kb.nextByte(escWindow)
		if !ok {
			return 0, false
		}
		if b >= '0' && b <= '9' {
			n = n*10 + int(b-'0')
			any = true
			continue
		}
		kb.pushBack(b)
		return n, any
	}
}
