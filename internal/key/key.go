// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/key/key.go
// Summary: Canonical key values and their names.
// Usage: Produced by the keyboard recognizer, consumed by the binding
// trie; names appear in the [bindings] configuration section.

package key

import (
	"fmt"
	"strings"
)

// Sym classifies a canonical key.
type Sym uint8

const (
	SymNone Sym = iota
	SymRune     // printable scalar in Ch; Ctrl/Meta may be set
	SymEsc
	SymTab
	SymRet
	SymDel // backspace (DEL byte)
	SymUp
	SymDown
	SymLeft
	SymRight
	SymHome
	SymEnd
	SymPageUp
	SymPageDown
	SymInsert
	SymDelete // forward delete
	SymFn     // function key number in Ch
	SymMousePress
	SymMouseRelease
	SymScrollUp
	SymScrollDown
	SymScrollLeft
	SymScrollRight
	SymResize // synthetic, injected on terminal size change
)

// Key is a single canonical key value regardless of the byte sequence
// that encoded it. X and Y carry 1-based terminal coordinates for mouse
// keys.
type Key struct {
	Sym   Sym
	Ch    rune
	Shift bool
	Ctrl  bool
	Meta  bool
	X, Y  int
}

// None is the zero key.
var None = Key{}

// Rune returns a plain printable key.
func Rune(r rune) Key {
	return Key{Sym: SymRune, Ch: r}
}

// CtrlKey returns a control-chord key for the given letter or symbol.
func CtrlKey(r rune) Key {
	return Key{Sym: SymRune, Ch: r, Ctrl: true}
}

// MetaKey returns an ESC-prefixed key for the given rune.
func MetaKey(r rune) Key {
	return Key{Sym: SymRune, Ch: r, Meta: true}
}

var symNames = map[Sym]string{
	SymEsc:          "ESC",
	SymTab:          "tab",
	SymRet:          "ret",
	SymDel:          "del",
	SymUp:           "up",
	SymDown:         "down",
	SymLeft:         "left",
	SymRight:        "right",
	SymHome:         "home",
	SymEnd:          "end",
	SymPageUp:       "pageup",
	SymPageDown:     "pagedown",
	SymInsert:       "insert",
	SymDelete:       "delete",
	SymMousePress:   "mouse-press",
	SymMouseRelease: "mouse-release",
	SymScrollUp:     "scroll-up",
	SymScrollDown:   "scroll-down",
	SymScrollLeft:   "scroll-left",
	SymScrollRight:  "scroll-right",
	SymResize:       "resize",
}

// String renders the canonical name: C-a, M-x, S-pageup, U+0041 style
// printables render as themselves.
func (k Key) String() string {
	var sb strings.Builder
	if k.Shift {
		sb.WriteString("S-")
	}
	if k.Ctrl {
		sb.WriteString("C-")
	}
	if k.Meta {
		sb.WriteString("M-")
	}
	switch k.Sym {
	case SymRune:
		sb.WriteRune(k.Ch)
	case SymFn:
		fmt.Fprintf(&sb, "f%d", k.Ch)
	default:
		if name, ok := symNames[k.Sym]; ok {
			sb.WriteString(name)
		} else {
			sb.WriteString("<none>")
		}
	}
	return sb.String()
}

// IsMouse reports whether the key is a mouse event.
func (k Key) IsMouse() bool {
	switch k.Sym {
	case SymMousePress, SymMouseRelease, SymScrollUp, SymScrollDown, SymScrollLeft, SymScrollRight:
		return true
	}
	return false
}

// ParseName converts a binding-file key name ("C-a", "S-C-end", "M-x",
// "ESC", "ret", "f5", or a single printable character) to a Key.
func ParseName(name string) (Key, error) {
	k := Key{}
	rest := name
	for {
		switch {
		case strings.HasPrefix(rest, "S-") && len(rest) > 2:
			k.Shift = true
			rest = rest[2:]
		case strings.HasPrefix(rest, "C-") && len(rest) > 2:
			k.Ctrl = true
			rest = rest[2:]
		case strings.HasPrefix(rest, "M-") && len(rest) > 2:
			k.Meta = true
			rest = rest[2:]
		default:
			goto base
		}
	}
base:
	for sym, n := range symNames {
		if rest == n {
			k.Sym = sym
			return k, nil
		}
	}
	if len(rest) > 1 && (rest[0] == 'f' || rest[0] == 'F') {
		var n int
		if _, err := fmt.Sscanf(rest[1:], "%d", &n); err == nil && n >= 1 && n <= 12 {
			k.Sym = SymFn
			k.Ch = rune(n)
			return k, nil
		}
	}
	rs := []rune(rest)
	if len(rs) == 1 {
		k.Sym = SymRune
		k.Ch = rs[0]
		return k, nil
	}
	return None, fmt.Errorf("unknown key name %q", name)
}

// ParseSequence converts a colon-separated sequence of key names.
func ParseSequence(seq string) ([]Key, error) {
	parts := strings.Split(seq, ":")
	out := make([]Key, 0, len(parts))
	for _, p := range parts {
		k, err := ParseName(p)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// FormatSequence renders keys as a colon-separated name sequence.
func FormatSequence(keys []Key) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, ":")
}
