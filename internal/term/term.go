// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/term/term.go
// Summary: Raw-mode and alternate-screen guard with release on every
// exit path, plus terminal size and resize notification.
// Notes: The guard must be released before any panic propagates so the
// shell gets its cooked terminal back.

package term

import (
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Control sequences for screen and mouse modes.
const (
	enterAlt   = "\x1b[?1049h"
	leaveAlt   = "\x1b[?1049l"
	mouseOn    = "\x1b[?1002h\x1b[?1006h"
	mouseOff   = "\x1b[?1006l\x1b[?1002l"
	cursorShow = "\x1b[?25h"
	sgrReset   = "\x1b[0m"
)

// Guard owns the terminal: raw mode, alternate screen, and optionally
// mouse tracking. Release restores everything and is safe to call more
// than once.
type Guard struct {
	fd       int
	oldState *term.State
	mouse    bool
	released bool
}

// Acquire switches the controlling terminal to raw mode and the
// alternate screen.
func Acquire(mouse bool) (*Guard, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("raw mode: %w", err)
	}
	g := &Guard{fd: fd, oldState: old, mouse: mouse}
	os.Stdout.WriteString(enterAlt)
	if mouse {
		os.Stdout.WriteString(mouseOn)
	}
	return g, nil
}

// Release restores cooked mode and the normal screen.
func (g *Guard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	if g.mouse {
		os.Stdout.WriteString(mouseOff)
	}
	os.Stdout.WriteString(sgrReset + cursorShow + leaveAlt)
	_ = term.Restore(g.fd, g.oldState)
}

// Size returns the terminal dimensions as (rows, cols).
func Size() (rows, cols int, err error) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, err
	}
	return h, w, nil
}

// NotifyResize delivers a tick on ch whenever the terminal geometry
// changes.
func NotifyResize(ch chan<- struct{}) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGWINCH)
	go func() {
		for range sig {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}()
}
