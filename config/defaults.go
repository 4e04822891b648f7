// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Built-in key bindings, overridable from [bindings].

package config

// defaultBindings maps key sequences to operation names. The [bindings]
// section overrides individual entries.
var defaultBindings = map[string]string{
	// exit and cancellation
	"C-q": "quit",
	// help
	"C-h": "help",
	// navigation and selection
	"C-b":        "move-left",
	"left":       "move-left",
	"S-left":     "move-left-select",
	"C-f":        "move-right",
	"right":      "move-right",
	"S-right":    "move-right-select",
	"C-p":        "move-up",
	"up":         "move-up",
	"S-up":       "move-up-select",
	"C-n":        "move-down",
	"down":       "move-down",
	"S-down":     "move-down-select",
	"M-p":        "move-up-page",
	"pageup":     "move-up-page",
	"S-pageup":   "move-up-page-select",
	"M-n":        "move-down-page",
	"pagedown":   "move-down-page",
	"S-pagedown": "move-down-page-select",
	"C-a":        "move-start",
	"home":       "move-start",
	"S-home":     "move-start-select",
	"C-e":        "move-end",
	"end":        "move-end",
	"S-end":      "move-end-select",
	"C-home":     "move-top",
	"M-a":        "move-top",
	"S-C-home":   "move-top-select",
	"C-end":      "move-bottom",
	"M-e":        "move-bottom",
	"S-C-end":    "move-bottom-select",
	"S-C-up":     "scroll-up",
	"S-C-down":   "scroll-down",
	"C-l":        "scroll-center",
	"C-@":        "set-mark",
	"C-_":        "goto-line",
	// insertion and removal
	"ret": "insert-line",
	"tab": "insert-tab",
	"C-d": "remove-right",
	"del": "remove-left",
	"C-j": "remove-start",
	"C-k": "remove-end",
	// history
	"C-z": "undo",
	"C-y": "redo",
	// search
	"C-r": "search",
	"C-t": "search-next",
	"M-r": "search-regex",
	// selection actions
	"C-c": "copy",
	"C-v": "paste",
	"C-x": "cut",
	"M-c": "copy-global",
	"M-v": "paste-global",
	"M-x": "cut-global",
	// file handling
	"C-o":     "open-file",
	"M-o:t":   "open-file-top",
	"M-o:b":   "open-file-bottom",
	"M-o:p":   "open-file-above",
	"M-o:n":   "open-file-below",
	"C-s":     "save-file",
	"M-s":     "save-file-as",
	// window handling
	"C-w":   "kill-window",
	"M-w:w": "close-window",
	"M-w:o": "close-other-windows",
	"M-w:t": "top-window",
	"M-w:b": "bottom-window",
	"M-w:p": "prev-window",
	"M-<":   "prev-window",
	"M-w:n": "next-window",
	"M->":   "next-window",
	// editor handling
	"M-,": "prev-editor",
	"M-.": "next-editor",
	"M-b": "select-editor",
	"M-g": "goto-line",
}

// DefaultBindings returns a fresh copy of the built-in binding table.
func DefaultBindings() map[string]string {
	out := make(map[string]string, len(defaultBindings))
	for k, v := range defaultBindings {
		out[k] = v
	}
	return out
}
