// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/ped/main.go
// Summary: Entrypoint: configuration, auxiliary prints, terminal
// acquisition, and the controller session.
// Usage: Run `ped [options] [file ...]`.

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"syscall"

	"github.com/framegrace/ped/config"
	"github.com/framegrace/ped/internal/bind"
	"github.com/framegrace/ped/internal/canvas"
	"github.com/framegrace/ped/internal/control"
	"github.com/framegrace/ped/internal/editor"
	"github.com/framegrace/ped/internal/key"
	"github.com/framegrace/ped/internal/syntax"
	"github.com/framegrace/ped/internal/term"
	"github.com/framegrace/ped/internal/theming"
	"github.com/framegrace/ped/internal/workspace"
)

const version = "ped 0.9.0"

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ue *usageError
		if errors.As(err, &ue) {
			os.Exit(2)
		}
		os.Exit(1)
	}
	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging discards internal logging unless --source or PED_LOG
// asks for a debug file; the editor owns the terminal, so logs can
// never go to stderr.
func setupLogging(opts *options) {
	path := os.Getenv("PED_LOG")
	if path == "" && opts.source {
		path = os.TempDir() + "/ped.log"
	}
	if path == "" {
		log.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(f)
}

// aux prints a listing to stdout. A broken pipe exits silently with 0.
func aux(print func(w io.Writer) error) error {
	err := print(os.Stdout)
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.EPIPE) {
		os.Exit(0)
	}
	return err
}

func run(opts *options) error {
	setupLogging(opts)

	if opts.help {
		return aux(func(w io.Writer) error {
			_, err := io.WriteString(w, usage)
			return err
		})
	}
	if opts.version {
		return aux(func(w io.Writer) error {
			_, err := fmt.Fprintln(w, version)
			return err
		})
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	applyOpts(cfg, opts)

	colors := theming.NewColorTable(cfg.Colors)
	th := theming.NewTheme(colors, cfg.Theme)

	syntaxes, err := loadSyntaxes(opts, th)
	if err != nil {
		return err
	}

	if done, err := auxPrints(opts, cfg, th, syntaxes); done || err != nil {
		return err
	}

	return runSession(opts, cfg, th, syntaxes)
}

// loadConfig honors --bare and --config.
func loadConfig(opts *options) (*config.Config, error) {
	if opts.bare {
		return config.Default(), nil
	}
	return config.Load(opts.configPath)
}

// applyOpts folds command-line toggles over the configuration.
func applyOpts(cfg *config.Config, opts *options) {
	if opts.spotlight != nil {
		cfg.Settings.Spotlight = *opts.spotlight
	}
	if opts.lines != nil {
		cfg.Settings.Lines = *opts.lines
	}
	if opts.eol != nil {
		cfg.Settings.Eol = *opts.eol
	}
	if opts.trackLateral != nil {
		cfg.Settings.TrackLateral = *opts.trackLateral
	}
	if opts.tabHard != nil {
		cfg.Settings.TabHard = *opts.tabHard
	}
	if opts.tabSize != nil {
		cfg.Settings.TabSize = *opts.tabSize
	}
}

// loadSyntaxes honors --bare-syntax and --syntax.
func loadSyntaxes(opts *options, th *theming.Theme) (*syntax.Registry, error) {
	reg := syntax.NewRegistry()
	if opts.bareSyntax {
		return reg, nil
	}
	resolve := func(name string) (int, bool) {
		for _, slot := range th.Slots() {
			if slot == name {
				return th.Color(slot), true
			}
		}
		return th.Colors().Lookup(name)
	}
	if opts.syntaxDir != "" {
		if err := reg.LoadDir(opts.syntaxDir, resolve); err != nil {
			return nil, err
		}
		return reg, nil
	}
	for _, dir := range config.SyntaxDirs() {
		if err := reg.LoadDir(dir, resolve); err != nil {
			return nil, err
		}
		if len(reg.Names()) > 0 {
			break
		}
	}
	return reg, nil
}

// buildBindings compiles the binding table into the trie.
func buildBindings(cfg *config.Config) (*bind.Bindings, error) {
	b := bind.New()
	for seq, op := range cfg.Bindings {
		if err := b.Bind(seq, op); err != nil {
			return nil, fmt.Errorf("binding %s: %w", seq, err)
		}
	}
	return b, nil
}

// auxPrints handles the print-and-exit flags. Reports done=true when
// one of them ran.
func auxPrints(opts *options, cfg *config.Config, th *theming.Theme, syntaxes *syntax.Registry) (bool, error) {
	ops := control.NewRegistry()
	switch {
	case opts.keys:
		return true, aux(func(w io.Writer) error {
			names := []string{"ESC", "ret", "tab", "del", "insert", "delete", "up", "down",
				"left", "right", "home", "end", "pageup", "pagedown"}
			for _, n := range names {
				if _, err := fmt.Fprintln(w, n); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintln(w, "f1..f12, C-/M-/S- prefixes, mouse-*, scroll-*")
			return err
		})
	case opts.ops:
		return true, aux(func(w io.Writer) error {
			for _, name := range ops.Names() {
				if _, err := fmt.Fprintf(w, "%-24s %s\n", name, ops.Describe(name)); err != nil {
					return err
				}
			}
			return nil
		})
	case opts.bindings:
		return true, aux(func(w io.Writer) error {
			b, err := buildBindings(cfg)
			if err != nil {
				return err
			}
			var outErr error
			b.Each(func(seq, op string) {
				if outErr == nil {
					_, outErr = fmt.Fprintf(w, "%-16s %s\n", seq, op)
				}
			})
			return outErr
		})
	case opts.colors:
		return true, aux(func(w io.Writer) error {
			table := th.Colors()
			for _, name := range table.Names() {
				if _, err := fmt.Fprintf(w, "%-16s %3d\n", name, table.Value(name)); err != nil {
					return err
				}
			}
			return nil
		})
	case opts.theme:
		return true, aux(func(w io.Writer) error {
			for _, slot := range th.Slots() {
				if _, err := fmt.Fprintf(w, "%-16s %3d\n", slot, th.Color(slot)); err != nil {
					return err
				}
			}
			return nil
		})
	case opts.syntaxes:
		return true, aux(func(w io.Writer) error {
			for _, name := range syntaxes.Names() {
				if _, err := fmt.Fprintln(w, name); err != nil {
					return err
				}
			}
			return nil
		})
	case opts.describe != "":
		if _, known := ops.Lookup(opts.describe); !known {
			return true, fmt.Errorf("unknown operation %s", opts.describe)
		}
		return true, aux(func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "%s: %s\n", opts.describe, ops.Describe(opts.describe))
			return err
		})
	}
	return false, nil
}

// runSession owns the terminal for the editing session.
func runSession(opts *options, cfg *config.Config, th *theming.Theme, syntaxes *syntax.Registry) (err error) {
	binds, err := buildBindings(cfg)
	if err != nil {
		return err
	}

	rows, cols, err := term.Size()
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}

	ws := workspace.New(rows, cols)
	env := control.NewEnv(ws, cfg, th, syntaxes)
	ops := control.NewRegistry()
	env.SetDispatch(ops, binds)

	// Open the command-line files, or fall back to @scratch.
	var first *editor.Editor
	for _, f := range opts.files {
		ed, openErr := env.OpenPath(f.path)
		if openErr != nil {
			return openErr
		}
		if f.line > 0 {
			ed.GotoLine(f.line)
		}
		if first == nil {
			first = ed
		}
	}
	if first == nil {
		first, _ = env.FindEditor(control.ScratchName)
	}
	w := workspace.NewWindow(first)
	ws.AddInitial(w)
	env.SwitchTo(first)

	guard, err := term.Acquire(true)
	if err != nil {
		return err
	}
	defer guard.Release()
	defer func() {
		// Restore the terminal before any panic escapes.
		if r := recover(); r != nil {
			guard.Release()
			panic(r)
		}
	}()

	in := make(chan byte, 256)
	go func() {
		buf := make([]byte, 256)
		for {
			n, readErr := os.Stdin.Read(buf)
			for i := 0; i < n; i++ {
				in <- buf[i]
			}
			if readErr != nil {
				close(in)
				return
			}
		}
	}()
	kb := key.NewKeyboard(in)
	kb.TrackLateral = cfg.Settings.TrackLateral

	resize := make(chan struct{}, 1)
	term.NotifyResize(resize)

	cv := canvas.New(rows, cols)
	ctl := control.NewController(env, cv, kb, binds, ops, os.Stdout, resize)
	ctl.Size = func() (int, int) {
		r, c, sizeErr := term.Size()
		if sizeErr != nil {
			return rows, cols
		}
		return r, c
	}
	return ctl.Run()
}
