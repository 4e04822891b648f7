// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/ped/opts.go
// Summary: Command-line parsing: files, toggles, and auxiliary print
// requests.
// Notes: Parsed by hand so --no- pairs, short aliases, and `--`
// termination behave exactly as documented; flag misuse exits with 2.

package main

import (
	"fmt"
	"strconv"
	"strings"
)

// fileArg is a file to open, with an optional goto line.
type fileArg struct {
	path string
	line int // 0 means none
}

// options is the parsed command line. Tri-state toggles stay nil when
// unset so the configuration file keeps its say.
type options struct {
	files []fileArg

	help    bool
	version bool
	source  bool

	configPath string
	syntaxDir  string
	bare       bool
	bareSyntax bool

	spotlight    *bool
	lines        *bool
	eol          *bool
	trackLateral *bool
	tabHard      *bool
	tabSize      *int

	keys     bool
	ops      bool
	bindings bool
	colors   bool
	theme    bool
	syntaxes bool
	describe string
}

// usageError marks misuse of the command line (exit code 2).
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func misuse(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func boolPtr(v bool) *bool { return &v }

// parseOptions interprets args (without the program name).
func parseOptions(args []string) (*options, error) {
	opts := &options{}
	i := 0
	next := func(flag string) (string, error) {
		i++
		if i >= len(args) {
			return "", misuse("%s expects a value", flag)
		}
		return args[i], nil
	}
	for ; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h", "-?":
			opts.help = true
		case "--version", "-v":
			opts.version = true
		case "--source":
			opts.source = true
		case "--config", "-C":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			opts.configPath = v
		case "--syntax", "-S":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			opts.syntaxDir = v
		case "--bare", "-b":
			opts.bare = true
		case "--bare-syntax", "-B":
			opts.bareSyntax = true
		case "--spotlight":
			opts.spotlight = boolPtr(true)
		case "--no-spotlight":
			opts.spotlight = boolPtr(false)
		case "--lines":
			opts.lines = boolPtr(true)
		case "--no-lines":
			opts.lines = boolPtr(false)
		case "--eol":
			opts.eol = boolPtr(true)
		case "--no-eol":
			opts.eol = boolPtr(false)
		case "--track-lateral":
			opts.trackLateral = boolPtr(true)
		case "--no-track-lateral":
			opts.trackLateral = boolPtr(false)
		case "--tab-hard":
			opts.tabHard = boolPtr(true)
		case "--tab-soft":
			opts.tabHard = boolPtr(false)
		case "--tab-size", "-t":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 16 {
				return nil, misuse("bad tab size %q", v)
			}
			opts.tabSize = &n
		case "--keys":
			opts.keys = true
		case "--ops":
			opts.ops = true
		case "--bindings":
			opts.bindings = true
		case "--colors":
			opts.colors = true
		case "--theme":
			opts.theme = true
		case "--syntaxes":
			opts.syntaxes = true
		case "--describe":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			opts.describe = v
		case "--goto", "-g":
			v, err := next(arg)
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return nil, misuse("bad line number %q", v)
			}
			if len(opts.files) == 0 {
				return nil, misuse("%s must follow a file", arg)
			}
			opts.files[len(opts.files)-1].line = n
		case "--":
			for _, rest := range args[i+1:] {
				opts.files = append(opts.files, fileArg{path: rest})
			}
			return opts, nil
		default:
			if strings.HasPrefix(arg, "-") && arg != "-" {
				return nil, misuse("unexpected argument %s", arg)
			}
			opts.files = append(opts.files, fileArg{path: arg})
		}
	}
	return opts, nil
}

const usage = `usage: ped [options] [file ...]

options:
  -h, --help            show this help and exit
  -v, --version         show the version and exit
      --source          log internal activity to the debug file
  -C, --config FILE     use FILE instead of the discovered pedrc
  -S, --syntax DIR      load syntax definitions from DIR
  -b, --bare            skip the configuration file
  -B, --bare-syntax     skip syntax definitions
      --[no-]spotlight  highlight the cursor row
      --[no-]lines      show line numbers
      --[no-]eol        show end-of-line markers
      --tab-hard        insert literal tabs
      --tab-soft        insert spaces for tabs
  -t, --tab-size N      tab stop width (1-16)
      --[no-]track-lateral  report horizontal mouse scroll
  -g, --goto N          jump to line N of the preceding file
      --keys            print key names and exit
      --ops             print operations and exit
      --bindings        print bindings and exit
      --colors          print color names and exit
      --theme           print theme slots and exit
      --syntaxes        print loaded syntax definitions and exit
      --describe OP     print one operation's description and exit
  --                    treat remaining arguments as files
`
