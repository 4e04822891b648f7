// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/bind/bind.go
// Summary: Prefix trie mapping key sequences to named operations.
// Usage: Built from defaults plus the [bindings] section; the controller
// resolves accumulated keys against it on every keystroke.

package bind

import (
	"fmt"

	"github.com/framegrace/ped/internal/key"
)

// Kind classifies a resolution result.
type Kind int

const (
	// Incomplete means the sequence is a proper prefix of some binding.
	Incomplete Kind = iota
	// Bound means the sequence maps to an operation.
	Bound
	// Unbound means no binding starts with this sequence.
	Unbound
)

// Result of resolving a key sequence.
type Result struct {
	Kind Kind
	Op   string
}

type node struct {
	op       string
	bound    bool
	children map[key.Key]*node
}

func newNode() *node {
	return &node{children: make(map[key.Key]*node)}
}

// Bindings is the runtime-configurable binding trie.
type Bindings struct {
	root *node
}

// Reserved keys that may not be remapped away from their built-in roles,
// and the operations they are pinned to.
var reserved = map[key.Key]string{
	key.CtrlKey('q'): "quit",
	key.CtrlKey('g'): "cancel",
}

// New returns an empty trie.
func New() *Bindings {
	return &Bindings{root: newNode()}
}

// Bind attaches op to the key sequence named by seq ("C-x:C-s" style).
// Rebinding an existing sequence replaces it. Reserved keys reject any
// other operation.
func (b *Bindings) Bind(seq, op string) error {
	keys, err := key.ParseSequence(seq)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return fmt.Errorf("empty key sequence")
	}
	if pinned, ok := reserved[keys[0]]; ok && (op != pinned || len(keys) > 1) {
		return fmt.Errorf("key %s is reserved for %s", keys[0], pinned)
	}
	if len(keys) == 1 && keys[0].Sym == key.SymEsc {
		return fmt.Errorf("ESC is reserved as a sequence prefix")
	}
	n := b.root
	for _, k := range keys {
		child, ok := n.children[k]
		if !ok {
			child = newNode()
			n.children[k] = child
		}
		n = child
	}
	n.op = op
	n.bound = true
	return nil
}

// Resolve walks the trie with the given sequence.
func (b *Bindings) Resolve(keys []key.Key) Result {
	n := b.root
	for _, k := range keys {
		child, ok := n.children[k]
		if !ok {
			return Result{Kind: Unbound}
		}
		n = child
	}
	if n.bound {
		return Result{Kind: Bound, Op: n.op}
	}
	return Result{Kind: Incomplete}
}

// walk visits every bound sequence in the trie.
func (n *node) walk(prefix []key.Key, visit func(seq []key.Key, op string)) {
	if n.bound {
		visit(prefix, n.op)
	}
	for k, child := range n.children {
		child.walk(append(prefix[:len(prefix):len(prefix)], k), visit)
	}
}

// Each visits every binding as (sequence name, operation).
func (b *Bindings) Each(visit func(seq, op string)) {
	b.root.walk(nil, func(seq []key.Key, op string) {
		visit(key.FormatSequence(seq), op)
	})
}

// OpFor returns the first sequence bound to op, for help listings.
func (b *Bindings) OpFor(op string) (string, bool) {
	found := ""
	b.root.walk(nil, func(seq []key.Key, o string) {
		if o == op && found == "" {
			found = key.FormatSequence(seq)
		}
	})
	return found, found != ""
}
