// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/theming/theme.go
// Summary: Semantic theme slots resolved against the color table.
// Usage: Built once at startup from [colors] and [theme] configuration,
// then consulted by the render pipeline and tokenizer.

package theming

import "sort"

// Slot names understood in the [theme] section.
const (
	SlotText        = "text-fg"
	SlotTextBg      = "text-bg"
	SlotSelectBg    = "select-bg"
	SlotSpotlightBg = "spotlight-bg"
	SlotBannerFg    = "banner-fg"
	SlotActiveBg    = "active-bg"
	SlotInactiveBg  = "inactive-bg"
	SlotDirtyFg     = "dirty-fg"
	SlotLineFg      = "line-fg"
	SlotEchoFg      = "echo-fg"
	SlotPromptFg    = "prompt-fg"
	SlotEolFg       = "eol-fg"

	// Token color slots referenced by syntax rules and the fallback lexer.
	SlotTokenComment  = "token-comment"
	SlotTokenString   = "token-string"
	SlotTokenKeyword  = "token-keyword"
	SlotTokenType     = "token-type"
	SlotTokenNumber   = "token-number"
	SlotTokenFunction = "token-function"
	SlotTokenConstant = "token-constant"
)

var defaultSlots = map[string]int{
	SlotText:        252,
	SlotTextBg:      233,
	SlotSelectBg:    237,
	SlotSpotlightBg: 234,
	SlotBannerFg:    232,
	SlotActiveBg:    28,
	SlotInactiveBg:  249,
	SlotDirtyFg:     88,
	SlotLineFg:      243,
	SlotEchoFg:      252,
	SlotPromptFg:    243,
	SlotEolFg:       238,

	SlotTokenComment:  102,
	SlotTokenString:   108,
	SlotTokenKeyword:  175,
	SlotTokenType:     110,
	SlotTokenNumber:   180,
	SlotTokenFunction: 117,
	SlotTokenConstant: 180,
}

// Theme maps semantic slots to resolved palette indexes.
type Theme struct {
	slots  map[string]int
	colors *ColorTable
}

// NewTheme resolves slot overrides (name or number strings) against the
// color table, falling back to defaults for missing or bad entries.
func NewTheme(colors *ColorTable, overrides map[string]string) *Theme {
	th := &Theme{slots: make(map[string]int, len(defaultSlots)), colors: colors}
	for k, v := range defaultSlots {
		th.slots[k] = v
	}
	for slot, name := range overrides {
		if _, known := th.slots[slot]; !known {
			continue
		}
		if v, ok := colors.Lookup(name); ok {
			th.slots[slot] = v
		}
	}
	return th
}

// Color returns the palette index bound to slot, or the text color for an
// unknown slot.
func (t *Theme) Color(slot string) int {
	if v, ok := t.slots[slot]; ok {
		return v
	}
	return t.slots[SlotText]
}

// Colors returns the underlying color table.
func (t *Theme) Colors() *ColorTable {
	return t.colors
}

// Slots returns all slot names sorted, for the theme listing.
func (t *Theme) Slots() []string {
	out := make([]string, 0, len(t.slots))
	for k := range t.slots {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
