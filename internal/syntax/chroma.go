// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/syntax/chroma.go
// Summary: Chroma-backed fallback tokenizer for files without a local
// syntax definition, with go-enry language detection.

package syntax

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/go-enry/go-enry/v2"

	"github.com/framegrace/ped/internal/span"
	"github.com/framegrace/ped/internal/theming"
)

// DetectLanguage names the language of a file from its name and content.
// Empty when detection fails.
func DetectLanguage(filename string, content []byte) string {
	if filename != "" {
		if lang := enry.GetLanguage(filename, content); lang != "" {
			return lang
		}
	}
	if lang, safe := enry.GetLanguageByClassifier(content, nil); safe {
		return lang
	}
	return ""
}

// lexerFor resolves a chroma lexer from a detected language name, falling
// back to content analysis.
func lexerFor(lang, text string) chroma.Lexer {
	if lang != "" {
		if l := lexers.Get(lang); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(text); l != nil {
		return l
	}
	return nil
}

// slotForToken maps a chroma token type to one of the theme's token
// slots. Empty means the default text color.
func slotForToken(t chroma.TokenType) string {
	switch {
	case t.InCategory(chroma.Comment):
		return theming.SlotTokenComment
	case t.InSubCategory(chroma.LiteralString):
		return theming.SlotTokenString
	case t.InSubCategory(chroma.LiteralNumber):
		return theming.SlotTokenNumber
	case t == chroma.NameFunction || t == chroma.NameFunctionMagic:
		return theming.SlotTokenFunction
	case t == chroma.NameClass || t == chroma.NameBuiltin || t == chroma.KeywordType:
		return theming.SlotTokenType
	case t == chroma.NameConstant:
		return theming.SlotTokenConstant
	case t.InCategory(chroma.Keyword):
		return theming.SlotTokenKeyword
	}
	return ""
}

// ChromaTokenize produces a span list for text using a chroma lexer
// selected for lang. Returns nil when no lexer applies, so the caller can
// keep the single default span.
func ChromaTokenize(text, lang string, th *theming.Theme) *span.List {
	lexer := lexerFor(lang, text)
	if lexer == nil {
		return nil
	}
	lexer = chroma.Coalesce(lexer)
	tokens, err := chroma.Tokenise(lexer, nil, text)
	if err != nil {
		return nil
	}
	def := th.Color(theming.SlotText)
	spans := make([]span.Span, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		n := len([]rune(tok.Value))
		if n == 0 {
			continue
		}
		color := def
		if slot := slotForToken(tok.Type); slot != "" {
			color = th.Color(slot)
		}
		spans = append(spans, span.Span{Color: color, Length: n})
	}
	return span.FromSpans(spans)
}
