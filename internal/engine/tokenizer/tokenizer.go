// Package tokenizer converts raw text into the character-spaced form the
// language model was trained on.
package tokenizer

import (
	"strings"
	"unicode"
)

// punctuationSet glues to the preceding token instead of standing alone.
// U+05D9 (Hebrew yod) is part of the set the model was trained with.
const punctuationSet = ",.!?:;'\u05d9\"()-\u2013"

// IsPunctuation reports whether r belongs to the gluing punctuation set.
func IsPunctuation(r rune) bool {
	return strings.ContainsRune(punctuationSet, r)
}

func dropped(r rune) bool {
	return (r >= '0' && r <= '9') || r == '\n' || r == '\t'
}

// Tokenize separates every character of text with a single space, drops
// ASCII digits, newlines and tabs, and keeps punctuation attached to the
// character before it. Runs of adjacent punctuation are emitted without
// separators. Positions refer to the input, so a dropped character still
// counts as the "previous" or "next" character of its neighbours.
//
// Invalid UTF-8 bytes are treated as U+FFFD.
func Tokenize(text string) string {
	runes := []rune(text)
	last := len(runes) - 1

	var b strings.Builder
	b.Grow(len(text) * 2)

	for i, c := range runes {
		if dropped(c) {
			continue
		}
		if i > 0 && runes[i-1] != ' ' && IsPunctuation(c) {
			trimmed := strings.TrimRightFunc(b.String(), isSpace)
			b.Reset()
			b.WriteString(trimmed)
		}
		b.WriteRune(c)
		if i < last && (!IsPunctuation(c) || !IsPunctuation(runes[i+1])) {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// TokenizeBatch tokenizes each text independently, preserving order.
func TokenizeBatch(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = Tokenize(t)
	}
	return out
}

// isSpace matches the whitespace set trimmed by the training pipeline: the
// Unicode White_Space characters plus the ASCII information separators
// U+001C..U+001F.
func isSpace(r rune) bool {
	if r >= 0x1C && r <= 0x1F {
		return true
	}
	return unicode.IsSpace(r)
}
