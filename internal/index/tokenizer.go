// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index implements the tokenizer and the BM25 lexical index over
// ingested chunks.
package index

import "strings"

// cjkStart and cjkEnd bound the CJK Unified Ideographs block.
const (
	cjkStart = 0x4E00
	cjkEnd   = 0x9FFF
)

// Tokenize lowercases text and splits it into normalized tokens: maximal
// runs of ASCII letters and digits, plus each CJK ideograph as its own
// single-rune token. Latin tokens come first in order of appearance,
// followed by all CJK tokens in order of appearance. Empty or
// whitespace-only input yields nil.
//
// The two-pass order is load-bearing for downstream heuristics and must
// not be interleaved.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)

	var latin, cjk []string
	var run strings.Builder

	flush := func() {
		if run.Len() > 0 {
			latin = append(latin, run.String())
			run.Reset()
		}
	}

	for _, r := range lower {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			run.WriteRune(r)
		case r >= cjkStart && r <= cjkEnd:
			flush()
			cjk = append(cjk, string(r))
		default:
			flush()
		}
	}
	flush()

	return append(latin, cjk...)
}

// IsCJKToken reports whether tok is a single CJK ideograph as produced by
// Tokenize. Such tokens are excluded from coverage denominators.
func IsCJKToken(tok string) bool {
	runes := []rune(tok)
	if len(runes) != 1 {
		return false
	}
	return runes[0] >= cjkStart && runes[0] <= cjkEnd
}
