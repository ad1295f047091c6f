// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank enriches raw-scored retrieval candidates with coverage and
// title signals and fuses them into one ranking score.
package rank

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/answer-engine/internal/index"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// Candidate is the transient per-query view of one retrieved chunk. It is
// created fresh for each query and discarded afterwards.
type Candidate struct {
	ChunkID  int64
	Title    string
	Text     string
	RawScore float64

	// Coverage, TitleHit, and FusedScore are filled by Fuse.
	Coverage   float64
	TitleHit   bool
	FusedScore float64

	// LineStart and LineEnd carry provenance for hit listings.
	LineStart int
	LineEnd   int
}

// Normalize divides each score by the maximum of the set. When the maximum
// is not positive every normalized score is zero.
func Normalize(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	if max <= 0 {
		return out
	}
	for i, s := range scores {
		out[i] = s / max
	}
	return out
}

// Coverage returns the fraction of distinct, countable query tokens that
// appear as a literal substring of the lowercased text. Single CJK
// ideographs are too noisy and are excluded from the denominator. Zero
// countable tokens yields zero coverage.
func Coverage(queryTokens []string, text string) float64 {
	lower := strings.ToLower(text)

	seen := make(map[string]bool, len(queryTokens))
	hit, total := 0, 0
	for _, tok := range queryTokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		if index.IsCJKToken(tok) {
			continue
		}
		total++
		if strings.Contains(lower, tok) {
			hit++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hit) / float64(total)
}

// TitleHit reports whether any query token of at least two characters
// appears as a substring of the lowercased title. Single-character
// tokens, including lone ideographs, match too noisily to count.
func TitleHit(queryTokens []string, title string) bool {
	lower := strings.ToLower(title)
	for _, tok := range queryTokens {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		if strings.Contains(lower, strings.ToLower(tok)) {
			return true
		}
	}
	return false
}

// Fuse enriches each candidate with normalized score, coverage, and title
// hit, computes the fused score under cfg, and re-sorts by descending
// fused score. The sort is stable: ties keep the incoming order. Fuse
// mutates and returns the same slice.
func Fuse(cands []Candidate, queryTokens []string, cfg types.FusionConfig) []Candidate {
	raws := make([]float64, len(cands))
	for i, c := range cands {
		raws[i] = c.RawScore
	}
	norm := Normalize(raws)

	for i := range cands {
		c := &cands[i]
		c.Coverage = Coverage(queryTokens, c.Text)
		c.TitleHit = TitleHit(queryTokens, c.Title)

		title := 0.0
		if c.TitleHit {
			title = 1.0
		}
		c.FusedScore = cfg.ScoreWeight*norm[i] + cfg.CoverageWeight*c.Coverage + cfg.TitleWeight*title
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].FusedScore > cands[j].FusedScore
	})
	return cands
}
