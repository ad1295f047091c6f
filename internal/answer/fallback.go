// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"fmt"
	"strings"

	"github.com/pdiddy/answer-engine/internal/rank"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// hardOK reports whether the candidate's own title+text contains every
// applicable hard term. Vacuously true when no hard terms apply.
func hardOK(c rank.Candidate, hardTerms []string) bool {
	if len(hardTerms) == 0 {
		return true
	}
	blob := strings.ToLower(c.Title) + "\n" + strings.ToLower(c.Text)
	for _, term := range hardTerms {
		if !strings.Contains(blob, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

// selectorScore ranks candidates for the excerpt fallback. It is distinct
// from fusion: hard-term containment dominates so the excerpt never
// quotes a chunk unrelated to the sensitive terms in the query.
func selectorScore(c rank.Candidate, hardTerms []string, cfg types.FallbackConfig) float64 {
	score := cfg.CoverageWeight*c.Coverage + cfg.ScoreWeight*c.RawScore
	if hardOK(c, hardTerms) {
		score += cfg.HardOKWeight
	}
	if c.TitleHit {
		score += cfg.TitleWeight
	}
	return score
}

// PickExcerpt chooses the admitted candidate to quote when the engine
// violates the citation contract. Ties resolve to the earliest position
// in the admitted set. Returns false when the set is empty.
func PickExcerpt(cands []rank.Candidate, hardTerms []string, cfg types.FallbackConfig) (rank.Candidate, bool) {
	if len(cands) == 0 {
		return rank.Candidate{}, false
	}
	best := cands[0]
	bestScore := selectorScore(best, hardTerms, cfg)
	for _, c := range cands[1:] {
		if s := selectorScore(c, hardTerms, cfg); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, true
}

// ExcerptAnswer builds the fixed-template excerpt answer from the chosen
// candidate: a notice line, a citation line, and the candidate's text
// capped at the configured excerpt limit, right-trimmed. An empty
// admitted set should not reach this point after gating, but is handled
// by returning the insufficient-evidence answer.
func ExcerptAnswer(cands []rank.Candidate, hardTerms []string, cfg types.FallbackConfig) string {
	best, ok := PickExcerpt(cands, hardTerms, cfg)
	if !ok {
		return InsufficientEvidence
	}

	limit := cfg.ExcerptLimit
	if limit <= 0 {
		limit = 900
	}
	excerpt := strings.TrimSpace(best.Text)
	if runes := []rune(excerpt); len(runes) > limit {
		excerpt = string(runes[:limit])
	}
	excerpt = strings.TrimRight(excerpt, " \t\n")

	var b strings.Builder
	b.WriteString("Answer auto-generated from a knowledge base excerpt (the engine did not comply with the citation format).\n")
	fmt.Fprintf(&b, "- Source: [chunk:%d] %s\n", best.ChunkID, best.Title)
	b.WriteString("Excerpt:\n")
	b.WriteString(excerpt)
	return b.String()
}
