// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"math"
	"testing"

	"github.com/pdiddy/answer-engine/pkg/types"
)

func fusionCfg() types.FusionConfig {
	return types.FusionConfig{ScoreWeight: 0.75, CoverageWeight: 0.25, TitleWeight: 0.08}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"empty", nil, []float64{}},
		{"scaled by max", []float64{2, 4, 1}, []float64{0.5, 1, 0.25}},
		{"all zero", []float64{0, 0}, []float64{0, 0}},
		{"negative max guards", []float64{-1, -3}, []float64{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("Normalize(%v)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCoverage(t *testing.T) {
	text := "BM25 is a ranking function"

	tests := []struct {
		name   string
		tokens []string
		want   float64
	}{
		{"no tokens", nil, 0},
		{"full hit", []string{"bm25", "ranking"}, 1},
		{"half hit", []string{"bm25", "missing"}, 0.5},
		{"cjk excluded from denominator", []string{"bm25", "你"}, 1},
		{"only cjk tokens", []string{"你", "好"}, 0},
		{"duplicates count once", []string{"bm25", "bm25", "missing"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coverage(tt.tokens, text); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Coverage(%v) = %v, want %v", tt.tokens, got, tt.want)
			}
		})
	}
}

func TestTitleHit(t *testing.T) {
	if !TitleHit([]string{"bm25"}, "BM25 intro") {
		t.Error("expected title hit")
	}
	if TitleHit([]string{"a", "b"}, "a b c") {
		t.Error("single-char tokens must not count as title hits")
	}
	if TitleHit([]string{"你"}, "你好 notes") {
		t.Error("single-ideograph tokens must not count as title hits")
	}
	if !TitleHit([]string{"你好"}, "你好 notes") {
		t.Error("expected title hit for two-ideograph token")
	}
	if TitleHit([]string{"vector"}, "ranking notes") {
		t.Error("unexpected title hit")
	}
}

func TestFuseOrdering(t *testing.T) {
	cands := []Candidate{
		{ChunkID: 1, Title: "other", Text: "nothing relevant here", RawScore: 5},
		{ChunkID: 2, Title: "bm25 notes", Text: "bm25 ranking explained", RawScore: 4},
	}

	out := Fuse(cands, []string{"bm25", "ranking"}, fusionCfg())

	// Chunk 2 has lower raw score but full coverage plus a title hit:
	// 0.75*0.8 + 0.25*1 + 0.08 = 0.93 beats 0.75*1 = 0.75.
	if out[0].ChunkID != 2 {
		t.Errorf("top candidate = chunk %d, want 2", out[0].ChunkID)
	}
	if !out[0].TitleHit {
		t.Error("expected title hit on chunk 2")
	}
	if out[0].Coverage != 1 {
		t.Errorf("coverage = %v, want 1", out[0].Coverage)
	}
}

func TestFuseMonotonicInCoverage(t *testing.T) {
	// Holding normalized score and title hit fixed, more coverage can
	// never decrease the fused score.
	low := Fuse([]Candidate{
		{ChunkID: 1, Title: "x", Text: "alpha", RawScore: 1},
	}, []string{"alpha", "beta"}, fusionCfg())

	high := Fuse([]Candidate{
		{ChunkID: 1, Title: "x", Text: "alpha beta", RawScore: 1},
	}, []string{"alpha", "beta"}, fusionCfg())

	if high[0].FusedScore < low[0].FusedScore {
		t.Errorf("fused score decreased as coverage rose: %v -> %v",
			low[0].FusedScore, high[0].FusedScore)
	}
}

func TestFuseStableOnTies(t *testing.T) {
	cands := []Candidate{
		{ChunkID: 1, Text: "alpha", RawScore: 2},
		{ChunkID: 2, Text: "alpha", RawScore: 2},
	}
	out := Fuse(cands, []string{"alpha"}, fusionCfg())
	if out[0].ChunkID != 1 || out[1].ChunkID != 2 {
		t.Errorf("tie order changed: %d, %d", out[0].ChunkID, out[1].ChunkID)
	}
}
