// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"context"
	"fmt"

	"github.com/pdiddy/answer-engine/internal/gate"
	"github.com/pdiddy/answer-engine/internal/index"
	"github.com/pdiddy/answer-engine/internal/llm"
	"github.com/pdiddy/answer-engine/internal/rank"
	"github.com/pdiddy/answer-engine/internal/store"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// noPrompt is recorded in the run log when the gate rejects before any
// engine call.
const noPrompt = "(no_prompt)"

// Outcome labels why a query ended the way it did.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback_excerpt"
	OutcomeRejected = "insufficient_evidence"
)

// Engine owns the read-only lexical index, the store, the generation
// engine, and the heuristic configuration. One query is processed at a
// time; the index is never mutated during query processing.
type Engine struct {
	idx *index.Index
	st  *store.Store
	gen llm.Generator

	topK     int
	fusion   types.FusionConfig
	gateCfg  types.GateConfig
	fallback types.FallbackConfig
}

// NewEngine wires the pipeline from its parts. All heuristic constants
// arrive through cfg so they are swappable and testable in isolation.
func NewEngine(idx *index.Index, st *store.Store, gen llm.Generator, cfg types.PipelineConfig) *Engine {
	topK := cfg.Retrieval.TopK
	if topK <= 0 {
		topK = 5
	}
	return &Engine{
		idx:      idx,
		st:       st,
		gen:      gen,
		topK:     topK,
		fusion:   cfg.Fusion,
		gateCfg:  cfg.Gate,
		fallback: cfg.Fallback,
	}
}

// Result is the outcome of one query.
type Result struct {
	// Query is the operator's question, verbatim.
	Query string

	// Hits is the full fused candidate set, for the ranked-hit listing.
	Hits []rank.Candidate

	// Answer is the final user-visible text.
	Answer string

	// Outcome is OutcomeOK, OutcomeFallback, or OutcomeRejected.
	Outcome string

	// RunID identifies the audit record appended for this query.
	RunID int64
}

// Answer runs one query through the full pipeline and appends exactly one
// run record, whatever the outcome. Engine failures and citation-contract
// violations are recovered via the excerpt fallback; the only errors
// returned are store-level ones.
func (e *Engine) Answer(ctx context.Context, query string) (Result, error) {
	res := Result{Query: query}

	tokens := index.Tokenize(query)
	hits := e.idx.Search(query, e.topK)

	ids := make([]int64, len(hits))
	scores := make(map[int64]float64, len(hits))
	for i, h := range hits {
		ids[i] = h.ChunkID
		scores[h.ChunkID] = h.Score
	}

	// IDs missing from the store are silently dropped, never fatal.
	chunks, err := e.st.FetchByIDs(ctx, ids)
	if err != nil {
		return res, err
	}

	cands := make([]rank.Candidate, len(chunks))
	for i, c := range chunks {
		cands[i] = rank.Candidate{
			ChunkID:   c.ChunkID,
			Title:     c.Title(),
			Text:      c.Text,
			RawScore:  scores[c.ChunkID],
			LineStart: c.LineStart,
			LineEnd:   c.LineEnd,
		}
	}
	res.Hits = rank.Fuse(cands, tokens, e.fusion)

	decision := gate.Evaluate(query, res.Hits, e.gateCfg)
	if !decision.Passed() {
		res.Answer = InsufficientEvidence
		res.Outcome = OutcomeRejected

		// A hard-term rejection keeps the retrieved ids in the audit
		// trail; an empty threshold-filtered set records none.
		var rejIDs []int64
		if decision.RejectedAt == gate.StateCheckHardTerms {
			for _, c := range res.Hits {
				rejIDs = append(rejIDs, c.ChunkID)
			}
		}
		res.RunID, err = e.appendRun(ctx, query, rejIDs, noPrompt, res.Answer)
		return res, err
	}

	prompt, err := BuildPrompt(query, decision.Admitted)
	if err != nil {
		return res, err
	}

	out, genErr := e.gen.Generate(ctx, prompt)
	if genErr == nil && HasCitation(out) {
		res.Answer = out
		res.Outcome = OutcomeOK
	} else {
		// Invocation failure, timeout, or missing citation: all collapse
		// into the deterministic excerpt answer.
		res.Answer = ExcerptAnswer(decision.Admitted, decision.HardTerms, e.fallback)
		res.Outcome = OutcomeFallback
	}

	admittedIDs := make([]int64, len(decision.Admitted))
	for i, c := range decision.Admitted {
		admittedIDs[i] = c.ChunkID
	}

	res.RunID, err = e.appendRun(ctx, query, admittedIDs, prompt, res.Answer)
	return res, err
}

func (e *Engine) appendRun(ctx context.Context, query string, chunkIDs []int64, prompt, answer string) (int64, error) {
	if chunkIDs == nil {
		chunkIDs = []int64{}
	}
	id, err := e.st.AppendRun(ctx, types.Run{
		Query:    query,
		TopK:     e.topK,
		ChunkIDs: chunkIDs,
		Prompt:   prompt,
		Answer:   answer,
	})
	if err != nil {
		return 0, fmt.Errorf("recording run: %w", err)
	}
	return id, nil
}
