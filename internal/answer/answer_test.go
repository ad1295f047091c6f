// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/answer-engine/internal/index"
	"github.com/pdiddy/answer-engine/internal/rank"
	"github.com/pdiddy/answer-engine/internal/store"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// --- test helpers ---

// mockGen is a scripted generation engine that counts invocations.
type mockGen struct {
	out   string
	err   error
	calls int
}

func (m *mockGen) Generate(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.out, m.err
}

func testCfg() types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()
	cfg.Gate.HardTerms = []string{"bm25", "faiss", "flask"}
	return cfg
}

// testEngine builds a real store and index over the given chunks and
// wires them to the scripted generator.
func testEngine(t *testing.T, gen *mockGen, texts map[string]string) (*Engine, *store.Store) {
	t.Helper()

	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	for doc, text := range texts {
		_, err := st.ReplaceDoc(ctx, "/docs/"+doc, []types.Chunk{{
			DocID: doc, DocPath: "/docs/" + doc, DocType: "md", Ordinal: 0, Text: text,
		}})
		if err != nil {
			t.Fatal(err)
		}
	}

	all, err := st.FetchAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	cfg := testCfg()
	idx := index.Build(all, cfg.Retrieval)

	return NewEngine(idx, st, gen, cfg), st
}

func lastRun(t *testing.T, st *store.Store) types.Run {
	t.Helper()
	runs, err := st.ListRuns(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	return runs[0]
}

func runCount(t *testing.T, st *store.Store) int {
	t.Helper()
	runs, err := st.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	return len(runs)
}

// --- prompt and citation tests ---

func TestBuildPrompt(t *testing.T) {
	cands := []rank.Candidate{
		{ChunkID: 7, Title: "ranking.md", Text: "BM25 weighs terms."},
		{ChunkID: 9, Title: "web.md", Text: "Flask serves search."},
	}
	prompt, err := BuildPrompt("what is bm25", cands)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"what is bm25",
		"[chunk:7] ranking.md\nBM25 weighs terms.",
		"[chunk:9] web.md\nFlask serves search.",
		"insufficient evidence",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestHasCitation(t *testing.T) {
	if !HasCitation("The answer is X [chunk:42].") {
		t.Error("valid citation rejected")
	}
	for _, bad := range []string{"no citation here", "[chunk:] broken", "[chunk:abc]", ""} {
		if HasCitation(bad) {
			t.Errorf("HasCitation(%q) = true", bad)
		}
	}
}

// --- fallback selector tests ---

func TestPickExcerptPrefersHardTermChunk(t *testing.T) {
	cfg := testCfg().Fallback
	cands := []rank.Candidate{
		{ChunkID: 1, Title: "misc", Text: "high scoring but unrelated", RawScore: 50, Coverage: 1, TitleHit: true},
		{ChunkID: 2, Title: "ranking", Text: "bm25 details here", RawScore: 0.5, Coverage: 0.5},
	}

	best, ok := PickExcerpt(cands, []string{"bm25"}, cfg)
	if !ok {
		t.Fatal("expected a pick")
	}
	if best.ChunkID != 2 {
		t.Errorf("picked chunk %d, want 2 (hard-term containment dominates)", best.ChunkID)
	}
}

func TestPickExcerptStableOnTies(t *testing.T) {
	cfg := testCfg().Fallback
	cands := []rank.Candidate{
		{ChunkID: 5, Text: "same"},
		{ChunkID: 6, Text: "same"},
	}
	best, _ := PickExcerpt(cands, nil, cfg)
	if best.ChunkID != 5 {
		t.Errorf("tie resolved to chunk %d, want earliest (5)", best.ChunkID)
	}
}

func TestExcerptAnswerFormat(t *testing.T) {
	cfg := testCfg().Fallback
	cfg.ExcerptLimit = 10
	cands := []rank.Candidate{
		{ChunkID: 3, Title: "notes.md", Text: "0123456789 overflowing tail   "},
	}

	got := ExcerptAnswer(cands, nil, cfg)
	if !strings.Contains(got, "[chunk:3] notes.md") {
		t.Errorf("missing citation line: %q", got)
	}
	if !strings.HasSuffix(got, "0123456789") {
		t.Errorf("excerpt not capped and right-trimmed: %q", got)
	}
}

func TestExcerptAnswerEmptySet(t *testing.T) {
	if got := ExcerptAnswer(nil, nil, testCfg().Fallback); got != InsufficientEvidence {
		t.Errorf("got %q, want %q", got, InsufficientEvidence)
	}
}

// --- pipeline tests ---

func TestAnswerEndToEnd(t *testing.T) {
	gen := &mockGen{out: "BM25 ranks documents [chunk:1]."}
	eng, st := testEngine(t, gen, map[string]string{
		"BM25 intro": "BM25 is a ranking function using term frequency and IDF.",
	})

	res, err := eng.Answer(context.Background(), "what is bm25")
	if err != nil {
		t.Fatal(err)
	}

	if res.Answer != "BM25 ranks documents [chunk:1]." {
		t.Errorf("answer = %q, want engine output verbatim", res.Answer)
	}
	if res.Outcome != OutcomeOK {
		t.Errorf("outcome = %q, want %q", res.Outcome, OutcomeOK)
	}
	if gen.calls != 1 {
		t.Errorf("engine called %d times, want 1", gen.calls)
	}

	run := lastRun(t, st)
	if !reflect.DeepEqual(run.ChunkIDs, []int64{1}) {
		t.Errorf("run chunk ids = %v, want [1]", run.ChunkIDs)
	}
	if run.Answer != res.Answer {
		t.Errorf("run answer = %q", run.Answer)
	}
}

func TestAnswerHardTermRejectionSkipsEngine(t *testing.T) {
	gen := &mockGen{out: "should never be used [chunk:1]"}
	eng, st := testEngine(t, gen, map[string]string{
		"cooking.md": "slow braising of vegetables and stock",
	})

	// "faiss" is a hard term and appears nowhere in the corpus; "braising"
	// retrieves the chunk so the candidate set is non-empty.
	res, err := eng.Answer(context.Background(), "does braising use faiss")
	if err != nil {
		t.Fatal(err)
	}

	if res.Answer != InsufficientEvidence {
		t.Errorf("answer = %q, want %q", res.Answer, InsufficientEvidence)
	}
	if res.Outcome != OutcomeRejected {
		t.Errorf("outcome = %q", res.Outcome)
	}
	if gen.calls != 0 {
		t.Errorf("engine called %d times on rejection, want 0", gen.calls)
	}

	run := lastRun(t, st)
	if run.Prompt != noPrompt {
		t.Errorf("run prompt = %q, want %q", run.Prompt, noPrompt)
	}
	if len(run.ChunkIDs) == 0 {
		t.Error("hard-term rejection should keep retrieved ids in the audit trail")
	}
}

func TestAnswerThresholdRejection(t *testing.T) {
	gen := &mockGen{}
	eng, st := testEngine(t, gen, map[string]string{
		"doc.md": "entirely unrelated prose about gardening tools",
	})

	res, err := eng.Answer(context.Background(), "quantum chromodynamics lattice")
	if err != nil {
		t.Fatal(err)
	}

	if res.Answer != InsufficientEvidence || res.Outcome != OutcomeRejected {
		t.Errorf("answer = %q outcome = %q", res.Answer, res.Outcome)
	}
	if gen.calls != 0 {
		t.Errorf("engine called %d times, want 0", gen.calls)
	}
	if run := lastRun(t, st); len(run.ChunkIDs) != 0 {
		t.Errorf("threshold rejection run ids = %v, want empty", run.ChunkIDs)
	}
}

func TestAnswerMissingCitationFallsBack(t *testing.T) {
	gen := &mockGen{out: "BM25 ranks documents but I cite nothing."}
	eng, st := testEngine(t, gen, map[string]string{
		"BM25 intro": "BM25 is a ranking function using term frequency and IDF.",
	})

	res, err := eng.Answer(context.Background(), "what is bm25")
	if err != nil {
		t.Fatal(err)
	}

	if res.Outcome != OutcomeFallback {
		t.Fatalf("outcome = %q, want %q", res.Outcome, OutcomeFallback)
	}
	if !strings.Contains(res.Answer, fmt.Sprintf("[chunk:%d] ", res.Hits[0].ChunkID)) {
		t.Errorf("fallback answer missing citation line: %q", res.Answer)
	}

	run := lastRun(t, st)
	if run.Answer != res.Answer {
		t.Errorf("run answer = %q", run.Answer)
	}
	if run.Prompt == noPrompt || run.Prompt == "" {
		t.Error("fallback run should record the real prompt")
	}
}

func TestAnswerEngineFailureFallsBack(t *testing.T) {
	gen := &mockGen{err: errors.New("engine exploded")}
	eng, _ := testEngine(t, gen, map[string]string{
		"BM25 intro": "BM25 is a ranking function using term frequency and IDF.",
	})

	res, err := eng.Answer(context.Background(), "what is bm25")
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeFallback {
		t.Errorf("outcome = %q, want fallback on engine failure", res.Outcome)
	}
	if !HasCitation(res.Answer) {
		t.Errorf("fallback answer carries no citation: %q", res.Answer)
	}
}

func TestAnswerEmptyQuery(t *testing.T) {
	gen := &mockGen{}
	eng, st := testEngine(t, gen, map[string]string{
		"doc.md": "some indexed content",
	})

	res, err := eng.Answer(context.Background(), "   !!! ")
	if err != nil {
		t.Fatal(err)
	}
	if res.Answer != InsufficientEvidence {
		t.Errorf("answer = %q", res.Answer)
	}
	if gen.calls != 0 {
		t.Error("engine must not run for an empty query")
	}
	if got := runCount(t, st); got != 1 {
		t.Errorf("run count = %d, want 1", got)
	}
}

func TestAnswerAppendsExactlyOneRunPerQuery(t *testing.T) {
	gen := &mockGen{out: "cited [chunk:1]"}
	eng, st := testEngine(t, gen, map[string]string{
		"BM25 intro": "BM25 is a ranking function.",
	})

	ctx := context.Background()
	queries := []string{"what is bm25", "unrelated nonsense", ""}
	for _, q := range queries {
		if _, err := eng.Answer(ctx, q); err != nil {
			t.Fatal(err)
		}
	}
	if got := runCount(t, st); got != len(queries) {
		t.Errorf("run count = %d, want %d", got, len(queries))
	}
}
