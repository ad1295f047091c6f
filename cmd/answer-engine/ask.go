// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/answer-engine/internal/answer"
	"github.com/pdiddy/answer-engine/internal/index"
	"github.com/pdiddy/answer-engine/internal/llm"
	"github.com/pdiddy/answer-engine/internal/store"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question from the ingested corpus",
	Long: `Ask retrieves evidence for one question, runs it through the evidence
gate, and prints the engine's cited answer. When the gate refuses, the answer
is the literal "insufficient evidence"; when the engine omits citations, a
deterministic excerpt is printed instead. Every query is recorded in the runs
log regardless of outcome.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	eng, st, err := openEngine()
	if err != nil {
		return err
	}
	defer st.Close()

	query := strings.Join(args, " ")
	res, err := eng.Answer(context.Background(), query)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

// openEngine wires the answering pipeline from persisted state: the
// SQLite store, the index snapshot, and the configured generation
// engine.
func openEngine() (*answer.Engine, *store.Store, error) {
	cfg := pipelineConfig()

	st, err := store.Open(cfg.Ingest.DataDir)
	if err != nil {
		return nil, nil, err
	}

	idx, err := index.Load(filepath.Join(cfg.Ingest.DataDir, index.SnapshotFile))
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	gen, err := llm.NewGenerator(cfg.Engine)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	return answer.NewEngine(idx, st, gen, cfg), st, nil
}

func printResult(w io.Writer, res answer.Result) {
	fmt.Fprintln(w, "\n=== HITS ===")
	for _, h := range res.Hits {
		fmt.Fprintf(w, "final=%.3f bm25=%.3f cov=%.3f chunk=%d title=%s\n",
			h.FusedScore, h.RawScore, h.Coverage, h.ChunkID, h.Title)
	}

	fmt.Fprintln(w, "\n=== ANSWER ===")
	fmt.Fprintln(w, res.Answer)
	fmt.Fprintf(w, "\n(saved to runs, reason=%s)\n\n", res.Outcome)
}

func init() {
	rootCmd.AddCommand(askCmd)
}
