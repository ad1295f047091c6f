// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/answer-engine/internal/ingest"
	"github.com/pdiddy/answer-engine/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Chunk the document corpus and rebuild the lexical index",
	Long: `Ingest walks the configured docs directory, normalizes and chunks every
supported document (.txt, .md), replaces each document's chunks in the SQLite
store, and rebuilds the BM25 index snapshot. Re-ingesting a document replaces
its chunks rather than duplicating them.`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig()
	if dir, _ := cmd.Flags().GetString("docs-dir"); dir != "" {
		cfg.Ingest.DocsDir = dir
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.Ingest.DataDir = dir
	}
	if n, _ := cmd.Flags().GetInt("chunk-size"); n > 0 {
		cfg.Ingest.ChunkSize = n
	}
	if n, _ := cmd.Flags().GetInt("chunk-overlap"); n > 0 {
		cfg.Ingest.ChunkOverlap = n
	}

	st, err := store.Open(cfg.Ingest.DataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := ingest.Run(context.Background(), st, cfg.Ingest, cfg.Retrieval, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d document(s) failed ingestion", summary.Failed)
	}
	return nil
}

func init() {
	ingestCmd.Flags().String("docs-dir", "", "documents directory (overrides config)")
	ingestCmd.Flags().String("data-dir", "", "data directory for the database and index snapshot (overrides config)")
	ingestCmd.Flags().Int("chunk-size", 0, "chunk window in characters (overrides config)")
	ingestCmd.Flags().Int("chunk-overlap", 0, "overlap between windows in characters (overrides config)")

	rootCmd.AddCommand(ingestCmd)
}
