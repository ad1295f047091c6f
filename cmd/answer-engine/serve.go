// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/answer-engine/internal/vector"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the embedding-similarity demo service",
	Long: `Serve starts a small HTTP service exposing a flat L2 nearest-neighbour
index over randomly seeded demo vectors. It is independent of the answering
pipeline; see GET /docs on the running service for the API.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig().Serve
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if dim, _ := cmd.Flags().GetInt("dim"); dim > 0 {
		cfg.Dim = dim
	}

	idx, err := vector.NewIndex(cfg.Dim)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("seed-vectors")
	if err := idx.SeedDemo(n); err != nil {
		return err
	}

	srv := vector.NewServer(idx, cfg)
	fmt.Fprintf(os.Stderr, "serving on http://%s (dim=%d, vectors=%d)\n", cfg.Addr, cfg.Dim, idx.Len())
	return srv.Router().Run(cfg.Addr)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
	serveCmd.Flags().Int("dim", 0, "vector dimension (overrides config)")
	serveCmd.Flags().Int("seed-vectors", 10, "number of demo vectors to seed")

	rootCmd.AddCommand(serveCmd)
}
