// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/answer-engine/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the append-only query audit trail",
	Long: `Runs manages the audit trail recorded for every answered query: the
question, the retrieved chunk ids, the prompt, and the final answer. Use
subcommands to list recent runs or export the full log.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runRunsList,
}

func runRunsList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	w := cmd.OutOrStdout()
	for _, r := range runs {
		fmt.Fprintf(w, "%-4d  %s  chunks=%v\n      Q: %s\n      A: %s\n",
			r.ID, r.CreatedAt.Format(time.DateTime), r.ChunkIDs, r.Query, summarizeAnswer(r.Answer))
	}
	return nil
}

var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full runs log to YAML or JSON",
	RunE:  runRunsExport,
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var path string
	switch format {
	case "yaml":
		path, err = st.ExportRunsYAML(context.Background())
	case "json":
		path, err = st.ExportRunsJSON(context.Background())
	default:
		return fmt.Errorf("unknown export format %q (yaml or json)", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported runs to %s\n", path)
	return nil
}

// summarizeAnswer flattens an answer to one line capped at 60
// characters, truncating on rune boundaries.
func summarizeAnswer(answer string) string {
	answer = strings.ReplaceAll(answer, "\n", " ")
	if runes := []rune(answer); len(runes) > 60 {
		answer = string(runes[:57]) + "..."
	}
	return answer
}

func openStore() (*store.Store, error) {
	cfg := pipelineConfig()
	return store.Open(cfg.Ingest.DataDir)
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "maximum number of runs to show (0 for all)")
	runsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}
