// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// AppendRun appends one audit record to the run log and returns its ID.
// The pipeline calls this exactly once per completed query, including
// rejected and fallback outcomes.
func (s *Store) AppendRun(ctx context.Context, run types.Run) (int64, error) {
	idsJSON, err := json.Marshal(run.ChunkIDs)
	if err != nil {
		return 0, fmt.Errorf("marshaling chunk ids: %w", err)
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (query, topk, chunk_ids_json, prompt, answer, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.Query, run.TopK, string(idsJSON), run.Prompt, run.Answer, createdAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("appending run: %w", err)
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent runs, newest first. A limit of zero
// returns everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]types.Run, error) {
	q := `SELECT id, query, topk, chunk_ids_json, prompt, answer, created_at
	      FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		var r types.Run
		var idsJSON string
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.Query, &r.TopK, &idsJSON, &r.Prompt, &r.Answer, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if err := json.Unmarshal([]byte(idsJSON), &r.ChunkIDs); err != nil {
			return nil, fmt.Errorf("parsing chunk ids for run %d: %w", r.ID, err)
		}
		r.CreatedAt = time.Unix(createdAt, 0).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ExportRunsYAML writes the full run log to dataDir/runs-export.yaml.
func (s *Store) ExportRunsYAML(ctx context.Context) (string, error) {
	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(runs)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dataDir, "runs-export.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportRunsJSON writes the full run log to dataDir/runs-export.json.
func (s *Store) ExportRunsJSON(ctx context.Context) (string, error) {
	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dataDir, "runs-export.json")
	return path, os.WriteFile(path, data, 0o644)
}
