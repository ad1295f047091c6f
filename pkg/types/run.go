// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Run is the audit record appended after every completed query, including
// rejected and fallback outcomes. The pipeline only writes Runs; the runs
// subcommand reads them back for inspection and export.
type Run struct {
	// ID is assigned by the store on append.
	ID int64 `json:"id" yaml:"id"`

	// Query is the operator's question, verbatim.
	Query string `json:"query" yaml:"query"`

	// TopK is the retrieval cap in effect for this query.
	TopK int `json:"top_k" yaml:"top_k"`

	// ChunkIDs lists the evidence chunks in the order they were presented
	// to the engine. Empty for rejected queries.
	ChunkIDs []int64 `json:"chunk_ids" yaml:"chunk_ids"`

	// Prompt is the full prompt sent to the engine, or "(no_prompt)" when
	// the gate rejected the query before generation.
	Prompt string `json:"prompt" yaml:"prompt"`

	// Answer is the final user-visible answer.
	Answer string `json:"answer" yaml:"answer"`

	// CreatedAt is the append timestamp.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
