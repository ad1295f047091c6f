// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the domain types and per-stage configuration shared
// across the answer-engine pipeline.
package types

// Chunk is a bounded excerpt of a source document, the atomic retrievable
// unit. Chunks are produced once by ingestion and never mutated afterwards;
// the pipeline only reads them.
type Chunk struct {
	// ChunkID is the stable, unique identifier assigned by the store.
	ChunkID int64 `json:"chunk_id" yaml:"chunk_id"`

	// DocID is the base name of the source document.
	DocID string `json:"doc_id" yaml:"doc_id"`

	// DocPath is the full path of the source document.
	DocPath string `json:"doc_path" yaml:"doc_path"`

	// DocType is the source format ("txt", "md").
	DocType string `json:"doc_type" yaml:"doc_type"`

	// Ordinal is the zero-based position of this chunk within its document.
	Ordinal int `json:"ordinal" yaml:"ordinal"`

	// Text is the chunk body.
	Text string `json:"text" yaml:"text"`

	// StartChar and EndChar are character offsets into the normalized
	// document text.
	StartChar int `json:"start_char" yaml:"start_char"`
	EndChar   int `json:"end_char" yaml:"end_char"`

	// LineStart and LineEnd are estimated 1-based line numbers. Zero means
	// unknown.
	LineStart int `json:"line_start,omitempty" yaml:"line_start,omitempty"`
	LineEnd   int `json:"line_end,omitempty" yaml:"line_end,omitempty"`
}

// Title is the human-readable label used in citations and hit listings:
// the source document name.
func (c Chunk) Title() string {
	return c.DocID
}
