// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest discovers source documents, normalizes their text, and
// chunks them into fixed-size character windows for indexing.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/answer-engine/pkg/types"
)

var (
	spaceRuns = regexp.MustCompile(`[ \t]+`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText canonicalizes line endings, collapses runs of spaces and
// tabs, and squeezes three or more consecutive newlines down to two.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = spaceRuns.ReplaceAllString(s, " ")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Window is one chunk window over normalized text, with character offsets.
type Window struct {
	Start int
	End   int
	Text  string
}

// ChunkByChars slices text into windows of size characters with the given
// overlap between consecutive windows. Windows that trim to nothing are
// dropped. Offsets count runes so multi-byte scripts chunk evenly.
func ChunkByChars(text string, size, overlap int) ([]Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be > 0, got %d", size)
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", overlap, size)
	}
	if overlap < 0 {
		overlap = 0
	}

	runes := []rune(text)
	n := len(runes)

	var windows []Window
	start := 0
	for start < n {
		end := start + size
		if end > n {
			end = n
		}
		body := strings.TrimSpace(string(runes[start:end]))
		if body != "" {
			windows = append(windows, Window{Start: start, End: end, Text: body})
		}
		if end == n {
			break
		}
		start = end - overlap
	}
	return windows, nil
}

// supportedExts maps accepted file extensions to their doc type.
var supportedExts = map[string]string{
	".txt": "txt",
	".md":  "md",
}

// ChunksForFile reads, normalizes, and chunks one document. Unsupported
// extensions yield nil chunks and no error so callers can skip them with
// a notice. Line numbers are estimated by counting newlines before each
// window, which is enough for citation provenance.
func ChunksForFile(path string, cfg types.IngestConfig) ([]types.Chunk, error) {
	ext := strings.ToLower(filepath.Ext(path))
	docType, ok := supportedExts[ext]
	if !ok {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	text := NormalizeText(string(data))
	windows, err := ChunkByChars(text, cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	runes := []rune(text)
	chunks := make([]types.Chunk, 0, len(windows))
	for i, w := range windows {
		chunks = append(chunks, types.Chunk{
			DocID:     filepath.Base(path),
			DocPath:   path,
			DocType:   docType,
			Ordinal:   i,
			Text:      w.Text,
			StartChar: w.Start,
			EndChar:   w.End,
			LineStart: strings.Count(string(runes[:w.Start]), "\n") + 1,
			LineEnd:   strings.Count(string(runes[:w.End]), "\n") + 1,
		})
	}
	return chunks, nil
}
