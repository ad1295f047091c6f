// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/answer-engine/internal/index"
	"github.com/pdiddy/answer-engine/internal/store"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// Summary holds counts from one ingestion run.
type Summary struct {
	Ingested int
	Skipped  int
	Failed   int
	Chunks   int
}

// Total returns the number of documents processed.
func (s Summary) Total() int {
	return s.Ingested + s.Skipped + s.Failed
}

// ListDocs walks docsDir and returns the sorted paths of supported
// documents.
func ListDocs(docsDir string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := supportedExts[strings.ToLower(filepath.Ext(path))]; ok {
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", docsDir, err)
	}
	sort.Strings(docs)
	return docs, nil
}

// Run ingests every supported document under cfg.DocsDir into the store,
// then rebuilds the BM25 index wholesale from the full corpus and writes
// its snapshot into cfg.DataDir. Per-document progress goes to w.
func Run(ctx context.Context, st *store.Store, cfg types.IngestConfig, retrieval types.RetrievalConfig, w io.Writer) (Summary, error) {
	docs, err := ListDocs(cfg.DocsDir)
	if err != nil {
		return Summary{}, err
	}
	if len(docs) == 0 {
		fmt.Fprintf(w, "no documents found in %s\n", cfg.DocsDir)
	}

	var summary Summary
	for _, path := range docs {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		chunks, err := ChunksForFile(path, cfg)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", filepath.Base(path), err)
			summary.Failed++
			continue
		}
		if len(chunks) == 0 {
			fmt.Fprintf(w, "skipped %s (empty)\n", filepath.Base(path))
			summary.Skipped++
			continue
		}

		if _, err := st.ReplaceDoc(ctx, path, chunks); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", filepath.Base(path), err)
			summary.Failed++
			continue
		}

		fmt.Fprintf(w, "ingested %s (%d chunks)\n", filepath.Base(path), len(chunks))
		summary.Ingested++
		summary.Chunks += len(chunks)
	}

	// Rebuild the index over the whole corpus, not just this run's docs.
	all, err := st.FetchAll(ctx)
	if err != nil {
		return summary, err
	}
	idx := index.Build(all, retrieval)

	snapPath := filepath.Join(cfg.DataDir, index.SnapshotFile)
	if err := idx.Save(snapPath); err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "\ningested: %d, skipped: %d, failed: %d\n",
		summary.Ingested, summary.Skipped, summary.Failed)
	fmt.Fprintf(w, "index rebuilt: %d chunks -> %s\n", idx.Len(), snapPath)

	return summary, nil
}
