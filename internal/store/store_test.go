// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"os"
	"reflect"
	"testing"

	"github.com/pdiddy/answer-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func docChunks(docPath string, texts ...string) []types.Chunk {
	chunks := make([]types.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = types.Chunk{
			DocID:   "doc.md",
			DocPath: docPath,
			DocType: "md",
			Ordinal: i,
			Text:    text,
		}
	}
	return chunks
}

func TestReplaceDocAssignsIDs(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	inserted, err := s.ReplaceDoc(ctx, "/docs/doc.md", docChunks("/docs/doc.md", "one", "two"))
	if err != nil {
		t.Fatal(err)
	}
	if len(inserted) != 2 {
		t.Fatalf("inserted %d chunks, want 2", len(inserted))
	}
	if inserted[0].ChunkID == 0 || inserted[1].ChunkID <= inserted[0].ChunkID {
		t.Errorf("ids not ascending: %d, %d", inserted[0].ChunkID, inserted[1].ChunkID)
	}
}

func TestReplaceDocReplacesNotDuplicates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.ReplaceDoc(ctx, "/docs/doc.md", docChunks("/docs/doc.md", "one", "two", "three")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ReplaceDoc(ctx, "/docs/doc.md", docChunks("/docs/doc.md", "updated")); err != nil {
		t.Fatal(err)
	}

	n, err := s.CountChunks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("count = %d after replace, want 1", n)
	}

	all, err := s.FetchAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if all[0].Text != "updated" {
		t.Errorf("text = %q, want updated", all[0].Text)
	}
}

func TestFetchAllCorpusOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a, _ := s.ReplaceDoc(ctx, "/a.md", docChunks("/a.md", "first"))
	b, _ := s.ReplaceDoc(ctx, "/b.md", docChunks("/b.md", "second"))

	all, err := s.FetchAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ChunkID != a[0].ChunkID || all[1].ChunkID != b[0].ChunkID {
		t.Errorf("unexpected order: %+v", all)
	}
}

func TestFetchByIDsOrderPreservingAndSilentDrop(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	ins, err := s.ReplaceDoc(ctx, "/d.md", docChunks("/d.md", "a", "b", "c"))
	if err != nil {
		t.Fatal(err)
	}

	// Request reversed order with a missing id in the middle.
	want := []int64{ins[2].ChunkID, ins[0].ChunkID}
	got, err := s.FetchByIDs(ctx, []int64{ins[2].ChunkID, 99999, ins[0].ChunkID})
	if err != nil {
		t.Fatal(err)
	}

	var ids []int64
	for _, c := range got {
		ids = append(ids, c.ChunkID)
	}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestFetchByIDsEmpty(t *testing.T) {
	s := testStore(t)
	got, err := s.FetchByIDs(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestAppendAndListRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id1, err := s.AppendRun(ctx, types.Run{
		Query: "what is bm25", TopK: 5, ChunkIDs: []int64{1, 2}, Prompt: "p", Answer: "a [chunk:1]",
	})
	if err != nil {
		t.Fatal(err)
	}
	id2, err := s.AppendRun(ctx, types.Run{
		Query: "rejected", TopK: 5, ChunkIDs: []int64{}, Prompt: "(no_prompt)", Answer: "insufficient evidence",
	})
	if err != nil {
		t.Fatal(err)
	}
	if id2 <= id1 {
		t.Errorf("run ids not ascending: %d, %d", id1, id2)
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	// Newest first.
	if runs[0].Query != "rejected" || runs[1].Query != "what is bm25" {
		t.Errorf("unexpected order: %q, %q", runs[0].Query, runs[1].Query)
	}
	if !reflect.DeepEqual(runs[1].ChunkIDs, []int64{1, 2}) {
		t.Errorf("chunk ids = %v, want [1 2]", runs[1].ChunkIDs)
	}

	limited, err := s.ListRuns(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d runs", len(limited))
	}
}

func TestExportRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.AppendRun(ctx, types.Run{Query: "q", TopK: 5, ChunkIDs: []int64{3}, Prompt: "p", Answer: "a"}); err != nil {
		t.Fatal(err)
	}

	yamlPath, err := s.ExportRunsYAML(ctx)
	if err != nil {
		t.Fatal(err)
	}
	jsonPath, err := s.ExportRunsJSON(ctx)
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{yamlPath, jsonPath} {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) == 0 {
			t.Errorf("export %s is empty", p)
		}
	}
}
