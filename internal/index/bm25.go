// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"math"
	"sort"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// doc is one indexed chunk: its token frequencies and length.
type doc struct {
	chunkID int64
	freq    map[string]int
	length  int
}

// Index is the BM25 term-statistics index over the full corpus. It is
// rebuilt wholesale on each ingestion cycle and treated as read-only
// during query processing.
type Index struct {
	k1 float64
	b  float64

	docs []doc         // corpus insertion order
	pos  map[int64]int // chunk ID -> position in docs
	df   map[string]int
	// totalLen is the sum of document lengths, for avgdl.
	totalLen int
}

// New returns an empty index with the given BM25 parameters. Zero values
// fall back to the documented defaults (k1=1.5, b=0.75).
func New(cfg types.RetrievalConfig) *Index {
	k1 := cfg.K1
	if k1 <= 0 {
		k1 = 1.5
	}
	b := cfg.B
	if b <= 0 {
		b = 0.75
	}
	return &Index{
		k1:  k1,
		b:   b,
		pos: make(map[int64]int),
		df:  make(map[string]int),
	}
}

// Build indexes every chunk in corpus order.
func Build(chunks []types.Chunk, cfg types.RetrievalConfig) *Index {
	idx := New(cfg)
	for _, c := range chunks {
		idx.Add(c)
	}
	return idx
}

// Add indexes one chunk. Re-adding an existing chunk ID replaces its
// contribution rather than duplicating it; the chunk keeps its original
// position in the corpus order.
func (idx *Index) Add(c types.Chunk) {
	tokens := Tokenize(c.Text)
	freq := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freq[t]++
	}

	if p, ok := idx.pos[c.ChunkID]; ok {
		old := idx.docs[p]
		for t := range old.freq {
			idx.df[t]--
			if idx.df[t] == 0 {
				delete(idx.df, t)
			}
		}
		idx.totalLen -= old.length
		idx.docs[p] = doc{chunkID: c.ChunkID, freq: freq, length: len(tokens)}
	} else {
		idx.pos[c.ChunkID] = len(idx.docs)
		idx.docs = append(idx.docs, doc{chunkID: c.ChunkID, freq: freq, length: len(tokens)})
	}

	for t := range freq {
		idx.df[t]++
	}
	idx.totalLen += len(tokens)
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.docs)
}

// Hit is one scored chunk from a query.
type Hit struct {
	ChunkID int64
	Score   float64
}

// idf is the smoothed inverse document frequency, non-negative for terms
// present in a minority of documents.
func (idx *Index) idf(term string) float64 {
	n := float64(len(idx.docs))
	df := float64(idx.df[term])
	return math.Log(1 + (n-df+0.5)/(df+0.5))
}

// Scores computes the raw BM25 score of every indexed chunk for the given
// query tokens, in corpus order. Duplicate query tokens contribute once.
// A nil or empty token list yields all-zero scores.
func (idx *Index) Scores(queryTokens []string) []float64 {
	scores := make([]float64, len(idx.docs))
	if len(idx.docs) == 0 {
		return scores
	}

	avgdl := float64(idx.totalLen) / float64(len(idx.docs))
	if avgdl <= 0 {
		avgdl = 1
	}

	seen := make(map[string]bool, len(queryTokens))
	for _, t := range queryTokens {
		if seen[t] {
			continue
		}
		seen[t] = true

		if idx.df[t] == 0 {
			continue
		}
		w := idx.idf(t)
		for i, d := range idx.docs {
			f := float64(d.freq[t])
			if f == 0 {
				continue
			}
			norm := idx.k1 * (1 - idx.b + idx.b*float64(d.length)/avgdl)
			scores[i] += w * f * (idx.k1 + 1) / (f + norm)
		}
	}
	return scores
}

// Search tokenizes the query, scores every chunk, and returns the topK
// hits by descending score. Ties keep corpus insertion order so output is
// reproducible across runs. A query with no tokens yields no hits.
func (idx *Index) Search(query string, topK int) []Hit {
	tokens := Tokenize(query)
	if len(tokens) == 0 || len(idx.docs) == 0 || topK <= 0 {
		return nil
	}

	scores := idx.Scores(tokens)
	hits := make([]Hit, len(idx.docs))
	for i, d := range idx.docs {
		hits[i] = Hit{ChunkID: d.chunkID, Score: scores[i]}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits
}
