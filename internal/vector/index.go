// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vector provides the embedding-similarity demo service: a flat
// L2 nearest-neighbour index behind a small JSON API. It is independent
// of the lexical answer pipeline and exists to exercise vector search
// end to end without an external engine.
package vector

import (
	"fmt"
	"math/rand"
	"sort"
)

// Index is an exact (flat) L2 nearest-neighbour index. Vectors are
// stored densely; every search scans the full set. All methods are for
// single-goroutine use during setup; Search is safe concurrently once
// the index is populated.
type Index struct {
	dim  int
	data []float32 // len = count*dim
}

// NewIndex returns an empty index for vectors of the given dimension.
func NewIndex(dim int) (*Index, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", dim)
	}
	return &Index{dim: dim}, nil
}

// Dim reports the vector dimension the index accepts.
func (idx *Index) Dim() int { return idx.dim }

// Len reports the number of stored vectors.
func (idx *Index) Len() int { return len(idx.data) / idx.dim }

// Add appends vectors to the index. Every vector must have exactly the
// index dimension.
func (idx *Index) Add(vecs [][]float32) error {
	for i, v := range vecs {
		if len(v) != idx.dim {
			return fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), idx.dim)
		}
	}
	for _, v := range vecs {
		idx.data = append(idx.data, v...)
	}
	return nil
}

// Result is one nearest-neighbour hit: the position of the stored
// vector and its squared L2 distance to the query.
type Result struct {
	Position int
	Distance float32
}

// Search returns the k nearest stored vectors by squared L2 distance,
// closest first. Ties keep insertion order. k is clamped to the index
// size.
func (idx *Index) Search(query []float32, k int) ([]Result, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("query has dimension %d, want %d", len(query), idx.dim)
	}
	n := idx.Len()
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}

	results := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		row := idx.data[i*idx.dim : (i+1)*idx.dim]
		var d float64
		for j, q := range query {
			diff := float64(q) - float64(row[j])
			d += diff * diff
		}
		results = append(results, Result{Position: i, Distance: float32(d)})
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Distance < results[b].Distance
	})
	return results[:k], nil
}

// SeedDemo fills the index with n pseudo-random unit-range vectors from
// a fixed seed so the demo service answers queries out of the box.
func (idx *Index) SeedDemo(n int) error {
	rng := rand.New(rand.NewSource(1))
	vecs := make([][]float32, n)
	for i := range vecs {
		v := make([]float32, idx.dim)
		for j := range v {
			v[j] = float32(rng.Float64())
		}
		vecs[i] = v
	}
	return idx.Add(vecs)
}
