// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotFile is the index artifact written next to the database.
const SnapshotFile = "bm25.gob"

// snapshotDoc mirrors doc with exported fields for gob.
type snapshotDoc struct {
	ChunkID int64
	Freq    map[string]int
	Length  int
}

// snapshot is the serialized form of an Index.
type snapshot struct {
	K1       float64
	B        float64
	Docs     []snapshotDoc
	DF       map[string]int
	TotalLen int
}

// Save writes the index snapshot to path, creating parent directories.
func (idx *Index) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot %s: %w", path, err)
	}
	defer f.Close()

	snap := snapshot{
		K1:       idx.k1,
		B:        idx.b,
		DF:       idx.df,
		TotalLen: idx.totalLen,
		Docs:     make([]snapshotDoc, len(idx.docs)),
	}
	for i, d := range idx.docs {
		snap.Docs[i] = snapshotDoc{ChunkID: d.chunkID, Freq: d.freq, Length: d.length}
	}

	if err := gob.NewEncoder(f).Encode(&snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// Load reads an index snapshot from path. A missing file is a
// configuration error: the caller should tell the operator to run ingest.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("index snapshot %s not found: run ingest first", path)
		}
		return nil, fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}

	idx := &Index{
		k1:       snap.K1,
		b:        snap.B,
		df:       snap.DF,
		totalLen: snap.TotalLen,
		pos:      make(map[int64]int, len(snap.Docs)),
		docs:     make([]doc, len(snap.Docs)),
	}
	if idx.df == nil {
		idx.df = make(map[string]int)
	}
	for i, d := range snap.Docs {
		idx.docs[i] = doc{chunkID: d.ChunkID, freq: d.Freq, length: d.Length}
		idx.pos[d.ChunkID] = i
	}
	return idx, nil
}
