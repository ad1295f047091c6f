// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists chunk records and the append-only run log in a
// local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/answer-engine/pkg/types"
)

const dbFile = "answers.db"

// Store manages the answer-engine SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string
}

// Open opens or creates the database at dataDir/answers.db and creates
// the schema if it does not exist.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return filepath.Join(s.dataDir, dbFile)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS chunks (
			chunk_id INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL,
			doc_path TEXT NOT NULL,
			doc_type TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			text TEXT NOT NULL,
			start_char INTEGER NOT NULL,
			end_char INTEGER NOT NULL,
			line_start INTEGER,
			line_end INTEGER,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_doc_path ON chunks(doc_path)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_doc_ordinal ON chunks(doc_id, ordinal)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			topk INTEGER NOT NULL,
			chunk_ids_json TEXT NOT NULL,
			prompt TEXT NOT NULL,
			answer TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ReplaceDoc removes any stored chunks for docPath and inserts the given
// ones in order, so re-ingesting a document replaces rather than
// duplicates its contribution. It returns the chunks with their assigned
// IDs.
func (s *Store) ReplaceDoc(ctx context.Context, docPath string, chunks []types.Chunk) ([]types.Chunk, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE doc_path = ?`, docPath); err != nil {
		return nil, fmt.Errorf("deleting old chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (doc_id, doc_path, doc_type, ordinal, text,
			start_char, end_char, line_start, line_end, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	out := make([]types.Chunk, len(chunks))
	for i, c := range chunks {
		res, err := stmt.ExecContext(ctx,
			c.DocID, c.DocPath, c.DocType, c.Ordinal, c.Text,
			c.StartChar, c.EndChar, c.LineStart, c.LineEnd, now,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting chunk %d of %s: %w", c.Ordinal, c.DocID, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("reading chunk id: %w", err)
		}
		c.ChunkID = id
		out[i] = c
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing: %w", err)
	}
	return out, nil
}

const chunkColumns = `chunk_id, doc_id, doc_path, doc_type, ordinal, text,
	start_char, end_char, line_start, line_end`

func scanChunk(rows *sql.Rows) (types.Chunk, error) {
	var c types.Chunk
	var lineStart, lineEnd sql.NullInt64
	err := rows.Scan(
		&c.ChunkID, &c.DocID, &c.DocPath, &c.DocType, &c.Ordinal, &c.Text,
		&c.StartChar, &c.EndChar, &lineStart, &lineEnd,
	)
	if err != nil {
		return types.Chunk{}, err
	}
	c.LineStart = int(lineStart.Int64)
	c.LineEnd = int(lineEnd.Int64)
	return c, nil
}

// FetchAll returns every chunk in corpus insertion order. An empty corpus
// yields an empty slice, not an error.
func (s *Store) FetchAll(ctx context.Context) ([]types.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+chunkColumns+` FROM chunks ORDER BY chunk_id`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []types.Chunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// FetchByIDs resolves chunk records for the given IDs, preserving the
// requested order. IDs with no matching record are silently dropped.
func (s *Store) FetchByIDs(ctx context.Context, ids []int64) ([]types.Chunk, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+chunkColumns+` FROM chunks WHERE chunk_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks by id: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]types.Chunk, len(ids))
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		byID[c.ChunkID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]types.Chunk, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// CountChunks returns the number of stored chunks.
func (s *Store) CountChunks(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM chunks`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}
