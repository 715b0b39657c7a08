package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"aiact/internal/domain"
	"aiact/internal/sqlitedb"
)

const schema = `CREATE VIRTUAL TABLE IF NOT EXISTS chunks USING fts5(
	chunk_id UNINDEXED,
	document_id UNINDEXED,
	chunk_index UNINDEXED,
	text,
	tokenize = 'porter unicode61'
)`

// maxQueryTerms bounds the OR query built from long free-text inputs.
const maxQueryTerms = 64

var termRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Store is a full-text ranking store on SQLite FTS5, ranked by bm25.
type Store struct {
	db *sql.DB
}

// Open opens or creates the index at path.
func Open(path string) (*Store, error) {
	db, err := sqlitedb.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create fts5 index: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Clear removes every chunk.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chunks`)
	return err
}

// Upsert replaces chunks with the same chunk_id.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	return s.write(ctx, false, chunks)
}

// Replace swaps the whole index for chunks in one transaction, so a failed
// or cancelled rebuild leaves the previous index in place.
func (s *Store) Replace(ctx context.Context, chunks []domain.Chunk) error {
	return s.write(ctx, true, chunks)
}

func (s *Store) write(ctx context.Context, truncate bool, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if truncate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
			return err
		}
	}
	del, err := tx.PrepareContext(ctx, `DELETE FROM chunks WHERE chunk_id = ?`)
	if err != nil {
		return err
	}
	defer del.Close()
	ins, err := tx.PrepareContext(ctx, `INSERT INTO chunks (chunk_id, document_id, chunk_index, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ins.Close()
	for _, c := range chunks {
		if !truncate {
			if _, err := del.ExecContext(ctx, c.ChunkID); err != nil {
				return err
			}
		}
		if _, err := ins.ExecContext(ctx, c.ChunkID, c.DocumentID, c.Index, c.Text); err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ChunkID, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of indexed chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM chunks`).Scan(&n)
	return n, err
}

// RankedSearch matches any query term and orders by bm25, best first.
// A query with no usable terms returns no results.
func (s *Store) RankedSearch(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	match := matchExpression(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, document_id, chunk_index, text, bm25(chunks) AS rank
		FROM chunks
		WHERE chunks MATCH ?
		ORDER BY rank
		LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("fts5 search: %w", err)
	}
	defer rows.Close()
	var out []domain.SearchResult
	for rows.Next() {
		var (
			c    domain.Chunk
			idx  int64
			rank float64
		)
		if err := rows.Scan(&c.ChunkID, &c.DocumentID, &idx, &c.Text, &rank); err != nil {
			return nil, err
		}
		c.Index = int(idx)
		// bm25() is lower-is-better
		out = append(out, domain.SearchResult{Chunk: c, Score: -rank})
	}
	return out, rows.Err()
}

// matchExpression quotes each distinct term and ORs them, so punctuation in
// free text never reaches the FTS5 query parser.
func matchExpression(query string) string {
	seen := make(map[string]struct{})
	var terms []string
	for _, t := range termRe.FindAllString(strings.ToLower(query), -1) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		terms = append(terms, `"`+t+`"`)
		if len(terms) == maxQueryTerms {
			break
		}
	}
	return strings.Join(terms, " OR ")
}
