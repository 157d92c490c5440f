// Package sqlite implements the passage index as an in-memory SQLite FTS5
// table ranked with bm25.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/qabench/internal/adapters/driven/retriever/tfidf"
	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure types implement the interfaces.
var (
	_ driven.Retriever        = (*Retriever)(nil)
	_ driven.RetrieverFactory = (*Factory)(nil)
)

//go:embed schema.sql
var schema string

// Factory creates SQLite FTS5 retrievers.
type Factory struct{}

// NewFactory creates a new SQLite retriever factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Kind returns the sqlite store kind.
func (f *Factory) Kind() domain.StoreKind {
	return domain.StoreKindSQLite
}

// New creates an empty retriever backed by a private in-memory database.
func (f *Factory) New(ctx context.Context) (driven.Retriever, error) {
	return New(ctx)
}

// Retriever is a per-book FTS5 index.
type Retriever struct {
	mu       sync.RWMutex
	db       *sql.DB
	passages []domain.Passage
}

// New opens an in-memory database and creates the passage table.
func New(ctx context.Context) (*Retriever, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating passage table: %w", err)
	}
	return &Retriever{db: db}, nil
}

// Index replaces the table contents. Rows are inserted in passage order so
// rowid breaks score ties.
func (r *Retriever) Index(ctx context.Context, passages []domain.Passage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return fmt.Errorf("retriever closed")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM passages"); err != nil {
		return fmt.Errorf("clearing passages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO passages (rowid, text, passage_id, sequence, position) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range passages {
		if _, err := stmt.ExecContext(ctx, i+1, p.Text, p.ID, p.Sequence, p.Position); err != nil {
			return fmt.Errorf("inserting passage %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.passages = append([]domain.Passage(nil), passages...)
	return nil
}

// Retrieve returns up to k passages matching any query term, best bm25 first.
// Passages sharing no term with the query are not returned.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.ScoredPassage, error) {
	if k <= 0 {
		return nil, nil
	}
	match := matchExpression(query)
	if match == "" {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.db == nil {
		return nil, fmt.Errorf("retriever closed")
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT rowid, bm25(passages)
		FROM passages
		WHERE passages MATCH ?
		ORDER BY bm25(passages), rowid
		LIMIT ?`, match, k)
	if err != nil {
		return nil, fmt.Errorf("querying passages: %w", err)
	}
	defer rows.Close()

	var results []domain.ScoredPassage
	for rows.Next() {
		var rowid int
		var rank float64
		if err := rows.Scan(&rowid, &rank); err != nil {
			return nil, fmt.Errorf("scanning passage: %w", err)
		}
		if rowid < 1 || rowid > len(r.passages) {
			continue
		}
		// bm25() is lower-is-better; negate so higher is better.
		results = append(results, domain.ScoredPassage{Passage: r.passages[rowid-1], Score: -rank})
	}
	return results, rows.Err()
}

// Passages returns the indexed passages in index order.
func (r *Retriever) Passages() []domain.Passage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Passage(nil), r.passages...)
}

// Close closes the database. Safe to call more than once.
func (r *Retriever) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.passages = nil
	return err
}

// matchExpression turns free text into an FTS5 query OR-ing quoted terms.
func matchExpression(query string) string {
	tokens := tfidf.Tokenize(query)
	seen := make(map[string]bool, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		terms = append(terms, `"`+strings.ReplaceAll(t, `"`, `""`)+`"`)
	}
	return strings.Join(terms, " OR ")
}
