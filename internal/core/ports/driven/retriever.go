package driven

import (
	"context"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

// Retriever is a lexical passage index for a single book.
// It is rebuilt from scratch per book and never shared between books.
type Retriever interface {
	// Index loads passages. Called once after construction.
	Index(ctx context.Context, passages []domain.Passage) error

	// Retrieve returns up to k passages ranked by relevance to query.
	// Ties keep passage order so repeated calls return identical results.
	Retrieve(ctx context.Context, query string, k int) ([]domain.ScoredPassage, error)

	// Passages returns every indexed passage in passage order.
	Passages() []domain.Passage

	// Close releases resources.
	Close() error
}

// RetrieverFactory creates empty retrievers of one store kind.
type RetrieverFactory interface {
	// Kind returns the store kind this factory builds.
	Kind() domain.StoreKind

	// New creates an empty retriever.
	New(ctx context.Context) (Retriever, error)
}
