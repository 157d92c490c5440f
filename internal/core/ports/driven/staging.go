package driven

import (
	"context"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

// StagingProvider hands out one fresh staging area per book.
type StagingProvider interface {
	// Acquire returns an empty staging area for key.
	// Every call returns a distinct area, even for a repeated key.
	Acquire(ctx context.Context, key string) (StagingArea, error)
}

// StagingArea holds the text units of the book being processed.
type StagingArea interface {
	// Put persists a text unit.
	Put(ctx context.Context, unit domain.TextUnit) error

	// Units returns all persisted units ordered by sequence number.
	Units(ctx context.Context) ([]domain.TextUnit, error)

	// Len returns the number of persisted units.
	Len() int

	// Release discards the area and its units. Safe to call more than once.
	Release() error
}
