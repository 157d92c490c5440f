package driven

import (
	"context"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

// ResultWriter persists the metric records of a run.
type ResultWriter interface {
	// Format returns the output format name.
	Format() string

	// Write materialises both datasets under dir.
	Write(ctx context.Context, dir string, results *domain.RunResults) error
}

// CatalogSource loads the books and questions of a benchmark.
type CatalogSource interface {
	// Load reads the catalog. Integrity is checked by the caller.
	Load(ctx context.Context) (*domain.Catalog, error)
}
