package driven

import (
	"context"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

// Normaliser cleans markup and whitespace from a staged text unit.
type Normaliser interface {
	// Name returns the normaliser name for logging.
	Name() string

	// Normalise returns the cleaned text of the unit.
	Normalise(ctx context.Context, unit *domain.TextUnit) (string, error)
}
