package driven

import (
	"context"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

// PostProcessor turns cleaned text into passages.
// PostProcessors are chained in a pipeline (e.g., paragraph splitting, filtering).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a unit whose RawText is already cleaned and returns passages.
	// A processor that creates passages (e.g., splitter) receives nil.
	// A processor that refines passages (e.g., filter) receives and returns them.
	Process(ctx context.Context, unit *domain.TextUnit, passages []domain.Passage) ([]domain.Passage, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the unit through all processors in order.
	Process(ctx context.Context, unit *domain.TextUnit) ([]domain.Passage, error)
}
