package driven

import (
	"context"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

// Reader extracts answer spans from a bounded set of passages.
// It is expensive to initialise and is created once per process.
type Reader interface {
	// Read proposes up to topK answer candidates, best first.
	// An empty slice means the reader found no answer.
	Read(ctx context.Context, question string, passages []domain.ScoredPassage, topK int) ([]domain.AnswerResult, error)

	// ModelName returns the name of the model backing the reader.
	ModelName() string

	// Close releases resources.
	Close() error
}
