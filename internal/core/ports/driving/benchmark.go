package driving

import (
	"context"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

// BenchmarkService runs the retrieve-and-read evaluation loop.
type BenchmarkService interface {
	// Run processes every book and question of the catalog in order.
	// On an inference failure the records emitted so far are returned
	// together with the error.
	Run(ctx context.Context, catalog *domain.Catalog) (*domain.RunResults, error)
}

// CorpusService assembles and indexes the corpus of a single book.
type CorpusService interface {
	// Collect assembles the corpus of title in a temporary staging area
	// and returns the report with the staged units.
	Collect(ctx context.Context, title string) (*domain.FetchReport, error)
}

// QAService answers questions about a single book on demand.
type QAService interface {
	// Ask fetches and indexes the corpus of title and answers question.
	Ask(ctx context.Context, title, question string) (*AskResult, error)
}

// AskResult is the outcome of a single ad-hoc question.
type AskResult struct {
	Answer            domain.AnswerResult
	Report            *domain.FetchReport
	Passages          []domain.ScoredPassage
	IndexBuildSeconds float64
	AnswerSeconds     float64
}
