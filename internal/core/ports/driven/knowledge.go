package driven

import (
	"context"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

// KnowledgeSource is the external document provider a corpus is built from.
type KnowledgeSource interface {
	// Search returns up to limit candidate titles matching query, best first.
	Search(ctx context.Context, query string, limit int) ([]string, error)

	// Page fetches the full text of the page with exactly this title.
	// No disambiguation suggestion or fuzzy resolution is applied.
	Page(ctx context.Context, title string) (*domain.Page, error)
}
