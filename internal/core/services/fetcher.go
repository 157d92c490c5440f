package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
	"github.com/custodia-labs/qabench/internal/core/ports/driving"
	"github.com/custodia-labs/qabench/internal/logger"
)

// Ensure CorpusFetcher implements the interface.
var _ driving.CorpusService = (*CorpusFetcher)(nil)

// DefaultSearchResults is the number of candidate titles requested per book.
const DefaultSearchResults = 50

// CorpusFetcher assembles the corpus of a book from the knowledge source.
type CorpusFetcher struct {
	source        driven.KnowledgeSource
	staging       driven.StagingProvider
	searchResults int
	denylist      []string
}

// FetcherOption configures the corpus fetcher.
type FetcherOption func(*CorpusFetcher)

// WithSearchResults sets the number of candidate titles requested per book.
func WithSearchResults(n int) FetcherOption {
	return func(f *CorpusFetcher) {
		if n > 0 {
			f.searchResults = n
		}
	}
}

// WithDenylist replaces the title markers that exclude a candidate.
func WithDenylist(markers []string) FetcherOption {
	return func(f *CorpusFetcher) {
		if markers != nil {
			f.denylist = append([]string(nil), markers...)
		}
	}
}

// NewCorpusFetcher creates a new corpus fetcher.
// The staging provider is only needed by Collect.
func NewCorpusFetcher(
	source driven.KnowledgeSource,
	staging driven.StagingProvider,
	opts ...FetcherOption,
) *CorpusFetcher {
	f := &CorpusFetcher{
		source:        source,
		staging:       staging,
		searchResults: DefaultSearchResults,
		denylist:      domain.DefaultDenylist(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch searches the knowledge source for title and stages every fetchable,
// non-excluded candidate in area with contiguous sequence numbers from 1.
// Per-candidate failures are recorded as skips and never returned.
func (f *CorpusFetcher) Fetch(ctx context.Context, title string, area driven.StagingArea) (*domain.FetchReport, error) {
	if area == nil {
		return nil, fmt.Errorf("fetch %q: %w: nil staging area", title, domain.ErrInvalidInput)
	}

	report := &domain.FetchReport{Title: title}

	logger.Debug("Searching knowledge source: %q (limit %d)", title, f.searchResults)
	candidates, err := f.source.Search(ctx, title, f.searchResults)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Treated like a failed candidate: the book continues with an empty corpus.
		logger.Warn("Search failed for %q: %v", title, err)
		report.Skips = append(report.Skips, domain.FetchSkip{Title: title, Reason: "search", Err: err})
		return report, nil
	}
	report.Candidates = len(candidates)

	sequence := 1
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if marker, excluded := f.excluded(candidate); excluded {
			logger.Debug("Excluded %q (matches %q)", candidate, marker)
			report.Excluded = append(report.Excluded, candidate)
			continue
		}

		page, skip := f.fetchPage(ctx, candidate)
		if skip != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Debug("Skipped %q: %v", candidate, skip)
			report.Skips = append(report.Skips, *skip)
			continue
		}

		unit := domain.TextUnit{
			Sequence: sequence,
			Title:    candidate,
			RawText:  page.Content,
		}
		if err := area.Put(ctx, unit); err != nil {
			return nil, fmt.Errorf("stage document %d (%s): %w", sequence, candidate, err)
		}
		logger.Info("Created document number %d from page %s", sequence, candidate)

		report.Units = append(report.Units, unit)
		sequence++
	}

	logger.Debug("Corpus for %q: %d staged, %d excluded, %d skipped",
		title, report.Count(), len(report.Excluded), len(report.Skips))
	return report, nil
}

// Collect assembles the corpus of title in a temporary staging area.
func (f *CorpusFetcher) Collect(ctx context.Context, title string) (*domain.FetchReport, error) {
	if f.staging == nil {
		return nil, errors.New("staging provider not configured")
	}
	area, err := f.staging.Acquire(ctx, "collect")
	if err != nil {
		return nil, fmt.Errorf("acquire staging area: %w", err)
	}
	defer releaseArea(area)

	return f.Fetch(ctx, title, area)
}

// excluded reports whether a candidate title contains a denylisted marker.
func (f *CorpusFetcher) excluded(candidate string) (string, bool) {
	for _, marker := range f.denylist {
		if marker != "" && strings.Contains(candidate, marker) {
			return marker, true
		}
	}
	return "", false
}

// fetchPage fetches the exact page for a candidate and classifies failures.
func (f *CorpusFetcher) fetchPage(ctx context.Context, candidate string) (*domain.Page, *domain.FetchSkip) {
	page, err := f.source.Page(ctx, candidate)
	if err != nil {
		return nil, &domain.FetchSkip{Title: candidate, Reason: skipReason(err), Err: err}
	}
	if page == nil {
		return nil, &domain.FetchSkip{Title: candidate, Reason: "empty", Err: domain.ErrNotFound}
	}
	return page, nil
}

// reasoner is implemented by adapter errors that classify themselves.
type reasoner interface {
	Reason() string
}

// skipReason derives a short cause for a failed fetch.
func skipReason(err error) string {
	var r reasoner
	if errors.As(err, &r) {
		return r.Reason()
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "missing"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

// releaseArea releases a staging area, logging failures.
func releaseArea(area driven.StagingArea) {
	if err := area.Release(); err != nil {
		logger.Warn("Release staging area: %v", err)
	}
}
