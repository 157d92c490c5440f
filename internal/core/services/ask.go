package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
	"github.com/custodia-labs/qabench/internal/core/ports/driving"
)

// Ensure AskService implements the interface.
var _ driving.QAService = (*AskService)(nil)

// AskService answers a single question about a book outside a benchmark run.
type AskService struct {
	staging       driven.StagingProvider
	fetcher       *CorpusFetcher
	indexer       *PassageIndexer
	pipeline      *QAPipeline
	topKRetriever int
	topKReader    int
}

// NewAskService creates a new ad-hoc question service.
func NewAskService(
	staging driven.StagingProvider,
	fetcher *CorpusFetcher,
	indexer *PassageIndexer,
	pipeline *QAPipeline,
	topKRetriever, topKReader int,
) *AskService {
	if topKRetriever <= 0 {
		topKRetriever = DefaultTopKRetriever
	}
	if topKReader <= 0 {
		topKReader = DefaultTopKReader
	}
	return &AskService{
		staging:       staging,
		fetcher:       fetcher,
		indexer:       indexer,
		pipeline:      pipeline,
		topKRetriever: topKRetriever,
		topKReader:    topKReader,
	}
}

// Ask fetches and indexes the corpus of title and answers question against it.
func (s *AskService) Ask(ctx context.Context, title, question string) (*driving.AskResult, error) {
	title = strings.TrimSpace(title)
	question = strings.TrimSpace(question)
	if title == "" || question == "" {
		return nil, fmt.Errorf("ask: %w: title and question are required", domain.ErrInvalidInput)
	}
	if s.staging == nil || s.fetcher == nil || s.indexer == nil || s.pipeline == nil {
		return nil, errors.New("ask service not fully configured")
	}

	begin := time.Now()

	area, err := s.staging.Acquire(ctx, "ask")
	if err != nil {
		return nil, fmt.Errorf("acquire staging area: %w", err)
	}
	defer releaseArea(area)

	report, err := s.fetcher.Fetch(ctx, title, area)
	if err != nil {
		return nil, fmt.Errorf("fetch corpus: %w", err)
	}

	retriever, err := s.indexer.Build(ctx, area)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	defer retriever.Close() //nolint:errcheck

	indexSeconds := time.Since(begin).Seconds()

	begin = time.Now()
	answer, passages, err := s.pipeline.answer(ctx, retriever, question, s.topKRetriever, s.topKReader)
	if err != nil {
		return nil, err
	}

	return &driving.AskResult{
		Answer:            answer,
		Report:            report,
		Passages:          passages,
		IndexBuildSeconds: indexSeconds,
		AnswerSeconds:     time.Since(begin).Seconds(),
	}, nil
}
