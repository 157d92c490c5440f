package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
	"github.com/custodia-labs/qabench/internal/core/ports/driving"
	"github.com/custodia-labs/qabench/internal/logger"
)

// Ensure BenchmarkService implements the interface.
var _ driving.BenchmarkService = (*BenchmarkService)(nil)

// Defaults of the reference benchmark.
const (
	DefaultTopKRetriever = 7
	DefaultTopKReader    = 1
)

// corpusFetcher is the part of CorpusFetcher the orchestrator needs.
type corpusFetcher interface {
	Fetch(ctx context.Context, title string, area driven.StagingArea) (*domain.FetchReport, error)
}

// passageIndexer is the part of PassageIndexer the orchestrator needs.
type passageIndexer interface {
	Build(ctx context.Context, area driven.StagingArea) (driven.Retriever, error)
}

// answerer is the part of QAPipeline the orchestrator needs.
type answerer interface {
	Answer(ctx context.Context, retriever driven.Retriever, question string, topKRetriever, topKReader int) (domain.AnswerResult, error)
}

// BenchmarkConfig holds the fixed parameters of a run.
type BenchmarkConfig struct {
	// TopKRetriever is the number of passages handed to the reader.
	TopKRetriever int

	// TopKReader is the number of answer candidates kept.
	TopKReader int

	// OutputDir is the root results are written under. Empty disables writing.
	OutputDir string

	// RunConfig partitions the output directory.
	RunConfig domain.RunConfig
}

// BenchmarkService drives the per-book, per-question evaluation loop.
type BenchmarkService struct {
	staging  driven.StagingProvider
	fetcher  corpusFetcher
	indexer  passageIndexer
	pipeline answerer
	writers  []driven.ResultWriter
	cfg      BenchmarkConfig
	now      func() time.Time
}

// NewBenchmarkService creates a new orchestrator.
// Writers are optional; without them results are only returned.
func NewBenchmarkService(
	staging driven.StagingProvider,
	fetcher *CorpusFetcher,
	indexer *PassageIndexer,
	pipeline *QAPipeline,
	cfg BenchmarkConfig,
	writers ...driven.ResultWriter,
) *BenchmarkService {
	if cfg.TopKRetriever <= 0 {
		cfg.TopKRetriever = DefaultTopKRetriever
	}
	if cfg.TopKReader <= 0 {
		cfg.TopKReader = DefaultTopKReader
	}
	s := &BenchmarkService{
		staging: staging,
		writers: writers,
		cfg:     cfg,
		now:     time.Now,
	}
	// Keep missing collaborators as nil interfaces.
	if fetcher != nil {
		s.fetcher = fetcher
	}
	if indexer != nil {
		s.indexer = indexer
	}
	if pipeline != nil {
		s.pipeline = pipeline
	}
	return s
}

// Run validates the catalog and processes every book and question in order.
// An inference failure stops the run; records emitted before it are returned
// with the error and nothing is written.
func (s *BenchmarkService) Run(ctx context.Context, catalog *domain.Catalog) (*domain.RunResults, error) {
	if catalog == nil {
		return nil, fmt.Errorf("run: %w: nil catalog", domain.ErrInvalidInput)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if s.staging == nil || s.fetcher == nil || s.indexer == nil || s.pipeline == nil {
		return nil, errors.New("benchmark service not fully configured")
	}

	results := domain.NewRunResults(uuid.New().String(), s.now())
	logger.Section("Benchmark")
	logger.Info("Run %s: %d books, %d questions, top_k_retriever=%d, top_k_reader=%d",
		results.RunID(), len(catalog.Books), len(catalog.Questions), s.cfg.TopKRetriever, s.cfg.TopKReader)

	for _, book := range catalog.Books {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		retriever, record, err := s.prepareBook(ctx, book)
		if err != nil {
			return results, fmt.Errorf("book %s (%s): %w", book.DocumentID, book.Title, err)
		}
		results.AddBook(record)

		err = s.answerQuestions(ctx, retriever, catalog.QuestionsFor(book.DocumentID), results)
		if cerr := retriever.Close(); cerr != nil {
			logger.Warn("Close retriever for %s: %v", book.DocumentID, cerr)
		}
		if err != nil {
			return results, err
		}
	}

	if err := s.persist(ctx, results); err != nil {
		return results, err
	}
	return results, nil
}

// prepareBook fetches and indexes the corpus of a book in its own staging area.
func (s *BenchmarkService) prepareBook(
	ctx context.Context, book domain.Book,
) (driven.Retriever, domain.BookMetricRecord, error) {
	logger.Section("Book " + book.DocumentID)
	logger.Info("Fetching documents for book %s", book.Title)

	begin := s.now()

	area, err := s.staging.Acquire(ctx, book.DocumentID)
	if err != nil {
		return nil, domain.BookMetricRecord{}, fmt.Errorf("acquire staging area: %w", err)
	}
	defer releaseArea(area)

	report, err := s.fetcher.Fetch(ctx, book.Title, area)
	if err != nil {
		return nil, domain.BookMetricRecord{}, fmt.Errorf("fetch corpus: %w", err)
	}

	retriever, err := s.indexer.Build(ctx, area)
	if err != nil {
		return nil, domain.BookMetricRecord{}, fmt.Errorf("build index: %w", err)
	}

	elapsed := s.since(begin)

	if report.Count() == 0 {
		logger.Warn("%v: book %s yielded no documents", domain.ErrEmptyCorpus, book.DocumentID)
	}
	logger.Timing("set up "+book.DocumentID, elapsed)

	return retriever, domain.BookMetricRecord{
		DocumentID:        book.DocumentID,
		Title:             book.Title,
		NumDocuments:      report.Count(),
		IndexBuildSeconds: elapsed.Seconds(),
	}, nil
}

// answerQuestions answers the questions of one book against its retriever.
func (s *BenchmarkService) answerQuestions(
	ctx context.Context,
	retriever driven.Retriever,
	questions []domain.Question,
	results *domain.RunResults,
) error {
	for _, q := range questions {
		if err := ctx.Err(); err != nil {
			return err
		}

		begin := s.now()
		answer, err := s.pipeline.Answer(ctx, retriever, q.Text, s.cfg.TopKRetriever, s.cfg.TopKReader)
		elapsed := s.since(begin)
		if err != nil {
			var ie *domain.InferenceError
			if errors.As(err, &ie) {
				ie.DocumentID = q.DocumentID
			}
			return fmt.Errorf("question %d: %w", q.QuestionID, err)
		}

		results.AddQuestion(domain.QAMetricRecord{
			DocumentID:    q.DocumentID,
			QuestionID:    q.QuestionID,
			Question:      q.Text,
			Answer:        answer.Text,
			Probability:   answer.Probability,
			Score:         answer.Score,
			TopKRetriever: s.cfg.TopKRetriever,
			AnswerSeconds: elapsed.Seconds(),
		})
		logger.Debug("Q%d %q -> %q (%.3fs)", q.QuestionID, q.Text, answer.Text, elapsed.Seconds())
	}
	return nil
}

// persist writes the results with every configured writer.
func (s *BenchmarkService) persist(ctx context.Context, results *domain.RunResults) error {
	if s.cfg.OutputDir == "" || len(s.writers) == 0 {
		return nil
	}

	dir := filepath.Join(append([]string{s.cfg.OutputDir}, s.cfg.RunConfig.PathSegments()...)...)
	for _, w := range s.writers {
		if err := w.Write(ctx, dir, results); err != nil {
			return fmt.Errorf("write %s results: %w", w.Format(), err)
		}
		logger.Info("Wrote %s results to %s", w.Format(), dir)
	}
	results.SetLocation(dir)
	return nil
}

// since returns the non-negative duration elapsed from begin.
func (s *BenchmarkService) since(begin time.Time) time.Duration {
	d := s.now().Sub(begin)
	if d < 0 {
		return 0
	}
	return d
}
