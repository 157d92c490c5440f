package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
	"github.com/custodia-labs/qabench/internal/logger"
)

// QAPipeline composes a per-book retrieval stage with a process-wide reader.
type QAPipeline struct {
	reader driven.Reader
}

// NewQAPipeline creates a new pipeline around a reader.
func NewQAPipeline(reader driven.Reader) *QAPipeline {
	return &QAPipeline{reader: reader}
}

// ReaderModel returns the model name of the configured reader.
func (p *QAPipeline) ReaderModel() string {
	if p.reader == nil {
		return ""
	}
	return p.reader.ModelName()
}

// Answer retrieves the topKRetriever best passages for question and returns
// the best of the topKReader answer candidates.
// Without candidate passages it returns domain.NoAnswer() and no error.
// Retrieval and reading failures are returned as *domain.InferenceError.
func (p *QAPipeline) Answer(
	ctx context.Context,
	retriever driven.Retriever,
	question string,
	topKRetriever, topKReader int,
) (domain.AnswerResult, error) {
	result, _, err := p.answer(ctx, retriever, question, topKRetriever, topKReader)
	return result, err
}

// answer also returns the retrieved passages for callers that display them.
func (p *QAPipeline) answer(
	ctx context.Context,
	retriever driven.Retriever,
	question string,
	topKRetriever, topKReader int,
) (domain.AnswerResult, []domain.ScoredPassage, error) {
	if retriever == nil {
		return domain.NoAnswer(), nil, &domain.InferenceError{
			Question: question, Stage: "retrieve", Err: errors.New("retriever not configured"),
		}
	}
	if topKRetriever <= 0 || topKReader <= 0 {
		return domain.NoAnswer(), nil, &domain.InferenceError{
			Question: question, Stage: "retrieve", Err: domain.ErrInvalidInput,
		}
	}

	passages, err := retriever.Retrieve(ctx, question, topKRetriever)
	if err != nil {
		return domain.NoAnswer(), nil, &domain.InferenceError{Question: question, Stage: "retrieve", Err: err}
	}
	logger.Debug("Retrieved %d passages for %q", len(passages), question)

	if len(passages) == 0 {
		logger.Debug("No passages for %q, returning empty answer", question)
		return domain.NoAnswer(), passages, nil
	}

	if p.reader == nil {
		return domain.NoAnswer(), passages, &domain.InferenceError{
			Question: question, Stage: "read", Err: domain.ErrReaderUnavailable,
		}
	}

	candidates, err := p.reader.Read(ctx, question, passages, topKReader)
	if err != nil {
		return domain.NoAnswer(), passages, &domain.InferenceError{Question: question, Stage: "read", Err: err}
	}

	candidates = topCandidates(candidates, topKReader)
	if len(candidates) == 0 {
		logger.Debug("Reader proposed no answer for %q", question)
		return domain.NoAnswer(), passages, nil
	}

	best := candidates[0]
	best.Text = strings.TrimSpace(best.Text)
	logger.Debug("Answer %q (p=%.3f, score=%.3f)", best.Text, best.Probability, best.Score)
	return best, passages, nil
}

// topCandidates keeps the k best candidates by score, preserving reader order on ties.
func topCandidates(candidates []domain.AnswerResult, k int) []domain.AnswerResult {
	out := make([]domain.AnswerResult, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}
