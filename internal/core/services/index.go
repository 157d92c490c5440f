package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
	"github.com/custodia-labs/qabench/internal/logger"
)

// PassageIndexer builds a fresh passage index from a staging area.
type PassageIndexer struct {
	normaliser driven.Normaliser
	pipeline   driven.PostProcessorPipeline
	factory    driven.RetrieverFactory
}

// NewPassageIndexer creates a new passage indexer.
func NewPassageIndexer(
	normaliser driven.Normaliser,
	pipeline driven.PostProcessorPipeline,
	factory driven.RetrieverFactory,
) *PassageIndexer {
	return &PassageIndexer{
		normaliser: normaliser,
		pipeline:   pipeline,
		factory:    factory,
	}
}

// Build cleans and splits every staged unit and loads the passages into a new
// retriever. An empty area yields a valid retriever that returns nothing.
// The caller owns the returned retriever and must close it.
func (x *PassageIndexer) Build(ctx context.Context, area driven.StagingArea) (driven.Retriever, error) {
	if x.factory == nil {
		return nil, errors.New("retriever factory not configured")
	}
	if x.pipeline == nil {
		return nil, errors.New("post-processor pipeline not configured")
	}

	units, err := area.Units(ctx)
	if err != nil {
		return nil, fmt.Errorf("read staging area: %w", err)
	}

	passages, err := x.passages(ctx, units)
	if err != nil {
		return nil, err
	}

	retriever, err := x.factory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create %s retriever: %w", x.factory.Kind(), err)
	}
	if err := retriever.Index(ctx, passages); err != nil {
		retriever.Close() //nolint:errcheck
		return nil, fmt.Errorf("index passages: %w", err)
	}

	logger.Debug("Indexed %d passages from %d documents (%s)", len(passages), len(units), x.factory.Kind())
	return retriever, nil
}

// passages converts units to passages in unit order.
func (x *PassageIndexer) passages(ctx context.Context, units []domain.TextUnit) ([]domain.Passage, error) {
	var out []domain.Passage
	for i := range units {
		unit := units[i]

		if x.normaliser != nil {
			cleaned, err := x.normaliser.Normalise(ctx, &unit)
			if err != nil {
				return nil, fmt.Errorf("normalise document %d with %s: %w", unit.Sequence, x.normaliser.Name(), err)
			}
			unit.RawText = cleaned
		}

		ps, err := x.pipeline.Process(ctx, &unit)
		if err != nil {
			return nil, fmt.Errorf("split document %d: %w", unit.Sequence, err)
		}
		out = append(out, ps...)
	}
	return out, nil
}
