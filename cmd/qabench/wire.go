package main

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/qabench/internal/adapters/driven/ai"
	catalogcsv "github.com/custodia-labs/qabench/internal/adapters/driven/catalog/csv"
	"github.com/custodia-labs/qabench/internal/adapters/driven/knowledge/wikipedia"
	"github.com/custodia-labs/qabench/internal/adapters/driven/results"
	resultscsv "github.com/custodia-labs/qabench/internal/adapters/driven/results/csv"
	"github.com/custodia-labs/qabench/internal/adapters/driven/results/xlsx"
	"github.com/custodia-labs/qabench/internal/adapters/driven/retriever/sqlite"
	"github.com/custodia-labs/qabench/internal/adapters/driven/retriever/tfidf"
	"github.com/custodia-labs/qabench/internal/adapters/driven/staging/filesystem"
	"github.com/custodia-labs/qabench/internal/adapters/driving/cli"
	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
	"github.com/custodia-labs/qabench/internal/core/services"
	"github.com/custodia-labs/qabench/internal/logger"
	"github.com/custodia-labs/qabench/internal/normalisers/wiki"
	"github.com/custodia-labs/qabench/internal/postprocessors"
)

// buildServices assembles the pipeline for one invocation.
func buildServices(settings domain.BenchmarkSettings, opts cli.BuildOptions) (*cli.Services, error) {
	source := wikipedia.NewClient(
		wikipedia.WithEndpoint(settings.Knowledge.Endpoint),
		wikipedia.WithRateLimit(settings.Knowledge.RequestsPerSecond, rateBurst(settings.Knowledge.RequestsPerSecond)),
	)
	staging := filesystem.NewProvider(settings.StagingDir)

	fetcher := services.NewCorpusFetcher(source, staging,
		services.WithSearchResults(settings.Knowledge.SearchResults),
		services.WithDenylist(settings.Knowledge.Denylist),
	)

	factory, err := retrieverFactory(settings.Retriever.Store)
	if err != nil {
		return nil, err
	}
	indexer := services.NewPassageIndexer(wiki.New(), postprocessors.DefaultPipeline(), factory)

	svc := &cli.Services{
		Corpus:      fetcher,
		LoadCatalog: loadCatalog,
	}
	if opts.WithoutReader {
		return svc, nil
	}

	reader, err := ai.CreateAndValidateReader(&settings.Reader)
	if err != nil {
		return nil, err
	}
	logger.Debug("reader: %s (%s)", settings.Reader.Provider, reader.ModelName())

	writers, err := resultWriters(settings.Output.Formats)
	if err != nil {
		reader.Close() //nolint:errcheck
		return nil, err
	}

	runConfig := settings.RunConfig()
	runConfig.ReaderModel = reader.ModelName()

	pipeline := services.NewQAPipeline(reader)
	svc.Benchmark = services.NewBenchmarkService(staging, fetcher, indexer, pipeline, services.BenchmarkConfig{
		TopKRetriever: settings.Retriever.TopK,
		TopKReader:    settings.Reader.TopK,
		OutputDir:     opts.OutputDir,
		RunConfig:     runConfig,
	}, writers)
	svc.QA = services.NewAskService(staging, fetcher, indexer, pipeline,
		settings.Retriever.TopK, settings.Reader.TopK)
	svc.ReaderModel = reader.ModelName()
	svc.Close = func() {
		if err := reader.Close(); err != nil {
			logger.Warn("close reader: %v", err)
		}
	}
	return svc, nil
}

func loadCatalog(ctx context.Context, booksPath, questionsPath string) (*domain.Catalog, error) {
	return catalogcsv.NewSource(booksPath, questionsPath).Load(ctx)
}

func retrieverFactory(kind domain.StoreKind) (driven.RetrieverFactory, error) {
	switch kind {
	case domain.StoreKindMemory:
		return tfidf.NewFactory(), nil
	case domain.StoreKindSQLite:
		return sqlite.NewFactory(), nil
	default:
		return nil, fmt.Errorf("%w: store %q", domain.ErrUnsupportedType, kind)
	}
}

func resultWriters(formats []domain.OutputFormat) (driven.ResultWriter, error) {
	writers := make([]driven.ResultWriter, 0, len(formats))
	for _, f := range formats {
		switch f {
		case domain.OutputFormatCSV:
			writers = append(writers, resultscsv.NewWriter())
		case domain.OutputFormatXLSX:
			writers = append(writers, xlsx.NewWriter())
		default:
			return nil, fmt.Errorf("%w: output format %q", domain.ErrUnsupportedType, f)
		}
	}
	return results.NewMulti(writers...), nil
}

// rateBurst allows one second worth of requests at once.
func rateBurst(rps float64) int {
	return max(1, int(math.Ceil(rps)))
}
