// Package cli provides the cobra command tree of qabench.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
	"github.com/custodia-labs/qabench/internal/core/ports/driving"
	"github.com/custodia-labs/qabench/internal/logger"
)

var version = "dev"

var verbose bool

// Services are the driving ports a command works with. They are built from
// the effective settings of the invocation.
type Services struct {
	Benchmark driving.BenchmarkService
	Corpus    driving.CorpusService
	QA        driving.QAService

	// LoadCatalog reads the books and questions files.
	LoadCatalog func(ctx context.Context, booksPath, questionsPath string) (*domain.Catalog, error)

	// ReaderModel names the model behind the reader, if one was built.
	ReaderModel string

	// Close releases process-wide resources such as the reader.
	Close func()
}

// BuildOptions tune what a ServiceBuilder assembles.
type BuildOptions struct {
	// OutputDir is the results root of a benchmark run.
	OutputDir string

	// WithoutReader skips creating the reader for commands that only fetch.
	WithoutReader bool
}

// ServiceBuilder assembles services from settings.
type ServiceBuilder func(settings domain.BenchmarkSettings, opts BuildOptions) (*Services, error)

var (
	settingsService driving.SettingsService
	readerValidator driven.ReaderValidator
	buildServices   ServiceBuilder
)

var rootCmd = &cobra.Command{
	Use:   "qabench",
	Short: "Benchmark open-domain question answering over encyclopedia corpora",
	Long: `qabench assembles a per-book corpus from Wikipedia, indexes it, and
answers the benchmark questions of each book with a retrieve-and-read
pipeline, recording corpus sizes, answers, confidences and latencies.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress and timing logs")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices injects the settings service, the reader validator and the
// builder used by commands that need the pipeline.
func SetServices(settings driving.SettingsService, validator driven.ReaderValidator, build ServiceBuilder) {
	settingsService = settings
	readerValidator = validator
	buildServices = build
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// build loads the stored settings, applies overrides and builds services.
func build(apply func(*domain.BenchmarkSettings) error, opts BuildOptions) (*Services, *domain.BenchmarkSettings, error) {
	if settingsService == nil || buildServices == nil {
		return nil, nil, errors.New("services not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, err
	}
	if apply != nil {
		if err := apply(settings); err != nil {
			return nil, nil, err
		}
	}

	services, err := buildServices(*settings, opts)
	if err != nil {
		return nil, nil, err
	}
	if services.Close == nil {
		services.Close = func() {}
	}
	return services, settings, nil
}
