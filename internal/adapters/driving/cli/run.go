package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

var runOpts struct {
	books         string
	questions     string
	output        string
	store         string
	reader        string
	model         string
	topKRetriever int
	topKReader    int
	searchResults int
	formats       []string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark over a books and questions catalog",
	Long: `Run the benchmark. For each book the corpus is fetched from the knowledge
source, split into passages and indexed; each question of the book is then
answered by retrieving the top passages and reading the best answer span.

Results are written under
  <output>/<store>-document-store/<reader-model>/top-<k>-retriever/<n>-wiki-results/

Flags override the stored settings for this run only.`,
	Args: cobra.NoArgs,
	RunE: runBenchmark,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runOpts.books, "books", "books.csv", "books file (document_id,wiki_title)")
	f.StringVar(&runOpts.questions, "questions", "questions.csv", "questions file (document_id,question)")
	f.StringVarP(&runOpts.output, "output", "o", "results", "results root directory")
	f.StringVar(&runOpts.store, "store", "", "passage store: memory or sqlite")
	f.StringVar(&runOpts.reader, "reader", "", "reader provider: lexical, extractive, openai or ollama")
	f.StringVar(&runOpts.model, "model", "", "reader model")
	f.IntVarP(&runOpts.topKRetriever, "top-k", "k", 0, "passages handed to the reader")
	f.IntVar(&runOpts.topKReader, "top-k-reader", 0, "answer candidates kept by the reader")
	f.IntVar(&runOpts.searchResults, "search-results", 0, "candidate pages requested per book")
	f.StringSliceVar(&runOpts.formats, "format", nil, "output formats: csv, xlsx")
	rootCmd.AddCommand(runCmd)
}

func runBenchmark(cmd *cobra.Command, _ []string) error {
	services, _, err := build(applyRunFlags, BuildOptions{OutputDir: runOpts.output})
	if err != nil {
		return err
	}
	defer services.Close()

	if services.Benchmark == nil || services.LoadCatalog == nil {
		return errors.New("benchmark service not configured")
	}

	ctx := cmd.Context()
	catalog, err := services.LoadCatalog(ctx, runOpts.books, runOpts.questions)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	results, runErr := services.Benchmark.Run(ctx, catalog)
	if results != nil {
		out := cmd.OutOrStdout()
		renderSummary(out, results, isTerminal(out))
	}
	if runErr != nil {
		return fmt.Errorf("benchmark failed: %w", runErr)
	}
	return nil
}

// applyRunFlags overrides settings with the flags given on the command line.
func applyRunFlags(s *domain.BenchmarkSettings) error {
	if runOpts.store != "" {
		kind := domain.StoreKind(runOpts.store)
		if !kind.IsValid() {
			return fmt.Errorf("%w: store %q", domain.ErrUnsupportedType, runOpts.store)
		}
		s.Retriever.Store = kind
	}

	if runOpts.reader != "" {
		provider := domain.ReaderProvider(runOpts.reader)
		if !provider.IsValid() {
			return fmt.Errorf("%w: reader %q", domain.ErrUnsupportedType, runOpts.reader)
		}
		if provider != s.Reader.Provider {
			s.Reader.Provider = provider
			s.Reader.Model = domain.DefaultReaderModels()[provider]
		}
	}
	if runOpts.model != "" {
		s.Reader.Model = runOpts.model
	}

	if runOpts.topKRetriever < 0 || runOpts.topKReader < 0 || runOpts.searchResults < 0 {
		return fmt.Errorf("%w: counts must be positive", domain.ErrInvalidInput)
	}
	if runOpts.topKRetriever > 0 {
		s.Retriever.TopK = runOpts.topKRetriever
	}
	if runOpts.topKReader > 0 {
		s.Reader.TopK = runOpts.topKReader
	}
	if runOpts.searchResults > 0 {
		s.Knowledge.SearchResults = runOpts.searchResults
	}

	if len(runOpts.formats) > 0 {
		formats := make([]domain.OutputFormat, 0, len(runOpts.formats))
		for _, f := range runOpts.formats {
			format := domain.OutputFormat(f)
			if !format.IsValid() {
				return fmt.Errorf("%w: format %q", domain.ErrUnsupportedType, f)
			}
			formats = append(formats, format)
		}
		s.Output.Formats = formats
	}
	return nil
}
