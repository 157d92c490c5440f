package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

var (
	askPassages bool
	askReader   string
	askStore    string
)

var askCmd = &cobra.Command{
	Use:   "ask [title] [question]",
	Short: "Answer one question about a book",
	Long: `Fetch and index the corpus of a book, then answer a single question
with the configured retriever and reader.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askPassages, "passages", false, "show the retrieved passages")
	askCmd.Flags().StringVar(&askReader, "reader", "", "reader provider for this question")
	askCmd.Flags().StringVar(&askStore, "store", "", "passage store for this question")
	rootCmd.AddCommand(askCmd)
}

func applyAskFlags(s *domain.BenchmarkSettings) error {
	if askStore != "" {
		kind := domain.StoreKind(askStore)
		if !kind.IsValid() {
			return fmt.Errorf("%w: store %q", domain.ErrUnsupportedType, askStore)
		}
		s.Retriever.Store = kind
	}
	if askReader != "" {
		provider := domain.ReaderProvider(askReader)
		if !provider.IsValid() {
			return fmt.Errorf("%w: reader %q", domain.ErrUnsupportedType, askReader)
		}
		if provider != s.Reader.Provider {
			s.Reader.Provider = provider
			s.Reader.Model = domain.DefaultReaderModels()[provider]
		}
	}
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	services, _, err := build(applyAskFlags, BuildOptions{})
	if err != nil {
		return err
	}
	defer services.Close()

	if services.QA == nil {
		return errors.New("qa service not configured")
	}

	result, err := services.QA.Ask(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	documents := 0
	if result.Report != nil {
		documents = result.Report.Count()
	}

	if result.Answer.IsEmpty() {
		cmd.Println("No answer found.")
	} else {
		cmd.Printf("Answer: %s\n", result.Answer.Text)
		cmd.Printf("  Probability: %.3f  Score: %.3f\n", result.Answer.Probability, result.Answer.Score)
	}
	cmd.Printf("  Documents: %d  Set up: %.3fs  Answer: %.3fs\n",
		documents, result.IndexBuildSeconds, result.AnswerSeconds)

	if askPassages {
		cmd.Println()
		cmd.Println("Passages:")
		for i, p := range result.Passages {
			cmd.Printf("  [%d] %s (%.3f)\n", i+1, p.Passage.ID, p.Score)
			cmd.Printf("      %s\n", p.Passage.Text)
		}
	}
	return nil
}
