package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

var fetchJSON bool

var fetchCmd = &cobra.Command{
	Use:   "fetch [title]",
	Short: "Fetch and list the corpus of a book",
	Long: `Search the knowledge source for a book title and fetch every candidate
page the way a benchmark run does, then list the documents that would be
indexed together with the excluded and skipped candidates.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(fetchCmd)
}

// fetchOutput is the JSON form of a fetch report.
type fetchOutput struct {
	Title      string            `json:"title"`
	Candidates int               `json:"candidates"`
	Documents  []fetchedDocument `json:"documents"`
	Excluded   []string          `json:"excluded"`
	Skipped    []skippedDocument `json:"skipped"`
}

type fetchedDocument struct {
	Sequence int    `json:"sequence"`
	Title    string `json:"title"`
	Chars    int    `json:"chars"`
}

type skippedDocument struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	services, _, err := build(nil, BuildOptions{WithoutReader: true})
	if err != nil {
		return err
	}
	defer services.Close()

	if services.Corpus == nil {
		return errors.New("corpus service not configured")
	}

	report, err := services.Corpus.Collect(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	if fetchJSON {
		return outputFetchJSON(cmd, report)
	}
	outputFetchTable(cmd, report)
	return nil
}

func outputFetchJSON(cmd *cobra.Command, report *domain.FetchReport) error {
	out := fetchOutput{
		Title:      report.Title,
		Candidates: report.Candidates,
		Documents:  make([]fetchedDocument, len(report.Units)),
		Excluded:   report.Excluded,
		Skipped:    make([]skippedDocument, len(report.Skips)),
	}
	for i, u := range report.Units {
		out.Documents[i] = fetchedDocument{Sequence: u.Sequence, Title: u.Title, Chars: len([]rune(u.RawText))}
	}
	for i, s := range report.Skips {
		out.Skipped[i] = skippedDocument{Title: s.Title, Reason: s.Reason}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputFetchTable(cmd *cobra.Command, report *domain.FetchReport) {
	cmd.Printf("Corpus for %q: %d documents from %d candidates\n",
		report.Title, report.Count(), report.Candidates)
	if report.Count() == 0 {
		cmd.Println("No documents found.")
	}
	for _, u := range report.Units {
		cmd.Printf("  [%d] %s (%d chars)\n", u.Sequence, u.Title, len([]rune(u.RawText)))
	}
	if len(report.Excluded) > 0 {
		cmd.Println()
		cmd.Println("Excluded:")
		for _, title := range report.Excluded {
			cmd.Printf("  %s\n", title)
		}
	}
	if len(report.Skips) > 0 {
		cmd.Println()
		cmd.Println("Skipped:")
		for _, s := range report.Skips {
			cmd.Printf("  %s (%s)\n", s.Title, s.Reason)
		}
	}
}
