package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxPassageChars bounds the passage text returned to the client.
const maxPassageChars = 500

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Title    string `json:"title" jsonschema:"the book title the corpus is assembled for"`
	Question string `json:"question" jsonschema:"the question to answer"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer            string          `json:"answer"`
	Probability       float64         `json:"probability"`
	Score             float64         `json:"score"`
	Context           string          `json:"context,omitempty"`
	Documents         int             `json:"documents"`
	Passages          []PassageOutput `json:"passages,omitempty"`
	IndexBuildSeconds float64         `json:"index_build_seconds"`
	AnswerSeconds     float64         `json:"answer_seconds"`
}

// PassageOutput is a retrieved passage.
type PassageOutput struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// CorpusInput is the input schema for the corpus tool.
type CorpusInput struct {
	Title string `json:"title" jsonschema:"the book title to assemble a corpus for"`
}

// CorpusOutput is the output schema for the corpus tool.
type CorpusOutput struct {
	Candidates int      `json:"candidates"`
	Documents  []string `json:"documents"`
	Excluded   []string `json:"excluded,omitempty"`
	Skipped    []string `json:"skipped,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question about a book from its encyclopedia corpus",
	}, s.handleAsk)

	if s.ports.Corpus != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "corpus",
			Description: "List the encyclopedia pages assembled as the corpus of a book",
		}, s.handleCorpus)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, errors.New("title and question are required")
	}

	result, err := s.ports.QA.Ask(ctx, input.Title, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:            result.Answer.Text,
		Probability:       result.Answer.Probability,
		Score:             result.Answer.Score,
		Context:           result.Answer.Context,
		IndexBuildSeconds: result.IndexBuildSeconds,
		AnswerSeconds:     result.AnswerSeconds,
		Passages:          make([]PassageOutput, len(result.Passages)),
	}
	if result.Report != nil {
		output.Documents = result.Report.Count()
	}
	for i, p := range result.Passages {
		output.Passages[i] = PassageOutput{
			ID:    p.Passage.ID,
			Score: p.Score,
			Text:  truncate(p.Passage.Text, maxPassageChars),
		}
	}

	return nil, output, nil
}

// handleCorpus handles the corpus tool invocation.
func (s *Server) handleCorpus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CorpusInput,
) (*mcp.CallToolResult, CorpusOutput, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, CorpusOutput{}, errors.New("title is required")
	}

	report, err := s.ports.Corpus.Collect(ctx, input.Title)
	if err != nil {
		return nil, CorpusOutput{}, err
	}

	output := CorpusOutput{
		Candidates: report.Candidates,
		Documents:  make([]string, len(report.Units)),
		Excluded:   report.Excluded,
	}
	for i, u := range report.Units {
		output.Documents[i] = u.Title
	}
	for _, skip := range report.Skips {
		output.Skipped = append(output.Skipped, skip.Title+" ("+skip.Reason+")")
	}
	return nil, output, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
