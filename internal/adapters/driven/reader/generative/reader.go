// Package generative implements a reader that prompts a chat model to answer
// from the retrieved passages and report its confidence.
package generative

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.Reader = (*Reader)(nil)

const (
	// DefaultMaxTokens bounds the reply length.
	DefaultMaxTokens = 256

	systemPrompt = `You answer questions about books using only the numbered passages provided.
Reply with a single JSON object: {"answer": string, "probability": number, "passage": number}.
"answer" is the shortest span from a passage that answers the question, copied verbatim.
"probability" is your confidence between 0 and 1.
"passage" is the number of the passage the answer comes from.
If the passages do not contain the answer, reply {"answer": "", "probability": 0, "passage": 0}.`
)

// Reader wraps an LLMService.
type Reader struct {
	llm       driven.LLMService
	maxTokens int
}

// reply is the JSON object the model is asked to produce.
type reply struct {
	Answer      string  `json:"answer"`
	Probability float64 `json:"probability"`
	Passage     int     `json:"passage"`
}

// New creates a generative reader around llm.
func New(llm driven.LLMService) *Reader {
	return &Reader{llm: llm, maxTokens: DefaultMaxTokens}
}

// ModelName returns the chat model name.
func (r *Reader) ModelName() string {
	return r.llm.ModelName()
}

// Close closes the underlying LLM service.
func (r *Reader) Close() error {
	return r.llm.Close()
}

// Read asks the model once over all passages. It yields at most one candidate
// regardless of topK.
func (r *Reader) Read(ctx context.Context, question string, passages []domain.ScoredPassage, topK int) ([]domain.AnswerResult, error) {
	if topK <= 0 || len(passages) == 0 {
		return nil, nil
	}

	content, err := r.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: BuildPrompt(question, passages)},
	}, driven.ChatOptions{MaxTokens: r.maxTokens, Temperature: 0, JSON: true})
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}

	rep, err := parseReply(content)
	if err != nil {
		return nil, err
	}

	answer := strings.TrimSpace(rep.Answer)
	if answer == "" {
		return nil, nil
	}

	probability := math.Min(math.Max(rep.Probability, 0), 1)
	return []domain.AnswerResult{{
		Text:        answer,
		Probability: probability,
		Score:       probability,
		Context:     answerContext(answer, rep.Passage, passages),
	}}, nil
}

// BuildPrompt formats the question and numbered passages for the model.
func BuildPrompt(question string, passages []domain.ScoredPassage) string {
	var b strings.Builder
	for i, p := range passages {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, strings.TrimSpace(p.Passage.Text))
	}
	fmt.Fprintf(&b, "Question: %s", strings.TrimSpace(question))
	return b.String()
}

// parseReply decodes the model reply, tolerating code fences and prose
// around the JSON object.
func parseReply(content string) (reply, error) {
	var rep reply
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return rep, fmt.Errorf("decode reply: no JSON object in %q", truncate(content, 80))
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &rep); err != nil {
		return rep, fmt.Errorf("decode reply: %w", err)
	}
	return rep, nil
}

// answerContext picks the cited passage, falling back to the first passage
// containing the answer.
func answerContext(answer string, cited int, passages []domain.ScoredPassage) string {
	if cited >= 1 && cited <= len(passages) {
		return passages[cited-1].Passage.Text
	}
	lower := strings.ToLower(answer)
	for _, p := range passages {
		if strings.Contains(strings.ToLower(p.Passage.Text), lower) {
			return p.Passage.Text
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Ping checks the chat model is reachable.
func (r *Reader) Ping(ctx context.Context) error {
	return r.llm.Ping(ctx)
}
