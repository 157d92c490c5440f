package generative

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

type fakeLLM struct {
	reply    string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
	closed   bool
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	f.messages = messages
	f.opts = opts
	return f.reply, f.err
}

func (f *fakeLLM) ModelName() string            { return "fake-model" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { f.closed = true; return nil }

func passages(texts ...string) []domain.ScoredPassage {
	out := make([]domain.ScoredPassage, len(texts))
	for i, text := range texts {
		out[i] = domain.ScoredPassage{Passage: domain.Passage{ID: domain.PassageID(1, i), Text: text}}
	}
	return out
}

func TestRead_ParsesReply(t *testing.T) {
	llm := &fakeLLM{reply: `{"answer":"Jane Doe","probability":0.87,"passage":2}`}
	r := New(llm)

	results, err := r.Read(context.Background(), "Who wrote Example Novel?", passages(
		"Example Novel is set in a lighthouse.",
		"Example Novel was written by Jane Doe.",
	), 1)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Jane Doe", results[0].Text)
	assert.InDelta(t, 0.87, results[0].Probability, 1e-9)
	assert.InDelta(t, 0.87, results[0].Score, 1e-9)
	assert.Equal(t, "Example Novel was written by Jane Doe.", results[0].Context)

	require.Len(t, llm.messages, 2)
	assert.Equal(t, "system", llm.messages[0].Role)
	assert.Contains(t, llm.messages[1].Content, "[2] Example Novel was written by Jane Doe.")
	assert.Contains(t, llm.messages[1].Content, "Question: Who wrote Example Novel?")
	assert.True(t, llm.opts.JSON)
	assert.Equal(t, DefaultMaxTokens, llm.opts.MaxTokens)
}

func TestRead_FencedReplyAndContextFallback(t *testing.T) {
	llm := &fakeLLM{reply: "```json\n{\"answer\":\"1998\",\"probability\":1.4}\n```"}

	results, err := New(llm).Read(context.Background(), "When?", passages("No date here.", "Published in 1998."), 1)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1998", results[0].Text)
	assert.Equal(t, 1.0, results[0].Probability)
	assert.Equal(t, "Published in 1998.", results[0].Context)
}

func TestRead_EmptyAnswer(t *testing.T) {
	llm := &fakeLLM{reply: `{"answer":"","probability":0,"passage":0}`}

	results, err := New(llm).Read(context.Background(), "q", passages("a"), 1)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRead_NoPassagesSkipsModel(t *testing.T) {
	llm := &fakeLLM{reply: `{"answer":"x"}`}

	results, err := New(llm).Read(context.Background(), "q", nil, 1)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Nil(t, llm.messages)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		llm  *fakeLLM
		want string
	}{
		{name: "chat failure", llm: &fakeLLM{err: errors.New("boom")}, want: "chat: boom"},
		{name: "not json", llm: &fakeLLM{reply: "I think it is Jane"}, want: "no JSON object"},
		{name: "malformed json", llm: &fakeLLM{reply: `{"answer": }`}, want: "decode reply"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.llm).Read(context.Background(), "q", passages("a"), 1)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestModelNameAndClose(t *testing.T) {
	llm := &fakeLLM{}
	r := New(llm)
	assert.Equal(t, "fake-model", r.ModelName())
	require.NoError(t, r.Close())
	assert.True(t, llm.closed)
}
