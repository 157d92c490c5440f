package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)

	svc, err := NewLLMService(Config{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.NoError(t, svc.Close())
}

func TestChat_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		assert.Len(t, req.Messages, 2)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		assert.Equal(t, 64, req.MaxTokens)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"answer\":\"Jane Doe\"}"}}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "sk-test", BaseURL: server.URL + "/", Model: "gpt-4o"})
	require.NoError(t, err)

	out, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: "system", Content: "Answer from context."},
		{Role: "user", Content: "Who wrote Example Novel?"},
	}, driven.ChatOptions{MaxTokens: 64, JSON: true})

	require.NoError(t, err)
	assert.Equal(t, `{"answer":"Jane Doe"}`, out)
}

func TestChat_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error object", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"auth"}}`, "openai error: bad key"},
		{"non-json status", http.StatusBadGateway, `upstream down`, "status 502"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no response choices"},
		{"bad json", http.StatusOK, `{`, "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc, err := NewLLMService(Config{APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "hi"}}, driven.ChatOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPing(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(int(status.Load()))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	assert.NoError(t, svc.Ping(context.Background()))

	status.Store(http.StatusUnauthorized)
	assert.Error(t, svc.Ping(context.Background()))
}
