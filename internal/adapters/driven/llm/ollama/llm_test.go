package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.NoError(t, svc.Close())
}

func TestChat_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "json", req.Format)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"{\"answer\":\"1998\"}"},"done":true}`))
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL, Model: "mistral"})

	out, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "When?"}}, driven.ChatOptions{JSON: true})

	require.NoError(t, err)
	assert.Equal(t, `{"answer":"1998"}`, out)
}

func TestChat_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"model missing", http.StatusNotFound, `{"error":"model not found"}`, "status 404"},
		{"error field", http.StatusOK, `{"error":"out of memory"}`, "ollama error: out of memory"},
		{"bad json", http.StatusOK, `nope`, "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewLLMService(Config{BaseURL: server.URL}).Chat(context.Background(), nil, driven.ChatOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	assert.NoError(t, NewLLMService(Config{BaseURL: server.URL}).Ping(context.Background()))

	server.Close()
	assert.Error(t, NewLLMService(Config{BaseURL: server.URL}).Ping(context.Background()))
}
