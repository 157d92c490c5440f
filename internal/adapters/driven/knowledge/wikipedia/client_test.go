package wikipedia

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(
		WithEndpoint(server.URL),
		WithRateLimit(1000, 100),
		WithRetries(2, time.Millisecond),
	)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient()
	assert.Equal(t, DefaultEndpoint, c.Endpoint())
	assert.Equal(t, DefaultUserAgent, c.userAgent)
	assert.Equal(t, MaxRetries, c.maxRetries)
}

func TestSearch_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "query", q.Get("action"))
		assert.Equal(t, "search", q.Get("list"))
		assert.Equal(t, "Example Novel", q.Get("srsearch"))
		assert.Equal(t, "50", q.Get("srlimit"))
		assert.Equal(t, "2", q.Get("formatversion"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))

		_, _ = w.Write([]byte(`{"query":{"search":[
			{"ns":0,"title":"Example Novel"},
			{"ns":0,"title":"Example Novel (film)"},
			{"ns":0,"title":"Jane Doe"}]}}`))
	})

	titles, err := c.Search(context.Background(), "Example Novel", 50)

	require.NoError(t, err)
	assert.Equal(t, []string{"Example Novel", "Example Novel (film)", "Jane Doe"}, titles)
}

func TestSearch_LimitClamped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "500", r.URL.Query().Get("srlimit"))
		_, _ = w.Write([]byte(`{"query":{"search":[]}}`))
	})

	titles, err := c.Search(context.Background(), "x", 10000)
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestSearch_InvalidInput(t *testing.T) {
	c := NewClient()

	_, err := c.Search(context.Background(), "  ", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	titles, err := c.Search(context.Background(), "x", 0)
	assert.NoError(t, err)
	assert.Nil(t, titles)
}

func TestSearch_APIErrorObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":"srsearch-text-disabled","info":"disabled"}}`))
	})

	_, err := c.Search(context.Background(), "x", 5)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "srsearch-text-disabled", apiErr.Code)
	assert.Equal(t, "api", apiErr.Reason())
}

func TestPage_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Example Novel", q.Get("titles"))
		assert.Equal(t, "extracts|pageprops|info", q.Get("prop"))
		assert.Equal(t, "1", q.Get("explaintext"))

		_, _ = w.Write([]byte(`{"query":{"pages":[{
			"pageid":1,"title":"Example Novel",
			"extract":"Example Novel is a book by Jane Doe.",
			"fullurl":"https://en.wikipedia.org/wiki/Example_Novel"}]}}`))
	})

	page, err := c.Page(context.Background(), "Example Novel")

	require.NoError(t, err)
	assert.Equal(t, &domain.Page{
		Title:   "Example Novel",
		Content: "Example Novel is a book by Jane Doe.",
		URL:     "https://en.wikipedia.org/wiki/Example_Novel",
	}, page)
}

func TestPage_Failures(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    error
		wantReason string
	}{
		{"missing", `{"query":{"pages":[{"title":"Nope","missing":true}]}}`, ErrPageMissing, "missing"},
		{"no pages", `{"query":{"pages":[]}}`, ErrPageMissing, "missing"},
		{"invalid", `{"query":{"pages":[{"title":"<>","invalid":true}]}}`, ErrInvalidTitle, "invalid"},
		{
			"disambiguation",
			`{"query":{"pages":[{"title":"Mercury","extract":"Mercury may refer to:","pageprops":{"disambiguation":""}}]}}`,
			ErrDisambiguation, "disambiguation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Page(context.Background(), "Title")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var r interface{ Reason() string }
			require.ErrorAs(t, err, &r)
			assert.Equal(t, tt.wantReason, r.Reason())
		})
	}
}

func TestPage_MissingIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"pages":[{"title":"Nope","missing":true}]}}`))
	})

	_, err := c.Page(context.Background(), "Nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPage_EmptyTitle(t *testing.T) {
	_, err := NewClient().Page(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidTitle)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"query":{"search":[{"title":"A"}]}}`))
	})

	titles, err := c.Search(context.Background(), "a", 1)

	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, titles)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Search(context.Background(), "a", 1)

	assert.True(t, IsRetryable(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("blocked"))
	})

	_, err := c.Page(context.Background(), "a")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "blocked", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_TooManyRequestsPausesLimiter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(HeaderRetryAfter, "1")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c.maxRetries = 0

	before := time.Now()
	_, err := c.Search(context.Background(), "a", 1)

	assert.True(t, IsRateLimited(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, time.Second, apiErr.RetryAfter)
	assert.Equal(t, "rate_limited", apiErr.Reason())
	assert.True(t, c.rateLimiter.PausedUntil().After(before))
}

func TestGet_MalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := c.Search(context.Background(), "a", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestGet_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Search(ctx, "a", 1)
	assert.True(t, errors.Is(err, context.Canceled))
}
