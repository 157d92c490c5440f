package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
	"github.com/custodia-labs/qabench/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.KnowledgeSource = (*Client)(nil)

const (
	// DefaultEndpoint is the English Wikipedia action API.
	DefaultEndpoint = "https://en.wikipedia.org/w/api.php"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the client as Wikimedia's API etiquette requires.
	DefaultUserAgent = "qabench/1.0 (https://github.com/custodia-labs/qabench)"

	// MaxRetries is the default number of retries for transient errors.
	MaxRetries = 2

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	// MaxSearchLimit is the largest srlimit the API accepts for anonymous clients.
	MaxSearchLimit = 500
)

// Client is a MediaWiki action API client.
type Client struct {
	endpoint    string
	userAgent   string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	maxRetries  int
	retryDelay  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets the api.php URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit sets the request rate and burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.rateLimiter = NewRateLimiter(rps, burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRetries sets how often transient failures are retried and the initial delay.
func WithRetries(n int, delay time.Duration) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
		if delay >= 0 {
			c.retryDelay = delay
		}
	}
}

// NewClient creates a new MediaWiki client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint:    DefaultEndpoint,
		userAgent:   DefaultUserAgent,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		rateLimiter: NewRateLimiter(DefaultRate, DefaultBurst),
		maxRetries:  MaxRetries,
		retryDelay:  RetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the API URL the client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// searchResponse is the list=search result in formatversion=2.
type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
	Error *apiErrorBody `json:"error"`
}

// pageResponse is the prop=extracts|pageprops|info result in formatversion=2.
type pageResponse struct {
	Query struct {
		Pages []struct {
			Title     string            `json:"title"`
			Missing   bool              `json:"missing"`
			Invalid   bool              `json:"invalid"`
			Extract   string            `json:"extract"`
			FullURL   string            `json:"fullurl"`
			PageProps map[string]string `json:"pageprops"`
		} `json:"pages"`
	} `json:"query"`
	Error *apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// Search returns up to limit page titles matching query, in API ranking order.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search: %w: empty query", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		return nil, nil
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {strconv.Itoa(limit)},
		"srprop":   {""},
	}

	var resp searchResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, &APIError{StatusCode: http.StatusOK, Code: resp.Error.Code, Message: resp.Error.Info}
	}

	titles := make([]string, 0, len(resp.Query.Search))
	for _, hit := range resp.Query.Search {
		titles = append(titles, hit.Title)
	}
	logger.Debug("Wikipedia search %q returned %d titles", query, len(titles))
	return titles, nil
}

// Page fetches the plain-text extract of the page with exactly this title.
func (c *Client) Page(ctx context.Context, title string) (*domain.Page, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: empty title", ErrInvalidTitle)
	}

	params := url.Values{
		"action":      {"query"},
		"prop":        {"extracts|pageprops|info"},
		"titles":      {title},
		"explaintext": {"1"},
		"redirects":   {"1"},
		"ppprop":      {"disambiguation"},
		"inprop":      {"url"},
	}

	var resp pageResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, &APIError{StatusCode: http.StatusOK, Code: resp.Error.Code, Message: resp.Error.Info}
	}
	if len(resp.Query.Pages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPageMissing, title)
	}

	p := resp.Query.Pages[0]
	switch {
	case p.Invalid:
		return nil, fmt.Errorf("%w: %s", ErrInvalidTitle, title)
	case p.Missing:
		return nil, fmt.Errorf("%w: %s", ErrPageMissing, title)
	}
	if _, ok := p.PageProps["disambiguation"]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDisambiguation, title)
	}

	return &domain.Page{Title: p.Title, Content: p.Extract, URL: p.FullURL}, nil
}

// get performs a GET with retries and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("format", "json")
	params.Set("formatversion", "2")
	reqURL := c.endpoint + "?" + params.Encode()

	delay := c.retryDelay
	for attempt := 0; ; attempt++ {
		err := c.do(ctx, reqURL, out)
		if err == nil || !IsRetryable(err) || attempt >= c.maxRetries {
			return err
		}

		logger.Debug("Wikipedia request failed (attempt %d): %v", attempt+1, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// do sends one request.
func (c *Client) do(ctx context.Context, reqURL string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			URL:        reqURL,
			RetryAfter: retryAfter(resp, time.Now()),
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			c.rateLimiter.Pause(apiErr.RetryAfter)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
