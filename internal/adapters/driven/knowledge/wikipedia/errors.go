package wikipedia

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

// pageError is a page-level failure that classifies itself for fetch reports.
type pageError struct {
	reason string
	msg    string
	cause  error
}

func (e *pageError) Error() string  { return e.msg }
func (e *pageError) Reason() string { return e.reason }
func (e *pageError) Unwrap() error  { return e.cause }

// Page errors.
var (
	// ErrPageMissing indicates no page exists under the exact title.
	ErrPageMissing error = &pageError{reason: "missing", msg: "wikipedia: page does not exist", cause: domain.ErrNotFound}

	// ErrDisambiguation indicates the title resolves to a disambiguation page.
	ErrDisambiguation error = &pageError{reason: "disambiguation", msg: "wikipedia: title is a disambiguation page"}

	// ErrInvalidTitle indicates the title contains characters MediaWiki rejects.
	ErrInvalidTitle error = &pageError{reason: "invalid", msg: "wikipedia: invalid title", cause: domain.ErrInvalidInput}
)

// APIError represents a failed MediaWiki API call.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	URL        string

	// RetryAfter is the server-requested pause, if any.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("wikipedia: API error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("wikipedia: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Reason classifies the error for fetch reports.
func (e *APIError) Reason() string {
	if e.StatusCode == http.StatusTooManyRequests {
		return "rate_limited"
	}
	return "api"
}

// IsRetryable reports whether err is a transient API failure.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
}

// IsRateLimited reports whether err is a 429 response.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}
