package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown store kind, reader or output format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrFetchSkipped indicates a knowledge source candidate could not be
	// fetched and was left out of the corpus. Expected and frequent.
	ErrFetchSkipped = errors.New("fetch skipped")

	// ErrEmptyCorpus indicates a book produced no text units.
	// Indexing and answering still succeed against an empty corpus.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrInferenceFailure indicates the retrieval or reading stage failed
	// for a question. It aborts the run.
	ErrInferenceFailure = errors.New("inference failure")

	// ErrCatalogIntegrity indicates the catalog is inconsistent, e.g. a
	// question references a book that does not exist.
	ErrCatalogIntegrity = errors.New("catalog integrity")

	// ErrReaderUnavailable indicates the answer-extraction backend is not configured.
	ErrReaderUnavailable = errors.New("reader unavailable")

	// ErrStagingReleased indicates a staging area was used after release.
	ErrStagingReleased = errors.New("staging area released")
)

// FetchSkip records a candidate that was dropped while assembling a corpus.
// It matches ErrFetchSkipped and unwraps to the underlying cause.
type FetchSkip struct {
	// Title is the candidate title that could not be fetched.
	Title string

	// Reason is a short machine-friendly cause, e.g. "disambiguation".
	Reason string

	// Err is the underlying error.
	Err error
}

func (s *FetchSkip) Error() string {
	if s.Err == nil {
		return fmt.Sprintf("fetch skipped %q: %s", s.Title, s.Reason)
	}
	return fmt.Sprintf("fetch skipped %q: %s: %v", s.Title, s.Reason, s.Err)
}

// Unwrap returns the underlying cause.
func (s *FetchSkip) Unwrap() error {
	return s.Err
}

// Is reports whether target is ErrFetchSkipped.
func (s *FetchSkip) Is(target error) bool {
	return target == ErrFetchSkipped
}

// InferenceError wraps a retrieval or reading failure for a single question.
type InferenceError struct {
	// DocumentID is the book the question belongs to.
	DocumentID string

	// Question is the question text.
	Question string

	// Stage is "retrieve" or "read".
	Stage string

	// Err is the underlying error.
	Err error
}

func (e *InferenceError) Error() string {
	if e.DocumentID == "" {
		return fmt.Sprintf("inference failure during %s for %q: %v", e.Stage, e.Question, e.Err)
	}
	return fmt.Sprintf("inference failure during %s for document %s question %q: %v",
		e.Stage, e.DocumentID, e.Question, e.Err)
}

// Unwrap returns the underlying cause.
func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInferenceFailure.
func (e *InferenceError) Is(target error) bool {
	return target == ErrInferenceFailure
}

// CatalogIntegrityError lists every integrity violation found in a catalog.
type CatalogIntegrityError struct {
	// Problems describes each violation.
	Problems []string
}

func (e *CatalogIntegrityError) Error() string {
	return "catalog integrity: " + strings.Join(e.Problems, "; ")
}

// Is reports whether target is ErrCatalogIntegrity.
func (e *CatalogIntegrityError) Is(target error) bool {
	return target == ErrCatalogIntegrity
}
