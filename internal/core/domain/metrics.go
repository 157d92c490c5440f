package domain

import (
	"fmt"
	"path"
	"strings"
	"sync"
	"time"
)

// BookMetricRecord captures corpus acquisition and indexing for one book.
type BookMetricRecord struct {
	DocumentID string
	Title      string

	// NumDocuments is the number of text units persisted for the book.
	NumDocuments int

	// IndexBuildSeconds covers fetching, cleaning, splitting and indexing.
	IndexBuildSeconds float64
}

// QAMetricRecord captures the answer and latency for one question.
type QAMetricRecord struct {
	DocumentID    string
	QuestionID    int
	Question      string
	Answer        string
	Probability   float64
	Score         float64
	TopKRetriever int

	// AnswerSeconds covers retrieval and reading.
	AnswerSeconds float64
}

// RunResults accumulates metric records in emission order.
// Records are append-only; snapshots are copies.
type RunResults struct {
	mu        sync.RWMutex
	runID     string
	startedAt time.Time
	location  string
	books     []BookMetricRecord
	questions []QAMetricRecord
}

// NewRunResults creates an empty result collection for a run.
func NewRunResults(runID string, startedAt time.Time) *RunResults {
	return &RunResults{runID: runID, startedAt: startedAt}
}

// RunID returns the identifier of the run.
func (r *RunResults) RunID() string {
	return r.runID
}

// StartedAt returns when the run started.
func (r *RunResults) StartedAt() time.Time {
	return r.startedAt
}

// SetLocation records where the results were written.
func (r *RunResults) SetLocation(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.location = dir
}

// Location returns where the results were written, or "" if not persisted.
func (r *RunResults) Location() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.location
}

// AddBook appends a book record.
func (r *RunResults) AddBook(rec BookMetricRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = append(r.books, rec)
}

// AddQuestion appends a question record.
func (r *RunResults) AddQuestion(rec QAMetricRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions = append(r.questions, rec)
}

// Books returns a copy of the book records.
func (r *RunResults) Books() []BookMetricRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]BookMetricRecord, len(r.books))
	copy(out, r.books)
	return out
}

// Questions returns a copy of the question records.
func (r *RunResults) Questions() []QAMetricRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]QAMetricRecord, len(r.questions))
	copy(out, r.questions)
	return out
}

// Summary aggregates a run for display.
type Summary struct {
	Books             int
	Questions         int
	Documents         int
	EmptyBooks        int
	Answered          int
	AvgIndexSeconds   float64
	AvgAnswerSeconds  float64
	AvgProbability    float64
	TotalIndexSeconds float64
}

// Summarise computes aggregate statistics over the records.
func (r *RunResults) Summarise() Summary {
	books := r.Books()
	questions := r.Questions()

	s := Summary{Books: len(books), Questions: len(questions)}
	for _, b := range books {
		s.Documents += b.NumDocuments
		s.TotalIndexSeconds += b.IndexBuildSeconds
		if b.NumDocuments == 0 {
			s.EmptyBooks++
		}
	}
	if len(books) > 0 {
		s.AvgIndexSeconds = s.TotalIndexSeconds / float64(len(books))
	}

	var answerSeconds, probability float64
	for _, q := range questions {
		answerSeconds += q.AnswerSeconds
		probability += q.Probability
		if q.Answer != "" {
			s.Answered++
		}
	}
	if len(questions) > 0 {
		s.AvgAnswerSeconds = answerSeconds / float64(len(questions))
		s.AvgProbability = probability / float64(len(questions))
	}
	return s
}

// RunConfig identifies the configuration a run's results belong to.
type RunConfig struct {
	StoreKind     StoreKind
	ReaderModel   string
	TopKRetriever int
	TopKReader    int
	SearchResults int
}

// PathSegments returns the directory segments results are partitioned under,
// e.g. in-memory-document-store/roberta-base-squad2/top-7-retriever/50-wiki-results.
func (c RunConfig) PathSegments() []string {
	return []string{
		c.StoreKind.DirName(),
		modelSlug(c.ReaderModel),
		fmt.Sprintf("top-%d-retriever", c.TopKRetriever),
		fmt.Sprintf("%d-wiki-results", c.SearchResults),
	}
}

// modelSlug reduces a model reference to a path-safe name.
// Slugs made only of dots and dashes would escape or collapse the output
// directory, so they fall back to a fixed name.
func modelSlug(model string) string {
	model = path.Base(strings.ReplaceAll(strings.TrimSpace(model), "\\", "/"))
	model = strings.ReplaceAll(model, ":", "-")
	model = strings.ReplaceAll(model, " ", "-")
	if strings.Trim(model, ".-/") == "" {
		return "unknown-reader"
	}
	return strings.ToLower(model)
}
