package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// --- Mock implementations ---

// reasonError mimics an adapter error that classifies itself.
type reasonError struct {
	reason string
}

func (e *reasonError) Error() string  { return "page " + e.reason }
func (e *reasonError) Reason() string { return e.reason }

// mockKnowledgeSource implements driven.KnowledgeSource for testing.
type mockKnowledgeSource struct {
	mu        sync.Mutex
	results   []string
	byQuery   map[string][]string
	pages     map[string]string
	pageErrs  map[string]error
	searchErr error
	searched  []string
	limits    []int
	fetched   []string
}

func (m *mockKnowledgeSource) Search(_ context.Context, query string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searched = append(m.searched, query)
	m.limits = append(m.limits, limit)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	results := m.results
	if r, ok := m.byQuery[query]; ok {
		results = r
	}
	if limit < len(results) {
		return results[:limit], nil
	}
	return results, nil
}

func (m *mockKnowledgeSource) Page(_ context.Context, title string) (*domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetched = append(m.fetched, title)
	if err, ok := m.pageErrs[title]; ok {
		return nil, err
	}
	content, ok := m.pages[title]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Page{Title: title, Content: content}, nil
}

// mockRetriever implements driven.Retriever for testing.
type mockRetriever struct {
	passages    []domain.Passage
	results     []domain.ScoredPassage
	retrieveErr error
	queries     []string
	ks          []int
	closed      bool
}

func (m *mockRetriever) Index(_ context.Context, passages []domain.Passage) error {
	m.passages = passages
	return nil
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, k int) ([]domain.ScoredPassage, error) {
	m.queries = append(m.queries, query)
	m.ks = append(m.ks, k)
	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}
	if k < len(m.results) {
		return m.results[:k], nil
	}
	return m.results, nil
}

func (m *mockRetriever) Passages() []domain.Passage { return m.passages }

func (m *mockRetriever) Close() error {
	m.closed = true
	return nil
}

// mockReader implements driven.Reader for testing.
type mockReader struct {
	candidates []domain.AnswerResult
	byQuestion map[string][]domain.AnswerResult
	err        error
	failOn     string
	calls      int
	lastK      int
	lastInput  []domain.ScoredPassage
}

func (m *mockReader) Read(_ context.Context, question string, passages []domain.ScoredPassage, topK int) ([]domain.AnswerResult, error) {
	m.calls++
	m.lastK = topK
	m.lastInput = passages
	if m.err != nil {
		return nil, m.err
	}
	if m.failOn != "" && m.failOn == question {
		return nil, errors.New("model crashed")
	}
	if c, ok := m.byQuestion[question]; ok {
		return c, nil
	}
	return m.candidates, nil
}

func (m *mockReader) ModelName() string { return "mock-reader" }
func (m *mockReader) Close() error      { return nil }

// Ensure mocks implement the interfaces.
var (
	_ driven.KnowledgeSource = (*mockKnowledgeSource)(nil)
	_ driven.Retriever       = (*mockRetriever)(nil)
	_ driven.Reader          = (*mockReader)(nil)
)

func scored(texts ...string) []domain.ScoredPassage {
	out := make([]domain.ScoredPassage, len(texts))
	for i, text := range texts {
		out[i] = domain.ScoredPassage{
			Passage: domain.Passage{ID: domain.PassageID(1, i), Sequence: 1, Position: i, Text: text},
			Score:   float64(len(texts) - i),
		}
	}
	return out
}
