// Package tfidf implements the in-memory passage index with TF-IDF weighting
// and cosine similarity ranking.
package tfidf

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure types implement the interfaces.
var (
	_ driven.Retriever        = (*Retriever)(nil)
	_ driven.RetrieverFactory = (*Factory)(nil)
)

// Factory creates TF-IDF retrievers.
type Factory struct{}

// NewFactory creates a new TF-IDF retriever factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Kind returns the memory store kind.
func (f *Factory) Kind() domain.StoreKind {
	return domain.StoreKindMemory
}

// New creates an empty retriever.
func (f *Factory) New(ctx context.Context) (driven.Retriever, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return New(), nil
}

// Retriever ranks passages by the cosine similarity of smoothed TF-IDF
// vectors, idf(t) = ln((1+n)/(1+df(t))) + 1.
type Retriever struct {
	mu       sync.RWMutex
	passages []domain.Passage
	vectors  []vector
	idf      map[string]float64
}

// New creates an empty TF-IDF retriever.
func New() *Retriever {
	return &Retriever{idf: make(map[string]float64)}
}

// Index replaces the indexed passages.
func (r *Retriever) Index(ctx context.Context, passages []domain.Passage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	counts := make([]map[string]int, len(passages))
	df := make(map[string]int)
	for i, p := range passages {
		counts[i] = TermCounts(Tokenize(p.Text))
		for term := range counts[i] {
			df[term]++
		}
	}

	n := float64(len(passages))
	idf := make(map[string]float64, len(df))
	for term, d := range df {
		idf[term] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vectors := make([]vector, len(passages))
	for i, c := range counts {
		vectors[i] = weigh(c, idf)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.passages = append([]domain.Passage(nil), passages...)
	r.vectors = vectors
	r.idf = idf
	return nil
}

// Retrieve returns the k best passages for query. Every passage is a
// candidate, so fewer than k results are returned only for small corpora.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.ScoredPassage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.passages) == 0 {
		return nil, nil
	}

	q := weigh(TermCounts(Tokenize(query)), r.idf)
	scored := make([]domain.ScoredPassage, len(r.passages))
	for i, p := range r.passages {
		scored[i] = domain.ScoredPassage{Passage: p, Score: dot(q, r.vectors[i])}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// Passages returns the indexed passages in index order.
func (r *Retriever) Passages() []domain.Passage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Passage(nil), r.passages...)
}

// Close drops the index.
func (r *Retriever) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passages = nil
	r.vectors = nil
	r.idf = make(map[string]float64)
	return nil
}

// vector is a sparse tf-idf vector sorted by term, so sums are
// accumulated in a fixed order and scores are reproducible.
type vector []termWeight

type termWeight struct {
	term   string
	weight float64
}

// weigh builds an L2-normalised tf-idf vector. Terms unknown to idf are dropped.
func weigh(counts map[string]int, idf map[string]float64) vector {
	vec := make(vector, 0, len(counts))
	for term, c := range counts {
		if w, ok := idf[term]; ok {
			vec = append(vec, termWeight{term: term, weight: float64(c) * w})
		}
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].term < vec[j].term })

	var norm float64
	for _, tw := range vec {
		norm += tw.weight * tw.weight
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i].weight /= norm
	}
	return vec
}

// dot merges two sorted vectors.
func dot(a, b vector) float64 {
	var sum float64
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i].term == b[j].term:
			sum += a[i].weight * b[j].weight
			i++
			j++
		case a[i].term < b[j].term:
			i++
		default:
			j++
		}
	}
	return sum
}
