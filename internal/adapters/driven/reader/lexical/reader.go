// Package lexical implements an offline reader that picks the passage
// sentence sharing the most informative terms with the question and narrows
// it to a span matching the question type.
package lexical

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/qabench/internal/adapters/driven/retriever/tfidf"
	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.Reader = (*Reader)(nil)

// ModelName is the name results are filed under.
const ModelName = "lexical-overlap"

// questionWords carry no content and never count as overlap.
var questionWords = map[string]bool{
	"who": true, "whom": true, "whose": true, "what": true, "when": true, "where": true,
	"which": true, "why": true, "how": true, "is": true, "was": true, "are": true, "were": true,
	"the": true, "of": true, "did": true, "does": true, "do": true, "in": true, "an": true,
	"to": true, "and": true, "many": true, "much": true, "year": true, "by": true, "on": true,
	"for": true, "it": true, "its": true, "this": true, "that": true, "name": true,
}

// Reader is a deterministic, dependency-free reader.
type Reader struct {
	model string
}

// New creates a lexical reader. An empty model name uses ModelName.
func New(model string) *Reader {
	if model == "" {
		model = ModelName
	}
	return &Reader{model: model}
}

// ModelName returns the model label.
func (r *Reader) ModelName() string {
	return r.model
}

// Close releases resources.
func (r *Reader) Close() error {
	return nil
}

type candidate struct {
	answer  string
	context string
	score   float64
}

// Read scores every sentence of the passages and returns up to topK spans.
func (r *Reader) Read(ctx context.Context, question string, passages []domain.ScoredPassage, topK int) ([]domain.AnswerResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 || len(passages) == 0 {
		return nil, nil
	}

	terms := contentTerms(question)
	if len(terms) == 0 {
		return nil, nil
	}
	idf := sentenceIDF(passages)

	var maxScore float64
	for term := range terms {
		maxScore += idf.weight(term)
	}

	kind := classify(question)
	var candidates []candidate
	for _, p := range passages {
		for _, sentence := range splitSentences(p.Passage.Text) {
			var score float64
			for term := range tfidf.TermCounts(tfidf.Tokenize(sentence)) {
				if terms[term] {
					score += idf.weight(term)
				}
			}
			if score == 0 {
				continue
			}
			answer, typed := extractSpan(kind, sentence, terms)
			if !typed {
				// A whole sentence is a weak answer to a typed question.
				score /= 2
			}
			candidates = append(candidates, candidate{
				answer: answer, context: p.Passage.Text, score: score,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	results := make([]domain.AnswerResult, 0, topK)
	seen := make(map[string]bool)
	for _, c := range candidates {
		if len(results) == topK {
			break
		}
		key := strings.ToLower(c.answer)
		if seen[key] {
			continue
		}
		seen[key] = true
		results = append(results, domain.AnswerResult{
			Text:        c.answer,
			Probability: math.Min(1, c.score/maxScore),
			Score:       c.score,
			Context:     c.context,
		})
	}
	return results, nil
}

// contentTerms returns the question tokens that are not question words.
func contentTerms(question string) map[string]bool {
	terms := make(map[string]bool)
	for _, t := range tfidf.Tokenize(question) {
		if !questionWords[t] {
			terms[t] = true
		}
	}
	return terms
}

// idfTable weighs terms by rarity across the candidate sentences.
type idfTable struct {
	df map[string]int
	n  int
}

func sentenceIDF(passages []domain.ScoredPassage) idfTable {
	t := idfTable{df: make(map[string]int)}
	for _, p := range passages {
		for _, s := range splitSentences(p.Passage.Text) {
			t.n++
			for term := range tfidf.TermCounts(tfidf.Tokenize(s)) {
				t.df[term]++
			}
		}
	}
	return t
}

func (t idfTable) weight(term string) float64 {
	return math.Log(float64(1+t.n)/float64(1+t.df[term])) + 1
}

// questionKind drives span narrowing.
type questionKind int

const (
	kindOther questionKind = iota
	kindPerson
	kindTime
	kindCount
)

func classify(question string) questionKind {
	q := strings.ToLower(strings.TrimSpace(question))
	switch {
	case strings.HasPrefix(q, "who") || strings.HasPrefix(q, "whom"):
		return kindPerson
	case strings.HasPrefix(q, "when") || strings.HasPrefix(q, "what year") || strings.HasPrefix(q, "in what year") ||
		strings.HasPrefix(q, "in which year"):
		return kindTime
	case strings.HasPrefix(q, "how many") || strings.HasPrefix(q, "how much"):
		return kindCount
	default:
		return kindOther
	}
}

var (
	sentenceEnd = regexp.MustCompile(`([.!?])\s+`)
	properNoun  = regexp.MustCompile(`\p{Lu}[\p{L}'\-.]*(?:\s+(?:(?:de|van|von|of|the)\s+)?\p{Lu}[\p{L}'\-.]*)*`)
	yearOrDate  = regexp.MustCompile(`(?:(?:\d{1,2}\s+)?(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+(?:\d{1,2},\s+)?)?\b\d{3,4}\b`)
	number      = regexp.MustCompile(`\b\d[\d,]*(?:\.\d+)?\b|\b(?:one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|hundred|thousand|million)\b`)
)

// splitSentences splits text after sentence punctuation followed by space.
func splitSentences(text string) []string {
	marked := sentenceEnd.ReplaceAllString(strings.TrimSpace(text), "$1\n")
	var out []string
	for _, s := range strings.Split(marked, "\n") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// extractSpan narrows a sentence to the span the question asks for.
// It falls back to the whole sentence, reporting typed=false, when the
// question expects a typed span and none is found.
func extractSpan(kind questionKind, sentence string, terms map[string]bool) (span string, typed bool) {
	var matches []string
	switch kind {
	case kindPerson:
		matches = properNoun.FindAllString(sentence, -1)
	case kindTime:
		matches = yearOrDate.FindAllString(sentence, -1)
	case kindCount:
		matches = number.FindAllString(sentence, -1)
	default:
		return sentence, true
	}

	for _, m := range matches {
		m = strings.Trim(m, " .,")
		if m == "" || coveredByQuestion(m, terms) {
			continue
		}
		return m, true
	}
	return sentence, false
}

// coveredByQuestion reports whether every token of span already appears in the question.
func coveredByQuestion(span string, terms map[string]bool) bool {
	tokens := tfidf.Tokenize(span)
	if len(tokens) == 0 {
		return true
	}
	for _, t := range tokens {
		if !terms[t] && !questionWords[t] {
			return false
		}
	}
	return true
}
