// Package paragraphs provides the processor that splits cleaned text into
// paragraph passages.
package paragraphs

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Processor splits unit text on blank lines.
type Processor struct {
	maxChars int
}

// Option configures the paragraph processor.
type Option func(*Processor)

// WithMaxChars splits paragraphs longer than size characters at sentence
// boundaries. A single sentence longer than size is kept whole.
func WithMaxChars(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.maxChars = size
		}
	}
}

// New creates a new paragraph processor.
func New(opts ...Option) *Processor {
	p := &Processor{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "paragraphs"
}

var blankLines = regexp.MustCompile(`\n\s*\n`)

// Process creates passages from the unit's cleaned text.
// Input passages are ignored.
func (p *Processor) Process(_ context.Context, unit *domain.TextUnit, _ []domain.Passage) ([]domain.Passage, error) {
	if unit == nil {
		return nil, domain.ErrInvalidInput
	}

	var passages []domain.Passage
	for _, para := range blankLines.Split(unit.RawText, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for _, text := range p.bound(para) {
			passages = append(passages, domain.Passage{
				ID:       domain.PassageID(unit.Sequence, len(passages)),
				Sequence: unit.Sequence,
				Position: len(passages),
				Text:     text,
			})
		}
	}
	return passages, nil
}

// bound packs the sentences of para into pieces of at most maxChars.
func (p *Processor) bound(para string) []string {
	if p.maxChars == 0 || len(para) <= p.maxChars {
		return []string{para}
	}

	var pieces []string
	var current strings.Builder
	for _, sentence := range sentences(para) {
		if current.Len() > 0 && current.Len()+1+len(sentence) > p.maxChars {
			pieces = append(pieces, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}
	return pieces
}

// sentences splits text after '.', '!' or '?' followed by whitespace.
func sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		switch text[i] {
		case '.', '!', '?':
			if text[i+1] == ' ' || text[i+1] == '\n' {
				if s := strings.TrimSpace(text[start : i+1]); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}
