// Package minlength provides a processor that drops passages too short to
// carry an answer, such as captions and list fragments.
package minlength

import (
	"context"
	"unicode/utf8"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultMinChars is the shortest passage kept.
const DefaultMinChars = 30

// Processor filters out short passages.
type Processor struct {
	minChars int
}

// Option configures the filter.
type Option func(*Processor)

// WithMinChars sets the minimum passage length in characters.
func WithMinChars(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.minChars = n
		}
	}
}

// New creates a new short-passage filter.
func New(opts ...Option) *Processor {
	p := &Processor{minChars: DefaultMinChars}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "min_length"
}

// Process keeps passages of at least minChars characters, preserving IDs and order.
func (p *Processor) Process(_ context.Context, _ *domain.TextUnit, passages []domain.Passage) ([]domain.Passage, error) {
	kept := passages[:0:0]
	for _, passage := range passages {
		if utf8.RuneCountInString(passage.Text) >= p.minChars {
			kept = append(kept, passage)
		}
	}
	return kept, nil
}
