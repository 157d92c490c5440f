package results

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure Multi implements the interface.
var _ driven.ResultWriter = (*Multi)(nil)

// Multi writes results with every wrapped writer in order.
type Multi struct {
	writers []driven.ResultWriter
}

// NewMulti creates a fan-out writer.
func NewMulti(writers ...driven.ResultWriter) *Multi {
	return &Multi{writers: writers}
}

// Format returns the joined formats of the wrapped writers.
func (m *Multi) Format() string {
	names := make([]string, len(m.writers))
	for i, w := range m.writers {
		names[i] = w.Format()
	}
	return strings.Join(names, "+")
}

// Write stops at the first failing writer.
func (m *Multi) Write(ctx context.Context, dir string, results *domain.RunResults) error {
	for _, w := range m.writers {
		if err := w.Write(ctx, dir, results); err != nil {
			return fmt.Errorf("%s: %w", w.Format(), err)
		}
	}
	return nil
}
