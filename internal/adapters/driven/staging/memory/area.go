// Package memory implements in-process staging areas.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure Provider and Area implement the interfaces.
var (
	_ driven.StagingProvider = (*Provider)(nil)
	_ driven.StagingArea     = (*Area)(nil)
)

// Provider hands out in-memory staging areas. Areas are not tracked: each
// one is dropped with its last reference.
type Provider struct{}

// NewProvider creates a new in-memory staging provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Acquire returns a new empty area. The key only names the area.
func (p *Provider) Acquire(ctx context.Context, _ string) (driven.StagingArea, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Area{}, nil
}

// Area keeps text units in a slice ordered by sequence.
type Area struct {
	mu       sync.RWMutex
	units    []domain.TextUnit
	released bool
}

// Put appends a unit. Sequences must be contiguous from 1.
func (a *Area) Put(ctx context.Context, unit domain.TextUnit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.released {
		return domain.ErrStagingReleased
	}
	if want := len(a.units) + 1; unit.Sequence != want {
		return fmt.Errorf("%w: sequence %d, expected %d", domain.ErrInvalidInput, unit.Sequence, want)
	}
	a.units = append(a.units, unit)
	return nil
}

// Units returns a copy of the units.
func (a *Area) Units(_ context.Context) ([]domain.TextUnit, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.released {
		return nil, domain.ErrStagingReleased
	}
	out := make([]domain.TextUnit, len(a.units))
	copy(out, a.units)
	return out, nil
}

// Len returns the number of units.
func (a *Area) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.units)
}

// Release drops the units. Safe to call more than once.
func (a *Area) Release() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.released = true
	a.units = nil
	return nil
}
