package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

func TestArea_PutAndUnits(t *testing.T) {
	ctx := context.Background()
	area, err := NewProvider().Acquire(ctx, "1")
	require.NoError(t, err)

	require.NoError(t, area.Put(ctx, domain.TextUnit{Sequence: 1, Title: "A", RawText: "a"}))
	require.NoError(t, area.Put(ctx, domain.TextUnit{Sequence: 2, Title: "B", RawText: "b"}))

	units, err := area.Units(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.TextUnit{
		{Sequence: 1, Title: "A", RawText: "a"},
		{Sequence: 2, Title: "B", RawText: "b"},
	}, units)
	assert.Equal(t, 2, area.Len())
}

func TestArea_RejectsGaps(t *testing.T) {
	ctx := context.Background()
	area, err := NewProvider().Acquire(ctx, "1")
	require.NoError(t, err)

	err = area.Put(ctx, domain.TextUnit{Sequence: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, area.Len())
}

func TestArea_Release(t *testing.T) {
	ctx := context.Background()
	area, err := NewProvider().Acquire(ctx, "1")
	require.NoError(t, err)
	require.NoError(t, area.Put(ctx, domain.TextUnit{Sequence: 1}))

	require.NoError(t, area.Release())
	require.NoError(t, area.Release())

	assert.Equal(t, 0, area.Len())
	assert.ErrorIs(t, area.Put(ctx, domain.TextUnit{Sequence: 1}), domain.ErrStagingReleased)
	_, err = area.Units(ctx)
	assert.ErrorIs(t, err, domain.ErrStagingReleased)
}

func TestProvider_ReacquireIsIndependent(t *testing.T) {
	ctx := context.Background()
	p := NewProvider()

	first, err := p.Acquire(ctx, "book")
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, domain.TextUnit{Sequence: 1, Title: "A"}))

	second, err := p.Acquire(ctx, "book")
	require.NoError(t, err)

	assert.Equal(t, 0, second.Len())
	require.NoError(t, second.Put(ctx, domain.TextUnit{Sequence: 1, Title: "B"}))
	require.NoError(t, first.Put(ctx, domain.TextUnit{Sequence: 2, Title: "A2"}))
	assert.Equal(t, 2, first.Len())
	assert.Equal(t, 1, second.Len())
}

func TestProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Acquire(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
