package paragraphs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

func TestName(t *testing.T) {
	assert.Equal(t, "paragraphs", New().Name())
}

func TestProcess_NilUnit(t *testing.T) {
	_, err := New().Process(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProcess_SplitsOnBlankLines(t *testing.T) {
	unit := &domain.TextUnit{
		Sequence: 3,
		RawText:  "First paragraph.\n\n  \n\nSecond paragraph.\n \nThird.",
	}

	passages, err := New().Process(context.Background(), unit, nil)
	require.NoError(t, err)
	require.Len(t, passages, 3)

	assert.Equal(t, domain.Passage{ID: "3-0", Sequence: 3, Position: 0, Text: "First paragraph."}, passages[0])
	assert.Equal(t, "3-1", passages[1].ID)
	assert.Equal(t, "Second paragraph.", passages[1].Text)
	assert.Equal(t, "Third.", passages[2].Text)
}

func TestProcess_EmptyText(t *testing.T) {
	passages, err := New().Process(context.Background(), &domain.TextUnit{Sequence: 1, RawText: "\n\n"}, nil)
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestProcess_Deterministic(t *testing.T) {
	unit := &domain.TextUnit{Sequence: 2, RawText: "A b c.\n\nD e f."}

	first, err := New().Process(context.Background(), unit, nil)
	require.NoError(t, err)
	second, err := New().Process(context.Background(), unit, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWithMaxChars(t *testing.T) {
	unit := &domain.TextUnit{
		Sequence: 1,
		RawText:  "One two three. Four five six. Seven eight nine.\n\nShort.",
	}

	passages, err := New(WithMaxChars(30)).Process(context.Background(), unit, nil)
	require.NoError(t, err)

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
		assert.Equal(t, i, p.Position)
	}
	assert.Equal(t, []string{"One two three. Four five six.", "Seven eight nine.", "Short."}, texts)
}

func TestSentences(t *testing.T) {
	assert.Equal(t, []string{"Hi there!", "Is it?", "Yes."}, sentences("Hi there! Is it? Yes."))
	assert.Equal(t, []string{"No terminator"}, sentences("No terminator"))
	assert.Equal(t, []string{"v1.2 is out."}, sentences("v1.2 is out."))
}
