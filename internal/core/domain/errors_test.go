package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrFetchSkipped", ErrFetchSkipped},
		{"ErrEmptyCorpus", ErrEmptyCorpus},
		{"ErrInferenceFailure", ErrInferenceFailure},
		{"ErrCatalogIntegrity", ErrCatalogIntegrity},
		{"ErrReaderUnavailable", ErrReaderUnavailable},
		{"ErrStagingReleased", ErrStagingReleased},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrInvalidInput(t *testing.T) {
	assert.Equal(t, "invalid input", ErrInvalidInput.Error())
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", ErrInvalidInput), ErrInvalidInput))
	assert.False(t, errors.Is(ErrInvalidInput, ErrNotFound))
}

func TestFetchSkip(t *testing.T) {
	cause := errors.New("timeout")
	skip := &FetchSkip{Title: "Moby-Dick (film)", Reason: "network", Err: cause}

	assert.True(t, errors.Is(skip, ErrFetchSkipped))
	assert.True(t, errors.Is(skip, cause))
	assert.Equal(t, `fetch skipped "Moby-Dick (film)": network: timeout`, skip.Error())

	bare := &FetchSkip{Title: "Ahab", Reason: "disambiguation"}
	assert.Equal(t, `fetch skipped "Ahab": disambiguation`, bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestInferenceError(t *testing.T) {
	cause := errors.New("model crashed")
	err := fmt.Errorf("run: %w", &InferenceError{DocumentID: "B1", Question: "Who?", Stage: "read", Err: cause})

	assert.True(t, errors.Is(err, ErrInferenceFailure))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "document B1")

	var inf *InferenceError
	assert.True(t, errors.As(err, &inf))
	assert.Equal(t, "read", inf.Stage)

	adHoc := &InferenceError{Question: "Who?", Stage: "retrieve", Err: cause}
	assert.Equal(t, `inference failure during retrieve for "Who?": model crashed`, adHoc.Error())
}

func TestCatalogIntegrityError(t *testing.T) {
	err := &CatalogIntegrityError{Problems: []string{"a", "b"}}

	assert.True(t, errors.Is(err, ErrCatalogIntegrity))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "catalog integrity: a; b", err.Error())
}
