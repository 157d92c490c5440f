package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

func TestFetchCmd_RequiresTitle(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "fetch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestFetchCmd_ListsReport(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "fetch", "Example Novel")

	require.NoError(t, err)
	assert.Equal(t, "Example Novel", env.corpus.title)
	assert.True(t, env.opts.WithoutReader)
	assert.Contains(t, out, `Corpus for "Example Novel": 1 documents from 3 candidates`)
	assert.Contains(t, out, "[1] Example Novel")
	assert.Contains(t, out, "List of Example Novel characters")
	assert.Contains(t, out, "Example Novel (film) (timeout)")
	assert.True(t, env.closed)
}

func TestFetchCmd_EmptyCorpus(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	env.corpus.report = &domain.FetchReport{Title: "Unknown Book"}

	out, err := execute(t, "fetch", "Unknown Book")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents found.")
}

func TestFetchCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "fetch", "--json", "Example Novel")
	require.NoError(t, err)

	var decoded fetchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Example Novel", decoded.Title)
	assert.Equal(t, 3, decoded.Candidates)
	require.Len(t, decoded.Documents, 1)
	assert.Equal(t, 31, decoded.Documents[0].Chars)
	assert.Equal(t, []skippedDocument{{Title: "Example Novel (film)", Reason: "timeout"}}, decoded.Skipped)
}

func TestFetchCmd_Error(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	env.corpus.err = errors.New("staging failed")

	_, err := execute(t, "fetch", "Example Novel")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch failed")
}
