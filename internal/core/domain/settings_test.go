package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreKind_IsValid(t *testing.T) {
	assert.True(t, StoreKindMemory.IsValid())
	assert.True(t, StoreKindSQLite.IsValid())
	assert.False(t, StoreKind("elastic").IsValid())
	assert.False(t, StoreKind("").IsValid())
}

func TestStoreKind_DirName(t *testing.T) {
	tests := []struct {
		kind StoreKind
		want string
	}{
		{StoreKindMemory, "in-memory-document-store"},
		{StoreKindSQLite, "sqlite-document-store"},
		{StoreKind("custom"), "custom-document-store"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.DirName())
		})
	}
}

func TestStoreKind_Description(t *testing.T) {
	assert.Equal(t, "In-memory (TF-IDF)", StoreKindMemory.Description())
	assert.Equal(t, unknownDescription, StoreKind("x").Description())
}

func TestReaderProvider_IsValid(t *testing.T) {
	for _, p := range []ReaderProvider{
		ReaderProviderLexical, ReaderProviderExtractive, ReaderProviderOpenAI, ReaderProviderOllama,
	} {
		assert.True(t, p.IsValid(), p)
		assert.NotEqual(t, unknownDescription, p.Description(), p)
		assert.NotEmpty(t, DefaultReaderModels()[p], p)
	}
	assert.False(t, ReaderProvider("bert").IsValid())
	assert.Equal(t, unknownDescription, ReaderProvider("bert").Description())
}

func TestReaderProvider_Capabilities(t *testing.T) {
	assert.True(t, ReaderProviderOpenAI.RequiresAPIKey())
	assert.False(t, ReaderProviderOllama.RequiresAPIKey())
	assert.False(t, ReaderProviderLexical.RequiresAPIKey())

	assert.True(t, ReaderProviderOpenAI.IsGenerative())
	assert.True(t, ReaderProviderOllama.IsGenerative())
	assert.False(t, ReaderProviderExtractive.IsGenerative())
}

func TestOutputFormat_IsValid(t *testing.T) {
	assert.True(t, OutputFormatCSV.IsValid())
	assert.True(t, OutputFormatXLSX.IsValid())
	assert.False(t, OutputFormat("parquet").IsValid())
}

func TestReaderSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings ReaderSettings
		want     bool
	}{
		{"lexical", ReaderSettings{Provider: ReaderProviderLexical}, true},
		{"ollama without key", ReaderSettings{Provider: ReaderProviderOllama}, true},
		{"openai without key", ReaderSettings{Provider: ReaderProviderOpenAI}, false},
		{"openai with key", ReaderSettings{Provider: ReaderProviderOpenAI, APIKey: "sk-test"}, true},
		{"invalid provider", ReaderSettings{Provider: "bert"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestDefaultBenchmarkSettings(t *testing.T) {
	s := DefaultBenchmarkSettings()

	assert.Equal(t, ReaderProviderLexical, s.Reader.Provider)
	assert.Equal(t, 1, s.Reader.TopK)
	assert.Equal(t, StoreKindMemory, s.Retriever.Store)
	assert.Equal(t, 7, s.Retriever.TopK)
	assert.Equal(t, 50, s.Knowledge.SearchResults)
	assert.Equal(t, DefaultDenylist(), s.Knowledge.Denylist)
	assert.Equal(t, []OutputFormat{OutputFormatCSV}, s.Output.Formats)
	assert.True(t, s.Reader.IsConfigured())
}

func TestDefaultDenylist_Copies(t *testing.T) {
	list := DefaultDenylist()
	list[0] = "changed"
	assert.Equal(t, "film", DefaultDenylist()[0])
}

func TestBenchmarkSettings_RunConfig(t *testing.T) {
	s := DefaultBenchmarkSettings()
	s.Reader.Model = "deepset/roberta-base-squad2"

	cfg := s.RunConfig()

	assert.Equal(t, RunConfig{
		StoreKind:     StoreKindMemory,
		ReaderModel:   "deepset/roberta-base-squad2",
		TopKRetriever: 7,
		TopKReader:    1,
		SearchResults: 50,
	}, cfg)
}
