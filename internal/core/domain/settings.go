package domain

const unknownDescription = "Unknown"

// StoreKind selects the passage index backend.
type StoreKind string

// Available store kinds.
const (
	// StoreKindMemory is the in-process TF-IDF index.
	StoreKindMemory StoreKind = "memory"

	// StoreKindSQLite is an in-memory SQLite FTS5 table ranked by BM25.
	StoreKindSQLite StoreKind = "sqlite"
)

// IsValid returns true if the store kind is recognised.
func (k StoreKind) IsValid() bool {
	switch k {
	case StoreKindMemory, StoreKindSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k StoreKind) String() string {
	return string(k)
}

// DirName returns the results directory segment for the store kind.
func (k StoreKind) DirName() string {
	switch k {
	case StoreKindMemory:
		return "in-memory-document-store"
	case StoreKindSQLite:
		return "sqlite-document-store"
	default:
		return string(k) + "-document-store"
	}
}

// Description returns a human-readable description of the store kind.
func (k StoreKind) Description() string {
	switch k {
	case StoreKindMemory:
		return "In-memory (TF-IDF)"
	case StoreKindSQLite:
		return "SQLite FTS5 (BM25)"
	default:
		return unknownDescription
	}
}

// ReaderProvider identifies the answer-extraction backend.
type ReaderProvider string

// Available reader providers.
const (
	// ReaderProviderLexical is the offline term-overlap span extractor.
	ReaderProviderLexical ReaderProvider = "lexical"

	// ReaderProviderExtractive is a remote extractive QA model endpoint.
	ReaderProviderExtractive ReaderProvider = "extractive"

	// ReaderProviderOpenAI prompts an OpenAI chat model.
	ReaderProviderOpenAI ReaderProvider = "openai"

	// ReaderProviderOllama prompts a local Ollama model.
	ReaderProviderOllama ReaderProvider = "ollama"
)

// IsValid returns true if the reader provider is recognised.
func (p ReaderProvider) IsValid() bool {
	switch p {
	case ReaderProviderLexical, ReaderProviderExtractive, ReaderProviderOpenAI, ReaderProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p ReaderProvider) RequiresAPIKey() bool {
	return p == ReaderProviderOpenAI
}

// IsGenerative returns true if the provider is backed by an LLM.
func (p ReaderProvider) IsGenerative() bool {
	return p == ReaderProviderOpenAI || p == ReaderProviderOllama
}

// String returns the string representation.
func (p ReaderProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p ReaderProvider) Description() string {
	switch p {
	case ReaderProviderLexical:
		return "Lexical (offline baseline)"
	case ReaderProviderExtractive:
		return "Extractive QA endpoint"
	case ReaderProviderOpenAI:
		return "OpenAI (generative)"
	case ReaderProviderOllama:
		return "Ollama (generative, local)"
	default:
		return unknownDescription
	}
}

// DefaultReaderModels returns the default model per reader provider.
func DefaultReaderModels() map[ReaderProvider]string {
	return map[ReaderProvider]string{
		ReaderProviderLexical:    "lexical-overlap",
		ReaderProviderExtractive: "deepset/roberta-base-squad2",
		ReaderProviderOpenAI:     "gpt-4o-mini",
		ReaderProviderOllama:     "llama3.2",
	}
}

// OutputFormat selects a result writer.
type OutputFormat string

// Available output formats.
const (
	OutputFormatCSV  OutputFormat = "csv"
	OutputFormatXLSX OutputFormat = "xlsx"
)

// IsValid returns true if the output format is recognised.
func (f OutputFormat) IsValid() bool {
	return f == OutputFormatCSV || f == OutputFormatXLSX
}

// ReaderSettings configures the answer-extraction backend.
type ReaderSettings struct {
	Provider ReaderProvider
	Model    string
	BaseURL  string
	APIKey   string

	// TopK is the number of answer candidates the pipeline keeps.
	TopK int
}

// IsConfigured returns true if the reader can be constructed.
func (r ReaderSettings) IsConfigured() bool {
	if !r.Provider.IsValid() {
		return false
	}
	if r.Provider.RequiresAPIKey() && r.APIKey == "" {
		return false
	}
	return true
}

// RetrieverSettings configures the passage index.
type RetrieverSettings struct {
	Store StoreKind

	// TopK is the number of passages handed to the reader.
	TopK int
}

// KnowledgeSettings configures corpus acquisition.
type KnowledgeSettings struct {
	// Endpoint is the MediaWiki API endpoint.
	Endpoint string

	// SearchResults is the maximum number of candidate titles per book.
	SearchResults int

	// Denylist holds case-sensitive title markers that exclude a candidate.
	Denylist []string

	// RequestsPerSecond throttles calls to the knowledge source.
	RequestsPerSecond float64
}

// OutputSettings configures result persistence.
type OutputSettings struct {
	Formats []OutputFormat
}

// BenchmarkSettings holds the full run configuration.
type BenchmarkSettings struct {
	Reader     ReaderSettings
	Retriever  RetrieverSettings
	Knowledge  KnowledgeSettings
	Output     OutputSettings
	StagingDir string
}

// RunConfig derives the identifying configuration of a run.
func (s BenchmarkSettings) RunConfig() RunConfig {
	return RunConfig{
		StoreKind:     s.Retriever.Store,
		ReaderModel:   s.Reader.Model,
		TopKRetriever: s.Retriever.TopK,
		TopKReader:    s.Reader.TopK,
		SearchResults: s.Knowledge.SearchResults,
	}
}

// DefaultDenylist returns the title markers excluded from every corpus.
func DefaultDenylist() []string {
	return []string{"film", "video game", "album", "soundtrack"}
}

// DefaultBenchmarkSettings returns the settings of the reference benchmark.
func DefaultBenchmarkSettings() BenchmarkSettings {
	return BenchmarkSettings{
		Reader: ReaderSettings{
			Provider: ReaderProviderLexical,
			Model:    DefaultReaderModels()[ReaderProviderLexical],
			TopK:     1,
		},
		Retriever: RetrieverSettings{
			Store: StoreKindMemory,
			TopK:  7,
		},
		Knowledge: KnowledgeSettings{
			Endpoint:          "https://en.wikipedia.org/w/api.php",
			SearchResults:     50,
			Denylist:          DefaultDenylist(),
			RequestsPerSecond: 5,
		},
		Output: OutputSettings{
			Formats: []OutputFormat{OutputFormatCSV},
		},
	}
}
