package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
	"github.com/custodia-labs/qabench/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyStoreKind         = "store.kind"
	keyRetrieverTopK     = "retriever.top_k"
	keyReaderProvider    = "reader.provider"
	keyReaderModel       = "reader.model"
	keyReaderBaseURL     = "reader.base_url"
	keyReaderAPIKey      = "reader.api_key"
	keyReaderTopK        = "reader.top_k"
	keyKnowledgeEndpoint = "knowledge.endpoint"
	keyKnowledgeResults  = "knowledge.search_results"
	keyKnowledgeDenylist = "knowledge.denylist"
	keyKnowledgeRate     = "knowledge.rate"
	keyOutputFormats     = "output.formats"
	keyStagingDir        = "staging.dir"
)

// SettingsService manages benchmark settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current benchmark settings.
func (s *SettingsService) Get() (*domain.BenchmarkSettings, error) {
	defaults := domain.DefaultBenchmarkSettings()

	provider := s.getReaderProvider(defaults.Reader.Provider)
	model := s.configStore.GetString(keyReaderModel)
	if model == "" {
		model = domain.DefaultReaderModels()[provider]
	}

	settings := &domain.BenchmarkSettings{
		Reader: domain.ReaderSettings{
			Provider: provider,
			Model:    model,
			BaseURL:  s.configStore.GetString(keyReaderBaseURL), // No default - adapters pick their own
			APIKey:   s.configStore.GetString(keyReaderAPIKey),
			TopK:     s.getInt(keyReaderTopK, defaults.Reader.TopK),
		},
		Retriever: domain.RetrieverSettings{
			Store: s.getStoreKind(defaults.Retriever.Store),
			TopK:  s.getInt(keyRetrieverTopK, defaults.Retriever.TopK),
		},
		Knowledge: domain.KnowledgeSettings{
			Endpoint:          s.getString(keyKnowledgeEndpoint, defaults.Knowledge.Endpoint),
			SearchResults:     s.getInt(keyKnowledgeResults, defaults.Knowledge.SearchResults),
			Denylist:          s.getDenylist(defaults.Knowledge.Denylist),
			RequestsPerSecond: s.getFloat(keyKnowledgeRate, defaults.Knowledge.RequestsPerSecond),
		},
		Output: domain.OutputSettings{
			Formats: s.getFormats(defaults.Output.Formats),
		},
		StagingDir: s.configStore.GetString(keyStagingDir),
	}

	return settings, nil
}

// Save persists benchmark settings.
func (s *SettingsService) Save(settings *domain.BenchmarkSettings) error {
	formats := make([]string, len(settings.Output.Formats))
	for i, f := range settings.Output.Formats {
		formats[i] = string(f)
	}

	values := []struct {
		key   string
		value any
	}{
		{keyStoreKind, settings.Retriever.Store.String()},
		{keyRetrieverTopK, settings.Retriever.TopK},
		{keyReaderProvider, settings.Reader.Provider.String()},
		{keyReaderModel, settings.Reader.Model},
		{keyReaderBaseURL, settings.Reader.BaseURL},
		{keyReaderTopK, settings.Reader.TopK},
		{keyKnowledgeEndpoint, settings.Knowledge.Endpoint},
		{keyKnowledgeResults, settings.Knowledge.SearchResults},
		{keyKnowledgeDenylist, settings.Knowledge.Denylist},
		{keyKnowledgeRate, settings.Knowledge.RequestsPerSecond},
		{keyOutputFormats, formats},
		{keyStagingDir, settings.StagingDir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Reader.APIKey != "" {
		if err := s.configStore.Set(keyReaderAPIKey, settings.Reader.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyReaderAPIKey, err)
		}
	}

	return nil
}

// Keys returns the configuration keys accepted by Set.
func (s *SettingsService) Keys() []string {
	keys := []string{
		keyStoreKind, keyRetrieverTopK, keyReaderProvider, keyReaderModel, keyReaderBaseURL,
		keyReaderAPIKey, keyReaderTopK, keyKnowledgeEndpoint, keyKnowledgeResults,
		keyKnowledgeDenylist, keyKnowledgeRate, keyOutputFormats, keyStagingDir,
	}
	sort.Strings(keys)
	return keys
}

// Set validates and stores a single setting.
// List values are comma-separated.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case keyStoreKind:
		if !domain.StoreKind(value).IsValid() {
			return fmt.Errorf("invalid store kind: %s", value)
		}
		return s.configStore.Set(key, value)

	case keyReaderProvider:
		provider := domain.ReaderProvider(value)
		if !provider.IsValid() {
			return fmt.Errorf("invalid reader provider: %s", value)
		}
		if err := s.configStore.Set(key, value); err != nil {
			return err
		}
		// A model chosen for another provider is meaningless now.
		return s.configStore.Set(keyReaderModel, domain.DefaultReaderModels()[provider])

	case keyRetrieverTopK, keyReaderTopK, keyKnowledgeResults:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer: %q", key, value)
		}
		return s.configStore.Set(key, n)

	case keyKnowledgeRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%s must be a positive number: %q", key, value)
		}
		return s.configStore.Set(key, f)

	case keyKnowledgeDenylist:
		return s.configStore.Set(key, splitList(value))

	case keyOutputFormats:
		formats := splitList(value)
		if len(formats) == 0 {
			return fmt.Errorf("%s requires at least one format", key)
		}
		for _, f := range formats {
			if !domain.OutputFormat(f).IsValid() {
				return fmt.Errorf("invalid output format: %s", f)
			}
		}
		return s.configStore.Set(key, formats)

	case keyReaderModel, keyReaderBaseURL, keyReaderAPIKey, keyKnowledgeEndpoint, keyStagingDir:
		return s.configStore.Set(key, value)

	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Validate checks the current settings can drive a run.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Retriever.Store.IsValid() {
		return fmt.Errorf("invalid store kind: %s", settings.Retriever.Store)
	}
	if !settings.Reader.IsConfigured() {
		return fmt.Errorf("reader %q is not configured (missing API key?)", settings.Reader.Provider.Description())
	}
	if settings.Retriever.TopK <= 0 || settings.Reader.TopK <= 0 {
		return fmt.Errorf("top_k values must be positive")
	}
	if settings.Knowledge.Endpoint == "" {
		return fmt.Errorf("knowledge endpoint is required")
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.BenchmarkSettings {
	return domain.DefaultBenchmarkSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStoreKind(defaultVal domain.StoreKind) domain.StoreKind {
	kind := domain.StoreKind(s.configStore.GetString(keyStoreKind))
	if !kind.IsValid() {
		return defaultVal
	}
	return kind
}

func (s *SettingsService) getReaderProvider(defaultVal domain.ReaderProvider) domain.ReaderProvider {
	provider := domain.ReaderProvider(s.configStore.GetString(keyReaderProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getDenylist(defaultVal []string) []string {
	// An explicitly empty list disables the denylist.
	if _, exists := s.configStore.Get(keyKnowledgeDenylist); !exists {
		return defaultVal
	}
	return s.configStore.GetStringSlice(keyKnowledgeDenylist)
}

func (s *SettingsService) getFormats(defaultVal []domain.OutputFormat) []domain.OutputFormat {
	var formats []domain.OutputFormat
	for _, f := range s.configStore.GetStringSlice(keyOutputFormats) {
		if of := domain.OutputFormat(f); of.IsValid() {
			formats = append(formats, of)
		}
	}
	if len(formats) == 0 {
		return defaultVal
	}
	return formats
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
