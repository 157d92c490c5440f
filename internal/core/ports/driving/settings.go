package driving

import "github.com/custodia-labs/qabench/internal/core/domain"

// SettingsService manages benchmark settings.
type SettingsService interface {
	// Get retrieves current benchmark settings, filling defaults.
	Get() (*domain.BenchmarkSettings, error)

	// Save persists benchmark settings.
	Save(settings *domain.BenchmarkSettings) error

	// Set updates a single setting by its configuration key.
	Set(key, value string) error

	// Keys returns the configuration keys accepted by Set.
	Keys() []string

	// Validate checks the current settings can drive a run.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.BenchmarkSettings
}
