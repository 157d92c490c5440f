package mcp

import (
	"context"

	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driving"
)

// mockQAService is a mock implementation of driving.QAService.
type mockQAService struct {
	result   *driving.AskResult
	err      error
	title    string
	question string
}

func (m *mockQAService) Ask(_ context.Context, title, question string) (*driving.AskResult, error) {
	m.title = title
	m.question = question
	return m.result, m.err
}

// mockCorpusService is a mock implementation of driving.CorpusService.
type mockCorpusService struct {
	report *domain.FetchReport
	err    error
}

func (m *mockCorpusService) Collect(_ context.Context, _ string) (*domain.FetchReport, error) {
	return m.report, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.BenchmarkSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.BenchmarkSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.BenchmarkSettings) error { return nil }
func (m *mockSettingsService) Set(_, _ string) error                  { return nil }
func (m *mockSettingsService) Keys() []string                         { return nil }
func (m *mockSettingsService) Validate() error                        { return nil }

func (m *mockSettingsService) GetDefaults() domain.BenchmarkSettings {
	return domain.DefaultBenchmarkSettings()
}

var (
	_ driving.QAService       = (*mockQAService)(nil)
	_ driving.CorpusService   = (*mockCorpusService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
)
