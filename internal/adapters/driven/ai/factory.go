// Package ai provides factory functions for creating answer readers.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamallm "github.com/custodia-labs/qabench/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/qabench/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/qabench/internal/adapters/driven/reader/extractive"
	"github.com/custodia-labs/qabench/internal/adapters/driven/reader/generative"
	"github.com/custodia-labs/qabench/internal/adapters/driven/reader/lexical"
	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for reader connectivity validation.
const pingTimeout = 5 * time.Second

// pinger is implemented by readers backed by a remote service.
type pinger interface {
	Ping(ctx context.Context) error
}

// CreateReader creates the reader selected by settings.
func CreateReader(settings *domain.ReaderSettings) (driven.Reader, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no reader settings", domain.ErrReaderUnavailable)
	}
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("%w: reader provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: %s requires an API key", domain.ErrReaderUnavailable, settings.Provider)
	}

	switch settings.Provider {
	case domain.ReaderProviderLexical:
		return lexical.New(settings.Model), nil

	case domain.ReaderProviderExtractive:
		return extractive.New(extractive.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			APIKey:  settings.APIKey,
		}), nil

	case domain.ReaderProviderOpenAI:
		llm, err := openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return generative.New(llm), nil

	case domain.ReaderProviderOllama:
		return generative.New(ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})), nil

	default:
		return nil, fmt.Errorf("%w: reader provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateAndValidateReader creates a reader and validates connectivity.
// Returns the reader if successful, or an error with guidance.
func CreateAndValidateReader(settings *domain.ReaderSettings) (driven.Reader, error) {
	reader, err := CreateReader(settings)
	if err != nil {
		return nil, fmt.Errorf("%w. Run 'qabench settings' to fix", err)
	}

	if err := ping(reader); err != nil {
		reader.Close() //nolint:errcheck
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'qabench settings' to fix",
			domain.ErrReaderUnavailable, err)
	}

	return reader, nil
}

// ValidateReaderConfig validates a reader configuration by creating the
// reader and pinging its service.
func ValidateReaderConfig(settings *domain.ReaderSettings) error {
	reader, err := CreateReader(settings)
	if err != nil {
		return err
	}
	defer reader.Close() //nolint:errcheck

	return ping(reader)
}

// ping checks remote readers. Local readers are always reachable.
func ping(reader driven.Reader) error {
	p, ok := reader.(pinger)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return p.Ping(ctx)
}
