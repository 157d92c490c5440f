package ai

import (
	"github.com/custodia-labs/qabench/internal/core/domain"
	"github.com/custodia-labs/qabench/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.ReaderValidator = (*ConfigValidator)(nil)

// ConfigValidator validates reader configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new reader config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateReader validates a reader configuration by pinging its service.
func (v *ConfigValidator) ValidateReader(settings *domain.ReaderSettings) error {
	return ValidateReaderConfig(settings)
}
