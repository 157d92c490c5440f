package driven

import "github.com/custodia-labs/qabench/internal/core/domain"

// ReaderValidator validates reader configurations.
// Implementations verify a configuration by testing connectivity to the
// service behind the reader.
type ReaderValidator interface {
	// ValidateReader returns nil if the configured reader is usable.
	ValidateReader(settings *domain.ReaderSettings) error
}
