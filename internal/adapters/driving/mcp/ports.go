package mcp

import (
	"github.com/custodia-labs/qabench/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the MCP server.
type Ports struct {
	// QA answers ad-hoc questions.
	QA driving.QAService

	// Corpus lists the documents assembled for a title. Optional.
	Corpus driving.CorpusService

	// Settings exposes the active configuration. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.QA == nil {
		return ErrMissingQAService
	}
	return nil
}
