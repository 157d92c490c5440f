package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for qabench resources.
const uriScheme = "qabench://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Settings == nil {
		return
	}
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Active benchmark settings (API keys omitted)",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// settingsInfo is the public view of the benchmark settings.
type settingsInfo struct {
	Store             string   `json:"store"`
	TopKRetriever     int      `json:"top_k_retriever"`
	Reader            string   `json:"reader"`
	ReaderModel       string   `json:"reader_model"`
	TopKReader        int      `json:"top_k_reader"`
	SearchResults     int      `json:"search_results"`
	Denylist          []string `json:"denylist"`
	KnowledgeEndpoint string   `json:"knowledge_endpoint"`
}

// handleSettingsResource returns the active settings.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	data, err := json.MarshalIndent(settingsInfo{
		Store:             settings.Retriever.Store.String(),
		TopKRetriever:     settings.Retriever.TopK,
		Reader:            settings.Reader.Provider.String(),
		ReaderModel:       settings.Reader.Model,
		TopKReader:        settings.Reader.TopK,
		SearchResults:     settings.Knowledge.SearchResults,
		Denylist:          settings.Knowledge.Denylist,
		KnowledgeEndpoint: settings.Knowledge.Endpoint,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
