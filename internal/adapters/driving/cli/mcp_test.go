package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Structure(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
	assert.Equal(t, "serve", mcpServeCmd.Use)
	assert.Contains(t, mcpServeCmd.Long, "ask")
	assert.Contains(t, mcpServeCmd.Long, "qabench://settings")

	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "fetch", "ask", "settings", "mcp", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestBuild_WithoutServices(t *testing.T) {
	prevSettings, prevBuild := settingsService, buildServices
	settingsService, buildServices = nil, nil
	defer func() { settingsService, buildServices = prevSettings, prevBuild }()

	_, _, err := build(nil, BuildOptions{})
	assert.EqualError(t, err, "services not configured")
}
