package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage benchmark settings",
	Long: `View and configure the passage store, the reader, the knowledge source
and the output formats. Settings are stored in ~/.qabench/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by its configuration key. List values such as
knowledge.denylist and output.formats are comma-separated.

Run 'qabench settings keys' for the accepted keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List configuration keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsReaderCmd = &cobra.Command{
	Use:   "reader",
	Short: "Configure the reader interactively",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReader,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the reader is reachable",
	Long: `Validate the stored settings and send a trivial request to the
configured reader to make sure it answers.`,
	Args: cobra.NoArgs,
	RunE: runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsReaderCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Retriever]")
	cmd.Printf("  Store: %s\n", settings.Retriever.Store.Description())
	cmd.Printf("  Top K: %d\n", settings.Retriever.TopK)
	cmd.Println()

	cmd.Println("[Reader]")
	cmd.Printf("  Provider: %s\n", settings.Reader.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Reader.Model)
	if settings.Reader.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Reader.BaseURL)
	}
	if settings.Reader.Provider.RequiresAPIKey() {
		if settings.Reader.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Reader.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	cmd.Printf("  Top K: %d\n", settings.Reader.TopK)
	status := "configured"
	if !settings.Reader.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Knowledge]")
	cmd.Printf("  Endpoint: %s\n", settings.Knowledge.Endpoint)
	cmd.Printf("  Search results: %d\n", settings.Knowledge.SearchResults)
	cmd.Printf("  Requests per second: %g\n", settings.Knowledge.RequestsPerSecond)
	if len(settings.Knowledge.Denylist) > 0 {
		cmd.Printf("  Denylist: %s\n", strings.Join(settings.Knowledge.Denylist, ", "))
	} else {
		cmd.Printf("  Denylist: (empty)\n")
	}
	cmd.Println()

	cmd.Println("[Output]")
	formats := make([]string, len(settings.Output.Formats))
	for i, f := range settings.Output.Formats {
		formats[i] = string(f)
	}
	cmd.Printf("  Formats: %s\n", strings.Join(formats, ", "))
	if settings.StagingDir != "" {
		cmd.Printf("  Staging: %s\n", settings.StagingDir)
	} else {
		cmd.Printf("  Staging: (temporary directory)\n")
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'qabench settings reader' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if key == "reader.api_key" {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsReader(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	providers := []domain.ReaderProvider{
		domain.ReaderProviderLexical,
		domain.ReaderProviderExtractive,
		domain.ReaderProviderOpenAI,
		domain.ReaderProviderOllama,
	}

	defaultChoice := 1
	cmd.Println("Select reader provider:")
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
		if p == current.Reader.Provider {
			defaultChoice = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultChoice)
	provider := providers[parseChoice(readLine(reader), len(providers), defaultChoice)-1]

	if err := settingsService.Set("reader.provider", provider.String()); err != nil {
		return fmt.Errorf("failed to set reader provider: %w", err)
	}

	defaultModel := domain.DefaultReaderModels()[provider]
	cmd.Printf("Model [%s]: ", defaultModel)
	if model := readLine(reader); model != "" {
		if err := settingsService.Set("reader.model", model); err != nil {
			return fmt.Errorf("failed to set reader model: %w", err)
		}
	}

	if provider != domain.ReaderProviderLexical {
		cmd.Print("Base URL (empty for the provider default): ")
		if err := settingsService.Set("reader.base_url", readLine(reader)); err != nil {
			return fmt.Errorf("failed to set reader base URL: %w", err)
		}
	}

	if provider.RequiresAPIKey() {
		cmd.Print("API key: ")
		key := readSecret(cmd.InOrStdin(), reader)
		cmd.Println()
		if key == "" && current.Reader.APIKey == "" {
			cmd.Println("Warning: no API key set; the reader will not be usable.")
		}
		if key != "" {
			if err := settingsService.Set("reader.api_key", key); err != nil {
				return fmt.Errorf("failed to set API key: %w", err)
			}
		}
	}

	cmd.Printf("Reader set to %s.\n", provider.Description())
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil || readerValidator == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if err := readerValidator.ValidateReader(&settings.Reader); err != nil {
		return err
	}

	cmd.Printf("Reader %s (%s) is reachable.\n", settings.Reader.Provider.Description(), settings.Reader.Model)
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readSecret reads without echo when in is a terminal.
func readSecret(in io.Reader, fallback *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(fallback)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
