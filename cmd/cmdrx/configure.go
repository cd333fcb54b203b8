package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cmdrx/cmdrx/config"
	"github.com/cmdrx/cmdrx/credentials"
	"github.com/cmdrx/cmdrx/logger"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newConfigureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Configure the LLM provider and general settings",
		Args:  cobra.NoArgs,
		RunE:  runConfigure,
	}
}

func runConfigure(cmd *cobra.Command, args []string) error {
	cfgDir, err := config.Dir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgDir)
	if err != nil {
		return err
	}
	log, err := logger.InitWithOptions("", false)
	if err != nil {
		return err
	}
	resolver := credentials.NewResolver(cfgDir, log)
	reader := bufio.NewReader(os.Stdin)

	color.New(color.FgBlue, color.Bold).Println("CmdRx Configuration")
	fmt.Println("Configure your LLM provider and settings")

	for {
		fmt.Println("\nMain Menu:")
		fmt.Println("1. Configure LLM Provider")
		fmt.Println("2. Configure Settings")
		fmt.Println("3. Test Configuration")
		fmt.Println("4. Show Current Configuration")
		fmt.Println("q. Quit")

		switch promptLine(reader, "Choose an option", "1") {
		case "1":
			if err := configureProvider(reader, &cfg, resolver); err != nil {
				return err
			}
			if err := cfg.Save(cfgDir); err != nil {
				return err
			}
		case "2":
			configureSettings(reader, &cfg)
			if err := cfg.Save(cfgDir); err != nil {
				return err
			}
		case "3":
			testConfiguration(cfg, resolver)
		case "4":
			showConfiguration(cfg, resolver)
		case "q":
			if err := cfg.Save(cfgDir); err != nil {
				return err
			}
			color.Green("Configuration saved successfully!")
			return nil
		default:
			color.Red("Invalid choice. Please try again.")
		}
	}
}

func configureProvider(reader *bufio.Reader, cfg *config.Config, resolver *credentials.Resolver) error {
	fmt.Println("\nLLM Provider Configuration")
	fmt.Println("\nAvailable LLM Providers:")

	ids := make([]string, 0, len(config.PredefinedProviders))
	for id := range config.PredefinedProviders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := config.PredefinedProviders[id]
		fmt.Printf("  %-10s %-18s %s\n", id, p.Name, p.Description)
	}
	fmt.Printf("  %-10s %-18s %s\n", config.ProviderCustom, "Custom Provider", "Configure a custom LLM endpoint")

	choice := promptLine(reader, "Select a provider", cfg.Provider)
	if choice == config.ProviderCustom {
		return configureCustomProvider(reader, cfg, resolver)
	}

	defaults, ok := config.PredefinedProviders[choice]
	if !ok {
		color.Red("Unknown provider: %s", choice)
		return nil
	}

	fmt.Printf("\nConfiguring %s\n", defaults.Name)
	if err := promptAndStoreSecret(resolver, choice+"_api_key", "API Key"); err != nil {
		return err
	}

	model := promptLine(reader, fmt.Sprintf("Model name (default: %s)", defaults.DefaultModel), defaults.DefaultModel)

	cfg.Provider = choice
	cfg.Model = model
	cfg.BaseURL = defaults.BaseURL
	cfg.AuthType = defaults.AuthType

	color.Green("✓ %s configured successfully", defaults.Name)
	return nil
}

func configureCustomProvider(reader *bufio.Reader, cfg *config.Config, resolver *credentials.Resolver) error {
	fmt.Println("\nCustom LLM Provider Configuration")

	baseURL := promptLine(reader, "Base URL (e.g., http://localhost:11434/v1)", cfg.BaseURL)
	model := promptLine(reader, "Model name", cfg.Model)
	authType := promptLine(reader, "Authentication type (none/api_key/bearer_token)", config.AuthNone)

	switch authType {
	case config.AuthAPIKey:
		if err := promptAndStoreSecret(resolver, "custom_api_key", "API Key"); err != nil {
			return err
		}
	case config.AuthBearerToken:
		if err := promptAndStoreSecret(resolver, "custom_bearer_token", "Bearer Token"); err != nil {
			return err
		}
	case config.AuthNone:
	default:
		color.Red("Unknown auth type %q, using %q", authType, config.AuthNone)
		authType = config.AuthNone
	}

	timeout := promptInt(reader, "Request timeout (seconds)", cfg.Timeout)

	cfg.Provider = config.ProviderCustom
	cfg.BaseURL = baseURL
	cfg.Model = model
	cfg.AuthType = authType
	cfg.Timeout = timeout

	color.Green("✓ Custom provider configured successfully")
	return nil
}

func configureSettings(reader *bufio.Reader, cfg *config.Config) {
	fmt.Println("\nGeneral Settings")

	cfg.LogDirectory = promptLine(reader, "Log directory", cfg.LogDirectory)
	cfg.Verbose = promptBool(reader, "Enable verbose output by default?", cfg.Verbose)
	cfg.DisableFixScripts = !promptBool(reader, "Auto-create fix scripts?", !cfg.DisableFixScripts)
	cfg.CommandTimeout = promptInt(reader, "Command execution timeout (seconds)", cfg.CommandTimeout)
	cfg.MaxRetries = promptInt(reader, "Max retries for retryable LLM errors", cfg.MaxRetries)

	color.Green("✓ Settings updated successfully")
}

// promptAndStoreSecret reads a secret without echo and stores it, reporting
// which storage path took it. An empty entry keeps the existing secret.
func promptAndStoreSecret(resolver *credentials.Resolver, key, label string) error {
	if current, ok := resolver.Resolve(key); ok {
		label += fmt.Sprintf(" (current: %s)", maskSecret(current))
	}
	fmt.Printf("%s: ", label)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}
	if len(secret) == 0 {
		return nil
	}

	source, err := resolver.Store(key, string(secret))
	if err != nil {
		return err
	}
	switch source {
	case credentials.SourceKeyring:
		color.Green("✓ Stored %q in system keyring", key)
	case credentials.SourceFile:
		color.Yellow("Keyring unavailable; stored %q in credentials file", key)
	}
	return nil
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:8] + "..."
}

func promptLine(reader *bufio.Reader, label, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", label, defaultValue)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return defaultValue
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue
	}
	return line
}

func promptInt(reader *bufio.Reader, label string, defaultValue int) int {
	line := promptLine(reader, label, strconv.Itoa(defaultValue))
	value, err := strconv.Atoi(line)
	if err != nil || value < 0 {
		color.Yellow("Invalid number %q, keeping %d", line, defaultValue)
		return defaultValue
	}
	return value
}

func promptBool(reader *bufio.Reader, label string, defaultValue bool) bool {
	def := "y/N"
	if defaultValue {
		def = "Y/n"
	}
	line := strings.ToLower(promptLine(reader, fmt.Sprintf("%s (%s)", label, def), ""))
	switch line {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultValue
	}
}
