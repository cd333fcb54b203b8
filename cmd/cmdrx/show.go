package main

import (
	"fmt"

	"github.com/cmdrx/cmdrx/config"
	"github.com/cmdrx/cmdrx/credentials"
	"github.com/cmdrx/cmdrx/logger"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			showConfiguration(cfg, credentials.NewResolver(cfgDir, log))
			return nil
		},
	}
}

// showConfiguration prints the configuration and credential status. Secrets
// themselves are never displayed.
func showConfiguration(cfg config.Config, resolver *credentials.Resolver) {
	color.New(color.Bold).Println("\nCurrent Configuration")
	fmt.Printf("  %-18s %s\n", "llm_provider", cfg.Provider)
	fmt.Printf("  %-18s %s\n", "llm_model", cfg.Model)
	fmt.Printf("  %-18s %s\n", "llm_base_url", cfg.BaseURL)
	fmt.Printf("  %-18s %s\n", "llm_auth_type", cfg.AuthType)
	fmt.Printf("  %-18s %d\n", "llm_timeout", cfg.Timeout)
	fmt.Printf("  %-18s %s\n", "log_directory", cfg.LogDirectory)
	fmt.Printf("  %-18s %t\n", "verbose", cfg.Verbose)
	fmt.Printf("  %-18s %t\n", "fix_scripts", !cfg.DisableFixScripts)
	fmt.Printf("  %-18s %d\n", "command_timeout", cfg.CommandTimeout)
	fmt.Printf("  %-18s %d\n", "max_retries", cfg.MaxRetries)

	color.New(color.Bold).Println("\nCredential Status:")
	key, required := cfg.CredentialKey()
	if !required {
		fmt.Println("  No credentials required")
		return
	}
	if _, source := resolver.ResolveDetail(key); source != credentials.SourceNone {
		color.Green("  %s: ✓ Configured (%s)", key, source)
	} else {
		color.Red("  %s: ✗ Missing", key)
	}
}
