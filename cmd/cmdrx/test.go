package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/cmdrx/cmdrx/config"
	"github.com/cmdrx/cmdrx/credentials"
	"github.com/cmdrx/cmdrx/llm"
	"github.com/cmdrx/cmdrx/logger"
	"github.com/cmdrx/cmdrx/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test the current configuration",
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
			resolver := credentials.NewResolver(cfgDir, log)
			testConfiguration(cfg, resolver)
			return nil
		},
	}
}

// testConfiguration probes the configured provider and the log directory.
// Failures are reported but never abort the process; this is a diagnostic.
func testConfiguration(cfg config.Config, resolver *credentials.Resolver) {
	fmt.Println("\nTesting Configuration")

	log, err := logger.InitWithOptions("", false)
	if err != nil {
		color.Red("✗ Logger initialization failed: %v", err)
		return
	}

	creds := config.ResolveCredentials(cfg, resolver)
	provider, err := llm.NewProvider(cfg, creds, log)
	if err != nil {
		color.Red("✗ LLM provider test failed: %v", err)
	} else {
		fmt.Println("Testing LLM provider connection...")
		s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
		s.Start()
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Timeout)*time.Second)
		ok := provider.TestConnection(ctx)
		cancel()
		s.Stop()
		if ok {
			color.Green("✓ LLM provider test successful")
		} else {
			color.Red("✗ LLM provider test failed - no response")
		}
	}

	logDir := output.ExpandPath(cfg.LogDirectory)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		color.Red("✗ Log directory test failed: %v", err)
		return
	}
	probe := filepath.Join(logDir, ".cmdrx_write_test")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		color.Red("✗ Log directory test failed: %v", err)
		return
	}
	_ = os.Remove(probe)
	color.Green("✓ Log directory accessible: %s", logDir)
}
