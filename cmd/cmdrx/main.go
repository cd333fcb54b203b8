// Command cmdrx analyzes shell command output with an LLM and renders
// structured troubleshooting guidance plus optional fix scripts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/cmdrx/cmdrx/analyzer"
	"github.com/cmdrx/cmdrx/config"
	"github.com/cmdrx/cmdrx/credentials"
	"github.com/cmdrx/cmdrx/executor"
	"github.com/cmdrx/cmdrx/llm"
	"github.com/cmdrx/cmdrx/logger"
	"github.com/cmdrx/cmdrx/output"
	"github.com/cmdrx/cmdrx/render"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const version = "1.0.0"

var (
	flagVerbose  bool
	flagLogDir   string
	flagDryRun   bool
	flagProvider string
	flagModel    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var cfgErr *config.Error
		var llmErr *llm.Error
		switch {
		case errors.As(err, &cfgErr):
			color.Red("Configuration error: %v", err)
			color.Yellow("Run 'cmdrx configure' to set up configuration.")
		case errors.As(err, &llmErr):
			color.Red("LLM service error: %v", err)
		default:
			color.Red("Error: %v", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cmdrx [command...]",
		Short: "AI-powered command line troubleshooting tool",
		Long: `CmdRx executes or ingests a shell command's output, sends it to a
configured LLM backend for diagnosis, and renders structured
troubleshooting guidance plus optional fix scripts.

Examples:
  cmdrx systemctl status httpd    # Analyze command output
  systemctl status httpd | cmdrx  # Analyze piped input
  cmdrx configure                 # Open configuration`,
		Args:          cobra.ArbitraryArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAnalyze,
	}

	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().StringVar(&flagLogDir, "log-dir", "", "Override default log directory")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Analyze without creating fix scripts")
	cmd.Flags().StringVar(&flagProvider, "provider", "", "Override configured LLM provider")
	cmd.Flags().StringVar(&flagModel, "model", "", "Override configured LLM model")

	cmd.AddCommand(newConfigureCmd(), newTestCmd(), newShowCmd())
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfgDir, err := config.Dir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgDir)
	if err != nil {
		return err
	}
	applyOverrides(&cfg)

	logDir := cfg.LogDirectory
	if flagLogDir != "" {
		logDir = flagLogDir
	}
	logDir = output.ExpandPath(logDir)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}
	log, err := logger.Init(logDir)
	if err != nil {
		return err
	}

	// Capture the output to analyze: run the given command, or drain stdin
	// when something is piped in.
	var result *executor.Result
	switch {
	case len(args) > 0:
		command := strings.Join(args, " ")
		if cfg.Verbose {
			color.Blue("Executing command: %s", command)
		}
		result, err = executor.Run(ctx, command, time.Duration(cfg.CommandTimeout)*time.Second)
	case !term.IsTerminal(int(os.Stdin.Fd())):
		result, err = executor.ReadPiped(os.Stdin)
	default:
		color.Yellow("No command provided. Use --help for usage information.")
		_ = cmd.Help()
		return errors.New("no input provided")
	}
	if err != nil {
		return err
	}
	if result.Empty() {
		color.Yellow("No output to analyze.")
		return nil
	}

	render.CommandOutput(os.Stdout, "Command Output: "+result.Command, result.Output)

	resolver := credentials.NewResolver(cfgDir, log)
	creds := config.ResolveCredentials(cfg, resolver)
	provider, err := llm.NewProvider(cfg, creds, log)
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Analyzing with AI..."
	s.Start()
	resp, parsed, err := analyzer.New(provider, cfg.MaxRetries, log).Analyze(ctx, result)
	s.Stop()
	if err != nil {
		return err
	}

	render.Analysis(os.Stdout, parsed)

	gen, err := output.NewGenerator(logDir, flagDryRun || cfg.DisableFixScripts, log)
	if err != nil {
		return err
	}
	files, err := gen.Generate(result, parsed, resp)
	if err != nil {
		return err
	}
	render.Files(os.Stdout, files, flagDryRun, gen.Dir())

	color.Green("\n✓ Analysis complete. Check the output above and generated files.")
	return nil
}

func applyOverrides(cfg *config.Config) {
	if flagProvider != "" {
		cfg.Provider = flagProvider
		if defaults, ok := config.PredefinedProviders[flagProvider]; ok {
			cfg.BaseURL = defaults.BaseURL
			cfg.AuthType = defaults.AuthType
			if flagModel == "" {
				cfg.Model = defaults.DefaultModel
			}
		}
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagVerbose {
		cfg.Verbose = true
	}
}
