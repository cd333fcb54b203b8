// Package output writes the artifacts of one analysis: a detailed log file
// and, when the model suggested fixes, a guarded executable fix script.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmdrx/cmdrx/analysis"
	"github.com/cmdrx/cmdrx/executor"
	"github.com/cmdrx/cmdrx/llm"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Generator writes analysis artifacts into a log directory.
type Generator struct {
	logDir string
	dryRun bool
	logger zerolog.Logger
}

// Files lists the artifacts one Generate call produced. FixScript is empty
// when no script was written (no fixes, or dry-run).
type Files struct {
	Log       string
	FixScript string
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
		}
	}
	return path
}

// NewGenerator creates a Generator, ensuring the log directory exists.
// When dryRun is set, fix scripts are skipped.
func NewGenerator(logDir string, dryRun bool, logger zerolog.Logger) (*Generator, error) {
	dir := ExpandPath(logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	return &Generator{logDir: dir, dryRun: dryRun, logger: logger}, nil
}

// Dir returns the resolved log directory.
func (g *Generator) Dir() string {
	return g.logDir
}

// Generate writes the analysis log and, when applicable, the fix script.
func (g *Generator) Generate(result *executor.Result, parsed analysis.Result, resp *llm.Response) (*Files, error) {
	timestamp := time.Now().Format("20060102_150405")
	files := &Files{}

	logPath := filepath.Join(g.logDir, fmt.Sprintf("cmdrx_analysis_%s.log", timestamp))
	if err := os.WriteFile(logPath, []byte(logContent(result, parsed, resp)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	files.Log = logPath
	g.logger.Debug().Str("path", logPath).Msg("analysis log written")

	if len(parsed.SuggestedFixes) > 0 && !g.dryRun {
		scriptPath := filepath.Join(g.logDir, fmt.Sprintf("cmdrx_fix_%s.sh", timestamp))
		if err := os.WriteFile(scriptPath, []byte(fixScript(parsed.SuggestedFixes, result.Command)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create fix script: %w", err)
		}
		files.FixScript = scriptPath
		g.logger.Debug().Str("path", scriptPath).Msg("fix script written")
	}

	return files, nil
}

func logContent(result *executor.Result, parsed analysis.Result, resp *llm.Response) string {
	rule := strings.Repeat("=", 80)
	now := time.Now().Format(time.RFC3339)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nCmdRx Analysis Log\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Timestamp: %s\n", now)
	fmt.Fprintf(&b, "Command: %s\n", result.Command)
	if result.Piped {
		b.WriteString("Return Code: N/A\n")
	} else {
		fmt.Fprintf(&b, "Return Code: %d\n", result.ExitCode)
	}
	fmt.Fprintf(&b, "LLM Provider: %s\n", resp.Provider)
	fmt.Fprintf(&b, "LLM Model: %s\n", resp.Model)
	fmt.Fprintf(&b, "Response Time: %.2fs\n", resp.Duration.Seconds())

	b.WriteString("\nCOMMAND OUTPUT\n" + strings.Repeat("-", 40) + "\n")
	b.WriteString(result.Output)
	b.WriteString("\n\nANALYSIS RESULTS\n" + strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&b, "Status: %s\n", strings.ToUpper(string(parsed.Status)))
	fmt.Fprintf(&b, "Analysis: %s\n\n", parsed.Analysis)

	if len(parsed.Issues) > 0 {
		b.WriteString("ISSUES IDENTIFIED\n" + strings.Repeat("-", 20) + "\n")
		for i, issue := range parsed.Issues {
			fmt.Fprintf(&b, "%d. %s\n", i+1, issue)
		}
		b.WriteString("\n")
	}

	if len(parsed.TroubleshootingSteps) > 0 {
		b.WriteString("TROUBLESHOOTING STEPS\n" + strings.Repeat("-", 25) + "\n")
		for _, step := range parsed.TroubleshootingSteps {
			fmt.Fprintf(&b, "Step %d: %s\n", step.Step, step.Description)
			if step.Command != "" {
				fmt.Fprintf(&b, "  Command: %s\n", step.Command)
			}
			if step.Explanation != "" {
				fmt.Fprintf(&b, "  Explanation: %s\n", step.Explanation)
			}
			b.WriteString("\n")
		}
	}

	if len(parsed.SuggestedFixes) > 0 {
		b.WriteString("SUGGESTED FIXES\n" + strings.Repeat("-", 15) + "\n")
		for i, fix := range parsed.SuggestedFixes {
			fmt.Fprintf(&b, "Fix %d: %s\n", i+1, fix.Description)
			fmt.Fprintf(&b, "  Risk Level: %s\n", strings.ToUpper(string(fix.RiskLevel)))
			if len(fix.Commands) > 0 {
				b.WriteString("  Commands:\n")
				b.WriteString(strings.Join(lo.Map(fix.Commands, func(cmd string, _ int) string {
					return "    " + cmd
				}), "\n"))
				b.WriteString("\n")
			}
			if fix.Explanation != "" {
				fmt.Fprintf(&b, "  Explanation: %s\n", fix.Explanation)
			}
			b.WriteString("\n")
		}
	}

	if parsed.AdditionalInfo != "" {
		b.WriteString("ADDITIONAL INFORMATION\n" + strings.Repeat("-", 25) + "\n")
		b.WriteString(parsed.AdditionalInfo)
		b.WriteString("\n\n")
	}

	if resp.Usage != nil {
		b.WriteString("LLM USAGE INFORMATION\n" + strings.Repeat("-", 22) + "\n")
		fmt.Fprintf(&b, "Prompt tokens: %d\n", resp.Usage.PromptTokens)
		fmt.Fprintf(&b, "Completion tokens: %d\n", resp.Usage.CompletionTokens)
		fmt.Fprintf(&b, "Total tokens: %d\n\n", resp.Usage.TotalTokens)
	}

	b.WriteString("RAW LLM RESPONSE\n" + strings.Repeat("-", 17) + "\n")
	b.WriteString(resp.Content)
	fmt.Fprintf(&b, "\n\n%s\nEnd of CmdRx Analysis Log - %s\n%s\n", rule, now, rule)

	return b.String()
}
