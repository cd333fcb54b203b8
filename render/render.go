// Package render prints analysis results to a terminal. The analysis core
// never calls into this package; callers decide what gets shown.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/cmdrx/cmdrx/analysis"
	"github.com/cmdrx/cmdrx/output"
	"github.com/fatih/color"
)

func statusColor(status analysis.Status) *color.Color {
	switch status {
	case analysis.StatusSuccess:
		return color.New(color.FgGreen, color.Bold)
	case analysis.StatusWarning:
		return color.New(color.FgYellow, color.Bold)
	case analysis.StatusError:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgBlue, color.Bold)
	}
}

func riskColor(risk analysis.RiskLevel) *color.Color {
	switch risk {
	case analysis.RiskLow:
		return color.New(color.FgGreen)
	case analysis.RiskHigh:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

// Analysis prints the full parsed result: analysis text, issues, steps,
// fixes, and any additional information.
func Analysis(w io.Writer, parsed analysis.Result) {
	header := statusColor(parsed.Status)

	fmt.Fprintln(w)
	header.Fprintf(w, "Analysis (%s)\n", strings.ToUpper(string(parsed.Status)))
	fmt.Fprintf(w, "%s\n", parsed.Analysis)

	if len(parsed.Issues) > 0 {
		fmt.Fprintln(w)
		color.New(color.FgRed, color.Bold).Fprintln(w, "Issues Identified")
		for _, issue := range parsed.Issues {
			fmt.Fprintf(w, "  • %s\n", issue)
		}
	}

	if len(parsed.TroubleshootingSteps) > 0 {
		fmt.Fprintln(w)
		color.New(color.FgBlue, color.Bold).Fprintln(w, "Troubleshooting Steps")
		for _, step := range parsed.TroubleshootingSteps {
			fmt.Fprintf(w, "  %d. %s\n", step.Step, step.Description)
			if step.Command != "" {
				color.New(color.FgCyan).Fprintf(w, "     $ %s\n", step.Command)
			}
			if step.Explanation != "" {
				fmt.Fprintf(w, "     %s\n", step.Explanation)
			}
		}
	}

	if len(parsed.SuggestedFixes) > 0 {
		fmt.Fprintln(w)
		color.New(color.FgGreen, color.Bold).Fprintln(w, "Suggested Fixes")
		for i, fix := range parsed.SuggestedFixes {
			fmt.Fprintf(w, "  Fix %d: %s\n", i+1, fix.Description)
			riskColor(fix.RiskLevel).Fprintf(w, "  Risk Level: %s\n", strings.ToUpper(string(fix.RiskLevel)))
			for _, cmd := range fix.Commands {
				color.New(color.FgCyan).Fprintf(w, "    $ %s\n", cmd)
			}
			if fix.Explanation != "" {
				fmt.Fprintf(w, "  %s\n", fix.Explanation)
			}
			fmt.Fprintln(w)
		}
	}

	if parsed.AdditionalInfo != "" {
		color.New(color.FgCyan, color.Bold).Fprintln(w, "Additional Information")
		fmt.Fprintf(w, "%s\n", parsed.AdditionalInfo)
	}
}

// CommandOutput prints the captured output being analyzed, under a title.
func CommandOutput(w io.Writer, title, body string) {
	color.New(color.FgBlue, color.Bold).Fprintf(w, "%s\n", title)
	fmt.Fprintln(w, body)
}

// Files prints where the analysis artifacts landed.
func Files(w io.Writer, files *output.Files, dryRun bool, dir string) {
	fmt.Fprintln(w)
	color.New(color.Bold).Fprintln(w, "Generated Files:")
	if files.Log != "" {
		fmt.Fprintf(w, "  Log file: %s\n", files.Log)
	}
	switch {
	case files.FixScript != "":
		fmt.Fprintf(w, "  Fix script: %s (executable)\n", files.FixScript)
		fmt.Fprintf(w, "  Run with: bash %s\n", files.FixScript)
	case dryRun:
		color.New(color.FgYellow).Fprintln(w, "  Fix script generation skipped (dry run mode)")
	}
	fmt.Fprintf(w, "  All files saved to: %s\n", dir)
}
