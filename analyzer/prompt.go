package analyzer

import (
	"fmt"
	"os"
	"os/user"
	"runtime"
	"strings"

	"github.com/cmdrx/cmdrx/executor"
)

// systemInfo is the host context embedded in the prompt so diagnoses account
// for platform differences.
type systemInfo struct {
	OS       string
	Arch     string
	Hostname string
	User     string
}

func collectSystemInfo() systemInfo {
	info := systemInfo{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}
	if hostname, err := os.Hostname(); err == nil {
		info.Hostname = hostname
	}
	if current, err := user.Current(); err == nil {
		info.User = current.Username
	}
	return info
}

// buildPrompt composes the full analysis prompt: the command, its exit
// status, host context, the fenced output, the requested JSON reply shape,
// and the analysis guidelines.
func buildPrompt(result *executor.Result, info systemInfo) string {
	var b strings.Builder

	b.WriteString("You are CmdRx, an expert system administrator AI assistant specialized in Linux/Unix systems.\n")
	b.WriteString("Analyze the following command output and provide detailed troubleshooting information.\n\n")
	fmt.Fprintf(&b, "Command executed: %s\n", result.Command)

	if !result.Piped {
		status := "SUCCESS"
		if result.ExitCode != 0 {
			status = "FAILURE"
		}
		fmt.Fprintf(&b, "Exit code: %d (%s)\n", result.ExitCode, status)
	}

	b.WriteString("\nSystem context:\n")
	fmt.Fprintf(&b, "- OS: %s\n", info.OS)
	fmt.Fprintf(&b, "- Architecture: %s\n", info.Arch)
	if info.Hostname != "" {
		fmt.Fprintf(&b, "- Hostname: %s\n", info.Hostname)
	}
	if info.User != "" {
		fmt.Fprintf(&b, "- User: %s\n", info.User)
	}

	b.WriteString("\nCommand output:\n```\n")
	b.WriteString(result.Output)
	b.WriteString("\n```\n\n")

	b.WriteString(`Please provide your analysis in the following JSON format:
{
  "analysis": "Comprehensive analysis of what the output shows and what it means",
  "status": "success|warning|error|info",
  "issues": ["specific", "issues", "identified", "from", "output"],
  "troubleshooting_steps": [
    {
      "step": 1,
      "description": "Clear step description",
      "command": "exact command to run (if applicable)",
      "explanation": "Why this step helps diagnose or resolve the issue"
    }
  ],
  "suggested_fixes": [
    {
      "description": "What this fix accomplishes",
      "commands": ["command1", "command2"],
      "risk_level": "low|medium|high",
      "explanation": "Detailed explanation of the fix and potential impact"
    }
  ],
  "additional_info": "Relevant background information, best practices, or warnings"
}

Analysis guidelines:
- Provide specific, actionable troubleshooting steps
- Include exact commands when helpful (with proper syntax)
- Clearly categorize risk levels: LOW (safe), MEDIUM (requires caution), HIGH (potential data loss)
- Focus on the most probable root causes based on the error patterns
- Consider common system administration scenarios and solutions
- If successful output, highlight what's working well and any optimization opportunities
- For errors, provide both immediate fixes and preventive measures
- Include relevant log file locations or configuration files to check
`)

	return b.String()
}
