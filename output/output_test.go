package output

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/cmdrx/cmdrx/analysis"
	"github.com/cmdrx/cmdrx/executor"
	"github.com/cmdrx/cmdrx/llm"
	"github.com/rs/zerolog"
)

func sampleInputs() (*executor.Result, analysis.Result, *llm.Response) {
	result := &executor.Result{
		Command:  "systemctl status nginx",
		Output:   "STDOUT:\nnginx.service - inactive (dead)",
		ExitCode: 3,
	}
	parsed := analysis.Result{
		Analysis: "nginx is not running",
		Status:   analysis.StatusError,
		Issues:   []string{"service inactive"},
		TroubleshootingSteps: []analysis.Step{
			{Step: 1, Description: "Check the journal", Command: "journalctl -u nginx", Explanation: "recent errors"},
		},
		SuggestedFixes: []analysis.Fix{
			{
				Description: "Start nginx",
				Commands:    []string{"sudo systemctl start nginx", `echo "done: $HOME"`},
				RiskLevel:   analysis.RiskLow,
				Explanation: "starts the stopped service",
			},
		},
		AdditionalInfo: "enable the unit to survive reboots",
	}
	resp := &llm.Response{
		Content:  `{"analysis": "nginx is not running"}`,
		Model:    "gpt-4",
		Usage:    &llm.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
		Duration: 1500 * time.Millisecond,
		Provider: "openai",
	}
	return result, parsed, resp
}

func TestGenerateWritesLogAndScript(t *testing.T) {
	dir := t.TempDir()
	gen, err := NewGenerator(dir, false, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	result, parsed, resp := sampleInputs()
	files, err := gen.Generate(result, parsed, resp)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if files.Log == "" || files.FixScript == "" {
		t.Fatalf("Files = %+v, want both artifacts", files)
	}
	if !strings.HasPrefix(filepath.Base(files.Log), "cmdrx_analysis_") || !strings.HasSuffix(files.Log, ".log") {
		t.Errorf("log name = %q", filepath.Base(files.Log))
	}
	if !strings.HasPrefix(filepath.Base(files.FixScript), "cmdrx_fix_") || !strings.HasSuffix(files.FixScript, ".sh") {
		t.Errorf("script name = %q", filepath.Base(files.FixScript))
	}

	logData, err := os.ReadFile(files.Log)
	if err != nil {
		t.Fatal(err)
	}
	logText := string(logData)
	for _, want := range []string{
		"CmdRx Analysis Log",
		"Command: systemctl status nginx",
		"Return Code: 3",
		"LLM Provider: openai",
		"LLM Model: gpt-4",
		"Response Time: 1.50s",
		"Status: ERROR",
		"Analysis: nginx is not running",
		"ISSUES IDENTIFIED",
		"1. service inactive",
		"Step 1: Check the journal",
		"  Command: journalctl -u nginx",
		"Fix 1: Start nginx",
		"  Risk Level: LOW",
		"    sudo systemctl start nginx",
		"ADDITIONAL INFORMATION",
		"Total tokens: 150",
		"RAW LLM RESPONSE",
		`{"analysis": "nginx is not running"}`,
	} {
		if !strings.Contains(logText, want) {
			t.Errorf("log missing %q", want)
		}
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(files.FixScript)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0o755 {
			t.Errorf("fix script mode = %o, want 0755", perm)
		}
	}

	scriptData, err := os.ReadFile(files.FixScript)
	if err != nil {
		t.Fatal(err)
	}
	script := string(scriptData)
	if !strings.HasPrefix(script, "#!/bin/bash\n") {
		t.Error("fix script missing shebang")
	}
	for _, want := range []string{
		"# Original Command: systemctl status nginx",
		"WARNING: This script contains suggested fixes generated by AI.",
		"set -e",
		"confirm()",
		"run_command()",
		`run_command "sudo systemctl start nginx"`,
		`run_command "echo \"done: \$HOME\""`,
		"Risk Level: ${GREEN}LOW${NC}",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("fix script missing %q", want)
		}
	}
}

func TestGenerateDryRunSkipsScript(t *testing.T) {
	gen, err := NewGenerator(t.TempDir(), true, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	result, parsed, resp := sampleInputs()
	files, err := gen.Generate(result, parsed, resp)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if files.Log == "" {
		t.Error("log should be written even in dry-run")
	}
	if files.FixScript != "" {
		t.Errorf("FixScript = %q, want none in dry-run", files.FixScript)
	}
}

func TestGenerateNoFixesNoScript(t *testing.T) {
	gen, err := NewGenerator(t.TempDir(), false, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	result, parsed, resp := sampleInputs()
	parsed.SuggestedFixes = nil
	files, err := gen.Generate(result, parsed, resp)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if files.FixScript != "" {
		t.Errorf("FixScript = %q, want none without fixes", files.FixScript)
	}
}

func TestGeneratePipedReturnCode(t *testing.T) {
	gen, err := NewGenerator(t.TempDir(), false, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	result, parsed, resp := sampleInputs()
	result.Command = executor.PipedCommand
	result.Piped = true
	parsed.SuggestedFixes = nil

	files, err := gen.Generate(result, parsed, resp)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	logData, err := os.ReadFile(files.Log)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(logData), "Return Code: N/A") {
		t.Error("piped input should record Return Code: N/A")
	}
}

func TestGenerateOmitsUsageWhenAbsent(t *testing.T) {
	gen, err := NewGenerator(t.TempDir(), false, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	result, parsed, resp := sampleInputs()
	resp.Usage = nil
	files, err := gen.Generate(result, parsed, resp)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	logData, err := os.ReadFile(files.Log)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(logData), "LLM USAGE INFORMATION") {
		t.Error("usage section should be omitted when usage is absent")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/cmdrx_logs"); got != filepath.Join(home, "cmdrx_logs") {
		t.Errorf("ExpandPath(~/cmdrx_logs) = %q", got)
	}
	if got := ExpandPath("/var/log/cmdrx"); got != "/var/log/cmdrx" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got := ExpandPath("relative/dir"); got != "relative/dir" {
		t.Errorf("relative path changed: %q", got)
	}
}
