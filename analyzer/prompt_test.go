package analyzer

import (
	"strings"
	"testing"

	"github.com/cmdrx/cmdrx/executor"
)

func TestBuildPromptExecutedCommand(t *testing.T) {
	result := &executor.Result{
		Command:  "df -h /var",
		Output:   "STDOUT:\n/dev/sda1  100G  100G  0  100% /var",
		ExitCode: 0,
	}
	info := systemInfo{OS: "linux", Arch: "amd64", Hostname: "web01", User: "ops"}

	prompt := buildPrompt(result, info)

	for _, want := range []string{
		"Command executed: df -h /var",
		"Exit code: 0 (SUCCESS)",
		"- OS: linux",
		"- Architecture: amd64",
		"- Hostname: web01",
		"- User: ops",
		"```\nSTDOUT:\n/dev/sda1  100G  100G  0  100% /var\n```",
		`"troubleshooting_steps"`,
		`"suggested_fixes"`,
		`"risk_level": "low|medium|high"`,
		"Analysis guidelines:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptFailureExitCode(t *testing.T) {
	result := &executor.Result{Command: "systemctl start nginx", Output: "STDERR:\nfailed", ExitCode: 1}
	prompt := buildPrompt(result, systemInfo{OS: "linux", Arch: "amd64"})

	if !strings.Contains(prompt, "Exit code: 1 (FAILURE)") {
		t.Error("non-zero exit should be labeled FAILURE")
	}
}

func TestBuildPromptPipedOmitsExitCode(t *testing.T) {
	result := &executor.Result{Command: executor.PipedCommand, Output: "log lines", Piped: true}
	prompt := buildPrompt(result, systemInfo{OS: "linux", Arch: "amd64"})

	if strings.Contains(prompt, "Exit code:") {
		t.Error("piped input should not carry an exit code line")
	}
	if !strings.Contains(prompt, "Command executed: "+executor.PipedCommand) {
		t.Error("piped input should record the placeholder command")
	}
}

func TestBuildPromptOmitsUnknownHostContext(t *testing.T) {
	result := &executor.Result{Command: "true", Output: "x"}
	prompt := buildPrompt(result, systemInfo{OS: "linux", Arch: "arm64"})

	if strings.Contains(prompt, "- Hostname:") || strings.Contains(prompt, "- User:") {
		t.Error("unknown hostname/user should be omitted")
	}
}

func TestCollectSystemInfo(t *testing.T) {
	info := collectSystemInfo()
	if info.OS == "" || info.Arch == "" {
		t.Errorf("info = %+v, want OS and Arch populated", info)
	}
}
