package executor

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunCapturesStdout(t *testing.T) {
	result, err := Run(context.Background(), "echo hello", 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
	if !strings.HasPrefix(result.Output, "STDOUT:\n") || !strings.Contains(result.Output, "hello") {
		t.Errorf("Output = %q, want labeled stdout section", result.Output)
	}
	if result.Command != "echo hello" || result.Piped {
		t.Errorf("Command/Piped = %q/%t", result.Command, result.Piped)
	}
}

func TestRunCapturesStderrAndExitCode(t *testing.T) {
	result, err := Run(context.Background(), "echo oops >&2; exit 3", 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
	if !strings.Contains(result.Output, "STDERR:\noops") {
		t.Errorf("Output = %q, want labeled stderr section", result.Output)
	}
	if strings.Contains(result.Output, "STDOUT:") {
		t.Errorf("Output = %q, stdout section should be absent when empty", result.Output)
	}
}

func TestRunBothStreams(t *testing.T) {
	result, err := Run(context.Background(), "echo out; echo err >&2", 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(result.Output, "STDOUT:\nout") || !strings.Contains(result.Output, "STDERR:\nerr") {
		t.Errorf("Output = %q, want both sections", result.Output)
	}
}

func TestRunTimeout(t *testing.T) {
	_, err := Run(context.Background(), "sleep 5", 100*time.Millisecond)
	if err == nil {
		t.Fatal("Run returned nil error for a timed-out command")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %v, want timeout message", err)
	}
}

func TestEmpty(t *testing.T) {
	if !(&Result{Output: "  \n\t"}).Empty() {
		t.Error("whitespace-only output should be empty")
	}
	if (&Result{Output: "STDOUT:\nx"}).Empty() {
		t.Error("non-blank output reported empty")
	}
}

func TestReadPiped(t *testing.T) {
	result, err := ReadPiped(strings.NewReader("some log lines\n"))
	if err != nil {
		t.Fatalf("ReadPiped: %v", err)
	}
	if result.Command != PipedCommand {
		t.Errorf("Command = %q, want %q", result.Command, PipedCommand)
	}
	if !result.Piped {
		t.Error("Piped = false")
	}
	if result.Output != "some log lines\n" {
		t.Errorf("Output = %q", result.Output)
	}
}
