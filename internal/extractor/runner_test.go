package extractor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"subhook/internal/logging"
)

func swapCommandContext(t *testing.T, mode string, captured *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if captured != nil {
			*captured = append([]string{name}, args...)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "SUBHOOK_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestRunnerRequiresTargetPath(t *testing.T) {
	runner := NewRunner("/scripts/extractor.sh", logging.NewNop())
	if _, err := runner.Run(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty target path")
	}
}

func TestRunnerCapturesStdoutOnSuccess(t *testing.T) {
	var captured []string
	swapCommandContext(t, "success", &captured)

	runner := NewRunner("/scripts/extractor.sh", logging.NewNop())
	result, err := runner.Run(context.Background(), "/data/movie.mkv")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", result.ExitCode)
	}
	if !strings.Contains(result.Stdout, "done") {
		t.Fatalf("expected stdout to contain script output, got %q", result.Stdout)
	}
	want := []string{"/scripts/extractor.sh", "/data/movie.mkv"}
	if len(captured) != len(want) || captured[0] != want[0] || captured[1] != want[1] {
		t.Fatalf("expected invocation %v, got %v", want, captured)
	}
}

func TestRunnerReportsNonZeroExit(t *testing.T) {
	swapCommandContext(t, "failure", nil)

	runner := NewRunner("/scripts/extractor.sh", logging.NewNop())
	result, err := runner.Run(context.Background(), "/data/movie.mkv")
	if err != nil {
		t.Fatalf("expected non-zero exit to be reported via Result, got error: %v", err)
	}
	if result.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "no subtitle streams") {
		t.Fatalf("expected stderr diagnostics, got %q", result.Stderr)
	}
	if !strings.Contains(result.Stdout, "scanning") {
		t.Fatalf("expected partial stdout, got %q", result.Stdout)
	}
}

func TestRunnerReportsInvocationFailure(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "/nonexistent/subhook-script")
	}
	t.Cleanup(func() {
		commandContext = original
	})

	runner := NewRunner("/nonexistent/subhook-script", logging.NewNop())
	if _, err := runner.Run(context.Background(), "/data/movie.mkv"); err == nil {
		t.Fatal("expected error when the script cannot be started")
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("SUBHOOK_HELPER_MODE") {
	case "success":
		fmt.Fprintln(os.Stdout, "done")
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stdout, "scanning streams")
		fmt.Fprintln(os.Stderr, "no subtitle streams found")
		os.Exit(3)
	}
	os.Exit(0)
}
