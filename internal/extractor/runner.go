// Package extractor invokes the external subtitle-extraction script and
// captures its outcome.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"log/slog"

	"github.com/google/uuid"

	"subhook/internal/logging"
)

var commandContext = exec.CommandContext

// Result captures one completed script invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes the configured extraction script with a target path as its
// sole argument. Invocations are synchronous and have no timeout.
type Runner struct {
	script string
	logger *slog.Logger
}

// NewRunner constructs a Runner for the given script path.
func NewRunner(script string, logger *slog.Logger) *Runner {
	return &Runner{
		script: script,
		logger: logging.NewComponentLogger(logger, "extractor"),
	}
}

// Script returns the configured script path.
func (r *Runner) Script() string {
	return r.script
}

// Run invokes the script for targetPath and blocks until it exits. A non-zero
// exit status is reported through Result, not the error: the error return is
// reserved for invocations that could not run at all. Captured stdout and
// stderr are always duplicated to the operational log.
func (r *Runner) Run(ctx context.Context, targetPath string) (Result, error) {
	if strings.TrimSpace(targetPath) == "" {
		return Result{}, errors.New("target path is required")
	}

	invocationID := uuid.NewString()
	r.logger.Info("executing extraction script",
		logging.String("script", r.script),
		logging.String("path", targetPath),
		logging.String("invocation_id", invocationID))

	var stdout, stderr bytes.Buffer
	cmd := commandContext(ctx, r.script, targetPath) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		r.logger.Error("extraction script could not be run",
			logging.String("invocation_id", invocationID),
			logging.Error(err))
		return Result{}, err
	}

	r.logger.Info("script stdout",
		logging.String("invocation_id", invocationID),
		logging.String("output", result.Stdout))
	if result.Stderr != "" {
		r.logger.Warn("script stderr",
			logging.String("invocation_id", invocationID),
			logging.String("output", result.Stderr))
	}
	if result.ExitCode != 0 {
		r.logger.Warn("extraction script exited non-zero",
			logging.String("invocation_id", invocationID),
			logging.Int("exit_code", result.ExitCode))
	}

	return result, nil
}
