// Package buildtool invokes the external build backend (by default
// `python -m build --wheel`) that produces the wheel distribution.
package buildtool

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"git.home.luguber.info/inful/wheelwright/internal/logfields"
)

// Runner executes the configured build command in the project root.
type Runner struct {
	Dir     string        // working directory, project root
	Command []string      // argv, first element is the binary
	Timeout time.Duration // 0 means no timeout
	Env     []string      // extra KEY=VALUE entries appended to the process env
	Stdout  io.Writer
	Stderr  io.Writer
}

// New creates a Runner for the given project root and argv.
func New(dir string, command []string) *Runner {
	return &Runner{Dir: dir, Command: command}
}

// CommandString renders an argv for logs and error messages.
func CommandString(argv []string) string { return strings.Join(argv, " ") }

// Run executes the build command, streaming its output. The returned error
// wraps the tool's exit status; the caller decides whether it gates the rest
// of the pipeline.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.Command) == 0 {
		return fmt.Errorf("build command not configured")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Command[0], r.Command[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	slog.Info("Invoking build backend", logfields.Command(CommandString(r.Command)), logfields.Path(r.Dir))

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("build command %q timed out after %s", CommandString(r.Command), r.Timeout)
		}
		return fmt.Errorf("build command %q failed: %w", CommandString(r.Command), err)
	}

	slog.Info("Build backend finished",
		logfields.Command(CommandString(r.Command)),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}
