// Package pipeline runs the ordered release steps (clean, build, check,
// upload) and records a result per step. Two failure policies exist: abort on
// the first failure, or best-effort execution where every step runs and the
// last step's status decides the overall outcome.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/wheelwright/internal/logfields"
)

// Step is a single unit of work in a release run.
type Step interface {
	Name() string
	Run(ctx context.Context) error
}

// StepFunc adapts a function to the Step interface.
type StepFunc struct {
	name string
	fn   func(ctx context.Context) error
}

// NewStep wraps a named function as a Step.
func NewStep(name string, fn func(ctx context.Context) error) StepFunc {
	return StepFunc{name: name, fn: fn}
}

func (s StepFunc) Name() string                  { return s.name }
func (s StepFunc) Run(ctx context.Context) error { return s.fn(ctx) }

// Status describes a step's outcome.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StepResult records the outcome of one step.
type StepResult struct {
	Step     string
	Status   Status
	Err      error
	Duration time.Duration
}

// Mode selects the failure policy.
type Mode int

const (
	// ModeAbort stops at the first failed step; later steps are recorded as skipped.
	ModeAbort Mode = iota
	// ModeBestEffort runs every step regardless of failures. The final step's
	// outcome decides the run result, matching the historical shell behavior
	// where only the last command's exit status was visible.
	ModeBestEffort
)

// Runner executes steps in order.
type Runner struct {
	steps    []Step
	mode     Mode
	dryRun   bool
	onResult func(StepResult)
	id       string
}

// Option configures a Runner.
type Option func(*Runner)

// WithMode sets the failure policy.
func WithMode(mode Mode) Option { return func(r *Runner) { r.mode = mode } }

// WithDryRun logs each step without executing it.
func WithDryRun(dry bool) Option { return func(r *Runner) { r.dryRun = dry } }

// WithResultHook registers a callback invoked after every step completes.
func WithResultHook(fn func(StepResult)) Option { return func(r *Runner) { r.onResult = fn } }

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option { return func(r *Runner) { r.id = id } }

// NewRunner creates a runner over the given steps.
func NewRunner(steps []Step, opts ...Option) *Runner {
	r := &Runner{steps: steps}
	for _, opt := range opts {
		opt(r)
	}
	if r.id == "" {
		r.id = uuid.NewString()
	}
	return r
}

// ID returns the run identifier.
func (r *Runner) ID() string { return r.id }

// Run executes the steps. The returned results always contain one entry per
// step, in order. The error reflects the failure policy.
func (r *Runner) Run(ctx context.Context) ([]StepResult, error) {
	results := make([]StepResult, 0, len(r.steps))
	var abortErr error

	for _, step := range r.steps {
		if abortErr != nil {
			results = r.record(results, StepResult{Step: step.Name(), Status: StatusSkipped})
			continue
		}
		if err := ctx.Err(); err != nil {
			results = r.record(results, StepResult{Step: step.Name(), Status: StatusSkipped})
			if abortErr == nil {
				abortErr = err
			}
			continue
		}

		result := r.runStep(ctx, step)
		results = r.record(results, result)

		if result.Err != nil && r.mode == ModeAbort {
			abortErr = fmt.Errorf("step %s failed: %w", step.Name(), result.Err)
		}
	}

	if abortErr != nil {
		return results, abortErr
	}

	if r.mode == ModeBestEffort && len(results) > 0 {
		if last := results[len(results)-1]; last.Err != nil {
			return results, fmt.Errorf("step %s failed: %w", last.Step, last.Err)
		}
		return results, nil
	}

	for _, result := range results {
		if result.Err != nil {
			return results, fmt.Errorf("step %s failed: %w", result.Step, result.Err)
		}
	}
	return results, nil
}

func (r *Runner) runStep(ctx context.Context, step Step) StepResult {
	slog.Info("Running step", logfields.ReleaseID(r.id), logfields.Step(step.Name()))

	if r.dryRun {
		slog.Info("Dry run, step not executed", logfields.ReleaseID(r.id), logfields.Step(step.Name()))
		return StepResult{Step: step.Name(), Status: StatusOK}
	}

	start := time.Now()
	err := step.Run(ctx)
	elapsed := time.Since(start)

	result := StepResult{Step: step.Name(), Status: StatusOK, Duration: elapsed}
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		slog.Error("Step failed",
			logfields.ReleaseID(r.id),
			logfields.Step(step.Name()),
			logfields.DurationMS(float64(elapsed.Milliseconds())),
			logfields.Error(err))
		return result
	}

	slog.Info("Step completed",
		logfields.ReleaseID(r.id),
		logfields.Step(step.Name()),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
	return result
}

func (r *Runner) record(results []StepResult, result StepResult) []StepResult {
	if r.onResult != nil {
		r.onResult(result)
	}
	return append(results, result)
}
