package history

import (
	"context"
	"encoding/json"
	"log/slog"

	"git.home.luguber.info/inful/wheelwright/internal/logfields"
	"git.home.luguber.info/inful/wheelwright/internal/pipeline"
)

// Recorder translates pipeline progress into history events. Recording
// failures are logged, never propagated: a broken history database must not
// block a release.
type Recorder struct {
	store     Store
	releaseID string
}

// NewRecorder creates a recorder for one release run.
func NewRecorder(store Store, releaseID string) *Recorder {
	return &Recorder{store: store, releaseID: releaseID}
}

func (r *Recorder) append(ctx context.Context, eventType string, payload any) {
	if r == nil || r.store == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("Failed to marshal history payload", logfields.ReleaseID(r.releaseID), logfields.Error(err))
		return
	}
	if err := r.store.Append(ctx, r.releaseID, eventType, data, nil); err != nil {
		slog.Warn("Failed to record history event", logfields.ReleaseID(r.releaseID), logfields.Error(err))
	}
}

// Started records the beginning of a release.
func (r *Recorder) Started(ctx context.Context, project, version string) {
	r.append(ctx, EventReleaseStarted, StartedPayload{Project: project, Version: version})
}

// StepDone records one finished pipeline step.
func (r *Recorder) StepDone(ctx context.Context, result pipeline.StepResult) {
	payload := StepPayload{
		Step:       result.Step,
		Status:     string(result.Status),
		DurationMS: result.Duration.Milliseconds(),
	}
	if result.Err != nil {
		payload.Error = result.Err.Error()
	}
	r.append(ctx, EventStepCompleted, payload)
}

// Completed records a successful release.
func (r *Recorder) Completed(ctx context.Context, artifacts int) {
	r.append(ctx, EventReleaseCompleted, CompletedPayload{Artifacts: artifacts})
}

// Failed records a failed release.
func (r *Recorder) Failed(ctx context.Context, reason error) {
	payload := FailedPayload{}
	if reason != nil {
		payload.Reason = reason.Error()
	}
	r.append(ctx, EventReleaseFailed, payload)
}
