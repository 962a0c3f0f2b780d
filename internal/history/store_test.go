package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"git.home.luguber.info/inful/wheelwright/internal/pipeline"
)

func TestStoreAppendAndRetrieve(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := t.Context()
	releaseID := "rel-1"
	payload := []byte(`{"project": "json4"}`)
	metadata := map[string]string{"key": "value"}

	if err := store.Append(ctx, releaseID, EventReleaseStarted, payload, metadata); err != nil {
		t.Fatalf("failed to append event: %v", err)
	}

	events, err := store.ByRelease(ctx, releaseID)
	if err != nil {
		t.Fatalf("failed to get events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.ReleaseID() != releaseID {
		t.Errorf("expected release_id %s, got %s", releaseID, event.ReleaseID())
	}
	if event.Type() != EventReleaseStarted {
		t.Errorf("expected event_type %s, got %s", EventReleaseStarted, event.Type())
	}
	if !bytes.Equal(event.Payload(), payload) {
		t.Errorf("expected payload %s, got %s", payload, event.Payload())
	}
	if event.Metadata()["key"] != "value" {
		t.Errorf("expected metadata key=value, got %v", event.Metadata())
	}
	if time.Since(event.Timestamp()) > time.Minute {
		t.Errorf("timestamp too old: %v", event.Timestamp())
	}
}

func TestStorePersistsToFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ctx := t.Context()
	if err := store.Append(ctx, "rel-1", EventReleaseStarted, []byte("{}"), nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopen and verify the event survived.
	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	events, err := reopened.ByRelease(ctx, "rel-1")
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 persisted event, got %d", len(events))
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestReleasesProjection(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := t.Context()

	// Completed release.
	appendOrFail := func(rel, typ string, payload []byte) {
		t.Helper()
		if err := store.Append(ctx, rel, typ, payload, nil); err != nil {
			t.Fatalf("append %s/%s: %v", rel, typ, err)
		}
	}
	appendOrFail("rel-1", EventReleaseStarted, mustJSON(t, StartedPayload{Project: "json4", Version: "1.0.1"}))
	appendOrFail("rel-1", EventReleaseCompleted, mustJSON(t, CompletedPayload{Artifacts: 1}))

	// Failed release.
	appendOrFail("rel-2", EventReleaseStarted, mustJSON(t, StartedPayload{Project: "json4", Version: "1.0.2"}))
	appendOrFail("rel-2", EventReleaseFailed, mustJSON(t, FailedPayload{Reason: "build failed"}))

	// Still-running release.
	appendOrFail("rel-3", EventReleaseStarted, mustJSON(t, StartedPayload{Project: "json4", Version: "1.0.3"}))

	releases, err := store.Releases(ctx)
	if err != nil {
		t.Fatalf("Releases() failed: %v", err)
	}
	if len(releases) != 3 {
		t.Fatalf("expected 3 releases, got %d", len(releases))
	}

	// Newest first.
	if releases[0].ReleaseID != "rel-3" || releases[2].ReleaseID != "rel-1" {
		t.Errorf("unexpected ordering: %v, %v, %v", releases[0].ReleaseID, releases[1].ReleaseID, releases[2].ReleaseID)
	}

	byID := map[string]ReleaseSummary{}
	for _, r := range releases {
		byID[r.ReleaseID] = r
	}
	if got := byID["rel-1"]; got.Status != "completed" || got.Artifacts != 1 || got.Version != "1.0.1" {
		t.Errorf("unexpected rel-1 summary: %+v", got)
	}
	if got := byID["rel-2"]; got.Status != "failed" {
		t.Errorf("unexpected rel-2 summary: %+v", got)
	}
	if got := byID["rel-3"]; got.Status != "running" {
		t.Errorf("unexpected rel-3 summary: %+v", got)
	}
}

func TestRecorderWritesLifecycle(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := t.Context()

	rec := NewRecorder(store, "rel-9")
	rec.Started(ctx, "json4", "1.0.2")
	rec.StepDone(ctx, pipeline.StepResult{Step: "build", Status: pipeline.StatusFailed, Err: errors.New("exit 1"), Duration: 120 * time.Millisecond})
	rec.Failed(ctx, errors.New("step build failed"))

	events, err := store.ByRelease(ctx, "rel-9")
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[1].Type() != EventStepCompleted {
		t.Errorf("expected StepCompleted, got %s", events[1].Type())
	}

	var step StepPayload
	if err := json.Unmarshal(events[1].Payload(), &step); err != nil {
		t.Fatalf("unmarshal step payload: %v", err)
	}
	if step.Step != "build" || step.Status != "failed" || step.Error == "" {
		t.Errorf("unexpected step payload: %+v", step)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.Started(t.Context(), "json4", "1.0.2")
	rec.Completed(t.Context(), 1)
	rec.Failed(t.Context(), nil)
}
