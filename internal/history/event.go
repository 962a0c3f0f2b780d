package history

import "time"

// Event types recorded for a release.
const (
	EventReleaseStarted   = "ReleaseStarted"
	EventStepCompleted    = "StepCompleted"
	EventReleaseCompleted = "ReleaseCompleted"
	EventReleaseFailed    = "ReleaseFailed"
)

// Event represents a domain event in the release pipeline.
type Event interface {
	// ID returns the unique identifier for this event.
	ID() int64
	// ReleaseID returns the release identifier this event belongs to.
	ReleaseID() string
	// Type returns the event type name.
	Type() string
	// Timestamp returns when the event occurred.
	Timestamp() time.Time
	// Payload returns the event data as bytes.
	Payload() []byte
	// Metadata returns optional event metadata.
	Metadata() map[string]string
}

// BaseEvent provides a default implementation of Event.
type BaseEvent struct {
	EventID        int64
	EventReleaseID string
	EventType      string
	EventTimestamp time.Time
	EventPayload   []byte
	EventMetadata  map[string]string
}

func (e *BaseEvent) ID() int64                   { return e.EventID }
func (e *BaseEvent) ReleaseID() string           { return e.EventReleaseID }
func (e *BaseEvent) Type() string                { return e.EventType }
func (e *BaseEvent) Timestamp() time.Time        { return e.EventTimestamp }
func (e *BaseEvent) Payload() []byte             { return e.EventPayload }
func (e *BaseEvent) Metadata() map[string]string { return e.EventMetadata }

// StartedPayload is the payload of a ReleaseStarted event.
type StartedPayload struct {
	Project string `json:"project"`
	Version string `json:"version"`
}

// StepPayload is the payload of a StepCompleted event.
type StepPayload struct {
	Step       string `json:"step"`
	Status     string `json:"status"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// CompletedPayload is the payload of a ReleaseCompleted event.
type CompletedPayload struct {
	Artifacts int `json:"artifacts"`
}

// FailedPayload is the payload of a ReleaseFailed event.
type FailedPayload struct {
	Reason string `json:"reason"`
}

// ReleaseSummary is the projected one-row-per-release view used by the
// history command.
type ReleaseSummary struct {
	ReleaseID  string
	Project    string
	Version    string
	Status     string // running, completed, failed
	Artifacts  int
	StartedAt  time.Time
	FinishedAt time.Time
}
