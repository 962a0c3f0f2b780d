// Package history persists release pipeline events in a local SQLite store
// and projects them into per-release summaries.
package history

import (
	"context"
)

// Store defines the interface for persisting and retrieving release events.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, releaseID, eventType string, payload []byte, metadata map[string]string) error

	// ByRelease retrieves all events for a specific release, oldest first.
	ByRelease(ctx context.Context, releaseID string) ([]Event, error)

	// Releases projects the event log into one summary per release, newest
	// release first.
	Releases(ctx context.Context) ([]ReleaseSummary, error)

	// Close closes the store and releases resources.
	Close() error
}
