package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based release history store.
// Use ":memory:" for an in-memory database, or a file path for persistence;
// parent directories are created as needed.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create history directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS release_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		release_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		payload BLOB NOT NULL,
		metadata TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_release_id ON release_events(release_id);
	CREATE INDEX IF NOT EXISTS idx_timestamp ON release_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_event_type ON release_events(event_type);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds a new event to the store.
func (s *SQLiteStore) Append(ctx context.Context, releaseID, eventType string, payload []byte, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var metadataJSON []byte
	if metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
	}

	timestamp := time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO release_events (release_id, event_type, timestamp, payload, metadata) VALUES (?, ?, ?, ?, ?)",
		releaseID, eventType, timestamp, payload, metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

// ByRelease retrieves all events for a specific release.
func (s *SQLiteStore) ByRelease(ctx context.Context, releaseID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, release_id, event_type, timestamp, payload, metadata FROM release_events WHERE release_id = ? ORDER BY id",
		releaseID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return s.scanEvents(rows)
}

// Releases folds the event log into one summary per release.
func (s *SQLiteStore) Releases(ctx context.Context) ([]ReleaseSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, release_id, event_type, timestamp, payload, metadata FROM release_events ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events, err := s.scanEvents(rows)
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]*ReleaseSummary)
	firstSeen := make(map[string]int64)
	for _, event := range events {
		summary, ok := summaries[event.ReleaseID()]
		if !ok {
			summary = &ReleaseSummary{ReleaseID: event.ReleaseID(), Status: "running"}
			summaries[event.ReleaseID()] = summary
			firstSeen[event.ReleaseID()] = event.ID()
		}

		switch event.Type() {
		case EventReleaseStarted:
			var payload StartedPayload
			if err := json.Unmarshal(event.Payload(), &payload); err == nil {
				summary.Project = payload.Project
				summary.Version = payload.Version
			}
			summary.StartedAt = event.Timestamp()
		case EventReleaseCompleted:
			var payload CompletedPayload
			if err := json.Unmarshal(event.Payload(), &payload); err == nil {
				summary.Artifacts = payload.Artifacts
			}
			summary.Status = "completed"
			summary.FinishedAt = event.Timestamp()
		case EventReleaseFailed:
			summary.Status = "failed"
			summary.FinishedAt = event.Timestamp()
		}
	}

	result := make([]ReleaseSummary, 0, len(summaries))
	for _, summary := range summaries {
		result = append(result, *summary)
	}
	// Newest release first, by insertion order of the first event.
	sort.Slice(result, func(i, j int) bool {
		return firstSeen[result[i].ReleaseID] > firstSeen[result[j].ReleaseID]
	})
	return result, nil
}

func (s *SQLiteStore) scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var e BaseEvent
		var timestampUnix int64
		var metadataJSON []byte

		if err := rows.Scan(&e.EventID, &e.EventReleaseID, &e.EventType, &timestampUnix, &e.EventPayload, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		e.EventTimestamp = time.Unix(timestampUnix, 0)
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.EventMetadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}

		events = append(events, &e)
	}
	return events, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
