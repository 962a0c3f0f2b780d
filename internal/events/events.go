// Package events publishes release lifecycle events to NATS JetStream so
// other systems (CI dashboards, notification bots) can react to releases.
// The publisher is optional; when disabled the rest of the pipeline never
// touches NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/wheelwright/internal/config"
	"git.home.luguber.info/inful/wheelwright/internal/logfields"
)

// Event type names used as subject suffixes.
const (
	TypeStarted   = "started"
	TypeCompleted = "completed"
	TypeFailed    = "failed"
)

// ReleaseEvent is the payload published for every lifecycle transition.
type ReleaseEvent struct {
	ReleaseID string    `json:"release_id"`
	Project   string    `json:"project"`
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Time      time.Time `json:"time"`
	Detail    string    `json:"detail,omitempty"`
}

// SubjectFor builds the publish subject for an event type.
func SubjectFor(base, eventType string) string {
	return base + "." + eventType
}

// Publisher manages the NATS connection and JetStream context.
type Publisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewPublisher connects to NATS and ensures the release event stream exists.
func NewPublisher(cfg *config.EventsConfig) (*Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("release events are disabled")
	}

	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        cfg.Stream,
		Description: "Wheelwright release events",
		Subjects:    []string{cfg.Subject + ".>"},
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}

	slog.Info("NATS release event publisher initialized",
		slog.String("url", cfg.URL),
		slog.String("subject", cfg.Subject),
		slog.String("stream", cfg.Stream))

	return &Publisher{conn: conn, js: js, subject: cfg.Subject}, nil
}

// Publish emits one release event. Failures are returned, not retried;
// callers treat event publishing as best effort.
func (p *Publisher) Publish(ctx context.Context, event ReleaseEvent) error {
	if event.Time.IsZero() {
		event.Time = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal release event: %w", err)
	}

	subject := SubjectFor(p.subject, event.Type)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}

	slog.Debug("Published release event",
		logfields.ReleaseID(event.ReleaseID),
		slog.String("subject", subject))
	return nil
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		slog.Warn("Failed to drain NATS connection", logfields.Error(err))
	}
}
