// Package events publishes unresolved-link events to NATS so downstream
// tooling (issue creation, dashboards) can react to broken documentation
// links without polling build output.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/devopslaunch/siteforge/internal/diag"
	"github.com/devopslaunch/siteforge/internal/logfields"
)

// UnresolvedLinkEvent is the wire payload for one broken internal link.
type UnresolvedLinkEvent struct {
	BuildID    string    `json:"build_id"`
	SourcePath string    `json:"source_path"`
	Detail     string    `json:"detail"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher sends build events over a NATS connection.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// Connect dials NATS and returns a publisher for the given subject.
func Connect(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	slog.Info("Connected to NATS", logfields.URL(url), logfields.Name(subject))
	return &Publisher{conn: conn, subject: subject}, nil
}

// PublishUnresolved emits one event per unresolved-link diagnostic in the
// report and flushes the connection. Other diagnostic kinds are skipped.
func (p *Publisher) PublishUnresolved(buildID string, report *diag.Report) error {
	now := time.Now().UTC()
	published := 0
	for _, d := range report.Diagnostics {
		if d.Kind != diag.KindUnresolvedLink {
			continue
		}
		payload, err := json.Marshal(UnresolvedLinkEvent{
			BuildID:    buildID,
			SourcePath: d.Path,
			Detail:     d.Detail,
			Timestamp:  now,
		})
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		if err := p.conn.Publish(p.subject, payload); err != nil {
			return fmt.Errorf("publish event: %w", err)
		}
		published++
	}
	if published > 0 {
		if err := p.conn.Flush(); err != nil {
			return fmt.Errorf("flush events: %w", err)
		}
		slog.Info("Published unresolved link events", logfields.BuildID(buildID), logfields.Count(published))
	}
	return nil
}

// Close drains the connection so buffered messages flush, closing it once
// the drain completes. A failed drain falls back to an immediate close.
func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		slog.Warn("Failed to drain NATS connection", logfields.Error(err))
		p.conn.Close()
	}
}
