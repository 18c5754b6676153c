// Package audit records auth lifecycle events into Elasticsearch. The
// trail is fire-and-forget: indexing failures are logged and never affect
// the session operation that produced the event.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"

	"trainhub-session/internal/common/config"
	"trainhub-session/internal/common/logger"
)

type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventLogout         EventType = "logout"
	EventForcedLogout   EventType = "forced_logout"
)

// Event is one auth lifecycle occurrence.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Email     string    `json:"email,omitempty"`
	UserID    int64     `json:"userId,omitempty"`
	Role      string    `json:"role,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Trail indexes events. A disabled trail (zero value or nil client) is
// valid and drops everything silently.
type Trail struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

// NewTrail creates the Elasticsearch-backed trail. A disabled config
// yields an inert trail.
func NewTrail(cfg config.AuditConfig, log logger.Logger) (*Trail, error) {
	if !cfg.Enabled {
		return &Trail{logger: log}, nil
	}

	esCfg := elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
	}
	if cfg.Elasticsearch.Username != "" {
		esCfg.Username = cfg.Elasticsearch.Username
		esCfg.Password = cfg.Elasticsearch.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, err
	}

	return &Trail{client: es, index: cfg.Elasticsearch.Index, logger: log}, nil
}

// NewTrailWithClient wraps an existing client, used by tests.
func NewTrailWithClient(client *elasticsearch.Client, index string, log logger.Logger) *Trail {
	return &Trail{client: client, index: index, logger: log}
}

// Record indexes one event. Missing ID and timestamp are filled in.
func (t *Trail) Record(ctx context.Context, event Event) {
	if t == nil || t.client == nil {
		return
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.logger.Warn("failed to encode audit event", map[string]interface{}{
			"eventType": string(event.Type),
			"error":     err.Error(),
		})
		return
	}

	res, err := t.client.Index(
		t.index,
		bytes.NewReader(data),
		t.client.Index.WithDocumentID(event.ID),
		t.client.Index.WithContext(ctx),
	)
	if err != nil {
		t.logger.Warn("failed to index audit event", map[string]interface{}{
			"eventType": string(event.Type),
			"error":     err.Error(),
		})
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		t.logger.Warn("audit event rejected", map[string]interface{}{
			"eventType": string(event.Type),
			"status":    res.Status(),
		})
	}
}
