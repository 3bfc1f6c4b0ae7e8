// Package auditlog appends tamper-evident rows to the audit_events table.
package auditlog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

type Event struct {
	OccurredAt   time.Time
	Actor        string
	Action       string
	ResourceType string
	ResourceID   string
	RequestID    string
	IP           net.IP
	UserAgent    string
	Payload      any
}

type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (e Event) Validate() error {
	switch {
	case e.OccurredAt.IsZero():
		return errors.New("occurred_at is required")
	case strings.TrimSpace(e.Actor) == "":
		return errors.New("actor is required")
	case strings.TrimSpace(e.Action) == "":
		return errors.New("action is required")
	case strings.TrimSpace(e.ResourceType) == "":
		return errors.New("resource_type is required")
	case strings.TrimSpace(e.ResourceID) == "":
		return errors.New("resource_id is required")
	}
	return nil
}

// row is the normalized form shared by the insert and the integrity digest.
type row struct {
	OccurredAt   time.Time       `json:"occurred_at"`
	Actor        string          `json:"actor"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resource_type"`
	ResourceID   string          `json:"resource_id"`
	RequestID    string          `json:"request_id,omitempty"`
	IP           string          `json:"ip,omitempty"`
	UserAgent    string          `json:"user_agent,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

func normalize(event Event) (row, error) {
	payload := event.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return row{}, fmt.Errorf("marshal payload: %w", err)
	}
	var ip string
	if event.IP != nil {
		ip = event.IP.String()
	}
	return row{
		OccurredAt:   event.OccurredAt.UTC(),
		Actor:        strings.TrimSpace(event.Actor),
		Action:       strings.TrimSpace(event.Action),
		ResourceType: strings.TrimSpace(event.ResourceType),
		ResourceID:   strings.TrimSpace(event.ResourceID),
		RequestID:    strings.TrimSpace(event.RequestID),
		IP:           ip,
		UserAgent:    strings.TrimSpace(event.UserAgent),
		Payload:      payloadJSON,
	}, nil
}

// Digest returns the hex SHA-256 stored alongside each row. It covers every
// column, so a later edit to the row no longer matches.
func Digest(event Event) (string, error) {
	r, err := normalize(event)
	if err != nil {
		return "", err
	}
	return r.digest()
}

func (r row) digest() (string, error) {
	blob, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal integrity: %w", err)
	}
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:]), nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

const insertEvent = `
INSERT INTO audit_events (
	occurred_at, actor, action, resource_type, resource_id,
	request_id, ip, user_agent, payload, integrity_sha256
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING event_id`

func Insert(ctx context.Context, q QueryRower, event Event) (int64, error) {
	if q == nil {
		return 0, errors.New("queryer is required")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := event.Validate(); err != nil {
		return 0, err
	}
	r, err := normalize(event)
	if err != nil {
		return 0, err
	}
	integrity, err := r.digest()
	if err != nil {
		return 0, err
	}

	var id int64
	err = q.QueryRowContext(ctx, insertEvent,
		r.OccurredAt,
		r.Actor,
		r.Action,
		r.ResourceType,
		r.ResourceID,
		nullable(r.RequestID),
		nullable(r.IP),
		nullable(r.UserAgent),
		[]byte(r.Payload),
		integrity,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert audit event: %w", err)
	}
	return id, nil
}
