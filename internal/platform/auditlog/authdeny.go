package auditlog

import (
	"context"
	"net"
	"strings"

	"github.com/animus-labs/animus-views/internal/platform/auth"
)

// DenyEvent maps an authentication or authorization denial onto an audit
// row attributed to service.
func DenyEvent(service string, event auth.DenyEvent) Event {
	actor := strings.TrimSpace(event.Subject)
	if actor == "" {
		actor = "anonymous"
	}
	var ip net.IP
	if host, _, err := net.SplitHostPort(event.RemoteAddr); err == nil {
		ip = net.ParseIP(host)
	}
	return Event{
		OccurredAt:   event.Time,
		Actor:        actor,
		Action:       "auth." + strings.TrimSpace(event.Reason),
		ResourceType: "http",
		ResourceID:   event.Method + " " + event.Path,
		RequestID:    event.RequestID,
		IP:           ip,
		UserAgent:    event.UserAgent,
		Payload: map[string]any{
			"service": service,
			"status":  event.Status,
			"reason":  event.Reason,
			"error":   event.Error,
			"email":   event.Email,
			"roles":   event.Roles,
		},
	}
}

// DenyRecorder returns an auth.AuditFunc that persists denials through q.
func DenyRecorder(q QueryRower, service string) auth.AuditFunc {
	return func(ctx context.Context, event auth.DenyEvent) error {
		_, err := Insert(ctx, q, DenyEvent(service, event))
		return err
	}
}
