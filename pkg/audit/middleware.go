// Package audit provides middleware for auditing authenticated HTTP requests
package audit

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/tendant/simple-account/pkg/client"
)

// Sink receives audit events
type Sink interface {
	Send(ctx context.Context, event Event)
}

// Config holds the configuration for the audit middleware
type Config struct {
	// Source specifies the source of the audit events
	Source string
	// EventType specifies the type of audit events
	EventType string
	// Sink receives the events; events are logged with slog when nil
	Sink Sink
}

// Middleware handles HTTP request auditing
type Middleware struct {
	config Config
	now    func() time.Time
}

// NewMiddleware creates a new audit middleware instance
func NewMiddleware(config Config) *Middleware {
	if config.Source == "" {
		config.Source = "accountd"
	}
	if config.EventType == "" {
		config.EventType = "audit.account.request"
	}
	if config.Sink == nil {
		config.Sink = SlogSink{Logger: slog.Default()}
	}
	return &Middleware{config: config, now: time.Now}
}

// Event represents an audit event
type Event struct {
	Source    string
	Type      string
	UserID    uuid.UUID
	Email     string
	URI       string
	Method    string
	Status    int
	Message   string
	Timestamp time.Time
	Metadata  map[string]interface{}
}

// WithMetadata adds metadata to the audit event
func (e Event) WithMetadata(key string, value interface{}) Event {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// Handler records who made each request and how it ended. It must run after
// client.AuthMiddleware. A nil Middleware passes requests through.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event := Event{
			Source:    m.config.Source,
			Type:      m.config.EventType,
			URI:       r.RequestURI,
			Method:    r.Method,
			Timestamp: m.now(),
		}

		if caller, ok := client.CallerFromContext(r.Context()); ok {
			event.UserID = caller.Account.ID
			event.Email = caller.Account.Email
		} else {
			event.Message = "No jwt token"
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		event.Status = ww.Status()
		if event.Status == 0 {
			event.Status = http.StatusOK
		}
		if requestID := middleware.GetReqID(r.Context()); requestID != "" {
			event = event.WithMetadata("request_id", requestID)
		}
		m.config.Sink.Send(r.Context(), event)
	})
}

// SlogSink writes audit events as structured log records
type SlogSink struct {
	Logger *slog.Logger
}

func (s SlogSink) Send(ctx context.Context, event Event) {
	userID := ""
	if event.UserID != uuid.Nil {
		userID = event.UserID.String()
	}
	s.Logger.InfoContext(ctx, "audit",
		"source", event.Source,
		"type", event.Type,
		"user", userID,
		"email", event.Email,
		"method", event.Method,
		"uri", event.URI,
		"status", event.Status,
		"message", event.Message,
		"timestamp", event.Timestamp.Format(time.RFC3339),
		"metadata", event.Metadata,
	)
}
