package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kyc_audit_events_dropped_total",
		Help: "Audit events dropped because the publisher buffer was full",
	})
	sinkFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kyc_audit_sink_failures_total",
		Help: "Audit events a sink failed to persist",
	}, []string{"sink"})
)

// Sink persists audit events.
type Sink interface {
	Name() string
	Append(ctx context.Context, event Event) error
}

// Publisher captures structured audit events without blocking the request
// path: Emit enqueues, and a Worker drains the queue into the sinks.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewPublisher creates a publisher buffering up to size events.
func NewPublisher(size int, logger *slog.Logger) *Publisher {
	return &Publisher{inbox: make(chan Event, size), logger: logger}
}

// Emit enqueues event, filling in ID and Timestamp when unset. When the
// buffer is full the event is dropped and counted.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
	default:
		eventsDropped.Inc()
		p.logger.WarnContext(ctx, "audit buffer full, event dropped",
			"action", event.Action,
			"draft_id", event.DraftID,
		)
	}
}

// Inbox exposes the queue for a Worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}
