package audit

import (
	"context"
	"log/slog"
)

// LogSink writes events to the structured log. It is always wired, so the
// audit trail exists even without Postgres or Kafka.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Append(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "audit",
		"event_id", event.ID,
		"action", event.Action,
		"draft_id", event.DraftID,
		"reason", event.Reason,
		"request_id", event.RequestID,
		"client", event.Client,
		"timestamp", event.Timestamp,
	)
	return nil
}
