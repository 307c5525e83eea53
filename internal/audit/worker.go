package audit

import (
	"context"
	"log/slog"
)

// Worker drains published events into every sink. A failing sink is logged
// and counted; it never stops delivery to the others.
type Worker struct {
	sinks  []Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(inbox <-chan Event, logger *slog.Logger, sinks ...Sink) *Worker {
	return &Worker{sinks: sinks, inbox: inbox, logger: logger}
}

// Run delivers events until ctx is cancelled, then flushes whatever is
// already queued using a context that is no longer cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			return ctx.Err()
		case event := <-w.inbox:
			w.deliver(ctx, event)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case event := <-w.inbox:
			w.deliver(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) deliver(ctx context.Context, event Event) {
	for _, sink := range w.sinks {
		if err := sink.Append(ctx, event); err != nil {
			sinkFailures.WithLabelValues(sink.Name()).Inc()
			w.logger.ErrorContext(ctx, "audit sink failed",
				"sink", sink.Name(),
				"action", event.Action,
				"draft_id", event.DraftID,
				"error", err,
			)
		}
	}
}
