package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the application module.
// Tracks draft edits, submission outcomes and webhook latency.
type Metrics struct {
	DraftActions   *prometheus.CounterVec
	Submissions    *prometheus.CounterVec
	SubmitDuration prometheus.Histogram
}

// New creates the application metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DraftActions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_draft_actions_total",
			Help: "Draft mutations by action",
		}, []string{"action"}),
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kyc_submissions_total",
			Help: "Submission attempts by outcome",
		}, []string{"outcome"}),
		SubmitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "kyc_submit_duration_seconds",
			Help:    "Duration of the webhook submission round trip",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// IncrementDraftAction records one draft mutation.
func (m *Metrics) IncrementDraftAction(action string) {
	m.DraftActions.WithLabelValues(action).Inc()
}

// ObserveSubmission records the outcome and duration of a submission.
// Call with time.Now() taken before the webhook call.
func (m *Metrics) ObserveSubmission(outcome string, start time.Time) {
	m.Submissions.WithLabelValues(outcome).Inc()
	m.SubmitDuration.Observe(time.Since(start).Seconds())
}
