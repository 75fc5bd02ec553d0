// Package metrics exposes Prometheus collectors for sessions and
// submissions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-intake/pkg/submission"
)

// Metrics holds the intake collectors.
type Metrics struct {
	SessionsStarted    *prometheus.CounterVec
	Answers            *prometheus.CounterVec
	Submissions        *prometheus.CounterVec
	SubmissionDuration prometheus.Histogram
}

var _ submission.Observer = (*Metrics)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_sessions_started_total",
			Help: "Total number of questionnaire sessions started, by locale.",
		}, []string{"locale"}),
		Answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_answers_total",
			Help: "Total number of accepted answers, by question.",
		}, []string{"question"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Total number of submission attempts, by outcome and failing stage.",
		}, []string{"outcome", "stage"}),
		SubmissionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "intake_submission_duration_seconds",
			Help:    "Duration of submission attempts.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.SessionsStarted, m.Answers, m.Submissions, m.SubmissionDuration)
	}
	return m
}

// SessionStarted increments the started counter.
func (m *Metrics) SessionStarted(locale string) {
	m.SessionsStarted.WithLabelValues(locale).Inc()
}

// AnswerRecorded increments the per-question answer counter.
func (m *Metrics) AnswerRecorded(questionID string) {
	m.Answers.WithLabelValues(questionID).Inc()
}

// ObserveSubmission records one pipeline attempt.
func (m *Metrics) ObserveSubmission(outcome submission.Outcome, stage submission.Stage, elapsed time.Duration) {
	m.Submissions.WithLabelValues(string(outcome), string(stage)).Inc()
	m.SubmissionDuration.Observe(elapsed.Seconds())
}
