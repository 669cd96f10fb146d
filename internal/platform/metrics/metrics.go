// Package metrics exposes Prometheus counters for form outcomes.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-signup/pkg/form"
)

// Metrics holds the form counters.
type Metrics struct {
	Submissions *prometheus.CounterVec
	Resets      prometheus.Counter
}

// New creates the counters and registers them on reg. A nil reg registers
// nowhere, which tests use.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "signup_submissions_total",
			Help: "Form submissions by resulting status",
		}, []string{"status"}),
		Resets: factory.NewCounter(prometheus.CounterOpts{
			Name: "signup_resets_total",
			Help: "Forms reset to start another registration",
		}),
	}
	for _, status := range []form.Status{form.StatusWarning, form.StatusFailure, form.StatusSuccess} {
		m.Submissions.WithLabelValues(status.String())
	}
	return m
}

// ObserveSubmit counts a submission.
func (m *Metrics) ObserveSubmit(status form.Status) {
	m.Submissions.WithLabelValues(status.String()).Inc()
}

// ObserveReset counts a reset.
func (m *Metrics) ObserveReset() {
	m.Resets.Inc()
}

// Submitted implements live.Observer.
func (m *Metrics) Submitted(_ context.Context, snap form.Snapshot) {
	m.ObserveSubmit(snap.Status)
}

// Reset implements live.Observer.
func (m *Metrics) Reset(context.Context) {
	m.ObserveReset()
}
