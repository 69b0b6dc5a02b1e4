// Package metrics counts punch outcomes for the /metrics endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lahirunirmalx/cOrange/internal/punch"
)

type Recorder struct {
	registry *prometheus.Registry
	outcomes *prometheus.CounterVec
	rejected prometheus.Counter
}

func NewRecorder(namespace string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "punch_outcomes_total",
			Help:      "Attendance submissions by status and failure reason.",
		}, []string{"status", "reason"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "punch_duplicate_dispatch_total",
			Help:      "Punch-out events ignored because the cycle was already running.",
		}),
	}
	r.registry.MustRegister(r.outcomes, r.rejected)
	return r
}

// Notify counts one outcome.
func (r *Recorder) Notify(outcome punch.Outcome) {
	r.outcomes.WithLabelValues(outcome.Status.String(), string(outcome.Reason)).Inc()
}

// DuplicateDispatch counts a dispatch the dispatcher refused.
func (r *Recorder) DuplicateDispatch() {
	r.rejected.Inc()
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
