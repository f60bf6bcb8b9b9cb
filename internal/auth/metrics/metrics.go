// Package metrics exposes session lifecycle counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts session events. It satisfies service.SessionObserver.
type Recorder struct {
	registry    *prometheus.Registry
	created     prometheus.Counter
	refreshed   *prometheus.CounterVec
	invalidated prometheus.Counter
}

// New registers the session counters plus the Go and process collectors on a
// private registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sessiond",
			Name:      "sessions_created_total",
			Help:      "Sessions created by a successful login.",
		}),
		refreshed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sessiond",
			Name:      "session_refresh_total",
			Help:      "Refresh attempts by outcome.",
		}, []string{"result"}),
		invalidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sessiond",
			Name:      "sessions_invalidated_total",
			Help:      "Sessions removed by logout.",
		}),
	}

	r.registry.MustRegister(
		r.created,
		r.refreshed,
		r.invalidated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) SessionCreated() { r.created.Inc() }

func (r *Recorder) SessionRefreshed(result string) {
	r.refreshed.WithLabelValues(result).Inc()
}

func (r *Recorder) SessionInvalidated() { r.invalidated.Inc() }

// Registry returns the underlying registry, for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
