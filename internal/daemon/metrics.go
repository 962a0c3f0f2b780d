package daemon

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes watch-mode counters through a dedicated Prometheus registry.
type Metrics struct {
	registry *prom.Registry

	buildsTotal       prom.Counter
	buildsFailedTotal prom.Counter
	buildDuration     prom.Histogram
	lastBuildUnix     prom.Gauge
}

// NewMetrics creates and registers the watch-mode metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prom.NewRegistry(),
		buildsTotal: prom.NewCounter(prom.CounterOpts{
			Namespace: "wheelwright", Name: "builds_total",
			Help: "Total rebuilds triggered in watch mode",
		}),
		buildsFailedTotal: prom.NewCounter(prom.CounterOpts{
			Namespace: "wheelwright", Name: "builds_failed_total",
			Help: "Failed rebuilds in watch mode",
		}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "wheelwright", Name: "build_duration_seconds",
			Help:    "Rebuild duration in seconds",
			Buckets: prom.ExponentialBuckets(0.1, 2, 12),
		}),
		lastBuildUnix: prom.NewGauge(prom.GaugeOpts{
			Namespace: "wheelwright", Name: "last_build_timestamp_seconds",
			Help: "Unix timestamp of the most recent rebuild attempt",
		}),
	}

	m.registry.MustRegister(m.buildsTotal, m.buildsFailedTotal, m.buildDuration, m.lastBuildUnix)
	m.registry.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	return m
}

// ObserveBuild records one rebuild attempt.
func (m *Metrics) ObserveBuild(elapsed time.Duration, err error) {
	m.buildsTotal.Inc()
	if err != nil {
		m.buildsFailedTotal.Inc()
	}
	m.buildDuration.Observe(elapsed.Seconds())
	m.lastBuildUnix.SetToCurrentTime()
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
