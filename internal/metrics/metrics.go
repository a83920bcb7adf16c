// Package metrics exposes Prometheus counters for commands and scans.
package metrics

import (
	"net/http"
	"time"

	"github.com/CosmoTheDev/rekt-terminal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rekt"

// Scan outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Collector owns a private registry so tests and multiple gateways do not
// collide on the global one.
type Collector struct {
	registry *prometheus.Registry

	commands *prometheus.CounterVec
	scans    *prometheus.CounterVec
	findings *prometheus.CounterVec
	duration prometheus.Histogram
}

// New creates a Collector with Go and process collectors registered.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := &Collector{
		registry: reg,
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Terminal commands dispatched, by command name.",
		}, []string{"command"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Contract scans, by outcome.",
		}, []string{"outcome"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_findings",
			Help:      "Findings reported by scans, by severity.",
		}, []string{"severity"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall time of a scan including the simulated delay.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10},
		}),
	}
	reg.MustRegister(c.commands, c.scans, c.findings, c.duration)
	return c
}

// CommandDispatched counts one dispatched command.
func (c *Collector) CommandDispatched(name string) {
	c.commands.WithLabelValues(name).Inc()
}

// ScanCompleted records a successful scan.
func (c *Collector) ScanCompleted(report *models.SecurityReport, elapsed time.Duration) {
	c.scans.WithLabelValues(OutcomeOK).Inc()
	c.duration.Observe(elapsed.Seconds())
	for sev, n := range report.SeverityCounts() {
		c.findings.WithLabelValues(string(sev)).Add(float64(n))
	}
}

// ScanFailed records a scan that returned an error.
func (c *Collector) ScanFailed() {
	c.scans.WithLabelValues(OutcomeFailed).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: false,
	})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
