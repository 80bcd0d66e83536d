// Package metrics exposes Prometheus collectors for audits.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "a11ygrade"
)

var (
	AuditsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audits_total",
		Help:      "Count of audits by analysis mode and resulting grade.",
	}, []string{"mode", "grade"})

	FindingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "findings_total",
		Help:      "Count of findings reported, by rule and severity.",
	}, []string{"rule", "severity"})

	AuditDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_duration_seconds",
		Help:      "Time taken to audit one submission.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"mode"})

	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Count of audit API requests by response status.",
	}, []string{"status"})
)
