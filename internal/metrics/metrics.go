// Package metrics exposes Prometheus instruments for the core operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts payment submissions by outcome.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paybot_submissions_total",
		Help: "Payment submissions, by outcome.",
	}, []string{"outcome"})

	// AuditsTotal counts audit requests by outcome.
	AuditsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paybot_audits_total",
		Help: "Audit requests, by outcome.",
	}, []string{"outcome"})

	// AuditDuration observes end-to-end audit latency.
	AuditDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "paybot_audit_duration_seconds",
		Help:    "End-to-end audit latency.",
		Buckets: prometheus.DefBuckets,
	})

	// MirroredTotal counts records mirrored to the external sheet.
	MirroredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paybot_mirrored_total",
		Help: "Payments mirrored to the sheet, by outcome.",
	}, []string{"outcome"})
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)
