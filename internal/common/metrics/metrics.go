// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransitionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transitions_applied_total",
			Help: "Total number of status transitions applied",
		},
		[]string{"from", "to"},
	)

	TransitionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transitions_rejected_total",
			Help: "Total number of rejected transition attempts",
		},
		[]string{"reason"},
	)

	DisbursementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_disbursements_total",
			Help: "Total number of disbursement attempts by result",
		},
		[]string{"result"},
	)

	DisbursementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "workflow_disbursement_duration_seconds",
			Help: "Duration of disbursement processing in seconds",
		},
	)

	AdvisoryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_advisory_requests_total",
			Help: "Total number of advisory analysis requests by result",
		},
		[]string{"result"},
	)
)
