package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dtroode/admissions-server/internal/model"
)

// Metrics holds Prometheus collectors for provisioning and notification fan-out.
type Metrics struct {
	Provisioned          *prometheus.CounterVec
	ProvisioningFailures *prometheus.CounterVec
	Compensations        *prometheus.CounterVec
	AllocationAttempts   prometheus.Histogram
	NotificationsSent    *prometheus.CounterVec
	BatchFailures        prometheus.Counter
	DispatchRecipients   prometheus.Histogram
	RPCRequests          *prometheus.CounterVec
}

// New registers collectors on reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Provisioned: f.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_identities_provisioned_total",
			Help: "Total number of identities provisioned, by role",
		}, []string{"role"}),
		ProvisioningFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_provisioning_failures_total",
			Help: "Total number of provisioning attempts that failed after the identity was created, by step",
		}, []string{"step"}),
		Compensations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_compensations_total",
			Help: "Total number of compensating identity deletions, by outcome",
		}, []string{"outcome"}),
		AllocationAttempts: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "admissions_id_allocation_attempts",
			Help:    "Number of compare-and-swap attempts needed per business id allocation",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 25},
		}),
		NotificationsSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_notifications_total",
			Help: "Total number of notification tokens processed, by outcome",
		}, []string{"outcome"}),
		BatchFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "admissions_notification_batches_failed_total",
			Help: "Total number of multicast batches that failed at transport level",
		}),
		DispatchRecipients: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "admissions_dispatch_recipients",
			Help:    "Number of resolved recipients per dispatch",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		RPCRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_grpc_requests_total",
			Help: "Total number of unary gRPC requests, by method and status code",
		}, []string{"method", "code"}),
	}
}

// ObserveDispatch records the outcome of one fan-out run.
func (m *Metrics) ObserveDispatch(report model.DispatchReport) {
	m.DispatchRecipients.Observe(float64(report.Recipients))
	m.NotificationsSent.WithLabelValues("attempted").Add(float64(report.Attempted))
	m.NotificationsSent.WithLabelValues("delivered").Add(float64(report.Delivered))
	m.NotificationsSent.WithLabelValues("failed").Add(float64(report.Failed))
}
