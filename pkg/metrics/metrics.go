package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Booking metrics
	AppointmentsCreated prometheus.Counter
	StatusTransitions   *prometheus.CounterVec
	AssignmentDecisions *prometheus.CounterVec

	// Reconciliation metrics
	ReconcileOutcomes *prometheus.CounterVec
	ReconcileDuration prometheus.Histogram

	// Side effect metrics
	NotificationFailures prometheus.Counter
	EmailFailures        prometheus.Counter
}

// New creates and registers all application metrics against reg.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AppointmentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Total number of appointments created",
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_status_transitions_total",
			Help:      "Appointment status transitions by new status",
		}, []string{"status"}),
		AssignmentDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staff_assignment_decisions_total",
			Help:      "Staff assignment decisions by outcome",
		}, []string{"outcome"}),
		ReconcileOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_appointments_total",
			Help:      "Reconciliation sweep per-appointment outcomes",
		}, []string{"outcome"}),
		ReconcileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_sweep_duration_seconds",
			Help:      "Time spent running one reconciliation sweep",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Total number of dropped client notifications",
		}),
		EmailFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_failures_total",
			Help:      "Total number of dropped status emails",
		}),
	}
}
