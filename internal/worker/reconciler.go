package worker

import (
	"context"
	"time"

	"github.com/jwalitptl/booking-api/internal/service/appointment"
	"github.com/jwalitptl/booking-api/pkg/logger"
)

// Reconciler periodically sweeps unassigned appointments.
type Reconciler struct {
	service  *appointment.Service
	interval time.Duration
	logger   *logger.Logger
}

func NewReconciler(service *appointment.Service, interval time.Duration, log *logger.Logger) *Reconciler {
	return &Reconciler{
		service:  service,
		interval: interval,
		logger:   log,
	}
}

// Run sweeps immediately, then on every tick until the context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reconciler) sweep(ctx context.Context) {
	report, err := r.service.ReconcileUnassigned(ctx)
	if err != nil {
		r.logger.Error(err, "reconciliation sweep failed")
		return
	}
	r.logger.Info("reconciliation sweep finished",
		"assigned", report.Assigned,
		"scanned", len(report.Results))
}
