package appointment

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

type ReconcileOutcome string

const (
	OutcomeAssigned ReconcileOutcome = "assigned"
	OutcomeSkipped  ReconcileOutcome = "skipped"
	OutcomeFailed   ReconcileOutcome = "failed"
)

type ReconcileResult struct {
	AppointmentID uuid.UUID        `json:"appointment_id"`
	Outcome       ReconcileOutcome `json:"outcome"`
	Reason        string           `json:"reason,omitempty"`
	StaffID       *uuid.UUID       `json:"staff_id,omitempty"`
}

type ReconcileReport struct {
	Assigned int               `json:"assigned"`
	Results  []ReconcileResult `json:"results"`
}

var labelPattern = regexp.MustCompile(`[^a-z0-9]+`)

func normalizeLabel(value string) string {
	return strings.TrimSpace(labelPattern.ReplaceAllString(strings.ToLower(value), " "))
}

// ReconcileUnassigned backfills staff on appointments left without one, e.g.
// legacy rows or partially created bookings. Safe to invoke repeatedly:
// already-assigned appointments are never revisited, and the batch persist
// only touches rows still unassigned. A failure on one appointment does not
// abort the scan of the rest.
func (s *Service) ReconcileUnassigned(ctx context.Context) (*ReconcileReport, error) {
	start := time.Now()
	defer func() {
		s.metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	}()

	unassigned, err := s.appointments.ListUnassigned(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{}
	var assigned []*model.Appointment
	for _, appointment := range unassigned {
		result := s.reconcileOne(ctx, appointment)
		report.Results = append(report.Results, result)
		s.metrics.ReconcileOutcomes.WithLabelValues(string(result.Outcome)).Inc()
		if result.Outcome == OutcomeAssigned {
			report.Assigned++
			assigned = append(assigned, appointment)
		}
	}

	if err := s.appointments.AssignStaffBatch(ctx, assigned); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) reconcileOne(ctx context.Context, appointment *model.Appointment) ReconcileResult {
	result := ReconcileResult{AppointmentID: appointment.ID}

	service, err := s.resolveServiceForExisting(ctx, appointment)
	if err != nil {
		s.logger.Error(err, "failed to resolve service during reconciliation", "appointment_id", appointment.ID.String())
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		return result
	}
	if service == nil || !service.Active {
		result.Outcome = OutcomeSkipped
		result.Reason = "no active service resolvable"
		return result
	}

	staff, err := s.chooseStaff(ctx, service)
	if err != nil {
		s.logger.Error(err, "failed to choose staff during reconciliation", "appointment_id", appointment.ID.String())
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		return result
	}
	if staff == nil {
		result.Outcome = OutcomeSkipped
		result.Reason = "no eligible staff"
		return result
	}

	appointment.StaffID = &staff.ID
	if location := strings.TrimSpace(appointment.Location); location == "" || strings.EqualFold(location, "Unassigned") {
		appointment.Location = s.resolveLocation(ctx, "", service, staff)
	}
	result.Outcome = OutcomeAssigned
	result.StaffID = &staff.ID
	return result
}

// resolveServiceForExisting resolves the service of a stored appointment: by
// service id first, then by case-insensitive name match against active
// services, then by normalized-label match, in that order. Returns nil with
// no error when nothing resolves.
func (s *Service) resolveServiceForExisting(ctx context.Context, appointment *model.Appointment) (*model.Service, error) {
	if appointment.ServiceID != nil {
		service, err := s.services.Get(ctx, *appointment.ServiceID)
		if err == nil {
			return service, nil
		}
		if !apperrors.IsNotFound(err) {
			return nil, err
		}
	}

	name := strings.TrimSpace(appointment.ServiceName)
	if name == "" {
		return nil, nil
	}

	service, err := s.services.FindActiveByName(ctx, name)
	if err == nil {
		return service, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	normalized := normalizeLabel(name)
	active, err := s.services.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, candidate := range active {
		if normalizeLabel(candidate.Name) == normalized {
			return candidate, nil
		}
	}
	return nil, nil
}
