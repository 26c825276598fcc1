// Package appointment implements the booking core: slot validation,
// staff eligibility and assignment, the appointment lifecycle and the
// reconciliation sweep over unassigned appointments.
//
// Known gap: nothing here prevents double-booking a staff member at the same
// date and time; callers must not rely on slot exclusivity.
package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/logger"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

const dateLayout = "2006-01-02"

// Notifier delivers in-app notifications. Failures are logged and dropped,
// never surfaced to callers.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind model.NotificationType, title, message string) error
}

// EmailSender delivers status emails. Same fire-and-forget contract as Notifier.
type EmailSender interface {
	SendStatusEmail(ctx context.Context, appointment *model.Appointment, client *model.User, status model.AppointmentStatus) error
}

// Hours is the working-hours window appointments must fall into.
type Hours struct {
	Start model.TimeOfDay
	End   model.TimeOfDay
}

func DefaultHours() Hours {
	return Hours{
		Start: model.NewTimeOfDay(8, 0),
		End:   model.NewTimeOfDay(17, 0),
	}
}

type Service struct {
	appointments    repository.AppointmentRepository
	users           repository.UserRepository
	departments     repository.DepartmentRepository
	services        repository.ServiceRepository
	notifier        Notifier
	email           EmailSender
	metrics         *metrics.Metrics
	logger          *logger.Logger
	hours           Hours
	defaultLocation string
	now             func() time.Time
}

func NewService(
	appointments repository.AppointmentRepository,
	users repository.UserRepository,
	departments repository.DepartmentRepository,
	services repository.ServiceRepository,
	notifier Notifier,
	email EmailSender,
	m *metrics.Metrics,
	log *logger.Logger,
	hours Hours,
	defaultLocation string,
) *Service {
	return &Service{
		appointments:    appointments,
		users:           users,
		departments:     departments,
		services:        services,
		notifier:        notifier,
		email:           email,
		metrics:         m,
		logger:          log,
		hours:           hours,
		defaultLocation: defaultLocation,
		now:             time.Now,
	}
}

// Create books a new appointment for the acting user, auto-assigning staff
// when none is requested. Creation fails outright when no staff is eligible.
func (s *Service) Create(ctx context.Context, actor model.Actor, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.Date))
	}
	timeOfDay, err := model.ParseTimeOfDay(req.Time)
	if err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("invalid time %q, expected HH:MM", req.Time))
	}
	if err := s.validateSlot(date, timeOfDay); err != nil {
		return nil, err
	}

	service, err := s.resolveService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	staff, err := s.resolveAssignedStaff(ctx, req.StaffID, service)
	if err != nil {
		return nil, err
	}
	location := s.resolveLocation(ctx, req.Location, service, staff)

	now := s.now()
	appointment := &model.Appointment{
		ID:          uuid.New(),
		ClientID:    actor.ID,
		StaffID:     &staff.ID,
		ServiceID:   &service.ID,
		ServiceName: service.Name,
		Date:        date,
		Time:        timeOfDay,
		Location:    location,
		Status:      model.AppointmentStatusPending,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	s.metrics.AppointmentsCreated.Inc()

	s.notify(ctx, appointment.ClientID, model.NotificationTypeConfirmation,
		"Appointment Submitted",
		fmt.Sprintf("Your %s appointment on %s at %s has been submitted and is pending review.",
			service.Name, date.Format(dateLayout), timeOfDay))

	return appointment, nil
}

// Get returns an appointment, restricting clients to their own bookings.
func (s *Service) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsClient() && appointment.ClientID != actor.ID {
		return nil, apperrors.Permission("not allowed to view this appointment")
	}
	return appointment, nil
}

// ListForActor returns the appointments visible to the caller: everything for
// admins, the staff member's service or department scope for staff, and own
// bookings for clients.
func (s *Service) ListForActor(ctx context.Context, actor model.Actor) ([]*model.Appointment, error) {
	switch actor.Role {
	case model.RoleAdmin:
		return s.appointments.List(ctx)
	case model.RoleStaff:
		return s.listForStaffScope(ctx, actor.ID)
	default:
		return s.appointments.ListByClient(ctx, actor.ID)
	}
}

func (s *Service) listForStaffScope(ctx context.Context, staffID uuid.UUID) ([]*model.Appointment, error) {
	staff, err := s.users.Get(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff.ServiceID != nil {
		return s.appointments.ListByServices(ctx, []uuid.UUID{*staff.ServiceID})
	}
	if staff.DepartmentID != nil {
		services, err := s.services.ListByDepartment(ctx, *staff.DepartmentID)
		if err != nil {
			return nil, err
		}
		serviceIDs := make([]uuid.UUID, 0, len(services))
		for _, service := range services {
			serviceIDs = append(serviceIDs, service.ID)
		}
		return s.appointments.ListByServices(ctx, serviceIDs)
	}
	return nil, nil
}

// Update applies a partial patch to an appointment. Status changes emit one
// client notification, plus an email when the new status is completed or
// cancelled; both side effects are fire-and-forget. Any status may be set
// from any prior status.
func (s *Service) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsClient() && appointment.ClientID != actor.ID {
		return nil, apperrors.Permission("not allowed to modify this appointment")
	}

	previous := appointment.Status
	var requested *model.AppointmentStatus
	if v := strVal(req.Status); v != "" {
		status := model.AppointmentStatus(strings.ToLower(strings.TrimSpace(v)))
		if !status.Valid() {
			return nil, apperrors.Validation(fmt.Sprintf("invalid status %q", v))
		}
		appointment.Status = status
		requested = &status
	}

	slotChanged := false
	if v := strVal(req.Date); v != "" {
		date, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, apperrors.Validation(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", v))
		}
		appointment.Date = date
		slotChanged = true
	}
	if v := strVal(req.Time); v != "" {
		timeOfDay, err := model.ParseTimeOfDay(v)
		if err != nil {
			return nil, apperrors.Validation(fmt.Sprintf("invalid time %q, expected HH:MM", v))
		}
		appointment.Time = timeOfDay
		slotChanged = true
	}
	if slotChanged {
		if err := s.validateSlot(appointment.Date, appointment.Time); err != nil {
			return nil, err
		}
	}

	if v := strVal(req.Location); v != "" {
		appointment.Location = v
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	if v := strVal(req.StaffID); v != "" {
		if err := s.applyStaffPatch(ctx, appointment, v); err != nil {
			return nil, err
		}
	}

	// Best-effort auto-heal: fill the assignment opportunistically when the
	// appointment is still unassigned. Finding nobody is not an error.
	if appointment.StaffID == nil && appointment.ServiceID != nil {
		if service, err := s.services.Get(ctx, *appointment.ServiceID); err == nil {
			if staff, err := s.chooseStaff(ctx, service); err == nil && staff != nil {
				appointment.StaffID = &staff.ID
			}
		}
	}

	appointment.UpdatedAt = s.now()
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, err
	}

	if requested != nil && *requested != previous {
		s.metrics.StatusTransitions.WithLabelValues(string(*requested)).Inc()
		if *requested == model.AppointmentStatusCompleted || *requested == model.AppointmentStatusCancelled {
			s.sendStatusEmail(ctx, appointment, *requested)
		}
		s.notifyStatusChange(ctx, appointment, *requested)
	}

	return appointment, nil
}

func (s *Service) applyStaffPatch(ctx context.Context, appointment *model.Appointment, staffID string) error {
	id, err := uuid.Parse(staffID)
	if err != nil {
		return apperrors.Validation("invalid staff id")
	}
	staff, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}
	if appointment.ServiceID == nil {
		return apperrors.Validation("appointment has no service to validate staff against")
	}
	service, err := s.services.Get(ctx, *appointment.ServiceID)
	if err != nil {
		return err
	}
	if staff.Role != model.RoleStaff || !staff.Active {
		return apperrors.Validation("staff user not available")
	}
	belongs, err := s.belongsTo(ctx, staff, service)
	if err != nil {
		return err
	}
	if !belongs {
		return apperrors.Validation("selected staff does not belong to the service department")
	}
	appointment.StaffID = &staff.ID
	return nil
}

func (s *Service) resolveService(ctx context.Context, serviceID string) (*model.Service, error) {
	if strings.TrimSpace(serviceID) == "" {
		return nil, apperrors.Validation("service is required")
	}
	id, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, apperrors.Validation("invalid service id")
	}
	service, err := s.services.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !service.Active {
		return nil, apperrors.Validation("selected service is not available")
	}
	return service, nil
}

func (s *Service) resolveAssignedStaff(ctx context.Context, staffID string, service *model.Service) (*model.User, error) {
	if strings.TrimSpace(staffID) != "" {
		id, err := uuid.Parse(staffID)
		if err != nil {
			return nil, apperrors.Validation("invalid staff id")
		}
		staff, err := s.users.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if staff.Role != model.RoleStaff || !staff.Active {
			return nil, apperrors.Validation("staff user not available")
		}
		belongs, err := s.belongsTo(ctx, staff, service)
		if err != nil {
			return nil, err
		}
		if !belongs {
			return nil, apperrors.Validation("selected staff does not belong to the service department")
		}
		s.metrics.AssignmentDecisions.WithLabelValues("explicit").Inc()
		return staff, nil
	}

	staff, err := s.chooseStaff(ctx, service)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		s.metrics.AssignmentDecisions.WithLabelValues("none").Inc()
		return nil, apperrors.NoEligibleStaff("no active staff available in the selected service department")
	}
	s.metrics.AssignmentDecisions.WithLabelValues("auto").Inc()
	return staff, nil
}

func (s *Service) resolveLocation(ctx context.Context, requested string, service *model.Service, staff *model.User) string {
	if strings.TrimSpace(requested) != "" {
		return requested
	}
	if staff != nil && strings.TrimSpace(staff.Department) != "" {
		return staff.Department
	}
	if department, err := s.departments.Get(ctx, service.DepartmentID); err == nil {
		return department.Name
	}
	return s.defaultLocation
}

func (s *Service) notifyStatusChange(ctx context.Context, appointment *model.Appointment, status model.AppointmentStatus) {
	var (
		title   string
		message string
		kind    model.NotificationType
	)
	switch status {
	case model.AppointmentStatusConfirmed, model.AppointmentStatusScheduled:
		title = "Appointment Approved"
		message = fmt.Sprintf("Your %s appointment on %s at %s has been approved.",
			appointment.ServiceName, appointment.Date.Format(dateLayout), appointment.Time)
		kind = model.NotificationTypeConfirmation
	case model.AppointmentStatusCompleted:
		title = "Appointment Completed"
		message = fmt.Sprintf("Your %s appointment on %s was marked as completed.",
			appointment.ServiceName, appointment.Date.Format(dateLayout))
		kind = model.NotificationTypeInfo
	case model.AppointmentStatusCancelled:
		title = "Appointment Rejected"
		message = fmt.Sprintf("Your %s appointment on %s at %s was rejected/cancelled.",
			appointment.ServiceName, appointment.Date.Format(dateLayout), appointment.Time)
		kind = model.NotificationTypeAlert
	default:
		title = "Appointment Updated"
		message = fmt.Sprintf("Your %s appointment status changed to %s.",
			appointment.ServiceName, status)
		kind = model.NotificationTypeInfo
	}
	s.notify(ctx, appointment.ClientID, kind, title, message)
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, kind model.NotificationType, title, message string) {
	if err := s.notifier.Notify(ctx, userID, kind, title, message); err != nil {
		s.metrics.NotificationFailures.Inc()
		s.logger.Error(err, "failed to send notification", "user_id", userID.String())
	}
}

func (s *Service) sendStatusEmail(ctx context.Context, appointment *model.Appointment, status model.AppointmentStatus) {
	client, err := s.users.Get(ctx, appointment.ClientID)
	if err != nil {
		s.metrics.EmailFailures.Inc()
		s.logger.Error(err, "failed to load client for status email", "appointment_id", appointment.ID.String())
		return
	}
	if err := s.email.SendStatusEmail(ctx, appointment, client, status); err != nil {
		s.metrics.EmailFailures.Inc()
		s.logger.Error(err, "failed to send status email", "appointment_id", appointment.ID.String())
	}
}

func strVal(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
