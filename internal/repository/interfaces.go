package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository handles directory lookups over admins, staff and clients.
	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		ListActiveStaffByDepartmentID(ctx context.Context, departmentID uuid.UUID) ([]*model.User, error)
		ListActiveStaffByDepartmentName(ctx context.Context, name string) ([]*model.User, error)
		ListActiveStaff(ctx context.Context) ([]*model.User, error)
	}

	DepartmentRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Department, error)
	}

	// ServiceRepository handles service catalog lookups.
	ServiceRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
		FindActiveByName(ctx context.Context, name string) (*model.Service, error)
		ListActive(ctx context.Context) ([]*model.Service, error)
		ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.Service, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context) ([]*model.Appointment, error)
		ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.Appointment, error)
		ListByServices(ctx context.Context, serviceIDs []uuid.UUID) ([]*model.Appointment, error)
		ListUnassigned(ctx context.Context) ([]*model.Appointment, error)
		CountByStaff(ctx context.Context, staffID uuid.UUID) (int64, error)
		AssignStaffBatch(ctx context.Context, appointments []*model.Appointment) error
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
	}
)
