package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/booking-api/internal/model"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

const appointmentColumns = `id, client_id, staff_id, service_id, service_name, date, "time", location, status, notes, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, client_id, staff_id, service_id, service_name,
			date, "time", location, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.ClientID,
		appointment.StaffID,
		appointment.ServiceID,
		appointment.ServiceName,
		appointment.Date,
		appointment.Time,
		appointment.Location,
		appointment.Status,
		appointment.Notes,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// Update persists every mutable field. Concurrent writers to the same
// appointment are last-write-wins; there is no optimistic locking.
func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET staff_id = $1, service_id = $2, service_name = $3, date = $4,
			"time" = $5, location = $6, status = $7, notes = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.db.ExecContext(ctx, query,
		appointment.StaffID,
		appointment.ServiceID,
		appointment.ServiceName,
		appointment.Date,
		appointment.Time,
		appointment.Location,
		appointment.Status,
		appointment.Notes,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments ORDER BY date ASC, "time" ASC`, appointmentColumns)

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM appointments
		WHERE client_id = $1
		ORDER BY date ASC, "time" ASC
	`, appointmentColumns)

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, clientID); err != nil {
		return nil, fmt.Errorf("failed to list appointments by client: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByServices(ctx context.Context, serviceIDs []uuid.UUID) ([]*model.Appointment, error) {
	if len(serviceIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM appointments
		WHERE service_id = ANY($1)
		ORDER BY date ASC, "time" ASC
	`, appointmentColumns)

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, pq.Array(serviceIDs)); err != nil {
		return nil, fmt.Errorf("failed to list appointments by services: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListUnassigned(ctx context.Context) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM appointments
		WHERE staff_id IS NULL
		ORDER BY created_at ASC
	`, appointmentColumns)

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query); err != nil {
		return nil, fmt.Errorf("failed to list unassigned appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountByStaff(ctx context.Context, staffID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE staff_id = $1`

	var count int64
	if err := r.db.GetContext(ctx, &count, query, staffID); err != nil {
		return 0, fmt.Errorf("failed to count appointments by staff: %w", err)
	}
	return count, nil
}

// AssignStaffBatch persists reconciliation results in one transaction. The
// staff_id IS NULL guard keeps a concurrent assignment from being clobbered.
func (r *appointmentRepository) AssignStaffBatch(ctx context.Context, appointments []*model.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE appointments
		SET staff_id = $1, location = $2, updated_at = $3
		WHERE id = $4 AND staff_id IS NULL
	`
	now := time.Now()
	for _, appointment := range appointments {
		if _, err := tx.ExecContext(ctx, query,
			appointment.StaffID,
			appointment.Location,
			now,
			appointment.ID,
		); err != nil {
			return fmt.Errorf("failed to assign staff to appointment %s: %w", appointment.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignments: %w", err)
	}
	return nil
}
