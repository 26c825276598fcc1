package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

const serviceColumns = `id, department_id, name, description, active, created_at, updated_at`

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := fmt.Sprintf(`SELECT %s FROM services WHERE id = $1`, serviceColumns)

	var service model.Service
	err := r.db.GetContext(ctx, &service, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("service")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &service, nil
}

func (r *serviceRepository) FindActiveByName(ctx context.Context, name string) (*model.Service, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM services
		WHERE active = true AND LOWER(name) = LOWER($1)
		ORDER BY name ASC
		LIMIT 1
	`, serviceColumns)

	var service model.Service
	err := r.db.GetContext(ctx, &service, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("service")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find service by name: %w", err)
	}
	return &service, nil
}

func (r *serviceRepository) ListActive(ctx context.Context) ([]*model.Service, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM services
		WHERE active = true
		ORDER BY name ASC
	`, serviceColumns)

	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list active services: %w", err)
	}
	return services, nil
}

func (r *serviceRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.Service, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM services
		WHERE department_id = $1
		ORDER BY name ASC
	`, serviceColumns)

	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query, departmentID); err != nil {
		return nil, fmt.Errorf("failed to list services by department: %w", err)
	}
	return services, nil
}
