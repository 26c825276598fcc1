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

func (r *departmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	query := `
		SELECT id, name, description, active, created_at
		FROM departments
		WHERE id = $1
	`
	var department model.Department
	err := r.db.GetContext(ctx, &department, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("department")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &department, nil
}
