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

const userColumns = `id, email, full_name, password_hash, role, department, department_id, service_id, phone, active, created_at`

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(email) = LOWER($1)`, userColumns)

	var user model.User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) ListActiveStaffByDepartmentID(ctx context.Context, departmentID uuid.UUID) ([]*model.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = $1 AND active = true AND department_id = $2
		ORDER BY created_at ASC NULLS LAST, id ASC
	`, userColumns)

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, model.RoleStaff, departmentID); err != nil {
		return nil, fmt.Errorf("failed to list staff by department id: %w", err)
	}
	return users, nil
}

func (r *userRepository) ListActiveStaffByDepartmentName(ctx context.Context, name string) ([]*model.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = $1 AND active = true AND LOWER(TRIM(department)) = LOWER(TRIM($2))
		ORDER BY created_at ASC NULLS LAST, id ASC
	`, userColumns)

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, model.RoleStaff, name); err != nil {
		return nil, fmt.Errorf("failed to list staff by department name: %w", err)
	}
	return users, nil
}

func (r *userRepository) ListActiveStaff(ctx context.Context) ([]*model.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = $1 AND active = true
		ORDER BY created_at ASC NULLS LAST, id ASC
	`, userColumns)

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, model.RoleStaff); err != nil {
		return nil, fmt.Errorf("failed to list active staff: %w", err)
	}
	return users, nil
}
