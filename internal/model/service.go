package model

import (
	"time"

	"github.com/google/uuid"
)

// Service is a bookable catalog entry belonging to a department.
type Service struct {
	ID           uuid.UUID `db:"id" json:"id"`
	DepartmentID uuid.UUID `db:"department_id" json:"department_id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
