package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleClient Role = "client"
)

// User is a directory record for admins, staff and clients alike.
// Legacy staff rows may carry only a free-text department name, or only a
// service id, instead of a department id; the eligibility rules in the
// appointment service tolerate all three shapes.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	FullName     string     `db:"full_name" json:"full_name"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	Department   string     `db:"department" json:"department,omitempty"`
	DepartmentID *uuid.UUID `db:"department_id" json:"department_id,omitempty"`
	ServiceID    *uuid.UUID `db:"service_id" json:"service_id,omitempty"`
	Phone        string     `db:"phone" json:"phone,omitempty"`
	Active       bool       `db:"active" json:"active"`
	CreatedAt    *time.Time `db:"created_at" json:"created_at,omitempty"`
}
