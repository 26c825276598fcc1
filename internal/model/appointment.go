package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is a known status value.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusScheduled,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment is one booking. StaffID is nil while the appointment is
// unassigned; ServiceName is the denormalized service label kept for legacy
// rows whose service id no longer resolves.
type Appointment struct {
	ID          uuid.UUID         `db:"id" json:"id"`
	ClientID    uuid.UUID         `db:"client_id" json:"client_id"`
	StaffID     *uuid.UUID        `db:"staff_id" json:"staff_id,omitempty"`
	ServiceID   *uuid.UUID        `db:"service_id" json:"service_id,omitempty"`
	ServiceName string            `db:"service_name" json:"service_name"`
	Date        time.Time         `db:"date" json:"date"`
	Time        TimeOfDay         `db:"time" json:"time"`
	Location    string            `db:"location" json:"location"`
	Status      AppointmentStatus `db:"status" json:"status"`
	Notes       string            `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

type CreateAppointmentRequest struct {
	ServiceID string `json:"service_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required,dateonly"`
	Time      string `json:"time" binding:"required,timeofday"`
	Location  string `json:"location"`
	Notes     string `json:"notes"`
	StaffID   string `json:"staff_id" binding:"omitempty,uuid"`
}

// UpdateAppointmentRequest carries a partial patch. Nil fields are left
// untouched; an empty Notes pointer clears the notes, while empty strings in
// the other fields are treated as absent.
type UpdateAppointmentRequest struct {
	Status   *string `json:"status"`
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
	StaffID  *string `json:"staff_id"`
}
