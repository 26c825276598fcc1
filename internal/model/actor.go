package model

import (
	"github.com/google/uuid"
)

// Actor is the caller identity passed explicitly into every operation.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsClient() bool {
	return a.Role == RoleClient
}
