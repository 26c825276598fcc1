package email

import (
	"context"

	"github.com/jwalitptl/booking-api/internal/model"
)

type Service interface {
	SendStatusEmail(ctx context.Context, appointment *model.Appointment, client *model.User, status model.AppointmentStatus) error
}
