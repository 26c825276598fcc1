package appointment

import (
	"fmt"
	"time"

	"github.com/jwalitptl/booking-api/internal/model"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

// validateSlot enforces the working-day and working-hours policy. Pure:
// it looks only at the candidate date and time.
func (s *Service) validateSlot(date time.Time, timeOfDay model.TimeOfDay) error {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return apperrors.Validation("weekend appointments are not allowed, please choose Monday to Friday")
	}
	if timeOfDay.Before(s.hours.Start) || timeOfDay.After(s.hours.End) {
		return apperrors.Validation(fmt.Sprintf("appointment time must be within working hours (%s - %s)",
			s.hours.Start, s.hours.End))
	}
	return nil
}
