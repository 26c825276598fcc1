package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/booking-api/internal/model"
)

type Config struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPService sends appointment emails over SMTP via gomail.
type SMTPService struct {
	dialer  *gomail.Dialer
	from    string
	enabled bool
	logger  zerolog.Logger
}

func NewSMTPService(cfg Config, logger zerolog.Logger) *SMTPService {
	return &SMTPService{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		enabled: cfg.Enabled,
		logger:  logger,
	}
}

func (s *SMTPService) SendStatusEmail(_ context.Context, appointment *model.Appointment, client *model.User, status model.AppointmentStatus) error {
	if !s.enabled {
		s.logger.Debug().Msg("email notifications disabled, skipping appointment email")
		return nil
	}
	if client == nil || strings.TrimSpace(client.Email) == "" {
		s.logger.Warn().Msg("appointment client email missing, skipping appointment email")
		return nil
	}

	statusLabel := "cancelled"
	if status == model.AppointmentStatusCompleted {
		statusLabel = "completed"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\n", client.FullName)
	if status == model.AppointmentStatusCompleted {
		body.WriteString("Your appointment has been marked as completed.\n\n")
	} else {
		body.WriteString("Your appointment has been cancelled.\n\n")
	}
	body.WriteString("Appointment details:\n")
	fmt.Fprintf(&body, "Type: %s\n", appointment.ServiceName)
	fmt.Fprintf(&body, "Date: %s\n", appointment.Date.Format("2006-01-02"))
	fmt.Fprintf(&body, "Time: %s\n", appointment.Time)
	fmt.Fprintf(&body, "Location: %s\n", appointment.Location)
	if strings.TrimSpace(appointment.Notes) != "" {
		fmt.Fprintf(&body, "Notes: %s\n", appointment.Notes)
	}
	body.WriteString("\nThank you.")

	message := gomail.NewMessage()
	message.SetHeader("To", client.Email)
	message.SetHeader("Subject", "Appointment "+statusLabel)
	message.SetBody("text/plain", body.String())
	if strings.TrimSpace(s.from) != "" {
		message.SetHeader("From", s.from)
	}

	if err := s.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send appointment email: %w", err)
	}
	return nil
}
