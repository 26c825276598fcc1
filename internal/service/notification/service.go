package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
	"github.com/jwalitptl/booking-api/pkg/logger"
	"github.com/jwalitptl/booking-api/pkg/messaging"
)

const channelNotifications = "notifications"

// Service records in-app notifications and fans them out on the broker.
type Service interface {
	Notify(ctx context.Context, userID uuid.UUID, kind model.NotificationType, title, message string) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
}

type service struct {
	repo   repository.NotificationRepository
	broker messaging.Broker
	logger *logger.Logger
}

// NewService creates a notification service. The broker may be nil, in which
// case notifications are stored but not published.
func NewService(repo repository.NotificationRepository, broker messaging.Broker, log *logger.Logger) Service {
	return &service{
		repo:   repo,
		broker: broker,
		logger: log,
	}
}

func (s *service) Notify(ctx context.Context, userID uuid.UUID, kind model.NotificationType, title, message string) error {
	notification := &model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		Read:      false,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	if s.broker == nil {
		return nil
	}
	event := &model.NotificationEvent{
		ID:             uuid.New(),
		NotificationID: notification.ID,
		UserID:         userID,
		Type:           kind,
		Title:          title,
		Message:        message,
		CreatedAt:      notification.CreatedAt,
	}
	if err := s.broker.Publish(ctx, channelNotifications, event); err != nil {
		// The stored row is the source of truth; a missed publish only delays
		// delivery until the next poll.
		s.logger.Error(err, "failed to publish notification event", "notification_id", notification.ID.String())
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	return s.repo.ListForUser(ctx, userID)
}
