package notification

import (
	"context"

	"pet_rescue_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for notification business logic.
// Enqueue is the write side of the outbox; delivery happens in the
// dispatcher job, never inline.
type Service interface {
	Enqueue(ctx context.Context, userID *uuid.UUID, notifType Type, message string, payload Payload) (*Notification, error)
	GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error)
	MarkNotificationAsRead(ctx context.Context, notificationID, userID uuid.UUID) error
	MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ServiceImplementation implements the notification Service interface.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger.Named("notification-service"),
	}
}

var _ Service = (*ServiceImplementation)(nil)

// Enqueue persists an outbox row. Callers treat a returned error as
// log-and-continue; a failed enqueue must never fail the operation that
// triggered it.
func (s *ServiceImplementation) Enqueue(ctx context.Context, userID *uuid.UUID, notifType Type, message string, payload Payload) (*Notification, error) {
	notif := &Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
		Payload: payload,
		IsRead:  false,
	}
	if err := s.repo.Create(ctx, notif); err != nil {
		s.logger.Error("Failed to enqueue notification",
			zap.String("type", string(notifType)),
			zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not create notification.")
	}
	s.logger.Debug("Notification enqueued",
		zap.String("notificationID", notif.ID.String()),
		zap.String("type", string(notifType)))
	return notif, nil
}

// GetNotificationsForUser returns a page of a user's notifications.
func (s *ServiceImplementation) GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error) {
	notifications, pagination, err := s.repo.GetByUserID(ctx, userID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to get notifications for user", zap.String("userID", userID.String()), zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve notifications.")
	}
	return notifications, pagination, nil
}

// MarkNotificationAsRead marks one notification read for its owner.
func (s *ServiceImplementation) MarkNotificationAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	err := s.repo.MarkAsRead(ctx, notificationID, userID)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		s.logger.Error("Failed to mark notification as read",
			zap.String("notificationID", notificationID.String()),
			zap.Error(err))
		return common.ErrInternalServer.WithDetails("Could not mark notification as read.")
	}
	return nil
}

// MarkAllUserNotificationsAsRead marks every unread notification read.
func (s *ServiceImplementation) MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to mark all notifications as read", zap.String("userID", userID.String()), zap.Error(err))
		return 0, common.ErrInternalServer.WithDetails("Could not mark notifications as read.")
	}
	return count, nil
}
