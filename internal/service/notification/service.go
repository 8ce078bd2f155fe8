// internal/service/notification/service.go
package notification

import (
	"context"
	"fmt"

	"kynix-service/internal/domain/notification"
	"kynix-service/internal/realtime"

	"go.uber.org/zap"
)

// Store is the persistence surface for notifications.
type Store interface {
	Create(ctx context.Context, n *notification.Notification) error
	ListByUser(ctx context.Context, userID int64, filters *notification.ListFilters) ([]notification.Notification, int64, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}

// NotificationService persists notifications and hands them to the realtime
// dispatcher. The dispatch leg is fire-and-forget: persistence is the record,
// the push is a best-effort hint to a connected client.
type NotificationService struct {
	store      Store
	dispatcher *realtime.Dispatcher
	logger     *zap.Logger
}

func NewNotificationService(store Store, dispatcher *realtime.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateAndPush persists a notification, then dispatches it to the target
// user's live channel if one exists.
func (s *NotificationService) CreateAndPush(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	n := &notification.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
		Data:    req.Data,
	}
	if n.Type == "" {
		n.Type = notification.TypeSystem
	}

	if err := s.store.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.dispatcher.Dispatch(n.UserID, n)

	return n, nil
}

// List returns a page of the user's notifications plus the unread count.
func (s *NotificationService) List(ctx context.Context, userID int64, filters *notification.ListFilters) (*notification.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	items, total, err := s.store.ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.store.UnreadCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread: %w", err)
	}

	return &notification.ListResponse{
		Notifications: items,
		Total:         total,
		UnreadCount:   unread,
		Page:          filters.Page,
		PageSize:      filters.PageSize,
	}, nil
}

// UnreadCount returns the user's unread notification count.
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.store.UnreadCount(ctx, userID)
}

// MarkAsRead marks one of the user's notifications as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID int64) error {
	return s.store.MarkAsRead(ctx, id, userID)
}

// MarkAllAsRead marks every unread notification of the user as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.store.MarkAllAsRead(ctx, userID)
}
