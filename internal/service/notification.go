package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/fixsewa/internal/model"
	"github.com/iliyamo/fixsewa/internal/repository"
)

// inboxLimit caps how many notifications a single listing returns.
const inboxLimit = 50

type NotificationService struct {
	inbox *repository.NotificationRepo
}

func NewNotificationService(db *sql.DB) *NotificationService {
	return &NotificationService{inbox: repository.NewNotificationRepo(db)}
}

// List returns the caller's most recent notifications.
func (s *NotificationService) List(ctx context.Context, p Principal, unreadOnly bool) ([]model.Notification, error) {
	if err := p.authenticated(); err != nil {
		return nil, err
	}
	out, err := s.inbox.ListByUser(ctx, p.UserID, unreadOnly, inboxLimit)
	if err != nil {
		return nil, storeErr("list notifications", err)
	}
	return out, nil
}

// MarkRead flags one notification as read.  Another user's entry is
// reported as missing.
func (s *NotificationService) MarkRead(ctx context.Context, p Principal, id uint64) error {
	if err := p.authenticated(); err != nil {
		return err
	}
	n, err := s.inbox.MarkRead(ctx, id, p.UserID)
	if err != nil {
		return storeErr("mark notification", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: notification %d", ErrNotFound, id)
	}
	return nil
}

// MarkAllRead flags every unread notification and returns how many
// changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, p Principal) (int64, error) {
	if err := p.authenticated(); err != nil {
		return 0, err
	}
	n, err := s.inbox.MarkAllRead(ctx, p.UserID)
	if err != nil {
		return 0, storeErr("mark notifications", err)
	}
	return n, nil
}
