package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/fixsewa/internal/model"
	"github.com/iliyamo/fixsewa/internal/repository"
)

// notify queues an inbox entry inside tx so it commits or rolls back
// together with the change it describes.
func notify(ctx context.Context, tx *sql.Tx, repo *repository.NotificationRepo, userID uint64, typ model.NotificationType, title, format string, args ...any) error {
	n := model.Notification{
		UserID:  userID,
		Title:   title,
		Message: fmt.Sprintf(format, args...),
		Type:    typ,
	}
	if err := repo.CreateTx(ctx, tx, &n); err != nil {
		return storeErr("create notification", err)
	}
	return nil
}
