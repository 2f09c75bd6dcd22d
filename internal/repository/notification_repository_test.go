package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/iliyamo/fixsewa/internal/model"
)

func TestNotificationInbox(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "u@example.com", model.RoleCustomer)
	other := seedUser(t, db, "o@example.com", model.RoleCustomer)
	repo := NewNotificationRepo(db)
	ctx := context.Background()

	var first model.Notification
	inTx(t, db, func(tx *sql.Tx) error {
		first = model.Notification{UserID: u.ID, Title: "Booking created", Message: "m1"}
		if err := repo.CreateTx(ctx, tx, &first); err != nil {
			return err
		}
		n := model.Notification{UserID: u.ID, Title: "Assigned", Message: "m2", Type: model.NotifySuccess}
		return repo.CreateTx(ctx, tx, &n)
	})
	if first.Type != model.NotifyInfo {
		t.Fatalf("default type = %q, want info", first.Type)
	}

	list, err := repo.ListByUser(ctx, u.ID, false, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Assigned" || list[0].IsRead {
		t.Fatalf("list = %+v", list)
	}

	if n, err := repo.MarkRead(ctx, first.ID, other.ID); err != nil || n != 0 {
		t.Fatalf("mark by other = %d, %v; want 0, nil", n, err)
	}
	if n, err := repo.MarkRead(ctx, first.ID, u.ID); err != nil || n != 1 {
		t.Fatalf("mark = %d, %v; want 1, nil", n, err)
	}
	unread, err := repo.ListByUser(ctx, u.ID, true, 10)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(unread) != 1 || unread[0].Title != "Assigned" {
		t.Fatalf("unread = %+v", unread)
	}
	if n, err := repo.MarkAllRead(ctx, u.ID); err != nil || n != 1 {
		t.Fatalf("mark all = %d, %v; want 1, nil", n, err)
	}
	unread, _ = repo.ListByUser(ctx, u.ID, true, 10)
	if len(unread) != 0 {
		t.Fatalf("unread after mark all = %+v", unread)
	}
}

func TestRefreshTokenLifecycle(t *testing.T) {
	db := openTestDB(t)
	u := seedUser(t, db, "u@example.com", model.RoleWorker)
	repo := NewTokenRepo(db)
	ctx := context.Background()

	if err := repo.StoreRefresh(ctx, u.ID, "hash-a", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := repo.StoreRefresh(ctx, u.ID, "hash-old", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("store expired: %v", err)
	}
	id, err := repo.ValidateRefresh(ctx, "hash-a")
	if err != nil || id != u.ID {
		t.Fatalf("validate = %d, %v; want %d, nil", id, err, u.ID)
	}
	if _, err := repo.ValidateRefresh(ctx, "hash-old"); err != sql.ErrNoRows {
		t.Fatalf("expired err = %v, want sql.ErrNoRows", err)
	}
	if n, err := repo.RevokeByHash(ctx, "hash-a"); err != nil || n != 1 {
		t.Fatalf("revoke = %d, %v; want 1, nil", n, err)
	}
	if n, err := repo.RevokeByHash(ctx, "hash-a"); err != nil || n != 0 {
		t.Fatalf("second revoke = %d, %v; want 0, nil", n, err)
	}
	if _, err := repo.ValidateRefresh(ctx, "hash-a"); err != sql.ErrNoRows {
		t.Fatalf("revoked err = %v, want sql.ErrNoRows", err)
	}
}
