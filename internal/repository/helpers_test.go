package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/iliyamo/fixsewa/internal/config"
	"github.com/iliyamo/fixsewa/internal/database"
	"github.com/iliyamo/fixsewa/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "fixsewa.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	if err := database.Migrate(context.Background(), db, config.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *sql.DB, email string, role model.Role) model.User {
	t.Helper()
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	u := model.User{Email: email, PasswordHash: "hash", Role: role, Name: "Name " + email, Phone: "98000000"}
	if err := NewUserRepo(db).CreateTx(ctx, tx, &u); err != nil {
		_ = tx.Rollback()
		t.Fatalf("create user: %v", err)
	}
	if role == model.RoleWorker {
		p := model.WorkerProfile{UserID: u.ID, Service: "plumbing", Experience: "5 years"}
		if err := NewUserRepo(db).CreateWorkerProfileTx(ctx, tx, &p); err != nil {
			_ = tx.Rollback()
			t.Fatalf("create profile: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return u
}

func seedBooking(t *testing.T, db *sql.DB, customer model.User) model.Booking {
	t.Helper()
	b := model.Booking{
		CustomerID:    customer.ID,
		CustomerEmail: customer.Email,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		Location:      "ktm",
		LocationText:  "Kathmandu",
		Work:          "plumbing",
		WorkText:      "Plumbing",
		Date:          "2026-11-01",
	}
	if err := NewBookingRepo(db).Create(context.Background(), &b); err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

func inTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx) error) {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		t.Fatalf("tx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}
