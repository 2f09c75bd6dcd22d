package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/iliyamo/fixsewa/internal/config"
	"github.com/iliyamo/fixsewa/internal/database"
	"github.com/iliyamo/fixsewa/internal/model"
)

type fixture struct {
	db       *sql.DB
	identity *IdentityService
	bookings *BookingService
	reviews  *ReviewService
	inbox    *NotificationService
	catalog  *CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Config{
		DBDriver:       config.DriverSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "fixsewa.db"),
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}
	db, err := database.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &fixture{
		db:       db,
		identity: NewIdentityService(db, cfg),
		bookings: NewBookingService(db),
		reviews:  NewReviewService(db),
		inbox:    NewNotificationService(db),
		catalog:  NewCatalogService(db),
	}
}

func (f *fixture) signup(t *testing.T, email string, role model.Role) Principal {
	t.Helper()
	in := SignupInput{Email: email, Password: "secret-pass", Role: string(role), Name: "User " + email, Phone: "9800000000"}
	if role == model.RoleWorker {
		in.Service = "plumbing"
		in.Experience = "3 years"
	}
	u, err := f.identity.CreateUser(context.Background(), in)
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return Principal{UserID: u.ID, Role: u.Role}
}

func (f *fixture) book(t *testing.T, p Principal) model.Booking {
	t.Helper()
	b, err := f.bookings.CreateBooking(context.Background(), p, BookingInput{
		Location: "ktm-baneshwor",
		Work:     "plumbing",
		Date:     "2026-11-02",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}

func (f *fixture) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	if err := f.db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}
