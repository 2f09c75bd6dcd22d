package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/fixsewa/internal/model"
	"github.com/iliyamo/fixsewa/internal/repository"
)

// DateLayout is the format of a booking's requested date.
const DateLayout = "2006-01-02"

// clock supplies worker_assigned_at; whole seconds keep MySQL and
// SQLite rows identical.
var clock = func() time.Time { return time.Now().UTC().Truncate(time.Second) }

// BookingService covers the booking ledger and the assignment and
// status engine.  Customers create, cancel and delete their own
// bookings; workers assign themselves and move bookings they hold.
type BookingService struct {
	db       *sql.DB
	bookings *repository.BookingRepo
	users    *repository.UserRepo
	inbox    *repository.NotificationRepo
}

func NewBookingService(db *sql.DB) *BookingService {
	return &BookingService{
		db:       db,
		bookings: repository.NewBookingRepo(db),
		users:    repository.NewUserRepo(db),
		inbox:    repository.NewNotificationRepo(db),
	}
}

// BookingInput is what a customer submits.  The display texts are
// optional and default from the catalog or the raw codes.
type BookingInput struct {
	Location     string
	LocationText string
	Work         string
	WorkText     string
	Date         string
}

// CreateBooking stores a pending booking for the calling customer.
// The customer's email, name and phone are copied from their account
// now and are not updated later.
func (s *BookingService) CreateBooking(ctx context.Context, p Principal, in BookingInput) (model.Booking, error) {
	if err := p.require(model.RoleCustomer); err != nil {
		return model.Booking{}, err
	}
	location := strings.TrimSpace(in.Location)
	work := strings.TrimSpace(in.Work)
	date := strings.TrimSpace(in.Date)
	if location == "" || work == "" || date == "" {
		return model.Booking{}, invalid("location, work and date are required")
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return model.Booking{}, invalid("date must be YYYY-MM-DD")
	}
	locationText := strings.TrimSpace(in.LocationText)
	if locationText == "" {
		locationText = location
	}
	workText := strings.TrimSpace(in.WorkText)
	if workText == "" {
		workText = work
		if svc, ok := model.LookupService(work); ok {
			workText = svc.Name
		}
	}
	if err := checkLengths(
		field{"location", location, maxLocation},
		field{"location_text", locationText, maxLocationText},
		field{"work", work, maxWork},
		field{"work_text", workText, maxWorkText},
	); err != nil {
		return model.Booking{}, err
	}

	customer, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, fmt.Errorf("%w: user %d", ErrNotFound, p.UserID)
		}
		return model.Booking{}, storeErr("load customer", err)
	}

	b := model.Booking{
		CustomerID:    customer.ID,
		CustomerEmail: customer.Email,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		Location:      location,
		LocationText:  locationText,
		Work:          work,
		WorkText:      workText,
		Date:          date,
	}
	if err := s.bookings.Create(ctx, &b); err != nil {
		return model.Booking{}, storeErr("create booking", err)
	}
	log.Printf("booking: created id=%d customer=%d work=%s", b.ID, b.CustomerID, b.Work)
	return b, nil
}

// ListBookingsForCustomer returns the caller's bookings, newest first.
func (s *BookingService) ListBookingsForCustomer(ctx context.Context, p Principal) ([]model.BookingView, error) {
	if err := p.require(model.RoleCustomer); err != nil {
		return nil, err
	}
	out, err := s.bookings.ListByCustomer(ctx, p.UserID)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}
	return out, nil
}

// ListAllBookings returns every booking; any worker may read them.
func (s *BookingService) ListAllBookings(ctx context.Context, p Principal) ([]model.BookingView, error) {
	if err := p.require(model.RoleWorker); err != nil {
		return nil, err
	}
	out, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}
	return out, nil
}

// GetBooking returns one booking.  Customers only see their own; a
// booking owned by someone else is reported as missing.
func (s *BookingService) GetBooking(ctx context.Context, p Principal, id uint64) (model.BookingView, error) {
	if err := p.authenticated(); err != nil {
		return model.BookingView{}, err
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return model.BookingView{}, err
	}
	if p.Role == model.RoleCustomer && b.CustomerID != p.UserID {
		return model.BookingView{}, fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	return b, nil
}

func (s *BookingService) load(ctx context.Context, id uint64) (model.BookingView, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookingView{}, fmt.Errorf("%w: booking %d", ErrNotFound, id)
		}
		return model.BookingView{}, storeErr("load booking", err)
	}
	return b, nil
}

func (s *BookingService) loadTx(ctx context.Context, tx *sql.Tx, id uint64) (model.BookingView, error) {
	b, err := s.bookings.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookingView{}, fmt.Errorf("%w: booking %d", ErrNotFound, id)
		}
		return model.BookingView{}, storeErr("load booking", err)
	}
	return b, nil
}

// DeleteBooking removes one of the caller's bookings.  Only pending or
// cancelled bookings can be deleted; work that was taken on stays on
// record.
func (s *BookingService) DeleteBooking(ctx context.Context, p Principal, id uint64) error {
	if err := p.require(model.RoleCustomer); err != nil {
		return err
	}
	n, err := s.bookings.DeleteByCustomer(ctx, id, p.UserID)
	if err != nil {
		return storeErr("delete booking", err)
	}
	if n > 0 {
		log.Printf("booking: deleted id=%d customer=%d", id, p.UserID)
		return nil
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if b.CustomerID != p.UserID {
		return fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	return fmt.Errorf("%w: booking %d is %s", ErrInvalidState, id, b.Status)
}

// CancelBooking lets the owning customer withdraw a pending or
// assigned booking.  The assigned worker, if any, is notified.
func (s *BookingService) CancelBooking(ctx context.Context, p Principal, id uint64) error {
	if err := p.require(model.RoleCustomer); err != nil {
		return err
	}
	return withTx(ctx, s.db, "cancel booking", func(tx *sql.Tx) error {
		b, err := s.loadTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if b.CustomerID != p.UserID {
			return fmt.Errorf("%w: booking %d", ErrNotFound, id)
		}
		if !model.CanTransition(b.Status, model.BookingCancelled) {
			return invalid("booking %d cannot move from %s to %s", id, b.Status, model.BookingCancelled)
		}
		n, err := s.bookings.CancelByCustomerTx(ctx, tx, id, p.UserID, b.Status)
		if err != nil {
			return storeErr("cancel booking", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: booking %d changed while cancelling", ErrConflict, id)
		}
		if b.WorkerID != nil {
			if err := notify(ctx, tx, s.inbox, *b.WorkerID, model.NotifyWarning,
				"Booking cancelled", "%s cancelled the %s booking for %s.", b.CustomerName, b.WorkText, b.Date); err != nil {
				return err
			}
		}
		log.Printf("booking: cancelled id=%d customer=%d", id, p.UserID)
		return nil
	})
}

// Assign makes the calling worker the booking's worker.  A booking that
// is already assigned is taken over silently; the last assignment
// wins.  Completed and cancelled bookings are rejected.
func (s *BookingService) Assign(ctx context.Context, p Principal, id uint64) (int64, error) {
	if err := p.require(model.RoleWorker); err != nil {
		return 0, err
	}
	var n int64
	err := withTx(ctx, s.db, "assign booking", func(tx *sql.Tx) error {
		b, err := s.loadTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if b.Status.Terminal() {
			return invalid("booking %d is already %s", id, b.Status)
		}
		if !model.CanTransition(b.Status, model.BookingAssigned) {
			return invalid("booking %d cannot move from %s to %s", id, b.Status, model.BookingAssigned)
		}
		n, err = s.bookings.AssignTx(ctx, tx, id, p.UserID, clock())
		if err != nil {
			return storeErr("assign booking", err)
		}
		if n == 0 {
			return nil
		}
		return notify(ctx, tx, s.inbox, b.CustomerID, model.NotifySuccess,
			"Worker assigned", "A worker has been assigned to your %s booking for %s.", b.WorkText, b.Date)
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("booking: assigned id=%d worker=%d", id, p.UserID)
	}
	return n, nil
}

// UpdateStatus moves a booking held by the calling worker to status.
// When the caller is not the assigned worker nothing changes and the
// result is (0, nil).  Unknown statuses and transitions outside the
// table fail with ErrInvalidInput.
func (s *BookingService) UpdateStatus(ctx context.Context, p Principal, id uint64, status string) (int64, error) {
	if err := p.require(model.RoleWorker); err != nil {
		return 0, err
	}
	to, ok := model.ParseBookingStatus(status)
	if !ok {
		return 0, invalid("unknown status %q", status)
	}
	if to == model.BookingAssigned {
		return 0, invalid("use assign to take a booking")
	}
	var n int64
	err := withTx(ctx, s.db, "update status", func(tx *sql.Tx) error {
		b, err := s.loadTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if b.WorkerID == nil || *b.WorkerID != p.UserID {
			return nil
		}
		if !model.CanTransition(b.Status, to) {
			return invalid("booking %d cannot move from %s to %s", id, b.Status, to)
		}
		n, err = s.bookings.UpdateStatusTx(ctx, tx, id, p.UserID, b.Status, to)
		if err != nil {
			return storeErr("update status", err)
		}
		if n == 0 {
			return nil
		}
		switch to {
		case model.BookingCompleted:
			return notify(ctx, tx, s.inbox, b.CustomerID, model.NotifySuccess,
				"Booking completed", "Your %s booking for %s is complete. You can now leave a review.", b.WorkText, b.Date)
		case model.BookingCancelled:
			return notify(ctx, tx, s.inbox, b.CustomerID, model.NotifyWarning,
				"Booking cancelled", "The worker cancelled your %s booking for %s.", b.WorkText, b.Date)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("booking: status id=%d worker=%d status=%s", id, p.UserID, to)
	}
	return n, nil
}

// UpdateDetails overwrites the estimated price and notes of a booking
// held by the calling worker.  Both fields are replaced; nil or blank
// values clear them.
func (s *BookingService) UpdateDetails(ctx context.Context, p Principal, id uint64, price *float64, notes *string) (int64, error) {
	if err := p.require(model.RoleWorker); err != nil {
		return 0, err
	}
	if price != nil && *price < 0 {
		return 0, invalid("estimated price must not be negative")
	}
	if notes != nil {
		trimmed := strings.TrimSpace(*notes)
		if trimmed == "" {
			notes = nil
		} else {
			notes = &trimmed
		}
	}
	if notes != nil {
		if err := checkLengths(field{"notes", *notes, maxFreeText}); err != nil {
			return 0, err
		}
	}
	n, err := s.bookings.UpdateDetails(ctx, id, p.UserID, price, notes)
	if err != nil {
		return 0, storeErr("update details", err)
	}
	return n, nil
}
