package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/fixsewa/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  Status changes
// are conditional UPDATEs whose WHERE clause carries the ownership and
// state predicates; callers read RowsAffected to learn whether the
// change happened.  All timestamp fields are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts a pending booking and fills in ID, Status and
// CreatedAt.  The customer contact fields on b are stored as given.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (customer_id, customer_email, customer_name, customer_phone,
                                     location, location_text, work, work_text, date, status, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	b.Status = model.BookingPending
	b.CreatedAt = now()
	res, err := r.db.ExecContext(ctx, q,
		b.CustomerID, b.CustomerEmail, b.CustomerName, b.CustomerPhone,
		b.Location, b.LocationText, b.Work, b.WorkText, b.Date, string(b.Status), b.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

const bookingViewSelect = `SELECT b.id, b.customer_id, b.customer_email, b.customer_name, b.customer_phone,
                                  b.location, b.location_text, b.work, b.work_text, b.date, b.status,
                                  b.worker_id, b.worker_assigned_at, b.estimated_price, b.notes, b.created_at,
                                  u.name
                           FROM bookings b
                           LEFT JOIN users u ON b.worker_id = u.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingView(s rowScanner) (model.BookingView, error) {
	var (
		v          model.BookingView
		status     string
		workerID   sql.NullInt64
		assignedAt sql.NullTime
		price      sql.NullFloat64
		notes      sql.NullString
		workerName sql.NullString
	)
	err := s.Scan(&v.ID, &v.CustomerID, &v.CustomerEmail, &v.CustomerName, &v.CustomerPhone,
		&v.Location, &v.LocationText, &v.Work, &v.WorkText, &v.Date, &status,
		&workerID, &assignedAt, &price, &notes, &v.CreatedAt, &workerName)
	if err != nil {
		return model.BookingView{}, err
	}
	v.Status = model.BookingStatus(status)
	if workerID.Valid {
		id := uint64(workerID.Int64)
		v.WorkerID = &id
	}
	if assignedAt.Valid {
		t := assignedAt.Time.UTC()
		v.WorkerAssignedAt = &t
	}
	if price.Valid {
		p := price.Float64
		v.EstimatedPrice = &p
	}
	if notes.Valid {
		n := notes.String
		v.Notes = &n
	}
	if workerName.Valid {
		n := workerName.String
		v.WorkerName = &n
	}
	v.CreatedAt = v.CreatedAt.UTC()
	return v, nil
}

// GetByID returns a single booking with the assigned worker's name.
// sql.ErrNoRows is returned when it does not exist.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.BookingView, error) {
	return scanBookingView(r.db.QueryRowContext(ctx, bookingViewSelect+" WHERE b.id = ?", id))
}

// GetByIDTx is GetByID inside a transaction.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.BookingView, error) {
	return scanBookingView(tx.QueryRowContext(ctx, bookingViewSelect+" WHERE b.id = ?", id))
}

func (r *BookingRepo) list(ctx context.Context, where string, args ...any) ([]model.BookingView, error) {
	rows, err := r.db.QueryContext(ctx, bookingViewSelect+where+" ORDER BY b.created_at DESC, b.id DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.BookingView{}
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListByCustomer returns the customer's bookings, newest first.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.BookingView, error) {
	return r.list(ctx, " WHERE b.customer_id = ?", customerID)
}

// ListAll returns every booking, newest first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.BookingView, error) {
	return r.list(ctx, "")
}

// AssignTx sets workerID as the booking's worker and moves it to
// assigned.  Pending and already assigned bookings qualify, so a second
// assignment silently replaces the first.  The returned count is zero
// when the booking is missing or in a terminal state.
func (r *BookingRepo) AssignTx(ctx context.Context, tx *sql.Tx, id, workerID uint64, at time.Time) (int64, error) {
	const q = `UPDATE bookings SET worker_id = ?, status = ?, worker_assigned_at = ?
               WHERE id = ? AND status IN (?, ?)`
	res, err := tx.ExecContext(ctx, q, workerID, string(model.BookingAssigned), at.UTC(), id,
		string(model.BookingPending), string(model.BookingAssigned))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateStatusTx moves a booking from status `from` to `to`, but only
// when workerID is the assigned worker and the status is still `from`.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id, workerID uint64, from, to model.BookingStatus) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status = ? WHERE id = ? AND worker_id = ? AND status = ?",
		string(to), id, workerID, string(from))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CancelByCustomerTx cancels a booking owned by customerID whose status
// is still `from`.
func (r *BookingRepo) CancelByCustomerTx(ctx context.Context, tx *sql.Tx, id, customerID uint64, from model.BookingStatus) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status = ? WHERE id = ? AND customer_id = ? AND status = ?",
		string(model.BookingCancelled), id, customerID, string(from))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateDetails overwrites the estimated price and notes of a booking
// assigned to workerID.  Nil values clear the column.
func (r *BookingRepo) UpdateDetails(ctx context.Context, id, workerID uint64, price *float64, notes *string) (int64, error) {
	var p sql.NullFloat64
	if price != nil {
		p = sql.NullFloat64{Float64: *price, Valid: true}
	}
	var n sql.NullString
	if notes != nil {
		n = sql.NullString{String: *notes, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET estimated_price = ?, notes = ? WHERE id = ? AND worker_id = ?",
		p, n, id, workerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByCustomer removes a booking owned by customerID while it is
// pending or cancelled.  Zero rows means the booking is missing, owned
// by someone else or past the point where it can be deleted.
func (r *BookingRepo) DeleteByCustomer(ctx context.Context, id, customerID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM bookings WHERE id = ? AND customer_id = ? AND status IN (?, ?)",
		id, customerID, string(model.BookingPending), string(model.BookingCancelled))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
