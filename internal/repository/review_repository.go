package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/fixsewa/internal/model"
)

// ReviewRepo persists worker reviews and answers the read-side
// questions customers and the public worker pages ask about them.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// CompletedWorkerTx looks up a completed booking owned by customerID
// and returns its worker_id.  sql.ErrNoRows means there is no such
// booking: missing, someone else's, or not completed yet.  The returned
// value is invalid when the booking has no worker.
func (r *ReviewRepo) CompletedWorkerTx(ctx context.Context, tx *sql.Tx, bookingID, customerID uint64) (sql.NullInt64, error) {
	var workerID sql.NullInt64
	err := tx.QueryRowContext(ctx,
		"SELECT b.worker_id FROM bookings b WHERE b.id = ? AND b.customer_id = ? AND b.status = ?",
		bookingID, customerID, string(model.BookingCompleted)).Scan(&workerID)
	return workerID, err
}

// ExistsTx reports whether a review for the triple is already stored.
func (r *ReviewRepo) ExistsTx(ctx context.Context, tx *sql.Tx, workerID, customerID, bookingID uint64) (bool, error) {
	var id uint64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM worker_reviews WHERE worker_id = ? AND customer_id = ? AND booking_id = ? LIMIT 1",
		workerID, customerID, bookingID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateTx inserts rv and fills in ID and CreatedAt.  A concurrent
// insert of the same triple surfaces as ErrConflict.
func (r *ReviewRepo) CreateTx(ctx context.Context, tx *sql.Tx, rv *model.Review) error {
	var text sql.NullString
	if rv.ReviewText != nil {
		text = sql.NullString{String: *rv.ReviewText, Valid: true}
	}
	rv.CreatedAt = now()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO worker_reviews (worker_id, customer_id, booking_id, rating, review_text, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		rv.WorkerID, rv.CustomerID, rv.BookingID, rv.Rating, text, rv.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rv.ID = uint64(id)
	return nil
}

// ListCompletedForCustomer returns the customer's completed bookings
// that have a worker, newest first, each flagged with whether the
// customer has reviewed it.
func (r *ReviewRepo) ListCompletedForCustomer(ctx context.Context, customerID uint64) ([]model.CompletedBooking, error) {
	const q = `SELECT b.id, b.work_text, b.location_text, b.date, b.estimated_price, b.created_at,
                      b.worker_id, u.name,
                      (SELECT COUNT(*) FROM worker_reviews wr
                       WHERE wr.booking_id = b.id AND wr.customer_id = ?) AS has_review
               FROM bookings b
               LEFT JOIN users u ON b.worker_id = u.id
               WHERE b.customer_id = ? AND b.status = ? AND b.worker_id IS NOT NULL
               ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, customerID, customerID, string(model.BookingCompleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.CompletedBooking{}
	for rows.Next() {
		var (
			cb         model.CompletedBooking
			price      sql.NullFloat64
			workerName sql.NullString
			reviews    int
		)
		if err := rows.Scan(&cb.ID, &cb.WorkText, &cb.LocationText, &cb.Date, &price, &cb.CreatedAt,
			&cb.WorkerID, &workerName, &reviews); err != nil {
			return nil, err
		}
		if price.Valid {
			p := price.Float64
			cb.EstimatedPrice = &p
		}
		if workerName.Valid {
			n := workerName.String
			cb.WorkerName = &n
		}
		cb.CreatedAt = cb.CreatedAt.UTC()
		cb.AlreadyReviewed = reviews > 0
		out = append(out, cb)
	}
	return out, rows.Err()
}

// ListByWorker returns the reviews a worker has received, newest first.
func (r *ReviewRepo) ListByWorker(ctx context.Context, workerID uint64) ([]model.ReviewView, error) {
	const q = `SELECT wr.id, wr.worker_id, wr.customer_id, wr.booking_id, wr.rating, wr.review_text,
                      wr.created_at, u.name
               FROM worker_reviews wr
               JOIN users u ON u.id = wr.customer_id
               WHERE wr.worker_id = ?
               ORDER BY wr.created_at DESC, wr.id DESC`
	rows, err := r.db.QueryContext(ctx, q, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ReviewView{}
	for rows.Next() {
		var (
			v    model.ReviewView
			text sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.WorkerID, &v.CustomerID, &v.BookingID, &v.Rating, &text,
			&v.CreatedAt, &v.CustomerName); err != nil {
			return nil, err
		}
		if text.Valid {
			s := text.String
			v.ReviewText = &s
		}
		v.CreatedAt = v.CreatedAt.UTC()
		out = append(out, v)
	}
	return out, rows.Err()
}

// SummaryForWorker counts the worker's reviews per star and derives the
// average.  A worker without reviews yields a zero summary.
func (r *ReviewRepo) SummaryForWorker(ctx context.Context, workerID uint64) (model.RatingSummary, error) {
	summary := model.RatingSummary{WorkerID: workerID}
	rows, err := r.db.QueryContext(ctx,
		"SELECT rating, COUNT(*) FROM worker_reviews WHERE worker_id = ? GROUP BY rating", workerID)
	if err != nil {
		return summary, err
	}
	defer rows.Close()
	total := 0
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return summary, err
		}
		if rating < model.MinRating || rating > model.MaxRating {
			continue
		}
		summary.Counts[rating] = count
		summary.TotalReviews += count
		total += rating * count
	}
	if err := rows.Err(); err != nil {
		return summary, err
	}
	if summary.TotalReviews > 0 {
		summary.AverageRating = float64(total) / float64(summary.TotalReviews)
	}
	return summary, nil
}
