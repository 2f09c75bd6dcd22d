package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/iliyamo/fixsewa/internal/model"
	"github.com/iliyamo/fixsewa/internal/repository"
)

// ReviewService records customer ratings of finished work and serves
// the read side for customers and public worker pages.
type ReviewService struct {
	db      *sql.DB
	reviews *repository.ReviewRepo
	users   *repository.UserRepo
	inbox   *repository.NotificationRepo
}

func NewReviewService(db *sql.DB) *ReviewService {
	return &ReviewService{
		db:      db,
		reviews: repository.NewReviewRepo(db),
		users:   repository.NewUserRepo(db),
		inbox:   repository.NewNotificationRepo(db),
	}
}

// SubmitReview rates the worker who completed bookingID.  The booking
// must belong to the caller and be completed; anything else reads as
// ErrNotFound.  A second review of the same booking is ErrConflict.
func (s *ReviewService) SubmitReview(ctx context.Context, p Principal, bookingID uint64, rating int, text string) (model.Review, error) {
	if err := p.require(model.RoleCustomer); err != nil {
		return model.Review{}, err
	}
	if bookingID == 0 {
		return model.Review{}, invalid("booking id is required")
	}
	if rating < model.MinRating || rating > model.MaxRating {
		return model.Review{}, invalid("rating must be between %d and %d", model.MinRating, model.MaxRating)
	}

	rv := model.Review{CustomerID: p.UserID, BookingID: bookingID, Rating: rating}
	if t := strings.TrimSpace(text); t != "" {
		if err := checkLengths(field{"review_text", t, maxFreeText}); err != nil {
			return model.Review{}, err
		}
		rv.ReviewText = &t
	}
	err := withTx(ctx, s.db, "submit review", func(tx *sql.Tx) error {
		workerID, err := s.reviews.CompletedWorkerTx(ctx, tx, bookingID, p.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: completed booking %d", ErrNotFound, bookingID)
			}
			return storeErr("load booking", err)
		}
		if !workerID.Valid {
			return fmt.Errorf("%w: booking %d has no worker", ErrInvalidState, bookingID)
		}
		rv.WorkerID = uint64(workerID.Int64)

		exists, err := s.reviews.ExistsTx(ctx, tx, rv.WorkerID, p.UserID, bookingID)
		if err != nil {
			return storeErr("check review", err)
		}
		if exists {
			return fmt.Errorf("%w: booking %d already reviewed", ErrConflict, bookingID)
		}
		if err := s.reviews.CreateTx(ctx, tx, &rv); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%w: booking %d already reviewed", ErrConflict, bookingID)
			}
			return storeErr("create review", err)
		}
		return notify(ctx, tx, s.inbox, rv.WorkerID, model.NotifyInfo,
			"New review", "You received a %d-star review.", rating)
	})
	if err != nil {
		return model.Review{}, err
	}
	log.Printf("review: booking=%d worker=%d rating=%d", bookingID, rv.WorkerID, rating)
	return rv, nil
}

// ListCompletedBookings returns the caller's completed bookings, each
// flagged with whether it has been reviewed.
func (s *ReviewService) ListCompletedBookings(ctx context.Context, p Principal) ([]model.CompletedBooking, error) {
	if err := p.require(model.RoleCustomer); err != nil {
		return nil, err
	}
	out, err := s.reviews.ListCompletedForCustomer(ctx, p.UserID)
	if err != nil {
		return nil, storeErr("list completed bookings", err)
	}
	return out, nil
}

// ListReviewableBookings is ListCompletedBookings without the ones the
// caller already reviewed.
func (s *ReviewService) ListReviewableBookings(ctx context.Context, p Principal) ([]model.CompletedBooking, error) {
	all, err := s.ListCompletedBookings(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make([]model.CompletedBooking, 0, len(all))
	for _, cb := range all {
		if !cb.AlreadyReviewed {
			out = append(out, cb)
		}
	}
	return out, nil
}

func (s *ReviewService) requireWorker(ctx context.Context, workerID uint64) error {
	u, err := s.users.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: worker %d", ErrNotFound, workerID)
		}
		return storeErr("load worker", err)
	}
	if u.Role != model.RoleWorker {
		return fmt.Errorf("%w: worker %d", ErrNotFound, workerID)
	}
	return nil
}

// ListWorkerReviews returns a worker's reviews, newest first.
func (s *ReviewService) ListWorkerReviews(ctx context.Context, workerID uint64) ([]model.ReviewView, error) {
	if err := s.requireWorker(ctx, workerID); err != nil {
		return nil, err
	}
	out, err := s.reviews.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, storeErr("list reviews", err)
	}
	return out, nil
}

// WorkerSummary returns a worker's average rating and per-star counts.
func (s *ReviewService) WorkerSummary(ctx context.Context, workerID uint64) (model.RatingSummary, error) {
	if err := s.requireWorker(ctx, workerID); err != nil {
		return model.RatingSummary{}, err
	}
	sum, err := s.reviews.SummaryForWorker(ctx, workerID)
	if err != nil {
		return model.RatingSummary{}, storeErr("rating summary", err)
	}
	return sum, nil
}
