package model

import "time"

const (
    MinRating = 1
    MaxRating = 5
)

// Review is a customer's rating of the worker who completed one of
// their bookings.  There is at most one review per (worker, customer,
// booking).
type Review struct {
    ID         uint64    `json:"id"`
    WorkerID   uint64    `json:"worker_id"`
    CustomerID uint64    `json:"customer_id"`
    BookingID  uint64    `json:"booking_id"`
    Rating     int       `json:"rating"`
    ReviewText *string   `json:"review_text"`
    CreatedAt  time.Time `json:"created_at"`
}

// ReviewView is a review together with the reviewing customer's name,
// as listed on a worker's public page.
type ReviewView struct {
    Review
    CustomerName string `json:"customer_name"`
}

// CompletedBooking is a completed booking with an assigned worker.
// AlreadyReviewed is derived at query time from the worker_reviews
// table; it is not a stored column.
type CompletedBooking struct {
    ID              uint64    `json:"id"`
    WorkText        string    `json:"work_text"`
    LocationText    string    `json:"location_text"`
    Date            string    `json:"date"`
    EstimatedPrice  *float64  `json:"estimated_price"`
    CreatedAt       time.Time `json:"created_at"`
    WorkerID        uint64    `json:"worker_id"`
    WorkerName      *string   `json:"worker_name"`
    AlreadyReviewed bool      `json:"already_reviewed"`
}

// RatingSummary aggregates the reviews a worker has received.
// Counts is indexed by star value; Counts[0] is unused.
type RatingSummary struct {
    WorkerID      uint64             `json:"worker_id"`
    AverageRating float64            `json:"average_rating"`
    TotalReviews  int                `json:"total_reviews"`
    Counts        [MaxRating + 1]int `json:"-"`
}

// StarCounts returns the per-star counts keyed by the star value, for
// JSON output.
func (s RatingSummary) StarCounts() map[int]int {
    out := make(map[int]int, MaxRating)
    for star := MinRating; star <= MaxRating; star++ {
        out[star] = s.Counts[star]
    }
    return out
}
