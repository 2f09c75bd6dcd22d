package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fixsewa/internal/service"
)

// ReviewHandler serves review submission for customers and the public
// worker review pages.
type ReviewHandler struct {
	Reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

type reviewReq struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

// Submit handles POST /v1/bookings/:id/review.
func (h *ReviewHandler) Submit(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	rv, err := h.Reviews.SubmitReview(ctx, p, id, req.Rating, req.ReviewText)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, rv)
}

// Completed handles GET /v1/bookings/completed.
func (h *ReviewHandler) Completed(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	list, err := h.Reviews.ListCompletedBookings(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

// Reviewable handles GET /v1/bookings/reviewable.
func (h *ReviewHandler) Reviewable(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	list, err := h.Reviews.ListReviewableBookings(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

// WorkerReviews handles GET /v1/workers/:id/reviews.
func (h *ReviewHandler) WorkerReviews(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid worker id"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	list, err := h.Reviews.ListWorkerReviews(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": list})
}

// WorkerSummary handles GET /v1/workers/:id/reviews/summary.
func (h *ReviewHandler) WorkerSummary(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid worker id"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	sum, err := h.Reviews.WorkerSummary(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"worker_id":      sum.WorkerID,
		"average_rating": sum.AverageRating,
		"total_reviews":  sum.TotalReviews,
		"counts":         sum.StarCounts(),
	})
}
