package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fixsewa/internal/service"
)

// BookingHandler serves the customer booking endpoints and the worker
// assignment endpoints.  Role checks happen in middleware and again in
// the service.
type BookingHandler struct {
	Bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

type createBookingReq struct {
	Location     string `json:"location"`
	LocationText string `json:"location_text"`
	Work         string `json:"work"`
	WorkText     string `json:"work_text"`
	Date         string `json:"date"` // YYYY-MM-DD
}

type statusReq struct {
	Status string `json:"status"`
}

type detailsReq struct {
	EstimatedPrice *float64 `json:"estimated_price"`
	Notes          *string  `json:"notes"`
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	b, err := h.Bookings.CreateBooking(ctx, p, service.BookingInput{
		Location:     req.Location,
		LocationText: req.LocationText,
		Work:         req.Work,
		WorkText:     req.WorkText,
		Date:         req.Date,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// ListMine handles GET /v1/my-bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	list, err := h.Bookings.ListBookingsForCustomer(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

// ListAll handles GET /v1/worker/bookings.
func (h *BookingHandler) ListAll(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	list, err := h.Bookings.ListAllBookings(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	b, err := h.Bookings.GetBooking(ctx, p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /v1/bookings/:id.
func (h *BookingHandler) Delete(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Bookings.DeleteBooking(ctx, p, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Bookings.CancelBooking(ctx, p, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": "cancelled"})
}

// Assign handles POST /v1/worker/bookings/:id/assign.
func (h *BookingHandler) Assign(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	n, err := h.Bookings.Assign(ctx, p, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}

// UpdateStatus handles PATCH /v1/worker/bookings/:id/status.  A worker
// who does not hold the booking gets {"updated": 0}.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	n, err := h.Bookings.UpdateStatus(ctx, p, id, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}

// UpdateDetails handles PATCH /v1/worker/bookings/:id/details.  Both
// fields are overwritten; an omitted field is cleared.
func (h *BookingHandler) UpdateDetails(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req detailsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	n, err := h.Bookings.UpdateDetails(ctx, p, id, req.EstimatedPrice, req.Notes)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}
