package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fixsewa/internal/service"
)

type NotificationHandler struct {
	Inbox *service.NotificationService
}

func NewNotificationHandler(inbox *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{Inbox: inbox}
}

// List handles GET /v1/notifications?unread=true.
func (h *NotificationHandler) List(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	unreadOnly := false
	if v := c.QueryParam("unread"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unread must be true or false"})
		}
		unreadOnly = b
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	list, err := h.Inbox.List(ctx, p, unreadOnly)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": list})
}

// MarkRead handles POST /v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Inbox.MarkRead(ctx, p, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllRead handles POST /v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	n, err := h.Inbox.MarkAllRead(ctx, p)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": n})
}
