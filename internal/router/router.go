package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/fixsewa/internal/handler"    // import the handlers that implement the endpoints
	"github.com/iliyamo/fixsewa/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/fixsewa/internal/model"
)

// Handlers groups every handler the API serves.
type Handlers struct {
	Auth          *handler.AuthHandler
	Bookings      *handler.BookingHandler
	Reviews       *handler.ReviewHandler
	Notifications *handler.NotificationHandler
	Catalog       *handler.CatalogHandler
}

// Register wires all routes.  limit is applied to every /v1 route after
// authentication so the rate key can include the caller id.
func Register(e *echo.Echo, db *sql.DB, h Handlers, jwtSecret string, limit echo.MiddlewareFunc) {
	RegisterRoutes(e, db)
	RegisterAuth(e, h.Auth, jwtSecret, limit)
	RegisterPublic(e, h, limit)
	RegisterAccount(e, h, jwtSecret, limit)
	RegisterCustomer(e, h, jwtSecret, limit)
	RegisterWorker(e, h.Bookings, jwtSecret, limit)
}

// RegisterRoutes registers routes that do not require authentication and
// are not rate limited.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the token endpoints under /v1/auth.  Logout
// accepts either a refresh token or a bearer token, so it is not behind
// JWTAuth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// service catalog and the worker pages.
func RegisterPublic(e *echo.Echo, h Handlers, limit echo.MiddlewareFunc) {
	g := e.Group("/v1", limit)
	g.GET("/services", h.Catalog.Services)
	g.GET("/workers", h.Catalog.Workers)
	g.GET("/workers/:id/reviews", h.Reviews.WorkerReviews)
	g.GET("/workers/:id/reviews/summary", h.Reviews.WorkerSummary)
}

// RegisterAccount registers endpoints open to any signed in user.
func RegisterAccount(e *echo.Echo, h Handlers, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleWorker),
		limit,
	)
	g.GET("/me", h.Auth.Me)
	// Customers see their own booking, workers see any.
	g.GET("/bookings/:id", h.Bookings.Get)
	g.GET("/notifications", h.Notifications.List)
	g.POST("/notifications/read-all", h.Notifications.MarkAllRead)
	g.POST("/notifications/:id/read", h.Notifications.MarkRead)
}

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the customer role.
func RegisterCustomer(e *echo.Echo, h Handlers, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
		limit,
	)
	g.POST("/bookings", h.Bookings.Create)
	g.GET("/my-bookings", h.Bookings.ListMine)
	g.DELETE("/bookings/:id", h.Bookings.Delete)
	g.POST("/bookings/:id/cancel", h.Bookings.Cancel)

	g.GET("/bookings/completed", h.Reviews.Completed)
	g.GET("/bookings/reviewable", h.Reviews.Reviewable)
	g.POST("/bookings/:id/review", h.Reviews.Submit)
}

// RegisterWorker registers the assignment and status endpoints under
// /v1/worker for the worker role.
func RegisterWorker(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/worker",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleWorker),
		limit,
	)
	g.GET("/bookings", b.ListAll)
	g.POST("/bookings/:id/assign", b.Assign)
	g.PATCH("/bookings/:id/status", b.UpdateStatus)
	g.PATCH("/bookings/:id/details", b.UpdateDetails)
}
