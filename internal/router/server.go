package router

import (
	"database/sql"
	"log"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/fixsewa/internal/config"
	"github.com/iliyamo/fixsewa/internal/handler"
	"github.com/iliyamo/fixsewa/internal/service"
)

// NewServer builds the Echo instance with services, handlers and the
// shared middleware stack wired to db.
func NewServer(cfg config.Config, db *sql.DB, limit echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Printf("http: %s %s status=%d latency=%s id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(echomw.Recover())

	h := Handlers{
		Auth:          handler.NewAuthHandler(cfg, service.NewIdentityService(db, cfg)),
		Bookings:      handler.NewBookingHandler(service.NewBookingService(db)),
		Reviews:       handler.NewReviewHandler(service.NewReviewService(db)),
		Notifications: handler.NewNotificationHandler(service.NewNotificationService(db)),
		Catalog:       handler.NewCatalogHandler(service.NewCatalogService(db)),
	}
	Register(e, db, h, cfg.JWTSecret, limit)
	return e
}
