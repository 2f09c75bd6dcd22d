package middleware

// identity.go holds the context keys JWTAuth fills in and the helpers
// handlers and the rate limiter use to read them back.

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fixsewa/internal/model"
    "github.com/iliyamo/fixsewa/internal/service"
)

const (
    ctxUserID = "user_id" // uint64 subject of the access token
    ctxRole   = "role"    // model.Role claim
)

// Principal returns the authenticated caller stored by JWTAuth.  The
// boolean is false on routes that were not authenticated.
func Principal(c echo.Context) (service.Principal, bool) {
    id, ok := c.Get(ctxUserID).(uint64)
    if !ok || id == 0 {
        return service.Principal{}, false
    }
    role, _ := c.Get(ctxRole).(model.Role)
    return service.Principal{UserID: id, Role: role}, true
}

// currentUserID returns the caller id as a string for rate limit keys,
// or "anon" before authentication.
func currentUserID(c echo.Context) string {
    if p, ok := Principal(c); ok {
        return strconv.FormatUint(p.UserID, 10)
    }
    return "anon"
}
