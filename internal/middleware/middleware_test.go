package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fixsewa/internal/config"
	"github.com/iliyamo/fixsewa/internal/model"
	"github.com/iliyamo/fixsewa/internal/utils"
)

const testSecret = "middleware-secret"

func newContext(method, path, bearer string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "10.0.0.7:5555"
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return c, rec
}

func ok(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestJWTAuthSetsPrincipal(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 9, "worker", 5)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	c, rec := newContext(http.MethodGet, "/v1/me", tok.Token)
	var seen bool
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		p, found := Principal(c)
		seen = found && p.UserID == 9 && p.Role == model.RoleWorker
		return ok(c)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK || !seen {
		t.Fatalf("status = %d, principal seen = %v", rec.Code, seen)
	}
}

func TestJWTAuthRejects(t *testing.T) {
	badRole, _ := utils.NewAccessToken(testSecret, 9, "admin", 5)
	otherKey, _ := utils.NewAccessToken("other", 9, "worker", 5)
	cases := map[string]string{
		"missing":   "",
		"garbage":   "abc",
		"other key": otherKey.Token,
		"bad role":  badRole.Token,
	}
	for name, bearer := range cases {
		t.Run(name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/v1/me", bearer)
			if err := JWTAuth(testSecret)(ok)(c); err != nil {
				t.Fatalf("handler: %v", err)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/v1/worker/bookings", "")
	c.Set(ctxUserID, uint64(3))
	c.Set(ctxRole, model.RoleCustomer)
	if err := RequireRole(model.RoleWorker)(ok)(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("customer status = %d, want 403", rec.Code)
	}

	c, rec = newContext(http.MethodGet, "/v1/worker/bookings", "")
	c.Set(ctxRole, model.RoleWorker)
	if err := RequireRole(model.RoleWorker)(ok)(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("worker status = %d, want 200", rec.Code)
	}

	c, rec = newContext(http.MethodGet, "/v1/worker/bookings", "")
	_ = RequireRole(model.RoleWorker)(ok)(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("anonymous status = %d, want 403", rec.Code)
	}
}

func TestBuildRateKey(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/v1/bookings", "")
	cfg := config.RateLimitConfig{Prefix: "rl"}

	if got, want := buildRateKey(cfg, c), "rl:ip:10.0.0.7:user:anon:route:POST /v1/bookings"; got != want {
		t.Fatalf("default key = %q, want %q", got, want)
	}
	c.Set(ctxUserID, uint64(12))
	cfg.KeyStrategy = "USER"
	if got, want := buildRateKey(cfg, c), "rl:user:12"; got != want {
		t.Fatalf("user key = %q, want %q", got, want)
	}
	cfg.KeyStrategy = "ip_route"
	if got, want := buildRateKey(cfg, c), "rl:ip:10.0.0.7:route:POST /v1/bookings"; got != want {
		t.Fatalf("ip_route key = %q, want %q", got, want)
	}
}

func TestTokenBucketPassThrough(t *testing.T) {
	// Disabled, no client, and an unreachable server all let requests through.
	unreachable := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = unreachable.Close() })

	cases := map[string]struct {
		cfg config.RateLimitConfig
		rdb *redis.Client
	}{
		"disabled":    {config.RateLimitConfig{Enabled: false}, unreachable},
		"nil client":  {config.RateLimitConfig{Enabled: true}, nil},
		"redis error": {config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute}, unreachable},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/v1/services", "")
			if err := NewTokenBucket(tc.cfg, tc.rdb)(ok)(c); err != nil {
				t.Fatalf("handler: %v", err)
			}
			if rec.Code != http.StatusOK || rec.Header().Get("X-RateLimit-Limit") != "" {
				t.Fatalf("status = %d headers = %v", rec.Code, rec.Header())
			}
		})
	}
}

func TestDecodeBucket(t *testing.T) {
	res, ok := decodeBucket([]interface{}{int64(0), int64(0), int64(1500)})
	if !ok || res.allowed || res.retryMs != 1500 {
		t.Fatalf("decode = %+v, %v", res, ok)
	}
	res, ok = decodeBucket([]interface{}{"1", "4", "0"})
	if !ok || !res.allowed || res.remaining != 4 {
		t.Fatalf("decode strings = %+v, %v", res, ok)
	}
	if _, ok := decodeBucket("nope"); ok {
		t.Fatal("expected decode failure")
	}
}
