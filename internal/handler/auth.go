package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fixsewa/internal/config"
	"github.com/iliyamo/fixsewa/internal/middleware"
	"github.com/iliyamo/fixsewa/internal/model"
	"github.com/iliyamo/fixsewa/internal/service"
	"github.com/iliyamo/fixsewa/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Identity *service.IdentityService
}

func NewAuthHandler(cfg config.Config, identity *service.IdentityService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Identity: identity}
}

// ----- DTOs -----

type registerReq struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"` // customer | worker
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Service    string `json:"service"`    // workers only
	Experience string `json:"experience"` // workers only
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // optional
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64     `json:"id"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	Name  string     `json:"name"`
	Phone string     `json:"phone,omitempty"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func sessionResp(s service.Session) authResp {
	return authResp{
		User:    userPart{ID: s.User.ID, Email: s.User.Email, Role: s.User.Role, Name: s.User.Name},
		Access:  tokenPart{Token: s.Access.Token, Expires: s.Access.Exp},
		Refresh: tokenPart{Token: s.Refresh.Raw, Expires: s.Refresh.Exp}, // raw back to client
	}
}

// Register: create user and return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	u, err := h.Identity.CreateUser(ctx, service.SignupInput{
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Name:       req.Name,
		Phone:      req.Phone,
		Service:    req.Service,
		Experience: req.Experience,
	})
	if err != nil {
		return fail(c, err)
	}
	s, err := h.Identity.IssueSession(ctx, u)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, sessionResp(s))
}

// Login: verify and return new pair.  Unknown emails, wrong passwords
// and role mismatches all answer 401 "invalid credentials".
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var role model.Role
	if strings.TrimSpace(req.Role) != "" {
		r, ok := model.ParseRole(req.Role)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
		}
		role = r
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	u, err := h.Identity.Authenticate(ctx, req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return fail(c, err)
	}
	s, err := h.Identity.IssueSession(ctx, u)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sessionResp(s))
}

// Refresh: validate by hash, revoke old, issue new.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	s, err := h.Identity.Rotate(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sessionResp(s))
}

// Logout revokes one session when a refresh_token is posted, or every
// session of the caller when only a valid bearer token is sent.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	// Bind skips empty bodies, so bearer-only logouts pass through.
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := requestCtx(c)
	defer cancel()

	if refreshToken != "" {
		if err := h.Identity.RevokeRefresh(ctx, refreshToken); err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
			}
			return fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	if raw := middleware.BearerToken(c); raw != "" {
		claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, raw)
		if err != nil {
			return unauthorized(c)
		}
		if err := h.Identity.RevokeAll(ctx, claims.UserID); err != nil {
			return fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
}

// Me returns the caller's account, plus the worker profile for workers.
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := getPrincipal(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	u, err := h.Identity.GetUser(ctx, p.UserID)
	if err != nil {
		return fail(c, err)
	}
	resp := echo.Map{
		"user": userPart{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name, Phone: u.Phone},
	}
	if u.Role == model.RoleWorker {
		profile, err := h.Identity.GetWorkerProfile(ctx, u.ID)
		if err != nil && !errors.Is(err, service.ErrNotFound) {
			return fail(c, err)
		}
		if err == nil {
			resp["worker"] = echo.Map{"service": profile.Service, "experience": profile.Experience}
		}
	}
	return c.JSON(http.StatusOK, resp)
}
