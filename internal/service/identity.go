package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/iliyamo/fixsewa/internal/config"
	"github.com/iliyamo/fixsewa/internal/model"
	"github.com/iliyamo/fixsewa/internal/repository"
	"github.com/iliyamo/fixsewa/internal/utils"
)

// IdentityService owns user accounts, worker profiles and the refresh
// token sessions handed out on login.
type IdentityService struct {
	db     *sql.DB
	users  *repository.UserRepo
	tokens tokenStore
	cfg    config.Config
}

// tokenStore is the slice of repository.TokenRepo the service uses.
type tokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) (int64, error)
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

func NewIdentityService(db *sql.DB, cfg config.Config) *IdentityService {
	return &IdentityService{
		db:     db,
		users:  repository.NewUserRepo(db),
		tokens: repository.NewTokenRepo(db),
		cfg:    cfg,
	}
}

// SignupInput carries the registration form.  Service and Experience
// are only read for workers.
type SignupInput struct {
	Email      string
	Password   string
	Role       string
	Name       string
	Phone      string
	Service    string
	Experience string
}

// Session is an issued access/refresh token pair.
type Session struct {
	User    model.User
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// CreateUser registers an account.  For workers the users row and the
// workers row are written in one transaction, so a failed profile
// insert leaves nothing behind.
func (s *IdentityService) CreateUser(ctx context.Context, in SignupInput) (model.User, error) {
	email := repository.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if email == "" || in.Password == "" || name == "" || phone == "" || strings.TrimSpace(in.Role) == "" {
		return model.User{}, invalid("email, password, role, name and phone are required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return model.User{}, invalid("malformed email")
	}
	role, ok := model.ParseRole(in.Role)
	if !ok {
		return model.User{}, invalid("unknown role %q", in.Role)
	}
	service := strings.ToLower(strings.TrimSpace(in.Service))
	experience := strings.TrimSpace(in.Experience)
	if role == model.RoleWorker && (service == "" || experience == "") {
		return model.User{}, invalid("workers must supply service and experience")
	}
	if len(in.Password) > utils.MaxPasswordBytes {
		return model.User{}, invalid("password must be at most %d bytes", utils.MaxPasswordBytes)
	}
	if err := checkLengths(
		field{"email", email, maxEmail},
		field{"name", name, maxName},
		field{"phone", phone, maxPhone},
		field{"service", service, maxService},
		field{"experience", experience, maxExperience},
	); err != nil {
		return model.User{}, err
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return model.User{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := model.User{Email: email, PasswordHash: hash, Role: role, Name: name, Phone: phone}
	err = withTx(ctx, s.db, "create user", func(tx *sql.Tx) error {
		if err := s.users.CreateTx(ctx, tx, &u); err != nil {
			if errors.Is(err, repository.ErrEmailExists) {
				return fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
			}
			return storeErr("create user", err)
		}
		if role != model.RoleWorker {
			return nil
		}
		p := model.WorkerProfile{UserID: u.ID, Service: service, Experience: experience}
		if err := s.users.CreateWorkerProfileTx(ctx, tx, &p); err != nil {
			return storeErr("create worker profile", err)
		}
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	log.Printf("identity: registered user=%d role=%s", u.ID, u.Role)
	return u, nil
}

// Authenticate checks an email/password pair.  An empty role accepts
// any account; otherwise a role mismatch is reported as
// ErrInvalidCredentials, the same as a wrong password.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string, role model.Role) (model.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return model.User{}, invalid("email and password are required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("%w: user %s", ErrNotFound, repository.NormalizeEmail(email))
		}
		return model.User{}, storeErr("load user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	if role != "" && role != u.Role {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetUser loads an account by id.
func (s *IdentityService) GetUser(ctx context.Context, id uint64) (model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return model.User{}, storeErr("load user", err)
	}
	return u, nil
}

// GetWorkerProfile loads the profile of a worker account.
func (s *IdentityService) GetWorkerProfile(ctx context.Context, userID uint64) (model.WorkerProfile, error) {
	p, err := s.users.GetWorkerProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.WorkerProfile{}, fmt.Errorf("%w: worker profile %d", ErrNotFound, userID)
		}
		return model.WorkerProfile{}, storeErr("load worker profile", err)
	}
	return p, nil
}

// IssueSession signs an access token for u and stores the hash of a
// fresh refresh token.
func (s *IdentityService) IssueSession(ctx context.Context, u model.User) (Session, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, string(u.Role), s.cfg.AccessTTLMin)
	if err != nil {
		return Session{}, fmt.Errorf("issue access: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return Session{}, fmt.Errorf("issue refresh: %w", err)
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return Session{}, storeErr("save refresh", err)
	}
	return Session{User: u, Access: access, Refresh: refresh}, nil
}

// Rotate exchanges a valid refresh token for a new session and revokes
// the old token.  Unknown, expired and revoked tokens give
// ErrInvalidCredentials.
func (s *IdentityService) Rotate(ctx context.Context, raw string) (Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Session{}, invalid("refresh_token required")
	}
	hash := utils.HashRefreshRaw(raw)
	userID, err := s.tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, fmt.Errorf("%w: refresh token", ErrInvalidCredentials)
		}
		return Session{}, storeErr("validate refresh", err)
	}
	// Only the caller whose UPDATE flips revoked_at gets a new session;
	// a concurrent rotation of the same token sees zero rows.
	n, err := s.tokens.RevokeByHash(ctx, hash)
	if err != nil {
		return Session{}, storeErr("revoke refresh", err)
	}
	if n == 0 {
		return Session{}, fmt.Errorf("%w: refresh token already used", ErrInvalidCredentials)
	}
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	return s.IssueSession(ctx, u)
}

// RevokeRefresh logs out the session behind one refresh token.
func (s *IdentityService) RevokeRefresh(ctx context.Context, raw string) error {
	hash := utils.HashRefreshRaw(strings.TrimSpace(raw))
	if _, err := s.tokens.ValidateRefresh(ctx, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: refresh token", ErrInvalidCredentials)
		}
		return storeErr("validate refresh", err)
	}
	n, err := s.tokens.RevokeByHash(ctx, hash)
	if err != nil {
		return storeErr("revoke refresh", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: refresh token already revoked", ErrInvalidCredentials)
	}
	return nil
}

// RevokeAll logs the user out of every session.
func (s *IdentityService) RevokeAll(ctx context.Context, userID uint64) error {
	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return storeErr("revoke sessions", err)
	}
	return nil
}
