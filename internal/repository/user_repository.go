package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/fixsewa/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeEmail lower-cases and trims an address the same way for
// inserts and lookups.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// CreateTx inserts u within tx and fills in its ID and CreatedAt.  The
// caller supplies an already hashed password.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, u *model.User) error {
	u.Email = NormalizeEmail(u.Email)
	u.CreatedAt = now()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role, name, phone, created_at) VALUES (?,?,?,?,?,?)",
		u.Email, u.PasswordHash, string(u.Role), u.Name, u.Phone, u.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// CreateWorkerProfileTx inserts the workers row for a worker account.
func (r *UserRepo) CreateWorkerProfileTx(ctx context.Context, tx *sql.Tx, p *model.WorkerProfile) error {
	p.CreatedAt = now()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO workers (user_id, service, experience, created_at) VALUES (?,?,?,?)",
		p.UserID, p.Service, p.Experience, p.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

const userColumns = "id,email,password_hash,role,name,phone,created_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.Name, &u.Phone, &u.CreatedAt)
	u.Role = model.Role(role)
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", NormalizeEmail(email)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetWorkerProfile fetches the workers row belonging to userID.
func (r *UserRepo) GetWorkerProfile(ctx context.Context, userID uint64) (model.WorkerProfile, error) {
	var p model.WorkerProfile
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,service,experience,created_at FROM workers WHERE user_id=? LIMIT 1",
		userID).Scan(&p.ID, &p.UserID, &p.Service, &p.Experience, &p.CreatedAt)
	return p, err
}

// ListWorkers returns worker profiles with their review aggregates,
// ordered by name.  An empty service returns every worker.
func (r *UserRepo) ListWorkers(ctx context.Context, service string) ([]model.WorkerListing, error) {
	const q = `SELECT u.id, u.name, w.service, w.experience,
                      COALESCE(AVG(wr.rating), 0), COUNT(wr.id)
               FROM workers w
               JOIN users u ON u.id = w.user_id
               LEFT JOIN worker_reviews wr ON wr.worker_id = u.id
               WHERE (? = '' OR w.service = ?)
               GROUP BY u.id, u.name, w.service, w.experience
               ORDER BY u.name, u.id`
	service = strings.ToLower(strings.TrimSpace(service))
	rows, err := r.DB.QueryContext(ctx, q, service, service)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.WorkerListing{}
	for rows.Next() {
		var w model.WorkerListing
		if err := rows.Scan(&w.UserID, &w.Name, &w.Service, &w.Experience, &w.AverageRating, &w.ReviewCount); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
