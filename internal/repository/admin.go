package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/futurenote/futurenote/internal/model"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrAdminExists   = errors.New("admin already exists")
)

type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	ByEmail(ctx context.Context, email string) (*model.Admin, error)
	ByID(ctx context.Context, id string) (*model.Admin, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

type adminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO admins (id, email, name, password_hash, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query,
		admin.ID,
		admin.Email,
		admin.Name,
		admin.PasswordHash,
		admin.Role,
		admin.IsActive,
		admin.CreatedAt,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAdminExists
	}
	return nil
}

func (r *adminRepository) ByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.get(ctx, `SELECT * FROM admins WHERE email = $1`, email)
}

func (r *adminRepository) ByID(ctx context.Context, id string) (*model.Admin, error) {
	return r.get(ctx, `SELECT * FROM admins WHERE id = $1`, id)
}

func (r *adminRepository) get(ctx context.Context, query string, arg string) (*model.Admin, error) {
	admin := &model.Admin{}
	err := r.db.GetContext(ctx, admin, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (r *adminRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE admins SET last_login_at = $1 WHERE id = $2`, at, id)
	return err
}
