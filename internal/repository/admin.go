package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
)

var (
	ErrAdminNotFound     = errors.New("admin not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrAdminExists       = errors.New("an administrator already exists")
)

type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	// CreateFirst inserts admin only while the table is empty, in a single
	// statement. Returns ErrAdminExists otherwise.
	CreateFirst(ctx context.Context, admin *model.Admin) error
	ByID(ctx context.Context, id string) (*model.Admin, error)
	ByUsername(ctx context.Context, username string) (*model.Admin, error)
	Count(ctx context.Context) (int, error)
}

type adminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	query := `INSERT INTO admins (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, admin.ID, admin.Username, admin.PasswordHash, admin.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		return err
	}

	return nil
}

func (r *adminRepository) CreateFirst(ctx context.Context, admin *model.Admin) error {
	query := `INSERT INTO admins (id, username, password_hash, created_at)
		SELECT $1, $2, $3, $4 WHERE NOT EXISTS (SELECT 1 FROM admins)`

	result, err := r.db.ExecContext(ctx, query, admin.ID, admin.Username, admin.PasswordHash, admin.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAdminExists
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAdminExists
	}

	return nil
}

func (r *adminRepository) ByID(ctx context.Context, id string) (*model.Admin, error) {
	admin := &model.Admin{}
	query := `SELECT * FROM admins WHERE id = $1`

	err := r.db.GetContext(ctx, admin, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}

	return admin, err
}

func (r *adminRepository) ByUsername(ctx context.Context, username string) (*model.Admin, error) {
	admin := &model.Admin{}
	query := `SELECT * FROM admins WHERE username = $1`

	err := r.db.GetContext(ctx, admin, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}

	return admin, err
}

func (r *adminRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM admins`)
	return count, err
}
