package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
)

var (
	ErrContactNotFound = errors.New("contact not found")
)

type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	ByID(ctx context.Context, id string) (*model.Contact, error)
	List(ctx context.Context) ([]*model.Contact, error)
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	query := `INSERT INTO contacts (id, name, email, message, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		contact.ID,
		contact.Name,
		contact.Email,
		contact.Message,
		contact.Status,
		contact.CreatedAt,
		contact.UpdatedAt,
	)

	return err
}

func (r *contactRepository) ByID(ctx context.Context, id string) (*model.Contact, error) {
	contact := &model.Contact{}
	query := `SELECT * FROM contacts WHERE id = $1`

	err := r.db.GetContext(ctx, contact, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}

	return contact, nil
}

func (r *contactRepository) List(ctx context.Context) ([]*model.Contact, error) {
	contacts := []*model.Contact{}
	query := `SELECT * FROM contacts ORDER BY created_at DESC, id`

	err := r.db.SelectContext(ctx, &contacts, query)
	if err != nil {
		return nil, err
	}

	return contacts, nil
}

func (r *contactRepository) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	query := `UPDATE contacts SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, status, updatedAt, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrContactNotFound
	}

	return nil
}

func (r *contactRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM contacts WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrContactNotFound
	}

	return nil
}
