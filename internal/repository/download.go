package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vaibhavguptahere/smacad-test/internal/db"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
)

type DownloadRepository interface {
	// Record bumps the note's counter and appends a ledger entry in one
	// transaction. Returns ErrNoteNotFound when the note is gone or has no file.
	Record(ctx context.Context, noteID string, requester model.Requester, at time.Time) (*model.Download, error)
	All(ctx context.Context) ([]*model.Download, error)
	Recent(ctx context.Context, limit int) ([]*model.Download, error)
	CountByNote(ctx context.Context, noteID string) (int64, error)
}

type downloadRepository struct {
	db *sqlx.DB
}

func NewDownloadRepository(db *sqlx.DB) DownloadRepository {
	return &downloadRepository{db: db}
}

func (r *downloadRepository) Record(ctx context.Context, noteID string, requester model.Requester, at time.Time) (*model.Download, error) {
	download := &model.Download{
		ID:           uuid.New().String(),
		NoteID:       noteID,
		DownloadedAt: at,
		UserAgent:    requester.UserAgent,
		IP:           requester.IP,
	}

	err := db.WithTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE notes SET download_count = download_count + 1, last_downloaded = $1 WHERE id = $2 AND storage_path <> ''`,
			at, noteID,
		)
		if err != nil {
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNoteNotFound
		}

		// Snapshot inside the transaction so it matches the counted note.
		var snapshot struct {
			Title   string `db:"title"`
			Subject string `db:"subject"`
			Topic   string `db:"topic"`
		}
		err = tx.GetContext(ctx, &snapshot, `SELECT title, subject, topic FROM notes WHERE id = $1`, noteID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoteNotFound
		}
		if err != nil {
			return err
		}

		download.NoteTitle = snapshot.Title
		download.Subject = snapshot.Subject
		download.Topic = snapshot.Topic

		_, err = tx.ExecContext(ctx,
			`INSERT INTO downloads (id, note_id, note_title, subject, topic, downloaded_at, user_agent, ip)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			download.ID,
			download.NoteID,
			download.NoteTitle,
			download.Subject,
			download.Topic,
			download.DownloadedAt,
			download.UserAgent,
			download.IP,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	return download, nil
}

func (r *downloadRepository) All(ctx context.Context) ([]*model.Download, error) {
	downloads := []*model.Download{}
	query := `SELECT * FROM downloads ORDER BY downloaded_at, id`

	err := r.db.SelectContext(ctx, &downloads, query)
	if err != nil {
		return nil, err
	}

	return downloads, nil
}

func (r *downloadRepository) Recent(ctx context.Context, limit int) ([]*model.Download, error) {
	downloads := []*model.Download{}
	query := `SELECT * FROM downloads ORDER BY downloaded_at DESC, id LIMIT $1`

	err := r.db.SelectContext(ctx, &downloads, query, limit)
	if err != nil {
		return nil, err
	}

	return downloads, nil
}

func (r *downloadRepository) CountByNote(ctx context.Context, noteID string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM downloads WHERE note_id = $1`, noteID)
	return count, err
}
