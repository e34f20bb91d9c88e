package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
)

var (
	ErrNoteNotFound = errors.New("note not found")
)

type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	ByID(ctx context.Context, id string) (*model.Note, error)
	List(ctx context.Context, filter model.NoteFilter) ([]*model.Note, error)
	Delete(ctx context.Context, id string) error
}

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note) error {
	query := `INSERT INTO notes (id, title, class, subject, topic, description, filename, original_name, file_type, mime_type, size, storage_path, download_count, last_downloaded, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.Title,
		note.Class,
		note.Subject,
		note.Topic,
		note.Description,
		note.Filename,
		note.OriginalName,
		note.FileType,
		note.MimeType,
		note.Size,
		note.StoragePath,
		note.DownloadCount,
		note.LastDownloaded,
		note.CreatedAt,
	)

	return err
}

func (r *noteRepository) ByID(ctx context.Context, id string) (*model.Note, error) {
	note := &model.Note{}
	query := `SELECT * FROM notes WHERE id = $1`

	err := r.db.GetContext(ctx, note, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}

	return note, nil
}

// List returns notes newest first. Class and subject match exactly; search
// matches title or topic case-insensitively.
func (r *noteRepository) List(ctx context.Context, filter model.NoteFilter) ([]*model.Note, error) {
	var (
		conds []string
		args  []any
	)

	if filter.Class != "" {
		args = append(args, filter.Class)
		conds = append(conds, fmt.Sprintf("class = $%d", len(args)))
	}
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		conds = append(conds, fmt.Sprintf("subject = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		args = append(args, pattern, pattern)
		conds = append(conds, fmt.Sprintf(`(LOWER(title) LIKE $%d ESCAPE '\' OR LOWER(topic) LIKE $%d ESCAPE '\')`, len(args)-1, len(args)))
	}

	query := `SELECT * FROM notes`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	notes := []*model.Note{}
	err := r.db.SelectContext(ctx, &notes, query, args...)
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *noteRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM notes WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
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

	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
