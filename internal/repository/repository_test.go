package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaibhavguptahere/smacad-test/internal/db/dbtest"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
)

func newNote(title, class, subject, topic string, createdAt time.Time) *model.Note {
	return &model.Note{
		ID:           uuid.New().String(),
		Title:        title,
		Class:        class,
		Subject:      subject,
		Topic:        topic,
		Filename:     "file.pdf",
		OriginalName: "file.pdf",
		FileType:     "pdf",
		MimeType:     "application/pdf",
		Size:         1024,
		StoragePath:  "notes/" + uuid.New().String() + ".pdf",
		CreatedAt:    createdAt,
	}
}

func TestAdminRepository_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewAdminRepository(dbtest.New(t))
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &model.Admin{ID: "a1", Username: "root", PasswordHash: "h", CreatedAt: now}))
	err := repo.Create(ctx, &model.Admin{ID: "a2", Username: "root", PasswordHash: "h", CreatedAt: now})
	require.ErrorIs(t, err, ErrDuplicateUsername)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = repo.ByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrAdminNotFound)

	admin, err := repo.ByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "root", admin.Username)
}

func TestNoteRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(dbtest.New(t))
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	algebra := newNote("Algebra Basics", "Class 10", "Mathematics", "Algebra", base)
	geometry := newNote("Triangles", "Class 10", "Mathematics", "Geometry", base.Add(time.Hour))
	optics := newNote("Light and Lenses", "Class 12", "Physics", "Optics", base.Add(2*time.Hour))
	percent := newNote("100% Revision", model.DefaultClass, "Physics", "Revision_Notes", base.Add(3*time.Hour))
	for _, n := range []*model.Note{algebra, geometry, optics, percent} {
		require.NoError(t, repo.Create(ctx, n))
	}

	all, err := repo.List(ctx, model.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, percent.ID, all[0].ID, "newest first")
	assert.Equal(t, int64(0), all[0].DownloadCount)
	assert.Nil(t, all[0].LastDownloaded)

	byClass, err := repo.List(ctx, model.NoteFilter{Class: "Class 10"})
	require.NoError(t, err)
	assert.Len(t, byClass, 2)

	bySubject, err := repo.List(ctx, model.NoteFilter{Class: "Class 10", Subject: "Mathematics", Search: "GEOM"})
	require.NoError(t, err)
	require.Len(t, bySubject, 1)
	assert.Equal(t, geometry.ID, bySubject[0].ID)

	byTitle, err := repo.List(ctx, model.NoteFilter{Search: "lenses"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, optics.ID, byTitle[0].ID)

	// Wildcards in the search text are literal.
	literal, err := repo.List(ctx, model.NoteFilter{Search: "100%"})
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, percent.ID, literal[0].ID)

	underscore, err := repo.List(ctx, model.NoteFilter{Search: "n_tes"})
	require.NoError(t, err)
	assert.Empty(t, underscore)
}

func TestNoteRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(dbtest.New(t))
	note := newNote("Cells", "Class 9", "Biology", "Cells", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, note))

	require.NoError(t, repo.Delete(ctx, note.ID))
	assert.ErrorIs(t, repo.Delete(ctx, note.ID), ErrNoteNotFound)

	_, err := repo.ByID(ctx, note.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestContactRepository_StatusAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(dbtest.New(t))
	created := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	contact := &model.Contact{
		ID:        "c1",
		Name:      "A",
		Email:     "a@x.com",
		Message:   "hi",
		Status:    model.ContactStatusUnread,
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, repo.Create(ctx, contact))

	later := created.Add(time.Minute)
	require.NoError(t, repo.UpdateStatus(ctx, "c1", model.ContactStatusRead, later))

	got, err := repo.ByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, model.ContactStatusRead, got.Status)
	assert.True(t, got.UpdatedAt.Equal(later))

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", model.ContactStatusRead, later), ErrContactNotFound)
	require.NoError(t, repo.Delete(ctx, "c1"))
	assert.ErrorIs(t, repo.Delete(ctx, "c1"), ErrContactNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDownloadRepository_RecordIncrementsAndSnapshots(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	notes := NewNoteRepository(database)
	downloads := NewDownloadRepository(database)

	note := newNote("Algebra Basics", "Class 10", "Mathematics", "Algebra", time.Now().UTC())
	require.NoError(t, notes.Create(ctx, note))

	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		d, err := downloads.Record(ctx, note.ID, model.Requester{UserAgent: "curl", IP: "10.0.0.1"}, at.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, "Mathematics", d.Subject)
		assert.Equal(t, "Algebra Basics", d.NoteTitle)

		got, err := notes.ByID(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i), got.DownloadCount)
		require.NotNil(t, got.LastDownloaded)

		count, err := downloads.CountByNote(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, got.DownloadCount, count, "counter matches ledger")
	}

	recent, err := downloads.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.True(t, recent[0].DownloadedAt.After(recent[1].DownloadedAt))

	// Ledger entries survive note deletion.
	require.NoError(t, notes.Delete(ctx, note.ID))
	all, err := downloads.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = downloads.Record(ctx, note.ID, model.Requester{}, at)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestDownloadRepository_RecordRollsBackOnInsertFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewDownloadRepository(sqlx.NewDb(mockDB, "sqlmock"))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE notes SET download_count = download_count \+ 1`).
		WithArgs(sqlmock.AnyArg(), "n1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT title, subject, topic FROM notes WHERE id = \$1`).
		WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"title", "subject", "topic"}).AddRow("Algebra Basics", "Mathematics", "Algebra"))
	mock.ExpectExec(`INSERT INTO downloads`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = repo.Record(context.Background(), "n1", model.Requester{UserAgent: "curl", IP: "1.2.3.4"}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDownloadRepository_RecordMissingNoteRollsBack(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewDownloadRepository(sqlx.NewDb(mockDB, "sqlmock"))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE notes SET download_count`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = repo.Record(context.Background(), "gone", model.Requester{}, time.Now())
	require.ErrorIs(t, err, ErrNoteNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
