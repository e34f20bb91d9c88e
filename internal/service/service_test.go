package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vaibhavguptahere/smacad-test/internal/db/dbtest"
	"github.com/vaibhavguptahere/smacad-test/internal/markdown"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
	"github.com/vaibhavguptahere/smacad-test/internal/repository"
	"github.com/vaibhavguptahere/smacad-test/internal/storage/storagetest"
)

var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n")

type testEnv struct {
	auth      *AuthService
	notes     *NoteService
	contacts  *ContactService
	analytics *AnalyticsService
	storage   *storagetest.Memory
	noteRepo  repository.NoteRepository
	downloads repository.DownloadRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database := dbtest.New(t)
	adminRepo := repository.NewAdminRepository(database)
	noteRepo := repository.NewNoteRepository(database)
	contactRepo := repository.NewContactRepository(database)
	downloadRepo := repository.NewDownloadRepository(database)
	store := storagetest.NewMemory()

	emailService := NewEmailService("", "noreply@example.com", "owner@example.com", "http://localhost:8090", "SM Academy", true)

	return &testEnv{
		auth:      NewAuthService(adminRepo, "test-secret-test-secret-test-secret", 24*time.Hour, false),
		notes:     NewNoteService(noteRepo, downloadRepo, store, markdown.NewParser(), 1<<20),
		contacts:  NewContactService(contactRepo, emailService),
		analytics: NewAnalyticsService(noteRepo, contactRepo, downloadRepo, time.UTC),
		storage:   store,
		noteRepo:  noteRepo,
		downloads: downloadRepo,
	}
}

func pdfUpload(name string) *Upload {
	return &Upload{Filename: name, Size: int64(len(pdfContent)), Content: bytes.NewReader(pdfContent)}
}

func mustCreateNote(t *testing.T, env *testEnv, title, class, subject, topic string) *model.Note {
	t.Helper()

	note, err := env.notes.Create(context.Background(), NoteInput{
		Title:   title,
		Class:   class,
		Subject: subject,
		Topic:   topic,
	}, pdfUpload(title+".pdf"))
	require.NoError(t, err)
	return note
}
