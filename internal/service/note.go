package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vaibhavguptahere/smacad-test/internal/apperr"
	"github.com/vaibhavguptahere/smacad-test/internal/markdown"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
	"github.com/vaibhavguptahere/smacad-test/internal/repository"
	"github.com/vaibhavguptahere/smacad-test/internal/storage"
	"github.com/vaibhavguptahere/smacad-test/internal/validation"
)

// notesPrefix is the storage folder for uploaded note files.
const notesPrefix = "notes"

// NoteInput carries the metadata of a note upload.
type NoteInput struct {
	Title       string
	Class       string
	Subject     string
	Topic       string
	Description string
}

// Upload is the file part of a note upload.
type Upload struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}

// DownloadResult is what a client needs to fetch a note's file.
type DownloadResult struct {
	Note     *model.Note
	Download *model.Download
	Object   *storage.Object
	Filename string // attachment name, the same for every storage driver
}

type NoteService struct {
	noteRepo      repository.NoteRepository
	downloadRepo  repository.DownloadRepository
	storage       storage.Storage
	parser        *markdown.Parser
	maxUploadSize int64
	now           func() time.Time
}

func NewNoteService(
	noteRepo repository.NoteRepository,
	downloadRepo repository.DownloadRepository,
	storage storage.Storage,
	parser *markdown.Parser,
	maxUploadSize int64,
) *NoteService {
	return &NoteService{
		noteRepo:      noteRepo,
		downloadRepo:  downloadRepo,
		storage:       storage,
		parser:        parser,
		maxUploadSize: maxUploadSize,
		now:           time.Now,
	}
}

// Create stores the file first and inserts the note only once the file is
// saved. A failed insert removes the stored file again on a best-effort basis.
func (s *NoteService) Create(ctx context.Context, input NoteInput, upload *Upload) (*model.Note, error) {
	input = trimInput(input)

	fileName := ""
	if upload != nil && upload.Content != nil {
		fileName = upload.Filename
	}
	missing := validation.Missing(
		validation.Field{Name: "title", Value: input.Title},
		validation.Field{Name: "subject", Value: input.Subject},
		validation.Field{Name: "topic", Value: input.Topic},
		validation.Field{Name: "file", Value: fileName},
	)
	if len(missing) > 0 {
		return nil, apperr.MissingFields(missing...)
	}

	detected, err := validation.ValidateUpload(upload.Filename, upload.Size, upload.Content, validation.NoteConstraints(s.maxUploadSize)...)
	if err != nil {
		return nil, apperr.Validation(err.Error(), "file")
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	filename := uuid.New().String() + ext
	storagePath := path.Join(notesPrefix, filename)
	contentType := validation.ContentTypeFor(upload.Filename, detected)

	err = s.storage.Save(ctx, storagePath, upload.Content, contentType)
	if err != nil {
		slog.Error("failed to save note file", "error", err, "path", storagePath)
		return nil, apperr.UpstreamStorage("failed to save file", err)
	}

	if input.Class == "" {
		input.Class = model.DefaultClass
	}

	note := &model.Note{
		ID:           uuid.New().String(),
		Title:        input.Title,
		Class:        input.Class,
		Subject:      input.Subject,
		Topic:        input.Topic,
		Description:  input.Description,
		Filename:     filename,
		OriginalName: storage.SanitizeFilename(upload.Filename),
		FileType:     strings.TrimPrefix(ext, "."),
		MimeType:     contentType,
		Size:         upload.Size,
		StoragePath:  storagePath,
		CreatedAt:    s.now().UTC(),
	}

	err = s.noteRepo.Create(ctx, note)
	if err != nil {
		// If DB insert fails, try to cleanup the uploaded file
		delErr := s.storage.Delete(ctx, storagePath)
		if delErr != nil {
			slog.Error("orphaned note file left in storage", "error", delErr, "path", storagePath)
		}
		return nil, apperr.Internal("failed to create note", err)
	}

	slog.Info("note created", "note_id", note.ID, "subject", note.Subject, "path", storagePath)
	return note, nil
}

// Delete removes the stored file, then the record. A storage failure is
// logged and does not block the record deletion.
func (s *NoteService) Delete(ctx context.Context, id string) error {
	note, err := s.noteRepo.ByID(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return apperr.NotFound("note not found")
	}
	if err != nil {
		return apperr.Internal("failed to get note", err)
	}

	if note.HasFile() {
		delErr := s.storage.Delete(ctx, note.StoragePath)
		if delErr != nil {
			slog.Error("failed to delete note file from storage", "error", delErr, "note_id", id, "path", note.StoragePath)
		}
	}

	err = s.noteRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return apperr.NotFound("note not found")
	}
	if err != nil {
		return apperr.Internal("failed to delete note", err)
	}

	slog.Info("note deleted", "note_id", id)
	return nil
}

func (s *NoteService) List(ctx context.Context, filter model.NoteFilter) ([]*model.Note, error) {
	notes, err := s.noteRepo.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("failed to list notes", err)
	}
	return notes, nil
}

// ByID returns a note with its description rendered to HTML.
func (s *NoteService) ByID(ctx context.Context, id string) (*model.Note, error) {
	note, err := s.noteRepo.ByID(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return nil, apperr.NotFound("note not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to get note", err)
	}

	html, err := s.parser.Render(note.Description)
	if err != nil {
		slog.Warn("failed to render note description", "error", err, "note_id", id)
	} else {
		note.DescriptionHTML = html
	}

	return note, nil
}

// Download resolves the note's file and records the download. The counter
// bump and the ledger entry are written in one transaction.
func (s *NoteService) Download(ctx context.Context, id string, requester model.Requester) (*DownloadResult, error) {
	note, err := s.noteRepo.ByID(ctx, id)
	if errors.Is(err, repository.ErrNoteNotFound) {
		return nil, apperr.NotFound("note not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to get note", err)
	}
	if !note.HasFile() {
		return nil, apperr.NotFound("file not found")
	}

	filename := downloadName(note)
	object, err := s.storage.Retrieve(ctx, note.StoragePath, filename)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Error("note file missing from storage", "note_id", id, "path", note.StoragePath)
		return nil, apperr.NotFound("file not found")
	}
	if err != nil {
		return nil, apperr.UpstreamStorage("failed to retrieve file", err)
	}

	download, err := s.downloadRepo.Record(ctx, id, normalizeRequester(requester), s.now().UTC())
	if err != nil {
		if object.Body != nil {
			_ = object.Body.Close()
		}
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, apperr.NotFound("note not found")
		}
		return nil, apperr.Internal("failed to record download", err)
	}

	note.DownloadCount++
	note.LastDownloaded = &download.DownloadedAt

	return &DownloadResult{Note: note, Download: download, Object: object, Filename: filename}, nil
}

// MissingFiles lists notes whose stored file can no longer be found.
func (s *NoteService) MissingFiles(ctx context.Context) ([]*model.Note, error) {
	notes, err := s.noteRepo.List(ctx, model.NoteFilter{})
	if err != nil {
		return nil, apperr.Internal("failed to list notes", err)
	}

	var missing []*model.Note
	for _, note := range notes {
		if !note.HasFile() {
			missing = append(missing, note)
			continue
		}
		ok, err := s.storage.Exists(ctx, note.StoragePath)
		if err != nil {
			return nil, apperr.UpstreamStorage(fmt.Sprintf("failed to check %s", note.StoragePath), err)
		}
		if !ok {
			missing = append(missing, note)
		}
	}

	return missing, nil
}

// downloadName is the attachment name offered to the client.
func downloadName(note *model.Note) string {
	if note.OriginalName != "" {
		return note.OriginalName
	}
	return note.Title + filepath.Ext(note.Filename)
}

func normalizeRequester(r model.Requester) model.Requester {
	r.UserAgent = strings.TrimSpace(r.UserAgent)
	r.IP = strings.TrimSpace(r.IP)
	if r.UserAgent == "" {
		r.UserAgent = model.UnknownRequester
	}
	if r.IP == "" {
		r.IP = model.UnknownRequester
	}
	return r
}

func trimInput(input NoteInput) NoteInput {
	return NoteInput{
		Title:       strings.TrimSpace(input.Title),
		Class:       strings.TrimSpace(input.Class),
		Subject:     strings.TrimSpace(input.Subject),
		Topic:       strings.TrimSpace(input.Topic),
		Description: strings.TrimSpace(input.Description),
	}
}
