package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/vaibhavguptahere/smacad-test/internal/apperr"
	"github.com/vaibhavguptahere/smacad-test/internal/middleware"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
	"github.com/vaibhavguptahere/smacad-test/internal/service"
	"github.com/vaibhavguptahere/smacad-test/internal/storage"
	"github.com/vaibhavguptahere/smacad-test/internal/ui"
)

// multipartMemory is how much of an upload is buffered before spilling to disk.
const multipartMemory = 32 << 20

type noteResponse struct {
	Message string      `json:"message"`
	Note    *model.Note `json:"note"`
}

type noteHandler struct {
	noteService   *service.NoteService
	maxUploadSize int64
}

func NewNoteHandler(noteService *service.NoteService, maxUploadSize int64) *noteHandler {
	return &noteHandler{
		noteService:   noteService,
		maxUploadSize: maxUploadSize,
	}
}

// List serves both the public catalogue and the admin listing.
func (h *noteHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	notes, err := h.noteService.List(r.Context(), model.NoteFilter{
		Class:   query.Get("class"),
		Subject: query.Get("subject"),
		Search:  query.Get("search"),
	})
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, nonNil(notes))
}

func (h *noteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.noteService.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, note)
}

func (h *noteHandler) Create(w http.ResponseWriter, r *http.Request) {
	// Leave room for the form fields around the file part
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)

	err := r.ParseMultipartForm(multipartMemory)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ui.Error(w, r, apperr.Validation("file too large (maximum size is "+formatMB(h.maxUploadSize)+")", "file"))
			return
		}
		ui.Error(w, r, apperr.Validation("invalid multipart form"))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	input := service.NoteInput{
		Title:       r.FormValue("title"),
		Class:       r.FormValue("class"),
		Subject:     r.FormValue("subject"),
		Topic:       r.FormValue("topic"),
		Description: r.FormValue("description"),
	}

	upload, closeFile, err := formUpload(r, "file")
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	defer closeFile()

	note, err := h.noteService.Create(r.Context(), input, upload)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	ui.JSON(w, http.StatusOK, noteResponse{Message: "Note uploaded successfully", Note: note})
}

func (h *noteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.noteService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.Message(w, http.StatusOK, "Note deleted successfully")
}

// Download redirects to a short-lived link when storage offers one and
// streams the file otherwise.
func (h *noteHandler) Download(w http.ResponseWriter, r *http.Request) {
	result, err := h.noteService.Download(r.Context(), r.PathValue("id"), model.Requester{
		UserAgent: r.UserAgent(),
		IP:        middleware.ForwardedIP(r),
	})
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	object := result.Object
	if object.RedirectURL != "" {
		http.Redirect(w, r, object.RedirectURL, http.StatusFound)
		return
	}
	defer object.Body.Close()

	contentType := result.Note.MimeType
	if contentType == "" {
		contentType = object.ContentType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", storage.ContentDisposition(result.Filename))
	w.Header().Set("Cache-Control", "no-store")
	if object.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(object.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	_, err = io.Copy(w, object.Body)
	if err != nil {
		slog.Warn("download stream interrupted", "note_id", result.Note.ID, "error", err)
	}
}

// formUpload returns nil without error when the field is absent so the
// service can report it together with the other missing fields.
func formUpload(r *http.Request, field string) (*service.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, apperr.Validation("invalid file upload", field)
	}

	return &service.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, func() { closeQuietly(file) }, nil
}

func closeQuietly(f multipart.File) {
	err := f.Close()
	if err != nil {
		slog.Debug("failed to close upload", "error", err)
	}
}

func formatMB(size int64) string {
	return strconv.FormatInt(size>>20, 10) + " MB"
}
