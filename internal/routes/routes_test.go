package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaibhavguptahere/smacad-test/internal/app"
	"github.com/vaibhavguptahere/smacad-test/internal/config"
	"github.com/vaibhavguptahere/smacad-test/internal/db"
	"github.com/vaibhavguptahere/smacad-test/internal/db/dbtest"
	"github.com/vaibhavguptahere/smacad-test/internal/service"
	"github.com/vaibhavguptahere/smacad-test/internal/storage/storagetest"
)

var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n")

type testServer struct {
	t       *testing.T
	handler http.Handler
	storage *storagetest.Memory
	cookie  *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, dbtest.New(t))
}

// newFileTestServer runs on a database file with the default connection
// settings and the production pool.
func newFileTestServer(t *testing.T) *testServer {
	t.Helper()

	_, params, _ := strings.Cut(config.DefaultSQLiteConnection, "?")
	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "notes.db")+"?"+params)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	return newTestServerWith(t, database)
}

func newTestServerWith(t *testing.T, database *sqlx.DB) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppName:       "SM Academy",
		AppEnv:        "development",
		AppURL:        "https://notes.example.com",
		TimeZone:      "UTC",
		DBDriver:      "sqlite",
		JWTSecret:     "test-secret-test-secret-test-secret",
		JWTExpiry:     24 * time.Hour,
		EmailFrom:     "noreply@example.com",
		MaxUploadSize: 1 << 20,
		StorageDriver: config.StorageLocal,
	}
	store := storagetest.NewMemory()

	a, err := app.Build(cfg, database, store)
	require.NoError(t, err)

	return &testServer{t: t, handler: SetupRoutes(a), storage: store}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	s.t.Helper()
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.do(req)
}

func (s *testServer) upload(fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(s.t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(s.t, err)
		_, err = part.Write(content)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/notes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req)
}

// setupAdmin creates the first admin and keeps its session cookie.
func (s *testServer) setupAdmin() {
	s.t.Helper()
	rec := s.request(http.MethodPost, "/api/admin/setup", map[string]string{"username": "admin", "password": "password123"})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	s.cookie = tokenCookie(s.t, rec)
}

func tokenCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == service.TokenCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", service.TokenCookie)
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

type noteBody struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Class         string `json:"class"`
	Subject       string `json:"subject"`
	DownloadCount int64  `json:"downloadCount"`
}

func TestSetupAndLogin(t *testing.T) {
	s := newTestServer(t)

	status := decode[service.SetupStatus](t, s.request(http.MethodGet, "/api/admin/setup", nil))
	assert.False(t, status.HasAdmin)

	s.setupAdmin()
	assert.True(t, s.cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, s.cookie.SameSite)
	assert.InDelta(t, 24*60*60, s.cookie.MaxAge, 2)

	rec := s.request(http.MethodPost, "/api/admin/setup", map[string]string{"username": "second", "password": "password123"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.request(http.MethodGet, "/admin/setup", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	s.cookie = nil
	rec = s.request(http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	wrongPassword := decode[errorBody](t, rec).Error

	rec = s.request(http.MethodPost, "/api/admin/login", map[string]string{"username": "nobody", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, wrongPassword, decode[errorBody](t, rec).Error)

	rec = s.request(http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	s.cookie = tokenCookie(t, rec)

	rec = s.request(http.MethodGet, "/api/admin/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"admin"`)

	rec = s.request(http.MethodPost, "/api/admin/logout", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -1, tokenCookie(t, rec).MaxAge)
}

func TestLoginAcceptsFormPost(t *testing.T) {
	s := newTestServer(t)
	s.setupAdmin()
	s.cookie = nil

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader("username=admin&password=password123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := s.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, tokenCookie(t, rec).Value)
}

func TestAdminGate(t *testing.T) {
	s := newTestServer(t)

	rec := s.request(http.MethodGet, "/api/admin/notes", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode[errorBody](t, rec).Error)

	rec = s.request(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	rec = s.request(http.MethodGet, "/admin/login", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin login")

	s.cookie = &http.Cookie{Name: service.TokenCookie, Value: "forged.token.value"}
	rec = s.request(http.MethodGet, "/api/admin/aggregations/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.setupAdmin()
	rec = s.request(http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestNoteLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.setupAdmin()

	rec := s.upload(map[string]string{
		"title":       "Algebra Basics",
		"class":       "Class 10",
		"subject":     "Mathematics",
		"topic":       "Algebra",
		"description": "Linear *equations*",
	}, "Algebra Basics.pdf", pdfContent)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[struct {
		Message string   `json:"message"`
		Note    noteBody `json:"note"`
	}](t, rec)
	assert.Equal(t, "Note uploaded successfully", created.Message)
	id := created.Note.ID
	require.NotEmpty(t, id)
	assert.Equal(t, 1, s.storage.Len())

	// Public listing and detail
	s.cookie = nil
	notes := decode[[]noteBody](t, s.request(http.MethodGet, "/api/notes?subject=Mathematics", nil))
	require.Len(t, notes, 1)
	assert.Equal(t, "Algebra Basics", notes[0].Title)

	rec = s.request(http.MethodGet, "/api/notes/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[struct {
		DescriptionHTML string `json:"descriptionHtml"`
	}](t, rec)
	assert.Contains(t, detail.DescriptionHTML, "<em>equations</em>")

	// Download streams the file as an attachment and counts it
	req := httptest.NewRequest(http.MethodGet, "/api/notes/download/"+id, nil)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec = s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pdfContent, rec.Body.Bytes())
	assert.Equal(t, `attachment; filename="Algebra Basics.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	notes = decode[[]noteBody](t, s.request(http.MethodGet, "/api/notes", nil))
	require.Len(t, notes, 1)
	assert.Equal(t, int64(1), notes[0].DownloadCount)

	// Browse views
	classes := s.request(http.MethodGet, "/api/classes", nil)
	assert.Contains(t, classes.Body.String(), `"name":"Class 10"`)
	topics := s.request(http.MethodGet, "/api/classes/Class%2010/subjects/Mathematics/topics", nil)
	require.Equal(t, http.StatusOK, topics.Code)
	assert.Contains(t, topics.Body.String(), `"name":"Algebra"`)

	// Admin views
	s.setupAdminCookie(t)
	report := s.request(http.MethodGet, "/api/admin/aggregations/downloads", nil)
	require.Equal(t, http.StatusOK, report.Code)
	assert.Contains(t, report.Body.String(), `"totalDownloads":1`)
	assert.Contains(t, report.Body.String(), `"ip":"203.0.113.7"`)
	assert.Contains(t, report.Body.String(), `"userAgent":"test-agent"`)

	dashboard := s.request(http.MethodGet, "/api/admin/aggregations/dashboard", nil)
	require.Equal(t, http.StatusOK, dashboard.Code)
	assert.Contains(t, dashboard.Body.String(), `"totalNotes":1`)

	// Delete removes the record and the file
	rec = s.request(http.MethodDelete, "/api/admin/notes/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, s.storage.Len())

	rec = s.request(http.MethodDelete, "/api/admin/notes/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.request(http.MethodGet, "/api/notes/download/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// setupAdminCookie logs the existing admin back in.
func (s *testServer) setupAdminCookie(t *testing.T) {
	t.Helper()
	rec := s.request(http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	s.cookie = tokenCookie(t, rec)
}

func TestConcurrentDownloads(t *testing.T) {
	s := newFileTestServer(t)
	s.setupAdmin()

	rec := s.upload(map[string]string{"title": "Algebra Basics", "subject": "Mathematics", "topic": "Algebra"}, "algebra.pdf", pdfContent)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id := decode[struct {
		Note noteBody `json:"note"`
	}](t, rec).Note.ID

	const n = 40
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes/download/"+id, nil))
			codes[i] = rec.Code
		}()
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "download %d", i)
	}

	notes := decode[[]noteBody](t, s.request(http.MethodGet, "/api/admin/notes", nil))
	require.Len(t, notes, 1)
	assert.Equal(t, int64(n), notes[0].DownloadCount)

	report := decode[struct {
		Stats struct {
			Total int64 `json:"totalDownloads"`
		} `json:"stats"`
	}](t, s.request(http.MethodGet, "/api/admin/aggregations/downloads", nil))
	assert.Equal(t, int64(n), report.Stats.Total)
}

func TestNoteUploadValidation(t *testing.T) {
	s := newTestServer(t)
	s.setupAdmin()

	rec := s.upload(map[string]string{"title": "Only a title"}, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"subject", "topic", "file"}, decode[errorBody](t, rec).Fields)

	rec = s.upload(map[string]string{"title": "T", "subject": "S", "topic": "P"}, "script.exe", []byte("MZ"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"file"}, decode[errorBody](t, rec).Fields)

	big := append(append([]byte{}, pdfContent...), make([]byte, 1<<20)...)
	rec = s.upload(map[string]string{"title": "T", "subject": "S", "topic": "P"}, "big.pdf", big)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Error, "maximum size is 1 MB")

	assert.Equal(t, 0, s.storage.Len())
}

func TestContactLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.request(http.MethodPost, "/api/contact", map[string]string{"name": "Asha", "email": "asha@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"message"}, decode[errorBody](t, rec).Fields)

	rec = s.request(http.MethodPost, "/api/contact", map[string]string{
		"name":    "Asha",
		"email":   "asha@example.com",
		"message": "Please add chemistry notes",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		Contact struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"contact"`
	}](t, rec)
	id := created.Contact.ID
	assert.Equal(t, "unread", created.Contact.Status)

	rec = s.request(http.MethodGet, "/api/admin/contacts", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.setupAdmin()

	rec = s.request(http.MethodPatch, "/api/admin/contacts/"+id, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.request(http.MethodPatch, "/api/admin/contacts/"+id, map[string]string{"status": "read"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"read"`)

	rec = s.request(http.MethodGet, "/api/admin/contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please add chemistry notes")

	rec = s.request(http.MethodDelete, "/api/admin/contacts/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.request(http.MethodDelete, "/api/admin/contacts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.request(http.MethodPatch, "/api/admin/contacts/"+id, map[string]string{"status": "read"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t)

	var last int
	for i := range authRateLimit + 1 {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"username":"x","password":"y"}`))
		req.Header.Set("Content-Type", "application/json")
		// Without TRUST_PROXY the header does not pick the client.
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		last = s.do(req).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestPublicSurface(t *testing.T) {
	s := newTestServer(t)

	rec := s.request(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = s.request(http.MethodGet, "/robots.txt", nil)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://notes.example.com/sitemap.xml")

	rec = s.request(http.MethodGet, "/sitemap.xml", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<loc>https://notes.example.com/notes</loc>")

	rec = s.request(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>SM Academy</title>")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = s.request(http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[errorBody](t, rec).Error)

	rec = s.request(http.MethodGet, "/missing-page", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	subjects := decode[[]map[string]any](t, s.request(http.MethodGet, "/api/subjects", nil))
	assert.Empty(t, subjects)
}
