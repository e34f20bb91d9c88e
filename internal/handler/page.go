package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/vaibhavguptahere/smacad-test/internal/ctxkeys"
	"github.com/vaibhavguptahere/smacad-test/internal/middleware"
	"github.com/vaibhavguptahere/smacad-test/internal/service"
	"github.com/vaibhavguptahere/smacad-test/internal/ui"
)

type pageData struct {
	AppName string
	Title   string
	Admin   bool
	Setup   bool
	Class   string
	Subject string
}

type pageHandler struct {
	templates   *template.Template
	authService *service.AuthService
}

func NewPageHandler(templates *template.Template, authService *service.AuthService) *pageHandler {
	return &pageHandler{
		templates:   templates,
		authService: authService,
	}
}

func (h *pageHandler) data(r *http.Request, title string) pageData {
	appName := "Notes"
	if cfg := ctxkeys.Config(r.Context()); cfg != nil && cfg.AppName != "" {
		appName = cfg.AppName
	}
	return pageData{AppName: appName, Title: title}
}

func (h *pageHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, h.templates, "home.html", h.data(r, ""))
}

func (h *pageHandler) NotesPage(w http.ResponseWriter, r *http.Request) {
	data := h.data(r, "Notes")
	data.Class = r.PathValue("class")
	data.Subject = r.PathValue("subject")
	if data.Subject != "" {
		data.Title = data.Subject
	} else if data.Class != "" {
		data.Title = data.Class
	}
	ui.Render(w, r, h.templates, "notes.html", data)
}

func (h *pageHandler) ContactPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, h.templates, "contact.html", h.data(r, "Contact"))
}

func (h *pageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, h.templates, "admin_login.html", h.data(r, "Admin login"))
}

// SetupPage is only offered until the first administrator exists.
func (h *pageHandler) SetupPage(w http.ResponseWriter, r *http.Request) {
	status, err := h.authService.SetupStatus(r.Context())
	if err != nil {
		slog.Error("failed to read setup status", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if status.HasAdmin {
		http.Redirect(w, r, middleware.AdminLoginPage, http.StatusSeeOther)
		return
	}

	data := h.data(r, "Setup")
	data.Setup = true
	ui.Render(w, r, h.templates, "admin_login.html", data)
}

func (h *pageHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	data := h.data(r, "Dashboard")
	data.Admin = true
	ui.Render(w, r, h.templates, "admin.html", data)
}

// NotFound answers JSON under /api and an HTML page elsewhere.
func (h *pageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAPIPath(r.URL.Path) {
		ui.JSON(w, http.StatusNotFound, ui.ErrorBody{Error: "not found"})
		return
	}
	ui.RenderStatus(w, r, http.StatusNotFound, h.templates, "not_found.html", h.data(r, "Not found"))
}
