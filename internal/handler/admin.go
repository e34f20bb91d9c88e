package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vaibhavguptahere/smacad-test/internal/apperr"
	"github.com/vaibhavguptahere/smacad-test/internal/ctxkeys"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
	"github.com/vaibhavguptahere/smacad-test/internal/service"
	"github.com/vaibhavguptahere/smacad-test/internal/ui"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	Message   string        `json:"message"`
	Admin     adminResponse `json:"admin"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

type adminHandler struct {
	authService *service.AuthService
}

func NewAdminHandler(authService *service.AuthService) *adminHandler {
	return &adminHandler{
		authService: authService,
	}
}

func (h *adminHandler) readCredentials(w http.ResponseWriter, r *http.Request) (credentials, error) {
	var c credentials
	err := decodeForm(w, r, &c, map[string]*string{
		"username": &c.Username,
		"password": &c.Password,
	})
	return c, err
}

func (h *adminHandler) Login(w http.ResponseWriter, r *http.Request) {
	c, err := h.readCredentials(w, r)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	admin, token, expiresAt, err := h.authService.Login(r.Context(), c.Username, c.Password)
	if err != nil {
		if apperr.Is(err, apperr.KindUnauthorized) {
			slog.Info("admin login failed", "username", c.Username)
			ui.JSON(w, http.StatusUnauthorized, ui.ErrorBody{Error: service.ErrInvalidCredentials.Error()})
			return
		}
		ui.Error(w, r, err)
		return
	}

	h.authService.SetTokenCookie(w, token, expiresAt)
	slog.Info("admin logged in", "admin_id", admin.ID)

	ui.JSON(w, http.StatusOK, loginResponse{
		Message:   "Login successful",
		Admin:     toAdminResponse(admin),
		ExpiresAt: expiresAt,
	})
}

func (h *adminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearTokenCookie(w)
	ui.Message(w, http.StatusOK, "Logged out")
}

func (h *adminHandler) SetupStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.authService.SetupStatus(r.Context())
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, status)
}

// Setup creates the first administrator and signs them in.
func (h *adminHandler) Setup(w http.ResponseWriter, r *http.Request) {
	c, err := h.readCredentials(w, r)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	admin, err := h.authService.Setup(r.Context(), c.Username, c.Password)
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	slog.Info("first admin created", "admin_id", admin.ID)

	token, expiresAt, err := h.authService.IssueToken(admin)
	if err != nil {
		ui.Error(w, r, apperr.Internal("failed to issue token", err))
		return
	}
	h.authService.SetTokenCookie(w, token, expiresAt)

	ui.JSON(w, http.StatusCreated, loginResponse{
		Message:   "Admin created successfully",
		Admin:     toAdminResponse(admin),
		ExpiresAt: expiresAt,
	})
}

func (h *adminHandler) Session(w http.ResponseWriter, r *http.Request) {
	session := ctxkeys.Session(r.Context())
	if session == nil {
		ui.Error(w, r, apperr.Unauthorized(service.ErrInvalidToken))
		return
	}
	ui.JSON(w, http.StatusOK, session)
}

func toAdminResponse(admin *model.Admin) adminResponse {
	return adminResponse{ID: admin.ID, Username: admin.Username}
}
