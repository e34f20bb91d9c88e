package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/vaibhavguptahere/smacad-test/internal/ui"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type healthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *healthHandler {
	return &healthHandler{db: db}
}

func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.db.PingContext(ctx)
	if err != nil {
		slog.Error("health check failed", "error", err)
		ui.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Database: "down"})
		return
	}
	ui.JSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "up"})
}
