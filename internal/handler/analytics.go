package handler

import (
	"net/http"

	"github.com/vaibhavguptahere/smacad-test/internal/service"
	"github.com/vaibhavguptahere/smacad-test/internal/ui"
)

type analyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *analyticsHandler {
	return &analyticsHandler{
		analyticsService: analyticsService,
	}
}

func (h *analyticsHandler) Downloads(w http.ResponseWriter, r *http.Request) {
	report, err := h.analyticsService.Downloads(r.Context())
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, report)
}

func (h *analyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.analyticsService.Dashboard(r.Context())
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, dashboard)
}

// Subjects accepts optional class, search and sort query parameters.
func (h *analyticsHandler) Subjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	h.writeSubjects(w, r, query.Get("class"))
}

func (h *analyticsHandler) ClassSubjects(w http.ResponseWriter, r *http.Request) {
	h.writeSubjects(w, r, r.PathValue("class"))
}

func (h *analyticsHandler) writeSubjects(w http.ResponseWriter, r *http.Request, class string) {
	query := r.URL.Query()
	subjects, err := h.analyticsService.Subjects(r.Context(), class, query.Get("search"), query.Get("sort"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, nonNil(subjects))
}

func (h *analyticsHandler) Classes(w http.ResponseWriter, r *http.Request) {
	classes, err := h.analyticsService.Classes(r.Context())
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, nonNil(classes))
}

func (h *analyticsHandler) Topics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.analyticsService.Topics(r.Context(), r.PathValue("class"), r.PathValue("subject"), r.URL.Query().Get("search"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, nonNil(topics))
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
