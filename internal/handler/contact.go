package handler

import (
	"net/http"

	"github.com/vaibhavguptahere/smacad-test/internal/model"
	"github.com/vaibhavguptahere/smacad-test/internal/service"
	"github.com/vaibhavguptahere/smacad-test/internal/ui"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type contactResponse struct {
	Message string         `json:"message"`
	Contact *model.Contact `json:"contact"`
}

type contactHandler struct {
	contactService *service.ContactService
}

func NewContactHandler(contactService *service.ContactService) *contactHandler {
	return &contactHandler{
		contactService: contactService,
	}
}

func (h *contactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	err := decodeForm(w, r, &req, map[string]*string{
		"name":    &req.Name,
		"email":   &req.Email,
		"message": &req.Message,
	})
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	contact, err := h.contactService.Submit(r.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	ui.JSON(w, http.StatusCreated, contactResponse{Message: "Message sent successfully", Contact: contact})
}

func (h *contactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contactService.List(r.Context())
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, nonNil(contacts))
}

func (h *contactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	err := decodeForm(w, r, &req, map[string]*string{"status": &req.Status})
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	contact, err := h.contactService.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	ui.JSON(w, http.StatusOK, contactResponse{Message: "Status updated", Contact: contact})
}

func (h *contactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.contactService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.Message(w, http.StatusOK, "Contact deleted successfully")
}
