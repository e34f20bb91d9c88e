package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vaibhavguptahere/smacad-test/internal/apperr"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
	"github.com/vaibhavguptahere/smacad-test/internal/repository"
	"github.com/vaibhavguptahere/smacad-test/internal/validation"
)

type ContactService struct {
	contactRepo  repository.ContactRepository
	emailService *EmailService
	now          func() time.Time
}

func NewContactService(contactRepo repository.ContactRepository, emailService *EmailService) *ContactService {
	return &ContactService{
		contactRepo:  contactRepo,
		emailService: emailService,
		now:          time.Now,
	}
}

// Submit stores a visitor message as unread. Email is free text and only
// needs to be present.
func (s *ContactService) Submit(ctx context.Context, name, email, message string) (*model.Contact, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)

	missing := validation.Missing(
		validation.Field{Name: "name", Value: name},
		validation.Field{Name: "email", Value: email},
		validation.Field{Name: "message", Value: message},
	)
	if len(missing) > 0 {
		return nil, apperr.MissingFields(missing...)
	}

	now := s.now().UTC()
	contact := &model.Contact{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Message:   message,
		Status:    model.ContactStatusUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.contactRepo.Create(ctx, contact)
	if err != nil {
		return nil, apperr.Internal("failed to save contact", err)
	}

	if s.emailService != nil {
		err = s.emailService.NotifyContact(ctx, contact)
		if err != nil {
			slog.Warn("failed to send contact notification", "error", err, "contact_id", contact.ID)
		}
	}

	return contact, nil
}

func (s *ContactService) List(ctx context.Context) ([]*model.Contact, error) {
	contacts, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list contacts", err)
	}
	return contacts, nil
}

// UpdateStatus rejects unknown statuses before touching the store.
func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) (*model.Contact, error) {
	status = strings.TrimSpace(status)
	if !model.ValidContactStatus(status) {
		return nil, apperr.Validation("status must be one of: unread, read", "status")
	}

	err := s.contactRepo.UpdateStatus(ctx, id, status, s.now().UTC())
	if errors.Is(err, repository.ErrContactNotFound) {
		return nil, apperr.NotFound("contact not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to update contact", err)
	}

	contact, err := s.contactRepo.ByID(ctx, id)
	if errors.Is(err, repository.ErrContactNotFound) {
		return nil, apperr.NotFound("contact not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to get contact", err)
	}

	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	err := s.contactRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrContactNotFound) {
		return apperr.NotFound("contact not found")
	}
	if err != nil {
		return apperr.Internal("failed to delete contact", err)
	}
	return nil
}
