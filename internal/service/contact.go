// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services accept primitives and typed inputs, never *http.Request, and
// return domain errors (apperror values) instead of HTTP status codes. The
// handler layer translates both directions.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/design-crm/internal/apperror"
	"github.com/sakif/design-crm/internal/model"
	"github.com/sakif/design-crm/internal/repository"
)

// Validation constants.
const (
	MaxNameLength  = 100
	MaxFieldLength = 200
	MaxNotesLength = 2000
	// Profile photos arrive as data URI strings from the mobile client.
	// 2MB of base64 covers a downscaled phone photo with room to spare.
	MaxPhotoLength = 2 * 1024 * 1024
)

// ContactInput carries the fields of a create request. First name, last
// name, role, and company are required; the rest default to empty.
type ContactInput struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         string `json:"role"`
	Company      string `json:"company"`
	LinkedIn     string `json:"linkedin"`
	Portfolio    string `json:"portfolio"`
	Notes        string `json:"notes"`
	ProfilePhoto string `json:"profilePhoto"`
}

// ContactPatch carries a partial update. Nil pointers mean "leave the field
// alone"; a pointer to the empty string clears an optional field.
type ContactPatch struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Role         *string `json:"role"`
	Company      *string `json:"company"`
	LinkedIn     *string `json:"linkedin"`
	Portfolio    *string `json:"portfolio"`
	Notes        *string `json:"notes"`
	ProfilePhoto *string `json:"profilePhoto"`
}

// ContactService handles business logic for designer contacts.
type ContactService struct {
	repo   repository.ContactRepository
	logger *slog.Logger
}

// NewContactService creates a ContactService. The caller decides which
// repository implementation to inject (SQLite in production, a mock in tests).
func NewContactService(repo repository.ContactRepository, logger *slog.Logger) *ContactService {
	return &ContactService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and saves a new contact.
func (s *ContactService) Create(ctx context.Context, in ContactInput) (*model.Contact, error) {
	contact := &model.Contact{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         strings.TrimSpace(in.Role),
		Company:      strings.TrimSpace(in.Company),
		LinkedIn:     strings.TrimSpace(in.LinkedIn),
		Portfolio:    strings.TrimSpace(in.Portfolio),
		Notes:        in.Notes,
		ProfilePhoto: in.ProfilePhoto,
	}

	if err := validateContact(contact); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		s.logger.Error("failed to create contact",
			slog.String("name", contact.FullName()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating contact: %w", err)
	}

	s.logger.Info("contact created",
		slog.Int64("id", contact.ID),
		slog.String("name", contact.FullName()),
	)

	return contact, nil
}

// GetByID retrieves a contact by its ID.
// Returns apperror.ErrNotFound if the contact doesn't exist.
func (s *ContactService) GetByID(ctx context.Context, id int64) (*model.Contact, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all contacts. The pool is shared and unscoped, so there are
// no filters here — Search covers the lookup use case.
func (s *ContactService) List(ctx context.Context) ([]model.Contact, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list contacts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return contacts, nil
}

// Search finds contacts matching q (case-insensitive substring of first
// name, last name, role, or company). An empty query is a validation error —
// the client should call List instead.
func (s *ContactService) Search(ctx context.Context, q string) ([]model.Contact, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.ValidationFailed("q", "search query is required")
	}

	contacts, err := s.repo.Search(ctx, q)
	if err != nil {
		s.logger.Error("failed to search contacts",
			slog.String("query", q),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("searching contacts: %w", err)
	}
	return contacts, nil
}

// Update applies a partial update: fetch the existing record, overlay only
// the supplied fields, validate the result, and save.
func (s *ContactService) Update(ctx context.Context, id int64, patch ContactPatch) (*model.Contact, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		contact.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		contact.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Role != nil {
		contact.Role = strings.TrimSpace(*patch.Role)
	}
	if patch.Company != nil {
		contact.Company = strings.TrimSpace(*patch.Company)
	}
	if patch.LinkedIn != nil {
		contact.LinkedIn = strings.TrimSpace(*patch.LinkedIn)
	}
	if patch.Portfolio != nil {
		contact.Portfolio = strings.TrimSpace(*patch.Portfolio)
	}
	if patch.Notes != nil {
		contact.Notes = *patch.Notes
	}
	if patch.ProfilePhoto != nil {
		contact.ProfilePhoto = *patch.ProfilePhoto
	}

	if err := validateContact(contact); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, contact); err != nil {
		s.logger.Error("failed to update contact",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("contact updated", slog.Int64("id", contact.ID))
	return contact, nil
}

// Delete removes a contact. List memberships are removed transitively by the
// store's cascade rule.
func (s *ContactService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("contact deleted", slog.Int64("id", id))
	return nil
}

// validateContact enforces the required fields and length limits shared by
// create and update.
func validateContact(c *model.Contact) error {
	if c.FirstName == "" {
		return apperror.ValidationFailed("firstName", "first name is required")
	}
	if c.LastName == "" {
		return apperror.ValidationFailed("lastName", "last name is required")
	}
	if c.Role == "" {
		return apperror.ValidationFailed("role", "role is required")
	}
	if c.Company == "" {
		return apperror.ValidationFailed("company", "company is required")
	}

	for field, value := range map[string]string{
		"firstName": c.FirstName,
		"lastName":  c.LastName,
	} {
		if len(value) > MaxNameLength {
			return apperror.ValidationFailed(field,
				fmt.Sprintf("%s must be %d characters or less", field, MaxNameLength))
		}
	}
	for field, value := range map[string]string{
		"role":      c.Role,
		"company":   c.Company,
		"linkedin":  c.LinkedIn,
		"portfolio": c.Portfolio,
	} {
		if len(value) > MaxFieldLength {
			return apperror.ValidationFailed(field,
				fmt.Sprintf("%s must be %d characters or less", field, MaxFieldLength))
		}
	}
	if len(c.Notes) > MaxNotesLength {
		return apperror.ValidationFailed("notes",
			fmt.Sprintf("notes must be %d characters or less", MaxNotesLength))
	}
	if len(c.ProfilePhoto) > MaxPhotoLength {
		return apperror.ValidationFailed("profilePhoto", "profile photo is too large")
	}

	return nil
}
