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

const (
	MaxListNameLength        = 100
	MaxListDescriptionLength = 500
)

// ListInput carries the fields of a list create or update request.
// Name is required; description is optional.
type ListInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListService handles business logic for lists and their memberships.
type ListService struct {
	repo   repository.ListRepository
	logger *slog.Logger
}

// NewListService creates a ListService.
func NewListService(repo repository.ListRepository, logger *slog.Logger) *ListService {
	return &ListService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and saves a new list.
func (s *ListService) Create(ctx context.Context, in ListInput) (*model.List, error) {
	list := &model.List{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
	}

	if err := validateList(list); err != nil {
		return nil, err
	}

	if err := s.repo.CreateList(ctx, list); err != nil {
		s.logger.Error("failed to create list",
			slog.String("name", list.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating list: %w", err)
	}

	s.logger.Info("list created",
		slog.Int64("id", list.ID),
		slog.String("name", list.Name),
	)

	return list, nil
}

// GetByID retrieves a list by its ID.
func (s *ListService) GetByID(ctx context.Context, id int64) (*model.List, error) {
	return s.repo.GetListByID(ctx, id)
}

// List returns all lists, newest first.
func (s *ListService) List(ctx context.Context) ([]model.List, error) {
	lists, err := s.repo.Lists(ctx)
	if err != nil {
		s.logger.Error("failed to list lists", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing lists: %w", err)
	}
	return lists, nil
}

// Update replaces a list's name and description. Unlike contacts, list
// updates take the full input — the edit form always submits both fields.
func (s *ListService) Update(ctx context.Context, id int64, in ListInput) (*model.List, error) {
	list, err := s.repo.GetListByID(ctx, id)
	if err != nil {
		return nil, err
	}

	list.Name = strings.TrimSpace(in.Name)
	list.Description = strings.TrimSpace(in.Description)

	if err := validateList(list); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateList(ctx, list); err != nil {
		s.logger.Error("failed to update list",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("list updated", slog.Int64("id", list.ID))
	return list, nil
}

// Delete removes a list. Its contacts are untouched; only the membership
// rows go with it.
func (s *ListService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteList(ctx, id); err != nil {
		return err
	}

	s.logger.Info("list deleted", slog.Int64("id", id))
	return nil
}

// Contacts returns the contacts belonging to a list. The list must exist —
// asking for the members of a deleted list is a 404, not an empty array.
func (s *ListService) Contacts(ctx context.Context, listID int64) ([]model.Contact, error) {
	if _, err := s.repo.GetListByID(ctx, listID); err != nil {
		return nil, err
	}

	contacts, err := s.repo.ListContacts(ctx, listID)
	if err != nil {
		s.logger.Error("failed to list contacts for list",
			slog.Int64("listId", listID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing contacts for list %d: %w", listID, err)
	}
	return contacts, nil
}

// AddContact joins a contact to a list. Re-adding an existing member is a
// no-op that returns the existing membership row.
func (s *ListService) AddContact(ctx context.Context, listID, contactID int64) (*model.ListContact, error) {
	if contactID <= 0 {
		return nil, apperror.ValidationFailed("contactId", "contactId is required")
	}

	lc, err := s.repo.AddContactToList(ctx, listID, contactID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("contact added to list",
		slog.Int64("listId", listID),
		slog.Int64("contactId", contactID),
	)
	return lc, nil
}

// RemoveContact removes a contact from a list.
// Returns apperror.ErrNotFound if the contact was not a member.
func (s *ListService) RemoveContact(ctx context.Context, listID, contactID int64) error {
	if err := s.repo.RemoveContactFromList(ctx, listID, contactID); err != nil {
		return err
	}

	s.logger.Info("contact removed from list",
		slog.Int64("listId", listID),
		slog.Int64("contactId", contactID),
	)
	return nil
}

func validateList(l *model.List) error {
	if l.Name == "" {
		return apperror.ValidationFailed("name", "list name is required")
	}
	if len(l.Name) > MaxListNameLength {
		return apperror.ValidationFailed("name",
			fmt.Sprintf("list name must be %d characters or less", MaxListNameLength))
	}
	if len(l.Description) > MaxListDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxListDescriptionLength))
	}
	return nil
}
