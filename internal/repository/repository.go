// Package repository defines the data-access interfaces between the service
// layer and the relational store. Services depend on these interfaces, never
// on the sqlite package directly — tests inject in-memory mocks and the
// storage backend can be swapped without touching business logic.
package repository

import (
	"context"

	"github.com/sakif/design-crm/internal/model"
)

// ContactRepository persists designer contacts.
//
// All read methods return apperror.NotFound (wrapped) for missing ids rather
// than sql.ErrNoRows — handlers translate that to 404 without knowing SQL.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	GetByID(ctx context.Context, id int64) (*model.Contact, error)
	List(ctx context.Context) ([]model.Contact, error)
	// Search matches q case-insensitively as a substring of first name,
	// last name, role, or company (logical OR across the four fields).
	Search(ctx context.Context, q string) ([]model.Contact, error)
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id int64) error
}

// ListRepository persists lists and their contact memberships.
type ListRepository interface {
	CreateList(ctx context.Context, list *model.List) error
	GetListByID(ctx context.Context, id int64) (*model.List, error)
	Lists(ctx context.Context) ([]model.List, error)
	// UpdateList writes name and description and refreshes updated_at.
	UpdateList(ctx context.Context, list *model.List) error
	// DeleteList removes the list and its membership rows, never its contacts.
	DeleteList(ctx context.Context, id int64) error

	// ListContacts returns the contacts joined to the list, oldest membership first.
	ListContacts(ctx context.Context, listID int64) ([]model.Contact, error)
	// AddContactToList inserts a membership row. Adding a contact that is
	// already a member is a no-op that returns the existing row.
	AddContactToList(ctx context.Context, listID, contactID int64) (*model.ListContact, error)
	// RemoveContactFromList deletes the membership row; apperror.NotFound if
	// none existed.
	RemoveContactFromList(ctx context.Context, listID, contactID int64) error
}

// UserRepository persists accounts mirrored from the OIDC provider.
type UserRepository interface {
	// UpsertUser inserts the user or, if the id already exists, refreshes the
	// profile fields and updated_at. Called on every login callback.
	UpsertUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}
