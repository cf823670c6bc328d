package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/design-crm/internal/apperror"
	"github.com/sakif/design-crm/internal/model"
)

func TestUpsertUser_Insert(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		ID:              "oidc|12345",
		Email:           "ada@example.com",
		FirstName:       "Ada",
		LastName:        "Lin",
		ProfileImageURL: "https://cdn.example.com/ada.png",
	}

	if err := db.UpsertUser(context.Background(), user); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}
	if user.CreatedAt.IsZero() {
		t.Error("UpsertUser() did not set CreatedAt")
	}

	found, err := db.GetUserByID(context.Background(), "oidc|12345")
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Email != "ada@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "ada@example.com")
	}
	if found.FirstName != "Ada" || found.LastName != "Lin" {
		t.Errorf("Name = %q %q, want Ada Lin", found.FirstName, found.LastName)
	}
}

// A second upsert with the same subject must refresh the profile fields but
// keep created_at from the first login.
func TestUpsertUser_RefreshesProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := &model.User{ID: "oidc|12345", Email: "old@example.com", FirstName: "Ada"}
	if err := db.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}
	firstCreatedAt := user.CreatedAt

	updated := &model.User{ID: "oidc|12345", Email: "new@example.com", FirstName: "Ada", LastName: "Lin"}
	if err := db.UpsertUser(ctx, updated); err != nil {
		t.Fatalf("UpsertUser() second call error = %v", err)
	}

	found, err := db.GetUserByID(ctx, "oidc|12345")
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Email != "new@example.com" {
		t.Errorf("Email = %q, want refreshed %q", found.Email, "new@example.com")
	}
	if found.LastName != "Lin" {
		t.Errorf("LastName = %q, want %q", found.LastName, "Lin")
	}
	if !found.CreatedAt.Equal(firstCreatedAt) {
		t.Errorf("CreatedAt = %v, want original %v", found.CreatedAt, firstCreatedAt)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "nope")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}
