package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/design-crm/internal/apperror"
	"github.com/sakif/design-crm/internal/auth"
	"github.com/sakif/design-crm/internal/model"
)

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) UpsertUser(_ context.Context, user *model.User) error {
	if existing, ok := m.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	} else {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = time.Now().UTC()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-key-at-least-16-chars")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	repo := newMockUserRepo()
	return NewAuthService(repo, tokens, testLogger()), repo
}

func TestLoginOrRegister_FirstLogin(t *testing.T) {
	svc, repo := newTestAuthService(t)

	result, err := svc.LoginOrRegister(context.Background(), &auth.Claims{
		Subject:    "oidc|12345",
		Email:      "ada@example.com",
		GivenName:  "Ada",
		FamilyName: "Lin",
		Picture:    "https://cdn.example.com/ada.png",
	})
	if err != nil {
		t.Fatalf("LoginOrRegister() error = %v", err)
	}

	if result.Token == "" {
		t.Error("LoginOrRegister() returned empty token")
	}
	if result.User.ID != "oidc|12345" {
		t.Errorf("User.ID = %q, want provider subject", result.User.ID)
	}

	stored, err := repo.GetUserByID(context.Background(), "oidc|12345")
	if err != nil {
		t.Fatalf("user was not persisted: %v", err)
	}
	if stored.Email != "ada@example.com" {
		t.Errorf("Email = %q, want %q", stored.Email, "ada@example.com")
	}
}

func TestLoginOrRegister_NilClaims(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.LoginOrRegister(context.Background(), nil); err == nil {
		t.Error("LoginOrRegister(nil) should fail")
	}
}

func TestLoginOrRegister_MissingSubject(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.LoginOrRegister(context.Background(), &auth.Claims{Email: "ada@example.com"})
	if err == nil {
		t.Error("LoginOrRegister() without subject should fail")
	}
}

func TestAuthGetUserByID_NotFound(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.GetUserByID(context.Background(), "nope")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}
