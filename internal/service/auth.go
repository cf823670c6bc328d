// Package service — authentication business logic.
//
// AuthService sits between the HTTP handlers and the repository/auth
// utilities:
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT)
//
// The handler exchanges the OIDC authorization code for identity claims and
// calls LoginOrRegister; everything HTTP (cookies, redirects) stays out of
// this layer.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/design-crm/internal/auth"
	"github.com/sakif/design-crm/internal/model"
	"github.com/sakif/design-crm/internal/repository"
)

// AuthService handles the authentication business logic.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler can
// set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// LoginOrRegister handles an OIDC callback: upsert the user from the
// provider's claims (first login inserts, later logins refresh the profile)
// and issue a session JWT whose subject is the user id.
func (s *AuthService) LoginOrRegister(ctx context.Context, claims *auth.Claims) (*AuthResult, error) {
	if claims == nil {
		return nil, fmt.Errorf("service/auth: claims must not be nil")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("service/auth: claims have no subject")
	}

	user := &model.User{
		ID:              claims.Subject,
		Email:           claims.Email,
		FirstName:       claims.GivenName,
		LastName:        claims.FamilyName,
		ProfileImageURL: claims.Picture,
	}

	if err := s.users.UpsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user %s: %w", claims.Subject, err)
	}

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

// GetUserByID returns the user for the given id. Used by the /api/auth/user
// handler after the middleware validates the session cookie.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}

	return s.users.GetUserByID(ctx, id)
}
