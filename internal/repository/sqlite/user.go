package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/design-crm/internal/apperror"
	"github.com/sakif/design-crm/internal/model"
	"github.com/sakif/design-crm/internal/repository"
)

// Compile-time check that *DB implements repository.UserRepository.
var _ repository.UserRepository = (*DB)(nil)

// UpsertUser inserts or refreshes a user keyed by the OIDC subject id.
//
// The provider owns the id, so unlike contacts there is nothing to generate:
// ON CONFLICT(id) DO UPDATE refreshes the profile fields in case the user
// changed their email, name, or picture at the provider since last login.
// created_at is written once and never touched again.
func (db *DB) UpsertUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, first_name, last_name, profile_image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     email = excluded.email,
		     first_name = excluded.first_name,
		     last_name = excluded.last_name,
		     profile_image_url = excluded.profile_image_url,
		     updated_at = excluded.updated_at`,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.ProfileImageURL,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting user %s: %w", user.ID, err)
	}

	// Read created_at back so the caller gets the canonical record whether
	// this was an insert or an update.
	err = db.conn.QueryRowContext(ctx,
		`SELECT created_at FROM users WHERE id = ?`, user.ID,
	).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: reading back user %s: %w", user.ID, err)
	}

	return nil
}

// GetUserByID retrieves a user by the OIDC subject id.
// Returns apperror.ErrNotFound if no user exists with that id.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, first_name, last_name, profile_image_url, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.ProfileImageURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}
