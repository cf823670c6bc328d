package model

import "time"

// User represents a signed-in account.
//
// Identity is delegated to an external OIDC provider, so the primary key is the
// provider's subject claim — an opaque string we never parse or generate. The
// row is upserted on every login callback so the profile fields track whatever
// the provider last reported.
//
// WHY Email string (not *string)?
// The provider may omit the email claim if the user has hidden it. We use an
// empty string as the zero value rather than a nullable pointer — simpler to
// work with and safe to display.
type User struct {
	ID              string    `json:"id"              db:"id"` // OIDC subject claim
	Email           string    `json:"email"           db:"email"`
	FirstName       string    `json:"firstName"       db:"first_name"`
	LastName        string    `json:"lastName"        db:"last_name"`
	ProfileImageURL string    `json:"profileImageUrl" db:"profile_image_url"`
	CreatedAt       time.Time `json:"createdAt"       db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt"       db:"updated_at"`
}
