package model

import "time"

// List is a named, user-curated grouping of contacts.
//
// Lists and contacts have independent lifecycles: deleting a list removes its
// membership rows but never the contacts themselves.
type List struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListContact is the membership row joining one list and one contact.
//
// At most one row exists per (ListID, ContactID) pair — enforced by a UNIQUE
// constraint in the store. The row references both parents weakly: deleting
// either one cascades to remove the membership.
type ListContact struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"listId"`
	ContactID int64     `json:"contactId"`
	AddedAt   time.Time `json:"addedAt"`
}
