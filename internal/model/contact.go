// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// Contact represents a designer tracked for potential outreach.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize/deserialize
// this struct to/from JSON. This is called a "struct tag" — metadata attached to fields.
//
// First name, last name, role, and company are required; the rest are optional
// and use the empty string as their zero value. ProfilePhoto holds a data URI
// string (the mobile client uploads a base64-encoded image), not a file path.
type Contact struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         string `json:"role"`
	Company      string `json:"company"`
	LinkedIn     string `json:"linkedin,omitempty"`
	Portfolio    string `json:"portfolio,omitempty"`
	Notes        string `json:"notes,omitempty"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// FullName returns "First Last" for display and email bodies.
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}
