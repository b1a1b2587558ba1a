// Package models defines the server-side records shared by repositories,
// services and the HTTP layer.
package models

import "time"

// Account is a registered marketplace user. Email is the unique key and is
// stored normalised (trimmed, lower-cased).
type Account struct {
	ID           string
	Email        string
	PasswordHash []byte
	DisplayName  string
	CampusSlug   string
	ClassYear    *int
	Bio          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is everything a session token carries.
type Identity struct {
	UserID string
	Email  string
}
