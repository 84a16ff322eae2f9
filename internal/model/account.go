// Package model defines domain entities for the application.
package model

import "time"

// Account represents a registered user of the app.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	HasPaid   bool      `json:"has_paid"`
	CreatedAt time.Time `json:"created_at"`
}

// Credential is the email/password pair submitted by the auth screen.
// It is never persisted as-is.
type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session identifies the account behind an authenticated request.
// This is injected into the request context by auth middleware.
type Session struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}
