package model

import (
	"errors"
	"time"
)

// User represents a registered account.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	ProfilePicture string    `db:"profile_picture" json:"profile_picture"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is a lightweight representation for friend lists and search results.
type UserSummary struct {
	ID             int64  `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	ProfilePicture string `db:"profile_picture" json:"profile_picture"`
}

// RegisterRequest carries the registration form fields.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Email    string
	Password string
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when attempting to register an email that is already taken
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmptyField is returned when a required form field is missing
	ErrEmptyField = errors.New("required field is empty")
)
