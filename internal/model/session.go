package model

import "errors"

// Flash is a one-shot status message shown on the next page render.
type Flash struct {
	Category string `json:"category"` // "success", "danger" or "info"
	Message  string `json:"message"`
}

// Flash categories
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

var (
	// ErrSessionNotFound is returned when a session token does not resolve
	// to a live server-side session (expired, logged out or never issued).
	ErrSessionNotFound = errors.New("session not found")
)
