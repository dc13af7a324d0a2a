package repository

import "errors"

// Sentinel kinds for audit store errors.
var (
	ErrNotFound      = errors.New("audit not found")
	ErrEventNotFound = errors.New("event not found")
	ErrNotReady      = errors.New("audit not ready")
	ErrExists        = errors.New("audit already exists")
)
