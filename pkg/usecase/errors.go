package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrCreationNotFound = errors.New("creation not found")
	ErrEmptyPrompt      = errors.New("prompt is required")
	ErrNotConfigured    = errors.New("creation pipeline is not fully configured")
)

// Context keys for error values
const (
	CreationIDKey  = "creation_id"
	SessionIDKey   = "session_id"
	ReferenceIDKey = "reference_id"
)
