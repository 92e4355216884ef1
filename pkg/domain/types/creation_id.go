package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// CreationID is a UUID-based identifier for a Creation
type CreationID string

// NewCreationID generates a new UUID v7 CreationID
func NewCreationID() CreationID {
	return CreationID(uuid.Must(uuid.NewV7()).String())
}

// Validate checks if the CreationID is a well-formed UUID
func (c CreationID) Validate() error {
	if c == "" {
		return goerr.New("creation ID cannot be empty")
	}
	if _, err := uuid.Parse(string(c)); err != nil {
		return goerr.Wrap(err, "creation ID must be a UUID", goerr.V("id", c))
	}
	return nil
}

// String returns the string representation of CreationID
func (c CreationID) String() string {
	return string(c)
}
