package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// CapabilityID is an opaque identifier addressing one remote generation
// capability (e.g. text-to-image, image-to-3D). The value is assigned by
// the capability platform and is never interpreted locally.
type CapabilityID string

var capabilityIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Validate checks if the CapabilityID is valid
func (c CapabilityID) Validate() error {
	if c == "" {
		return goerr.New("capability ID cannot be empty")
	}
	if !capabilityIDPattern.MatchString(string(c)) {
		return goerr.New("capability ID contains invalid characters", goerr.V("id", c))
	}
	return nil
}

// String returns the string representation of CapabilityID
func (c CapabilityID) String() string {
	return string(c)
}
