package artifact

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// Storage stores raw artifact bytes (generated images and 3D models) under
// opaque keys. Artifact writes are decoupled from the metadata record in
// the repository: bytes are made durable first, so a failed metadata save
// never discards generated artifacts.
type Storage interface {
	// Put stores data under key and returns the path or URI at which the
	// artifact can be addressed
	Put(ctx context.Context, key string, data []byte) (string, error)

	// Get retrieves previously stored artifact bytes by key
	Get(ctx context.Context, key string) ([]byte, error)
}

// ErrArtifactNotFound is returned by Get when no artifact exists for a key
var ErrArtifactNotFound = goerr.New("artifact not found")
