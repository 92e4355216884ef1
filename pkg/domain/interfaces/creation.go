package interfaces

import (
	"context"

	"github.com/m-mizutani/atelier/pkg/domain/model"
	"github.com/m-mizutani/atelier/pkg/domain/types"
)

// CreationRepository defines the interface for Creation data persistence
type CreationRepository interface {
	// Put stores a creation. It is an idempotent upsert keyed by the
	// creation ID: storing the same record twice leaves one record.
	Put(ctx context.Context, creation *model.Creation) error

	// Get retrieves a creation by ID. Returns an error wrapping
	// ErrRecordNotFound when the ID is unknown; any other error means the
	// storage medium failed.
	Get(ctx context.Context, id types.CreationID) (*model.Creation, error)

	// FindSimilar performs vector similarity search using cosine distance
	// over stored prompt embeddings. Returns up to limit creations, most
	// similar first. An empty store yields an empty slice, not an error.
	FindSimilar(ctx context.Context, embedding []float32, limit int) ([]*model.Creation, error)

	// ListBySession retrieves all creations of a session, newest first
	ListBySession(ctx context.Context, sessionID types.SessionID) ([]*model.Creation, error)
}
