package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/atelier/pkg/domain/model"
	"github.com/m-mizutani/atelier/pkg/domain/types"
)

type creationRepository struct {
	mu      sync.RWMutex
	entries map[types.CreationID]*model.Creation
}

func newCreationRepository() *creationRepository {
	return &creationRepository{
		entries: make(map[types.CreationID]*model.Creation),
	}
}

func (r *creationRepository) Put(ctx context.Context, creation *model.Creation) error {
	if err := creation.Validate(); err != nil {
		return goerr.Wrap(err, "invalid creation", goerr.V("id", creation.ID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[creation.ID] = creation.Clone()
	return nil
}

func (r *creationRepository) Get(ctx context.Context, id types.CreationID) (*model.Creation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	creation, exists := r.entries[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "creation not found", goerr.V("id", id))
	}

	return creation.Clone(), nil
}

func (r *creationRepository) FindSimilar(ctx context.Context, embedding []float32, limit int) ([]*model.Creation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || len(embedding) == 0 {
		return []*model.Creation{}, nil
	}

	type scored struct {
		creation *model.Creation
		score    float64
	}

	candidates := make([]scored, 0, len(r.entries))
	for _, c := range r.entries {
		if len(c.Embedding) == 0 {
			continue
		}
		s := cosineSimilarity(embedding, c.Embedding)
		candidates = append(candidates, scored{creation: c.Clone(), score: s})
	}

	// Ties are broken by ID so that ranking is deterministic for a given
	// store state.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].creation.ID < candidates[j].creation.ID
	})

	if len(candidates) < limit {
		limit = len(candidates)
	}

	result := make([]*model.Creation, limit)
	for i := 0; i < limit; i++ {
		result[i] = candidates[i].creation
	}

	return result, nil
}

func (r *creationRepository) ListBySession(ctx context.Context, sessionID types.SessionID) ([]*model.Creation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Creation, 0)
	for _, c := range r.entries {
		if c.SessionID == sessionID {
			result = append(result, c.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}
