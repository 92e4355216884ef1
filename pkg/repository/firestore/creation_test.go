package firestore_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/atelier/pkg/domain/model"
	"github.com/m-mizutani/atelier/pkg/domain/types"
	"github.com/m-mizutani/atelier/pkg/repository/firestore"
)

func newFirestoreRepository(t *testing.T) *firestore.Firestore {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test-%d-", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newCreation(sessionID types.SessionID, prompt string, embedding []float32) *model.Creation {
	id := types.NewCreationID()
	c := &model.Creation{
		ID:             id,
		SessionID:      sessionID,
		OriginalPrompt: prompt,
		EnhancedPrompt: prompt,
		ImagePath:      "/artifacts/images/" + id.String() + ".png",
		ModelPath:      "/artifacts/models/" + id.String() + ".glb",
		Embedding:      embedding,
		CreatedAt:      time.Now().UTC(),
	}
	c.AssembleMetadata()
	return c
}

func TestFirestoreCreationRepository(t *testing.T) {
	repo := newFirestoreRepository(t)
	ctx := context.Background()

	t.Run("stores and retrieves a creation", func(t *testing.T) {
		creation := newCreation(types.NewSessionID(), "a red dragon", []float32{1, 0, 0})
		creation.ReferenceAnalysis = &model.ReferenceAnalysis{
			Analysis:        "keeps the palette",
			ReferencePrompt: "a copper kettle",
			NewPrompt:       "a red dragon",
		}

		gt.NoError(t, repo.Creation().Put(ctx, creation)).Required()

		got, err := repo.Creation().Get(ctx, creation.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.OriginalPrompt).Equal("a red dragon")
		gt.Value(t, got.SessionID).Equal(creation.SessionID)
		gt.Value(t, got.ReferenceAnalysis.Analysis).Equal("keeps the palette")
		gt.Array(t, got.Embedding).Length(3)
	})

	t.Run("returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := repo.Creation().Get(ctx, types.NewCreationID())
		gt.Bool(t, errors.Is(err, firestore.ErrNotFound)).True()
	})

	t.Run("finds nearest creations by embedding", func(t *testing.T) {
		sessionID := types.NewSessionID()
		closest := newCreation(sessionID, "a crimson dragon", []float32{1, 0, 0})
		farthest := newCreation(sessionID, "a blue whale", []float32{0, 0, 1})
		gt.NoError(t, repo.Creation().Put(ctx, closest)).Required()
		gt.NoError(t, repo.Creation().Put(ctx, farthest)).Required()

		results, err := repo.Creation().FindSimilar(ctx, []float32{1, 0, 0}, 1)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(1).Required()
		gt.Value(t, results[0].ID).Equal(closest.ID)
	})

	t.Run("lists session creations newest first", func(t *testing.T) {
		sessionID := types.NewSessionID()
		oldest := newCreation(sessionID, "first", nil)
		oldest.CreatedAt = time.Now().UTC().Add(-time.Hour)
		newest := newCreation(sessionID, "second", nil)
		gt.NoError(t, repo.Creation().Put(ctx, oldest)).Required()
		gt.NoError(t, repo.Creation().Put(ctx, newest)).Required()

		listed, err := repo.Creation().ListBySession(ctx, sessionID)
		gt.NoError(t, err).Required()
		gt.Array(t, listed).Length(2).Required()
		gt.Value(t, listed[0].ID).Equal(newest.ID)
		gt.Value(t, listed[1].ID).Equal(oldest.ID)
	})
}
