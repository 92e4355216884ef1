package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/m-mizutani/atelier/pkg/domain/model"
	"github.com/m-mizutani/atelier/pkg/domain/types"
)

// creationDoc is the Firestore document representation of model.Creation.
// Embedding is stored as firestore.Vector32 for FindNearest vector search.
type creationDoc struct {
	ID                types.CreationID   `firestore:"ID"`
	SessionID         types.SessionID    `firestore:"SessionID"`
	OriginalPrompt    string             `firestore:"OriginalPrompt"`
	EnhancedPrompt    string             `firestore:"EnhancedPrompt"`
	ReferenceID       string             `firestore:"ReferenceID,omitempty"`
	ReferenceAnalysis *referenceDoc      `firestore:"ReferenceAnalysis,omitempty"`
	ImagePath         string             `firestore:"ImagePath"`
	ModelPath         string             `firestore:"ModelPath"`
	Embedding         firestore.Vector32 `firestore:"Embedding,omitempty"`
	Metadata          map[string]any     `firestore:"Metadata"`
	CreatedAt         time.Time          `firestore:"CreatedAt"`
}

type referenceDoc struct {
	Analysis        string `firestore:"Analysis"`
	ReferencePrompt string `firestore:"ReferencePrompt"`
	NewPrompt       string `firestore:"NewPrompt"`
}

func toCreationDoc(c *model.Creation) *creationDoc {
	doc := &creationDoc{
		ID:             c.ID,
		SessionID:      c.SessionID,
		OriginalPrompt: c.OriginalPrompt,
		EnhancedPrompt: c.EnhancedPrompt,
		ReferenceID:    c.ReferenceID.String(),
		ImagePath:      c.ImagePath,
		ModelPath:      c.ModelPath,
		Metadata:       c.Metadata,
		CreatedAt:      c.CreatedAt,
	}
	if c.ReferenceAnalysis != nil {
		doc.ReferenceAnalysis = &referenceDoc{
			Analysis:        c.ReferenceAnalysis.Analysis,
			ReferencePrompt: c.ReferenceAnalysis.ReferencePrompt,
			NewPrompt:       c.ReferenceAnalysis.NewPrompt,
		}
	}
	if len(c.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(c.Embedding)
	}
	return doc
}

func fromCreationDoc(d *creationDoc) *model.Creation {
	c := &model.Creation{
		ID:             d.ID,
		SessionID:      d.SessionID,
		OriginalPrompt: d.OriginalPrompt,
		EnhancedPrompt: d.EnhancedPrompt,
		ReferenceID:    types.CreationID(d.ReferenceID),
		ImagePath:      d.ImagePath,
		ModelPath:      d.ModelPath,
		Metadata:       d.Metadata,
		CreatedAt:      d.CreatedAt,
	}
	if d.ReferenceAnalysis != nil {
		c.ReferenceAnalysis = &model.ReferenceAnalysis{
			Analysis:        d.ReferenceAnalysis.Analysis,
			ReferencePrompt: d.ReferenceAnalysis.ReferencePrompt,
			NewPrompt:       d.ReferenceAnalysis.NewPrompt,
		}
	}
	if len(d.Embedding) > 0 {
		c.Embedding = []float32(d.Embedding)
	}
	return c
}

type creationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCreationRepository(client *firestore.Client) *creationRepository {
	return &creationRepository{client: client}
}

func (r *creationRepository) creationsCollection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + "creations")
}

func (r *creationRepository) Put(ctx context.Context, creation *model.Creation) error {
	if err := creation.Validate(); err != nil {
		return goerr.Wrap(err, "invalid creation", goerr.V("id", creation.ID))
	}

	docRef := r.creationsCollection().Doc(creation.ID.String())
	if _, err := docRef.Set(ctx, toCreationDoc(creation)); err != nil {
		return goerr.Wrap(err, "failed to put creation", goerr.V("id", creation.ID))
	}

	return nil
}

func (r *creationRepository) Get(ctx context.Context, id types.CreationID) (*model.Creation, error) {
	doc, err := r.creationsCollection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "creation not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get creation", goerr.V("id", id))
	}

	var d creationDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal creation", goerr.V("id", id))
	}

	return fromCreationDoc(&d), nil
}

func (r *creationRepository) FindSimilar(ctx context.Context, embedding []float32, limit int) ([]*model.Creation, error) {
	if limit <= 0 || len(embedding) == 0 {
		return []*model.Creation{}, nil
	}

	vq := r.creationsCollection().
		FindNearest("Embedding", firestore.Vector32(embedding), limit, firestore.DistanceMeasureCosine, nil)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	creations := make([]*model.Creation, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate creation vector search results")
		}

		var d creationDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal creation from vector search")
		}

		creations = append(creations, fromCreationDoc(&d))
	}

	return creations, nil
}

func (r *creationRepository) ListBySession(ctx context.Context, sessionID types.SessionID) ([]*model.Creation, error) {
	iter := r.creationsCollection().
		Where("SessionID", "==", sessionID.String()).
		OrderBy("CreatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	creations := make([]*model.Creation, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate creations", goerr.V("sessionID", sessionID))
		}

		var d creationDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal creation")
		}

		creations = append(creations, fromCreationDoc(&d))
	}

	return creations, nil
}
