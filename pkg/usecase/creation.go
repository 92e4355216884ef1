package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/atelier/pkg/domain/interfaces"
	"github.com/m-mizutani/atelier/pkg/domain/model"
	"github.com/m-mizutani/atelier/pkg/domain/types"
	"github.com/m-mizutani/atelier/pkg/service/artifact"
	"github.com/m-mizutani/atelier/pkg/service/enhancer"
	"github.com/m-mizutani/atelier/pkg/service/gateway"
	"github.com/m-mizutani/atelier/pkg/utils/logging"
)

// DefaultSimilarLimit bounds similarity query results when the caller does
// not specify a limit
const DefaultSimilarLimit = 5

// CreationUseCase is the state machine for one creation request. The
// pipeline is linear: resolve reference, enhance prompt, generate image,
// generate model, persist. A generation or persistence failure aborts the
// whole request and nothing is recorded; reference misses and enhancement
// failures only degrade the result.
type CreationUseCase struct {
	repo        interfaces.Repository
	enhancerSvc enhancer.Service
	gatewaySvc  gateway.Service
	artifactSvc artifact.Storage
}

// NewCreationUseCase creates a new CreationUseCase instance. All
// collaborators are injected; enhancerSvc may be nil, in which case
// prompts pass through unenhanced and similarity indexing is disabled.
func NewCreationUseCase(repo interfaces.Repository, enhancerSvc enhancer.Service, gatewaySvc gateway.Service, artifactSvc artifact.Storage) *CreationUseCase {
	return &CreationUseCase{
		repo:        repo,
		enhancerSvc: enhancerSvc,
		gatewaySvc:  gatewaySvc,
		artifactSvc: artifactSvc,
	}
}

// CreateInput carries one creation request
type CreateInput struct {
	Prompt      string
	SessionID   types.SessionID  // generated when empty
	ReferenceID types.CreationID // optional prior creation used as style reference
}

// Create runs the full pipeline for one creation request and returns the
// persisted record.
func (uc *CreationUseCase) Create(ctx context.Context, input CreateInput) (*model.Creation, error) {
	logger := logging.From(ctx)

	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		return nil, goerr.Wrap(ErrEmptyPrompt, "creation prompt is empty")
	}
	if uc.gatewaySvc == nil || uc.artifactSvc == nil {
		return nil, goerr.Wrap(ErrNotConfigured, "generation gateway and artifact storage are required")
	}

	// IDs are assigned before any external call. A session ID given by the
	// caller is preserved so that multi-turn sessions keep their grouping.
	creationID := types.NewCreationID()
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = types.NewSessionID()
	}

	reference := uc.resolveReference(ctx, input.ReferenceID)

	enhanced := uc.enhance(ctx, prompt)

	var analysis *model.ReferenceAnalysis
	if reference != nil && uc.enhancerSvc != nil {
		analysis = uc.enhancerSvc.Analyze(ctx, reference.EnhancedPrompt, enhanced)
		// The gateway accepts a single prompt string, so the analysis is
		// folded into the prompt as a human-readable style clause.
		enhanced = enhanced + " (Style reference: " + analysis.Analysis + ")"
	}

	image, err := uc.gatewaySvc.GenerateImage(ctx, enhanced)
	if err != nil {
		return nil, goerr.Wrap(err, "image generation failed", goerr.V(CreationIDKey, creationID))
	}

	imagePath, err := uc.artifactSvc.Put(ctx, "images/"+creationID.String()+".png", image)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store image artifact", goerr.V(CreationIDKey, creationID))
	}

	// Model generation always consumes this creation's own image bytes
	modelBytes, err := uc.gatewaySvc.GenerateModel(ctx, image)
	if err != nil {
		return nil, goerr.Wrap(err, "model generation failed", goerr.V(CreationIDKey, creationID))
	}

	modelPath, err := uc.artifactSvc.Put(ctx, "models/"+creationID.String()+".glb", modelBytes)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store model artifact", goerr.V(CreationIDKey, creationID))
	}

	creation := &model.Creation{
		ID:                creationID,
		SessionID:         sessionID,
		OriginalPrompt:    prompt,
		EnhancedPrompt:    enhanced,
		ReferenceAnalysis: analysis,
		ImagePath:         imagePath,
		ModelPath:         modelPath,
		Embedding:         uc.embed(ctx, enhanced),
		CreatedAt:         time.Now().UTC(),
	}
	if reference != nil {
		creation.ReferenceID = reference.ID
	}
	creation.AssembleMetadata()

	if err := uc.repo.Creation().Put(ctx, creation); err != nil {
		return nil, goerr.Wrap(err, "failed to persist creation",
			goerr.V(CreationIDKey, creationID),
			goerr.V(SessionIDKey, sessionID),
		)
	}

	logger.Info("creation completed",
		"creation_id", creationID,
		"session_id", sessionID,
		"image_path", imagePath,
		"model_path", modelPath,
		"reference_resolved", reference != nil,
	)

	return creation, nil
}

// FindSimilar returns up to limit prior creations ranked by prompt
// similarity; when no limit is given, DefaultSimilarLimit applies. This
// path is opportunistic: any failure degrades to an empty result instead
// of an error.
func (uc *CreationUseCase) FindSimilar(ctx context.Context, prompt string, limit int) ([]*model.Creation, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	if strings.TrimSpace(prompt) == "" || uc.enhancerSvc == nil {
		return []*model.Creation{}, nil
	}

	embedding, err := uc.enhancerSvc.Embed(ctx, prompt)
	if err != nil {
		logging.From(ctx).Warn("failed to embed similarity query, returning empty result", "error", err.Error())
		return []*model.Creation{}, nil
	}

	creations, err := uc.repo.Creation().FindSimilar(ctx, embedding, limit)
	if err != nil {
		logging.From(ctx).Warn("similarity search failed, returning empty result", "error", err.Error())
		return []*model.Creation{}, nil
	}

	return creations, nil
}

// GetCreation retrieves a single creation by ID. Only explicit absence is
// reported as ErrCreationNotFound; a failing storage medium surfaces as-is.
func (uc *CreationUseCase) GetCreation(ctx context.Context, id types.CreationID) (*model.Creation, error) {
	creation, err := uc.repo.Creation().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrRecordNotFound) {
			return nil, goerr.Wrap(ErrCreationNotFound, "creation not found", goerr.V(CreationIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get creation", goerr.V(CreationIDKey, id))
	}
	return creation, nil
}

// ListHistory returns all creations of a session, newest first
func (uc *CreationUseCase) ListHistory(ctx context.Context, sessionID types.SessionID) ([]*model.Creation, error) {
	creations, err := uc.repo.Creation().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list session history", goerr.V(SessionIDKey, sessionID))
	}
	return creations, nil
}

// resolveReference looks up the reference creation. Absence of the
// reference is never fatal: the pipeline continues without style blending.
func (uc *CreationUseCase) resolveReference(ctx context.Context, referenceID types.CreationID) *model.Creation {
	if referenceID == "" {
		return nil
	}

	reference, err := uc.repo.Creation().Get(ctx, referenceID)
	if err != nil {
		logging.From(ctx).Warn("reference not resolvable, continuing without style blending",
			"reference_id", referenceID,
			"error", err.Error(),
		)
		return nil
	}

	return reference
}

// enhance elaborates the prompt, falling back to the original when no
// enhancer is configured. The enhancer itself degrades to the original
// prompt on model failure.
func (uc *CreationUseCase) enhance(ctx context.Context, prompt string) string {
	if uc.enhancerSvc == nil {
		return prompt
	}

	enhanced, err := uc.enhancerSvc.Enhance(ctx, prompt)
	if err != nil || enhanced == "" {
		return prompt
	}
	return enhanced
}

// embed computes the similarity embedding, best effort: the creation is
// still saved when the embedding provider is unavailable, it just cannot
// be ranked by similarity queries.
func (uc *CreationUseCase) embed(ctx context.Context, text string) []float32 {
	if uc.enhancerSvc == nil {
		return nil
	}

	embedding, err := uc.enhancerSvc.Embed(ctx, text)
	if err != nil {
		logging.From(ctx).Warn("failed to embed prompt, creation will not be similarity-indexed", "error", err.Error())
		return nil
	}
	return embedding
}
