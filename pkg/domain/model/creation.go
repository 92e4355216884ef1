package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/atelier/pkg/domain/types"
)

// EmbeddingDimension is the dimension of prompt embeddings used for
// similarity search (matches the Gemini text-embedding model output)
const EmbeddingDimension = 768

// Metadata keys stored with each creation. Metadata is write-once: it is
// assembled exactly once at persistence time and treated as opaque
// afterwards.
const (
	MetaOriginalPrompt    = "original_prompt"
	MetaEnhancedPrompt    = "enhanced_prompt"
	MetaReferenceID       = "reference_id"
	MetaReferenceAnalysis = "reference_analysis"
	MetaCreatedAt         = "created_at"
)

// ReferenceAnalysis is the structured comparison between a reference
// creation's prompt and a newly enhanced prompt.
type ReferenceAnalysis struct {
	Analysis        string `json:"analysis"`
	ReferencePrompt string `json:"reference_prompt"`
	NewPrompt       string `json:"new_prompt"`
}

// Creation represents one full prompt-to-image-to-3D-model result.
// A Creation is fully populated within a single pipeline run and never
// mutated after it has been persisted.
type Creation struct {
	ID                types.CreationID
	SessionID         types.SessionID
	OriginalPrompt    string
	EnhancedPrompt    string
	ReferenceID       types.CreationID // empty when no reference was given
	ReferenceAnalysis *ReferenceAnalysis
	ImagePath         string
	ModelPath         string
	Embedding         []float32 // Vector embedding of the enhanced prompt
	Metadata          map[string]any
	CreatedAt         time.Time
}

// Validate checks that a Creation is complete enough to be persisted.
// Both artifact paths must be set: partial creations are never stored.
func (c *Creation) Validate() error {
	if err := c.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid creation ID")
	}
	if err := c.SessionID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid session ID")
	}
	if c.OriginalPrompt == "" {
		return goerr.New("original prompt is required", goerr.V("id", c.ID))
	}
	if c.EnhancedPrompt == "" {
		return goerr.New("enhanced prompt is required", goerr.V("id", c.ID))
	}
	if c.ImagePath == "" {
		return goerr.New("image artifact path is required", goerr.V("id", c.ID))
	}
	if c.ModelPath == "" {
		return goerr.New("model artifact path is required", goerr.V("id", c.ID))
	}
	return nil
}

// AssembleMetadata builds the write-once metadata snapshot from the
// creation's own fields. Reference entries are present only when a
// reference was actually resolved.
func (c *Creation) AssembleMetadata() {
	meta := map[string]any{
		MetaOriginalPrompt: c.OriginalPrompt,
		MetaEnhancedPrompt: c.EnhancedPrompt,
		MetaCreatedAt:      c.CreatedAt.Format(time.RFC3339Nano),
	}
	if c.ReferenceID != "" {
		meta[MetaReferenceID] = c.ReferenceID.String()
	}
	if c.ReferenceAnalysis != nil {
		meta[MetaReferenceAnalysis] = c.ReferenceAnalysis.Analysis
	}
	c.Metadata = meta
}

// Clone returns a deep copy of the Creation. Repositories hand out clones
// so that callers cannot mutate stored records.
func (c *Creation) Clone() *Creation {
	copied := *c
	if c.ReferenceAnalysis != nil {
		analysis := *c.ReferenceAnalysis
		copied.ReferenceAnalysis = &analysis
	}
	if c.Embedding != nil {
		copied.Embedding = make([]float32, len(c.Embedding))
		copy(copied.Embedding, c.Embedding)
	}
	if c.Metadata != nil {
		copied.Metadata = make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			copied.Metadata[k] = v
		}
	}
	return &copied
}
