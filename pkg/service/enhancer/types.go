package enhancer

import (
	"context"

	"github.com/m-mizutani/atelier/pkg/domain/model"
)

// Service defines the interface for prompt elaboration and reference
// analysis backed by a generative text model.
//
// Both Enhance and Analyze follow a degrade-not-fail contract: the pipeline
// must never be blocked by a failure of the text model, so internal errors
// are absorbed and a usable fallback value is returned instead.
type Service interface {
	// Enhance expands the given prompt with artistic detail. On any
	// failure of the underlying model the original prompt is returned
	// unchanged. The result is never empty for a non-empty input.
	Enhance(ctx context.Context, prompt string) (string, error)

	// Analyze compares a reference creation's prompt with a new prompt and
	// returns a structured result. On failure the Analysis field holds a
	// fixed placeholder instead of an error being raised.
	Analyze(ctx context.Context, referencePrompt, newPrompt string) *model.ReferenceAnalysis

	// Embed generates an embedding vector for the given text, used for
	// similarity search over stored prompts.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// analysisFallback is returned as Analysis when the model call fails;
// analysisEmpty when the call succeeds but the model reports no
// relationship between the prompts.
const (
	analysisFallback = "Failed to analyze relationship."
	analysisEmpty    = "No significant relationships found."
)
