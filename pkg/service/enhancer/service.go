package enhancer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/m-mizutani/atelier/pkg/domain/model"
	"github.com/m-mizutani/atelier/pkg/utils/logging"
)

// client implements Service interface
type client struct {
	llmClient gollem.LLMClient
}

// Option is a functional option for client configuration
type Option func(*client)

// New creates a new enhancer service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) Enhance(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", goerr.New("prompt is required")
	}

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(buildEnhanceSystemPrompt()),
	)
	if err != nil {
		logging.From(ctx).Warn("failed to create LLM session, using original prompt", "error", err.Error())
		return prompt, nil
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		logging.From(ctx).Warn("prompt enhancement failed, using original prompt", "error", err.Error())
		return prompt, nil
	}

	enhanced := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if enhanced == "" {
		logging.From(ctx).Warn("prompt enhancement returned empty text, using original prompt")
		return prompt, nil
	}

	return enhanced, nil
}

func (c *client) Analyze(ctx context.Context, referencePrompt, newPrompt string) *model.ReferenceAnalysis {
	result := &model.ReferenceAnalysis{
		Analysis:        analysisFallback,
		ReferencePrompt: referencePrompt,
		NewPrompt:       newPrompt,
	}

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildAnalysisSchema()),
		gollem.WithSessionSystemPrompt(buildAnalyzeSystemPrompt()),
	)
	if err != nil {
		logging.From(ctx).Warn("failed to create LLM session for analysis", "error", err.Error())
		return result
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildAnalyzeUserPrompt(referencePrompt, newPrompt)))
	if err != nil {
		logging.From(ctx).Warn("reference analysis failed", "error", err.Error())
		return result
	}

	if len(resp.Texts) == 0 {
		logging.From(ctx).Warn("reference analysis returned no text")
		return result
	}

	var parsed struct {
		Analysis string `json:"analysis"`
	}
	if err := json.Unmarshal([]byte(resp.Texts[0]), &parsed); err != nil {
		logging.From(ctx).Warn("failed to parse analysis response", "error", err.Error())
		return result
	}

	if analysis := strings.TrimSpace(parsed.Analysis); analysis != "" {
		result.Analysis = analysis
	} else {
		result.Analysis = analysisEmpty
	}

	return result
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}

	if len(embeddings) == 0 {
		return nil, goerr.New("no embedding returned")
	}

	result := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		result[i] = float32(v)
	}

	return result, nil
}

// buildEnhanceSystemPrompt creates the fixed system prompt for prompt
// elaboration
func buildEnhanceSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a creative assistant specialized in enhancing text prompts for image generation.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Expand the given prompt with rich, artistic details while maintaining the original intent.\n")
	sb.WriteString("2. Focus on visual elements: lighting, mood, composition, colors, and artistic style.\n")
	sb.WriteString("3. Keep the enhanced prompt concise but descriptive, at most 120 words.\n")
	sb.WriteString("4. Respond with the enhanced prompt only, without commentary.\n")

	return sb.String()
}

// buildAnalyzeSystemPrompt creates the fixed system prompt for reference
// comparison
func buildAnalyzeSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You analyze the relationship between a reference creation and a new prompt.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Compare subject matter, style, mood, and composition.\n")
	sb.WriteString("2. Name the specific aspects of the reference that should be maintained or modified.\n")
	sb.WriteString("3. Keep the analysis at most 80 words.\n")

	return sb.String()
}

func buildAnalyzeUserPrompt(referencePrompt, newPrompt string) string {
	var sb strings.Builder

	sb.WriteString("## Reference:\n\n")
	sb.WriteString(referencePrompt)
	sb.WriteString("\n\n## New prompt:\n\n")
	sb.WriteString(newPrompt)
	sb.WriteString("\n")

	return sb.String()
}

// buildAnalysisSchema creates the JSON schema for structured analysis output
func buildAnalysisSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "ReferenceAnalysisResponse",
		Description: "Comparison between a reference prompt and a new prompt",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"analysis": {
				Type:        gollem.TypeString,
				Description: "Subject, style, mood and composition deltas between the two prompts",
				Required:    true,
			},
		},
	}
}
