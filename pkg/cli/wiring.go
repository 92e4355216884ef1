package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/atelier/pkg/cli/config"
	"github.com/m-mizutani/atelier/pkg/domain/interfaces"
	"github.com/m-mizutani/atelier/pkg/service/artifact"
	"github.com/m-mizutani/atelier/pkg/service/enhancer"
	"github.com/m-mizutani/atelier/pkg/usecase"
	"github.com/m-mizutani/atelier/pkg/utils/logging"
)

// pipeline bundles the collaborators a command needs to run creations
type pipeline struct {
	repo     interfaces.Repository
	storage  artifact.Storage
	usecases *usecase.UseCases
}

// configurePipeline wires repository, LLM, gateway and artifact storage
// into the use case layer. The caller must Close() the returned pipeline.
func configurePipeline(ctx context.Context, repoCfg *config.Repository, geminiCfg *config.Gemini, gatewayCfg *config.Gateway, artifactCfg *config.Artifact) (*pipeline, error) {
	repo, err := repoCfg.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize repository")
	}

	storage, err := artifactCfg.Configure(ctx)
	if err != nil {
		_ = repo.Close()
		return nil, goerr.Wrap(err, "failed to initialize artifact storage")
	}

	gatewaySvc, err := gatewayCfg.Configure()
	if err != nil {
		_ = repo.Close()
		return nil, goerr.Wrap(err, "failed to initialize generation gateway")
	}

	opts := []usecase.Option{
		usecase.WithGateway(gatewaySvc),
		usecase.WithArtifactStorage(storage),
	}

	llmClient, err := geminiCfg.Configure(ctx)
	if err != nil {
		_ = repo.Close()
		return nil, goerr.Wrap(err, "failed to initialize Gemini client")
	}
	if llmClient != nil {
		enhancerSvc, err := enhancer.New(llmClient)
		if err != nil {
			_ = repo.Close()
			return nil, goerr.Wrap(err, "failed to initialize prompt enhancer")
		}
		opts = append(opts, usecase.WithEnhancer(enhancerSvc))
		logging.Default().Info("Prompt enhancement enabled")
	} else {
		logging.Default().Info("Gemini not configured, prompts will pass through unenhanced")
	}

	return &pipeline{
		repo:     repo,
		storage:  storage,
		usecases: usecase.New(repo, opts...),
	}, nil
}

func (p *pipeline) Close() {
	if err := p.repo.Close(); err != nil {
		logging.Default().Error("failed to close repository", "error", err.Error())
	}
}
