package usecase

import (
	"github.com/m-mizutani/atelier/pkg/domain/interfaces"
	"github.com/m-mizutani/atelier/pkg/service/artifact"
	"github.com/m-mizutani/atelier/pkg/service/enhancer"
	"github.com/m-mizutani/atelier/pkg/service/gateway"
)

type UseCases struct {
	repo interfaces.Repository

	enhancerSvc enhancer.Service
	gatewaySvc  gateway.Service
	artifactSvc artifact.Storage

	Creation *CreationUseCase
}

type Option func(*UseCases)

// WithEnhancer sets the prompt enhancer service. When absent, prompts are
// passed through unenhanced and similarity indexing is disabled.
func WithEnhancer(svc enhancer.Service) Option {
	return func(uc *UseCases) {
		uc.enhancerSvc = svc
	}
}

// WithGateway sets the generation gateway service
func WithGateway(svc gateway.Service) Option {
	return func(uc *UseCases) {
		uc.gatewaySvc = svc
	}
}

// WithArtifactStorage sets the artifact byte storage
func WithArtifactStorage(svc artifact.Storage) Option {
	return func(uc *UseCases) {
		uc.artifactSvc = svc
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Creation = NewCreationUseCase(repo, uc.enhancerSvc, uc.gatewaySvc, uc.artifactSvc)

	return uc
}
