package config

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/atelier/pkg/domain/types"
	"github.com/m-mizutani/atelier/pkg/service/gateway"
)

// Gateway holds CLI flags for the generation gateway configuration
type Gateway struct {
	baseURL     string
	imageCapID  string
	modelCapID  string
	userID      string
	callTimeout time.Duration
}

// Flags returns CLI flags for gateway configuration
func (g *Gateway) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gateway-url",
			Usage:       "Base URL of the generation capability platform",
			Sources:     cli.EnvVars("ATELIER_GATEWAY_URL"),
			Destination: &g.baseURL,
		},
		&cli.StringFlag{
			Name:        "image-capability-id",
			Usage:       "Capability ID for text-to-image generation",
			Sources:     cli.EnvVars("ATELIER_IMAGE_CAPABILITY_ID"),
			Destination: &g.imageCapID,
		},
		&cli.StringFlag{
			Name:        "model-capability-id",
			Usage:       "Capability ID for image-to-3D-model generation",
			Sources:     cli.EnvVars("ATELIER_MODEL_CAPABILITY_ID"),
			Destination: &g.modelCapID,
		},
		&cli.StringFlag{
			Name:        "gateway-user-id",
			Usage:       "Caller user ID sent with capability calls",
			Value:       "super-user",
			Sources:     cli.EnvVars("ATELIER_GATEWAY_USER_ID"),
			Destination: &g.userID,
		},
		&cli.DurationFlag{
			Name:        "gateway-timeout",
			Usage:       "Per-call timeout budget for capability calls",
			Value:       120 * time.Second,
			Sources:     cli.EnvVars("ATELIER_GATEWAY_TIMEOUT"),
			Destination: &g.callTimeout,
		},
	}
}

// Configure creates a new generation gateway from the configured flags
func (g *Gateway) Configure() (gateway.Service, error) {
	if g.baseURL == "" {
		return nil, goerr.New("gateway-url is required")
	}

	svc, err := gateway.New(
		g.baseURL,
		types.CapabilityID(g.imageCapID),
		types.CapabilityID(g.modelCapID),
		g.userID,
		gateway.WithTimeout(g.callTimeout),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize generation gateway")
	}

	return svc, nil
}
