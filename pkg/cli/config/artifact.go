package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/atelier/pkg/service/artifact"
	"github.com/m-mizutani/atelier/pkg/utils/logging"
)

// Artifact holds CLI flags for artifact storage configuration
type Artifact struct {
	backend string
	dir     string
	bucket  string
}

// Flags returns CLI flags for artifact storage configuration
func (a *Artifact) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "artifact-backend",
			Usage:       "Artifact storage backend (local or gcs)",
			Value:       "local",
			Sources:     cli.EnvVars("ATELIER_ARTIFACT_BACKEND"),
			Destination: &a.backend,
		},
		&cli.StringFlag{
			Name:        "artifact-dir",
			Usage:       "Directory for local artifact storage",
			Value:       "static",
			Sources:     cli.EnvVars("ATELIER_ARTIFACT_DIR"),
			Destination: &a.dir,
		},
		&cli.StringFlag{
			Name:        "artifact-bucket",
			Usage:       "Cloud Storage bucket name (required when using gcs backend)",
			Sources:     cli.EnvVars("ATELIER_ARTIFACT_BUCKET"),
			Destination: &a.bucket,
		},
	}
}

// Backend returns the configured backend type
func (a *Artifact) Backend() string {
	return a.backend
}

// Configure initializes and returns artifact storage based on the
// configured backend
func (a *Artifact) Configure(ctx context.Context) (artifact.Storage, error) {
	switch a.backend {
	case "local":
		storage, err := artifact.NewLocal(a.dir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize local artifact storage")
		}
		logging.Default().Info("Using local artifact storage", "dir", a.dir)
		return storage, nil

	case "gcs":
		if a.bucket == "" {
			return nil, goerr.New("artifact-bucket is required when using gcs backend")
		}
		storage, err := artifact.NewGCS(ctx, a.bucket)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize gcs artifact storage")
		}
		logging.Default().Info("Using Cloud Storage artifact storage", "bucket", a.bucket)
		return storage, nil

	default:
		return nil, goerr.New("invalid artifact backend", goerr.V("backend", a.backend))
	}
}
