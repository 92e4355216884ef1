package config_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/atelier/pkg/cli/config"
)

func TestLogger_Configure(t *testing.T) {
	t.Run("accepts all log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			cfg := config.NewLoggerForTest(level, "console", "stderr")
			closer, err := cfg.Configure()
			gt.NoError(t, err).Required()
			closer()
		}
	})

	t.Run("rejects unknown log level", func(t *testing.T) {
		cfg := config.NewLoggerForTest("verbose", "console", "stderr")
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("rejects unknown log format", func(t *testing.T) {
		cfg := config.NewLoggerForTest("info", "xml", "stderr")
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("writes to a log file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "atelier.log")
		cfg := config.NewLoggerForTest("info", "json", path)
		closer, err := cfg.Configure()
		gt.NoError(t, err).Required()
		defer closer()

		gt.Bool(t, filepath.IsAbs(path)).True()
	})
}

func TestRepository_Configure(t *testing.T) {
	ctx := context.Background()

	t.Run("builds in-memory repository", func(t *testing.T) {
		cfg := config.NewRepositoryForTest("memory", "", "")
		repo, err := cfg.Configure(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, repo).NotNil()
		gt.NoError(t, repo.Close())
	})

	t.Run("requires project ID for firestore backend", func(t *testing.T) {
		cfg := config.NewRepositoryForTest("firestore", "", "")
		_, err := cfg.Configure(ctx)
		gt.Error(t, err)
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		cfg := config.NewRepositoryForTest("sqlite", "", "")
		_, err := cfg.Configure(ctx)
		gt.Error(t, err)
	})
}

func TestGemini_Configure(t *testing.T) {
	t.Run("returns nil client when project ID is empty", func(t *testing.T) {
		cfg := config.NewGeminiForTest("", "us-central1")
		client, err := cfg.Configure(context.Background())
		gt.NoError(t, err)
		gt.Value(t, client).Nil()
	})

	t.Run("returns flags", func(t *testing.T) {
		cfg := config.NewGeminiForTest("", "")
		flags := cfg.Flags()
		gt.Value(t, len(flags)).Equal(2)
	})
}

func TestGateway_Configure(t *testing.T) {
	t.Run("builds gateway service", func(t *testing.T) {
		cfg := config.NewGatewayForTest("http://localhost:8000", "img-cap", "model-cap", "super-user", 30*time.Second)
		svc, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})

	t.Run("requires base URL", func(t *testing.T) {
		cfg := config.NewGatewayForTest("", "img-cap", "model-cap", "super-user", 30*time.Second)
		_, err := cfg.Configure()
		gt.Error(t, err)
	})

	t.Run("requires valid capability IDs", func(t *testing.T) {
		cfg := config.NewGatewayForTest("http://localhost:8000", "", "model-cap", "super-user", 30*time.Second)
		_, err := cfg.Configure()
		gt.Error(t, err)
	})
}

func TestArtifact_Configure(t *testing.T) {
	ctx := context.Background()

	t.Run("builds local storage", func(t *testing.T) {
		cfg := config.NewArtifactForTest("local", t.TempDir(), "")
		storage, err := cfg.Configure(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, storage).NotNil()
	})

	t.Run("requires bucket for gcs backend", func(t *testing.T) {
		cfg := config.NewArtifactForTest("gcs", "", "")
		_, err := cfg.Configure(ctx)
		gt.Error(t, err)
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		cfg := config.NewArtifactForTest("s3", "", "")
		_, err := cfg.Configure(ctx)
		gt.Error(t, err)
	})
}
