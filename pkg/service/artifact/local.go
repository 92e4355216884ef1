package artifact

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// localStorage stores artifacts as files under a base directory
type localStorage struct {
	baseDir string
}

var _ Storage = &localStorage{}

// NewLocal creates a Storage backed by the local filesystem
func NewLocal(baseDir string) (Storage, error) {
	if baseDir == "" {
		return nil, goerr.New("base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, goerr.Wrap(err, "failed to create artifact directory", goerr.V("dir", baseDir))
	}

	return &localStorage{baseDir: baseDir}, nil
}

// resolve maps a key onto the base directory and rejects path traversal
func (s *localStorage) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", goerr.New("invalid artifact key", goerr.V("key", key))
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

func (s *localStorage) Put(ctx context.Context, key string, data []byte) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", goerr.Wrap(err, "failed to create artifact subdirectory", goerr.V("key", key))
	}

	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", goerr.Wrap(err, "failed to write artifact", goerr.V("key", key))
	}

	return path, nil
}

func (s *localStorage) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 - path is validated by resolve
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrArtifactNotFound, "no artifact for key", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to read artifact", goerr.V("key", key))
	}

	return data, nil
}
