package artifact_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/atelier/pkg/service/artifact"
)

func TestNewLocal(t *testing.T) {
	t.Run("requires base directory", func(t *testing.T) {
		_, err := artifact.NewLocal("")
		gt.Error(t, err)
	})

	t.Run("creates base directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "artifacts")
		_, err := artifact.NewLocal(dir)
		gt.NoError(t, err).Required()

		info, err := os.Stat(dir)
		gt.NoError(t, err).Required()
		gt.Bool(t, info.IsDir()).True()
	})
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips artifact bytes", func(t *testing.T) {
		storage, err := artifact.NewLocal(t.TempDir())
		gt.NoError(t, err).Required()

		path, err := storage.Put(ctx, "images/abc.png", []byte("png-bytes"))
		gt.NoError(t, err).Required()
		gt.Value(t, filepath.Base(path)).Equal("abc.png")

		data, err := storage.Get(ctx, "images/abc.png")
		gt.NoError(t, err).Required()
		gt.Value(t, data).Equal([]byte("png-bytes"))
	})

	t.Run("returns ErrArtifactNotFound for missing key", func(t *testing.T) {
		storage, err := artifact.NewLocal(t.TempDir())
		gt.NoError(t, err).Required()

		_, err = storage.Get(ctx, "images/missing.png")
		gt.Bool(t, errors.Is(err, artifact.ErrArtifactNotFound)).True()
	})

	t.Run("rejects path traversal keys", func(t *testing.T) {
		storage, err := artifact.NewLocal(t.TempDir())
		gt.NoError(t, err).Required()

		_, err = storage.Put(ctx, "../escape.png", []byte("x"))
		gt.Error(t, err)

		_, err = storage.Get(ctx, "../../etc/passwd")
		gt.Error(t, err)

		_, err = storage.Put(ctx, "/absolute.png", []byte("x"))
		gt.Error(t, err)
	})

	t.Run("overwrites existing artifact", func(t *testing.T) {
		storage, err := artifact.NewLocal(t.TempDir())
		gt.NoError(t, err).Required()

		_, err = storage.Put(ctx, "models/x.glb", []byte("first"))
		gt.NoError(t, err).Required()
		_, err = storage.Put(ctx, "models/x.glb", []byte("second"))
		gt.NoError(t, err).Required()

		data, err := storage.Get(ctx, "models/x.glb")
		gt.NoError(t, err).Required()
		gt.Value(t, data).Equal([]byte("second"))
	})
}
