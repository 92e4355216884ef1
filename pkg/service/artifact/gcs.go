package artifact

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/atelier/pkg/utils/safe"
)

// gcsStorage stores artifacts as objects in a Cloud Storage bucket
type gcsStorage struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ Storage = &gcsStorage{}

// GCSOption is a functional option for gcsStorage configuration
type GCSOption func(*gcsStorage)

// WithObjectPrefix prepends a prefix to every object name. Used to isolate
// test objects from production artifacts.
func WithObjectPrefix(prefix string) GCSOption {
	return func(s *gcsStorage) {
		s.prefix = prefix
	}
}

// NewGCS creates a Storage backed by a Cloud Storage bucket
func NewGCS(ctx context.Context, bucket string, opts ...GCSOption) (Storage, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	s := &gcsStorage{
		client: client,
		bucket: bucket,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *gcsStorage) Put(ctx context.Context, key string, data []byte) (string, error) {
	obj := s.client.Bucket(s.bucket).Object(s.prefix + key)

	w := obj.NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write artifact object", goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize artifact object", goerr.V("key", key))
	}

	return "gs://" + s.bucket + "/" + s.prefix + key, nil
}

func (s *gcsStorage) Get(ctx context.Context, key string) ([]byte, error) {
	obj := s.client.Bucket(s.bucket).Object(s.prefix + key)

	r, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(ErrArtifactNotFound, "no artifact object for key", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to open artifact object", goerr.V("key", key))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read artifact object", goerr.V("key", key))
	}

	return data, nil
}
