package gateway

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// Service defines the interface for the two ordered external generation
// capabilities: text-to-image and image-to-3D-model. Each capability is
// addressed by an opaque capability ID fixed at construction time.
//
// The two calls are strictly sequential within one creation because model
// generation consumes the image bytes. Independent creations may call the
// gateway concurrently.
type Service interface {
	// GenerateImage submits the prompt to the image capability and returns
	// raw image bytes
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)

	// GenerateModel submits image bytes to the 3D model capability and
	// returns raw model bytes
	GenerateModel(ctx context.Context, image []byte) ([]byte, error)
}

// ErrGenerationFailed is returned when a remote capability errors, times
// out, or returns an empty or malformed payload. It is fatal for the
// creation being processed.
var ErrGenerationFailed = goerr.New("generation capability call failed")
