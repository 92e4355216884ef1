package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/atelier/pkg/domain/types"
	"github.com/m-mizutani/atelier/pkg/utils/safe"
)

const defaultTimeout = 120 * time.Second

// client implements Service over the capability platform's HTTP protocol:
// POST {base}/{capabilityID}/execution with a single named payload, and a
// JSON response carrying the raw result bytes in base64.
type client struct {
	baseURL    string
	imageCapID types.CapabilityID
	modelCapID types.CapabilityID
	userID     string
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithTimeout sets the per-call timeout budget for capability calls
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client (mainly for tests)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a new generation gateway addressing the given image and
// model capabilities on behalf of userID.
func New(baseURL string, imageCapID, modelCapID types.CapabilityID, userID string, opts ...Option) (Service, error) {
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, goerr.New("valid base URL is required", goerr.V("baseURL", baseURL))
	}
	if err := imageCapID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid image capability ID")
	}
	if err := modelCapID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid model capability ID")
	}
	if userID == "" {
		return nil, goerr.New("user ID is required")
	}

	c := &client{
		baseURL:    baseURL,
		imageCapID: imageCapID,
		modelCapID: modelCapID,
		userID:     userID,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	if prompt == "" {
		return nil, goerr.Wrap(ErrGenerationFailed, "prompt is required")
	}

	return c.call(ctx, c.imageCapID, map[string]string{"prompt": prompt})
}

func (c *client) GenerateModel(ctx context.Context, image []byte) ([]byte, error) {
	if len(image) == 0 {
		return nil, goerr.Wrap(ErrGenerationFailed, "image payload is required")
	}

	payload := map[string]string{"image": base64.StdEncoding.EncodeToString(image)}
	return c.call(ctx, c.modelCapID, payload)
}

// executionResponse is the capability platform's response envelope
type executionResponse struct {
	Result string `json:"result"`
}

func (c *client) call(ctx context.Context, capID types.CapabilityID, payload map[string]string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal capability payload", goerr.V("capability", capID))
	}

	endpoint := c.baseURL + "/" + capID.String() + "/execution"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build capability request", goerr.V("capability", capID))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", c.userID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(ErrGenerationFailed, "capability call failed",
			goerr.V("capability", capID),
			goerr.V("cause", err.Error()),
		)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		safe.Close(ctx, resp.Body)
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.Wrap(ErrGenerationFailed, "capability returned non-OK status",
			goerr.V("capability", capID),
			goerr.V("status", resp.StatusCode),
		)
	}

	var execResp executionResponse
	if err := json.NewDecoder(resp.Body).Decode(&execResp); err != nil {
		return nil, goerr.Wrap(ErrGenerationFailed, "malformed capability response",
			goerr.V("capability", capID),
			goerr.V("cause", err.Error()),
		)
	}

	result, err := base64.StdEncoding.DecodeString(execResp.Result)
	if err != nil {
		return nil, goerr.Wrap(ErrGenerationFailed, "capability result is not valid base64",
			goerr.V("capability", capID),
			goerr.V("cause", err.Error()),
		)
	}
	if len(result) == 0 {
		return nil, goerr.Wrap(ErrGenerationFailed, "capability returned empty result",
			goerr.V("capability", capID),
		)
	}

	return result, nil
}
