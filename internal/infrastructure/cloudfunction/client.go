package cloudfunction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/basel-ax/ailogo/internal/domain"
)

const (
	generatePath = "/generate-image"

	// maxErrorBody caps how much of a failed response is kept for logging.
	maxErrorBody = 4 << 10
)

// Client represents the image generation cloud function client
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates a new cloud function client. A zero timeout leaves the request
// bounded only by ctx.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout}, logger)
}

// NewClientWithHTTP creates a client around an existing http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.Named("cloudfunction"),
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	ImageURL string `json:"image_url"`
}

// GenerateImage posts the prompt to /generate-image and returns the image locator.
// Every failure wraps domain.ErrGenerationFailed.
func (c *Client) GenerateImage(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedImageRef, error) {
	body, err := json.Marshal(generateRequest{Prompt: req.Prompt})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", domain.ErrGenerationFailed, err)
	}

	endpoint := c.baseURL + generatePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrGenerationFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug("Sending generation request", zap.String("url", endpoint), zap.Int("prompt_length", utf8.RuneCountInString(req.Prompt)))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("Generation endpoint returned non-2xx status",
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response_body", errBody),
		)
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrGenerationFailed, resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrGenerationFailed, err)
	}

	if result.ImageURL == "" {
		return nil, fmt.Errorf("%w: response has no image_url", domain.ErrGenerationFailed)
	}

	return &domain.GeneratedImageRef{URL: result.ImageURL}, nil
}
