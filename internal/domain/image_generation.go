package domain

import (
	"context"
	"errors"
)

// ErrGenerationFailed is the only error kind surfaced to the user. Transport errors,
// non-2xx responses and malformed payloads all wrap it.
var ErrGenerationFailed = errors.New("generation failed")

// GenerationRequest represents one prompt submission. It is treated as a value: a retry
// re-submits an equal request.
type GenerationRequest struct {
	Prompt   string
	StyleTag string
}

// IsEmpty reports whether there is nothing to submit.
func (r GenerationRequest) IsEmpty() bool {
	return r.Prompt == ""
}

// GeneratedImageRef points at an image produced by the generation endpoint.
type GeneratedImageRef struct {
	URL string
}

// ImageGenerator defines the interface for image generation operations
type ImageGenerator interface {
	// GenerateImage issues a single generation call for the request.
	GenerateImage(ctx context.Context, req GenerationRequest) (*GeneratedImageRef, error)
}
