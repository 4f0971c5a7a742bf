package image

import "errors"

var (
	// ErrModelUnavailable means a candidate model was still loading after
	// the bounded wait-and-retry.
	ErrModelUnavailable = errors.New("image model unavailable after retry")

	// ErrInvalidCredentials means the configured API key was rejected.
	// Credential problems are not model-specific; no other candidate is
	// tried.
	ErrInvalidCredentials = errors.New("invalid image API credentials")

	// ErrGenerationFailed carries the last candidate's failure.
	ErrGenerationFailed = errors.New("image generation failed")

	// ErrAllModelsFailed means every candidate was exhausted.
	ErrAllModelsFailed = errors.New("all image generation models failed")
)
