package common

import "errors"

// Error sentinels for the failure classes the service distinguishes.
// Input errors are rejected before any provider call; provider and storage
// errors wrap the underlying cause with %w so call sites can classify them
// with errors.Is.
var (
	// ErrUnsupportedFormat is returned for file types the loader cannot parse.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyDocument is returned when extraction yields no text content.
	ErrEmptyDocument = errors.New("no text content could be extracted")

	// ErrConfirmRequired is returned when a graph deletion is requested
	// without the confirm flag set.
	ErrConfirmRequired = errors.New("deletion requires confirmation")

	// ErrInvalidTopK is returned when top_k is outside the 1-50 range.
	ErrInvalidTopK = errors.New("top_k must be between 1 and 50")

	// ErrMalformedOutput marks a completion response that could not be
	// parsed into the requested structure even after repair. Recovered
	// per chunk during extraction.
	ErrMalformedOutput = errors.New("malformed model output")

	// ErrProvider marks a completion or embedding backend failure.
	ErrProvider = errors.New("ai provider request failed")

	// ErrStorage marks a graph storage failure. Never retried silently,
	// since graph consistency cannot be assumed after a partial failure.
	ErrStorage = errors.New("graph storage request failed")
)
