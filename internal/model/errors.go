package model

import "errors"

// Error taxonomy. Only ErrInvalidQuery (and genuine misconfiguration) escapes
// Search; availability and content-quality problems degrade into smaller or
// fallback result sets instead.
var (
	// ErrInvalidQuery is a caller error: empty query or out-of-range paging.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUpstreamUnavailable means every live strategy failed. The coordinator
	// absorbs it and returns local results only.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrExtractionRejected means the quality gate refused extracted content.
	// Triggers fallback substitution, never surfaced to the caller.
	ErrExtractionRejected = errors.New("extraction rejected")

	// ErrItemNotFound means the requested catalog item does not exist.
	ErrItemNotFound = errors.New("item not found")
)
