package harvest

import "errors"

var (
	// ErrFetcherRequired is returned when no arXiv client is provided.
	ErrFetcherRequired = errors.New("harvest: fetcher is required")

	// ErrRepositoryRequired is returned when no paper repository is provided.
	ErrRepositoryRequired = errors.New("harvest: paper repository is required")

	// ErrInvalidMaxAttempts is returned when retry is configured with
	// a non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("harvest: max attempts must be positive")
)
