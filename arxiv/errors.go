package arxiv

import "errors"

var (
	// ErrAPIRequest indicates the arXiv API returned a non-OK status.
	ErrAPIRequest = errors.New("arxiv api request failed")

	// ErrDownloadFailed indicates a PDF could not be retrieved.
	ErrDownloadFailed = errors.New("pdf download failed")

	// ErrMalformedFeed indicates the Atom response could not be parsed.
	ErrMalformedFeed = errors.New("malformed atom feed")
)
