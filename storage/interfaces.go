package storage

import (
	"context"
	"time"

	"github.com/ragxiv/ragxiv/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// PaperRepository provides operations for managing arXiv papers.
type PaperRepository interface {
	Repository
	// AddPapers adds one or more papers to storage.
	// IDs are content-based (core.PaperID of the arXiv id) and set on the
	// papers before storing. Sets InsertedAt timestamps.
	// Returns ErrDuplicateKey if a paper with the same arXiv id exists.
	AddPapers(ctx context.Context, papers ...*core.Paper) ([]*core.Paper, error)

	// UpdatePapers updates existing papers.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any paper doesn't exist.
	UpdatePapers(ctx context.Context, papers ...*core.Paper) ([]*core.Paper, error)

	// DeletePapers removes papers by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any paper doesn't exist.
	DeletePapers(ctx context.Context, ids ...core.ID) error

	// GetPaper retrieves a single paper by ID.
	// Returns ErrNotFound if the paper doesn't exist.
	GetPaper(ctx context.Context, id core.ID) (*core.Paper, error)

	// GetPaperByArxivId retrieves a single paper by its arXiv identifier.
	// Returns ErrNotFound if the paper doesn't exist.
	GetPaperByArxivId(ctx context.Context, arxivID string) (*core.Paper, error)

	// GetPapers retrieves multiple papers by their IDs.
	// Returns only the papers that exist (no error for missing papers).
	GetPapers(ctx context.Context, ids ...core.ID) ([]*core.Paper, error)

	// GetPapersByDateRange retrieves papers within a publication time range.
	// Returns papers where start <= Published < end, ordered by publication date.
	GetPapersByDateRange(ctx context.Context, start, end time.Time) ([]*core.Paper, error)

	// GetRecentPapers retrieves the N most recently published papers.
	// Returns up to limit papers, with the most recent first.
	GetRecentPapers(ctx context.Context, limit int) ([]*core.Paper, error)

	// GetAllPapers retrieves every stored paper.
	GetAllPapers(ctx context.Context) ([]*core.Paper, error)
}

// AnnotationRepository provides operations for managing LLM extraction runs.
type AnnotationRepository interface {
	Repository
	// AddAnnotations adds one or more annotations to storage.
	// For annotations with ID=0, generates new IDs from sequence.
	// Sets CreatedAt timestamps if not already set.
	// Returns the annotations with generated IDs populated.
	AddAnnotations(ctx context.Context, annotations ...*core.Annotation) ([]*core.Annotation, error)

	// DeleteAnnotations removes annotations by their IDs.
	// Returns ErrNotFound if any annotation doesn't exist.
	DeleteAnnotations(ctx context.Context, ids ...core.ID) error

	// GetAnnotation retrieves a single annotation by ID.
	// Returns ErrNotFound if the annotation doesn't exist.
	GetAnnotation(ctx context.Context, id core.ID) (*core.Annotation, error)

	// GetAnnotationsByPaper retrieves all annotations recorded for a paper,
	// ordered by run id (oldest first).
	GetAnnotationsByPaper(ctx context.Context, paperID core.ID) ([]*core.Annotation, error)
}
