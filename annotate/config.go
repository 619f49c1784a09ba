package annotate

import (
	"fmt"
	"time"

	"github.com/ragxiv/ragxiv/chunk"
	"github.com/ragxiv/ragxiv/retrieval"
)

// Config holds tuning parameters for annotation runs.
type Config struct {
	// TopChunks is the number of retrieved chunks filled into the prompt.
	TopChunks int

	// ChunkSize and ChunkOverlap configure the text splitter.
	ChunkSize    int
	ChunkOverlap int

	// BatchSize is the number of papers processed per batch in Batch runs.
	BatchSize int

	// ReportInterval is how many papers between progress reports.
	ReportInterval int

	// MaxRetries and RetryDelay configure per-paper retry with
	// exponential backoff.
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns the standard annotation parameters.
func DefaultConfig() Config {
	return Config{
		TopChunks:      retrieval.DefaultTopChunks,
		ChunkSize:      chunk.DefaultChunkSize,
		ChunkOverlap:   chunk.DefaultChunkOverlap,
		BatchSize:      50,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     time.Second,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.TopChunks <= 0 {
		return fmt.Errorf("%w: TopChunks must be positive", ErrInvalidConfig)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: ChunkSize must be positive", ErrInvalidConfig)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: ChunkOverlap must be in [0, ChunkSize)", ErrInvalidConfig)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: BatchSize must be positive", ErrInvalidConfig)
	}
	if c.ReportInterval <= 0 {
		return fmt.Errorf("%w: ReportInterval must be positive", ErrInvalidConfig)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("%w: MaxRetries must be positive", ErrInvalidConfig)
	}
	if c.RetryDelay <= 0 {
		return fmt.Errorf("%w: RetryDelay must be positive", ErrInvalidConfig)
	}
	return nil
}
