package annotate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.TopChunks)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero top chunks", func(c *Config) { c.TopChunks = 0 }},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"overlap equals size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }},
		{"zero report interval", func(c *Config) { c.ReportInterval = 0 }},
		{"zero max retries", func(c *Config) { c.MaxRetries = 0 }},
		{"zero retry delay", func(c *Config) { c.RetryDelay = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestConfigValidate_CustomValues(t *testing.T) {
	cfg := Config{
		TopChunks:      3,
		ChunkSize:      800,
		ChunkOverlap:   100,
		BatchSize:      10,
		ReportInterval: 5,
		MaxRetries:     2,
		RetryDelay:     10 * time.Millisecond,
	}
	assert.NoError(t, cfg.Validate())
}
