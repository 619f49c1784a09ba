package annotate

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ragxiv/ragxiv/ai"
	"github.com/ragxiv/ragxiv/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchRun(t *testing.T) {
	generator := mock.NewMockGenerator("model")
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	annotator, paperRepo, annotationRepo := newTestAnnotator(t, provider)

	newStoredPaper(t, paperRepo, "2502.00001v1", "First paper text.")
	newStoredPaper(t, paperRepo, "2502.00002v1", "Second paper text.")
	paperNoText := newStoredPaper(t, paperRepo, "2502.00003v1", "")

	var progress bytes.Buffer
	batch, err := NewBatch(annotator, paperRepo, testConfig(),
		WithPoolSize(2),
		WithProgressWriter(&progress),
	)
	require.NoError(t, err)
	defer batch.Release()

	summary, err := batch.Run(context.Background(), ai.QueryMaterial)
	require.NoError(t, err)

	assert.Equal(t, BatchSummary{Total: 3, Annotated: 2, Skipped: 1}, summary)
	assert.Contains(t, progress.String(), "3/3")

	// no annotation recorded for the empty paper
	runs, err := annotationRepo.GetAnnotationsByPaper(context.Background(), paperNoText.Id)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestBatchRun_CountsFailures(t *testing.T) {
	generator := mock.NewMockGenerator("")
	generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("model unavailable")
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	annotator, paperRepo, _ := newTestAnnotator(t, provider)
	newStoredPaper(t, paperRepo, "2502.00001v1", "Some text.")

	batch, err := NewBatch(annotator, paperRepo, testConfig())
	require.NoError(t, err)
	defer batch.Release()

	summary, err := batch.Run(context.Background(), ai.QueryMaterial)
	require.NoError(t, err)
	assert.Equal(t, BatchSummary{Total: 1, Failed: 1}, summary)
}

func TestBatchRun_EmptyRepository(t *testing.T) {
	annotator, paperRepo, _ := newTestAnnotator(t, mock.NewMockProvider())

	batch, err := NewBatch(annotator, paperRepo, testConfig())
	require.NoError(t, err)
	defer batch.Release()

	summary, err := batch.Run(context.Background(), ai.QueryMaterial)
	require.NoError(t, err)
	assert.Equal(t, BatchSummary{}, summary)
}

func TestBatchRun_ContextCancelled(t *testing.T) {
	annotator, paperRepo, _ := newTestAnnotator(t, mock.NewMockProvider())
	newStoredPaper(t, paperRepo, "2502.00001v1", "Some text.")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, err := NewBatch(annotator, paperRepo, testConfig())
	require.NoError(t, err)
	defer batch.Release()

	_, err = batch.Run(ctx, ai.QueryMaterial)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestModelPapers(t *testing.T) {
	generator := mock.NewMockGenerator("model")
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	annotator, paperRepo, annotationRepo := newTestAnnotator(t, provider)

	modelPaper := newStoredPaper(t, paperRepo, "2502.00001v1", "Square lattice text.")
	materialPaper := newStoredPaper(t, paperRepo, "2502.00002v1", "Graphene text.")

	_, err := annotator.Annotate(context.Background(), modelPaper, ai.QueryMaterial)
	require.NoError(t, err)

	generator.Answer = "graphene"
	_, err = annotator.Annotate(context.Background(), materialPaper, ai.QueryMaterial)
	require.NoError(t, err)

	batch, err := NewBatch(annotator, paperRepo, testConfig())
	require.NoError(t, err)
	defer batch.Release()

	models, err := batch.ModelPapers(context.Background(), annotationRepo)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "2502.00001v1", models[0].ArxivId)
}
