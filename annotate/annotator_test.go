package annotate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ragxiv/ragxiv/ai"
	"github.com/ragxiv/ragxiv/ai/mock"
	"github.com/ragxiv/ragxiv/core"
	"github.com/ragxiv/ragxiv/storage"
	storagebadger "github.com/ragxiv/ragxiv/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxRetries = 1
	cfg.RetryDelay = time.Millisecond
	cfg.BatchSize = 2
	cfg.ReportInterval = 1
	return cfg
}

func newStoredPaper(t *testing.T, repo storage.PaperRepository, arxivID, text string) *core.Paper {
	t.Helper()
	paper := &core.Paper{
		ArxivId:   arxivID,
		Title:     "Paper " + arxivID,
		Summary:   "An abstract.",
		Text:      text,
		Published: time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC),
	}
	added, err := repo.AddPapers(context.Background(), paper)
	require.NoError(t, err)
	return added[0]
}

func newTestAnnotator(t *testing.T, provider ai.Provider) (*Annotator, storage.PaperRepository, storage.AnnotationRepository) {
	t.Helper()

	paperRepo, annotationRepo, backend, err := storagebadger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	})

	annotator, err := NewAnnotator(provider, annotationRepo, ai.DefaultConfig(), testConfig())
	require.NoError(t, err)

	return annotator, paperRepo, annotationRepo
}

func TestNewAnnotator_Validation(t *testing.T) {
	_, annotationRepo, backend, err := storagebadger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewAnnotator(nil, annotationRepo, nil, testConfig())
	assert.ErrorIs(t, err, ErrProviderRequired)

	_, err = NewAnnotator(mock.NewMockProvider(), nil, nil, testConfig())
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	bad := testConfig()
	bad.TopChunks = 0
	_, err = NewAnnotator(mock.NewMockProvider(), annotationRepo, nil, bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	// every config Validate accepts must build, zero overlap included
	zeroOverlap := testConfig()
	zeroOverlap.ChunkSize = 100
	zeroOverlap.ChunkOverlap = 0
	require.NoError(t, zeroOverlap.Validate())
	_, err = NewAnnotator(mock.NewMockProvider(), annotationRepo, nil, zeroOverlap)
	assert.NoError(t, err)
}

func TestAnnotate_PlainQuery(t *testing.T) {
	generator := mock.NewMockGenerator("model")
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	annotator, paperRepo, annotationRepo := newTestAnnotator(t, provider)
	paper := newStoredPaper(t, paperRepo, "2502.10245v1",
		"We study the square lattice Hubbard model with DMRG.")

	annotation, err := annotator.Annotate(context.Background(), paper, ai.QueryMaterial)
	require.NoError(t, err)

	assert.Equal(t, paper.Id, annotation.PaperId)
	assert.Equal(t, ai.QueryMaterial, annotation.Query)
	assert.Equal(t, "model", annotation.Answer)
	assert.True(t, annotation.IsModelSystem())
	assert.Empty(t, annotation.Methods)
	assert.Equal(t, "all-minilm", annotation.RetrieverModel)
	assert.Equal(t, "llama3.1:70b", annotation.GeneratorModel)

	// the prompt carries the retrieved text
	require.Equal(t, 1, generator.CallCount())
	assert.Contains(t, generator.Prompts()[0], "Hubbard model")

	// the run was persisted
	stored, err := annotationRepo.GetAnnotationsByPaper(context.Background(), paper.Id)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "model", stored[0].Answer)
}

func TestAnnotate_StructuredQuery(t *testing.T) {
	generator := mock.NewMockGenerator(`[{ "name": "Density Functional Theory", "acronym": "DFT" }]`)
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	annotator, paperRepo, _ := newTestAnnotator(t, provider)
	paper := newStoredPaper(t, paperRepo, "2502.10245v1",
		"We use Density Functional Theory to compute band structures.")

	annotation, err := annotator.Annotate(context.Background(), paper, ai.QueryMethods)
	require.NoError(t, err)

	require.Len(t, annotation.Methods, 1)
	assert.Equal(t, core.Method{Name: "Density Functional Theory", Acronym: "DFT"}, annotation.Methods[0])
}

func TestAnnotate_StructuredQueryKeepsUnparseableAnswer(t *testing.T) {
	generator := mock.NewMockGenerator("The methods are DFT and ARPES.")
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	annotator, paperRepo, _ := newTestAnnotator(t, provider)
	paper := newStoredPaper(t, paperRepo, "2502.10245v1", "Some physics text.")

	annotation, err := annotator.Annotate(context.Background(), paper, ai.QueryMethods)
	require.NoError(t, err)

	assert.Equal(t, "The methods are DFT and ARPES.", annotation.Answer)
	assert.Empty(t, annotation.Methods)

	// every regeneration attempt was spent before giving up
	assert.Equal(t, 3, generator.CallCount())
}

func TestAnnotate_StructuredQueryRegeneratesOnParseFailure(t *testing.T) {
	generator := mock.NewMockGenerator("")
	generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		if generator.CallCount() == 1 {
			return "not json at all", nil
		}
		return `[{"name": "Density Functional Theory", "acronym": "DFT"}]`, nil
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	annotator, paperRepo, _ := newTestAnnotator(t, provider)
	paper := newStoredPaper(t, paperRepo, "2502.10245v1", "Some physics text.")

	annotation, err := annotator.Annotate(context.Background(), paper, ai.QueryMethods)
	require.NoError(t, err)

	assert.Equal(t, 2, generator.CallCount())
	require.Len(t, annotation.Methods, 1)
	assert.Equal(t, "Density Functional Theory", annotation.Methods[0].Name)
	assert.Equal(t, "DFT", annotation.Methods[0].Acronym)
}

func TestAnnotate_UnknownQuery(t *testing.T) {
	annotator, paperRepo, _ := newTestAnnotator(t, mock.NewMockProvider())
	paper := newStoredPaper(t, paperRepo, "2502.10245v1", "text")

	_, err := annotator.Annotate(context.Background(), paper, "nonsense")
	assert.Error(t, err)
}

func TestAnnotate_NoText(t *testing.T) {
	annotator, paperRepo, _ := newTestAnnotator(t, mock.NewMockProvider())
	paper := newStoredPaper(t, paperRepo, "2502.10245v1", "")

	_, err := annotator.Annotate(context.Background(), paper, ai.QueryMaterial)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestAnnotate_GeneratorError(t *testing.T) {
	generator := mock.NewMockGenerator("")
	generator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("model unavailable")
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	annotator, paperRepo, _ := newTestAnnotator(t, provider)
	paper := newStoredPaper(t, paperRepo, "2502.10245v1", "text to annotate")

	_, err := annotator.Annotate(context.Background(), paper, ai.QueryMaterial)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "generate answer"))
}
