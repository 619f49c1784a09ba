package badger

import (
	"context"
	"testing"
	"time"

	"github.com/ragxiv/ragxiv/core"
	"github.com/ragxiv/ragxiv/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPaper(arxivID string, published time.Time) *core.Paper {
	return &core.Paper{
		ArxivId: arxivID,
		Url:     "http://arxiv.org/abs/" + arxivID,
		PdfUrl:  "http://arxiv.org/pdf/" + arxivID,
		Title:   "Paper " + arxivID,
		Summary: "Abstract of " + arxivID,
		Authors: []core.Author{
			{Name: "A. Author"},
		},
		Categories: []string{"cond-mat.str-el"},
		Published:  published,
		Updated:    published,
	}
}

func TestAddPapers(t *testing.T) {
	paperRepo, annotationRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	now := time.Now().UTC().Add(-time.Hour)

	paper := newTestPaper("2502.10245v1", now)
	added, err := paperRepo.AddPapers(ctx, paper)
	require.NoError(t, err)
	require.Len(t, added, 1)

	assert.Equal(t, core.PaperID("2502.10245v1"), added[0].Id)
	assert.False(t, added[0].InsertedAt.IsZero())

	got, err := paperRepo.GetPaper(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "2502.10245v1", got.ArxivId)
	assert.Equal(t, paper.Title, got.Title)
}

func TestAddPapers_Duplicate(t *testing.T) {
	paperRepo, annotationRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	now := time.Now().UTC().Add(-time.Hour)

	_, err = paperRepo.AddPapers(ctx, newTestPaper("2502.10245v1", now))
	require.NoError(t, err)

	_, err = paperRepo.AddPapers(ctx, newTestPaper("2502.10245v1", now))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestGetPaper_NotFound(t *testing.T) {
	paperRepo, annotationRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	_, err = paperRepo.GetPaper(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetPaperByArxivId(t *testing.T) {
	paperRepo, annotationRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	now := time.Now().UTC().Add(-time.Hour)

	_, err = paperRepo.AddPapers(ctx, newTestPaper("2502.10245v1", now))
	require.NoError(t, err)

	got, err := paperRepo.GetPaperByArxivId(ctx, "2502.10245v1")
	require.NoError(t, err)
	assert.Equal(t, "2502.10245v1", got.ArxivId)

	_, err = paperRepo.GetPaperByArxivId(ctx, "9999.99999v1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdatePapers(t *testing.T) {
	paperRepo, annotationRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	now := time.Now().UTC().Add(-time.Hour)

	added, err := paperRepo.AddPapers(ctx, newTestPaper("2502.10245v1", now))
	require.NoError(t, err)

	paper := added[0]
	paper.Text = "Extracted and cleaned text."
	updated, err := paperRepo.UpdatePapers(ctx, paper)
	require.NoError(t, err)
	require.Len(t, updated, 1)

	got, err := paperRepo.GetPaper(ctx, paper.Id)
	require.NoError(t, err)
	assert.Equal(t, "Extracted and cleaned text.", got.Text)
	assert.False(t, got.UpdatedAt.Before(got.InsertedAt))
}

func TestUpdatePapers_NotFound(t *testing.T) {
	paperRepo, annotationRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	paper := newTestPaper("2502.10245v1", time.Now().UTC().Add(-time.Hour))
	paper.Id = core.PaperID(paper.ArxivId)

	_, err = paperRepo.UpdatePapers(context.Background(), paper)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeletePapers(t *testing.T) {
	paperRepo, annotationRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	now := time.Now().UTC().Add(-time.Hour)

	added, err := paperRepo.AddPapers(ctx, newTestPaper("2502.10245v1", now))
	require.NoError(t, err)

	err = paperRepo.DeletePapers(ctx, added[0].Id)
	require.NoError(t, err)

	_, err = paperRepo.GetPaper(ctx, added[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = paperRepo.GetPaperByArxivId(ctx, "2502.10245v1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetPapersByDateRange(t *testing.T) {
	paperRepo, annotationRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err = paperRepo.AddPapers(ctx,
		newTestPaper("2501.00001v1", base.AddDate(0, 0, -10)),
		newTestPaper("2502.00002v1", base.AddDate(0, 0, 1)),
		newTestPaper("2502.00003v1", base.AddDate(0, 0, 2)),
	)
	require.NoError(t, err)

	results, err := paperRepo.GetPapersByDateRange(ctx, base, base.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "2502.00002v1", results[0].ArxivId)
	assert.Equal(t, "2502.00003v1", results[1].ArxivId)
}

func TestGetRecentPapers(t *testing.T) {
	paperRepo, annotationRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err = paperRepo.AddPapers(ctx,
		newTestPaper("2502.00001v1", base),
		newTestPaper("2502.00002v1", base.AddDate(0, 0, 1)),
		newTestPaper("2502.00003v1", base.AddDate(0, 0, 2)),
	)
	require.NoError(t, err)

	results, err := paperRepo.GetRecentPapers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Most recent first
	assert.Equal(t, "2502.00003v1", results[0].ArxivId)
	assert.Equal(t, "2502.00002v1", results[1].ArxivId)
}

func TestGetAllPapers(t *testing.T) {
	paperRepo, annotationRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	all, err := paperRepo.GetAllPapers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = paperRepo.AddPapers(ctx,
		newTestPaper("2502.00001v1", base),
		newTestPaper("2502.00002v1", base.AddDate(0, 0, 1)),
		newTestPaper("2502.00003v1", base.AddDate(0, 0, 2)),
	)
	require.NoError(t, err)

	all, err = paperRepo.GetAllPapers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	ids := make(map[string]bool)
	for _, p := range all {
		ids[p.ArxivId] = true
	}
	assert.Len(t, ids, 3)
}

func TestGetRecentPapers_ZeroPublished(t *testing.T) {
	paperRepo, annotationRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	undated := newTestPaper("2502.00001v1", time.Time{})
	dated := newTestPaper("2502.00002v1", time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC))
	_, err = paperRepo.AddPapers(ctx, undated, dated)
	require.NoError(t, err)

	// A paper without a publication date stays out of the date index.
	recent, err := paperRepo.GetRecentPapers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "2502.00002v1", recent[0].ArxivId)

	// It is still reachable through the other access paths.
	got, err := paperRepo.GetPaperByArxivId(ctx, "2502.00001v1")
	require.NoError(t, err)
	assert.Equal(t, "2502.00001v1", got.ArxivId)

	all, err := paperRepo.GetAllPapers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeletePapers_ZeroPublished(t *testing.T) {
	paperRepo, annotationRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	added, err := paperRepo.AddPapers(ctx, newTestPaper("2502.00001v1", time.Time{}))
	require.NoError(t, err)

	require.NoError(t, paperRepo.DeletePapers(ctx, added[0].Id))

	_, err = paperRepo.GetPaperByArxivId(ctx, "2502.00001v1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddPapers_Invalid(t *testing.T) {
	paperRepo, annotationRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		annotationRepo.Close()
		paperRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	paper := newTestPaper("2502.10245v1", time.Now().UTC().Add(-time.Hour))
	paper.Title = ""
	_, err = paperRepo.AddPapers(ctx, paper)
	assert.ErrorIs(t, err, core.ErrInvalidPaper)

	// nothing was written
	_, err = paperRepo.GetPaperByArxivId(ctx, "2502.10245v1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
