package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperMUS_RoundTrip(t *testing.T) {
	published := time.Date(2025, 2, 14, 12, 30, 0, 0, time.UTC)
	paper := Paper{
		Id:      PaperID("2502.10245v1"),
		ArxivId: "2502.10245v1",
		Url:     "http://arxiv.org/abs/2502.10245v1",
		PdfUrl:  "http://arxiv.org/pdf/2502.10245v1",
		Title:   "Strange metallicity in a kagome lattice",
		Summary: "We study a kagome lattice model.",
		Authors: []Author{
			{Name: "A. Author", Affiliation: "Some University"},
			{Name: "B. Author"},
		},
		Comment:    "12 pages, 5 figures",
		Pages:      12,
		Figures:    5,
		Categories: []string{"cond-mat.str-el", "cond-mat.mtrl-sci"},
		Text:       "Cleaned full text of the paper.",
		Published:  published,
		Updated:    published.Add(24 * time.Hour),
		InsertedAt: published.Add(48 * time.Hour),
		UpdatedAt:  published.Add(48 * time.Hour),
	}

	buf := make([]byte, PaperMUS.Size(paper))
	n := PaperMUS.Marshal(paper, buf)
	require.Equal(t, len(buf), n)

	got, n, err := PaperMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, paper, got)
}

func TestPaperMUS_EmptySlices(t *testing.T) {
	paper := Paper{
		ArxivId: "2502.10245v1",
		Title:   "Title",
		Summary: "Summary",
	}

	buf := make([]byte, PaperMUS.Size(paper))
	PaperMUS.Marshal(paper, buf)

	got, _, err := PaperMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Nil(t, got.Authors)
	assert.Nil(t, got.Categories)
	assert.Equal(t, paper.ArxivId, got.ArxivId)
}

func TestPaperMUS_Truncated(t *testing.T) {
	paper := Paper{ArxivId: "2502.10245v1", Title: "Title", Summary: "Summary"}

	buf := make([]byte, PaperMUS.Size(paper))
	PaperMUS.Marshal(paper, buf)

	_, _, err := PaperMUS.Unmarshal(buf[:len(buf)/2])
	assert.Error(t, err)
}

func TestAnnotationMUS_RoundTrip(t *testing.T) {
	annotation := Annotation{
		Id:             42,
		PaperId:        PaperID("2502.10245v1"),
		Query:          "methods",
		RetrieverModel: "all-minilm",
		GeneratorModel: "llama3.1:70b",
		TopChunks:      5,
		Answer:         `[{"name": "Density Functional Theory", "acronym": "DFT"}]`,
		Methods: []Method{
			{Name: "Density Functional Theory", Acronym: "DFT"},
		},
		CreatedAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}

	buf := make([]byte, AnnotationMUS.Size(annotation))
	n := AnnotationMUS.Marshal(annotation, buf)
	require.Equal(t, len(buf), n)

	got, _, err := AnnotationMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, annotation, got)
}

func TestTimeMUS_MicrosecondPrecision(t *testing.T) {
	// Sub-microsecond precision is dropped by the encoding.
	ts := time.Date(2025, 2, 14, 12, 30, 0, 123456789, time.UTC)

	buf := make([]byte, TimeMUS.Size(ts))
	TimeMUS.Marshal(ts, buf)

	got, _, err := TimeMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, ts.Truncate(time.Microsecond), got)
}
