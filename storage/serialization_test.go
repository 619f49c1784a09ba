package storage

import (
	"testing"
	"time"

	"github.com/ragxiv/ragxiv/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.PaperID("2502.10245v1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestMarshalUnmarshalPaper(t *testing.T) {
	published := time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)
	paper := &core.Paper{
		Id:      core.PaperID("2502.10245v1"),
		ArxivId: "2502.10245v1",
		Url:     "http://arxiv.org/abs/2502.10245v1",
		PdfUrl:  "http://arxiv.org/pdf/2502.10245v1",
		Title:   "A paper title",
		Summary: "The abstract.",
		Authors: []core.Author{
			{Name: "A. Author", Affiliation: "Some University"},
		},
		Comment:    "10 pages, 4 figures",
		Pages:      10,
		Figures:    4,
		Categories: []string{"cond-mat.str-el"},
		Text:       "Extracted text.",
		Published:  published,
		Updated:    published,
		InsertedAt: published.Add(time.Hour),
		UpdatedAt:  published.Add(time.Hour),
	}

	data := MarshalPaper(paper)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalPaper(data)
	require.NoError(t, err)
	assert.Equal(t, paper, decoded)
}

func TestUnmarshalPaper_Truncated(t *testing.T) {
	paper := &core.Paper{
		ArxivId: "2502.10245v1",
		Title:   "Title",
		Summary: "Summary",
	}

	data := MarshalPaper(paper)
	_, err := UnmarshalPaper(data[:len(data)/2])
	assert.Error(t, err)
}

func TestMarshalUnmarshalAnnotation(t *testing.T) {
	annotation := &core.Annotation{
		Id:             7,
		PaperId:        core.PaperID("2502.10245v1"),
		Query:          "material",
		RetrieverModel: "all-minilm",
		GeneratorModel: "llama3.1:70b",
		TopChunks:      5,
		Answer:         "model",
		CreatedAt:      time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}

	data := MarshalAnnotation(annotation)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalAnnotation(data)
	require.NoError(t, err)
	assert.Equal(t, annotation, decoded)
}
