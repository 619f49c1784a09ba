package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidatePaper(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	futureTime := time.Now().Add(1 * time.Hour)

	valid := func() *Paper {
		return &Paper{
			Id:        PaperID("2502.10245v1"),
			ArxivId:   "2502.10245v1",
			Url:       "http://arxiv.org/abs/2502.10245v1",
			PdfUrl:    "http://arxiv.org/pdf/2502.10245v1",
			Title:     "A paper title",
			Summary:   "The abstract.",
			Published: validTime,
			Updated:   validTime,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Paper)
		wantErr error
	}{
		{
			name:    "valid paper",
			mutate:  func(p *Paper) {},
			wantErr: nil,
		},
		{
			name:    "valid paper without text",
			mutate:  func(p *Paper) { p.Text = "" },
			wantErr: nil,
		},
		{
			name:    "valid paper without page counts",
			mutate:  func(p *Paper) { p.Pages = 0; p.Figures = 0 },
			wantErr: nil,
		},
		{
			name:    "empty arxiv id",
			mutate:  func(p *Paper) { p.ArxivId = "" },
			wantErr: ErrEmptyArxivId,
		},
		{
			name:    "empty title",
			mutate:  func(p *Paper) { p.Title = "" },
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "empty summary",
			mutate:  func(p *Paper) { p.Summary = "" },
			wantErr: ErrEmptySummary,
		},
		{
			name:    "future published date",
			mutate:  func(p *Paper) { p.Published = futureTime },
			wantErr: ErrInvalidTimestamp,
		},
		{
			name:    "future updated date",
			mutate:  func(p *Paper) { p.Updated = futureTime },
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paper := valid()
			tt.mutate(paper)

			err := ValidatePaper(paper)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePaper() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePaper() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidPaper) {
				t.Errorf("ValidatePaper() error %v does not wrap ErrInvalidPaper", err)
			}
		})
	}
}

func TestValidatePaper_Nil(t *testing.T) {
	if err := ValidatePaper(nil); !errors.Is(err, ErrInvalidPaper) {
		t.Errorf("ValidatePaper(nil) error = %v, want ErrInvalidPaper", err)
	}
}

func TestValidateAnnotation(t *testing.T) {
	tests := []struct {
		name       string
		annotation *Annotation
		wantErr    error
	}{
		{
			name: "valid annotation",
			annotation: &Annotation{
				PaperId: PaperID("2502.10245v1"),
				Query:   "material",
				Answer:  "model",
			},
			wantErr: nil,
		},
		{
			name: "valid annotation with empty answer",
			annotation: &Annotation{
				PaperId: PaperID("2502.10245v1"),
				Query:   "methods",
			},
			wantErr: nil,
		},
		{
			name: "missing paper id",
			annotation: &Annotation{
				Query: "material",
			},
			wantErr: ErrMissingPaperId,
		},
		{
			name: "empty query",
			annotation: &Annotation{
				PaperId: PaperID("2502.10245v1"),
			},
			wantErr: ErrEmptyQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnnotation(tt.annotation)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAnnotation() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAnnotation() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAnnotation_Nil(t *testing.T) {
	if err := ValidateAnnotation(nil); !errors.Is(err, ErrInvalidAnnotation) {
		t.Errorf("ValidateAnnotation(nil) error = %v, want ErrInvalidAnnotation", err)
	}
}
