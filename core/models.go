package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Author is a single author of a paper as reported by the arXiv feed.
type Author struct {
	Name        string
	Affiliation string
}

// Paper represents an arXiv paper together with its extracted full text.
// Text is empty until the harvest pipeline has downloaded and cleaned the PDF.
type Paper struct {
	Id         ID
	ArxivId    string // e.g. "2502.10245v1"
	Url        string // abstract page, e.g. http://arxiv.org/abs/2502.10245v1
	PdfUrl     string // http://arxiv.org/pdf/2502.10245v1
	Title      string
	Summary    string
	Authors    []Author
	Comment    string // free-form submitter comment
	Pages      int    // parsed from Comment, 0 when absent
	Figures    int    // parsed from Comment, 0 when absent
	Categories []string
	Text       string // cleaned full text extracted from the PDF
	Published  time.Time
	Updated    time.Time
	InsertedAt time.Time // When the paper was inserted into the database
	UpdatedAt  time.Time // When the paper was last updated
}

// PaperID returns the content-based ID for an arXiv identifier.
// All lookups and persistence key off this value.
func PaperID(arxivID string) ID {
	return IDFromContent(arxivID)
}

// Method is a single extracted scientific method.
type Method struct {
	Name    string // verbose name, e.g. "Density Functional Theory"
	Acronym string // short form, e.g. "DFT"
}

// Annotation records one LLM extraction run over a paper.
// Answer holds the cleaned raw answer; Methods is populated only for
// queries that return structured JSON.
type Annotation struct {
	Id             ID
	PaperId        ID
	Query          string // query registry key, e.g. "material" or "methods"
	RetrieverModel string
	GeneratorModel string
	TopChunks      int
	Answer         string
	Methods        []Method
	CreatedAt      time.Time
}

// IsModelSystem reports whether a "material" annotation classified the paper
// as studying a toy model rather than a real material.
func (a *Annotation) IsModelSystem() bool {
	return a.Query == "material" && a.Answer == "model"
}
