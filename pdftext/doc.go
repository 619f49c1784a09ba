// Package pdftext extracts and normalizes plain text from arXiv PDFs.
//
// Extraction uses ledongthuc/pdf (pure Go, no CGO). The cleaning
// helpers remove the references section, de-hyphenate line breaks,
// strip arXiv identifiers, and collapse whitespace so the text chunks
// cleanly for embedding.
package pdftext
