// Package arxiv provides a client for the arXiv Atom API.
//
// The client fetches recent paper metadata for a category, parses the
// Atom feed into core.Paper records, and downloads the PDF for a paper.
// Feed entries that the API reports as errors, or that lack an abstract
// or a usable identifier, are skipped rather than failing the whole
// request.
package arxiv
