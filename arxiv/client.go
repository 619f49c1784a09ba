// Copyright 2025 The ragxiv Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package arxiv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ragxiv/ragxiv/core"
)

const (
	// DefaultBaseURL is the arXiv Atom API query endpoint.
	DefaultBaseURL = "https://export.arxiv.org/api/query"

	// DefaultCategory is the category queried when none is given.
	DefaultCategory = "cond-mat.str-el"

	// DefaultMaxResults is the page size used when none is given.
	DefaultMaxResults = 5

	defaultTimeout = 60 * time.Second
)

// Client fetches paper metadata and PDFs from arXiv.
// The zero value is not usable; use NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Atom API endpoint. Used by tests to point
// the client at a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates an arXiv API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default().With("component", "arxiv-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRecent queries the arXiv API for the most recently submitted
// papers in a category and returns them as core.Paper records, newest
// first. Malformed feed entries are skipped and logged.
func (c *Client) FetchRecent(ctx context.Context, category string, maxResults int) ([]*core.Paper, error) {
	if category == "" {
		category = DefaultCategory
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	query := url.Values{}
	query.Set("search_query", "cat:"+category)
	query.Set("start", "0")
	query.Set("max_results", fmt.Sprintf("%d", maxResults))
	query.Set("sortBy", "submittedDate")
	query.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query arxiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http %s", ErrAPIRequest, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	papers, err := parseFeed(body, c.logger)
	if err != nil {
		return nil, err
	}

	c.logger.Info("fetched papers from arxiv",
		"category", category,
		"requested", maxResults,
		"returned", len(papers))
	return papers, nil
}

// DownloadPDF retrieves the PDF for a paper and returns its raw bytes.
func (c *Client) DownloadPDF(ctx context.Context, paper *core.Paper) ([]byte, error) {
	if paper.PdfUrl == "" {
		return nil, fmt.Errorf("%w: paper %s has no pdf url", ErrDownloadFailed, paper.ArxivId)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, paper.PdfUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http %s", ErrDownloadFailed, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	c.logger.Debug("downloaded pdf", "arxiv_id", paper.ArxivId, "bytes", len(data))
	return data, nil
}
