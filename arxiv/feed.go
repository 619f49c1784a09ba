package arxiv

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ragxiv/ragxiv/core"
)

// Atom feed structures for the arXiv API response.

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Id         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
	Comment    string         `xml:"comment"`
	Published  string         `xml:"published"`
	Updated    string         `xml:"updated"`
}

type atomAuthor struct {
	Name        string `xml:"name"`
	Affiliation string `xml:"affiliation"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// pagesFiguresRe matches comments like "10 pages, 4 figures".
var pagesFiguresRe = regexp.MustCompile(`(\d+) *pages*, *(\d+) *figures*`)

// parseFeed decodes an Atom response into paper records, dropping
// entries the API flags as errors or that are missing required fields.
func parseFeed(data []byte, logger *slog.Logger) ([]*core.Paper, error) {
	var feed atomFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	papers := make([]*core.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		paper, err := parseEntry(entry)
		if err != nil {
			logger.Warn("skipping feed entry", "error", err, "entry_id", entry.Id)
			continue
		}
		papers = append(papers, paper)
	}
	return papers, nil
}

func parseEntry(entry atomEntry) (*core.Paper, error) {
	// The API reports per-entry failures as entries titled "Error".
	if strings.Contains(entry.Title, "Error") {
		return nil, fmt.Errorf("api error entry")
	}
	if entry.Id == "" || !strings.Contains(entry.Id, "arxiv.org") {
		return nil, fmt.Errorf("no valid url id: %q", entry.Id)
	}
	if strings.TrimSpace(entry.Summary) == "" {
		return nil, fmt.Errorf("missing summary")
	}

	arxivID := arxivIDFromURL(entry.Id)
	pages, figures := parsePagesAndFigures(entry.Comment)

	authors := make([]core.Author, 0, len(entry.Authors))
	for _, a := range entry.Authors {
		authors = append(authors, core.Author{
			Name:        a.Name,
			Affiliation: a.Affiliation,
		})
	}

	categories := make([]string, 0, len(entry.Categories))
	for _, cat := range entry.Categories {
		categories = append(categories, cat.Term)
	}

	paper := &core.Paper{
		ArxivId:    arxivID,
		Url:        entry.Id,
		PdfUrl:     strings.Replace(entry.Id, "/abs/", "/pdf/", 1),
		Title:      strings.TrimSpace(entry.Title),
		Summary:    strings.TrimSpace(entry.Summary),
		Authors:    authors,
		Comment:    entry.Comment,
		Pages:      pages,
		Figures:    figures,
		Categories: categories,
	}

	published, err := time.Parse(time.RFC3339, entry.Published)
	if err != nil {
		return nil, fmt.Errorf("bad published date %q: %v", entry.Published, err)
	}
	updated, err := time.Parse(time.RFC3339, entry.Updated)
	if err != nil {
		return nil, fmt.Errorf("bad updated date %q: %v", entry.Updated, err)
	}
	paper.Published = published
	paper.Updated = updated

	return paper, nil
}

// arxivIDFromURL extracts the versioned identifier from an abstract URL,
// e.g. "http://arxiv.org/abs/2502.10245v1" -> "2502.10245v1".
func arxivIDFromURL(u string) string {
	id := u
	if idx := strings.LastIndex(u, "/"); idx >= 0 {
		id = u[idx+1:]
	}
	return strings.TrimSuffix(id, ".pdf")
}

// parsePagesAndFigures pulls page and figure counts out of the free-form
// comment field. Returns zeros when the comment doesn't carry them.
func parsePagesAndFigures(comment string) (int, int) {
	match := pagesFiguresRe.FindStringSubmatch(comment)
	if match == nil {
		return 0, 0
	}
	pages, _ := strconv.Atoi(match[1])
	figures, _ := strconv.Atoi(match[2])
	return pages, figures
}
