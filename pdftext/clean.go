package pdftext

import (
	"regexp"
	"strings"
)

var (
	// Section markers that open and close a references block.
	referencesStartRe = regexp.MustCompile(`(?i)(?:\nReferences\n|\nBibliography\n|\n\[1\] *[A-Z])`)
	referencesEndRe   = regexp.MustCompile(`(?i)(?:\nSupplemental Material[:\n]*|\nSupplemental Information[:\n]*|\nAppendices[:\n]*)`)

	hyphenBreakRe = regexp.MustCompile(`-\s*\n\s*`)
	multiNewline  = regexp.MustCompile(`\n{2,}`)
	arxivIDRe     = regexp.MustCompile(`arXiv:\d{4}\.\d{4,5}(v\d+)?`)
	spacesTabsRe  = regexp.MustCompile(`[ \t]+`)
	indentRe      = regexp.MustCompile(`\n[ \t]+`)
	newlinesRe    = regexp.MustCompile(`\n+`)
)

// StripReferences drops the references section from extracted text.
// When a supplemental section follows the references, the text after it
// is kept. Must run before Clean, which flattens the newlines the
// section markers depend on.
func StripReferences(text string) string {
	start := referencesStartRe.FindStringIndex(text)
	if start == nil {
		return text
	}
	end := referencesEndRe.FindStringIndex(text)
	if end != nil && end[0] > start[0] {
		return text[:start[0]] + text[end[0]:]
	}
	return text[:start[0]]
}

// Clean normalizes extracted PDF text: joins hyphenated line breaks,
// removes arXiv identifiers, collapses runs of whitespace, and flattens
// newlines into spaces.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	// "super-\nconductivity" -> "superconductivity"
	text = hyphenBreakRe.ReplaceAllString(text, "")
	text = multiNewline.ReplaceAllString(text, "\n\n")
	text = arxivIDRe.ReplaceAllString(text, "")
	text = spacesTabsRe.ReplaceAllString(text, " ")
	text = indentRe.ReplaceAllString(text, "\n")
	text = newlinesRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
