// Package annotate runs extraction queries over stored papers.
//
// An Annotator chunks a paper's text, retrieves the chunks most
// relevant to the query, prompts the language model, parses the answer,
// and persists the run as an Annotation. Batch applies a query to every
// stored paper through a worker pool with retry and progress reporting.
package annotate
