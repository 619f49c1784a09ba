// Package harvest fetches recent arXiv papers and stores them with
// their extracted full text.
//
// A Harvester combines the arXiv client, PDF text extraction, and the
// paper repository. Papers are downloaded and processed concurrently
// through a worker pool; per-paper failures are counted and logged but
// do not abort the run.
package harvest
