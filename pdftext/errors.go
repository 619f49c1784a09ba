package pdftext

import "errors"

// ErrExtractFailed indicates the document could not be opened or decoded.
var ErrExtractFailed = errors.New("pdf extraction failed")
