package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ragxiv/ragxiv/core"
)

// Key prefixes for different data types
const (
	paperRecordPrefix     = "paprec"
	paperDatePrefix       = "paprecd"
	paperArxivIdPrefix    = "paparx"
	annotationPrefix      = "annrec"
	annotationPaperPrefix = "annrecp"
	annotationIDSeq       = "annrecseq"
)

// makePaperKey generates a key for a paper by ID.
func makePaperKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", paperRecordPrefix, id))
}

// makePaperDateKey generates a composite key for the publication date index.
// Format: prefix:timestamp:id
func makePaperDateKey(published time.Time, id core.ID) []byte {
	prefix := paperDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(published.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialPaperDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialPaperDateKey(published time.Time) []byte {
	prefix := paperDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(published.UnixMicro()))
	return buf
}

// makePaperArxivIdKey generates a key for the arXiv id lookup index.
// Format: prefix:arxivID
func makePaperArxivIdKey(arxivID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", paperArxivIdPrefix, arxivID))
}

// makeAnnotationKey generates a key for an annotation by ID.
func makeAnnotationKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", annotationPrefix, id))
}

// makeAnnotationPaperKey generates a composite key for the per-paper index.
// Format: prefix:paperID:annotationID
func makeAnnotationPaperKey(paperID, annotationID core.ID) []byte {
	prefix := annotationPaperPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for paperID + 8 bytes for annotationID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(paperID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(annotationID))
	return buf
}

// makePartialAnnotationPaperKey generates a partial key for per-paper queries.
// Format: prefix:paperID
func makePartialAnnotationPaperKey(paperID core.ID) []byte {
	prefix := annotationPaperPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for paperID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(paperID))
	return buf
}
