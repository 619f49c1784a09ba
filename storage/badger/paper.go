package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/ragxiv/ragxiv/core"
	"github.com/ragxiv/ragxiv/storage"
)

// PaperRepository implements storage.PaperRepository for BadgerDB.
type PaperRepository struct {
	backend *Backend
}

var _ storage.PaperRepository = (*PaperRepository)(nil)

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(backend *Backend) (*PaperRepository, error) {
	return &PaperRepository{
		backend: backend,
	}, nil
}

// Close releases resources held by the repository.
func (r *PaperRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *PaperRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddPapers adds one or more papers to storage.
func (r *PaperRepository) AddPapers(ctx context.Context, papers ...*core.Paper) ([]*core.Paper, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, paper := range papers {
			if err := core.ValidatePaper(paper); err != nil {
				return err
			}

			// Content-based ID from the arXiv identifier
			paper.Id = core.PaperID(paper.ArxivId)

			// Reject duplicates through the arXiv id index
			arxivKey := makePaperArxivIdKey(paper.ArxivId)
			if _, err := tx.Get(arxivKey); err == nil {
				return storage.ErrDuplicateKey
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			paper.InsertedAt = time.Now().UTC()
			paper.UpdatedAt = paper.InsertedAt

			// Store primary record
			key := makePaperKey(paper.Id)
			value := storage.MarshalPaper(paper)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update arXiv id index
			if err := tx.Set(arxivKey, storage.MarshalID(paper.Id)); err != nil {
				return err
			}

			// Update publication date index. Papers without a
			// publication date stay out of the index; they remain
			// reachable through the primary record and the arXiv
			// id index.
			if !paper.Published.IsZero() {
				dateKey := makePaperDateKey(paper.Published, paper.Id)
				if err := tx.Set(dateKey, storage.MarshalID(paper.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return papers, err
}

// UpdatePapers updates existing papers.
func (r *PaperRepository) UpdatePapers(ctx context.Context, papers ...*core.Paper) ([]*core.Paper, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, paper := range papers {
			key := makePaperKey(paper.Id)

			// Read old record to detect changes
			old, err := r.readPaper(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// Update timestamp
			paper.UpdatedAt = time.Now().UTC()
			paper.InsertedAt = old.InsertedAt

			// Store updated record
			value := storage.MarshalPaper(paper)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update date index if publication date changed
			if !old.Published.Equal(paper.Published) {
				if !old.Published.IsZero() {
					oldDateKey := makePaperDateKey(old.Published, old.Id)
					if err := tx.Delete(oldDateKey); err != nil {
						return err
					}
				}
				if !paper.Published.IsZero() {
					newDateKey := makePaperDateKey(paper.Published, paper.Id)
					if err := tx.Set(newDateKey, storage.MarshalID(paper.Id)); err != nil {
						return err
					}
				}
			}
		}
		return tx.Commit()
	}, true)

	return papers, err
}

// DeletePapers removes papers by their IDs.
func (r *PaperRepository) DeletePapers(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePaperKey(id)

			// Read record to get metadata for index cleanup
			paper, err := r.readPaper(tx, key)
			if err != nil {
				return err
			}
			if paper == nil {
				return storage.ErrNotFound
			}

			// Delete from date index
			if !paper.Published.IsZero() {
				dateKey := makePaperDateKey(paper.Published, paper.Id)
				if err := tx.Delete(dateKey); err != nil {
					return err
				}
			}

			// Delete from arXiv id index
			if err := tx.Delete(makePaperArxivIdKey(paper.ArxivId)); err != nil {
				return err
			}

			// Delete primary record
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetPaper retrieves a single paper by ID.
func (r *PaperRepository) GetPaper(ctx context.Context, id core.ID) (*core.Paper, error) {
	var result *core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makePaperKey(id)
		var err error
		result, err = r.readPaper(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetPaperByArxivId retrieves a single paper by its arXiv identifier.
func (r *PaperRepository) GetPaperByArxivId(ctx context.Context, arxivID string) (*core.Paper, error) {
	var result *core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makePaperArxivIdKey(arxivID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var paperID core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			paperID, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = r.readPaper(tx, makePaperKey(paperID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetPapers retrieves multiple papers by their IDs.
func (r *PaperRepository) GetPapers(ctx context.Context, ids ...core.ID) ([]*core.Paper, error) {
	var result []*core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makePaperKey(id)
			paper, err := r.readPaper(tx, key)
			if err != nil {
				return err
			}
			if paper != nil {
				result = append(result, paper)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetPapersByDateRange retrieves papers within a publication time range.
func (r *PaperRepository) GetPapersByDateRange(ctx context.Context, start, end time.Time) ([]*core.Paper, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialPaperDateKey(start)
		endKey := makePartialPaperDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
				break
			}

			// Read the ID from the index
			var paperID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				paperID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			paper, err := r.readPaper(tx, makePaperKey(paperID))
			if err != nil {
				return err
			}
			if paper != nil {
				results = append(results, paper)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecentPapers retrieves the N most recently published papers.
func (r *PaperRepository) GetRecentPapers(ctx context.Context, limit int) ([]*core.Paper, error) {
	var results []*core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent papers first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible key of the date index
		startKey := makePartialPaperDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))

		prefix := []byte(paperDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()

			// Check if we're still in the date index
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			// Read the ID from the index
			var paperID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				paperID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			paper, err := r.readPaper(tx, makePaperKey(paperID))
			if err != nil {
				return err
			}
			if paper != nil {
				results = append(results, paper)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// GetAllPapers retrieves every stored paper by scanning the primary
// record keyspace. Order follows the record keys, not publication date.
func (r *PaperRepository) GetAllPapers(ctx context.Context) ([]*core.Paper, error) {
	var results []*core.Paper
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(paperRecordPrefix + ":")

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var paper *core.Paper
			if err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				paper, unmarshalErr = storage.UnmarshalPaper(val)
				return unmarshalErr
			}); err != nil {
				return err
			}
			results = append(results, paper)
		}
		return nil
	}, false)

	return results, err
}

// readPaper reads and unmarshals a paper, returning nil if the key is absent.
func (r *PaperRepository) readPaper(tx *badger.Txn, key []byte) (*core.Paper, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var paper *core.Paper
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		paper, unmarshalErr = storage.UnmarshalPaper(val)
		return unmarshalErr
	})
	return paper, err
}
