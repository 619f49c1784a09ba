package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/ragxiv/ragxiv/core"
	"github.com/ragxiv/ragxiv/storage"
)

// AnnotationRepository implements storage.AnnotationRepository for BadgerDB.
type AnnotationRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.AnnotationRepository = (*AnnotationRepository)(nil)

// NewAnnotationRepository creates a new AnnotationRepository.
func NewAnnotationRepository(backend *Backend) (*AnnotationRepository, error) {
	idSeq, err := backend.GetSequence(annotationIDSeq)
	if err != nil {
		return nil, err
	}

	return &AnnotationRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *AnnotationRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *AnnotationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddAnnotations adds one or more annotations to storage.
func (r *AnnotationRepository) AddAnnotations(ctx context.Context, annotations ...*core.Annotation) ([]*core.Annotation, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, annotation := range annotations {
			if err := core.ValidateAnnotation(annotation); err != nil {
				return err
			}

			// Always generate new ID from sequence
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			annotation.Id = core.ID(nextID)

			if annotation.CreatedAt.IsZero() {
				annotation.CreatedAt = time.Now().UTC()
			}

			// Store primary record
			key := makeAnnotationKey(annotation.Id)
			value := storage.MarshalAnnotation(annotation)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update per-paper index
			paperKey := makeAnnotationPaperKey(annotation.PaperId, annotation.Id)
			if err := tx.Set(paperKey, storage.MarshalID(annotation.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return annotations, err
}

// DeleteAnnotations removes annotations by their IDs.
func (r *AnnotationRepository) DeleteAnnotations(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeAnnotationKey(id)

			// Read record to get metadata for index cleanup
			annotation, err := r.readAnnotation(tx, key)
			if err != nil {
				return err
			}
			if annotation == nil {
				return storage.ErrNotFound
			}

			// Delete from per-paper index
			paperKey := makeAnnotationPaperKey(annotation.PaperId, annotation.Id)
			if err := tx.Delete(paperKey); err != nil {
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

// GetAnnotation retrieves a single annotation by ID.
func (r *AnnotationRepository) GetAnnotation(ctx context.Context, id core.ID) (*core.Annotation, error) {
	var result *core.Annotation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeAnnotationKey(id)
		var err error
		result, err = r.readAnnotation(tx, key)
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

// GetAnnotationsByPaper retrieves all annotations recorded for a paper.
func (r *AnnotationRepository) GetAnnotationsByPaper(ctx context.Context, paperID core.ID) ([]*core.Annotation, error) {
	var results []*core.Annotation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialAnnotationPaperKey(paperID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			// Read the ID from the index
			var annotationID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				annotationID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			annotation, err := r.readAnnotation(tx, makeAnnotationKey(annotationID))
			if err != nil {
				return err
			}
			if annotation != nil {
				results = append(results, annotation)
			}
		}
		return nil
	}, false)

	return results, err
}

// readAnnotation reads and unmarshals an annotation, returning nil if absent.
func (r *AnnotationRepository) readAnnotation(tx *badger.Txn, key []byte) (*core.Annotation, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var annotation *core.Annotation
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		annotation, unmarshalErr = storage.UnmarshalAnnotation(val)
		return unmarshalErr
	})
	return annotation, err
}
