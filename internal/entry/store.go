package entry

import (
	"context"
	"errors"
	"sync"
	"time"

	pebblestore "github.com/pluglog/pluglog/internal/storage/pebble"
	"github.com/pluglog/pluglog/pkg/id"
)

// Store writes and reads entry records for all documents.
type Store struct {
	db  *pebblestore.DB
	gen *id.Generator

	mu       sync.Mutex
	notifyCh chan struct{}
}

// NewStore builds a Store over an open database.
func NewStore(db *pebblestore.DB, gen *id.Generator) *Store {
	return &Store{db: db, gen: gen, notifyCh: make(chan struct{})}
}

// Append writes one entry under the document and its author index row in a
// single atomic batch. The entry ID carries the assigned timestamp.
func (s *Store) Append(ctx context.Context, doc id.ID, tenantSlug string, severity int, message string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID := s.gen.Next()
	h := Header{Tenant: tenantSlug, Severity: severity, TsMs: entryID.TimeMs()}
	val, err := EncodeRecord(h, message)
	if err != nil {
		return Entry{}, err
	}

	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(KeyEntry(doc, entryID), val, nil); err != nil {
		return Entry{}, err
	}
	if err := b.Set(KeyAuthor(tenantSlug, entryID), doc[:], nil); err != nil {
		return Entry{}, err
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return Entry{}, err
	}

	// notify waiters
	close(s.notifyCh)
	s.notifyCh = make(chan struct{})

	return Entry{
		ID:       entryID,
		Doc:      doc,
		Tenant:   tenantSlug,
		Severity: severity,
		TsMs:     h.TsMs,
		Message:  message,
	}, nil
}

// WaitForAppend blocks until a new entry is written anywhere or the timeout
// elapses. Returns true when woken by an append.
func (s *Store) WaitForAppend(timeout time.Duration) bool {
	s.mu.Lock()
	ch := s.notifyCh
	s.mu.Unlock()
	if timeout <= 0 {
		<-ch
		return true
	}
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Count returns the number of entries stored under a document.
func (s *Store) Count(doc id.ID) (int, error) {
	prefix := KeyEntryPrefix(doc)
	iter, err := s.db.NewIter(iterBounds(prefix))
	if err != nil {
		return 0, err
	}
	defer iter.Close()
	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}

// Delete removes the listed entries of a document along with their author
// index rows in one atomic batch. Unknown IDs are skipped; the count reports
// what was actually removed.
func (s *Store) Delete(ctx context.Context, doc id.ID, ids []id.ID) (int, error) {
	b := s.db.NewBatch()
	defer b.Close()
	deleted := 0
	for _, entryID := range ids {
		key := KeyEntry(doc, entryID)
		raw, err := s.db.Get(key)
		if err != nil {
			if errors.Is(err, pebblestore.ErrNotFound) {
				continue
			}
			return 0, err
		}
		if err := b.Delete(key, nil); err != nil {
			return 0, err
		}
		// the author index is keyed by the writing tenant, which may differ
		// from the document's owner
		if h, _, err := DecodeRecord(raw); err == nil {
			if err := b.Delete(KeyAuthor(h.Tenant, entryID), nil); err != nil {
				return 0, err
			}
		}
		deleted++
	}
	if deleted == 0 {
		return 0, nil
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return 0, err
	}
	return deleted, nil
}

// DeleteDoc removes every entry of a document along with the matching author
// index rows, and returns the number of entries removed. The author rows are
// dropped first in one batch; the entry range itself goes in a single range
// delete.
func (s *Store) DeleteDoc(ctx context.Context, doc id.ID) (int, error) {
	prefix := KeyEntryPrefix(doc)
	iter, err := s.db.NewIter(iterBounds(prefix))
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	b := s.db.NewBatch()
	defer b.Close()
	deleted := 0
	for iter.First(); iter.Valid(); iter.Next() {
		entryID, err := entryIDFromKey(iter.Key(), prefix)
		if err != nil {
			return deleted, err
		}
		// the author index is keyed by the writing tenant, which may differ
		// from the document's owner
		if h, _, err := DecodeRecord(iter.Value()); err == nil {
			if err := b.Delete(KeyAuthor(h.Tenant, entryID), nil); err != nil {
				return deleted, err
			}
		}
		deleted++
	}
	if err := iter.Error(); err != nil {
		return deleted, err
	}
	if deleted == 0 {
		return 0, nil
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return 0, err
	}
	bounds := iterBounds(prefix)
	if err := s.db.DeleteRange(ctx, bounds.LowerBound, bounds.UpperBound); err != nil {
		return deleted, err
	}
	return deleted, nil
}
