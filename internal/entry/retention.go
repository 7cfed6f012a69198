package entry

import (
	"context"
	"time"

	"github.com/pluglog/pluglog/pkg/id"
)

// EnforceCap keeps at most cap entries under the document, evicting the
// oldest first. Deletes are committed in batches of up to batchLimit keys
// with an optional throttle between commits. Returns the number of entries
// removed. A cap <= 0 disables eviction.
func (s *Store) EnforceCap(ctx context.Context, doc id.ID, cap int, batchLimit int, throttle time.Duration) (int, error) {
	if cap <= 0 {
		return 0, nil
	}
	if batchLimit <= 0 {
		batchLimit = 1024
	}

	total, err := s.Count(doc)
	if err != nil {
		return 0, err
	}
	excess := total - cap
	if excess <= 0 {
		return 0, nil
	}

	prefix := KeyEntryPrefix(doc)
	iter, err := s.db.NewIter(iterBounds(prefix))
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	deleted := 0
	for ok := iter.First(); ok && deleted < excess; {
		b := s.db.NewBatch()
		n := 0
		for ok && n < batchLimit && deleted < excess {
			entryID, err := entryIDFromKey(iter.Key(), prefix)
			if err != nil {
				b.Close()
				return deleted, err
			}
			if err := b.Delete(iter.Key(), nil); err != nil {
				b.Close()
				return deleted, err
			}
			if h, _, err := DecodeRecord(iter.Value()); err == nil {
				if err := b.Delete(KeyAuthor(h.Tenant, entryID), nil); err != nil {
					b.Close()
					return deleted, err
				}
			}
			deleted++
			n++
			ok = iter.Next()
		}
		if n > 0 {
			if err := s.db.CommitBatch(ctx, b); err != nil {
				b.Close()
				return deleted, err
			}
			b.Close()
			if throttle > 0 {
				time.Sleep(throttle)
			}
		} else {
			b.Close()
		}
	}
	return deleted, nil
}
