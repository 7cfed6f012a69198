package entry

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	pebblestore "github.com/pluglog/pluglog/internal/storage/pebble"
	"github.com/pluglog/pluglog/pkg/id"
)

// Sort names an entry ordering.
type Sort string

const (
	SortDate     Sort = "date"
	SortTenant   Sort = "tenant"
	SortSeverity Sort = "severity"
)

// ErrBadSort reports an unknown sort name.
var ErrBadSort = errors.New("entry: unknown sort")

// Query selects and orders entries.
//
// Tenant filters by the writing tenant's slug and Doc restricts to one
// document; either, both, or neither may be set. Search is a
// case-insensitive substring match on the message. Match, when non-nil, is
// an additional predicate applied after Search.
type Query struct {
	Tenant string
	Doc    id.ID
	Search string
	Match  func(Entry) bool

	Sort Sort
	Asc  bool

	// Page is 1-based. PerPage <= 0 or Unpaged returns everything.
	Page    int
	PerPage int
	Unpaged bool
}

// Result is one page of matches plus the total match count.
type Result struct {
	Entries []Entry
	Total   int
}

// Run evaluates the query. The narrowest available index is scanned: the
// document prefix when Doc is set, the author index when only Tenant is
// set, and the full entry keyspace otherwise. No matches is an empty
// result, not an error.
func (s *Store) Run(q Query) (Result, error) {
	if q.Sort == "" {
		q.Sort = SortDate
	}
	switch q.Sort {
	case SortDate, SortTenant, SortSeverity:
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrBadSort, q.Sort)
	}

	var (
		matches []Entry
		err     error
	)
	switch {
	case !q.Doc.IsZero():
		matches, err = s.scanDoc(q)
	case q.Tenant != "":
		matches, err = s.scanAuthor(q)
	default:
		matches, err = s.scanAll(q)
	}
	if err != nil {
		return Result{}, err
	}

	sortEntries(matches, q.Sort, q.Asc)

	res := Result{Entries: matches, Total: len(matches)}
	if q.Unpaged || q.PerPage <= 0 {
		return res, nil
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * q.PerPage
	if start >= len(matches) {
		res.Entries = nil
		return res, nil
	}
	end := start + q.PerPage
	if end > len(matches) {
		end = len(matches)
	}
	res.Entries = matches[start:end]
	return res, nil
}

func (q Query) accepts(e Entry) bool {
	if q.Tenant != "" && e.Tenant != q.Tenant {
		return false
	}
	if q.Search != "" && !strings.Contains(strings.ToLower(e.Message), strings.ToLower(q.Search)) {
		return false
	}
	if q.Match != nil && !q.Match(e) {
		return false
	}
	return true
}

func (s *Store) scanDoc(q Query) ([]Entry, error) {
	prefix := KeyEntryPrefix(q.Doc)
	iter, err := s.db.NewIter(iterBounds(prefix))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		e, err := decodeAt(iter.Key(), iter.Value(), prefix, q.Doc)
		if err != nil {
			continue
		}
		if q.accepts(e) {
			out = append(out, e)
		}
	}
	return out, iter.Error()
}

func (s *Store) scanAuthor(q Query) ([]Entry, error) {
	prefix := KeyAuthorPrefix(q.Tenant)
	iter, err := s.db.NewIter(iterBounds(prefix))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		entryID, err := entryIDFromKey(iter.Key(), prefix)
		if err != nil {
			continue
		}
		doc, err := id.FromBytes(iter.Value())
		if err != nil {
			continue
		}
		raw, err := s.db.Get(KeyEntry(doc, entryID))
		if err != nil {
			if errors.Is(err, pebblestore.ErrNotFound) {
				continue
			}
			return nil, err
		}
		e, err := decodeEntry(doc, entryID, raw)
		if err != nil {
			continue
		}
		if q.accepts(e) {
			out = append(out, e)
		}
	}
	return out, iter.Error()
}

func (s *Store) scanAll(q Query) ([]Entry, error) {
	prefix := KeyEntryScanAll()
	iter, err := s.db.NewIter(iterBounds(prefix))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		// e/{doc16}/{entry16}
		if len(key) != len(prefix)+33 {
			continue
		}
		doc, err := id.FromBytes(key[len(prefix) : len(prefix)+16])
		if err != nil {
			continue
		}
		entryID, err := id.FromBytes(key[len(prefix)+17:])
		if err != nil {
			continue
		}
		e, err := decodeEntry(doc, entryID, iter.Value())
		if err != nil {
			continue
		}
		if q.accepts(e) {
			out = append(out, e)
		}
	}
	return out, iter.Error()
}

func decodeAt(key, val, prefix []byte, doc id.ID) (Entry, error) {
	entryID, err := entryIDFromKey(key, prefix)
	if err != nil {
		return Entry{}, err
	}
	return decodeEntry(doc, entryID, val)
}

func decodeEntry(doc, entryID id.ID, raw []byte) (Entry, error) {
	h, msg, err := DecodeRecord(raw)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		ID:       entryID,
		Doc:      doc,
		Tenant:   h.Tenant,
		Severity: h.Severity,
		TsMs:     h.TsMs,
		Message:  msg,
	}, nil
}

// sortEntries orders entries by the requested key, breaking ties by entry
// ID so ordering stays stable across runs.
func sortEntries(entries []Entry, by Sort, asc bool) {
	less := func(a, b Entry) bool {
		switch by {
		case SortTenant:
			if a.Tenant != b.Tenant {
				return a.Tenant < b.Tenant
			}
		case SortSeverity:
			if a.Severity != b.Severity {
				return a.Severity < b.Severity
			}
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	}
	sort.Slice(entries, func(i, j int) bool {
		if asc {
			return less(entries[i], entries[j])
		}
		return less(entries[j], entries[i])
	})
}
