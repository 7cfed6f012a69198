package logdir

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/cockroachdb/pebble"

	islug "github.com/pluglog/pluglog/internal/slug"
	pebblestore "github.com/pluglog/pluglog/internal/storage/pebble"
	"github.com/pluglog/pluglog/internal/tenant"
	"github.com/pluglog/pluglog/pkg/id"
)

// ErrNotSession is returned when a session operation targets a plain log.
var ErrNotSession = errors.New("logdir: document is not a session")

// ErrUnknownDoc is returned when a document ID does not resolve.
var ErrUnknownDoc = errors.New("logdir: unknown document")

// Doc is the metadata record for a log or a session.
// A session has a non-zero Parent pointing at its log.
type Doc struct {
	ID          id.ID  `json:"-"`
	Tenant      string `json:"tenant"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Parent      id.ID  `json:"-"`
	CreatedAtMs int64  `json:"createdAtMs"`
	EndedAtMs   int64  `json:"endedAtMs,omitempty"`
}

// IsSession reports whether the document is a session.
func (d Doc) IsSession() bool { return !d.Parent.IsZero() }

// Ended reports whether a session document has been ended.
func (d Doc) Ended() bool { return d.EndedAtMs != 0 }

// docRecord is the stored form of a Doc. IDs are hex strings on disk so
// records stay inspectable with generic tooling.
type docRecord struct {
	ID          string `json:"id"`
	Tenant      string `json:"tenant"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Parent      string `json:"parent,omitempty"`
	CreatedAtMs int64  `json:"createdAtMs"`
	EndedAtMs   int64  `json:"endedAtMs,omitempty"`
}

func (d Doc) record() docRecord {
	r := docRecord{
		ID:          d.ID.String(),
		Tenant:      d.Tenant,
		Slug:        d.Slug,
		Title:       d.Title,
		CreatedAtMs: d.CreatedAtMs,
		EndedAtMs:   d.EndedAtMs,
	}
	if !d.Parent.IsZero() {
		r.Parent = d.Parent.String()
	}
	return r
}

func (r docRecord) doc() (Doc, error) {
	docID, err := id.Parse(r.ID)
	if err != nil {
		return Doc{}, fmt.Errorf("logdir: bad doc id %q: %w", r.ID, err)
	}
	d := Doc{
		ID:          docID,
		Tenant:      r.Tenant,
		Slug:        r.Slug,
		Title:       r.Title,
		CreatedAtMs: r.CreatedAtMs,
		EndedAtMs:   r.EndedAtMs,
	}
	if r.Parent != "" {
		parent, err := id.Parse(r.Parent)
		if err != nil {
			return Doc{}, fmt.Errorf("logdir: bad parent id %q: %w", r.Parent, err)
		}
		d.Parent = parent
	}
	return d, nil
}

// Directory manages log and session documents for all tenants.
type Directory struct {
	db  *pebblestore.DB
	gen *id.Generator
}

// New builds a Directory over an open store.
func New(db *pebblestore.DB, gen *id.Generator) *Directory {
	return &Directory{db: db, gen: gen}
}

// ResolveOrCreate returns the log document for (tenantName, logName),
// creating the tenant and the log as needed. The create path writes the
// document record and its slug index entry in a single atomic batch, so a
// log can never exist without its tenant binding.
func (dir *Directory) ResolveOrCreate(ctx context.Context, tenantName, logName string) (Doc, error) {
	ten, err := tenant.Ensure(dir.db, tenantName)
	if err != nil {
		return Doc{}, err
	}
	docSlug := islug.Prefixed(logName, tenantName)

	if doc, ok, err := dir.lookupSlug(ten.Slug, docSlug); err != nil {
		return Doc{}, err
	} else if ok {
		return doc, nil
	}

	docID := dir.gen.Next()
	doc := Doc{
		ID:          docID,
		Tenant:      ten.Slug,
		Slug:        docSlug,
		Title:       logName,
		CreatedAtMs: docID.TimeMs(),
	}
	if err := dir.writeDoc(ctx, doc, KeySlugIndex(ten.Slug, docSlug)); err != nil {
		return Doc{}, err
	}
	return doc, nil
}

// Lookup resolves an existing log without creating anything.
func (dir *Directory) Lookup(tenantName, logName string) (Doc, bool, error) {
	tenantSlug := islug.Normalize(tenantName)
	return dir.lookupSlug(tenantSlug, islug.Prefixed(logName, tenantName))
}

// Get loads a document by ID.
func (dir *Directory) Get(docID id.ID) (Doc, bool, error) {
	raw, err := dir.db.Get(KeyDoc(docID))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Doc{}, false, nil
		}
		return Doc{}, false, err
	}
	return decodeDoc(raw)
}

// CreateSession creates a fresh session document under the named log,
// resolving the log first. Every call produces a new session.
func (dir *Directory) CreateSession(ctx context.Context, tenantName, logName, title string) (Doc, error) {
	parent, err := dir.ResolveOrCreate(ctx, tenantName, logName)
	if err != nil {
		return Doc{}, err
	}
	sessID := dir.gen.Next()
	sess := Doc{
		ID:          sessID,
		Tenant:      parent.Tenant,
		Slug:        islug.Normalize(title),
		Title:       title,
		Parent:      parent.ID,
		CreatedAtMs: sessID.TimeMs(),
	}
	if err := dir.writeDoc(ctx, sess, KeyChild(parent.ID, sessID)); err != nil {
		return Doc{}, err
	}
	return sess, nil
}

// EndSession stamps the end time on a session document. Ending an already
// ended session is a no-op. Ending a plain log fails with ErrNotSession.
func (dir *Directory) EndSession(ctx context.Context, docID id.ID) (Doc, error) {
	doc, ok, err := dir.Get(docID)
	if err != nil {
		return Doc{}, err
	}
	if !ok {
		return Doc{}, ErrUnknownDoc
	}
	if !doc.IsSession() {
		return Doc{}, ErrNotSession
	}
	if doc.Ended() {
		return doc, nil
	}
	doc.EndedAtMs = id.NowMs()
	raw, err := json.Marshal(doc.record())
	if err != nil {
		return Doc{}, err
	}
	if err := dir.db.Set(KeyDoc(docID), raw); err != nil {
		return Doc{}, err
	}
	return doc, nil
}

// ListLogs returns a tenant's logs ordered by creation time, optionally
// with their sessions nested after each log.
func (dir *Directory) ListLogs(tenantName string, includeSessions bool) ([]Doc, error) {
	tenantSlug := islug.Normalize(tenantName)
	prefix := KeySlugIndexPrefix(tenantSlug)
	iter, err := dir.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	var logs []Doc
	for iter.First(); iter.Valid(); iter.Next() {
		docID, err := id.FromBytes(iter.Value())
		if err != nil {
			iter.Close()
			return nil, fmt.Errorf("logdir: bad slug index value: %w", err)
		}
		doc, ok, err := dir.Get(docID)
		if err != nil {
			iter.Close()
			return nil, err
		}
		if ok {
			logs = append(logs, doc)
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	sort.Slice(logs, func(i, j int) bool {
		return bytes.Compare(logs[i].ID[:], logs[j].ID[:]) < 0
	})
	if !includeSessions {
		return logs, nil
	}
	out := make([]Doc, 0, len(logs))
	for _, l := range logs {
		out = append(out, l)
		sessions, err := dir.Sessions(l.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, sessions...)
	}
	return out, nil
}

// Sessions returns the sessions of a log ordered by creation time.
func (dir *Directory) Sessions(parent id.ID) ([]Doc, error) {
	prefix := KeyChildPrefix(parent)
	iter, err := dir.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	var out []Doc
	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		childID, err := id.FromBytes(key[len(prefix):])
		if err != nil {
			iter.Close()
			return nil, fmt.Errorf("logdir: bad child index key: %w", err)
		}
		doc, ok, err := dir.Get(childID)
		if err != nil {
			iter.Close()
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

// PurgeAll removes every log and session document belonging to the tenant,
// along with their index entries, and returns the removed documents so the
// caller can cascade entry deletion. The tenant record itself is kept.
func (dir *Directory) PurgeAll(ctx context.Context, tenantName string) ([]Doc, error) {
	docs, err := dir.ListLogs(tenantName, true)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	tenantSlug := islug.Normalize(tenantName)
	batch := dir.db.NewBatch()
	defer batch.Close()
	for _, d := range docs {
		if err := batch.Delete(KeyDoc(d.ID), nil); err != nil {
			return nil, err
		}
		if d.IsSession() {
			if err := batch.Delete(KeyChild(d.Parent, d.ID), nil); err != nil {
				return nil, err
			}
		} else {
			if err := batch.Delete(KeySlugIndex(tenantSlug, d.Slug), nil); err != nil {
				return nil, err
			}
		}
	}
	if err := dir.db.CommitBatch(ctx, batch); err != nil {
		return nil, err
	}
	return docs, nil
}

// lookupSlug resolves a doc through the slug index.
func (dir *Directory) lookupSlug(tenantSlug, docSlug string) (Doc, bool, error) {
	raw, err := dir.db.Get(KeySlugIndex(tenantSlug, docSlug))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Doc{}, false, nil
		}
		return Doc{}, false, err
	}
	docID, err := id.FromBytes(raw)
	if err != nil {
		return Doc{}, false, fmt.Errorf("logdir: bad slug index value: %w", err)
	}
	return dir.Get(docID)
}

// writeDoc commits the document record plus one index entry atomically.
func (dir *Directory) writeDoc(ctx context.Context, doc Doc, indexKey []byte) error {
	raw, err := json.Marshal(doc.record())
	if err != nil {
		return err
	}
	batch := dir.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(KeyDoc(doc.ID), raw, nil); err != nil {
		return err
	}
	if err := batch.Set(indexKey, doc.ID[:], nil); err != nil {
		return err
	}
	return dir.db.CommitBatch(ctx, batch)
}

func decodeDoc(raw []byte) (Doc, bool, error) {
	var rec docRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Doc{}, false, fmt.Errorf("logdir: corrupted doc record: %w", err)
	}
	doc, err := rec.doc()
	if err != nil {
		return Doc{}, false, err
	}
	return doc, true, nil
}
