package tenant

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/pluglog/pluglog/internal/slug"
	pebblestore "github.com/pluglog/pluglog/internal/storage/pebble"
)

// Meta holds a tenant namespace record. The slug is the namespace key: every
// log and entry belonging to the tenant is scoped by it.
type Meta struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	CreatedAtMs int64  `json:"createdAtMs"`
}

var tenantPrefix = []byte("t/")

// Key builds the metadata key for a tenant slug.
func Key(tenantSlug string) []byte {
	k := make([]byte, 0, len(tenantPrefix)+len(tenantSlug))
	k = append(k, tenantPrefix...)
	k = append(k, tenantSlug...)
	return k
}

// Ensure creates a tenant namespace record if absent, returning the effective
// meta. Idempotent: an existing record is returned as-is, so two tenants whose
// names normalize to the same slug share a namespace and concurrent callers
// racing on the same slug write identical records.
func Ensure(db *pebblestore.DB, name string) (Meta, error) {
	s := slug.Normalize(name)
	key := Key(s)
	if b, err := db.Get(key); err == nil && len(b) > 0 {
		var m Meta
		if err := json.Unmarshal(b, &m); err == nil {
			return m, nil
		}
		// fallthrough to rewrite if corrupted
	}
	m := Meta{
		Name:        name,
		Slug:        s,
		CreatedAtMs: time.Now().UnixMilli(),
	}
	bytes, err := json.Marshal(m)
	if err != nil {
		return Meta{}, err
	}
	if err := db.Set(key, bytes); err != nil {
		return Meta{}, fmt.Errorf("tenant: create %q: %w", s, err)
	}
	return m, nil
}

// Get loads a tenant record by raw name. The second result is false when the
// tenant has never been referenced.
func Get(db *pebblestore.DB, name string) (Meta, bool, error) {
	b, err := db.Get(Key(slug.Normalize(name)))
	if err != nil {
		if err == pebblestore.ErrNotFound {
			return Meta{}, false, nil
		}
		return Meta{}, false, err
	}
	var m Meta
	if err := json.Unmarshal(b, &m); err != nil {
		return Meta{}, false, err
	}
	return m, true, nil
}

// Exists reports whether the tenant has ever been referenced, without
// loading its record.
func Exists(db *pebblestore.DB, name string) (bool, error) {
	return db.Has(Key(slug.Normalize(name)))
}

// List returns all tenant records ordered by name.
func List(db *pebblestore.DB) ([]Meta, error) {
	upper := append(append([]byte(nil), tenantPrefix...), 0xff)
	iter, err := db.NewIter(&pebble.IterOptions{LowerBound: tenantPrefix, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Meta
	for ok := iter.First(); ok; ok = iter.Next() {
		var m Meta
		if err := json.Unmarshal(iter.Value(), &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
