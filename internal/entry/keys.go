package entry

import (
	"github.com/cockroachdb/pebble"

	"github.com/pluglog/pluglog/pkg/id"
)

// Keyspace:
// - e/{doc16}/{entry16}        (framed entry record)
// - a/{tenantSlug}/{entry16}   (author index -> doc16)
//
// Entry IDs embed the write time, so both prefixes scan in time order.

var (
	sep         = byte('/')
	entryPrefix = []byte("e/")
	authPrefix  = []byte("a/")
)

// KeyEntry builds the entry record key under a document.
func KeyEntry(doc, entryID id.ID) []byte {
	k := make([]byte, 0, len(entryPrefix)+33)
	k = append(k, entryPrefix...)
	k = append(k, doc[:]...)
	k = append(k, sep)
	k = append(k, entryID[:]...)
	return k
}

// KeyEntryPrefix returns the scan prefix for all entries of a document.
func KeyEntryPrefix(doc id.ID) []byte {
	k := make([]byte, 0, len(entryPrefix)+17)
	k = append(k, entryPrefix...)
	k = append(k, doc[:]...)
	k = append(k, sep)
	return k
}

// KeyEntryScanAll returns the scan prefix covering every entry record.
func KeyEntryScanAll() []byte {
	return append([]byte(nil), entryPrefix...)
}

// KeyAuthor builds the author index key for an entry written by a tenant.
func KeyAuthor(tenantSlug string, entryID id.ID) []byte {
	k := make([]byte, 0, len(authPrefix)+len(tenantSlug)+17)
	k = append(k, authPrefix...)
	k = append(k, tenantSlug...)
	k = append(k, sep)
	k = append(k, entryID[:]...)
	return k
}

// KeyAuthorPrefix returns the scan prefix for all entries a tenant wrote.
func KeyAuthorPrefix(tenantSlug string) []byte {
	k := make([]byte, 0, len(authPrefix)+len(tenantSlug)+1)
	k = append(k, authPrefix...)
	k = append(k, tenantSlug...)
	k = append(k, sep)
	return k
}

// prefixUpperBound returns the exclusive upper bound for a prefix scan.
func prefixUpperBound(prefix []byte) []byte {
	return append(append([]byte(nil), prefix...), 0xff)
}

// iterBounds builds iterator options for a bounded prefix scan.
func iterBounds(prefix []byte) *pebble.IterOptions {
	return &pebble.IterOptions{LowerBound: prefix, UpperBound: prefixUpperBound(prefix)}
}

// entryIDFromKey extracts the entry ID from a key produced with the given prefix.
func entryIDFromKey(key, prefix []byte) (id.ID, error) {
	return id.FromBytes(key[len(prefix):])
}
