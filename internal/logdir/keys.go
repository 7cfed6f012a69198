package logdir

import "github.com/pluglog/pluglog/pkg/id"

// Keyspace helpers for directory keys.
//
// Layout (byte-wise, lexicographically sortable):
// - d/{id16}                       (document record: log or session)
// - ds/{tenantSlug}/{docSlug}      (log slug index -> id16)
// - dc/{parent16}/{child16}        (session child index)

var (
	sep         = byte('/')
	docPrefix   = []byte("d/")
	slugPrefix  = []byte("ds/")
	childPrefix = []byte("dc/")
)

// KeyDoc builds the canonical document record key.
func KeyDoc(docID id.ID) []byte {
	k := make([]byte, 0, len(docPrefix)+16)
	k = append(k, docPrefix...)
	k = append(k, docID[:]...)
	return k
}

// KeySlugIndex builds the log slug index key for a tenant.
func KeySlugIndex(tenantSlug, docSlug string) []byte {
	k := make([]byte, 0, len(slugPrefix)+len(tenantSlug)+len(docSlug)+1)
	k = append(k, slugPrefix...)
	k = append(k, tenantSlug...)
	k = append(k, sep)
	k = append(k, docSlug...)
	return k
}

// KeySlugIndexPrefix returns the scan prefix for all of a tenant's logs.
func KeySlugIndexPrefix(tenantSlug string) []byte {
	k := make([]byte, 0, len(slugPrefix)+len(tenantSlug)+1)
	k = append(k, slugPrefix...)
	k = append(k, tenantSlug...)
	k = append(k, sep)
	return k
}

// KeyChild builds the session child index key under a parent log.
func KeyChild(parent, child id.ID) []byte {
	k := make([]byte, 0, len(childPrefix)+33)
	k = append(k, childPrefix...)
	k = append(k, parent[:]...)
	k = append(k, sep)
	k = append(k, child[:]...)
	return k
}

// KeyChildPrefix returns the scan prefix for all children of a parent log.
func KeyChildPrefix(parent id.ID) []byte {
	k := make([]byte, 0, len(childPrefix)+17)
	k = append(k, childPrefix...)
	k = append(k, parent[:]...)
	k = append(k, sep)
	return k
}

// prefixUpperBound returns the exclusive upper bound for a prefix scan.
func prefixUpperBound(prefix []byte) []byte {
	return append(append([]byte(nil), prefix...), 0xff)
}
