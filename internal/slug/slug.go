// Package slug derives collision-resistant, storage-safe identifiers from
// tenant and log names. Slugs are the namespace keys in the store, so two
// names that normalize identically share a namespace.
package slug

import gslug "github.com/gosimple/slug"

// Normalize returns a lower-cased, hyphenated, URL-safe token for raw text.
// Total: arbitrary input (including empty) yields a valid, possibly empty slug.
func Normalize(raw string) string {
	return gslug.Make(raw)
}

// Prefixed builds the document slug for a log. With a tenant name it returns
// "<tenant>-<log>"; without one, the log slug is prefixed with "log-" so
// unscoped logs can never collide with tenant-scoped ones.
func Prefixed(logName, tenantName string) string {
	if tenantName != "" {
		return Normalize(tenantName) + "-" + Normalize(logName)
	}
	return "log-" + Normalize(logName)
}
