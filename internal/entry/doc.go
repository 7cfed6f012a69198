// Package entry stores and queries log entries.
//
// Entries are append-only framed records keyed under their document by a
// sortable 128-bit ID, with a secondary index keyed by the writing tenant.
// Reads decode lazily and skip records that fail the checksum.
package entry
