// Package id provides time-ordered 128-bit identifiers for documents and
// entries. IDs embed a millisecond timestamp followed by a per-process
// sequence, so byte order equals creation order and storage keys built from
// them iterate chronologically without a secondary index.
package id
