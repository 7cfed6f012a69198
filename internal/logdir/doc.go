// Package logdir maintains the directory of logs and sessions.
//
// Each tenant owns a set of named logs. A log may have any number of
// sessions, which are child documents created explicitly and ended by
// stamping an end time. Documents are keyed by sortable 128-bit IDs, with
// secondary indexes for slug resolution and parent/child listing.
package logdir
