// Package logsvc is the application service for multi-tenant logging.
//
// It validates and writes entries, manages sessions through explicit
// handles, enforces retention after writes, and serves query, export, and
// purge over the directory and entry store.
package logsvc
