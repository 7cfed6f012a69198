package runtime

import (
	"context"
	"errors"
	"time"

	cfgpkg "github.com/pluglog/pluglog/internal/config"
	"github.com/pluglog/pluglog/internal/entry"
	"github.com/pluglog/pluglog/internal/logdir"
	pebblestore "github.com/pluglog/pluglog/internal/storage/pebble"
	"github.com/pluglog/pluglog/internal/tenant"
	"github.com/pluglog/pluglog/pkg/id"
)

// Options for building the Runtime.
type Options struct {
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
}

// Runtime wires storage, config, and facades for a single-node instance.
type Runtime struct {
	db      *pebblestore.DB
	config  cfgpkg.Config
	gen     *id.Generator
	dir     *logdir.Directory
	entries *entry.Store
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
	})
	if err != nil {
		return nil, err
	}
	gen := id.NewGenerator()
	return &Runtime{
		db:      db,
		config:  opts.Config,
		gen:     gen,
		dir:     logdir.New(db, gen),
		entries: entry.NewStore(db, gen),
	}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// EnsureTenant creates a tenant record if absent.
func (r *Runtime) EnsureTenant(name string) (tenant.Meta, error) {
	return tenant.Ensure(r.db, name)
}

// ListTenants returns all registered tenants ordered by name.
func (r *Runtime) ListTenants() ([]tenant.Meta, error) {
	return tenant.List(r.db)
}

// Directory returns the log/session directory.
func (r *Runtime) Directory() *logdir.Directory { return r.dir }

// Entries returns the entry store.
func (r *Runtime) Entries() *entry.Store { return r.entries }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
