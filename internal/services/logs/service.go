package logsvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pluglog/pluglog/internal/entry"
	"github.com/pluglog/pluglog/internal/logdir"
	"github.com/pluglog/pluglog/internal/runtime"
	"github.com/pluglog/pluglog/internal/tenant"
	"github.com/pluglog/pluglog/pkg/id"
	logpkg "github.com/pluglog/pluglog/pkg/log"
	"github.com/pluglog/pluglog/pkg/version"
)

// Service exposes the multi-tenant logging operations: tenants write
// entries into named logs or sessions, and read paths query, export, and
// purge them. Retention is enforced opportunistically after each write and
// never fails a write.
type Service struct {
	rt            *runtime.Runtime
	logger        logpkg.Logger
	retentionHook RetentionHook
}

// New returns a Service using a default logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, nil)
}

// NewWithLogger constructs the service with an injected logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("logs"))
	}
	return &Service{rt: rt, logger: logger}
}

// SetRetentionHook installs a per-write retention override.
func (s *Service) SetRetentionHook(h RetentionHook) { s.retentionHook = h }

// Version reports the server version string.
func (s *Service) Version() string { return version.Version }

// AddEntry writes one entry into the tenant's named log, creating the
// tenant and the log on first use. A blank message is rejected before any
// side effect. Severity <= 0 takes the configured default.
func (s *Service) AddEntry(ctx context.Context, tenantName, logName, message string, severity int) (entry.Entry, error) {
	if strings.TrimSpace(message) == "" {
		return entry.Entry{}, ErrMissingMessage
	}
	cfg := s.rt.Config()
	if cfg.MaxMessageBytes > 0 && len(message) > cfg.MaxMessageBytes {
		return entry.Entry{}, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(message))
	}
	if severity <= 0 {
		severity = cfg.DefaultSeverity
	}

	doc, err := s.rt.Directory().ResolveOrCreate(ctx, tenantName, logName)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrLogCreate, err)
	}
	return s.write(ctx, doc, tenantName, logName, message, severity)
}

// AddSessionEntry writes one entry into an existing session on behalf of
// the given tenant, which need not own the session's log. Writes to an
// ended session fail with ErrSessionEnded.
func (s *Service) AddSessionEntry(ctx context.Context, sessionID id.ID, tenantName, message string, severity int) (entry.Entry, error) {
	if strings.TrimSpace(message) == "" {
		return entry.Entry{}, ErrMissingMessage
	}
	cfg := s.rt.Config()
	if cfg.MaxMessageBytes > 0 && len(message) > cfg.MaxMessageBytes {
		return entry.Entry{}, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(message))
	}
	if severity <= 0 {
		severity = cfg.DefaultSeverity
	}

	doc, ok, err := s.rt.Directory().Get(sessionID)
	if err != nil {
		return entry.Entry{}, err
	}
	if !ok || !doc.IsSession() {
		return entry.Entry{}, ErrUnknownSession
	}
	if doc.Ended() {
		return entry.Entry{}, ErrSessionEnded
	}
	if _, err := s.rt.EnsureTenant(tenantName); err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrTenantCreate, err)
	}
	return s.write(ctx, doc, tenantName, doc.Title, message, severity)
}

// write appends the entry and then enforces retention best-effort.
func (s *Service) write(ctx context.Context, doc logdir.Doc, tenantName, logName, message string, severity int) (entry.Entry, error) {
	ten, err := tenant.Ensure(s.rt.DB(), tenantName)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrTenantCreate, err)
	}
	e, err := s.rt.Entries().Append(ctx, doc.ID, ten.Slug, severity, message)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	limit := s.rt.Config().RetentionCapFor(ten.Slug)
	if s.retentionHook != nil {
		limit = s.retentionHook(ten.Slug, logName, limit)
	}
	if deleted, err := s.rt.Entries().EnforceCap(ctx, doc.ID, limit, 0, 0); err != nil {
		// retention is advisory, the write already succeeded
		s.logger.Warn("retention failed",
			logpkg.Str("tenant", ten.Slug),
			logpkg.Str("log", logName),
			logpkg.Err(err))
	} else if deleted > 0 {
		s.logger.Debug("retention evicted entries",
			logpkg.Str("tenant", ten.Slug),
			logpkg.Str("log", logName),
			logpkg.Int("deleted", deleted))
	}
	return e, nil
}

// Query returns matching entries. Unknown tenants or logs yield an empty
// result rather than an error. A tenant filter matches the entry author and
// stacks with a log or session selection, so querying a session by tenant
// returns only that tenant's entries in it.
func (s *Service) Query(ctx context.Context, p QueryParams) (QueryResult, error) {
	filter, err := newCELFilter(p.Expr)
	if err != nil {
		return QueryResult{}, err
	}

	q := entry.Query{
		Search:  p.Search,
		Sort:    p.Sort,
		Asc:     p.Asc,
		Page:    p.Page,
		PerPage: p.PerPage,
		Unpaged: p.Unpaged,
	}
	if filter.enabled {
		q.Match = filter.Eval
	}
	if q.PerPage == 0 && !q.Unpaged {
		q.PerPage = s.rt.Config().QueryPageSize
	}

	if p.Tenant != "" {
		ten, ok, err := tenant.Get(s.rt.DB(), p.Tenant)
		if err != nil {
			return QueryResult{}, err
		}
		if !ok {
			return QueryResult{}, nil
		}
		q.Tenant = ten.Slug
	}
	switch {
	case !p.Session.IsZero():
		doc, ok, err := s.rt.Directory().Get(p.Session)
		if err != nil {
			return QueryResult{}, err
		}
		if !ok {
			return QueryResult{}, nil
		}
		q.Doc = doc.ID
	case p.Tenant != "" && p.Log != "":
		doc, ok, err := s.rt.Directory().Lookup(p.Tenant, p.Log)
		if err != nil {
			return QueryResult{}, err
		}
		if !ok {
			return QueryResult{}, nil
		}
		q.Doc = doc.ID
	}

	res, err := s.rt.Entries().Run(q)
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{Entries: res.Entries, Total: res.Total}, nil
}

// DeleteEntries removes the listed entries from the tenant's log, or from a
// session when sessionID is set. Unknown targets and already-deleted IDs are
// not errors; the count reports what was actually removed.
func (s *Service) DeleteEntries(ctx context.Context, tenantName, logName string, sessionID id.ID, ids []id.ID) (int, error) {
	var doc logdir.Doc
	switch {
	case !sessionID.IsZero():
		d, ok, err := s.rt.Directory().Get(sessionID)
		if err != nil || !ok {
			return 0, err
		}
		doc = d
	case tenantName != "" && logName != "":
		d, ok, err := s.rt.Directory().Lookup(tenantName, logName)
		if err != nil || !ok {
			return 0, err
		}
		doc = d
	default:
		return 0, ErrNoTarget
	}

	n, err := s.rt.Entries().Delete(ctx, doc.ID, ids)
	if err != nil {
		return n, err
	}
	if n > 0 {
		s.logger.Info("entries deleted",
			logpkg.Str("log", doc.Title),
			logpkg.Int("deleted", n))
	}
	return n, nil
}

// Export returns every entry the tenant ever wrote, oldest first, in a
// flat record form suitable for serialization.
func (s *Service) Export(ctx context.Context, tenantName string) ([]ExportRecord, error) {
	res, err := s.Query(ctx, QueryParams{Tenant: tenantName, Asc: true, Unpaged: true})
	if err != nil {
		return nil, err
	}
	out := make([]ExportRecord, 0, len(res.Entries))
	for _, e := range res.Entries {
		out = append(out, ExportRecord{
			ID:       e.ID.String(),
			Message:  e.Message,
			Date:     time.UnixMilli(e.TsMs).UTC(),
			Severity: e.Severity,
			Tenant:   e.Tenant,
		})
	}
	return out, nil
}

// Purge removes every log, session, and entry belonging to the tenant.
// The tenant registration itself survives a purge.
func (s *Service) Purge(ctx context.Context, tenantName string) (PurgeStats, error) {
	ok, err := tenant.Exists(s.rt.DB(), tenantName)
	if err != nil {
		return PurgeStats{}, err
	}
	if !ok {
		return PurgeStats{}, nil
	}
	docs, err := s.rt.Directory().PurgeAll(ctx, tenantName)
	if err != nil {
		return PurgeStats{}, err
	}
	stats := PurgeStats{Docs: len(docs)}
	for _, d := range docs {
		n, err := s.rt.Entries().DeleteDoc(ctx, d.ID)
		stats.Entries += n
		if err != nil {
			return stats, err
		}
	}
	s.logger.Info("tenant purged",
		logpkg.Str("tenant", tenantName),
		logpkg.Int("docs", stats.Docs),
		logpkg.Int("entries", stats.Entries))
	return stats, nil
}

// ListLogs returns the tenant's logs, optionally with sessions.
func (s *Service) ListLogs(tenantName string, includeSessions bool) ([]logdir.Doc, error) {
	return s.rt.Directory().ListLogs(tenantName, includeSessions)
}

// ListTenants returns all registered tenants ordered by name.
func (s *Service) ListTenants() ([]tenant.Meta, error) {
	return s.rt.ListTenants()
}

// WaitForEntry blocks until any entry is written or the timeout elapses.
// Used by streaming readers to avoid polling.
func (s *Service) WaitForEntry(timeout time.Duration) bool {
	return s.rt.Entries().WaitForAppend(timeout)
}
