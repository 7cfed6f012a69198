package logsvc

import (
	"errors"
	"time"

	"github.com/pluglog/pluglog/internal/entry"
	"github.com/pluglog/pluglog/pkg/id"
)

var (
	// ErrMissingMessage rejects writes with an empty or blank message.
	ErrMissingMessage = errors.New("logs: message is required")
	// ErrMessageTooLarge rejects writes above the configured message limit.
	ErrMessageTooLarge = errors.New("logs: message too large")
	// ErrTenantCreate reports a failure registering the tenant.
	ErrTenantCreate = errors.New("logs: tenant create failed")
	// ErrLogCreate reports a failure resolving or creating the log.
	ErrLogCreate = errors.New("logs: log create failed")
	// ErrWriteFailed reports a failed entry write.
	ErrWriteFailed = errors.New("logs: entry write failed")
	// ErrUnknownSession reports a session ID that does not resolve.
	ErrUnknownSession = errors.New("logs: unknown session")
	// ErrSessionEnded rejects writes to a session that has been ended.
	ErrSessionEnded = errors.New("logs: session ended")
	// ErrBadFilter reports a filter expression that failed to compile.
	ErrBadFilter = errors.New("logs: bad filter expression")
	// ErrNoTarget rejects an entry delete that names neither a log nor a
	// session.
	ErrNoTarget = errors.New("logs: delete requires a log or session target")
)

// RetentionHook lets callers override the retention cap per write target.
// It receives the writing tenant's slug, the log title, and the configured
// default, and returns the cap to apply. A nil hook keeps the default.
type RetentionHook func(tenantSlug, logName string, def int) int

// QueryParams selects entries for Query.
type QueryParams struct {
	// Tenant filters by the writing tenant (display name or slug).
	Tenant string
	// Log narrows to one log of Tenant. Ignored without Tenant.
	Log string
	// Session narrows to one session document by ID.
	Session id.ID
	// Search is a case-insensitive substring match on messages.
	Search string
	// Expr is an optional CEL expression over tenant, message, severity,
	// ts_ms, and now_ms.
	Expr string

	Sort entry.Sort
	Asc  bool

	Page    int
	PerPage int
	Unpaged bool
}

// QueryResult is one page of entries plus the total match count.
type QueryResult struct {
	Entries []entry.Entry
	Total   int
}

// ExportRecord is the flat form of an entry used by Export.
type ExportRecord struct {
	ID       string    `json:"id"`
	Message  string    `json:"message"`
	Date     time.Time `json:"date"`
	Severity int       `json:"severity"`
	Tenant   string    `json:"tenant"`
}

// PurgeStats reports what a purge removed.
type PurgeStats struct {
	Docs    int `json:"docs"`
	Entries int `json:"entries"`
}
