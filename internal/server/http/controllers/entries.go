package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/pluglog/pluglog/internal/entry"
	"github.com/pluglog/pluglog/internal/runtime"
	logsvc "github.com/pluglog/pluglog/internal/services/logs"
	"github.com/pluglog/pluglog/pkg/id"
)

// EntriesController handles entry write, delete, query, export, and tail
// endpoints.
type EntriesController struct {
	rt  *runtime.Runtime
	svc *logsvc.Service
}

// NewEntriesController creates a new entries controller.
func NewEntriesController(rt *runtime.Runtime, svc *logsvc.Service) *EntriesController {
	return &EntriesController{rt: rt, svc: svc}
}

// RegisterRoutes registers entry routes with the given mux.
func (c *EntriesController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/entries/add", c.handleAdd)
	mux.HandleFunc("/v1/entries/delete", c.handleDelete)
	mux.HandleFunc("/v1/entries/query", c.handleQuery)
	mux.HandleFunc("/v1/entries/export", c.handleExport)
	mux.HandleFunc("/v1/entries/tail", c.handleTailSSE)
}

// handleAdd writes one entry into a log, or into a session when the
// request carries a session ID.
func (c *EntriesController) handleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req addEntryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var (
		e   entry.Entry
		err error
	)
	if req.Session != "" {
		sessID, perr := id.Parse(req.Session)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid session id")
			return
		}
		e, err = c.svc.AddSessionEntry(r.Context(), sessID, req.Tenant, req.Message, req.Severity)
	} else {
		e, err = c.svc.AddEntry(r.Context(), req.Tenant, req.Log, req.Message, req.Severity)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeCreated(w, viewOf(e))
}

// handleDelete removes the listed entries from a log or session.
func (c *EntriesController) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req deleteEntriesReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	var sessID id.ID
	if req.Session != "" {
		var perr error
		sessID, perr = id.Parse(req.Session)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid session id")
			return
		}
	}
	ids := make([]id.ID, 0, len(req.IDs))
	for _, s := range req.IDs {
		eid, err := id.Parse(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid entry id")
			return
		}
		ids = append(ids, eid)
	}

	deleted, err := c.svc.DeleteEntries(r.Context(), req.Tenant, req.Log, sessID, ids)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"deleted": deleted})
}

// handleQuery runs a filtered, sorted, paginated read.
func (c *EntriesController) handleQuery(w http.ResponseWriter, r *http.Request) {
	p, ok := queryParamsFrom(w, r)
	if !ok {
		return
	}
	res, err := c.svc.Query(r.Context(), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"total":   res.Total,
		"entries": viewsOf(res.Entries),
	})
}

// handleExport returns every entry the tenant wrote as flat records.
func (c *EntriesController) handleExport(w http.ResponseWriter, r *http.Request) {
	tenantName := r.URL.Query().Get("tenant")
	if tenantName == "" {
		writeError(w, http.StatusBadRequest, "tenant is required")
		return
	}
	recs, err := c.svc.Export(r.Context(), tenantName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"tenant": tenantName, "records": recs})
}

// queryParamsFrom builds service query params from URL query values.
// Writes the error response and returns false on bad input.
func queryParamsFrom(w http.ResponseWriter, r *http.Request) (logsvc.QueryParams, bool) {
	q := r.URL.Query()
	p := logsvc.QueryParams{
		Tenant:  q.Get("tenant"),
		Log:     q.Get("log"),
		Search:  q.Get("search"),
		Expr:    q.Get("expr"),
		Sort:    entry.Sort(q.Get("sort")),
		Asc:     parseBool(q.Get("asc")),
		Page:    parseInt(q.Get("page")),
		PerPage: parseInt(q.Get("per_page")),
		Unpaged: parseBool(q.Get("unpaged")),
	}
	if s := q.Get("session"); s != "" {
		sessID, err := id.Parse(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid session id")
			return logsvc.QueryParams{}, false
		}
		p.Session = sessID
	}
	return p, true
}
