package controllers

import (
	"encoding/json"
	"net/http"

	logsvc "github.com/pluglog/pluglog/internal/services/logs"
	"github.com/pluglog/pluglog/pkg/id"
)

// SessionsController handles session lifecycle endpoints.
type SessionsController struct {
	svc *logsvc.Service
}

// NewSessionsController creates a new sessions controller.
func NewSessionsController(svc *logsvc.Service) *SessionsController {
	return &SessionsController{svc: svc}
}

// RegisterRoutes registers session routes with the given mux.
func (c *SessionsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/sessions/create", c.handleCreate)
	mux.HandleFunc("/v1/sessions/end", c.handleEnd)
}

// handleCreate starts a new session under a tenant's log and returns its
// document, including the ID callers pass to later writes.
func (c *SessionsController) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req createSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess, err := c.svc.CreateSession(r.Context(), req.Tenant, req.Log, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	doc := sess.Doc()
	writeCreated(w, docView{
		ID:          doc.ID.String(),
		Tenant:      doc.Tenant,
		Slug:        doc.Slug,
		Title:       doc.Title,
		Parent:      doc.Parent.String(),
		CreatedAtMs: doc.CreatedAtMs,
	})
}

// handleEnd stamps the session's end time. Ending twice is harmless.
func (c *SessionsController) handleEnd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req endSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sessID, err := id.Parse(req.Session)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session id")
		return
	}
	doc, err := c.svc.EndSession(r.Context(), sessID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"session": doc.ID.String(), "endedAtMs": doc.EndedAtMs})
}
