package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	cfgpkg "github.com/pluglog/pluglog/internal/config"
	"github.com/pluglog/pluglog/internal/runtime"
	pebblestore "github.com/pluglog/pluglog/internal/storage/pebble"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	rt, err := runtime.Open(runtime.Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeNever,
		Config:  cfgpkg.Default(),
	})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	t.Cleanup(func() { rt.Close() })
	return New(rt, nil)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestVersionHandler(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/version", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp["version"] == "" {
		t.Fatalf("bad version body: %s (%v)", w.Body.String(), err)
	}
}

func TestAddAndQueryEntries(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/entries/add",
		`{"tenant":"My Plugin","log":"errors","message":"boom","severity":4}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status: %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, s, http.MethodGet, "/v1/entries/query?tenant=My+Plugin&log=errors", "")
	if w.Code != http.StatusOK {
		t.Fatalf("query status: %d", w.Code)
	}
	var resp struct {
		Total   int `json:"total"`
		Entries []struct {
			Tenant   string `json:"tenant"`
			Severity int    `json:"severity"`
			Message  string `json:"message"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Entries) != 1 {
		t.Fatalf("unexpected result: %+v", resp)
	}
	if resp.Entries[0].Message != "boom" || resp.Entries[0].Severity != 4 {
		t.Fatalf("entry mismatch: %+v", resp.Entries[0])
	}
}

func TestAddRejectsBlankMessage(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/entries/add",
		`{"tenant":"t","log":"l","message":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("error content type: %q", ct)
	}
}

func TestDeleteEntriesHandler(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/entries/add",
		`{"tenant":"shop","log":"orders","message":"stale"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status: %d", w.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID == "" {
		t.Fatalf("bad add body: %s", w.Body.String())
	}

	w = do(t, s, http.MethodPost, "/v1/entries/delete",
		`{"tenant":"shop","log":"orders","ids":["`+created.ID+`"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status: %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Deleted int `json:"deleted"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Deleted != 1 {
		t.Fatalf("delete body: %s (%v)", w.Body.String(), err)
	}

	w = do(t, s, http.MethodGet, "/v1/entries/query?tenant=shop&log=orders", "")
	if !strings.Contains(w.Body.String(), `"total":0`) {
		t.Fatalf("entry survived delete: %s", w.Body.String())
	}

	// A delete naming neither log nor session is rejected.
	w = do(t, s, http.MethodPost, "/v1/entries/delete",
		`{"ids":["`+created.ID+`"]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("no target status: %d", w.Code)
	}

	// Bad entry IDs are rejected.
	w = do(t, s, http.MethodPost, "/v1/entries/delete",
		`{"tenant":"shop","log":"orders","ids":["nope"]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id status: %d", w.Code)
	}
}

func TestSessionEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/sessions/create",
		`{"tenant":"importer","log":"runs","title":"nightly"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status: %d body=%s", w.Code, w.Body.String())
	}
	var sess struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sess); err != nil || sess.ID == "" {
		t.Fatalf("bad session body: %s", w.Body.String())
	}

	w = do(t, s, http.MethodPost, "/v1/entries/add",
		`{"tenant":"importer","session":"`+sess.ID+`","message":"step one"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("session add status: %d body=%s", w.Code, w.Body.String())
	}

	w = do(t, s, http.MethodPost, "/v1/sessions/end", `{"session":"`+sess.ID+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("end status: %d body=%s", w.Code, w.Body.String())
	}

	// Writes after end conflict.
	w = do(t, s, http.MethodPost, "/v1/entries/add",
		`{"tenant":"importer","session":"`+sess.ID+`","message":"too late"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("post-end add status: %d", w.Code)
	}

	// Unknown session is a 404.
	w = do(t, s, http.MethodPost, "/v1/sessions/end",
		`{"session":"00000000000000000000000000000000"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown end status: %d", w.Code)
	}
}

func TestTenantEndpoints(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodPost, "/v1/entries/add",
		`{"tenant":"shop","log":"orders","message":"one"}`)
	do(t, s, http.MethodPost, "/v1/entries/add",
		`{"tenant":"shop","log":"payments","message":"two"}`)

	w := do(t, s, http.MethodGet, "/v1/tenants", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "shop") {
		t.Fatalf("tenants: %d %s", w.Code, w.Body.String())
	}

	w = do(t, s, http.MethodGet, "/v1/tenants/logs?tenant=shop", "")
	if w.Code != http.StatusOK {
		t.Fatalf("logs status: %d", w.Code)
	}
	var logs struct {
		Logs []struct {
			Slug string `json:"slug"`
		} `json:"logs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &logs); err != nil || len(logs.Logs) != 2 {
		t.Fatalf("logs body: %s (%v)", w.Body.String(), err)
	}

	w = do(t, s, http.MethodPost, "/v1/tenants/purge", `{"tenant":"shop"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("purge status: %d", w.Code)
	}
	var stats struct {
		Docs    int `json:"docs"`
		Entries int `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil || stats.Docs != 2 || stats.Entries != 2 {
		t.Fatalf("purge body: %s (%v)", w.Body.String(), err)
	}
}

func TestExportHandler(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/v1/entries/add",
		`{"tenant":"exporter","log":"a","message":"first"}`)

	w := do(t, s, http.MethodGet, "/v1/entries/export?tenant=exporter", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}
	var resp struct {
		Records []struct {
			Message string `json:"message"`
			Tenant  string `json:"tenant"`
		} `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Records) != 1 || resp.Records[0].Tenant != "exporter" {
		t.Fatalf("records: %+v", resp.Records)
	}

	w = do(t, s, http.MethodGet, "/v1/entries/export", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing tenant status: %d", w.Code)
	}
}

func TestQueryBadExpr(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/entries/query?expr=not+valid+(", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", w.Code)
	}
}
