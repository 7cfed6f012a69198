package controllers

import "github.com/pluglog/pluglog/internal/entry"

type addEntryReq struct {
	Tenant   string `json:"tenant"`
	Log      string `json:"log"`
	Message  string `json:"message"`
	Severity int    `json:"severity,omitempty"`
	// Session, when set, targets a session instead of Log.
	Session string `json:"session,omitempty"`
}

type deleteEntriesReq struct {
	Tenant string `json:"tenant,omitempty"`
	Log    string `json:"log,omitempty"`
	// Session, when set, targets a session instead of Log.
	Session string   `json:"session,omitempty"`
	IDs     []string `json:"ids"`
}

type createSessionReq struct {
	Tenant string `json:"tenant"`
	Log    string `json:"log"`
	Title  string `json:"title"`
}

type endSessionReq struct {
	Session string `json:"session"`
}

type purgeReq struct {
	Tenant string `json:"tenant"`
}

// entryView is the wire form of one entry.
type entryView struct {
	ID       string `json:"id"`
	Tenant   string `json:"tenant"`
	Severity int    `json:"severity"`
	TsMs     int64  `json:"tsMs"`
	Message  string `json:"message"`
}

func viewOf(e entry.Entry) entryView {
	return entryView{
		ID:       e.ID.String(),
		Tenant:   e.Tenant,
		Severity: e.Severity,
		TsMs:     e.TsMs,
		Message:  e.Message,
	}
}

func viewsOf(entries []entry.Entry) []entryView {
	out := make([]entryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, viewOf(e))
	}
	return out
}

type docView struct {
	ID          string `json:"id"`
	Tenant      string `json:"tenant"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Parent      string `json:"parent,omitempty"`
	CreatedAtMs int64  `json:"createdAtMs"`
	EndedAtMs   int64  `json:"endedAtMs,omitempty"`
}
