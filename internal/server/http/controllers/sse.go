package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pluglog/pluglog/pkg/id"
)

// wakePoll bounds how long a tail loop sleeps before rechecking its
// request context.
const wakePoll = 15 * time.Second

// handleTailSSE streams matching entries as Server-Sent Events. Existing
// matches are sent first, then the stream follows new writes until the
// client disconnects.
func (c *EntriesController) handleTailSSE(w http.ResponseWriter, r *http.Request) {
	p, ok := queryParamsFrom(w, r)
	if !ok {
		return
	}
	// tail reads everything in write order and pages itself
	p.Asc = true
	p.Unpaged = true
	p.Page = 0
	p.PerPage = 0

	flusher, canFlush := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var last id.ID
	send := func() bool {
		res, err := c.svc.Query(r.Context(), p)
		if err != nil {
			return false
		}
		for _, e := range res.Entries {
			if bytes.Compare(e.ID[:], last[:]) <= 0 {
				continue
			}
			b, _ := json.Marshal(viewOf(e))
			if _, err := w.Write([]byte("data: ")); err != nil {
				return false
			}
			if _, err := w.Write(b); err != nil {
				return false
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return false
			}
			last = e.ID
		}
		if canFlush {
			flusher.Flush()
		}
		return true
	}

	if !send() {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}
		c.svc.WaitForEntry(wakePoll)
		if !send() {
			return
		}
	}
}
