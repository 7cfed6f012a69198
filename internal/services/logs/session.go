package logsvc

import (
	"context"
	"fmt"

	"github.com/pluglog/pluglog/internal/entry"
	"github.com/pluglog/pluglog/internal/logdir"
	"github.com/pluglog/pluglog/pkg/id"
)

// Session is an explicit handle on one session document. Every
// CreateSession call yields a fresh session; there is no ambient "current
// session" state, callers pass the handle (or its ID) to each write.
type Session struct {
	svc *Service
	doc logdir.Doc
}

// CreateSession starts a new session under the tenant's named log and
// returns its handle. The log is created on first use.
func (s *Service) CreateSession(ctx context.Context, tenantName, logName, title string) (*Session, error) {
	doc, err := s.rt.Directory().CreateSession(ctx, tenantName, logName, title)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogCreate, err)
	}
	return &Session{svc: s, doc: doc}, nil
}

// ResumeSession rebuilds a handle from a session ID, for callers that
// carried only the ID across a boundary.
func (s *Service) ResumeSession(sessionID id.ID) (*Session, error) {
	doc, ok, err := s.rt.Directory().Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !ok || !doc.IsSession() {
		return nil, ErrUnknownSession
	}
	return &Session{svc: s, doc: doc}, nil
}

// EndSession stamps the end time on a session by ID. Ending twice keeps
// the first stamp.
func (s *Service) EndSession(ctx context.Context, sessionID id.ID) (logdir.Doc, error) {
	doc, err := s.rt.Directory().EndSession(ctx, sessionID)
	if err == logdir.ErrUnknownDoc || err == logdir.ErrNotSession {
		return logdir.Doc{}, ErrUnknownSession
	}
	return doc, err
}

// ID returns the session document ID.
func (sess *Session) ID() id.ID { return sess.doc.ID }

// Doc returns the session document as of handle creation.
func (sess *Session) Doc() logdir.Doc { return sess.doc }

// AddEntry writes into the session on behalf of the given tenant. The
// session state is re-read on every write, so a handle held past End fails
// with ErrSessionEnded.
func (sess *Session) AddEntry(ctx context.Context, tenantName, message string, severity int) (entry.Entry, error) {
	return sess.svc.AddSessionEntry(ctx, sess.doc.ID, tenantName, message, severity)
}

// End stamps the end time of the session.
func (sess *Session) End(ctx context.Context) error {
	doc, err := sess.svc.EndSession(ctx, sess.doc.ID)
	if err != nil {
		return err
	}
	sess.doc = doc
	return nil
}
