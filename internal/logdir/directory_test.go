package logdir

import (
	"context"
	"testing"

	pebblestore "github.com/pluglog/pluglog/internal/storage/pebble"
	"github.com/pluglog/pluglog/pkg/id"
)

func openTestDir(t *testing.T) *Directory {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeNever,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, id.NewGenerator())
}

func TestResolveOrCreateIdempotent(t *testing.T) {
	dir := openTestDir(t)
	ctx := context.Background()

	first, err := dir.ResolveOrCreate(ctx, "My Plugin", "errors")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := dir.ResolveOrCreate(ctx, "My Plugin", "errors")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same doc, got %s and %s", first.ID, second.ID)
	}
	if first.Slug != "my-plugin-errors" {
		t.Fatalf("unexpected slug %q", first.Slug)
	}
	if first.IsSession() {
		t.Fatal("log resolved as session")
	}
}

func TestLookupDoesNotCreate(t *testing.T) {
	dir := openTestDir(t)

	if _, ok, err := dir.Lookup("ghost", "nothing"); err != nil {
		t.Fatalf("lookup: %v", err)
	} else if ok {
		t.Fatal("lookup created or found a log that should not exist")
	}
	logs, err := dir.ListLogs("ghost", false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("expected no logs, got %d", len(logs))
	}
}

func TestCreateSessionAlwaysFresh(t *testing.T) {
	dir := openTestDir(t)
	ctx := context.Background()

	a, err := dir.CreateSession(ctx, "importer", "runs", "nightly import")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	b, err := dir.CreateSession(ctx, "importer", "runs", "nightly import")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if a.ID == b.ID {
		t.Fatal("expected distinct session docs")
	}
	if !a.IsSession() || a.Parent != b.Parent {
		t.Fatalf("sessions not attached to the same log: %+v %+v", a, b)
	}

	sessions, err := dir.Sessions(a.Parent)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestEndSession(t *testing.T) {
	dir := openTestDir(t)
	ctx := context.Background()

	sess, err := dir.CreateSession(ctx, "importer", "runs", "run one")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	ended, err := dir.EndSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("end session: %v", err)
	}
	if !ended.Ended() {
		t.Fatal("session not stamped ended")
	}

	// Ending twice keeps the first stamp.
	again, err := dir.EndSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("end session again: %v", err)
	}
	if again.EndedAtMs != ended.EndedAtMs {
		t.Fatalf("end time moved: %d -> %d", ended.EndedAtMs, again.EndedAtMs)
	}

	log, err := dir.ResolveOrCreate(ctx, "importer", "runs")
	if err != nil {
		t.Fatalf("resolve log: %v", err)
	}
	if _, err := dir.EndSession(ctx, log.ID); err != ErrNotSession {
		t.Fatalf("expected ErrNotSession ending a log, got %v", err)
	}
	if _, err := dir.EndSession(ctx, id.Zero); err != ErrUnknownDoc {
		t.Fatalf("expected ErrUnknownDoc, got %v", err)
	}
}

func TestListLogsWithSessions(t *testing.T) {
	dir := openTestDir(t)
	ctx := context.Background()

	if _, err := dir.ResolveOrCreate(ctx, "shop", "orders"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := dir.CreateSession(ctx, "shop", "orders", "batch"); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := dir.ResolveOrCreate(ctx, "shop", "payments"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	logsOnly, err := dir.ListLogs("shop", false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logsOnly) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logsOnly))
	}
	for _, d := range logsOnly {
		if d.IsSession() {
			t.Fatalf("session leaked into logs-only listing: %+v", d)
		}
	}

	all, err := dir.ListLogs("shop", true)
	if err != nil {
		t.Fatalf("list with sessions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 docs, got %d", len(all))
	}
}

func TestPurgeAll(t *testing.T) {
	dir := openTestDir(t)
	ctx := context.Background()

	if _, err := dir.ResolveOrCreate(ctx, "victim", "trace"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := dir.CreateSession(ctx, "victim", "trace", "pass"); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := dir.ResolveOrCreate(ctx, "bystander", "trace"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	purged, err := dir.PurgeAll(ctx, "victim")
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if len(purged) != 2 {
		t.Fatalf("expected 2 purged docs, got %d", len(purged))
	}
	left, err := dir.ListLogs("victim", true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected nothing after purge, got %d docs", len(left))
	}
	other, err := dir.ListLogs("bystander", true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("bystander lost docs: got %d", len(other))
	}

	// Purging an empty tenant is a no-op.
	if again, err := dir.PurgeAll(ctx, "victim"); err != nil || len(again) != 0 {
		t.Fatalf("second purge: docs=%d err=%v", len(again), err)
	}
}
