package tenant

import (
	"testing"

	pebblestore "github.com/pluglog/pluglog/internal/storage/pebble"
)

func openTestDB(t *testing.T) *pebblestore.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEnsureIdempotent(t *testing.T) {
	db := openTestDB(t)

	m1, err := Ensure(db, "My Plugin")
	if err != nil {
		t.Fatalf("ensure1: %v", err)
	}
	m2, err := Ensure(db, "My Plugin")
	if err != nil {
		t.Fatalf("ensure2: %v", err)
	}
	if m1.Slug != "my-plugin" {
		t.Fatalf("slug: %q", m1.Slug)
	}
	if m1.Slug != m2.Slug || m1.CreatedAtMs != m2.CreatedAtMs {
		t.Fatalf("not idempotent: %+v vs %+v", m1, m2)
	}

	list, err := List(db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one tenant, got %d", len(list))
	}
}

func TestEnsureDistinctTenants(t *testing.T) {
	db := openTestDB(t)

	a, err := Ensure(db, "Alpha Plugin")
	if err != nil {
		t.Fatalf("ensure a: %v", err)
	}
	b, err := Ensure(db, "Beta Plugin")
	if err != nil {
		t.Fatalf("ensure b: %v", err)
	}
	if a.Slug == b.Slug {
		t.Fatalf("distinct tenants share slug %q", a.Slug)
	}

	list, err := List(db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 tenants, got %d", len(list))
	}
	if list[0].Name != "Alpha Plugin" || list[1].Name != "Beta Plugin" {
		t.Fatalf("list not name ordered: %+v", list)
	}
}

func TestExists(t *testing.T) {
	db := openTestDB(t)

	if ok, err := Exists(db, "My Plugin"); err != nil || ok {
		t.Fatalf("exists before ensure: ok=%v err=%v", ok, err)
	}
	if _, err := Ensure(db, "My Plugin"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	// Exists matches by normalized slug, not the raw name.
	if ok, err := Exists(db, "my plugin"); err != nil || !ok {
		t.Fatalf("exists after ensure: ok=%v err=%v", ok, err)
	}
}

func TestGetUnknownTenant(t *testing.T) {
	db := openTestDB(t)

	_, ok, err := Get(db, "never seen")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("unknown tenant should not be found")
	}
}
