package entry

import (
	"fmt"
	"testing"

	"github.com/pluglog/pluglog/pkg/id"
)

func TestQueryPagination(t *testing.T) {
	s := openTestStore(t)
	doc := id.NewGenerator().Next()
	for i := 0; i < 45; i++ {
		mustAppend(t, s, doc, "pager", 1, fmt.Sprintf("msg %02d", i))
	}

	page1, err := s.Run(Query{Doc: doc, Page: 1, PerPage: 20})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if page1.Total != 45 || len(page1.Entries) != 20 {
		t.Fatalf("page 1: total=%d len=%d", page1.Total, len(page1.Entries))
	}
	// Default order is newest first.
	if page1.Entries[0].Message != "msg 44" {
		t.Fatalf("page 1 starts at %q", page1.Entries[0].Message)
	}

	page3, err := s.Run(Query{Doc: doc, Page: 3, PerPage: 20})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(page3.Entries) != 5 {
		t.Fatalf("page 3: len=%d", len(page3.Entries))
	}
	if page3.Entries[4].Message != "msg 00" {
		t.Fatalf("page 3 ends at %q", page3.Entries[4].Message)
	}

	beyond, err := s.Run(Query{Doc: doc, Page: 4, PerPage: 20})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if beyond.Total != 45 || len(beyond.Entries) != 0 {
		t.Fatalf("page past end: total=%d len=%d", beyond.Total, len(beyond.Entries))
	}
}

func TestQueryByTenantAcrossDocs(t *testing.T) {
	s := openTestStore(t)
	gen := id.NewGenerator()
	docA, docB := gen.Next(), gen.Next()

	mustAppend(t, s, docA, "alpha", 1, "from alpha in A")
	mustAppend(t, s, docB, "alpha", 1, "from alpha in B")
	mustAppend(t, s, docB, "beta", 1, "from beta in B")

	res, err := s.Run(Query{Tenant: "alpha", Unpaged: true})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("expected 2 alpha entries, got %d", res.Total)
	}
	for _, e := range res.Entries {
		if e.Tenant != "alpha" {
			t.Fatalf("foreign tenant leaked: %+v", e)
		}
	}

	// Doc filter combined with tenant filter.
	both, err := s.Run(Query{Doc: docB, Tenant: "alpha", Unpaged: true})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if both.Total != 1 || both.Entries[0].Message != "from alpha in B" {
		t.Fatalf("combined filter wrong: %+v", both)
	}
}

func TestQuerySearchAndMatch(t *testing.T) {
	s := openTestStore(t)
	doc := id.NewGenerator().Next()
	mustAppend(t, s, doc, "t", 2, "payment DECLINED for order 7")
	mustAppend(t, s, doc, "t", 5, "payment accepted")
	mustAppend(t, s, doc, "t", 5, "inventory sync done")

	res, err := s.Run(Query{Doc: doc, Search: "declined", Unpaged: true})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Total != 1 {
		t.Fatalf("case-insensitive search failed: %d", res.Total)
	}

	sev, err := s.Run(Query{
		Doc:     doc,
		Match:   func(e Entry) bool { return e.Severity >= 5 },
		Unpaged: true,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if sev.Total != 2 {
		t.Fatalf("predicate filter got %d", sev.Total)
	}

	none, err := s.Run(Query{Doc: doc, Search: "no such text"})
	if err != nil {
		t.Fatalf("empty result must not error: %v", err)
	}
	if none.Total != 0 || len(none.Entries) != 0 {
		t.Fatalf("expected empty result, got %+v", none)
	}
}

func TestQuerySorts(t *testing.T) {
	s := openTestStore(t)
	gen := id.NewGenerator()
	doc := gen.Next()
	mustAppend(t, s, doc, "zulu", 3, "one")
	mustAppend(t, s, doc, "alpha", 9, "two")
	mustAppend(t, s, doc, "mike", 1, "three")

	bySev, err := s.Run(Query{Doc: doc, Sort: SortSeverity, Asc: true, Unpaged: true})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if bySev.Entries[0].Severity != 1 || bySev.Entries[2].Severity != 9 {
		t.Fatalf("severity sort wrong: %+v", bySev.Entries)
	}

	byTenant, err := s.Run(Query{Doc: doc, Sort: SortTenant, Asc: true, Unpaged: true})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if byTenant.Entries[0].Tenant != "alpha" || byTenant.Entries[2].Tenant != "zulu" {
		t.Fatalf("tenant sort wrong: %+v", byTenant.Entries)
	}

	if _, err := s.Run(Query{Doc: doc, Sort: Sort("bogus")}); err == nil {
		t.Fatal("expected error for unknown sort")
	}
}
