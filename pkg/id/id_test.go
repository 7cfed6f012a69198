package id

import (
	"sync"
	"testing"
)

func TestNextMonotonic(t *testing.T) {
	g := NewGenerator()
	prev := g.Next()
	for i := 0; i < 1000; i++ {
		cur := g.Next()
		if cur.Compare(prev) <= 0 {
			t.Fatalf("id not increasing: %s after %s", cur, prev)
		}
		prev = cur
	}
}

func TestNextMonotonicWithClockRewind(t *testing.T) {
	g := NewGenerator()
	base := int64(1_700_000_000_000)
	orig := NowMs
	defer func() { NowMs = orig }()

	NowMs = func() int64 { return base }
	a := g.Next()
	// clock goes backwards; generator must not regress
	NowMs = func() int64 { return base - 50 }
	b := g.Next()
	if b.Compare(a) <= 0 {
		t.Fatalf("regressed after clock rewind: %s then %s", a, b)
	}
	if b.TimeMs() != base {
		t.Fatalf("expected pinned timestamp %d, got %d", base, b.TimeMs())
	}
}

func TestParseRoundTrip(t *testing.T) {
	g := NewGenerator()
	orig := g.Next()
	parsed, err := Parse(orig.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != orig {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, orig)
	}
	if _, err := Parse("zz"); err == nil {
		t.Fatalf("expected error for bad hex")
	}
	if _, err := FromBytes(make([]byte, 3)); err == nil {
		t.Fatalf("expected error for short bytes")
	}
}

func TestConcurrentUnique(t *testing.T) {
	g := NewGenerator()
	const n = 200
	var wg sync.WaitGroup
	out := make([]ID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = g.Next()
		}(i)
	}
	wg.Wait()
	seen := map[ID]bool{}
	for _, v := range out {
		if seen[v] {
			t.Fatalf("duplicate id %s", v)
		}
		seen[v] = true
	}
}
