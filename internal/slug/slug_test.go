package slug

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"My Plugin":      "my-plugin",
		"my-plugin":      "my-plugin",
		"  Spaced  Out ": "spaced-out",
		"Ünïcödé Näme":   "unicode-name",
		"":               "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrefixed(t *testing.T) {
	if got := Prefixed("errors", "My Plugin"); got != "my-plugin-errors" {
		t.Fatalf("tenant-scoped slug: %q", got)
	}
	if got := Prefixed("errors", ""); got != "log-errors" {
		t.Fatalf("unscoped slug: %q", got)
	}
}

func TestPrefixedDistinctTenants(t *testing.T) {
	a := Prefixed("messages", "alpha")
	b := Prefixed("messages", "beta")
	if a == b {
		t.Fatalf("distinct tenants must produce distinct slugs: %q", a)
	}
}
