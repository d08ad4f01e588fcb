package idgen

import (
	"strings"
	"testing"
)

func TestNewUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("art_", Default)
	id := gen()
	if !strings.HasPrefix(id, "art_") {
		t.Fatalf("id %q missing prefix", id)
	}
	if len(id) != len("art_")+36 {
		t.Fatalf("id %q has unexpected length %d", id, len(id))
	}
}

func TestUUIDv7Sortable(t *testing.T) {
	gen := UUIDv7()
	a := gen()
	b := gen()
	// v7 embeds a millisecond timestamp in the leading bits; two IDs from
	// the same process never sort backwards.
	if b < a {
		t.Fatalf("ids not time-ordered: %q then %q", a, b)
	}
}
