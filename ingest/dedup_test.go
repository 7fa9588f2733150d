package ingest

import (
	"testing"

	"github.com/bcampbell/digestomat/store"
)

func TestCanonicalURL(t *testing.T) {
	cases := []struct{ in, want string }{
		// trivial variations must collapse to the same identity
		{"HTTP://Example.com/foo", "http://example.com/foo"},
		{"http://example.com:80/foo", "http://example.com/foo"},
		{"http://example.com/foo#sec2", "http://example.com/foo"},
		{"  http://example.com/foo  ", "http://example.com/foo"},
		// ...but paths and queries are significant
		{"http://example.com/foo?id=2", "http://example.com/foo?id=2"},
	}
	for _, c := range cases {
		got, err := CanonicalURL(c.in)
		if err != nil {
			t.Errorf("CanonicalURL(%q): %s", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("CanonicalURL(%q): got %q, expected %q", c.in, got, c.want)
		}
	}
}

func item(url string) *store.Item {
	return &store.Item{URL: url, Title: "t", Section: store.SectionNews}
}

func TestDedupPartition(t *testing.T) {
	// 2 urls already stored, 1 repeated three times within the batch,
	// 2 genuinely new.
	seen := map[string]struct{}{
		"http://example.com/old1": {},
		"http://example.com/old2": {},
	}
	batch := []*store.Item{
		item("http://example.com/old1"),
		item("http://example.com/new1"),
		item("http://example.com/new2"),
		item("HTTP://EXAMPLE.COM/new2"), // same as new2 after canonicalisation
		item("http://example.com/new2#frag"),
		item("http://example.com/old2"),
	}

	res := NewDeduper(seen).Partition(batch)

	if len(res.New) != 2 {
		t.Fatalf("New: got %d, expected 2", len(res.New))
	}
	// first occurrence wins, batch order preserved
	if res.New[0].URL != "http://example.com/new1" || res.New[1].URL != "http://example.com/new2" {
		t.Errorf("New wrong: %v, %v", res.New[0].URL, res.New[1].URL)
	}
	if res.AlreadySeen != 2 {
		t.Errorf("AlreadySeen: got %d, expected 2", res.AlreadySeen)
	}
	if res.BatchDups != 2 {
		t.Errorf("BatchDups: got %d, expected 2", res.BatchDups)
	}
}

func TestDedupMalformed(t *testing.T) {
	// urls that won't canonicalise are dropped with their own tally, not
	// miscounted as batch dups
	batch := []*store.Item{
		item("http://example.com/ok"),
		item("http://example.com/%zz"),
		item("http://example.com/%zz"),
	}

	res := NewDeduper(nil).Partition(batch)
	if len(res.New) != 1 || res.New[0].URL != "http://example.com/ok" {
		t.Fatalf("New: %+v", res.New)
	}
	if res.Malformed != 2 {
		t.Errorf("Malformed: got %d, expected 2", res.Malformed)
	}
	if res.BatchDups != 0 {
		t.Errorf("BatchDups: got %d, expected 0", res.BatchDups)
	}
}

func TestDedupAcrossBatches(t *testing.T) {
	d := NewDeduper(nil)

	res := d.Partition([]*store.Item{item("http://example.com/a")})
	if len(res.New) != 1 {
		t.Fatalf("first batch: got %d new, expected 1", len(res.New))
	}

	// same url in a later batch counts as already seen, not a batch dup
	res = d.Partition([]*store.Item{item("http://example.com/a")})
	if len(res.New) != 0 || res.AlreadySeen != 1 {
		t.Errorf("second batch: %+v", res)
	}
}

func TestDedupIdempotent(t *testing.T) {
	// running the same batch against the same stored set twice gives the
	// same partition both times
	batch1 := []*store.Item{item("http://example.com/x"), item("http://example.com/y")}
	batch2 := []*store.Item{item("http://example.com/x"), item("http://example.com/y")}

	seen := map[string]struct{}{"http://example.com/x": {}}
	res1 := NewDeduper(map[string]struct{}{"http://example.com/x": {}}).Partition(batch1)
	res2 := NewDeduper(seen).Partition(batch2)

	if len(res1.New) != len(res2.New) || res1.AlreadySeen != res2.AlreadySeen {
		t.Errorf("not idempotent: %+v vs %+v", res1, res2)
	}
}
