// Package ingest holds the gates a freshly-fetched batch passes through
// before anything hits the store: a quality gate (is it on-topic?) and a
// dedup gate (have we seen it before?).
package ingest

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
	"github.com/bcampbell/digestomat/store"
)

// CanonicalURL returns the form of a URL used as an item's identity.
// Conservative normalisation only (lowercase scheme/host, strip default
// port, drop fragment and such) - anything more aggressive risks
// conflating genuinely different pages.
func CanonicalURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return purell.NormalizeURL(u, purell.FlagsSafe|purell.FlagRemoveFragment), nil
}

// DedupResult is a batch partitioned by the dedup gate.
type DedupResult struct {
	New         []*store.Item // unseen items, batch order preserved
	AlreadySeen int           // dropped - already in the store
	BatchDups   int           // dropped - duplicated within this batch
	Malformed   int           // dropped - url wouldn't parse
}

// Deduper is the dedup gate. seen is the set of canonical URLs already
// in the store (see Store.SeenURLs).
type Deduper struct {
	seen map[string]struct{}
}

func NewDeduper(seen map[string]struct{}) *Deduper {
	if seen == nil {
		seen = map[string]struct{}{}
	}
	return &Deduper{seen: seen}
}

// Partition splits a batch into new items and duplicates. URLs are
// canonicalised before comparison, and each item's URL is rewritten to
// its canonical form. When a URL appears more than once in the batch,
// the first occurrence wins. Items whose URL won't parse are dropped
// and tallied separately rather than let through with a broken
// identity (the quality gate normally catches these first).
//
// Items let through are remembered, so a later Partition call on the
// same Deduper (the next section, say) treats them as already seen.
func (d *Deduper) Partition(batch []*store.Item) DedupResult {
	res := DedupResult{New: []*store.Item{}}
	inBatch := map[string]struct{}{}

	for _, it := range batch {
		canon, err := CanonicalURL(it.URL)
		if err != nil || canon == "" {
			res.Malformed++
			continue
		}
		if _, got := d.seen[canon]; got {
			res.AlreadySeen++
			continue
		}
		if _, got := inBatch[canon]; got {
			res.BatchDups++
			continue
		}
		it.URL = canon
		inBatch[canon] = struct{}{}
		res.New = append(res.New, it)
	}

	for u := range inBatch {
		d.seen[u] = struct{}{}
	}
	return res
}
