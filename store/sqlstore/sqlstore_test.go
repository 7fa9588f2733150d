package sqlstore

import (
	"fmt"
	"testing"
	"time"

	"github.com/bcampbell/digestomat/store"
	_ "github.com/mattn/go-sqlite3"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// performDBTests runs the whole store workout against an open store.
// Called with an sqlite3 store by default, and a postgres one if
// DIGESTOMAT_TEST_PG is set (see pg_test.go).
func performDBTests(t *testing.T, ss *SQLStore) {

	testItems := []*store.Item{
		{
			URL:     "http://example.com/papers/hierarchical-doodah-composition",
			Title:   "Hierarchical Doodah Composition",
			Section: store.SectionPapers,
			Summary: "We compose doodahs, hierarchically.",
			Date:    day(2023, 4, 1),
			Topics:  []string{"hierarchical doodah composition"},
		},
		{
			URL:        "http://example.com/news/wibbletron-2-released",
			Title:      "Wibbletron 2 Released",
			Section:    store.SectionNews,
			SourceType: "rss",
			Publisher:  "Example Wire",
			Date:       day(2023, 4, 2),
		},
		{
			URL:         "http://example.com/blog/why-i-wibble",
			Title:       "Why I Wibble",
			Section:     store.SectionBlogs,
			SourceType:  "rss",
			Date:        day(2023, 4, 3),
			DateIsFound: true,
		},
	}

	for _, it := range testItems {
		res, err := ss.InsertIfNew(it)
		if err != nil {
			t.Fatalf("InsertIfNew failed: %s", err)
		}
		if res != store.Inserted {
			t.Fatalf("InsertIfNew(%s): got %s, expected inserted", it.URL, res)
		}
		if it.SeenCount != 1 {
			t.Fatalf("InsertIfNew(%s): seen_count %d, expected 1", it.URL, it.SeenCount)
		}
	}

	// A second insert of the same URL must report duplicate and leave
	// exactly one row behind, even if the other fields differ.
	dup := &store.Item{
		URL:     testItems[0].URL,
		Title:   "Hierarchical Doodah Composition (mirror)",
		Section: store.SectionPapers,
		Date:    day(2023, 4, 5),
	}
	res, err := ss.InsertIfNew(dup)
	if err != nil {
		t.Fatalf("InsertIfNew (dup) failed: %s", err)
	}
	if res != store.Duplicate {
		t.Fatalf("InsertIfNew (dup): got %s, expected duplicate", res)
	}

	stats, err := ss.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %s", err)
	}
	if stats.Total != len(testItems) {
		t.Fatalf("Stats.Total: got %d, expected %d", stats.Total, len(testItems))
	}
	if stats.BySection[store.SectionPapers] != 1 {
		t.Fatalf("Stats.BySection[papers]: got %d, expected 1", stats.BySection[store.SectionPapers])
	}
	if !stats.EarliestDate.Equal(day(2023, 4, 1)) || !stats.LatestDate.Equal(day(2023, 4, 3)) {
		t.Fatalf("Stats date range wrong: %s..%s", stats.EarliestDate, stats.LatestDate)
	}

	// The duplicate insert must not have touched the original row,
	// other than bumping the sighting count.
	got, err := ss.GetByURL(testItems[0].URL)
	if err != nil {
		t.Fatalf("GetByURL failed: %s", err)
	}
	if got.Title != testItems[0].Title {
		t.Fatalf("duplicate insert clobbered title: %q", got.Title)
	}
	if got.SeenCount != 2 {
		t.Fatalf("seen_count after dup: got %d, expected 2", got.SeenCount)
	}
	if !got.Date.Equal(testItems[0].Date) {
		t.Fatalf("duplicate insert clobbered date: %s", got.Date)
	}
	if len(got.Topics) != 1 || got.Topics[0] != "hierarchical doodah composition" {
		t.Fatalf("topics not read back: %v", got.Topics)
	}

	if _, err := ss.GetByURL("http://example.com/no-such-item"); err != store.ErrNotFound {
		t.Fatalf("GetByURL missing: got %v, expected ErrNotFound", err)
	}

	// ListRecent: newest date first.
	items, err := ss.ListRecent(&store.Filter{})
	if err != nil {
		t.Fatalf("ListRecent failed: %s", err)
	}
	if len(items) != len(testItems) {
		t.Fatalf("ListRecent: got %d items, expected %d", len(items), len(testItems))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Date.After(items[i-1].Date) {
			t.Fatalf("ListRecent out of order at %d", i)
		}
	}

	// section filter + limit
	items, err = ss.ListRecent(&store.Filter{
		Sections: []store.Section{store.SectionNews, store.SectionBlogs},
		Count:    1,
	})
	if err != nil {
		t.Fatalf("ListRecent (filtered) failed: %s", err)
	}
	if len(items) != 1 || items[0].Section != store.SectionBlogs {
		t.Fatalf("ListRecent (filtered) wrong: %+v", items)
	}

	// FetchDateRange is inclusive both ends.
	items, err = ss.FetchDateRange(day(2023, 4, 2), day(2023, 4, 3))
	if err != nil {
		t.Fatalf("FetchDateRange failed: %s", err)
	}
	if len(items) != 2 {
		t.Fatalf("FetchDateRange: got %d items, expected 2", len(items))
	}
	if items[0].URL != testItems[1].URL {
		t.Fatalf("FetchDateRange not date-ascending")
	}

	// SeenURLs covers everything we just stashed.
	seen, err := ss.SeenURLs(time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("SeenURLs failed: %s", err)
	}
	for _, it := range testItems {
		if _, ok := seen[it.URL]; !ok {
			t.Fatalf("SeenURLs missing %s", it.URL)
		}
	}
	// ...and a window entirely in the future covers nothing.
	seen, err = ss.SeenURLs(time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("SeenURLs failed: %s", err)
	}
	if len(seen) != 0 {
		t.Fatalf("SeenURLs future window: got %d urls, expected 0", len(seen))
	}

	// SetTopics replaces wholesale.
	err = ss.SetTopics(testItems[1].URL, []string{"wibbletron", "releases"})
	if err != nil {
		t.Fatalf("SetTopics failed: %s", err)
	}
	got, err = ss.GetByURL(testItems[1].URL)
	if err != nil {
		t.Fatalf("GetByURL failed: %s", err)
	}
	if len(got.Topics) != 2 || got.Topics[0] != "releases" || got.Topics[1] != "wibbletron" {
		t.Fatalf("SetTopics read back wrong: %v", got.Topics)
	}

	if err := ss.SetTopics("http://example.com/no-such-item", []string{"x"}); err != store.ErrNotFound {
		t.Fatalf("SetTopics missing: got %v, expected ErrNotFound", err)
	}
}

func Example_buildWhere() {

	filt := &store.Filter{
		DateFrom: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		Sections: []store.Section{store.SectionPapers, store.SectionNews},
	}
	s, p := buildWhere(filt)

	fmt.Println(s)
	fmt.Println(rebind(bindType("sqlite3"), s))
	fmt.Println(rebind(bindType("postgres"), s))
	fmt.Println(p)
	// Output:
	// WHERE date>=? AND date<=? AND section IN (?,?)
	// WHERE date>=? AND date<=? AND section IN (?,?)
	// WHERE date>=$1 AND date<=$2 AND section IN ($3,$4)
	// [2023-01-01 00:00:00 +0000 UTC 2023-02-01 00:00:00 +0000 UTC papers news]
}
