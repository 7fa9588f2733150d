package email

import (
	"strings"
	"testing"
	"time"

	"github.com/bcampbell/digestomat/digest"
	"github.com/bcampbell/digestomat/store"
	"github.com/bcampbell/digestomat/trends"
)

func TestRenderDigest(t *testing.T) {
	res := &digest.RunResult{
		Started: time.Date(2023, 4, 5, 6, 0, 0, 0, time.UTC),
		Sections: []*digest.SectionResult{
			{
				Section: store.SectionPapers,
				Fetched: 3,
				NewItems: []*store.Item{
					{
						URL:       "http://example.com/p1",
						Title:     "Hypervector <Encoding>",
						Publisher: "arXiv",
						Summary:   "An encoding scheme.",
					},
				},
			},
			{Section: store.SectionNews, NewItems: []*store.Item{}},
			{Section: store.SectionBlogs, NewItems: []*store.Item{}},
		},
	}

	msg, err := RenderDigest(res)
	if err != nil {
		t.Fatalf("RenderDigest: %s", err)
	}
	if msg.Subject != "Research Digest — 2023-04-05" {
		t.Errorf("subject wrong: %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, `href="http://example.com/p1"`) {
		t.Errorf("item link missing")
	}
	// html in titles gets escaped, not rendered
	if strings.Contains(msg.HTML, "<Encoding>") {
		t.Errorf("title not escaped")
	}
	if !strings.Contains(msg.HTML, "Hypervector &lt;Encoding&gt;") {
		t.Errorf("escaped title missing")
	}
	// empty sections don't get a heading
	if strings.Contains(msg.HTML, "<h2>News</h2>") {
		t.Errorf("empty section rendered")
	}
}

func TestRenderDigestEmpty(t *testing.T) {
	res := &digest.RunResult{
		Started: time.Date(2023, 4, 5, 6, 0, 0, 0, time.UTC),
		Sections: []*digest.SectionResult{
			{Section: store.SectionPapers, NewItems: []*store.Item{}},
			{Section: store.SectionNews, NewItems: []*store.Item{}},
			{Section: store.SectionBlogs, NewItems: []*store.Item{}},
		},
	}
	msg, err := RenderDigest(res)
	if err != nil {
		t.Fatalf("RenderDigest: %s", err)
	}
	if !strings.Contains(msg.HTML, "No new items today.") {
		t.Errorf("empty digest should say so")
	}
}

func TestRenderTrends(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2023, 4, d, 0, 0, 0, 0, time.UTC) }
	series := []trends.TopicSeries{
		{
			Topic: "binding operations",
			Buckets: []trends.Bucket{
				{Start: day(3), Count: 5},
				{Start: day(10), Count: 0},
				{Start: day(17), Count: 2},
			},
			Total: 7,
		},
	}
	msg, err := RenderTrends(series, trends.Weekly, day(20))
	if err != nil {
		t.Fatalf("RenderTrends: %s", err)
	}
	if !strings.Contains(msg.HTML, "binding operations") {
		t.Errorf("topic missing from report")
	}
	if !strings.Contains(msg.Subject, "2023-04-20") {
		t.Errorf("subject wrong: %q", msg.Subject)
	}
}

func TestSparkline(t *testing.T) {
	got := sparkline([]trends.Bucket{{Count: 8}, {Count: 0}, {Count: 4}})
	want := "█ ▄"
	if got != want {
		t.Errorf("sparkline: got %q, expected %q", got, want)
	}
	if got := sparkline([]trends.Bucket{{Count: 0}}); got != "" {
		t.Errorf("all-zero sparkline: got %q", got)
	}
}
