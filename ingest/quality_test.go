package ingest

import (
	"errors"
	"testing"

	"github.com/bcampbell/digestomat/classify"
	"github.com/bcampbell/digestomat/store"
)

// stubJudge keeps urls by title prefix, or errors on demand.
type stubJudge struct {
	fail bool
}

func (j *stubJudge) Judge(section, title, summary string) (classify.Verdict, error) {
	if j.fail {
		return classify.Verdict{}, errors.New("classifier unreachable")
	}
	if title == "drop me" {
		return classify.Verdict{Keep: false, Confidence: "high", Reason: "off topic"}, nil
	}
	return classify.Verdict{Keep: true, Confidence: "medium", Reason: "looks relevant"}, nil
}

func TestQualityGate(t *testing.T) {
	gate := NewQualityGate(&stubJudge{})

	batch := []*store.Item{
		{URL: "http://example.com/1", Title: "keep me", Section: store.SectionPapers},
		{URL: "http://example.com/2", Title: "drop me", Section: store.SectionPapers},
		{URL: "", Title: "no url", Section: store.SectionNews},
		{URL: "http://example.com/%zz", Title: "mangled url", Section: store.SectionNews},
		{URL: "http://example.com/3", Title: "", Section: store.SectionNews},
		{URL: "http://example.com/4", Title: "bad section", Section: "sports"},
		{URL: "http://example.com/5", Title: "keep me too", Section: store.SectionBlogs},
	}

	res := gate.Apply(batch)
	if len(res.Accepted) != 2 {
		t.Fatalf("Accepted: got %d, expected 2", len(res.Accepted))
	}
	if len(res.Rejections) != 5 {
		t.Fatalf("Rejections: got %d, expected 5", len(res.Rejections))
	}
	// order preserved
	if res.Accepted[0].URL != "http://example.com/1" || res.Accepted[1].URL != "http://example.com/5" {
		t.Errorf("order wrong: %s, %s", res.Accepted[0].URL, res.Accepted[1].URL)
	}
	// each rejection says which item and why
	wantReasons := []struct{ url, reason string }{
		{"http://example.com/2", "off topic"},
		{"", "missing url"},
		{"http://example.com/%zz", "unparseable url"},
		{"http://example.com/3", "missing title"},
		{"http://example.com/4", "bad section"},
	}
	for i, want := range wantReasons {
		got := res.Rejections[i]
		if got.URL != want.url || got.Reason != want.reason {
			t.Errorf("Rejections[%d]: got %+v, expected %+v", i, got, want)
		}
	}
	// accepted items carry their verdict
	q := res.Accepted[0].Quality
	if q.Verdict != "KEEP" || q.Confidence != "medium" || q.Reason == "" {
		t.Errorf("quality not recorded: %+v", q)
	}
}

func TestQualityGateFailsClosed(t *testing.T) {
	// a broken judge rejects everything rather than waving items through
	gate := NewQualityGate(&stubJudge{fail: true})

	batch := []*store.Item{
		{URL: "http://example.com/1", Title: "anything", Section: store.SectionPapers},
		{URL: "http://example.com/2", Title: "anything else", Section: store.SectionNews},
	}

	res := gate.Apply(batch)
	if len(res.Accepted) != 0 {
		t.Fatalf("Accepted: got %d, expected 0", len(res.Accepted))
	}
	if len(res.Rejections) != 2 {
		t.Errorf("Rejections: got %d, expected 2", len(res.Rejections))
	}
}

// sectionJudge drops everything outside one section.
type sectionJudge struct {
	keep string
}

func (j *sectionJudge) Judge(section, title, summary string) (classify.Verdict, error) {
	if section != j.keep {
		return classify.Verdict{Keep: false, Confidence: "high", Reason: "wrong section"}, nil
	}
	return classify.Verdict{Keep: true, Confidence: "high", Reason: "right section"}, nil
}

func TestQualityGateSectionAware(t *testing.T) {
	// the judge sees which section an item came from, so it can apply
	// different standards to papers and news
	gate := NewQualityGate(&sectionJudge{keep: "papers"})

	batch := []*store.Item{
		{URL: "http://example.com/p", Title: "a paper", Section: store.SectionPapers},
		{URL: "http://example.com/n", Title: "a news story", Section: store.SectionNews},
	}

	res := gate.Apply(batch)
	if len(res.Accepted) != 1 || res.Accepted[0].URL != "http://example.com/p" {
		t.Fatalf("Accepted: %+v", res.Accepted)
	}
	if len(res.Rejections) != 1 || res.Rejections[0].Reason != "wrong section" {
		t.Errorf("Rejections: %+v", res.Rejections)
	}
}

func TestQualityGateDeterministic(t *testing.T) {
	// same batch, same judge: the partition comes out identical both times
	mkBatch := func() []*store.Item {
		return []*store.Item{
			{URL: "http://example.com/1", Title: "keep me", Section: store.SectionPapers},
			{URL: "http://example.com/2", Title: "drop me", Section: store.SectionPapers},
			{URL: "", Title: "no url", Section: store.SectionNews},
			{URL: "http://example.com/5", Title: "keep me too", Section: store.SectionBlogs},
		}
	}

	res1 := NewQualityGate(&stubJudge{}).Apply(mkBatch())
	res2 := NewQualityGate(&stubJudge{}).Apply(mkBatch())

	if len(res1.Accepted) != len(res2.Accepted) {
		t.Fatalf("Accepted differ: %d vs %d", len(res1.Accepted), len(res2.Accepted))
	}
	for i := range res1.Accepted {
		if res1.Accepted[i].URL != res2.Accepted[i].URL {
			t.Errorf("Accepted[%d]: %q vs %q", i, res1.Accepted[i].URL, res2.Accepted[i].URL)
		}
	}
	if len(res1.Rejections) != len(res2.Rejections) {
		t.Fatalf("Rejections differ: %d vs %d", len(res1.Rejections), len(res2.Rejections))
	}
	for i := range res1.Rejections {
		if res1.Rejections[i] != res2.Rejections[i] {
			t.Errorf("Rejections[%d]: %+v vs %+v", i, res1.Rejections[i], res2.Rejections[i])
		}
	}
}
