package ingest

import (
	"strings"

	"github.com/bcampbell/digestomat/classify"
	"github.com/bcampbell/digestomat/store"
)

// Rejection records why one candidate was turned away.
type Rejection struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// GateResult is a batch partitioned by the quality gate.
type GateResult struct {
	Accepted   []*store.Item // batch order preserved
	Rejections []Rejection   // one per dropped item, batch order preserved
}

// QualityGate filters a batch down to items the Judge keeps.
// The gate fails closed: if the Judge can't produce a verdict for an
// item (network trouble, garbled response), the item is rejected and
// logged, never waved through.
type QualityGate struct {
	Judge  classify.Judge
	ErrLog store.Logger
}

func NewQualityGate(judge classify.Judge) *QualityGate {
	return &QualityGate{Judge: judge, ErrLog: store.NullLogger{}}
}

// Apply runs the batch through the gate. Malformed items (missing or
// unparseable url, missing title, unknown section) are rejected before
// the Judge ever sees them. Each accepted item carries the verdict that
// let it through; each rejection carries its reason.
func (g *QualityGate) Apply(batch []*store.Item) GateResult {
	res := GateResult{Accepted: []*store.Item{}}

	reject := func(it *store.Item, reason string) {
		g.ErrLog.Printf("reject %q: %s\n", it.URL, reason)
		res.Rejections = append(res.Rejections, Rejection{URL: it.URL, Reason: reason})
	}

	for _, it := range batch {
		if reason := malformed(it); reason != "" {
			reject(it, reason)
			continue
		}

		v, err := g.Judge.Judge(string(it.Section), it.Title, it.Summary)
		if err != nil {
			// fail closed.
			reject(it, "judge error: "+err.Error())
			continue
		}
		if !v.Keep {
			reject(it, v.Reason)
			continue
		}

		it.Quality = store.Quality{
			Verdict:    "KEEP",
			Confidence: v.Confidence,
			Reason:     v.Reason,
		}
		res.Accepted = append(res.Accepted, it)
	}
	return res
}

func malformed(it *store.Item) string {
	if strings.TrimSpace(it.URL) == "" {
		return "missing url"
	}
	if canon, err := CanonicalURL(it.URL); err != nil || canon == "" {
		return "unparseable url"
	}
	if strings.TrimSpace(it.Title) == "" {
		return "missing title"
	}
	if _, err := store.ParseSection(string(it.Section)); err != nil {
		return "bad section"
	}
	return ""
}
