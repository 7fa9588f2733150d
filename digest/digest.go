// Package digest runs the whole ingestion pipeline: fetch candidates
// from the configured sources, pass them through the quality and dedup
// gates, and stash survivors in the store.
package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/bcampbell/digestomat/classify"
	"github.com/bcampbell/digestomat/fetch"
	"github.com/bcampbell/digestomat/ingest"
	"github.com/bcampbell/digestomat/store"
)

// SectionResult is the tally for one section's batch.
type SectionResult struct {
	Section     store.Section      `json:"section"`
	Fetched     int                `json:"fetched"`
	Rejected    int                `json:"rejected"`             // failed the quality gate
	Rejections  []ingest.Rejection `json:"rejections,omitempty"` // why, per dropped item
	BatchDups   int                `json:"batch_dups"`           // duplicated within the batch
	AlreadySeen int                `json:"already_seen"`         // already in the store
	NewItems    []*store.Item      `json:"new_items"`            // what actually landed
}

// RunResult is one complete pipeline run.
type RunResult struct {
	Started  time.Time        `json:"started"`
	Duration time.Duration    `json:"duration"`
	Sections []*SectionResult `json:"sections"`
	// SourceErrors counts sources that failed outright and were skipped.
	SourceErrors int `json:"source_errors,omitempty"`
}

func (r *RunResult) TotalNew() int {
	n := 0
	for _, s := range r.Sections {
		n += len(s.NewItems)
	}
	return n
}

// Pipeline wires the stages together. Judge failures reject items
// (the quality gate fails closed); source failures skip that source;
// store failures abort the run.
type Pipeline struct {
	Store   store.Store
	Judge   classify.Judge
	Sources []fetch.Source
	// Extractor, if set, tags new items with topic labels before they
	// are stored. Extraction failures aren't fatal - the item goes in
	// untagged and can be backfilled later.
	Extractor classify.TopicExtractor
	// Lookback bounds the dedup seen-set query. Dups older than this
	// are caught by the store's uniqueness check instead.
	Lookback time.Duration
	// DryRun runs every gate but skips the store writes.
	DryRun bool

	InfoLog store.Logger
	ErrLog  store.Logger
}

const defaultLookback = 90 * 24 * time.Hour

func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	infoLog := p.InfoLog
	if infoLog == nil {
		infoLog = store.NullLogger{}
	}
	errLog := p.ErrLog
	if errLog == nil {
		errLog = store.NullLogger{}
	}

	res := &RunResult{Started: time.Now().UTC()}

	lookback := p.Lookback
	if lookback == 0 {
		lookback = defaultLookback
	}
	seen, err := p.Store.SeenURLs(res.Started.Add(-lookback))
	if err != nil {
		return nil, fmt.Errorf("loading seen urls: %w", err)
	}
	infoLog.Printf("seen set: %d urls\n", len(seen))

	deduper := ingest.NewDeduper(seen)
	gate := &ingest.QualityGate{Judge: p.Judge, ErrLog: errLog}

	// one batch per section, sources grouped in config order
	bySection := map[store.Section][]*store.Item{}
	for _, src := range p.Sources {
		batch, err := src.Fetch(ctx)
		if err != nil {
			errLog.Printf("source %s failed: %s\n", src.Name(), err)
			res.SourceErrors++
			continue
		}
		infoLog.Printf("source %s: %d candidates\n", src.Name(), len(batch))
		bySection[src.Section()] = append(bySection[src.Section()], batch...)
	}

	for _, sec := range store.Sections() {
		batch := bySection[sec]
		sr := &SectionResult{Section: sec, Fetched: len(batch)}
		res.Sections = append(res.Sections, sr)
		if len(batch) == 0 {
			sr.NewItems = []*store.Item{}
			continue
		}

		// quality first, so off-topic items never cost a dedup lookup
		gated := gate.Apply(batch)
		sr.Rejections = gated.Rejections
		sr.Rejected = len(gated.Rejections)

		parted := deduper.Partition(gated.Accepted)
		sr.BatchDups = parted.BatchDups
		sr.AlreadySeen = parted.AlreadySeen
		sr.NewItems = parted.New

		if p.DryRun {
			infoLog.Printf("%s: dry run, skipping %d inserts\n", sec, len(parted.New))
			continue
		}

		for _, it := range parted.New {
			if p.Extractor != nil {
				topics, err := p.Extractor.Topics(it.Title, it.Summary)
				if err != nil {
					errLog.Printf("topic extraction failed for %s: %s\n", it.URL, err)
				} else {
					it.Topics = classify.NormalizeAll(topics)
				}
			}
			ir, err := p.Store.InsertIfNew(it)
			if err != nil {
				return nil, fmt.Errorf("inserting %s: %w", it.URL, err)
			}
			if ir == store.Duplicate {
				// slipped past the seen-set window - the store's
				// uniqueness check caught it.
				errLog.Printf("late duplicate: %s\n", it.URL)
			}
		}
		infoLog.Printf("%s: %d fetched, %d rejected, %d dups, %d new\n",
			sec, sr.Fetched, sr.Rejected, sr.BatchDups+sr.AlreadySeen, len(sr.NewItems))
	}

	res.Duration = time.Since(res.Started)
	return res, nil
}
