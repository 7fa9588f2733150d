// Package trends turns stored items into per-topic time series -
// how often each topic label shows up, bucketed by week, month or year.
package trends

import (
	"sort"
	"time"

	"github.com/bcampbell/digestomat/store"
)

// Bucket is one time slot in a topic's series.
type Bucket struct {
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

// TopicSeries is the full history of one topic label across the
// requested range. Buckets always cover the whole range - slots with
// no mentions are present with a zero count.
type TopicSeries struct {
	Topic   string   `json:"topic"`
	Buckets []Bucket `json:"buckets"`
	// FirstSeen/LastSeen are the earliest and latest item dates carrying
	// this topic within the analysed range.
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	Total     int       `json:"total"`
}

type Options struct {
	From        time.Time
	To          time.Time
	Granularity Granularity
	// TopN caps how many topics come back (0 = all).
	TopN int
}

// Aggregate builds ranked topic series from a set of items. Each item
// counts once per topic label it carries. Items outside [From,To] are
// ignored, as are topics with no mentions in range. Ranking is total
// mentions descending, then most-recently-seen, then label - so the
// ordering is deterministic for a given input.
func Aggregate(items []*store.Item, opts Options) []TopicSeries {
	slots := opts.Granularity.Range(opts.From, opts.To)
	if len(slots) == 0 {
		return []TopicSeries{}
	}
	slotIdx := map[time.Time]int{}
	for i, s := range slots {
		slotIdx[s] = i
	}

	// topic -> counts per slot, plus earliest/latest item dates
	counts := map[string][]int{}
	firstSeen := map[string]time.Time{}
	lastSeen := map[string]time.Time{}
	for _, it := range items {
		if it.Date.Before(opts.From) || it.Date.After(opts.To) {
			continue
		}
		i, ok := slotIdx[opts.Granularity.BucketStart(it.Date)]
		if !ok {
			continue
		}
		for _, topic := range it.Topics {
			row := counts[topic]
			if row == nil {
				row = make([]int, len(slots))
				counts[topic] = row
			}
			row[i]++
			if f, got := firstSeen[topic]; !got || it.Date.Before(f) {
				firstSeen[topic] = it.Date
			}
			if l, got := lastSeen[topic]; !got || it.Date.After(l) {
				lastSeen[topic] = it.Date
			}
		}
	}

	out := make([]TopicSeries, 0, len(counts))
	for topic, row := range counts {
		ts := TopicSeries{
			Topic:     topic,
			Buckets:   make([]Bucket, len(slots)),
			FirstSeen: firstSeen[topic],
			LastSeen:  lastSeen[topic],
		}
		for i, slot := range slots {
			ts.Buckets[i] = Bucket{Start: slot, Count: row[i]}
			ts.Total += row[i]
		}
		if ts.Total == 0 {
			continue
		}
		out = append(out, ts)
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].Total != out[b].Total {
			return out[a].Total > out[b].Total
		}
		if !out[a].LastSeen.Equal(out[b].LastSeen) {
			return out[a].LastSeen.After(out[b].LastSeen)
		}
		return out[a].Topic < out[b].Topic
	})

	if opts.TopN > 0 && len(out) > opts.TopN {
		out = out[:opts.TopN]
	}
	return out
}
