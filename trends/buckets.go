package trends

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the width of a trend bucket.
type Granularity string

const (
	Weekly  Granularity = "week" // ISO weeks, Monday start
	Monthly Granularity = "month"
	Yearly  Granularity = "year"
)

func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	case Yearly:
		return Yearly, nil
	}
	return "", fmt.Errorf("unknown period %q (want week, month or year)", s)
}

// BucketStart truncates t down to the start of its bucket, in UTC.
// Weeks start on Monday, per ISO 8601.
func (g Granularity) BucketStart(t time.Time) time.Time {
	t = t.UTC()
	switch g {
	case Weekly:
		// Weekday() has Sunday=0; shuffle so Monday=0.
		back := (int(t.Weekday()) + 6) % 7
		t = t.AddDate(0, 0, -back)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Yearly:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Next returns the start of the bucket after the one starting at t.
func (g Granularity) Next(t time.Time) time.Time {
	switch g {
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Monthly:
		return t.AddDate(0, 1, 0)
	case Yearly:
		return t.AddDate(1, 0, 0)
	}
	return t.AddDate(0, 0, 1)
}

// Label renders a bucket start the way the granularity is usually
// written - ISO week ("2023-W14"), month ("2023-04") or year.
func (g Granularity) Label(t time.Time) string {
	switch g {
	case Weekly:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", y, w)
	case Monthly:
		return t.Format("2006-01")
	case Yearly:
		return t.Format("2006")
	}
	return t.Format("2006-01-02")
}

// Range returns every bucket start from the bucket containing from up
// to and including the bucket containing to. Empty if from is after to.
func (g Granularity) Range(from, to time.Time) []time.Time {
	if from.After(to) {
		return []time.Time{}
	}
	out := []time.Time{}
	end := g.BucketStart(to)
	for b := g.BucketStart(from); !b.After(end); b = g.Next(b) {
		out = append(out, b)
	}
	return out
}
