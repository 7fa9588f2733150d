package main

import (
	"testing"
	"time"

	"github.com/bcampbell/digestomat/trends"
)

func TestDumpNarrowWidth(t *testing.T) {
	series := []trends.TopicSeries{
		{
			Topic: "sparse coding",
			Total: 5,
			Buckets: []trends.Bucket{
				{Start: time.Date(2023, 4, 3, 0, 0, 0, 0, time.UTC), Count: 5},
			},
		},
	}

	// widths narrower than the label and count columns must still render
	// (bar-less), not blow up
	for _, w := range []int{0, 5, 12, 76} {
		dump(series, trends.Weekly, w)
	}
}
