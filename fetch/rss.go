package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bcampbell/digestomat/store"
	"github.com/mmcdole/gofeed"
)

const summaryMaxLen = 300

// FeedSource pulls candidates from a single RSS/Atom feed.
type FeedSource struct {
	FeedName   string
	FeedURL    string
	Sec        store.Section
	SourceType string // eg "rss", "arxiv"
	Publisher  string
	// Lookback drops entries older than this (0 = keep everything).
	Lookback time.Duration

	parser *gofeed.Parser
}

func NewFeedSource(name, feedURL string, sec store.Section) *FeedSource {
	return &FeedSource{
		FeedName:   name,
		FeedURL:    feedURL,
		Sec:        sec,
		SourceType: "rss",
		parser:     gofeed.NewParser(),
	}
}

func (fs *FeedSource) Name() string           { return fs.FeedName }
func (fs *FeedSource) Section() store.Section { return fs.Sec }

func (fs *FeedSource) Fetch(ctx context.Context) ([]*store.Item, error) {
	if fs.parser == nil {
		fs.parser = gofeed.NewParser()
	}
	feed, err := fs.parser.ParseURLWithContext(fs.FeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", fs.FeedName, err)
	}

	now := time.Now().UTC()
	var cutoff time.Time
	if fs.Lookback > 0 {
		cutoff = now.Add(-fs.Lookback)
	}

	items := make([]*store.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		date := now
		dateIsFound := true
		if entry.PublishedParsed != nil {
			date = entry.PublishedParsed.UTC()
			dateIsFound = false
		} else if entry.UpdatedParsed != nil {
			date = entry.UpdatedParsed.UTC()
			dateIsFound = false
		}

		if !cutoff.IsZero() && date.Before(cutoff) {
			continue
		}

		desc := entry.Description
		if desc == "" {
			desc = entry.Content
		}

		items = append(items, &store.Item{
			URL:         entry.Link,
			Title:       strings.TrimSpace(entry.Title),
			Section:     fs.Sec,
			SourceType:  fs.SourceType,
			Publisher:   fs.publisherFor(feed),
			Summary:     truncate(stripHTML(desc), summaryMaxLen),
			Date:        date,
			DateIsFound: dateIsFound,
		})
	}
	return items, nil
}

func (fs *FeedSource) publisherFor(feed *gofeed.Feed) string {
	if fs.Publisher != "" {
		return fs.Publisher
	}
	return feed.Title
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
