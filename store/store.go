package store

import (
	"errors"
	"time"
)

type Logger interface {
	Printf(format string, v ...interface{})
}

type NullLogger struct{}

func (l NullLogger) Printf(format string, v ...interface{}) {
}

// ErrNotFound is returned by GetByURL when no item has the given URL.
var ErrNotFound = errors.New("item not found")

// InsertResult says what InsertIfNew did. Duplicate is an expected,
// non-error outcome - the caller decides whether it cares.
type InsertResult int

const (
	Inserted InsertResult = iota
	Duplicate
)

func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case Duplicate:
		return "duplicate"
	}
	return "???"
}

// Stats is a rollup of what's in the archive.
type Stats struct {
	Total        int             `json:"total"`
	BySection    map[Section]int `json:"by_section"`
	BySourceType map[string]int  `json:"by_source_type"`
	EarliestDate time.Time       `json:"earliest_date,omitempty"`
	LatestDate   time.Time       `json:"latest_date,omitempty"`
}

// Store is the archive of discovered items, keyed by URL.
// Implementations must keep InsertIfNew atomic with respect to itself -
// two inserts for the same URL can never both report Inserted.
type Store interface {
	// InsertIfNew adds the item unless its URL is already stored.
	// On Duplicate the existing row keeps its URL and FirstSeen
	// untouched; only SeenCount (and the last-seen stamp) move.
	InsertIfNew(it *Item) (InsertResult, error)

	// ListRecent returns items matching filt, newest Date first,
	// ties broken by FirstSeen descending.
	ListRecent(filt *Filter) ([]*Item, error)

	// GetByURL fetches a single item, or ErrNotFound.
	GetByURL(url string) (*Item, error)

	// FetchDateRange returns items with from <= Date <= to (inclusive
	// both ends), oldest first.
	FetchDateRange(from, to time.Time) ([]*Item, error)

	// SeenURLs returns the set of URLs last seen on or after the given
	// time - the dedup gate's "seen set". The window is a performance
	// tunable; the InsertIfNew uniqueness check is the correctness
	// backstop for anything that slips past it.
	SeenURLs(since time.Time) (map[string]struct{}, error)

	// SetTopics replaces the stored topic labels for an item.
	SetTopics(url string, topics []string) error

	Stats() (*Stats, error)

	Close()
}
