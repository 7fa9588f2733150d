// Package fetch discovers candidate items from outside sources.
package fetch

import (
	"context"

	"github.com/bcampbell/digestomat/store"
)

// Source produces a batch of candidate items for one section.
// Candidates are raw - the ingest gates decide what survives.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Section is which digest section this source feeds.
	Section() store.Section
	// Fetch returns candidates no older than the lookback window.
	Fetch(ctx context.Context) ([]*store.Item, error)
}
