package trends

import (
	"github.com/bcampbell/digestomat/classify"
	"github.com/bcampbell/digestomat/store"
)

// EnsureTopics backfills topic labels onto items that don't have any,
// running the extractor over their text and persisting the labels via
// SetTopics. Items stored before topic tagging existed (or whose
// tagging failed at ingest time) would otherwise be invisible to
// Aggregate. Extraction failures skip the item and are logged; store
// failures abort.
func EnsureTopics(st store.Store, items []*store.Item, ex classify.TopicExtractor, errLog store.Logger) error {
	if ex == nil {
		return nil
	}
	if errLog == nil {
		errLog = store.NullLogger{}
	}

	for _, it := range items {
		if len(it.Topics) > 0 {
			continue
		}
		topics, err := ex.Topics(it.Title, it.Summary)
		if err != nil {
			errLog.Printf("topic extraction failed for %s: %s\n", it.URL, err)
			continue
		}
		topics = classify.NormalizeAll(topics)
		if len(topics) == 0 {
			continue
		}
		if err := st.SetTopics(it.URL, topics); err != nil {
			return err
		}
		it.Topics = topics
	}
	return nil
}
