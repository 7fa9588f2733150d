// Package classify decides whether items are on-topic, and pulls
// topic labels out of them for trend analysis.
package classify

// Verdict is a relevance judgement on a single item.
type Verdict struct {
	Keep       bool
	Confidence string // "high", "medium" or "low"
	Reason     string // one short sentence
}

// Judge decides whether an item is genuinely on-topic. The section is
// passed through so implementations can apply different standards per
// section (a papers heuristic must not leak into news judgements).
// Implementations may call out to an external service, so
// errors are expected - callers should treat an error as
// "couldn't judge", not as a verdict.
type Judge interface {
	Judge(section, title, summary string) (Verdict, error)
}

// TopicExtractor pulls normalised topic labels out of an item.
type TopicExtractor interface {
	Topics(title, summary string) ([]string, error)
}
