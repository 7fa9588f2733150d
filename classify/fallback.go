package classify

// FallbackExtractor tries Primary, and on error quietly falls back to
// Backup. Topic labels are derived data, so a degraded answer beats no
// answer - unlike judging, where failure must stay fail-closed.
type FallbackExtractor struct {
	Primary TopicExtractor
	Backup  TopicExtractor
}

func (f *FallbackExtractor) Topics(title, summary string) ([]string, error) {
	topics, err := f.Primary.Topics(title, summary)
	if err == nil {
		return topics, nil
	}
	return f.Backup.Topics(title, summary)
}
