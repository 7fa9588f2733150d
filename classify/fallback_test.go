package classify

import (
	"errors"
	"testing"
)

type brokenExtractor struct{}

func (brokenExtractor) Topics(title, summary string) ([]string, error) {
	return nil, errors.New("classifier unreachable")
}

func TestFallbackExtractor(t *testing.T) {
	f := &FallbackExtractor{
		Primary: brokenExtractor{},
		Backup:  &KeywordExtractor{},
	}
	topics, err := f.Topics("Hypervector Encoding", "")
	if err != nil {
		t.Fatalf("Topics: %s", err)
	}
	if len(topics) == 0 {
		t.Errorf("fallback produced no topics")
	}
}
