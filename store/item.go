package store

import (
	"fmt"
	"strings"
	"time"
)

// Section is which part of the digest an item was discovered for.
// There are exactly three - anything else is rejected before storage.
type Section string

const (
	SectionPapers Section = "papers"
	SectionNews   Section = "news"
	SectionBlogs  Section = "blogs"
)

func Sections() []Section {
	return []Section{SectionPapers, SectionNews, SectionBlogs}
}

// ParseSection maps free-form input ("Papers", " news ") onto one of the
// three fixed sections.
func ParseSection(s string) (Section, error) {
	switch Section(strings.ToLower(strings.TrimSpace(s))) {
	case SectionPapers:
		return SectionPapers, nil
	case SectionNews:
		return SectionNews, nil
	case SectionBlogs:
		return SectionBlogs, nil
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// Quality is the verdict recorded by the quality gate when an item was
// accepted into the archive.
type Quality struct {
	Verdict    string `json:"verdict,omitempty"`
	Confidence string `json:"confidence,omitempty"` // high|medium|low
	Reason     string `json:"reason,omitempty"`
}

// Item is one discovered piece of content, identified by URL.
type Item struct {
	URL        string  `json:"url"`
	Title      string  `json:"title"`
	Section    Section `json:"section"`
	SourceType string  `json:"source_type,omitempty"` // free-form provenance tag
	Publisher  string  `json:"publisher,omitempty"`
	Summary    string  `json:"summary,omitempty"`
	// Date is the publication date if the source supplied one, else the
	// date we discovered the item (see DateIsFound).
	Date time.Time `json:"date"`
	// DateIsFound marks Date as a discovery date rather than a true
	// publication date, so later analyses aren't fooled by re-dating.
	DateIsFound bool `json:"date_is_found,omitempty"`
	// FirstSeen is set once at insertion and never updated.
	FirstSeen time.Time `json:"first_seen,omitempty"`
	// SeenCount is how many runs have rediscovered this item.
	SeenCount int       `json:"seen_count,omitempty"`
	Quality   Quality   `json:"quality,omitempty"`
	// Topics are normalised labels. Derived - may be recomputed at any
	// time without changing the item's identity.
	Topics []string `json:"topics,omitempty"`
}
