package classify

import (
	"sort"
	"strings"
	"unicode"
)

// strong terms - any of these and the item is almost certainly ours.
var strongKeywords = []string{
	"hyperdimensional computing",
	"hyperdimensional",
	"hypervector",
	"vector symbolic",
	"vsa",
	"hdc",
	"holographic reduced",
	"hrr",
}

// supporting terms - suggestive on their own, convincing in numbers.
var weakKeywords = []string{
	"binding",
	"bundling",
	"permutation",
	"high-dimensional",
	"neuromorphic",
	"brain-inspired",
	"symbolic architecture",
	"distributed representation",
}

// KeywordJudge is a local fallback Judge - a keyword scorer over title
// and summary, with title matches weighted double. The same vocabulary
// applies to every section. No network, never returns an error.
type KeywordJudge struct{}

func (kj *KeywordJudge) Judge(section, title, summary string) (Verdict, error) {
	titleLower := strings.ToLower(title)
	summaryLower := strings.ToLower(summary)

	strong := 0
	weak := 0
	for _, kw := range strongKeywords {
		strong += 2*countMatches(titleLower, kw) + countMatches(summaryLower, kw)
	}
	for _, kw := range weakKeywords {
		weak += 2*countMatches(titleLower, kw) + countMatches(summaryLower, kw)
	}

	switch {
	case strong >= 2:
		return Verdict{Keep: true, Confidence: "high", Reason: "core terminology throughout"}, nil
	case strong == 1:
		return Verdict{Keep: true, Confidence: "medium", Reason: "core terminology present"}, nil
	case weak >= 3:
		return Verdict{Keep: true, Confidence: "low", Reason: "several related terms, no core terminology"}, nil
	default:
		return Verdict{Keep: false, Confidence: "high", Reason: "no relevant terminology found"}, nil
	}
}

// countMatches counts whole-token occurrences of kw in pre-lowered text.
// Multi-word keywords are matched as substrings.
func countMatches(textLower, kw string) int {
	if strings.Contains(kw, " ") || strings.Contains(kw, "-") {
		return strings.Count(textLower, kw)
	}
	n := 0
	for _, tok := range tokenize(textLower) {
		if tok == kw {
			n++
		}
	}
	return n
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// topicKeywords maps canonical topic labels to the keywords that signal
// them. Labels here are already in normalised form.
var topicKeywords = map[string][]string{
	"binding operations":            {"binding", "bundling"},
	"vector symbolic architectures": {"vsa", "vector symbolic"},
	"neuromorphic computing":        {"neuromorphic", "brain-inspired"},
	"hardware acceleration":         {"hardware", "fpga", "asic"},
	"machine learning":              {"learning", "classification", "neural"},
	"permutation operations":        {"permutation", "shift"},
	"hypervector encoding":          {"encoding", "hypervector"},
	"similarity search":             {"similarity", "search", "retrieval"},
	"energy efficiency":             {"energy", "efficient", "power"},
	"scalability":                   {"scalable", "scale", "large-scale"},
}

// KeywordExtractor is a local fallback TopicExtractor, matching a fixed
// vocabulary of topic labels against the item text.
type KeywordExtractor struct{}

func (ke *KeywordExtractor) Topics(title, summary string) ([]string, error) {
	textLower := strings.ToLower(title + " " + summary)

	var topics []string
	for topic, keys := range topicKeywords {
		for _, key := range keys {
			if strings.Contains(textLower, key) {
				topics = append(topics, topic)
				break
			}
		}
	}
	sort.Strings(topics)
	return topics, nil
}
