package classify

import "strings"

// NormalizeLabel canonicalises a topic label - lowercased, with runs of
// whitespace collapsed to single spaces. Labels that differ only in case
// or spacing must land in the same trend bucket.
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

// NormalizeAll canonicalises a label set, dropping empties and repeats.
// Returns nil when nothing survives.
func NormalizeAll(labels []string) []string {
	out := []string{}
	got := map[string]struct{}{}
	for _, l := range labels {
		l = NormalizeLabel(l)
		if l == "" {
			continue
		}
		if _, dup := got[l]; dup {
			continue
		}
		got[l] = struct{}{}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
