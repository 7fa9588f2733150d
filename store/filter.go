package store

import (
	"fmt"
	"strings"
	"time"
)

// Filter is a set of params for querying the store.
type Filter struct {
	// date range is [From,To] - inclusive both ends
	DateFrom time.Time
	DateTo   time.Time
	// if empty, accept all sections (else only ones in list)
	Sections []Section
	// if empty, accept all source types
	SourceTypes []string
	// max number of items wanted (0 = no limit)
	Count int
}

const dateLayout = "2006-01-02"

// Describe returns a concise description of the filter for logging/debugging/whatever
func (filt *Filter) Describe() string {
	s := "[ "

	if !filt.DateFrom.IsZero() && !filt.DateTo.IsZero() {
		s += fmt.Sprintf("date %s..%s ", filt.DateFrom.Format(dateLayout), filt.DateTo.Format(dateLayout))
	} else if !filt.DateFrom.IsZero() {
		s += fmt.Sprintf("date %s.. ", filt.DateFrom.Format(dateLayout))
	} else if !filt.DateTo.IsZero() {
		s += fmt.Sprintf("date ..%s ", filt.DateTo.Format(dateLayout))
	}

	if len(filt.Sections) > 0 {
		foo := make([]string, len(filt.Sections))
		for i, sec := range filt.Sections {
			foo[i] = string(sec)
		}
		s += strings.Join(foo, "|") + " "
	}

	if len(filt.SourceTypes) > 0 {
		s += strings.Join(filt.SourceTypes, "|") + " "
	}

	if filt.Count > 0 {
		s += fmt.Sprintf("cnt %d ", filt.Count)
	}

	s += "]"
	return s
}
