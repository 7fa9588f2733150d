package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bcampbell/digestomat/store"
	"github.com/bcampbell/digestomat/trends"
)

const yyyymmddLayout = "2006-01-02"

func parseTime(in string) (time.Time, error) {
	t, err := time.ParseInLocation(time.RFC3339, in, time.UTC)
	if err == nil {
		return t, nil
	}

	// short form - assumes you want utc days rather than local days...
	t, err = time.ParseInLocation(yyyymmddLayout, in, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time format")
	}
	return t, nil
}

func getFilter(r *http.Request) (*store.Filter, error) {
	maxCount := 2000

	filt := &store.Filter{}

	if r.FormValue("from") != "" {
		t, err := parseTime(r.FormValue("from"))
		if err != nil {
			return nil, fmt.Errorf("bad 'from' param")
		}
		filt.DateFrom = t
	}

	if r.FormValue("to") != "" {
		t, err := parseTime(r.FormValue("to"))
		if err != nil {
			return nil, fmt.Errorf("bad 'to' param")
		}
		// day-granular 'to' is inclusive
		filt.DateTo = t.AddDate(0, 0, 1).Add(-time.Second)
	}

	if r.FormValue("count") != "" {
		cnt, err := strconv.Atoi(r.FormValue("count"))
		if err != nil {
			return nil, fmt.Errorf("bad 'count' param")
		}
		filt.Count = cnt
	} else {
		filt.Count = maxCount
	}
	if filt.Count > maxCount {
		return nil, fmt.Errorf("'count' too high (max %d)", maxCount)
	}

	if secs, got := r.Form["section"]; got {
		for _, raw := range secs {
			sec, err := store.ParseSection(raw)
			if err != nil {
				return nil, err
			}
			filt.Sections = append(filt.Sections, sec)
		}
	}

	if sts, got := r.Form["sourcetype"]; got {
		filt.SourceTypes = sts
	}

	return filt, nil
}

func getTrendOptions(r *http.Request) (*trends.Options, error) {
	opts := &trends.Options{
		Granularity: trends.Weekly,
		TopN:        10,
	}

	now := time.Now().UTC()
	opts.From = now.AddDate(0, 0, -90)
	opts.To = now

	if r.FormValue("from") != "" {
		t, err := parseTime(r.FormValue("from"))
		if err != nil {
			return nil, fmt.Errorf("bad 'from' param")
		}
		opts.From = t
	}
	if r.FormValue("to") != "" {
		t, err := parseTime(r.FormValue("to"))
		if err != nil {
			return nil, fmt.Errorf("bad 'to' param")
		}
		opts.To = t.AddDate(0, 0, 1).Add(-time.Second)
	}
	if r.FormValue("period") != "" {
		g, err := trends.ParseGranularity(r.FormValue("period"))
		if err != nil {
			return nil, err
		}
		opts.Granularity = g
	}
	if r.FormValue("n") != "" {
		n, err := strconv.Atoi(r.FormValue("n"))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad 'n' param")
		}
		opts.TopN = n
	}

	return opts, nil
}
