package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bcampbell/digestomat/store"
	"github.com/bcampbell/digestomat/store/sqlstore"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var opts struct {
	driver   string
	connStr  string
	url      string
	stats    bool
	from, to string
	sections string
	limit    int
	jsonOut  bool
}

func init() {
	flag.StringVar(&opts.driver, "driver", "", "database driver (defaults to $DIGESTOMAT_DRIVER or sqlite3)")
	flag.StringVar(&opts.connStr, "db", "", "database connection `string` (defaults to $DIGESTOMAT_DB)")
	flag.StringVar(&opts.url, "url", "", "look up a single item by url")
	flag.BoolVar(&opts.stats, "stats", false, "show archive stats and exit")
	flag.StringVar(&opts.from, "from", "", "from date (YYYY-MM-DD)")
	flag.StringVar(&opts.to, "to", "", "to date (YYYY-MM-DD)")
	flag.StringVar(&opts.sections, "section", "", "only these sections (comma separated: papers,news,blogs)")
	flag.IntVar(&opts.limit, "limit", 20, "max items to show (0=no limit)")
	flag.BoolVar(&opts.jsonOut, "j", false, "output as json")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, `
Pokes about in the item archive.
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	db, err := sqlstore.NewWithEnv(opts.driver, opts.connStr)
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.stats {
		stats, err := db.Stats()
		if err != nil {
			return err
		}
		return dumpJSON(stats)
	}

	if opts.url != "" {
		it, err := db.GetByURL(opts.url)
		if err != nil {
			return err
		}
		return dumpJSON(it)
	}

	filt, err := buildFilter()
	if err != nil {
		return err
	}

	items, err := db.ListRecent(filt)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		return dumpJSON(items)
	}
	for _, it := range items {
		fmt.Printf("%s [%s] %s\n    %s\n", it.Date.Format("2006-01-02"), it.Section, it.Title, it.URL)
		if len(it.Topics) > 0 {
			fmt.Printf("    topics: %s\n", strings.Join(it.Topics, ", "))
		}
	}
	return nil
}

func buildFilter() (*store.Filter, error) {
	filt := &store.Filter{Count: opts.limit}

	if opts.from != "" {
		from, err := time.Parse("2006-01-02", opts.from)
		if err != nil {
			return nil, fmt.Errorf("bad from: %s", err)
		}
		filt.DateFrom = from
	}
	if opts.to != "" {
		to, err := time.Parse("2006-01-02", opts.to)
		if err != nil {
			return nil, fmt.Errorf("bad to: %s", err)
		}
		filt.DateTo = to.AddDate(0, 0, 1).Add(-time.Second)
	}
	if opts.sections != "" {
		for _, raw := range strings.Split(opts.sections, ",") {
			sec, err := store.ParseSection(raw)
			if err != nil {
				return nil, err
			}
			filt.Sections = append(filt.Sections, sec)
		}
	}
	return filt, nil
}

func dumpJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
