package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bcampbell/digestomat/classify"
	"github.com/bcampbell/digestomat/email"
	"github.com/bcampbell/digestomat/store/sqlstore"
	"github.com/bcampbell/digestomat/trends"
	"github.com/flytam/filenamify"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var opts struct {
	driver     string
	connStr    string
	from, to   string
	period     string
	topN       int
	termWidth  int
	csvDir     string
	mailTo     string
	mailFrom   string
	smtpAddr   string
	classifier string
}

func init() {
	flag.StringVar(&opts.driver, "driver", "", "database driver (defaults to $DIGESTOMAT_DRIVER or sqlite3)")
	flag.StringVar(&opts.connStr, "db", "", "database connection `string` (defaults to $DIGESTOMAT_DB)")
	flag.StringVar(&opts.from, "from", "", "from date (YYYY-MM-DD, default 90 days ago)")
	flag.StringVar(&opts.to, "to", "", "to date (YYYY-MM-DD, default today)")
	flag.StringVar(&opts.period, "period", "week", "bucket size: week, month or year")
	flag.IntVar(&opts.topN, "n", 10, "show the top `n` topics (0=all)")
	flag.IntVar(&opts.termWidth, "w", 76, "output width for the ascii chart")
	flag.StringVar(&opts.csvDir, "csvdir", "", "write per-topic csv files into `dir` instead of drawing charts")
	flag.StringVar(&opts.mailTo, "mailto", "", "send the report as email to `addr` (comma separated) instead of drawing charts")
	flag.StringVar(&opts.mailFrom, "mailfrom", "", "From `addr` for -mailto")
	flag.StringVar(&opts.smtpAddr, "smtp", "localhost:25", "smtp server `addr` for -mailto")
	flag.StringVar(&opts.classifier, "classifier", "", "base `url` of an external topic extractor (default: builtin keywords)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, `
Aggregates stored items into per-topic trend series and displays them
using a noddy ascii art chart (or dumps them as csv).
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
	g, err := trends.ParseGranularity(opts.period)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -90)
	to := now
	if opts.from != "" {
		from, err = time.Parse("2006-01-02", opts.from)
		if err != nil {
			return fmt.Errorf("bad from: %s", err)
		}
	}
	if opts.to != "" {
		to, err = time.Parse("2006-01-02", opts.to)
		if err != nil {
			return fmt.Errorf("bad to: %s", err)
		}
		// make the end date inclusive
		to = to.AddDate(0, 0, 1).Add(-time.Second)
	}

	db, err := sqlstore.NewWithEnv(opts.driver, opts.connStr)
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := db.FetchDateRange(from, to)
	if err != nil {
		return err
	}

	// backfill labels onto any untagged items first, so they show up in
	// the series rather than silently dropping out
	var extractor classify.TopicExtractor
	if opts.classifier != "" {
		extractor = &classify.FallbackExtractor{
			Primary: classify.NewRemote(opts.classifier),
			Backup:  &classify.KeywordExtractor{},
		}
	} else {
		extractor = &classify.KeywordExtractor{}
	}
	err = trends.EnsureTopics(db, items, extractor, log.New(os.Stderr, "ERR: ", 0))
	if err != nil {
		return err
	}

	series := trends.Aggregate(items, trends.Options{
		From:        from,
		To:          to,
		Granularity: g,
		TopN:        opts.topN,
	})

	if len(series) == 0 {
		fmt.Println("no topic activity in range")
		return nil
	}

	if opts.csvDir != "" {
		return dumpCSV(series, g, opts.csvDir)
	}
	if opts.mailTo != "" {
		return mailReport(series, g)
	}
	dump(series, g, opts.termWidth)
	return nil
}

func mailReport(series []trends.TopicSeries, g trends.Granularity) error {
	msg, err := email.RenderTrends(series, g, time.Now().UTC())
	if err != nil {
		return err
	}
	sender := &email.SMTPSender{
		Addr: opts.smtpAddr,
		From: opts.mailFrom,
		To:   strings.Split(opts.mailTo, ","),
	}
	return sender.Send(msg)
}

// dump draws each topic's series as an ascii bar chart.
func dump(series []trends.TopicSeries, g trends.Granularity, termW int) {
	max := 0
	for _, ts := range series {
		for _, b := range ts.Buckets {
			if b.Count > max {
				max = b.Count
			}
		}
	}

	numReserve := len(fmt.Sprintf("%d", max))
	// room left for bars once the label and count columns are drawn.
	// silly-narrow widths just get bar-less output.
	w := termW - (10 + 1 + numReserve + 1 + 1)
	if w < 0 {
		w = 0
	}

	for _, ts := range series {
		fmt.Printf("%s (%d total)\n", ts.Topic, ts.Total)
		for _, b := range ts.Buckets {
			n := 0
			if max > 0 {
				n = (b.Count * 1024) / max
				n = (n * w) / 1024
			}
			bar := strings.Repeat("*", n)
			fmt.Printf("%10s %*d %s\n", g.Label(b.Start), numReserve, b.Count, bar)
		}
		fmt.Printf("\n")
	}
}

// dumpCSV writes one csv file per topic into dir.
func dumpCSV(series []trends.TopicSeries, g trends.Granularity, dir string) error {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	for _, ts := range series {
		safeName, err := filenamify.Filenamify(ts.Topic, filenamify.Options{})
		if err != nil {
			return err
		}
		fileName := filepath.Join(dir, safeName+".csv")

		f, err := os.Create(fileName)
		if err != nil {
			return err
		}
		out := csv.NewWriter(f)
		out.Write([]string{"period", "count"})
		for _, b := range ts.Buckets {
			out.Write([]string{g.Label(b.Start), strconv.Itoa(b.Count)})
		}
		out.Flush()
		if err := out.Error(); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", fileName)
	}
	return nil
}
