package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bcampbell/digestomat/classify"
	"github.com/bcampbell/digestomat/digest"
	"github.com/bcampbell/digestomat/email"
	"github.com/bcampbell/digestomat/fetch"
	"github.com/bcampbell/digestomat/store"
	"github.com/bcampbell/digestomat/store/sqlstore"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/gcfg.v1"
)

var opts struct {
	configFile string
	driver     string
	connStr    string
	dryRun     bool
	noEmail    bool
	verbosity  int
}

// Config is the digest run configuration (gcfg/ini format).
//
//	[digest]
//	lookbackdays=3
//	seenwindowdays=90
//	classifier=http://localhost:9970
//
//	[feed "arxiv"]
//	url=http://export.arxiv.org/rss/cs.NE
//	section=papers
//	sourcetype=arxiv
//
//	[email]
//	smtp=localhost:25
//	from=digest@example.com
//	to=someone@example.com
type Config struct {
	Digest struct {
		LookbackDays   int
		SeenWindowDays int
		// Classifier is the base url of an external judge/extractor.
		// If empty, the builtin keyword classifier is used.
		Classifier string
	}
	Feed map[string]*struct {
		URL        string
		Section    string
		SourceType string
		Publisher  string
	}
	Email struct {
		SMTP string
		From string
		To   []string
	}
}

func init() {
	flag.StringVar(&opts.configFile, "c", "digest.cfg", "config `file`")
	flag.StringVar(&opts.driver, "driver", "", "database driver (defaults to $DIGESTOMAT_DRIVER or sqlite3)")
	flag.StringVar(&opts.connStr, "db", "", "database connection `string` (defaults to $DIGESTOMAT_DB)")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "run the whole pipeline but don't write to the store or send email")
	flag.BoolVar(&opts.noEmail, "no-email", false, "skip sending the digest email")
	flag.IntVar(&opts.verbosity, "v", 1, "verbosity of output (0=errors only 1=info 2=debug)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, `
Fetches candidate items from the configured feeds, filters them through
the quality and dedup gates, stashes new ones in the store and sends
out a digest email.
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
	cfg := Config{}
	err := gcfg.ReadFileInto(&cfg, opts.configFile)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if cfg.Digest.LookbackDays == 0 {
		cfg.Digest.LookbackDays = 3
	}
	if cfg.Digest.SeenWindowDays == 0 {
		cfg.Digest.SeenWindowDays = 90
	}

	sources, err := buildSources(&cfg)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no feeds configured")
	}

	db, err := sqlstore.NewWithEnv(opts.driver, opts.connStr)
	if err != nil {
		return err
	}
	defer db.Close()

	errLog := log.New(os.Stderr, "ERR ", 0)
	infoLog := store.Logger(store.NullLogger{})
	if opts.verbosity > 0 {
		infoLog = log.New(os.Stderr, "", 0)
	}
	if opts.verbosity > 1 {
		db.DebugLog = log.New(os.Stderr, "dbg ", 0)
	}
	db.ErrLog = errLog

	var judge classify.Judge
	var extractor classify.TopicExtractor
	if cfg.Digest.Classifier != "" {
		remote := classify.NewRemote(cfg.Digest.Classifier)
		judge = remote
		// judging fails closed, but topic tagging can degrade to the
		// keyword vocabulary when the classifier is down
		extractor = &classify.FallbackExtractor{
			Primary: remote,
			Backup:  &classify.KeywordExtractor{},
		}
	} else {
		judge, extractor = &classify.KeywordJudge{}, &classify.KeywordExtractor{}
	}

	p := &digest.Pipeline{
		Store:     db,
		Judge:     judge,
		Extractor: extractor,
		Sources:   sources,
		Lookback:  time.Duration(cfg.Digest.SeenWindowDays) * 24 * time.Hour,
		DryRun:    opts.dryRun,
		InfoLog:   infoLog,
		ErrLog:    errLog,
	}

	res, err := p.Run(context.Background())
	if err != nil {
		return err
	}

	infoLog.Printf("run finished: %d new items in %s\n", res.TotalNew(), res.Duration)

	msg, err := email.RenderDigest(res)
	if err != nil {
		return err
	}

	if opts.dryRun {
		// show what would have gone out, plus the raw tallies
		sender := &email.WriterSender{Out: os.Stdout}
		if err := sender.Send(msg); err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if opts.noEmail {
		return nil
	}

	sender := &email.SMTPSender{
		Addr: cfg.Email.SMTP,
		From: cfg.Email.From,
		To:   cfg.Email.To,
	}
	return sender.Send(msg)
}

func buildSources(cfg *Config) ([]fetch.Source, error) {
	lookback := time.Duration(cfg.Digest.LookbackDays) * 24 * time.Hour

	sources := []fetch.Source{}
	for name, feed := range cfg.Feed {
		if feed.URL == "" {
			return nil, fmt.Errorf("feed %q: missing url", name)
		}
		sec, err := store.ParseSection(feed.Section)
		if err != nil {
			return nil, fmt.Errorf("feed %q: %s", name, err)
		}
		src := fetch.NewFeedSource(name, feed.URL, sec)
		src.Lookback = lookback
		if feed.SourceType != "" {
			src.SourceType = feed.SourceType
		}
		src.Publisher = feed.Publisher
		sources = append(sources, src)
	}
	return sources, nil
}
