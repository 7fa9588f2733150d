package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bcampbell/digestomat/classify"
	"github.com/bcampbell/digestomat/store"
	"github.com/bcampbell/digestomat/trends"
	"github.com/gorilla/handlers"
)

func EmitError(w http.ResponseWriter, statusCode int) {
	txt := fmt.Sprintf("%d - %s", statusCode, http.StatusText(statusCode))
	http.Error(w, txt, statusCode)
}

type DigestServer struct {
	ErrLog  store.Logger
	InfoLog store.Logger
	Port    int
	Prefix  string

	db store.Store
	// extractor backfills topic labels onto untagged items before trend
	// aggregation, so old rows still show up in the series.
	extractor classify.TopicExtractor
}

func NewServer(db store.Store, extractor classify.TopicExtractor, port int, prefix string, infoLog store.Logger, errLog store.Logger) *DigestServer {
	return &DigestServer{db: db, extractor: extractor, Port: port, Prefix: prefix, InfoLog: infoLog, ErrLog: errLog}
}

func (srv *DigestServer) Run() error {
	http.Handle(srv.Prefix+"/api/items", handlers.CompressHandler(
		http.HandlerFunc(srv.itemsHandler)))

	http.Handle(srv.Prefix+"/api/item", handlers.CompressHandler(
		http.HandlerFunc(srv.itemHandler)))

	http.Handle(srv.Prefix+"/api/trends", handlers.CompressHandler(
		http.HandlerFunc(srv.trendsHandler)))

	http.HandleFunc(srv.Prefix+"/api/stats", srv.statsHandler)

	srv.InfoLog.Printf("Started at localhost:%d%s/\n", srv.Port, srv.Prefix)
	return http.ListenAndServe(fmt.Sprintf(":%d", srv.Port), nil)
}

func (srv *DigestServer) emitJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		srv.ErrLog.Printf("%s write failed: %s\n", r.RemoteAddr, err)
		return
	}
	srv.InfoLog.Printf("%s OK %s\n", r.RemoteAddr, r.URL.Path)
}

// GET /api/items?from=&to=&section=&count=
func (srv *DigestServer) itemsHandler(w http.ResponseWriter, r *http.Request) {
	filt, err := getFilter(r)
	if err != nil {
		EmitError(w, 400)
		return
	}

	items, err := srv.db.ListRecent(filt)
	if err != nil {
		srv.ErrLog.Printf("DB error: %s\n", err)
		EmitError(w, 500)
		return
	}

	srv.InfoLog.Printf("%s items %s\n", r.RemoteAddr, filt.Describe())
	srv.emitJSON(w, r, struct {
		Items []*store.Item `json:"items"`
	}{items})
}

// GET /api/item?url=
func (srv *DigestServer) itemHandler(w http.ResponseWriter, r *http.Request) {
	u := r.FormValue("url")
	if u == "" {
		EmitError(w, 400)
		return
	}

	it, err := srv.db.GetByURL(u)
	if err == store.ErrNotFound {
		EmitError(w, 404)
		return
	}
	if err != nil {
		srv.ErrLog.Printf("DB error: %s\n", err)
		EmitError(w, 500)
		return
	}
	srv.emitJSON(w, r, it)
}

// GET /api/trends?from=&to=&period=&n=
func (srv *DigestServer) trendsHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := getTrendOptions(r)
	if err != nil {
		EmitError(w, 400)
		return
	}

	items, err := srv.db.FetchDateRange(opts.From, opts.To)
	if err != nil {
		srv.ErrLog.Printf("DB error: %s\n", err)
		EmitError(w, 500)
		return
	}

	err = trends.EnsureTopics(srv.db, items, srv.extractor, srv.ErrLog)
	if err != nil {
		srv.ErrLog.Printf("DB error: %s\n", err)
		EmitError(w, 500)
		return
	}

	series := trends.Aggregate(items, *opts)
	srv.emitJSON(w, r, struct {
		From   time.Time            `json:"from"`
		To     time.Time            `json:"to"`
		Period trends.Granularity   `json:"period"`
		Topics []trends.TopicSeries `json:"topics"`
	}{opts.From, opts.To, opts.Granularity, series})
}

// GET /api/stats
func (srv *DigestServer) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := srv.db.Stats()
	if err != nil {
		srv.ErrLog.Printf("DB error: %s\n", err)
		EmitError(w, 500)
		return
	}
	srv.emitJSON(w, r, stats)
}
