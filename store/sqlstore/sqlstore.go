package sqlstore

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bcampbell/digestomat/store"
)

// SQLStore keeps digest items in an SQL database.
// Works against sqlite3 or postgres - queries are written with `?`
// placeholders and rebound to the driver's style.
type SQLStore struct {
	db         *sql.DB
	driverName string
	ErrLog     store.Logger
	DebugLog   store.Logger
}

// eg "postgres", "postgres://username@localhost/dbname"
// eg "sqlite3", "/tmp/digest.db"
func New(driver string, connStr string) (*SQLStore, error) {
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, err
	}
	return NewFromDB(driver, db)
}

func NewFromDB(driver string, db *sql.DB) (*SQLStore, error) {
	err := db.Ping()
	if err != nil {
		db.Close()
		return nil, err
	}

	ss := SQLStore{
		db:         db,
		driverName: driver,
		ErrLog:     store.NullLogger{},
		DebugLog:   store.NullLogger{},
	}

	err = ss.checkSchema()
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ss, nil
}

// Same as New(), but if driver or connStr is missing, will try and read them
// from environment vars: DIGESTOMAT_DRIVER & DIGESTOMAT_DB.
// If both driver and DIGESTOMAT_DRIVER are empty, default is "sqlite3".
func NewWithEnv(driver string, connStr string) (*SQLStore, error) {
	if connStr == "" {
		connStr = os.Getenv("DIGESTOMAT_DB")
	}
	if driver == "" {
		driver = os.Getenv("DIGESTOMAT_DRIVER")
		if driver == "" {
			driver = "sqlite3"
		}
	}

	if connStr == "" {
		return nil, fmt.Errorf("no database specified (set DIGESTOMAT_DB?)")
	}

	return New(driver, connStr)
}

func (ss *SQLStore) Close() {
	if ss.db != nil {
		ss.db.Close()
		ss.db = nil
	}
}

func (ss *SQLStore) rebind(q string) string {
	return rebind(bindType(ss.driverName), q)
}

const itemCols = `id,url,title,section,source_type,publisher,summary,date,date_is_found,first_seen,seen_count,quality_verdict,quality_confidence,quality_reason`

// Build a WHERE clause from a filter.
func buildWhere(filt *store.Filter) (string, []interface{}) {
	params := []interface{}{}
	frags := []string{}

	if !filt.DateFrom.IsZero() {
		frags = append(frags, "date>=?")
		params = append(params, filt.DateFrom)
	}
	if !filt.DateTo.IsZero() {
		frags = append(frags, "date<=?")
		params = append(params, filt.DateTo)
	}

	if len(filt.Sections) > 0 {
		foo := []string{}
		for _, sec := range filt.Sections {
			foo = append(foo, "?")
			params = append(params, string(sec))
		}
		frags = append(frags, "section IN ("+strings.Join(foo, ",")+")")
	}

	if len(filt.SourceTypes) > 0 {
		foo := []string{}
		for _, st := range filt.SourceTypes {
			foo = append(foo, "?")
			params = append(params, st)
		}
		frags = append(frags, "source_type IN ("+strings.Join(foo, ",")+")")
	}

	var whereClause string
	if len(frags) > 0 {
		whereClause = "WHERE " + strings.Join(frags, " AND ")
	}
	return whereClause, params
}

func (ss *SQLStore) ListRecent(filt *store.Filter) ([]*store.Item, error) {
	whereClause, params := buildWhere(filt)

	q := `SELECT ` + itemCols + ` FROM item ` + whereClause +
		` ORDER BY date DESC, first_seen DESC, url ASC`
	if filt.Count > 0 {
		q += fmt.Sprintf(" LIMIT %d", filt.Count)
	}

	ss.DebugLog.Printf("list: %s\n", q)
	ss.DebugLog.Printf("list params: %+v\n", params)

	return ss.fetchItems(q, params...)
}

func (ss *SQLStore) GetByURL(url string) (*store.Item, error) {
	q := `SELECT ` + itemCols + ` FROM item WHERE url=?`
	row := ss.db.QueryRow(ss.rebind(q), url)

	it, err := ss.scanItem(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (ss *SQLStore) FetchDateRange(from, to time.Time) ([]*store.Item, error) {
	q := `SELECT ` + itemCols + ` FROM item
	        WHERE date>=? AND date<=?
	        ORDER BY date ASC, first_seen ASC, url ASC`
	return ss.fetchItems(ss.rebind(q), from, to)
}

func (ss *SQLStore) SeenURLs(since time.Time) (map[string]struct{}, error) {
	rows, err := ss.db.Query(ss.rebind(`SELECT url FROM item WHERE last_seen>=?`), since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seen := map[string]struct{}{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		seen[u] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seen, nil
}

func (ss *SQLStore) Stats() (*store.Stats, error) {
	out := &store.Stats{
		BySection:    map[store.Section]int{},
		BySourceType: map[string]int{},
	}

	err := ss.db.QueryRow(`SELECT COUNT(*) FROM item`).Scan(&out.Total)
	if err != nil {
		return nil, err
	}

	rows, err := ss.db.Query(`SELECT section, COUNT(*) FROM item GROUP BY section`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sec string
		var cnt int
		if err := rows.Scan(&sec, &cnt); err != nil {
			return nil, err
		}
		out.BySection[store.Section(sec)] = cnt
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows2, err := ss.db.Query(`SELECT source_type, COUNT(*) FROM item GROUP BY source_type`)
	if err != nil {
		return nil, err
	}
	defer rows2.Close()
	for rows2.Next() {
		var st string
		var cnt int
		if err := rows2.Scan(&st, &cnt); err != nil {
			return nil, err
		}
		out.BySourceType[st] = cnt
	}
	if err := rows2.Err(); err != nil {
		return nil, err
	}

	// sqlite forgets the column type under MIN()/MAX(), so pick the
	// extremes off ordered scans instead.
	err = ss.db.QueryRow(`SELECT date FROM item ORDER BY date ASC LIMIT 1`).Scan(&out.EarliestDate)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	err = ss.db.QueryRow(`SELECT date FROM item ORDER BY date DESC LIMIT 1`).Scan(&out.LatestDate)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	return out, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (ss *SQLStore) scanItem(row rowScanner) (*store.Item, error) {
	it := &store.Item{}
	var id int
	var date, firstSeen sql.NullTime
	var section string
	err := row.Scan(&id, &it.URL, &it.Title, &section, &it.SourceType,
		&it.Publisher, &it.Summary, &date, &it.DateIsFound, &firstSeen,
		&it.SeenCount, &it.Quality.Verdict, &it.Quality.Confidence,
		&it.Quality.Reason)
	if err != nil {
		return nil, err
	}
	it.Section = store.Section(section)
	if date.Valid {
		it.Date = date.Time
	}
	if firstSeen.Valid {
		it.FirstSeen = firstSeen.Time
	}

	topics, err := ss.fetchTopics(id)
	if err != nil {
		return nil, err
	}
	it.Topics = topics
	return it, nil
}

func (ss *SQLStore) fetchItems(q string, params ...interface{}) ([]*store.Item, error) {
	rows, err := ss.db.Query(ss.rebind(q), params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*store.Item{}
	for rows.Next() {
		it, err := ss.scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (ss *SQLStore) fetchTopics(itemID int) ([]string, error) {
	q := `SELECT topic FROM item_topic WHERE item_id=? ORDER BY topic ASC`
	rows, err := ss.db.Query(ss.rebind(q), itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
