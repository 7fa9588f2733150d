package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bcampbell/digestomat/store"
)

// InsertIfNew is the check-and-insert at the heart of the ingestion
// pipeline. The UNIQUE constraint on item.url is the backstop - even if
// the in-transaction existence check is somehow raced, the second insert
// fails rather than producing two rows, and we report Duplicate.
func (ss *SQLStore) InsertIfNew(it *store.Item) (store.InsertResult, error) {
	res, err := ss.insertIfNew(it)
	if err == nil {
		return res, nil
	}

	// Insert blew up - if a row for this URL exists after all, the
	// unique constraint fired. Report it as the duplicate it is.
	var id int
	err2 := ss.db.QueryRow(ss.rebind(`SELECT id FROM item WHERE url=?`), it.URL).Scan(&id)
	if err2 == nil {
		if err3 := ss.bumpSeen(id); err3 != nil {
			return 0, err3
		}
		return store.Duplicate, nil
	}
	return 0, err
}

func (ss *SQLStore) insertIfNew(it *store.Item) (store.InsertResult, error) {
	var err error
	var tx *sql.Tx
	tx, err = ss.db.Begin()
	if err != nil {
		return 0, err
	}

	defer func() {
		if err == nil {
			tx.Commit()
		} else {
			tx.Rollback()
		}
	}()

	now := time.Now().UTC()

	var id int
	err = tx.QueryRow(ss.rebind(`SELECT id FROM item WHERE url=?`), it.URL).Scan(&id)
	if err == nil {
		// Already archived. Bump the sighting count but leave the
		// item's identity (url, first_seen) strictly alone.
		_, err = tx.Exec(ss.rebind(
			`UPDATE item SET seen_count=seen_count+1, last_seen=? WHERE id=?`),
			now, id)
		if err != nil {
			return 0, err
		}
		return store.Duplicate, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	err = nil

	firstSeen := it.FirstSeen
	if firstSeen.IsZero() {
		firstSeen = now
	}

	q := `INSERT INTO item(url,title,section,source_type,publisher,summary,date,date_is_found,first_seen,last_seen,seen_count,quality_verdict,quality_confidence,quality_reason)
	        VALUES(?,?,?,?,?,?,?,?,?,?,1,?,?,?)`
	result, err := tx.Exec(ss.rebind(q),
		it.URL,
		it.Title,
		string(it.Section),
		it.SourceType,
		it.Publisher,
		it.Summary,
		it.Date,
		it.DateIsFound,
		firstSeen,
		firstSeen,
		it.Quality.Verdict,
		it.Quality.Confidence,
		it.Quality.Reason)
	if err != nil {
		return 0, err
	}

	var itemID int
	if ss.insertIDType() == RETURNING {
		// lib/pq can't do LastInsertId - re-read the row instead.
		err = tx.QueryRow(ss.rebind(`SELECT id FROM item WHERE url=?`), it.URL).Scan(&itemID)
		if err != nil {
			return 0, err
		}
	} else {
		var tmpID int64
		tmpID, err = result.LastInsertId()
		if err != nil {
			return 0, err
		}
		itemID = int(tmpID)
	}

	for _, topic := range it.Topics {
		_, err = tx.Exec(ss.rebind(`INSERT INTO item_topic(item_id,topic) VALUES(?,?)`), itemID, topic)
		if err != nil {
			err = fmt.Errorf("failed adding topic %s: %s", topic, err)
			return 0, err
		}
	}

	it.FirstSeen = firstSeen
	it.SeenCount = 1

	return store.Inserted, nil
}

func (ss *SQLStore) bumpSeen(id int) error {
	_, err := ss.db.Exec(ss.rebind(
		`UPDATE item SET seen_count=seen_count+1, last_seen=? WHERE id=?`),
		time.Now().UTC(), id)
	return err
}

// SetTopics replaces the stored topic labels for an item. Topic labels
// are derived data, so this never touches the item row itself.
func (ss *SQLStore) SetTopics(url string, topics []string) error {
	var err error
	var tx *sql.Tx
	tx, err = ss.db.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if err == nil {
			tx.Commit()
		} else {
			tx.Rollback()
		}
	}()

	var id int
	err = tx.QueryRow(ss.rebind(`SELECT id FROM item WHERE url=?`), url).Scan(&id)
	if err == sql.ErrNoRows {
		err = store.ErrNotFound
		return err
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ss.rebind(`DELETE FROM item_topic WHERE item_id=?`), id)
	if err != nil {
		return err
	}

	for _, topic := range topics {
		_, err = tx.Exec(ss.rebind(`INSERT INTO item_topic(item_id,topic) VALUES(?,?)`), id, topic)
		if err != nil {
			err = fmt.Errorf("failed adding topic %s: %s", topic, err)
			return err
		}
	}

	return nil
}

// Which method to use to get last insert IDs.
const (
	DUNNO     = iota
	RESULT    // use Result.LastInsertID()
	RETURNING // re-read (or use sql "RETURNING" clause)
)

func (ss *SQLStore) insertIDType() int {
	switch ss.driverName {
	case "postgres", "pgx", "pq-timeouts", "cloudsqlpostgres":
		return RETURNING
	case "sqlite3", "mysql":
		return RESULT
	default:
		return DUNNO
	}
}
