package sqlstore

import (
	"fmt"
)

func (ss *SQLStore) checkSchema() error {

	ver, err := ss.schemaVersion()
	if err != nil {
		return err
	}
	if ver == 1 {
		return nil // up to date.
	}

	// auto schema management currently only for sqlite.
	if ss.driverName != "sqlite3" {
		return fmt.Errorf("Missing Schema.")
	}

	if ver != 0 {
		return fmt.Errorf("No Schema upgrade path (from ver %d)", ver)
	}

	stmts := []string{
		`CREATE TABLE item (
			id INTEGER PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			section TEXT NOT NULL,
			source_type TEXT NOT NULL DEFAULT '',
			publisher TEXT NOT NULL DEFAULT '',
			summary TEXT NOT NULL DEFAULT '',
			date TIMESTAMP NOT NULL,
			date_is_found BOOLEAN NOT NULL DEFAULT 0,
			first_seen TIMESTAMP NOT NULL,
			last_seen TIMESTAMP NOT NULL,
			seen_count INTEGER NOT NULL DEFAULT 1,
			quality_verdict TEXT NOT NULL DEFAULT '',
			quality_confidence TEXT NOT NULL DEFAULT '',
			quality_reason TEXT NOT NULL DEFAULT '' )`,
		// date-range scans drive both the dedup seen-set load and the
		// trend aggregator, so date gets an index up front.
		`CREATE INDEX item_date ON item(date)`,
		`CREATE INDEX item_last_seen ON item(last_seen)`,
		`CREATE INDEX item_section ON item(section)`,
		`CREATE INDEX item_source_type ON item(source_type)`,

		`CREATE TABLE item_topic (
			id INTEGER PRIMARY KEY,
			item_id INTEGER NOT NULL,
			topic TEXT NOT NULL,
			FOREIGN KEY(item_id) REFERENCES item(id) ON DELETE CASCADE )`,
		`CREATE INDEX item_topic_itemid ON item_topic(item_id)`,
		`CREATE UNIQUE INDEX item_topic_uniq ON item_topic(item_id,topic)`,

		`CREATE TABLE version (ver INTEGER NOT NULL)`,

		`INSERT INTO version (ver) VALUES (1)`,
	}

	for _, stmt := range stmts {
		_, err := ss.db.Exec(stmt)
		if err != nil {
			return err
		}
	}

	return nil
}

func (ss *SQLStore) schemaVersion() (int, error) {
	var v int
	err := ss.db.QueryRow(`SELECT MAX(ver) FROM version`).Scan(&v)
	if err != nil {
		// should distinguish between missing version table and other errors,
		// but hey.
		return 0, nil
	}
	return v, nil
}
