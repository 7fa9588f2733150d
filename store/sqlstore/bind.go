package sqlstore

import (
	"strconv"
	"strings"
)

// Queries here are written with `?` placeholders and rebound for drivers
// that want something else. Same trick as github.com/jmoiron/sqlx's Rebind
// (we only need the two styles, so no point importing the whole thing).

const (
	QUESTION = iota
	DOLLAR
)

func bindType(driverName string) int {
	switch driverName {
	case "postgres", "pgx", "pq-timeouts", "cloudsqlpostgres":
		return DOLLAR
	}
	return QUESTION
}

// rebind a query from `?` placeholders to the target bindtype.
func rebind(bindType int, query string) string {
	if bindType == QUESTION {
		return query
	}

	rqb := make([]byte, 0, len(query)+10)

	var i, j int
	for i = strings.Index(query, "?"); i != -1; i = strings.Index(query, "?") {
		rqb = append(rqb, query[:i]...)
		rqb = append(rqb, '$')
		j++
		rqb = strconv.AppendInt(rqb, int64(j), 10)
		query = query[i+1:]
	}

	return string(append(rqb, query...))
}
