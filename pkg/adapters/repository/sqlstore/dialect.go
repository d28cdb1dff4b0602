package sqlstore

import (
	"strconv"
	"strings"
	"time"
)

// dialect captures what differs between the supported backends.
type dialect struct {
	driver string
	// local SQLite files get a single connection so writers queue in the pool
	// instead of failing with SQLITE_BUSY.
	local      bool
	dollarArgs bool
	schema     []string
}

const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		click_count INTEGER NOT NULL DEFAULT 0 CHECK (click_count >= 0),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_clicked_at DATETIME
	)`,
	`CREATE INDEX IF NOT EXISTS idx_links_created_at ON links(created_at)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS links (
		id BIGSERIAL PRIMARY KEY,
		code VARCHAR(8) NOT NULL UNIQUE,
		url TEXT NOT NULL,
		click_count BIGINT NOT NULL DEFAULT 0 CHECK (click_count >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_clicked_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_links_created_at ON links(created_at)`,
}

// detectDialect picks the driver from the connection string: postgres URLs go
// to lib/pq, remote libSQL (Turso) URLs to the libsql client, everything else
// is treated as a local SQLite path or URI.
func detectDialect(dbURL string) dialect {
	lower := strings.ToLower(strings.TrimSpace(dbURL))
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return dialect{driver: "postgres", dollarArgs: true, schema: postgresSchema}
	case strings.HasPrefix(lower, "libsql://"),
		strings.HasPrefix(lower, "wss://"),
		strings.HasPrefix(lower, "ws://"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"):
		return dialect{driver: "libsql", schema: sqliteSchema}
	default:
		return dialect{driver: "sqlite", local: true, schema: sqliteSchema}
	}
}

// rebind rewrites ? placeholders to $1, $2, ... for postgres.
func (d dialect) rebind(query string) string {
	if !d.dollarArgs {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// bindTime converts t into the value stored for a timestamp column. SQLite
// has no time type, so a fixed-width UTC string keeps ORDER BY correct.
func (d dialect) bindTime(t time.Time) any {
	if d.driver == "postgres" {
		return t.UTC()
	}
	return t.UTC().Format(sqliteTimeLayout)
}
