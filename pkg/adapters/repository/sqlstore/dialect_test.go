package sqlstore

import (
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		dsn    string
		driver string
		local  bool
	}{
		{"postgres://user:pw@localhost:5432/links?sslmode=disable", "postgres", false},
		{"postgresql://localhost/links", "postgres", false},
		{"libsql://links-org.turso.io?authToken=x", "libsql", false},
		{"wss://links-org.turso.io", "libsql", false},
		{"file:db.sqlite", "sqlite", true},
		{"./data/links.db", "sqlite", true},
		{":memory:", "sqlite", true},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			d := detectDialect(tt.dsn)
			assert.Equal(t, tt.driver, d.driver)
			assert.Equal(t, tt.local, d.local)
			assert.NotEmpty(t, d.schema)
		})
	}
}

func TestRebind(t *testing.T) {
	pg := detectDialect("postgres://localhost/links")
	lite := detectDialect("links.db")

	q := `UPDATE links SET last_clicked_at = ? WHERE code = ?`
	assert.Equal(t, `UPDATE links SET last_clicked_at = $1 WHERE code = $2`, pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

func TestBindTime(t *testing.T) {
	ts := time.Date(2026, 10, 18, 9, 30, 0, 5, time.FixedZone("X", 3600))

	assert.Equal(t, "2026-10-18 08:30:00.000000005", detectDialect("links.db").bindTime(ts))
	assert.Equal(t, ts.UTC(), detectDialect("postgres://h/db").bindTime(ts))
}

func TestTimestampScan(t *testing.T) {
	want := time.Date(2026, 10, 18, 8, 30, 0, 0, time.UTC)

	inputs := []any{
		want,
		want.In(time.FixedZone("Y", -7200)),
		"2026-10-18 08:30:00",
		"2026-10-18 08:30:00.000000000",
		"2026-10-18T08:30:00Z",
		"2026-10-18 10:30:00+02:00",
		[]byte("2026-10-18 08:30:00"),
		want.Unix(),
	}
	for _, in := range inputs {
		var ts timestamp
		require.NoError(t, ts.Scan(in), "%v", in)
		assert.True(t, ts.Valid)
		assert.True(t, want.Equal(ts.Time), "%v scanned as %v", in, ts.Time)
		require.NotNil(t, ts.ptr())
	}

	var ts timestamp
	require.NoError(t, ts.Scan(nil))
	assert.False(t, ts.Valid)
	assert.Nil(t, ts.ptr())

	assert.Error(t, ts.Scan("yesterday"))
	assert.Error(t, ts.Scan(3.14))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.True(t, isUniqueViolation(errors.New("SQLITE_CONSTRAINT: UNIQUE constraint failed: links.code")))
	assert.False(t, isUniqueViolation(errors.New("connection reset by peer")))
}
