package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"                               // PostgreSQL driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/wadjakorntonsri/shortlink/pkg/core/domain"
	"github.com/wadjakorntonsri/shortlink/pkg/ports"
)

const linkColumns = `id, code, url, click_count, created_at, last_clicked_at`

// Options tunes the connection pool of network databases. Local SQLite
// ignores the pool settings and always uses one connection.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// Clock stamps created_at and last_clicked_at. Defaults to time.Now.
	Clock func() time.Time
}

type Repository struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

func NewRepository(dbURL string, opts Options) (*Repository, error) {
	d := detectDialect(dbURL)

	db, err := sql.Open(d.driver, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}

	if d.local {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			db.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driver, err)
	}

	if d.local {
		// Best effort: in-memory databases reject WAL.
		_, _ = db.Exec("PRAGMA busy_timeout = 5000")
		_, _ = db.Exec("PRAGMA journal_mode = WAL")
	}

	if err := migrate(db, d); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Repository{db: db, dialect: d, now: now}, nil
}

func migrate(db *sql.DB, d dialect) error {
	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the pool.
func (r *Repository) Close() error { return r.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(s rowScanner) (*domain.Link, error) {
	var l domain.Link
	var createdAt, lastClickedAt timestamp
	if err := s.Scan(&l.ID, &l.Code, &l.URL, &l.ClickCount, &createdAt, &lastClickedAt); err != nil {
		return nil, err
	}
	l.CreatedAt = createdAt.Time
	l.LastClickedAt = lastClickedAt.ptr()
	return &l, nil
}

func storageErr(op string, err error) error {
	return &domain.StorageError{Op: op, Err: err}
}

func (r *Repository) Create(ctx context.Context, link *domain.Link) error {
	query := r.dialect.rebind(`INSERT INTO links (code, url, click_count, created_at)
		VALUES (?, ?, 0, ?) RETURNING ` + linkColumns)

	created, err := scanLink(r.db.QueryRowContext(ctx, query, link.Code, link.URL, r.dialect.bindTime(r.now())))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCode
		}
		return storageErr("create", err)
	}

	*link = *created
	return nil
}

func (r *Repository) Get(ctx context.Context, code string) (*domain.Link, error) {
	query := r.dialect.rebind(`SELECT ` + linkColumns + ` FROM links WHERE code = ?`)

	link, err := scanLink(r.db.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get", err)
	}
	return link, nil
}

func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	query := r.dialect.rebind(`SELECT COUNT(*) FROM links WHERE code = ?`)

	var n int64
	if err := r.db.QueryRowContext(ctx, query, code).Scan(&n); err != nil {
		return false, storageErr("exists", err)
	}
	return n > 0, nil
}

// RedirectAndIncrement records a click and returns the target in a single
// UPDATE ... RETURNING, so concurrent redirects on one code serialize on the
// row and none of the increments is lost.
func (r *Repository) RedirectAndIncrement(ctx context.Context, code string) (string, error) {
	query := r.dialect.rebind(`UPDATE links
		SET click_count = click_count + 1, last_clicked_at = ?
		WHERE code = ?
		RETURNING url`)

	var url string
	err := r.db.QueryRowContext(ctx, query, r.dialect.bindTime(r.now()), code).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", storageErr("redirect", err)
	}
	return url, nil
}

func (r *Repository) Delete(ctx context.Context, code string) error {
	query := r.dialect.rebind(`DELETE FROM links WHERE code = ? RETURNING id`)

	var id int64
	err := r.db.QueryRowContext(ctx, query, code).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return storageErr("delete", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("list", err)
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, storageErr("list", err)
		}
		links = append(links, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list", err)
	}
	return links, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

// Ensure interface compliance
var _ ports.LinkRepository = (*Repository)(nil)
