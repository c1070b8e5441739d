package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Owen-Pu/Networking-Agent/internal/domain"
	"github.com/Owen-Pu/Networking-Agent/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS seen_urls (
	url          TEXT PRIMARY KEY,
	item_type    TEXT NOT NULL,
	first_seen   TIMESTAMP NOT NULL,
	last_updated TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_seen_urls_item_type ON seen_urls(item_type);
CREATE INDEX IF NOT EXISTS idx_seen_urls_first_seen ON seen_urls(first_seen);
`

// SQLiteLedger persists seen URLs in a local SQLite file. It is the only
// durable state of the pipeline; every failure here is wrapped as a
// storage error so the orchestrator can abort instead of re-billing work.
type SQLiteLedger struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.Ledger = (*SQLiteLedger)(nil)

// Open creates or opens the ledger database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*SQLiteLedger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &domain.StorageError{Op: "open", Err: fmt.Errorf("create directory %s: %w", dir, err)}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &domain.StorageError{Op: "open", Err: err}
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, &domain.StorageError{Op: "open", Err: fmt.Errorf("enable WAL: %w", err)}
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, &domain.StorageError{Op: "open", Err: fmt.Errorf("set busy timeout: %w", err)}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, &domain.StorageError{Op: "open", Err: fmt.Errorf("initialize schema: %w", err)}
	}

	return &SQLiteLedger{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question).RunWith(db),
	}, nil
}

// HasSeen reports whether the URL exists in the ledger. Pure lookup.
func (l *SQLiteLedger) HasSeen(ctx context.Context, url string) (bool, error) {
	var one int
	err := l.builder.
		Select("1").
		From("seen_urls").
		Where(sq.Eq{"url": url}).
		Limit(1).
		QueryRowContext(ctx).
		Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &domain.StorageError{Op: "has_seen", Err: err}
	}
	return true, nil
}

// RecordSeen inserts the URL or, if it already exists, refreshes only its
// last-updated timestamp. First-seen time and item type are immutable, so
// the first classification of a URL wins for good.
func (l *SQLiteLedger) RecordSeen(ctx context.Context, url string, itemType domain.ItemType) error {
	now := time.Now().UTC()
	_, err := l.builder.
		Insert("seen_urls").
		Columns("url", "item_type", "first_seen", "last_updated").
		Values(url, string(itemType), now, now).
		Suffix("ON CONFLICT(url) DO UPDATE SET last_updated = excluded.last_updated").
		ExecContext(ctx)
	if err != nil {
		return &domain.StorageError{Op: "record_seen", Err: err}
	}
	return nil
}

// CountByType returns per-item-type ledger counts for reporting.
func (l *SQLiteLedger) CountByType(ctx context.Context) (map[domain.ItemType]int, error) {
	rows, err := l.builder.
		Select("item_type", "COUNT(*)").
		From("seen_urls").
		GroupBy("item_type").
		QueryContext(ctx)
	if err != nil {
		return nil, &domain.StorageError{Op: "count_by_type", Err: err}
	}
	defer rows.Close()

	counts := make(map[domain.ItemType]int)
	for rows.Next() {
		var (
			itemType string
			count    int
		)
		if err := rows.Scan(&itemType, &count); err != nil {
			return nil, &domain.StorageError{Op: "count_by_type", Err: err}
		}
		counts[domain.ItemType(itemType)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "count_by_type", Err: err}
	}
	return counts, nil
}

// SeenSince returns records of one item type first seen at or after the
// given time, oldest first. Used for audit reporting, not correctness.
func (l *SQLiteLedger) SeenSince(ctx context.Context, itemType domain.ItemType, since time.Time) ([]domain.SeenRecord, error) {
	rows, err := l.builder.
		Select("url", "item_type", "first_seen", "last_updated").
		From("seen_urls").
		Where(sq.Eq{"item_type": string(itemType)}).
		Where(sq.GtOrEq{"first_seen": since.UTC()}).
		OrderBy("first_seen ASC").
		QueryContext(ctx)
	if err != nil {
		return nil, &domain.StorageError{Op: "seen_since", Err: err}
	}
	defer rows.Close()

	var records []domain.SeenRecord
	for rows.Next() {
		var (
			rec domain.SeenRecord
			typ string
		)
		if err := rows.Scan(&rec.URL, &typ, &rec.FirstSeen, &rec.LastUpdated); err != nil {
			return nil, &domain.StorageError{Op: "seen_since", Err: err}
		}
		rec.ItemType = domain.ItemType(typ)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "seen_since", Err: err}
	}
	return records, nil
}

// Close releases the database handle.
func (l *SQLiteLedger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}
