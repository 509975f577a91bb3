// Package cache is the collector's local accumulation store: every
// record ever fetched, keyed by link, so partitions can be rebuilt and
// re-exported without refetching feeds.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ttakei/newsarc/internal/record"
)

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			link       TEXT PRIMARY KEY,
			source     TEXT NOT NULL,
			title      TEXT NOT NULL,
			category   TEXT NOT NULL DEFAULT '',
			summary    TEXT NOT NULL DEFAULT '',
			published  DATETIME,
			fetched_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_items_published ON items(published DESC);
		CREATE INDEX IF NOT EXISTS idx_items_source ON items(source);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Upsert stores a batch of records, keeping the freshest version of
// each link (same rule the pool applies when merging partitions).
func (s *Store) Upsert(records []record.Record) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO items (link, source, title, category, summary, published, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(link) DO UPDATE SET
			source   = excluded.source,
			title    = excluded.title,
			category = excluded.category,
			summary  = excluded.summary,
			published = excluded.published,
			fetched_at = excluded.fetched_at
		WHERE excluded.published > items.published
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		_, err := stmt.Exec(r.ID, r.Source, r.Title, r.Category, r.Summary, r.Published.UTC(), now)
		if err != nil {
			return fmt.Errorf("upserting item %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// All returns every stored record, published descending, for export.
func (s *Store) All() ([]record.Record, error) {
	rows, err := s.readDB.Query(`
		SELECT link, source, title, category, summary, published
		FROM items ORDER BY published DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var records []record.Record
	for rows.Next() {
		var r record.Record
		var published sql.NullTime
		if err := rows.Scan(&r.ID, &r.Source, &r.Title, &r.Category, &r.Summary, &published); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if published.Valid {
			r.Published = published.Time.UTC()
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Recent returns the newest records up to limit (0 = no limit).
func (s *Store) Recent(limit int) ([]record.Record, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Prune deletes items published before the cutoff. Returns the number
// deleted.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.writeDB.Exec("DELETE FROM items WHERE published < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats returns the item count and the database file size.
func (s *Store) Stats(dbPath string) (count int64, size int64, err error) {
	if err := s.readDB.QueryRow("SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		return 0, 0, err
	}
	fi, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, err
	}
	return count, fi.Size(), nil
}
