package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/raysh454/siteaudit/internal/logging"
	"github.com/raysh454/siteaudit/internal/model"
)

// Config controls where scan history lives. The default in-memory database
// keeps history for the life of the process only; point Path at a file to
// keep it across restarts.
type Config struct {
	Path string
}

func DefaultConfig() Config {
	return Config{Path: ":memory:"}
}

// SQLiteStore implements Store on a single SQLite database. The full scan
// result is stored as a JSON blob; the scores are denormalized into columns
// so listing does not decode every blob.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
}

func NewSQLiteStore(cfg Config, logger logging.Logger) (*SQLiteStore, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Path
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: applying schema: %w", err)
	}

	componentLogger := logging.OrNop(logger).With(logging.Field{Key: "component", Value: "store"})
	componentLogger.Info("scan store ready", logging.Field{Key: "path", Value: cfg.Path})

	return &SQLiteStore{db: db, logger: componentLogger}, nil
}

func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("executing %q: %w", p, err)
		}
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS scans (
		id            TEXT PRIMARY KEY,
		url           TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		security      INTEGER NOT NULL,
		performance   INTEGER NOT NULL,
		seo           INTEGER NOT NULL,
		accessibility INTEGER NOT NULL,
		result        BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans(created_at DESC);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLiteStore) Put(ctx context.Context, id string, result model.ScanResult) error {
	blob, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("store: encoding result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scans (id, url, created_at, security, performance, seo, accessibility, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			created_at = excluded.created_at,
			security = excluded.security,
			performance = excluded.performance,
			seo = excluded.seo,
			accessibility = excluded.accessibility,
			result = excluded.result`,
		id, result.URL, result.Date.UTC().Format(time.RFC3339Nano),
		result.Security.Score, result.Performance.Score, result.SEO.Score, result.Accessibility.Score,
		blob)
	if err != nil {
		return fmt.Errorf("store: inserting scan %s: %w", id, err)
	}

	s.logger.Debug("scan stored",
		logging.Field{Key: "id", Value: id},
		logging.Field{Key: "url", Value: result.URL})
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Entry, error) {
	var createdAt string
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, result FROM scans WHERE id = ?`, id).Scan(&createdAt, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("store: loading scan %s: %w", id, err)
	}

	entry := Entry{ID: id}
	if entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Entry{}, fmt.Errorf("store: parsing created_at for %s: %w", id, err)
	}
	if err := json.Unmarshal(blob, &entry.Result); err != nil {
		return Entry{}, fmt.Errorf("store: decoding result for %s: %w", id, err)
	}
	return entry, nil
}

// List returns summaries newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, created_at, security, performance, seo, accessibility
		FROM scans ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: listing scans: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sm Summary
		var createdAt string
		if err := rows.Scan(&sm.ID, &sm.URL, &createdAt,
			&sm.Security, &sm.Performance, &sm.SEO, &sm.Accessibility); err != nil {
			return nil, fmt.Errorf("store: scanning row: %w", err)
		}
		if sm.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("store: parsing created_at: %w", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: deleting scan %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
