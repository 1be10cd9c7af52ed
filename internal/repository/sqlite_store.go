package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"antique-catalog/internal/catalogerrors"
	"antique-catalog/utils"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteConfig holds settings for the file-backed store.
type SQLiteConfig struct {
	Path         string
	QuotaBytes   int64
	PollInterval time.Duration
}

type kvRow struct {
	Value   []byte `db:"value"`
	Version int64  `db:"version"`
	Writer  string `db:"writer"`
}

// SQLiteStore implements Store on a single SQLite table. Every row carries a
// version and the id of the session that wrote it; other processes opening the
// same file are detected by polling versions of subscribed keys.
type SQLiteStore struct {
	db     *sqlx.DB
	quota  int64
	writer string
	subs   *subscribers

	mu   sync.Mutex
	seen map[string]int64

	stopPoll chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSQLiteStore opens (or creates) the store at cfg.Path.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.Path)

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}

	s := &SQLiteStore{
		db:       db,
		quota:    cfg.QuotaBytes,
		writer:   utils.GenerateID(),
		subs:     newSubscribers(),
		seen:     make(map[string]int64),
		stopPoll: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.poll(cfg.PollInterval)

	utils.Info("sqlite store opened", map[string]any{"path": cfg.Path, "quota_bytes": cfg.QuotaBytes})
	return s, nil
}

func ensureSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		version    INTEGER NOT NULL DEFAULT 1,
		writer     TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`)
	return err
}

// Read returns the value stored under key
func (s *SQLiteStore) Read(ctx context.Context, key string) ([]byte, error) {
	var row kvRow
	err := s.db.GetContext(ctx, &row, `SELECT value, version, writer FROM kv_store WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read %s: %w", key, catalogerrors.ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	s.markSeen(key, row.Version)
	return row.Value, nil
}

// Write upserts key inside a transaction that first checks the quota
func (s *SQLiteStore) Write(ctx context.Context, key string, value []byte) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	size := int64(len(key) + len(value))
	if s.quota > 0 {
		var used int64
		err := tx.GetContext(ctx, &used,
			`SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(value)), 0) FROM kv_store WHERE key != ?`, key)
		if err != nil {
			return fmt.Errorf("failed to measure usage: %w", err)
		}
		if used+size > s.quota {
			return fmt.Errorf("write %s (%d bytes, %d/%d used): %w", key, size, used, s.quota, catalogerrors.ErrQuotaExceeded)
		}
	}

	var version int64
	err = tx.GetContext(ctx, &version, `
		INSERT INTO kv_store (key, value, version, writer, updated_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			version = kv_store.version + 1,
			writer = excluded.writer,
			updated_at = excluded.updated_at
		RETURNING version`, key, value, s.writer, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.markSeen(key, version)
	return nil
}

// OnExternalChange registers fn for writes to key by other sessions
func (s *SQLiteStore) OnExternalChange(key string, fn ChangeFunc) func() {
	// Prime the version so an existing row is not reported as a change.
	var version int64
	if err := s.db.Get(&version, `SELECT version FROM kv_store WHERE key = ?`, key); err == nil {
		s.markSeen(key, version)
	} else if errors.Is(err, sql.ErrNoRows) {
		s.markSeen(key, 0)
	}
	return s.subs.add(key, fn)
}

func (s *SQLiteStore) markSeen(key string, version int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version >= s.seen[key] {
		s.seen[key] = version
	}
}

// poll checks subscribed keys for versions written by other sessions
func (s *SQLiteStore) poll(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.checkChanges()
		case <-s.stopPoll:
			return
		}
	}
}

func (s *SQLiteStore) checkChanges() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, key := range s.subs.keys() {
		var row kvRow
		err := s.db.GetContext(ctx, &row, `SELECT value, version, writer FROM kv_store WHERE key = ?`, key)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			utils.Warn("sqlite store: change poll failed", map[string]any{"key": key, "error": err.Error()})
			continue
		}

		s.mu.Lock()
		last, known := s.seen[key]
		changed := !known || row.Version > last
		if changed {
			s.seen[key] = row.Version
		}
		s.mu.Unlock()

		if changed && known && row.Writer != s.writer {
			s.subs.notify(key, row.Value)
		}
	}
}

// Close stops polling and closes the database
func (s *SQLiteStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopPoll)
	})
	s.wg.Wait()
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
