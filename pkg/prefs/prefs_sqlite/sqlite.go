package prefs_sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"anime.bike/mastoshare/pkg/logging"
	"anime.bike/mastoshare/pkg/prefs"
	"github.com/mattn/go-sqlite3"
)

const schemaVer = 1

//go:embed scripts/*
var scripts embed.FS

// SqliteStorage keeps values in a local_storage table
type SqliteStorage struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens or creates the database file and brings its schema up to date.
// Use ":memory:" for a throwaway database.
func Open(dbFile string, logger logging.Logger) (*SqliteStorage, error) {
	logger = logging.NoopIfNil(logger)

	cstr := "file:%s?cache=shared&mode=rwc&_journal_mode=WAL&_synchronous=1&_busy_timeout=5000"
	if dbFile == ":memory:" {
		cstr = "file:%s?mode=memory"
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf(cstr, dbFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open/create DB file %s: %w", dbFile, err)
	}
	// A single connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	s := &SqliteStorage{db: db, logger: logger}
	if err := s.initUpdateDb(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database
func (s *SqliteStorage) Close() error {
	return s.db.Close()
}

func (s *SqliteStorage) initUpdateDb() error {
	dbVer := 0
	sysParamsExists := false

	rows, err := s.db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name='sys_params'")
	if err != nil {
		return fmt.Errorf("failed to check if 'sys_params' table exists: %w", err)
	}
	for rows.Next() {
		sysParamsExists = true
	}
	_ = rows.Close()

	if !sysParamsExists {
		s.logger.Debugf("Database appears to be empty; current schema version is %d", schemaVer)
	} else {
		row := s.db.QueryRow("SELECT val FROM sys_params WHERE name='schema_ver'")
		if err = row.Scan(&dbVer); err != nil {
			return fmt.Errorf("failed to query schema version: %w", err)
		}
		s.logger.Debugf("Database is at version %d; current schema version is %d", dbVer, schemaVer)
	}

	for i := dbVer; i < schemaVer; i += 1 {
		nextVer := i + 1
		fn := fmt.Sprintf("scripts/create-%02d.sql", nextVer)
		s.logger.Debugf("Running %s", fn)
		sqlBytes, err := scripts.ReadFile(fn)
		if err != nil {
			return fmt.Errorf("failed to read init script %s: %w", fn, err)
		}
		if _, err = s.db.Exec(string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to execute init script %s: %w", fn, err)
		}
		if _, err = s.db.Exec("UPDATE sys_params SET val=? WHERE name='schema_ver'", nextVer); err != nil {
			return fmt.Errorf("failed to update schema_ver to %d: %w", nextVer, err)
		}
	}
	return nil
}

// Get returns the value stored under key
func (s *SqliteStorage) Get(ctx context.Context, key string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, "SELECT value FROM local_storage WHERE key=?", key)
	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, prefs.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

// Set inserts or replaces the value under key
func (s *SqliteStorage) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return describe(err)
	}
	return nil
}

// Remove deletes key
func (s *SqliteStorage) Remove(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM local_storage WHERE key=?", key)
	if err != nil {
		return describe(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return prefs.ErrNotFound
	}
	return nil
}

func describe(err error) error {
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		if sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked {
			return fmt.Errorf("database is locked by another process: %w", err)
		}
		if sqliteErr.Code == sqlite3.ErrReadonly {
			return fmt.Errorf("database is read-only: %w", err)
		}
	}
	return err
}
