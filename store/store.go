// Package store persists a portfolio in a SQLite database: the trade, price
// and distribution ledgers, the asset registry, benchmark series and the
// materialized daily snapshots.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store is a portfolio database. It implements carteira.Source.
type Store struct {
	db       *sql.DB
	path     string
	currency string
	log      zerolog.Logger
}

// Open opens, and creates if needed, the database at path. Amounts are read
// in the given portfolio currency. ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path, currency string, log zerolog.Logger) (*Store, error) {
	memory := path == ":memory:" || strings.HasPrefix(path, "file:")
	if !memory {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path to absolute: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		path = absPath
	}

	conn, err := sql.Open("sqlite", connectionString(path, memory))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if memory {
		// every connection to :memory: is a different database.
		conn.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", path, err)
	}

	s := &Store{
		db:       conn,
		path:     path,
		currency: currency,
		log:      log.With().Str("component", "store").Logger(),
	}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	s.log.Debug().Str("path", path).Msg("database opened")
	return s, nil
}

// connectionString creates the SQLite connection string with its PRAGMAs.
func connectionString(path string, memory bool) string {
	if memory {
		return path
	}
	connStr := path + "?_pragma=journal_mode(WAL)"
	connStr += "&_pragma=synchronous(NORMAL)"
	connStr += "&_pragma=foreign_keys(1)"
	connStr += "&_pragma=busy_timeout(5000)"
	return connStr
}

// migrate creates the missing tables and indexes.
func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Currency returns the portfolio currency.
func (s *Store) Currency() string { return s.currency }

// inTx runs f inside a transaction, committed if f succeeds.
func (s *Store) inTx(ctx context.Context, f func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := f(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
