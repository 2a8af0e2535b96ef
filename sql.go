package userforms

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Executor interface abstracts database operations.
type Executor interface {
	Exec(query string, args ...any) error
	Query(query string, args ...any) (Rows, error)
	QueryRow(query string, args ...any) Scanner
}

// Scanner interface abstracts scanning a row.
type Scanner interface {
	Scan(dest ...any) error
}

// Rows interface abstracts scanning multiple rows.
type Rows interface {
	Scan(dest ...any) error
	Next() bool
	Close() error
	Err() error
}

type dbExecutor struct {
	db *sql.DB
}

// NewExecutor adapts a *sql.DB to Executor.
func NewExecutor(db *sql.DB) Executor {
	return &dbExecutor{db: db}
}

func (e *dbExecutor) Exec(query string, args ...any) error {
	_, err := e.db.Exec(query, args...)
	return err
}

func (e *dbExecutor) Query(query string, args ...any) (Rows, error) {
	return e.db.Query(query, args...)
}

func (e *dbExecutor) QueryRow(query string, args ...any) Scanner {
	return e.db.QueryRow(query, args...)
}

// OpenSQLite opens a sqlite database with the pure-Go driver. An in-memory
// database only lives as long as its single connection, so the pool is
// pinned to one.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enable foreign keys")
	}
	return db, nil
}
