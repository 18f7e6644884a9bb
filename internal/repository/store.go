// Package repository contains data access logic separated from the action
// handlers.  Every relation has a small repository type bound to a DBTX;
// handlers obtain a DBTX from Store.WithConn so that each store interaction
// runs on one pooled connection that is always released.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DBTX is the subset of sqlx shared by *sqlx.DB, *sqlx.Conn and *sqlx.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Store owns the connection pool.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open pool.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying pool for startup tasks such as schema setup.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// WithConn acquires a dedicated connection, runs fn on it and returns the
// connection to the pool on every exit path, including a panic in fn.
func (s *Store) WithConn(ctx context.Context, fn func(q DBTX) error) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	return fn(conn)
}
