package repository

import (
	"context"
	"fmt"

	"github.com/iliyamo/mbs-backend/internal/model"
)

// Checker answers the credential and existence questions the action
// handlers ask before mutating anything.  Every method is a read-only,
// single-row lookup on its own connection; nothing is shared between
// calls.
type Checker struct {
	store *Store
}

// NewChecker builds a Checker on top of the store.
func NewChecker(store *Store) *Checker {
	return &Checker{store: store}
}

// IsAdmin reports whether the user matching email and password has an
// admin row.  An unknown pair is simply not an admin.
func (c *Checker) IsAdmin(ctx context.Context, email, password string) (bool, error) {
	const q = `SELECT COUNT(*) FROM users u
	           JOIN admins a ON a.user_id = u.id
	           WHERE u.email = ? AND u.password = ?`
	var n int
	err := c.store.WithConn(ctx, func(db DBTX) error {
		return db.GetContext(ctx, &n, q, email, password)
	})
	if err != nil {
		return false, fmt.Errorf("is admin: %w", err)
	}
	return n > 0, nil
}

// HasPayment reports whether the matching user has payment details on file.
func (c *Checker) HasPayment(ctx context.Context, email, password string) (bool, error) {
	const q = "SELECT COUNT(*) FROM users WHERE email = ? AND password = ? AND payment IS NOT NULL"
	var n int
	err := c.store.WithConn(ctx, func(db DBTX) error {
		return db.GetContext(ctx, &n, q, email, password)
	})
	if err != nil {
		return false, fmt.Errorf("has payment: %w", err)
	}
	return n > 0, nil
}

// MovieExists reports whether a movie with the given ID exists.
func (c *Checker) MovieExists(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := c.store.WithConn(ctx, func(db DBTX) error {
		var err error
		ok, err = NewMovieRepo(db).Exists(ctx, id)
		return err
	})
	return ok, err
}

// TheaterExists reports whether a theater with the given ID exists.
func (c *Checker) TheaterExists(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := c.store.WithConn(ctx, func(db DBTX) error {
		var err error
		ok, err = NewTheaterRepo(db).Exists(ctx, id)
		return err
	})
	return ok, err
}

// Authenticate returns the user matching email and password, or
// ErrInvalidCredentials.
func (c *Checker) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	var u model.User
	err := c.store.WithConn(ctx, func(db DBTX) error {
		var err error
		u, err = NewUserRepo(db).GetByCredentials(ctx, email, password)
		return err
	})
	return u, err
}
