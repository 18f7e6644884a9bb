package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/mbs-backend/internal/model"
)

// TheaterRepo encapsulates the queries on `theaters`.
type TheaterRepo struct{ q DBTX }

func NewTheaterRepo(q DBTX) *TheaterRepo { return &TheaterRepo{q: q} }

// Create inserts a theater and returns the generated ID.
func (r *TheaterRepo) Create(ctx context.Context, name string) (uint64, error) {
	res, err := r.q.ExecContext(ctx, "INSERT INTO theaters (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("create theater: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create theater: %w", err)
	}
	return uint64(id), nil
}

// GetByName returns the first theater with the given name.
func (r *TheaterRepo) GetByName(ctx context.Context, name string) (model.Theater, error) {
	var t model.Theater
	err := r.q.GetContext(ctx, &t, "SELECT id, name FROM theaters WHERE name = ? ORDER BY id LIMIT 1", name)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrNotFound
	}
	if err != nil {
		return t, fmt.Errorf("get theater: %w", err)
	}
	return t, nil
}

// Exists reports whether a theater with the given ID exists.
func (r *TheaterRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	if err := r.q.GetContext(ctx, &n, "SELECT COUNT(*) FROM theaters WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("theater exists: %w", err)
	}
	return n > 0, nil
}

// Delete removes a theater.  Movies pointing at it keep their theater_id.
func (r *TheaterRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM theaters WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete theater: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
