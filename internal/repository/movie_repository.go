// This file defines the movie repository.  Movies are created and deleted
// by admins; deletes do not touch tickets or reviews that reference the
// movie.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/mbs-backend/internal/model"
)

type MovieRepo struct{ q DBTX }

func NewMovieRepo(q DBTX) *MovieRepo { return &MovieRepo{q: q} }

const movieColumns = "id, name, showtime, price, rating, theater_id"

// MovieFilter narrows ListMovies.  Empty fields are ignored; supplied
// fields are combined with AND.
type MovieFilter struct {
	NamePrefix string
	Showtime   string
	TheaterID  uint64
}

// Create inserts a movie and returns its generated ID.
func (r *MovieRepo) Create(ctx context.Context, m model.Movie) (uint64, error) {
	const q = "INSERT INTO movies (name, showtime, price, rating, theater_id) VALUES (?, ?, ?, ?, ?)"
	res, err := r.q.ExecContext(ctx, q, m.Name, m.Showtime, m.Price, string(m.Rating), m.TheaterID)
	if err != nil {
		return 0, fmt.Errorf("create movie: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create movie: %w", err)
	}
	return uint64(id), nil
}

// GetByID fetches a movie.  It returns ErrNotFound if there is no row.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	var m model.Movie
	err := r.q.GetContext(ctx, &m, "SELECT "+movieColumns+" FROM movies WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return m, ErrNotFound
	}
	if err != nil {
		return m, fmt.Errorf("get movie: %w", err)
	}
	return m, nil
}

// Exists reports whether a movie with the given ID exists.
func (r *MovieRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	if err := r.q.GetContext(ctx, &n, "SELECT COUNT(*) FROM movies WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("movie exists: %w", err)
	}
	return n > 0, nil
}

// List returns every movie matching f ordered by id.  The name filter is
// a prefix match; LIKE wildcards in the prefix are escaped.
func (r *MovieRepo) List(ctx context.Context, f MovieFilter) ([]model.Movie, error) {
	where := []string{}
	args := []any{}
	if f.NamePrefix != "" {
		where = append(where, "name LIKE ?")
		args = append(args, escapeLike(f.NamePrefix)+"%")
	}
	if f.Showtime != "" {
		where = append(where, "showtime = ?")
		args = append(args, f.Showtime)
	}
	if f.TheaterID != 0 {
		where = append(where, "theater_id = ?")
		args = append(args, f.TheaterID)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	out := []model.Movie{}
	if err := r.q.SelectContext(ctx, &out,
		"SELECT "+movieColumns+" FROM movies WHERE "+cond+" ORDER BY id", args...); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return out, nil
}

// Delete removes a movie.  It returns ErrNotFound when no row matched.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
