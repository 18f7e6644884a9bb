package action

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/mbs-backend/internal/model"
	"github.com/iliyamo/mbs-backend/internal/repository"
)

// AddMovie creates a movie.  Admin only; theater_id is optional but must
// name an existing theater when given.
func (h *Handlers) AddMovie(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword, KeyMovieName, KeyShowtime, KeyPrice, KeyRating); !ok {
		return r
	}
	m, msg := movieFields(in)
	if msg != "" {
		return Fail(msg)
	}
	var theaterID uint64
	if raw := in.Get(KeyTheaterID); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			return Fail(MsgInvalidTheaterID)
		}
		theaterID = id
	}

	if r, ok := h.requireAdmin(ctx, AddMovie, in, "failed to add movie"); !ok {
		return r
	}
	if theaterID != 0 {
		exists, err := h.checker.TheaterExists(ctx, theaterID)
		if err != nil {
			return h.storeFault(AddMovie, "failed to add movie", err)
		}
		if !exists {
			return Fail(MsgTheaterNotFound)
		}
		m.TheaterID = sql.NullInt64{Int64: int64(theaterID), Valid: true}
	}

	var id uint64
	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		var err error
		id, err = repository.NewMovieRepo(q).Create(ctx, m)
		return err
	})
	if err != nil {
		return h.storeFault(AddMovie, "failed to add movie", err)
	}
	return OK("movie added").With("movie_id", id)
}

// DeleteMovie removes a movie.  Admin only.
func (h *Handlers) DeleteMovie(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword, KeyMovieID); !ok {
		return r
	}
	id, ok := parseID(in.Get(KeyMovieID))
	if !ok {
		return Fail(MsgInvalidMovieID)
	}
	if r, ok := h.requireAdmin(ctx, DeleteMovie, in, "failed to delete movie"); !ok {
		return r
	}

	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		return repository.NewMovieRepo(q).Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return Fail(MsgInvalidMovieID)
	}
	if err != nil {
		return h.storeFault(DeleteMovie, "failed to delete movie", err)
	}
	return OK("movie deleted")
}

// ListMovies returns the catalog, narrowed by the optional movie_name
// prefix, showtime and theater_id filters.
func (h *Handlers) ListMovies(ctx context.Context, in Inputs) Result {
	f := repository.MovieFilter{
		NamePrefix: in.Get(KeyMovieName),
		Showtime:   in.Get(KeyShowtime),
	}
	if raw := in.Get(KeyTheaterID); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			return Fail(MsgInvalidTheaterID)
		}
		f.TheaterID = id
	}

	var movies []model.Movie
	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		var err error
		movies, err = repository.NewMovieRepo(q).List(ctx, f)
		return err
	})
	if err != nil {
		return h.storeFault(ListMovies, "failed to list movies", err)
	}
	views := make([]movieView, 0, len(movies))
	for _, m := range movies {
		views = append(views, newMovieView(m))
	}
	return OK("movies listed").With("movies", views)
}

// GetMovie returns one movie by id.
func (h *Handlers) GetMovie(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyMovieID); !ok {
		return r
	}
	id, ok := parseID(in.Get(KeyMovieID))
	if !ok {
		return Fail(MsgInvalidMovieID)
	}

	var m model.Movie
	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		var err error
		m, err = repository.NewMovieRepo(q).GetByID(ctx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return Fail(MsgInvalidMovieID)
	}
	if err != nil {
		return h.storeFault(GetMovie, "failed to get movie", err)
	}
	return OK("movie retrieved").With("movie", newMovieView(m))
}
