package action

import (
	"context"
	"errors"

	"github.com/iliyamo/mbs-backend/internal/model"
	"github.com/iliyamo/mbs-backend/internal/repository"
)

// AddReview stores the caller's review of a movie.  One review per user
// per movie.
func (h *Handlers) AddReview(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword, KeyMovieID, KeyReview); !ok {
		return r
	}
	movieID, ok := parseID(in.Get(KeyMovieID))
	if !ok {
		return Fail(MsgInvalidMovieID)
	}
	exists, err := h.checker.MovieExists(ctx, movieID)
	if err != nil {
		return h.storeFault(AddReview, "failed to add review", err)
	}
	if !exists {
		return Fail(MsgInvalidMovieID)
	}
	user, err := h.checker.Authenticate(ctx, in.Get(KeyEmail), in.Get(KeyPassword))
	if errors.Is(err, repository.ErrInvalidCredentials) {
		return Fail(MsgInvalidCredentials)
	}
	if err != nil {
		return h.storeFault(AddReview, "failed to add review", err)
	}

	err = h.store.WithConn(ctx, func(q repository.DBTX) error {
		return repository.NewReviewRepo(q).Create(ctx, model.Review{
			UserID:  user.ID,
			MovieID: movieID,
			Text:    in.Get(KeyReview),
		})
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return Fail("failed to add review")
	}
	if err != nil {
		return h.storeFault(AddReview, "failed to add review", err)
	}
	return OK("review added")
}

// ListReviews returns every review of movie_id.
func (h *Handlers) ListReviews(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyMovieID); !ok {
		return r
	}
	movieID, ok := parseID(in.Get(KeyMovieID))
	if !ok {
		return Fail(MsgInvalidMovieID)
	}
	var reviews []model.Review
	err := h.store.WithConn(ctx, func(q repository.DBTX) error {
		var err error
		reviews, err = repository.NewReviewRepo(q).ListByMovie(ctx, movieID)
		return err
	})
	if err != nil {
		return h.storeFault(ListReviews, "failed to list reviews", err)
	}
	views := make([]reviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, reviewView{UserID: r.UserID, Review: r.Text})
	}
	return OK("reviews listed").With("reviews", views)
}
