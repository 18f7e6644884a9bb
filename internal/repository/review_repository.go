package repository

import (
	"context"
	"fmt"

	"github.com/iliyamo/mbs-backend/internal/model"
)

// ReviewRepo persists reviews keyed by (user_id, movie_id).
type ReviewRepo struct{ q DBTX }

func NewReviewRepo(q DBTX) *ReviewRepo { return &ReviewRepo{q: q} }

// Create inserts a review.  A second review by the same user for the same
// movie collides with the primary key and yields ErrDuplicate.
func (r *ReviewRepo) Create(ctx context.Context, rv model.Review) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO reviews (user_id, movie_id, review) VALUES (?,?,?)",
		rv.UserID, rv.MovieID, rv.Text)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create review: %w", ErrDuplicate)
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListByMovie returns every review of movieID.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Review, error) {
	out := []model.Review{}
	if err := r.q.SelectContext(ctx, &out,
		"SELECT user_id, movie_id, review FROM reviews WHERE movie_id=? ORDER BY user_id",
		movieID); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return out, nil
}
