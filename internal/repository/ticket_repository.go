package repository

import (
	"context"
	"fmt"

	"github.com/iliyamo/mbs-backend/internal/model"
)

// TicketRepo persists purchased tickets.
type TicketRepo struct{ q DBTX }

func NewTicketRepo(q DBTX) *TicketRepo { return &TicketRepo{q: q} }

// Create inserts a ticket; purchased_at is set by the store.
func (r *TicketRepo) Create(ctx context.Context, userID, movieID uint64, quantity uint32) (uint64, error) {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO tickets (user_id, movie_id, quantity) VALUES (?,?,?)",
		userID, movieID, quantity)
	if err != nil {
		return 0, fmt.Errorf("create ticket: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create ticket: %w", err)
	}
	return uint64(id), nil
}

// ListByUser returns the tickets of userID, optionally only those for
// movieID when it is non-zero.
func (r *TicketRepo) ListByUser(ctx context.Context, userID, movieID uint64) ([]model.Ticket, error) {
	q := "SELECT id, user_id, movie_id, quantity, purchased_at FROM tickets WHERE user_id=?"
	args := []any{userID}
	if movieID != 0 {
		q += " AND movie_id=?"
		args = append(args, movieID)
	}
	q += " ORDER BY id"

	out := []model.Ticket{}
	if err := r.q.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return out, nil
}
