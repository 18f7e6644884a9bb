package action

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/mbs-backend/internal/queue"
	"github.com/iliyamo/mbs-backend/internal/repository"
)

// BuyTicket records a purchase of quantity seats for movie_id.  The movie
// must exist, the credentials must match and the buyer must have payment
// details on file before anything is written.
func (h *Handlers) BuyTicket(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword, KeyMovieID, KeyQuantity); !ok {
		return r
	}
	movieID, ok := parseID(in.Get(KeyMovieID))
	if !ok {
		return Fail(MsgInvalidMovieID)
	}
	qty, ok := parseQuantity(in.Get(KeyQuantity))
	if !ok {
		return Fail(MsgInvalidQuantity)
	}

	exists, err := h.checker.MovieExists(ctx, movieID)
	if err != nil {
		return h.storeFault(BuyTicket, "failed to buy ticket", err)
	}
	if !exists {
		return Fail(MsgInvalidMovieID)
	}

	email, password := in.Get(KeyEmail), in.Get(KeyPassword)
	user, err := h.checker.Authenticate(ctx, email, password)
	if errors.Is(err, repository.ErrInvalidCredentials) {
		return Fail(MsgInvalidCredentials)
	}
	if err != nil {
		return h.storeFault(BuyTicket, "failed to buy ticket", err)
	}
	paid, err := h.checker.HasPayment(ctx, email, password)
	if err != nil {
		return h.storeFault(BuyTicket, "failed to buy ticket", err)
	}
	if !paid {
		return Fail(MsgNoPayment)
	}

	var ticketID uint64
	err = h.store.WithConn(ctx, func(q repository.DBTX) error {
		var err error
		ticketID, err = repository.NewTicketRepo(q).Create(ctx, user.ID, movieID, qty)
		return err
	})
	if err != nil {
		return h.storeFault(BuyTicket, "failed to buy ticket", err)
	}

	h.announce(ctx, queue.TicketPurchasedEvent{
		TicketID:    ticketID,
		UserID:      user.ID,
		MovieID:     movieID,
		Quantity:    qty,
		PurchasedAt: time.Now().UTC(),
	})
	return OK("ticket purchased").With("ticket_id", ticketID)
}

// announce publishes the purchase event.  The ticket is already stored,
// so a failure here is only logged.
func (h *Handlers) announce(ctx context.Context, ev queue.TicketPurchasedEvent) {
	if h.events == nil {
		return
	}
	if err := h.events.PublishTicketPurchased(ctx, ev); err != nil {
		h.log.Warn("publish ticket event failed",
			zap.Uint64("ticket_id", ev.TicketID),
			zap.Error(err),
		)
	}
}

// GetTickets lists the caller's tickets, optionally for one movie.
func (h *Handlers) GetTickets(ctx context.Context, in Inputs) Result {
	if r, ok := requireKeys(in, KeyEmail, KeyPassword); !ok {
		return r
	}
	var movieID uint64
	if raw := in.Get(KeyMovieID); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			return Fail(MsgInvalidMovieID)
		}
		movieID = id
	}

	user, err := h.checker.Authenticate(ctx, in.Get(KeyEmail), in.Get(KeyPassword))
	if errors.Is(err, repository.ErrInvalidCredentials) {
		return Fail(MsgInvalidCredentials)
	}
	if err != nil {
		return h.storeFault(GetTickets, "failed to get tickets", err)
	}

	var views []ticketView
	err = h.store.WithConn(ctx, func(q repository.DBTX) error {
		ts, err := repository.NewTicketRepo(q).ListByUser(ctx, user.ID, movieID)
		if err != nil {
			return err
		}
		views = newTicketViews(ts)
		return nil
	})
	if err != nil {
		return h.storeFault(GetTickets, "failed to get tickets", err)
	}
	return OK("tickets retrieved").With("tickets", views)
}
