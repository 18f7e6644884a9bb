package action

import (
	"context"

	"go.uber.org/zap"

	"github.com/iliyamo/mbs-backend/internal/queue"
	"github.com/iliyamo/mbs-backend/internal/repository"
)

// DetailsPolicy controls who may call account_details on their own account.
type DetailsPolicy string

const (
	// DetailsAdminOnly restricts account_details to admins.
	DetailsAdminOnly DetailsPolicy = "admin"
	// DetailsSelf lets any authenticated user read their own record.
	DetailsSelf DetailsPolicy = "self"
)

// TicketPublisher announces completed purchases.
type TicketPublisher interface {
	PublishTicketPurchased(ctx context.Context, ev queue.TicketPurchasedEvent) error
}

// Options carries the optional collaborators of Handlers.
type Options struct {
	Events        TicketPublisher
	DetailsPolicy DetailsPolicy
	Logger        *zap.Logger
}

// Handlers implements every action against the store.
type Handlers struct {
	store   *repository.Store
	checker *repository.Checker
	events  TicketPublisher
	policy  DetailsPolicy
	log     *zap.Logger
}

// NewHandlers builds the action handlers.
func NewHandlers(store *repository.Store, opts Options) *Handlers {
	h := &Handlers{
		store:   store,
		checker: repository.NewChecker(store),
		events:  opts.Events,
		policy:  opts.DetailsPolicy,
		log:     opts.Logger,
	}
	if h.policy == "" {
		h.policy = DetailsAdminOnly
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	return h
}

// Table returns the handler for every action.
func (h *Handlers) Table() map[Action]Handler {
	return map[Action]Handler{
		CreateAccount:  HandlerFunc(h.CreateAccount),
		DeleteAccount:  HandlerFunc(h.DeleteAccount),
		UpdatePayment:  HandlerFunc(h.UpdatePayment),
		BuyTicket:      HandlerFunc(h.BuyTicket),
		GetTickets:     HandlerFunc(h.GetTickets),
		AddAdmin:       HandlerFunc(h.AddAdmin),
		RevokeAdmin:    HandlerFunc(h.RevokeAdmin),
		AddMovie:       HandlerFunc(h.AddMovie),
		DeleteMovie:    HandlerFunc(h.DeleteMovie),
		AccountDetails: HandlerFunc(h.AccountDetails),
		ListMovies:     HandlerFunc(h.ListMovies),
		VerifyAccount:  HandlerFunc(h.VerifyAccount),
		GetMovie:       HandlerFunc(h.GetMovie),
		CheckAdmin:     HandlerFunc(h.CheckAdmin),
		AddReview:      HandlerFunc(h.AddReview),
		ListReviews:    HandlerFunc(h.ListReviews),
		AddTheater:     HandlerFunc(h.AddTheater),
		DeleteTheater:  HandlerFunc(h.DeleteTheater),
		GetTheater:     HandlerFunc(h.GetTheater),
	}
}

// storeFault logs err and returns the generic failure for the action.
func (h *Handlers) storeFault(a Action, msg string, err error) Result {
	h.log.Error("store operation failed", zap.String("action", string(a)), zap.Error(err))
	return Fail(msg)
}

// requireAdmin fails with "permission denied" unless the caller's pair
// belongs to an admin.
func (h *Handlers) requireAdmin(ctx context.Context, a Action, in Inputs, faultMsg string) (Result, bool) {
	ok, err := h.checker.IsAdmin(ctx, in.Get(KeyEmail), in.Get(KeyPassword))
	if err != nil {
		return h.storeFault(a, faultMsg, err), false
	}
	if !ok {
		return Fail(MsgPermissionDenied), false
	}
	return Result{}, true
}
