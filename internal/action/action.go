// Package action maps a parsed query string onto one of a closed set of
// named operations.  Each operation validates its inputs, optionally
// checks the caller's privileges, talks to the store and returns a Result
// that the HTTP layer serializes as the response envelope.
package action

import "context"

// Action is the value of the `action` query parameter.
type Action string

const (
	CreateAccount  Action = "create_account"
	DeleteAccount  Action = "delete_account"
	UpdatePayment  Action = "update_payment"
	BuyTicket      Action = "buy_ticket"
	GetTickets     Action = "get_tickets"
	AddAdmin       Action = "add_admin"
	RevokeAdmin    Action = "revoke_admin"
	AddMovie       Action = "add_movie"
	DeleteMovie    Action = "delete_movie"
	AccountDetails Action = "account_details"
	ListMovies     Action = "list_movies"
	VerifyAccount  Action = "verify_account"
	GetMovie       Action = "get_movie"
	CheckAdmin     Action = "check_admin"
	AddReview      Action = "add_review"
	ListReviews    Action = "list_reviews"
	AddTheater     Action = "add_theater"
	DeleteTheater  Action = "delete_theater"
	GetTheater     Action = "get_theater"
)

// AllActions returns the complete enumeration.  The registry is checked
// against it at startup.
func AllActions() []Action {
	return []Action{
		CreateAccount, DeleteAccount, UpdatePayment,
		BuyTicket, GetTickets,
		AddAdmin, RevokeAdmin,
		AddMovie, DeleteMovie, ListMovies, GetMovie,
		AccountDetails, VerifyAccount, CheckAdmin,
		AddReview, ListReviews,
		AddTheater, DeleteTheater, GetTheater,
	}
}

// Query parameter names understood by the handlers.
const (
	KeyAction      = "action"
	KeyEmail       = "email"
	KeyPassword    = "password"
	KeyName        = "name"
	KeyPayment     = "payment"
	KeyMovieID     = "movie_id"
	KeyQuantity    = "quantity"
	KeyTargetEmail = "target_email"
	KeyMovieName   = "movie_name"
	KeyShowtime    = "showtime"
	KeyPrice       = "price"
	KeyRating      = "rating"
	KeyTheaterID   = "theater_id"
	KeyTheaterName = "theater_name"
	KeyReview      = "review"
)

// Inputs is the key/value mapping parsed from the query string.
type Inputs map[string]string

// Get returns the value for key or "".
func (in Inputs) Get(key string) string {
	return in[key]
}

// Handler executes one action.
type Handler interface {
	Handle(ctx context.Context, in Inputs) Result
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, in Inputs) Result

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, in Inputs) Result {
	return f(ctx, in)
}
