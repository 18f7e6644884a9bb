package action

import (
	"time"

	"github.com/iliyamo/mbs-backend/internal/model"
)

// JSON shapes of the records carried in result payloads.

type movieView struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Showtime  string  `json:"showtime"`
	Price     float64 `json:"price"`
	Rating    string  `json:"rating"`
	TheaterID *uint64 `json:"theater_id"`
}

func newMovieView(m model.Movie) movieView {
	v := movieView{
		ID:       m.ID,
		Name:     m.Name,
		Showtime: m.Showtime,
		Price:    m.Price,
		Rating:   string(m.Rating),
	}
	if m.TheaterID.Valid {
		id := uint64(m.TheaterID.Int64)
		v.TheaterID = &id
	}
	return v
}

type ticketView struct {
	ID          uint64 `json:"id"`
	UserID      uint64 `json:"user_id"`
	MovieID     uint64 `json:"movie_id"`
	Quantity    uint32 `json:"quantity"`
	PurchasedAt string `json:"purchased_at"`
}

type reviewView struct {
	UserID uint64 `json:"user_id"`
	Review string `json:"review"`
}

// userView never carries the credential.
type userView struct {
	ID      uint64  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Payment *string `json:"payment"`
}

func newUserView(u model.User) userView {
	v := userView{ID: u.ID, Name: u.Name, Email: u.Email}
	if u.Payment.Valid {
		p := u.Payment.String
		v.Payment = &p
	}
	return v
}

func newTicketViews(ts []model.Ticket) []ticketView {
	out := make([]ticketView, 0, len(ts))
	for _, t := range ts {
		out = append(out, ticketView{
			ID:          t.ID,
			UserID:      t.UserID,
			MovieID:     t.MovieID,
			Quantity:    t.Quantity,
			PurchasedAt: t.PurchasedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
