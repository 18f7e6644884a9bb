package model

import "time"

// Ticket models an entry in the `tickets` table.  Tickets are append
// only: they are created by a purchase and never updated.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owner of the ticket.
//  MovieID     – movie the ticket admits to.
//  Quantity    – number of seats bought, at least one.
//  PurchasedAt – creation timestamp set by the store.
type Ticket struct {
    ID          uint64    `db:"id"`           // tickets.id
    UserID      uint64    `db:"user_id"`      // tickets.user_id
    MovieID     uint64    `db:"movie_id"`     // tickets.movie_id
    Quantity    uint32    `db:"quantity"`     // tickets.quantity
    PurchasedAt time.Time `db:"purchased_at"` // tickets.purchased_at
}

// Review is a row in the `reviews` table.  The pair (UserID, MovieID)
// is the primary key, so a user can review a movie at most once.
type Review struct {
    UserID  uint64 `db:"user_id"`  // reviews.user_id
    MovieID uint64 `db:"movie_id"` // reviews.movie_id
    Text    string `db:"review"`   // reviews.review
}
