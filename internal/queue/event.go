// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

import "time"

// TicketPurchasedQueue is the durable queue purchase events are routed to.
const TicketPurchasedQueue = "ticket.purchased"

// TicketPurchasedEvent is published after a ticket row has been stored.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type TicketPurchasedEvent struct {
    TicketID    uint64    `json:"ticket_id"`
    UserID      uint64    `json:"user_id"`
    MovieID     uint64    `json:"movie_id"`
    Quantity    uint32    `json:"quantity"`
    PurchasedAt time.Time `json:"purchased_at"`
}
