// Package service holds outbound integrations used by the action handlers.
package service

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/iliyamo/mbs-backend/internal/metrics"
    "github.com/iliyamo/mbs-backend/internal/queue"
)

// TicketPublisher publishes purchase events to RabbitMQ.  Each publish
// dials its own connection; purchases are rare enough that pooling a
// channel is not worth the reconnect handling.
type TicketPublisher struct {
    url string
    log *zap.Logger
}

// NewTicketPublisher returns a publisher for the broker at url.
func NewTicketPublisher(url string, log *zap.Logger) *TicketPublisher {
    if log == nil {
        log = zap.NewNop()
    }
    return &TicketPublisher{url: url, log: log}
}

// PublishTicketPurchased sends ev to the ticket.purchased queue as a
// persistent JSON message.  Errors are logged and returned so the caller
// can choose to ignore them.
func (p *TicketPublisher) PublishTicketPurchased(ctx context.Context, ev queue.TicketPurchasedEvent) (err error) {
    defer func() { metrics.EventPublished(err == nil) }()

    pub, err := newPublishing(ev)
    if err != nil {
        p.log.Error("rabbitmq: marshal event failed", zap.Error(err))
        return err
    }

    conn, err := amqp.Dial(p.url)
    if err != nil {
        p.log.Warn("rabbitmq: dial failed", zap.Error(err))
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.log.Warn("rabbitmq: channel open failed", zap.Error(err))
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        queue.TicketPurchasedQueue, // name
        true,                       // durable
        false,                      // autoDelete
        false,                      // exclusive
        false,                      // noWait
        nil,                        // args
    ); err != nil {
        p.log.Warn("rabbitmq: queue declare failed", zap.Error(err))
        return err
    }

    if err := ch.PublishWithContext(ctx,
        "",                         // default exchange
        queue.TicketPurchasedQueue, // routing key = queue name
        false,                      // mandatory
        false,                      // immediate
        pub,
    ); err != nil {
        p.log.Warn("rabbitmq: publish failed", zap.Error(err))
        return err
    }
    return nil
}

func newPublishing(ev queue.TicketPurchasedEvent) (amqp.Publishing, error) {
    body, err := json.Marshal(ev)
    if err != nil {
        return amqp.Publishing{}, err
    }
    return amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }, nil
}
