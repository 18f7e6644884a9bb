package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

// TicketLogFile is the file, under the consumer's log directory, that
// receives one line per purchase.
const TicketLogFile = "tickets.log"

// ConsumerConfig configures StartTicketConsumer.
type ConsumerConfig struct {
    URL    string
    LogDir string
    Logger *zap.Logger
}

// StartTicketConsumer connects to RabbitMQ, declares the ticket.purchased
// queue (durable) and appends every event to <LogDir>/tickets.log.  It
// reconnects with exponential backoff until ctx is cancelled, then returns
// ctx.Err().  Malformed messages are rejected without requeue.
func StartTicketConsumer(ctx context.Context, cfg ConsumerConfig) error {
    logger := cfg.Logger
    if logger == nil {
        logger = zap.NewNop()
    }
    if cfg.LogDir == "" {
        cfg.LogDir = "logs"
    }

    backoff := time.Second
    for {
        if err := ctx.Err(); err != nil {
            return err
        }
        conn, err := amqp.Dial(cfg.URL)
        if err != nil {
            logger.Warn("ticket-consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = consumeLoop(ctx, conn, cfg.LogDir, logger)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        logger.Warn("ticket-consumer: consume loop ended, reconnecting", zap.Error(err))
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, dir string, logger *zap.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        logger.Warn("ticket-consumer: set QoS failed", zap.Error(err))
    }

    if _, err := ch.QueueDeclare(TicketPurchasedQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(TicketPurchasedQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := HandleMessage(d.Body, dir); err != nil {
                logger.Error("ticket-consumer: handle message failed", zap.Error(err))
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// HandleMessage decodes one event and appends its log line under dir.
func HandleMessage(body []byte, dir string) error {
    var ev TicketPurchasedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.TicketID == 0 {
        return errors.New("event without ticket id")
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(filepath.Join(dir, TicketLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatLine renders an event as a single log line.
func FormatLine(ev TicketPurchasedEvent) string {
    return fmt.Sprintf("[%s] Ticket purchased | ticket_id=%d | user_id=%d | movie_id=%d | quantity=%d\n",
        ev.PurchasedAt.UTC().Format(time.RFC3339), ev.TicketID, ev.UserID, ev.MovieID, ev.Quantity)
}
