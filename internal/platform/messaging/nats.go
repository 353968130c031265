package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	eventsv1 "atelier/contracts/events/v1"

	"github.com/nats-io/nats.go"
)

// NATSBus publishes envelopes as JSON and delivers them to queue subscribers.
type NATSBus struct {
	conn   *nats.Conn
	logger *slog.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

func NewNATSBus(url string, name string, logger *slog.Logger) (*NATSBus, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected",
					"event", "nats_disconnected",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"error", err.Error(),
				)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSBus{conn: conn, logger: logger}, nil
}

func (b *NATSBus) Publish(_ context.Context, subject string, event eventsv1.Envelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := b.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

func (b *NATSBus) Subscribe(
	ctx context.Context,
	subject string,
	queueGroup string,
	handler Handler,
) error {
	sub, err := b.conn.QueueSubscribe(subject, queueGroup, func(msg *nats.Msg) {
		var event eventsv1.Envelope
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			b.logger.Error("nats envelope decode failed",
				"event", "nats_decode_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"subject", subject,
				"error", err.Error(),
			)
			return
		}
		if err := handler(ctx, event); err != nil {
			b.logger.Error("consumer handler failed",
				"event", "nats_consume_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"subject", subject,
				"queue_group", queueGroup,
				"event_id", event.EventID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()
	return nil
}

func (b *NATSBus) Close() error {
	if b.conn == nil {
		return nil
	}
	return b.conn.Drain()
}
