package messaging

import (
	"context"
	"log/slog"
	"sync"

	eventsv1 "atelier/contracts/events/v1"
)

// MemoryBus is the in-process publish/subscribe bus used when no NATS URL is
// configured and by tests. Queue groups receive each event once.
type MemoryBus struct {
	mu          sync.RWMutex
	subscribers map[string]map[string][]chan eventsv1.Envelope
	next        map[string]int
	wg          sync.WaitGroup
	logger      *slog.Logger
}

func NewMemoryBus(logger *slog.Logger) *MemoryBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryBus{
		subscribers: make(map[string]map[string][]chan eventsv1.Envelope),
		next:        make(map[string]int),
		logger:      logger,
	}
}

func (b *MemoryBus) Publish(ctx context.Context, subject string, event eventsv1.Envelope) error {
	b.mu.Lock()
	groups := b.subscribers[subject]
	targets := make([]chan eventsv1.Envelope, 0, len(groups))
	for group, members := range groups {
		if len(members) == 0 {
			continue
		}
		key := subject + "/" + group
		targets = append(targets, members[b.next[key]%len(members)])
		b.next[key]++
	}
	b.mu.Unlock()

	for _, sub := range targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- event:
		default:
			b.logger.Warn("dropping event for slow subscriber",
				"event", "bus_publish_drop",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"subject", subject,
				"event_id", event.EventID,
			)
		}
	}

	b.logger.Debug("event published",
		"event", "bus_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"subject", subject,
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	return nil
}

func (b *MemoryBus) Subscribe(
	ctx context.Context,
	subject string,
	queueGroup string,
	handler Handler,
) error {
	ch := make(chan eventsv1.Envelope, 128)

	b.mu.Lock()
	if b.subscribers[subject] == nil {
		b.subscribers[subject] = make(map[string][]chan eventsv1.Envelope)
	}
	b.subscribers[subject][queueGroup] = append(b.subscribers[subject][queueGroup], ch)
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-ctx.Done():
				b.removeSubscriber(subject, queueGroup, ch)
				return
			case event := <-ch:
				if err := handler(ctx, event); err != nil {
					b.logger.Error("consumer handler failed",
						"event", "bus_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"subject", subject,
						"queue_group", queueGroup,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

// Close waits for subscriber goroutines; their contexts must already be
// cancelled.
func (b *MemoryBus) Close() error {
	b.wg.Wait()
	return nil
}

func (b *MemoryBus) removeSubscriber(subject string, queueGroup string, target chan eventsv1.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.subscribers[subject][queueGroup]
	if len(items) == 0 {
		return
	}
	filtered := make([]chan eventsv1.Envelope, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	b.subscribers[subject][queueGroup] = filtered
}
