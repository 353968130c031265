package messaging

import (
	"context"
	"log/slog"
	"time"

	eventsv1 "atelier/contracts/events/v1"

	"github.com/sony/gobreaker"
)

// BreakerPublisher fails fast once the downstream publisher keeps erroring,
// so a broker outage never stalls request handlers.
type BreakerPublisher struct {
	next    Publisher
	breaker *gobreaker.CircuitBreaker
}

type BreakerSettings struct {
	Name                string
	ConsecutiveFailures uint32
	OpenFor             time.Duration
}

func NewBreakerPublisher(next Publisher, settings BreakerSettings, logger *slog.Logger) *BreakerPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	threshold := settings.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}
	return &BreakerPublisher{
		next: next,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    settings.Name,
			Timeout: settings.OpenFor,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warn("publisher circuit state changed",
					"event", "publisher_breaker_state_changed",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"breaker", name,
					"from", from.String(),
					"to", to.String(),
				)
			},
		}),
	}
}

func (p *BreakerPublisher) Publish(ctx context.Context, subject string, event eventsv1.Envelope) error {
	_, err := p.breaker.Execute(func() (any, error) {
		return nil, p.next.Publish(ctx, subject, event)
	})
	return err
}

func (p *BreakerPublisher) State() gobreaker.State {
	return p.breaker.State()
}
