package messaging

import (
	"context"

	eventsv1 "atelier/contracts/events/v1"
)

// Handler is an alias so module ports can declare the same signature without
// importing this package.
type Handler = func(context.Context, eventsv1.Envelope) error

type Publisher interface {
	Publish(ctx context.Context, subject string, event eventsv1.Envelope) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, subject string, queueGroup string, handler Handler) error
}

type Bus interface {
	Publisher
	Subscriber
	Close() error
}
