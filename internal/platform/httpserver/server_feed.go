package httpserver

import (
	"context"
	"encoding/json"
	"time"

	eventsv1 "atelier/contracts/events/v1"

	"github.com/oklog/ulid/v2"
)

const feedSourceService = "atelier-api"

// publishFeed announces a successful observer-facing change on the observer
// feed subject. Delivery is best effort: failures are logged and never turn
// a successful request into an error.
func (s *Server) publishFeed(ctx context.Context, eventType string, keyPath string, key string, payload any) {
	if s.publisher == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logFeedFailure(eventType, err)
		return
	}
	envelope := eventsv1.Envelope{
		EventID:          ulid.Make().String(),
		EventType:        eventType,
		OccurredAt:       time.Now().UTC(),
		SourceService:    feedSourceService,
		SchemaVersion:    1,
		PartitionKeyPath: "data." + keyPath,
		PartitionKey:     key,
		Data:             data,
	}
	if err := s.publisher.Publish(ctx, eventsv1.SubjectObserverFeed, envelope); err != nil {
		s.logFeedFailure(eventType, err)
	}
}

func (s *Server) logFeedFailure(eventType string, err error) {
	s.logger.Warn("observer feed publish failed",
		"event", "observer_feed_publish_failed",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"event_type", eventType,
		"error", err.Error(),
	)
}
