package workers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	eventsv1 "atelier/contracts/events/v1"
	"atelier/contracts/failure"
	application "atelier/contexts/observer-experience/observer-digest-service/application"
	"atelier/contexts/observer-experience/observer-digest-service/application/commands"
	"atelier/contexts/observer-experience/observer-digest-service/ports"
)

const defaultReviewEventsGroup = "observer-digest-review-events"

// ReviewEventConsumer turns review-system events into digest fan-out. Replays
// are harmless because fan-out refreshes entries inside the dedup window.
type ReviewEventConsumer struct {
	Subscriber ports.EventSubscriber
	Events     commands.RecordDraftEventUseCase
	QueueGroup string
	Logger     *slog.Logger
}

func (c ReviewEventConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	group := strings.TrimSpace(c.QueueGroup)
	if group == "" {
		group = defaultReviewEventsGroup
	}
	if err := c.Subscriber.Subscribe(ctx, eventsv1.SubjectReviewEvents, group, c.Handle); err != nil {
		logger.Error("review event consumer subscribe failed",
			"event", "digest_review_consumer_subscribe_failed",
			"module", "observer-experience/observer-digest-service",
			"layer", "worker",
			"subject", eventsv1.SubjectReviewEvents,
			"queue_group", group,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("review event consumer subscribed",
		"event", "digest_review_consumer_started",
		"module", "observer-experience/observer-digest-service",
		"layer", "worker",
		"subject", eventsv1.SubjectReviewEvents,
		"queue_group", group,
	)
	return nil
}

// Handle processes one envelope. Payloads that can never succeed (malformed
// JSON, unknown drafts) are logged and acknowledged; storage errors are
// returned so the bus can log them.
func (c ReviewEventConsumer) Handle(ctx context.Context, event eventsv1.Envelope) error {
	logger := application.ResolveLogger(c.Logger)

	var payload eventsv1.ReviewEventData
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Warn("review event payload decode failed",
			"event", "digest_review_event_decode_failed",
			"module", "observer-experience/observer-digest-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return nil
	}
	eventType := strings.TrimSpace(payload.EventType)
	if eventType == "" {
		eventType = strings.TrimSpace(event.EventType)
	}

	result, err := c.Events.RecordDraftEvent(ctx, commands.RecordDraftEventCommand{
		DraftID:   payload.DraftID,
		EventType: eventType,
	})
	if err != nil {
		var typed *failure.Error
		if errors.As(err, &typed) {
			logger.Warn("review event skipped",
				"event", "digest_review_event_skipped",
				"module", "observer-experience/observer-digest-service",
				"layer", "worker",
				"event_id", event.EventID,
				"draft_id", payload.DraftID,
				"code", typed.Code,
			)
			return nil
		}
		return err
	}
	logger.Debug("review event consumed",
		"event", "digest_review_event_consumed",
		"module", "observer-experience/observer-digest-service",
		"layer", "worker",
		"event_id", event.EventID,
		"draft_id", payload.DraftID,
		"notified_observers", result.NotifiedObservers,
	)
	return nil
}
