package workers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	eventsv1 "atelier/contracts/events/v1"
	"atelier/contracts/failure"
	application "atelier/contexts/observer-experience/prediction-market/application"
	"atelier/contexts/observer-experience/prediction-market/application/commands"
	"atelier/contexts/observer-experience/prediction-market/ports"
)

const defaultDecisionGroup = "prediction-market-decisions"

var decisionEvents = map[string]struct{}{
	"pull_request_merged":   {},
	"pull_request_rejected": {},
}

// PullRequestDecisionConsumer settles markets when the review system decides
// a pull request.
type PullRequestDecisionConsumer struct {
	Subscriber ports.EventSubscriber
	Resolver   commands.ResolvePredictionsUseCase
	QueueGroup string
	Logger     *slog.Logger
}

func (c PullRequestDecisionConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	group := strings.TrimSpace(c.QueueGroup)
	if group == "" {
		group = defaultDecisionGroup
	}
	if err := c.Subscriber.Subscribe(ctx, eventsv1.SubjectReviewEvents, group, c.Handle); err != nil {
		logger.Error("decision consumer subscribe failed",
			"event", "prediction_decision_consumer_subscribe_failed",
			"module", "observer-experience/prediction-market",
			"layer", "worker",
			"subject", eventsv1.SubjectReviewEvents,
			"queue_group", group,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("decision consumer subscribed",
		"event", "prediction_decision_consumer_started",
		"module", "observer-experience/prediction-market",
		"layer", "worker",
		"subject", eventsv1.SubjectReviewEvents,
		"queue_group", group,
	)
	return nil
}

func (c PullRequestDecisionConsumer) Handle(ctx context.Context, event eventsv1.Envelope) error {
	logger := application.ResolveLogger(c.Logger)

	var payload eventsv1.ReviewEventData
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Warn("decision payload decode failed",
			"event", "prediction_decision_decode_failed",
			"module", "observer-experience/prediction-market",
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
	if _, ok := decisionEvents[eventType]; !ok || strings.TrimSpace(payload.PullRequestID) == "" {
		return nil
	}

	result, err := c.Resolver.ResolvePullRequestPredictions(ctx, payload.PullRequestID)
	if err != nil {
		var typed *failure.Error
		if errors.As(err, &typed) {
			logger.Warn("decision event skipped",
				"event", "prediction_decision_skipped",
				"module", "observer-experience/prediction-market",
				"layer", "worker",
				"event_id", event.EventID,
				"pull_request_id", payload.PullRequestID,
				"code", typed.Code,
			)
			return nil
		}
		return err
	}
	logger.Debug("decision event consumed",
		"event", "prediction_decision_consumed",
		"module", "observer-experience/prediction-market",
		"layer", "worker",
		"event_id", event.EventID,
		"pull_request_id", payload.PullRequestID,
		"resolved", result.Resolved,
	)
	return nil
}
