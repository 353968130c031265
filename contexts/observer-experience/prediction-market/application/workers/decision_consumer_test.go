package workers_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	eventsv1 "atelier/contracts/events/v1"
	predictionmarket "atelier/contexts/observer-experience/prediction-market"
	"atelier/contexts/observer-experience/prediction-market/domain/entities"
	"atelier/internal/platform/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func decisionEnvelope(t *testing.T, pullRequestID string, eventType string) eventsv1.Envelope {
	t.Helper()
	data, err := json.Marshal(eventsv1.ReviewEventData{DraftID: "draft-1", PullRequestID: pullRequestID, EventType: eventType})
	require.NoError(t, err)
	return eventsv1.Envelope{EventID: pullRequestID + "-" + eventType, EventType: eventType, Data: data}
}

func seed(module predictionmarket.Module, status string) {
	base := time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC)
	module.Store.SetPullRequest(entities.PullRequestRef{PullRequestID: "pr-1", DraftID: "draft-1", Status: status})
	module.Store.SetPrediction(entities.Prediction{
		PredictionID: "p-1", ObserverID: "obs-a", PullRequestID: "pr-1",
		PredictedOutcome: entities.OutcomeReject, StakePoints: 20, CreatedAt: base, UpdatedAt: base,
	})
}

func TestDecisionConsumerResolvesOnRejection(t *testing.T) {
	bus := messaging.NewMemoryBus(nil)
	module := predictionmarket.NewInMemoryModule(bus, nil)
	seed(module, entities.PullRequestStatusRejected)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, module.DecisionConsumer.Start(ctx))
	require.NoError(t, bus.Publish(ctx, eventsv1.SubjectReviewEvents, decisionEnvelope(t, "pr-1", "pull_request_rejected")))

	require.Eventually(t, func() bool {
		prediction, found, err := module.Store.GetPrediction(context.Background(), "obs-a", "pr-1")
		return err == nil && found && prediction.IsResolved() && prediction.PayoutPoints == 20
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, bus.Close())
}

func TestDecisionConsumerIgnoresOtherEvents(t *testing.T) {
	module := predictionmarket.NewInMemoryModule(nil, nil)
	seed(module, entities.PullRequestStatusPending)
	ctx := context.Background()

	assert.NoError(t, module.DecisionConsumer.Handle(ctx, decisionEnvelope(t, "pr-1", "pull_request_submitted")))
	assert.NoError(t, module.DecisionConsumer.Handle(ctx, decisionEnvelope(t, "", "pull_request_merged")))
	assert.NoError(t, module.DecisionConsumer.Handle(ctx, eventsv1.Envelope{EventID: "bad", Data: []byte("{")}))

	// decision events for still-pending pull requests are acknowledged
	assert.NoError(t, module.DecisionConsumer.Handle(ctx, decisionEnvelope(t, "pr-1", "pull_request_merged")))

	prediction, found, err := module.Store.GetPrediction(ctx, "obs-a", "pr-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, prediction.IsResolved())
}
