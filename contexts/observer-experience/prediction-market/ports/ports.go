package ports

import (
	"context"
	"time"

	eventsv1 "atelier/contracts/events/v1"
	"atelier/contexts/observer-experience/prediction-market/domain/entities"
)

type PullRequestReader interface {
	GetPullRequest(ctx context.Context, pullRequestID string) (entities.PullRequestRef, error)
}

type ResolveCommand struct {
	PullRequestID string
	Outcome       entities.Outcome
	TotalPool     int
	WinningPool   int
	ResolvedAt    time.Time
}

type PredictionRepository interface {
	GetPrediction(ctx context.Context, observerID string, pullRequestID string) (entities.Prediction, bool, error)
	// UpsertOpenPrediction inserts or updates the (observer, pull request)
	// row in one statement guarded by resolved_at IS NULL. It reports false
	// when the guard rejected the write.
	UpsertOpenPrediction(ctx context.Context, prediction entities.Prediction) (entities.Prediction, bool, error)
	GetConsensus(ctx context.Context, pullRequestID string) (entities.Consensus, error)
	// GetResolvedStats returns the observer's resolved and correct counts.
	GetResolvedStats(ctx context.Context, observerID string) (resolved int, correct int, err error)
	GetDailyUsage(ctx context.Context, observerID string, dayStart time.Time) (entities.DailyUsage, error)
	// ResolvePredictions settles every unresolved prediction on the pull
	// request. Already resolved rows are never touched.
	ResolvePredictions(ctx context.Context, cmd ResolveCommand) (resolved int, correct int, err error)
}

type EventHandler = func(context.Context, eventsv1.Envelope) error

type EventSubscriber interface {
	Subscribe(ctx context.Context, subject string, queueGroup string, handler EventHandler) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
