package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "atelier/contexts/observer-experience/prediction-market/application"
	"atelier/contexts/observer-experience/prediction-market/domain/entities"
	domainerrors "atelier/contexts/observer-experience/prediction-market/domain/errors"
	"atelier/contexts/observer-experience/prediction-market/domain/services"
	"atelier/contexts/observer-experience/prediction-market/ports"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ResolvePredictionsUseCase settles a decided pull request's market. It is
// safe to repeat: resolved rows are excluded by the repository guard.
type ResolvePredictionsUseCase struct {
	PullRequests ports.PullRequestReader
	Predictions  ports.PredictionRepository
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (uc ResolvePredictionsUseCase) ResolvePullRequestPredictions(ctx context.Context, pullRequestID string) (entities.ResolutionResult, error) {
	pullRequestID = strings.TrimSpace(pullRequestID)
	if pullRequestID == "" {
		return entities.ResolutionResult{}, domainerrors.ErrInvalidInput
	}

	ctx, span := tracer.Start(ctx, "prediction.resolve")
	defer span.End()
	span.SetAttributes(attribute.String("pull_request.id", pullRequestID))

	pr, err := uc.PullRequests.GetPullRequest(ctx, pullRequestID)
	if err != nil {
		return entities.ResolutionResult{}, err
	}
	outcome, decided := services.OutcomeForStatus(pr.Status)
	if !decided {
		return entities.ResolutionResult{}, domainerrors.ErrPullRequestNotDecided
	}

	consensus, err := uc.Predictions.GetConsensus(ctx, pullRequestID)
	if err != nil {
		return entities.ResolutionResult{}, err
	}
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	winningPool := consensus.PoolFor(outcome)
	resolved, correct, err := uc.Predictions.ResolvePredictions(ctx, ports.ResolveCommand{
		PullRequestID: pullRequestID,
		Outcome:       outcome,
		TotalPool:     consensus.TotalStakePoints,
		WinningPool:   winningPool,
		ResolvedAt:    now,
	})
	if err != nil {
		return entities.ResolutionResult{}, err
	}
	resolutions.Add(ctx, int64(resolved), metric.WithAttributes(attribute.String("outcome", string(outcome))))

	application.ResolveLogger(uc.Logger).Info("pull request predictions resolved",
		"event", "prediction_market_resolved",
		"module", "observer-experience/prediction-market",
		"layer", "application",
		"pull_request_id", pullRequestID,
		"outcome", string(outcome),
		"resolved", resolved,
		"correct", correct,
	)
	return entities.ResolutionResult{
		PullRequestID: pullRequestID,
		Outcome:       outcome,
		Resolved:      resolved,
		Correct:       correct,
		TotalPool:     consensus.TotalStakePoints,
		WinningPool:   winningPool,
	}, nil
}
