package queries

import (
	"context"
	"strings"
	"time"

	"atelier/contexts/observer-experience/prediction-market/domain/entities"
	domainerrors "atelier/contexts/observer-experience/prediction-market/domain/errors"
	"atelier/contexts/observer-experience/prediction-market/domain/services"
	"atelier/contexts/observer-experience/prediction-market/ports"

	"golang.org/x/sync/errgroup"
)

type MarketUseCase struct {
	PullRequests ports.PullRequestReader
	Predictions  ports.PredictionRepository
	Clock        ports.Clock
}

// GetPredictionSummary loads the pull request, pools, the observer's own
// prediction and accuracy concurrently. The pull request lookup decides the
// error when several reads fail.
func (uc MarketUseCase) GetPredictionSummary(ctx context.Context, observerID string, pullRequestID string) (entities.PredictionSummary, error) {
	observerID = strings.TrimSpace(observerID)
	pullRequestID = strings.TrimSpace(pullRequestID)
	if observerID == "" || pullRequestID == "" {
		return entities.PredictionSummary{}, domainerrors.ErrInvalidInput
	}

	var (
		pr        entities.PullRequestRef
		consensus entities.Consensus
		own       entities.Prediction
		hasOwn    bool
		resolved  int
		correct   int
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		pr, err = uc.PullRequests.GetPullRequest(groupCtx, pullRequestID)
		return err
	})
	group.Go(func() error {
		var err error
		consensus, err = uc.Predictions.GetConsensus(groupCtx, pullRequestID)
		return err
	})
	group.Go(func() error {
		var err error
		own, hasOwn, err = uc.Predictions.GetPrediction(groupCtx, observerID, pullRequestID)
		return err
	})
	group.Go(func() error {
		var err error
		resolved, correct, err = uc.Predictions.GetResolvedStats(groupCtx, observerID)
		return err
	})
	if err := group.Wait(); err != nil {
		return entities.PredictionSummary{}, err
	}

	summary := entities.PredictionSummary{
		PullRequestID:     pr.PullRequestID,
		PullRequestStatus: pr.Status,
		Consensus:         consensus,
		Market:            services.Metrics(consensus),
		Accuracy:          services.AccuracyOf(correct, resolved),
	}
	if hasOwn {
		summary.Observer = &own
	}
	return summary, nil
}

func (uc MarketUseCase) GetPredictionMarketProfile(ctx context.Context, observerID string) (entities.MarketProfile, error) {
	observerID = strings.TrimSpace(observerID)
	if observerID == "" {
		return entities.MarketProfile{}, domainerrors.ErrInvalidInput
	}
	resolved, correct, err := uc.Predictions.GetResolvedStats(ctx, observerID)
	if err != nil {
		return entities.MarketProfile{}, err
	}
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	usage, err := uc.Predictions.GetDailyUsage(ctx, observerID, services.StartOfDay(now))
	if err != nil {
		return entities.MarketProfile{}, err
	}
	return entities.MarketProfile{
		ObserverID:           observerID,
		Trust:                services.ResolveTrustProfile(resolved, correct),
		Daily:                usage,
		SubmissionCap:        services.DailySubmissionCap,
		StakeCap:             services.DailyStakeCap,
		RemainingSubmissions: services.Remaining(services.DailySubmissionCap, usage.Submissions),
		RemainingStakePoints: services.Remaining(services.DailyStakeCap, usage.StakePoints),
	}, nil
}
