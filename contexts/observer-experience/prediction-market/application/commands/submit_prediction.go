package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"atelier/contracts/failure"
	application "atelier/contexts/observer-experience/prediction-market/application"
	"atelier/contexts/observer-experience/prediction-market/domain/entities"
	domainerrors "atelier/contexts/observer-experience/prediction-market/domain/errors"
	"atelier/contexts/observer-experience/prediction-market/domain/services"
	"atelier/contexts/observer-experience/prediction-market/ports"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "atelier/observer-experience/prediction-market"

var (
	tracer      = otel.Tracer(instrumentationName)
	submissions = newCounter("prediction.submissions", "Prediction submissions by result.")
	resolutions = newCounter("prediction.resolutions", "Predictions settled by pull request decisions.")
)

func newCounter(name string, description string) metric.Int64Counter {
	counter, err := otel.Meter(instrumentationName).Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		otel.Handle(err)
		return noop.Int64Counter{}
	}
	return counter
}

type SubmitPredictionCommand struct {
	ObserverID       string
	PullRequestID    string
	PredictedOutcome entities.Outcome
	StakePoints      int
}

type SubmitPredictionUseCase struct {
	PullRequests ports.PullRequestReader
	Predictions  ports.PredictionRepository
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

// SubmitPrediction validates everything before the single guarded upsert;
// a failure never leaves a partial write behind.
func (uc SubmitPredictionUseCase) SubmitPrediction(ctx context.Context, cmd SubmitPredictionCommand) (entities.SubmitResult, error) {
	cmd.ObserverID = strings.TrimSpace(cmd.ObserverID)
	cmd.PullRequestID = strings.TrimSpace(cmd.PullRequestID)
	cmd.PredictedOutcome = entities.Outcome(strings.ToLower(strings.TrimSpace(string(cmd.PredictedOutcome))))

	ctx, span := tracer.Start(ctx, "prediction.submit", trace.WithAttributes(
		attribute.String("observer.id", cmd.ObserverID),
		attribute.String("pull_request.id", cmd.PullRequestID),
	))
	defer span.End()

	result, outcome, err := uc.submit(ctx, cmd)
	if err != nil {
		code := "internal"
		var typed *failure.Error
		if errors.As(err, &typed) {
			code = typed.Code
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("result", code)))
		return entities.SubmitResult{}, err
	}
	submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("result", outcome)))

	application.ResolveLogger(uc.Logger).Info("prediction submitted",
		"event", "prediction_submitted",
		"module", "observer-experience/prediction-market",
		"layer", "application",
		"observer_id", cmd.ObserverID,
		"pull_request_id", cmd.PullRequestID,
		"predicted_outcome", string(result.Prediction.PredictedOutcome),
		"stake_points", result.Prediction.StakePoints,
		"result", outcome,
	)
	return result, nil
}

func (uc SubmitPredictionUseCase) submit(ctx context.Context, cmd SubmitPredictionCommand) (entities.SubmitResult, string, error) {
	if cmd.ObserverID == "" || cmd.PullRequestID == "" || !cmd.PredictedOutcome.Valid() {
		return entities.SubmitResult{}, "", domainerrors.ErrInvalidInput
	}

	pr, err := uc.PullRequests.GetPullRequest(ctx, cmd.PullRequestID)
	if err != nil {
		return entities.SubmitResult{}, "", err
	}
	if pr.Status != entities.PullRequestStatusPending {
		return entities.SubmitResult{}, "", domainerrors.ErrPullRequestNotPending
	}
	if !services.ValidStake(cmd.StakePoints) {
		return entities.SubmitResult{}, "", domainerrors.ErrInvalidStake
	}

	existing, found, err := uc.Predictions.GetPrediction(ctx, cmd.ObserverID, cmd.PullRequestID)
	if err != nil {
		return entities.SubmitResult{}, "", err
	}
	var current *entities.Prediction
	if found {
		if existing.IsResolved() {
			return entities.SubmitResult{}, "", domainerrors.ErrPredictionResolved
		}
		if existing.PredictedOutcome == cmd.PredictedOutcome && existing.StakePoints == cmd.StakePoints {
			return entities.SubmitResult{Prediction: existing}, "noop", nil
		}
		current = &existing
	}

	resolved, correct, err := uc.Predictions.GetResolvedStats(ctx, cmd.ObserverID)
	if err != nil {
		return entities.SubmitResult{}, "", err
	}
	profile := services.ResolveTrustProfile(resolved, correct)
	existingStake := 0
	if current != nil {
		existingStake = current.StakePoints
	}
	if cmd.StakePoints > services.EffectiveCeiling(profile.MaxStake, existingStake) {
		return entities.SubmitResult{}, "", domainerrors.ErrStakeLimitExceeded
	}

	now := uc.now()
	dayStart := services.StartOfDay(now)
	usage, err := uc.Predictions.GetDailyUsage(ctx, cmd.ObserverID, dayStart)
	if err != nil {
		return entities.SubmitResult{}, "", err
	}
	budget := services.ProjectBudget(usage, current, cmd.StakePoints, dayStart)
	if budget.IsNew && usage.Submissions >= services.DailySubmissionCap {
		return entities.SubmitResult{}, "", domainerrors.ErrDailySubmissionCap
	}
	if budget.CountsToday && budget.ProjectedStake > services.DailyStakeCap {
		return entities.SubmitResult{}, "", domainerrors.ErrDailyStakeCap
	}

	prediction := entities.Prediction{
		ObserverID:       cmd.ObserverID,
		PullRequestID:    cmd.PullRequestID,
		PredictedOutcome: cmd.PredictedOutcome,
		StakePoints:      cmd.StakePoints,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if current != nil {
		prediction.PredictionID = current.PredictionID
		prediction.CreatedAt = current.CreatedAt
	} else {
		prediction.PredictionID, err = uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.SubmitResult{}, "", err
		}
	}

	stored, applied, err := uc.Predictions.UpsertOpenPrediction(ctx, prediction)
	if err != nil {
		return entities.SubmitResult{}, "", err
	}
	if !applied {
		return entities.SubmitResult{}, "", domainerrors.ErrPredictionResolved
	}
	if current == nil {
		return entities.SubmitResult{Prediction: stored, Created: true}, "created", nil
	}
	return entities.SubmitResult{Prediction: stored}, "updated", nil
}

func (uc SubmitPredictionUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
