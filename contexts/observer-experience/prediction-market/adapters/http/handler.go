package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"atelier/contexts/observer-experience/prediction-market/application/commands"
	"atelier/contexts/observer-experience/prediction-market/application/queries"
	"atelier/contexts/observer-experience/prediction-market/domain/entities"
	domainerrors "atelier/contexts/observer-experience/prediction-market/domain/errors"
	httptransport "atelier/contexts/observer-experience/prediction-market/transport/http"
)

type Handler struct {
	Submit  commands.SubmitPredictionUseCase
	Resolve commands.ResolvePredictionsUseCase
	Market  queries.MarketUseCase
	Logger  *slog.Logger
}

func (h Handler) SubmitPredictionHandler(
	ctx context.Context,
	observerID string,
	pullRequestID string,
	req httptransport.SubmitPredictionRequest,
) (httptransport.SubmitPredictionResponse, error) {
	stake, err := parseStake(req.StakePoints)
	if err != nil {
		return httptransport.SubmitPredictionResponse{}, err
	}
	result, err := h.Submit.SubmitPrediction(ctx, commands.SubmitPredictionCommand{
		ObserverID:       observerID,
		PullRequestID:    pullRequestID,
		PredictedOutcome: entities.Outcome(req.PredictedOutcome),
		StakePoints:      stake,
	})
	if err != nil {
		return httptransport.SubmitPredictionResponse{}, err
	}
	return httptransport.SubmitPredictionResponse{
		Prediction: mapPrediction(result.Prediction),
		Created:    result.Created,
	}, nil
}

func (h Handler) PredictionSummaryHandler(
	ctx context.Context,
	observerID string,
	pullRequestID string,
) (httptransport.PredictionSummaryResponse, error) {
	summary, err := h.Market.GetPredictionSummary(ctx, observerID, pullRequestID)
	if err != nil {
		return httptransport.PredictionSummaryResponse{}, err
	}
	response := httptransport.PredictionSummaryResponse{
		PullRequestID:     summary.PullRequestID,
		PullRequestStatus: summary.PullRequestStatus,
		Consensus: httptransport.ConsensusResponse{
			MergeCount:        summary.Consensus.MergeCount,
			RejectCount:       summary.Consensus.RejectCount,
			MergeStakePoints:  summary.Consensus.MergeStakePoints,
			RejectStakePoints: summary.Consensus.RejectStakePoints,
			TotalStakePoints:  summary.Consensus.TotalStakePoints,
		},
		Market: httptransport.MarketResponse{
			MergeOdds:              summary.Market.MergeOdds,
			RejectOdds:             summary.Market.RejectOdds,
			MergePayoutMultiplier:  summary.Market.MergePayoutMultiplier,
			RejectPayoutMultiplier: summary.Market.RejectPayoutMultiplier,
		},
		Accuracy: httptransport.AccuracyResponse{
			Correct: summary.Accuracy.Correct,
			Total:   summary.Accuracy.Total,
			Rate:    summary.Accuracy.Rate,
		},
	}
	if summary.Observer != nil {
		own := mapPrediction(*summary.Observer)
		response.ObserverPrediction = &own
	}
	return response, nil
}

func (h Handler) MarketProfileHandler(ctx context.Context, observerID string) (httptransport.MarketProfileResponse, error) {
	profile, err := h.Market.GetPredictionMarketProfile(ctx, observerID)
	if err != nil {
		return httptransport.MarketProfileResponse{}, err
	}
	return httptransport.MarketProfileResponse{
		ObserverID:    profile.ObserverID,
		TrustTier:     string(profile.Trust.Tier),
		MaxStake:      profile.Trust.MaxStake,
		ResolvedCount: profile.Trust.ResolvedCount,
		CorrectCount:  profile.Trust.CorrectCount,
		AccuracyRate:  profile.Trust.AccuracyRate,
		Daily: httptransport.DailyUsageResponse{
			Submissions:          profile.Daily.Submissions,
			StakePoints:          profile.Daily.StakePoints,
			SubmissionCap:        profile.SubmissionCap,
			StakeCap:             profile.StakeCap,
			RemainingSubmissions: profile.RemainingSubmissions,
			RemainingStakePoints: profile.RemainingStakePoints,
		},
	}, nil
}

func (h Handler) ResolvePredictionsHandler(ctx context.Context, pullRequestID string) (httptransport.ResolutionResponse, error) {
	result, err := h.Resolve.ResolvePullRequestPredictions(ctx, pullRequestID)
	if err != nil {
		return httptransport.ResolutionResponse{}, err
	}
	return httptransport.ResolutionResponse{
		PullRequestID: result.PullRequestID,
		Outcome:       string(result.Outcome),
		Resolved:      result.Resolved,
		Correct:       result.Correct,
		TotalPool:     result.TotalPool,
		WinningPool:   result.WinningPool,
	}, nil
}

// parseStake accepts only JSON integer literals. Exponent and decimal forms
// such as 1e1 or 5.0 are rejected even when their value is integral.
func parseStake(raw json.RawMessage) (int, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return 0, domainerrors.ErrInvalidStake
	}
	number, ok := value.(json.Number)
	if !ok {
		return 0, domainerrors.ErrInvalidStake
	}
	points, err := strconv.Atoi(number.String())
	if err != nil {
		return 0, domainerrors.ErrInvalidStake
	}
	return points, nil
}

func mapPrediction(prediction entities.Prediction) httptransport.PredictionResponse {
	response := httptransport.PredictionResponse{
		PredictionID:     prediction.PredictionID,
		ObserverID:       prediction.ObserverID,
		PullRequestID:    prediction.PullRequestID,
		PredictedOutcome: string(prediction.PredictedOutcome),
		StakePoints:      prediction.StakePoints,
		PayoutPoints:     prediction.PayoutPoints,
		IsCorrect:        prediction.IsCorrect,
		CreatedAt:        prediction.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        prediction.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if prediction.ResolvedOutcome != nil {
		value := string(*prediction.ResolvedOutcome)
		response.ResolvedOutcome = &value
	}
	if prediction.ResolvedAt != nil {
		value := prediction.ResolvedAt.UTC().Format(time.RFC3339)
		response.ResolvedAt = &value
	}
	return response
}
