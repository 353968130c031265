package http

import "encoding/json"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SubmitPredictionRequest keeps stake_points raw so that strings, fractions
// and out-of-range numbers all fail with PREDICTION_STAKE_INVALID rather than
// a generic decode error.
type SubmitPredictionRequest struct {
	PredictedOutcome string          `json:"predicted_outcome"`
	StakePoints      json.RawMessage `json:"stake_points" swaggertype:"integer"`
}

type PredictionResponse struct {
	PredictionID     string  `json:"prediction_id"`
	ObserverID       string  `json:"observer_id"`
	PullRequestID    string  `json:"pull_request_id"`
	PredictedOutcome string  `json:"predicted_outcome"`
	StakePoints      int     `json:"stake_points"`
	PayoutPoints     int     `json:"payout_points"`
	ResolvedOutcome  *string `json:"resolved_outcome"`
	IsCorrect        *bool   `json:"is_correct"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
	ResolvedAt       *string `json:"resolved_at"`
}

type SubmitPredictionResponse struct {
	Prediction PredictionResponse `json:"prediction"`
	Created    bool               `json:"created"`
}

type ConsensusResponse struct {
	MergeCount        int `json:"merge_count"`
	RejectCount       int `json:"reject_count"`
	MergeStakePoints  int `json:"merge_stake_points"`
	RejectStakePoints int `json:"reject_stake_points"`
	TotalStakePoints  int `json:"total_stake_points"`
}

type MarketResponse struct {
	MergeOdds              float64 `json:"merge_odds"`
	RejectOdds             float64 `json:"reject_odds"`
	MergePayoutMultiplier  float64 `json:"merge_payout_multiplier"`
	RejectPayoutMultiplier float64 `json:"reject_payout_multiplier"`
}

type AccuracyResponse struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Rate    float64 `json:"rate"`
}

type PredictionSummaryResponse struct {
	PullRequestID      string              `json:"pull_request_id"`
	PullRequestStatus  string              `json:"pull_request_status"`
	Consensus          ConsensusResponse   `json:"consensus"`
	ObserverPrediction *PredictionResponse `json:"observer_prediction"`
	Market             MarketResponse      `json:"market"`
	Accuracy           AccuracyResponse    `json:"accuracy"`
}

type DailyUsageResponse struct {
	Submissions          int `json:"submissions"`
	StakePoints          int `json:"stake_points"`
	SubmissionCap        int `json:"submission_cap"`
	StakeCap             int `json:"stake_cap"`
	RemainingSubmissions int `json:"remaining_submissions"`
	RemainingStakePoints int `json:"remaining_stake_points"`
}

type MarketProfileResponse struct {
	ObserverID    string             `json:"observer_id"`
	TrustTier     string             `json:"trust_tier"`
	MaxStake      int                `json:"max_stake"`
	ResolvedCount int                `json:"resolved_count"`
	CorrectCount  int                `json:"correct_count"`
	AccuracyRate  float64            `json:"accuracy_rate"`
	Daily         DailyUsageResponse `json:"daily"`
}

type ResolutionResponse struct {
	PullRequestID string `json:"pull_request_id"`
	Outcome       string `json:"outcome"`
	Resolved      int    `json:"resolved"`
	Correct       int    `json:"correct"`
	TotalPool     int    `json:"total_pool"`
	WinningPool   int    `json:"winning_pool"`
}
