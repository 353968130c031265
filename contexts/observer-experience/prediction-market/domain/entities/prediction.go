package entities

import "time"

type Outcome string

const (
	OutcomeMerge  Outcome = "merge"
	OutcomeReject Outcome = "reject"
)

func (o Outcome) Valid() bool {
	return o == OutcomeMerge || o == OutcomeReject
}

const (
	PullRequestStatusPending  = "pending"
	PullRequestStatusMerged   = "merged"
	PullRequestStatusRejected = "rejected"
)

// PullRequestRef is the slice of a review-system pull request the market
// reads.
type PullRequestRef struct {
	PullRequestID string
	DraftID       string
	Status        string
}

type Prediction struct {
	PredictionID     string
	ObserverID       string
	PullRequestID    string
	PredictedOutcome Outcome
	StakePoints      int
	PayoutPoints     int
	ResolvedOutcome  *Outcome
	IsCorrect        *bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ResolvedAt       *time.Time
}

func (p Prediction) IsResolved() bool {
	return p.ResolvedAt != nil
}

type SubmitResult struct {
	Prediction Prediction
	Created    bool
}

type Consensus struct {
	MergeCount        int
	RejectCount       int
	MergeStakePoints  int
	RejectStakePoints int
	TotalStakePoints  int
}

func (c Consensus) PoolFor(outcome Outcome) int {
	if outcome == OutcomeMerge {
		return c.MergeStakePoints
	}
	return c.RejectStakePoints
}

type MarketMetrics struct {
	MergeOdds              float64
	RejectOdds             float64
	MergePayoutMultiplier  float64
	RejectPayoutMultiplier float64
}

type Accuracy struct {
	Correct int
	Total   int
	Rate    float64
}

type PredictionSummary struct {
	PullRequestID     string
	PullRequestStatus string
	Consensus         Consensus
	Observer          *Prediction
	Market            MarketMetrics
	Accuracy          Accuracy
}

type DailyUsage struct {
	Submissions int
	StakePoints int
}

type TrustTier string

const (
	TrustTierElite   TrustTier = "elite"
	TrustTierTrusted TrustTier = "trusted"
	TrustTierRegular TrustTier = "regular"
	TrustTierEntry   TrustTier = "entry"
)

type TrustProfile struct {
	Tier          TrustTier
	MaxStake      int
	ResolvedCount int
	CorrectCount  int
	AccuracyRate  float64
}

type MarketProfile struct {
	ObserverID           string
	Trust                TrustProfile
	Daily                DailyUsage
	SubmissionCap        int
	StakeCap             int
	RemainingSubmissions int
	RemainingStakePoints int
}

type ResolutionResult struct {
	PullRequestID string
	Outcome       Outcome
	Resolved      int
	Correct       int
	TotalPool     int
	WinningPool   int
}
