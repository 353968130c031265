package services

import (
	"testing"
	"time"

	"atelier/contexts/observer-experience/prediction-market/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestResolveTrustProfileTiers(t *testing.T) {
	cases := []struct {
		name     string
		resolved int
		correct  int
		tier     entities.TrustTier
		maxStake int
	}{
		{name: "no history", resolved: 0, correct: 0, tier: entities.TrustTierEntry, maxStake: 120},
		{name: "perfect but too few", resolved: 11, correct: 11, tier: entities.TrustTierEntry, maxStake: 120},
		{name: "regular threshold", resolved: 12, correct: 6, tier: entities.TrustTierRegular, maxStake: 220},
		{name: "trusted", resolved: 35, correct: 21, tier: entities.TrustTierTrusted, maxStake: 320},
		{name: "many resolved at half", resolved: 80, correct: 40, tier: entities.TrustTierRegular, maxStake: 220},
		{name: "elite", resolved: 80, correct: 56, tier: entities.TrustTierElite, maxStake: 500},
		{name: "below half", resolved: 40, correct: 19, tier: entities.TrustTierEntry, maxStake: 120},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			profile := ResolveTrustProfile(tc.resolved, tc.correct)
			assert.Equal(t, tc.tier, profile.Tier)
			assert.Equal(t, tc.maxStake, profile.MaxStake)
		})
	}
	assert.Equal(t, 0.7, ResolveTrustProfile(80, 56).AccuracyRate)
}

func TestEffectiveCeilingKeepsExistingStake(t *testing.T) {
	assert.Equal(t, 120, EffectiveCeiling(120, 0))
	assert.Equal(t, 300, EffectiveCeiling(120, 300))
}

func TestMetrics(t *testing.T) {
	metrics := Metrics(entities.Consensus{MergeStakePoints: 60, RejectStakePoints: 40, TotalStakePoints: 100})
	assert.Equal(t, 0.6, metrics.MergeOdds)
	assert.Equal(t, 0.4, metrics.RejectOdds)
	assert.Equal(t, 1.67, metrics.MergePayoutMultiplier)
	assert.Equal(t, 2.5, metrics.RejectPayoutMultiplier)

	empty := Metrics(entities.Consensus{MergeStakePoints: 50, TotalStakePoints: 50})
	assert.Equal(t, 1.0, empty.MergeOdds)
	assert.Zero(t, empty.RejectOdds)
	assert.Zero(t, empty.RejectPayoutMultiplier)
}

func TestPayoutRoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 167, Payout(100, 250, 150))
	assert.Equal(t, 83, Payout(50, 250, 150))
	assert.Equal(t, 3, Payout(5, 5, 10))
	assert.Zero(t, Payout(100, 250, 0))
}

func TestAccuracyOf(t *testing.T) {
	assert.Equal(t, entities.Accuracy{Correct: 2, Total: 3, Rate: 0.67}, AccuracyOf(2, 3))
	assert.Equal(t, entities.Accuracy{}, AccuracyOf(0, 0))
}

func TestProjectBudget(t *testing.T) {
	now := time.Date(2026, 6, 2, 9, 30, 0, 0, time.UTC)
	dayStart := StartOfDay(now)
	assert.Equal(t, time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC), dayStart)

	usage := entities.DailyUsage{Submissions: 3, StakePoints: 300}

	fresh := ProjectBudget(usage, nil, 50, dayStart)
	assert.Equal(t, BudgetCheck{IsNew: true, CountsToday: true, ProjectedStake: 350}, fresh)

	today := &entities.Prediction{StakePoints: 100, CreatedAt: now.Add(-time.Hour)}
	assert.Equal(t, BudgetCheck{CountsToday: true, ProjectedStake: 250}, ProjectBudget(usage, today, 50, dayStart))

	yesterday := &entities.Prediction{StakePoints: 100, CreatedAt: dayStart.Add(-time.Minute)}
	assert.Equal(t, BudgetCheck{ProjectedStake: 300}, ProjectBudget(usage, yesterday, 500, dayStart))
}

func TestOutcomeForStatus(t *testing.T) {
	outcome, ok := OutcomeForStatus(entities.PullRequestStatusMerged)
	assert.True(t, ok)
	assert.Equal(t, entities.OutcomeMerge, outcome)

	outcome, ok = OutcomeForStatus(entities.PullRequestStatusRejected)
	assert.True(t, ok)
	assert.Equal(t, entities.OutcomeReject, outcome)

	_, ok = OutcomeForStatus(entities.PullRequestStatusPending)
	assert.False(t, ok)
}
