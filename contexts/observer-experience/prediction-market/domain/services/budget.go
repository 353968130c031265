package services

import (
	"time"

	"atelier/contexts/observer-experience/prediction-market/domain/entities"
)

const (
	MinStakePoints     = 5
	MaxStakePoints     = 500
	DailySubmissionCap = 30
	DailyStakeCap      = 1000
)

func ValidStake(points int) bool {
	return points >= MinStakePoints && points <= MaxStakePoints
}

// StartOfDay is midnight UTC of the day containing now. Daily budgets always
// use UTC regardless of server or database time zone.
func StartOfDay(now time.Time) time.Time {
	utc := now.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// BudgetCheck describes how a submission affects today's budget.
type BudgetCheck struct {
	IsNew          bool
	CountsToday    bool
	ProjectedStake int
}

// ProjectBudget computes today's stake after the submission. A new prediction
// adds its stake; a same-day edit swaps the old stake for the new one; an
// edit of a prediction created before dayStart leaves today's budget alone.
func ProjectBudget(usage entities.DailyUsage, existing *entities.Prediction, stake int, dayStart time.Time) BudgetCheck {
	if existing == nil {
		return BudgetCheck{IsNew: true, CountsToday: true, ProjectedStake: usage.StakePoints + stake}
	}
	if existing.CreatedAt.Before(dayStart) {
		return BudgetCheck{ProjectedStake: usage.StakePoints}
	}
	return BudgetCheck{CountsToday: true, ProjectedStake: usage.StakePoints - existing.StakePoints + stake}
}

func Remaining(limit int, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}
