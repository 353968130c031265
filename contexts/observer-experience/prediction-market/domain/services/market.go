package services

import (
	"math"

	"atelier/contexts/observer-experience/prediction-market/domain/entities"
)

func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// Metrics derives odds (pool share of total stake) and payout multipliers
// (total stake over own pool). Empty pools yield 0.
func Metrics(consensus entities.Consensus) entities.MarketMetrics {
	total := float64(consensus.TotalStakePoints)
	metrics := entities.MarketMetrics{}
	if total > 0 {
		metrics.MergeOdds = Round2(float64(consensus.MergeStakePoints) / total)
		metrics.RejectOdds = Round2(float64(consensus.RejectStakePoints) / total)
	}
	if consensus.MergeStakePoints > 0 {
		metrics.MergePayoutMultiplier = Round2(total / float64(consensus.MergeStakePoints))
	}
	if consensus.RejectStakePoints > 0 {
		metrics.RejectPayoutMultiplier = Round2(total / float64(consensus.RejectStakePoints))
	}
	return metrics
}

func AccuracyOf(correct int, total int) entities.Accuracy {
	accuracy := entities.Accuracy{Correct: correct, Total: total}
	if total > 0 {
		accuracy.Rate = Round2(float64(correct) / float64(total))
	}
	return accuracy
}

// Payout is the winner's share of the whole pool, rounded half away from
// zero. Storage adapters that compute it in SQL must match this rounding.
func Payout(stake int, totalPool int, winningPool int) int {
	if winningPool <= 0 {
		return 0
	}
	return int(math.Round(float64(stake) * float64(totalPool) / float64(winningPool)))
}

// OutcomeForStatus maps a decided pull request status to the market outcome.
func OutcomeForStatus(status string) (entities.Outcome, bool) {
	switch status {
	case entities.PullRequestStatusMerged:
		return entities.OutcomeMerge, true
	case entities.PullRequestStatusRejected:
		return entities.OutcomeReject, true
	default:
		return "", false
	}
}
