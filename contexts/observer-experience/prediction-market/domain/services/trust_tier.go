package services

import "atelier/contexts/observer-experience/prediction-market/domain/entities"

type tierRule struct {
	tier        entities.TrustTier
	minResolved int
	minAccuracy float64
	maxStake    int
}

// tierRules are evaluated in order; the first match wins.
var tierRules = []tierRule{
	{tier: entities.TrustTierElite, minResolved: 80, minAccuracy: 0.66, maxStake: 500},
	{tier: entities.TrustTierTrusted, minResolved: 35, minAccuracy: 0.58, maxStake: 320},
	{tier: entities.TrustTierRegular, minResolved: 12, minAccuracy: 0.50, maxStake: 220},
}

const EntryMaxStake = 120

// ResolveTrustProfile classifies an observer from resolved prediction
// history. Accuracy is compared unrounded.
func ResolveTrustProfile(resolved int, correct int) entities.TrustProfile {
	rate := 0.0
	if resolved > 0 {
		rate = float64(correct) / float64(resolved)
	}
	profile := entities.TrustProfile{
		Tier:          entities.TrustTierEntry,
		MaxStake:      EntryMaxStake,
		ResolvedCount: resolved,
		CorrectCount:  correct,
		AccuracyRate:  Round2(rate),
	}
	for _, rule := range tierRules {
		if resolved >= rule.minResolved && rate >= rule.minAccuracy {
			profile.Tier = rule.tier
			profile.MaxStake = rule.maxStake
			break
		}
	}
	return profile
}

// EffectiveCeiling never drops below a stake the observer already holds on
// the pull request.
func EffectiveCeiling(tierMax int, existingStake int) int {
	if existingStake > tierMax {
		return existingStake
	}
	return tierMax
}
