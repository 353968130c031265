package services

import "math"

const (
	GlowUpMajorWeight = 3.0
	GlowUpMinorWeight = 1.0
)

// GlowUpScore weights merged revisions by severity and rewards sustained
// iteration logarithmically.
func GlowUpScore(major int, minor int) float64 {
	if major < 0 {
		major = 0
	}
	if minor < 0 {
		minor = 0
	}
	total := major + minor
	if total == 0 {
		return 0
	}
	base := float64(major)*GlowUpMajorWeight + float64(minor)*GlowUpMinorWeight
	return base * (1 + math.Log(float64(total)+1))
}

// GlowUpDelta is the score gained by the merges inside a window.
func GlowUpDelta(totalMajor int, totalMinor int, majorInWindow int, minorInWindow int) float64 {
	delta := GlowUpScore(totalMajor, totalMinor) - GlowUpScore(totalMajor-majorInWindow, totalMinor-minorInWindow)
	return math.Round(delta*100) / 100
}
