package grouping

import "math"

// ─────────────────────────────────────────────────────────────────────────────
// Optimization score
// ─────────────────────────────────────────────────────────────────────────────

const (
	comfortableGroupSize  = 10
	oversizePenaltyPer    = 5.0
	managerBonus          = 20.0
	spreadThresholdMiles  = 25.0
	spreadPenaltyCap      = 30.0
	highRiskMeanThreshold = 70.0
	highRiskBonus         = 15.0
)

// optimizationScore rates how workable a group is for scheduling.  It starts
// at 100 and applies size, spread, and strategy adjustments, clamped to
// [0, 100].  The score is informational; no group is rejected because of it.
func optimizationScore(groupType GroupType, size int, avgDistanceMiles, avgRisk float64) float64 {
	score := 100.0

	if size > comfortableGroupSize {
		score -= float64(size-comfortableGroupSize) * oversizePenaltyPer
	}

	if groupType == TypePropertyManager {
		score += managerBonus
	}

	if avgDistanceMiles > spreadThresholdMiles {
		score -= math.Min(spreadPenaltyCap, (avgDistanceMiles-spreadThresholdMiles)*2)
	}

	if groupType == TypeRiskBased && avgRisk > highRiskMeanThreshold {
		score += highRiskBonus
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
