package risk

import (
	"fmt"
	"sort"
	"time"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
)

// ─────────────────────────────────────────────────────────────────────────────
// Rule-based recommendation generation
// ─────────────────────────────────────────────────────────────────────────────

// roofReplacementCost maps roof systems to replacement cost assumptions.
var roofReplacementCost = map[property.RoofType]float64{
	property.RoofAsphalt: 8000,
	property.RoofMetal:   15000,
	property.RoofTile:    12000,
	property.RoofSlate:   20000,
	property.RoofRubber:  10000,
}

// defaultReplacementCost applies to unknown roof systems.
const defaultReplacementCost = 10000.0

// ReplacementCost returns the assumed replacement cost for a roof system.
func ReplacementCost(rt property.RoofType) float64 {
	if cost, ok := roofReplacementCost[rt]; ok {
		return cost
	}
	return defaultReplacementCost
}

// GenerateRecommendations runs every independent recommendation rule against
// the property's current state; all applicable rules fire.  The result is
// stable-sorted descending by priority rank so that ties keep rule order.
func GenerateRecommendations(p property.Property, latest property.InspectionRecord, conditionScore float64, now time.Time) []Recommendation {
	var recs []Recommendation

	// Aging roof systems warrant planned replacement.
	if age := p.AgeYears(now); age > 20 {
		priority := RecPriorityMedium
		timeframe := "12-18 months"
		if age > 30 {
			priority = RecPriorityHigh
			timeframe = "6-12 months"
		}
		recs = append(recs, Recommendation{
			Type:          RecPreventive,
			Priority:      priority,
			Description:   fmt.Sprintf("Plan roof replacement; %s system is %.0f years old", p.RoofType, age),
			EstimatedCost: ReplacementCost(p.RoofType),
			Timeframe:     timeframe,
			RiskReduction: 40,
		})
	}

	// Poor condition calls for corrective work sized to the deficit.
	if conditionScore < 60 {
		priority := RecPriorityMedium
		if conditionScore < 40 {
			priority = RecPriorityHigh
		}
		recs = append(recs, Recommendation{
			Type:          RecCorrective,
			Priority:      priority,
			Description:   fmt.Sprintf("Address condition issues found during inspection (score %.0f)", conditionScore),
			EstimatedCost: 5000 + (60-conditionScore)*200,
			Timeframe:     "1-3 months",
			RiskReduction: 25,
		})
	}

	// Fresh weather damage is always an emergency.
	if latest.WeatherDamage {
		recs = append(recs, Recommendation{
			Type:          RecEmergency,
			Priority:      RecPriorityCritical,
			Description:   "Repair weather damage identified in latest inspection",
			EstimatedCost: 3000,
			Timeframe:     "1-2 weeks",
			RiskReduction: 30,
		})
	}

	// Overdue routine maintenance.
	if days := p.DaysSinceMaintenance(now); days > 365 {
		priority := RecPriorityLow
		if days > 730 {
			priority = RecPriorityMedium
		}
		recs = append(recs, Recommendation{
			Type:          RecPreventive,
			Priority:      priority,
			Description:   fmt.Sprintf("Schedule routine maintenance; %.0f days since last service", days),
			EstimatedCost: 1500,
			Timeframe:     "3-6 months",
			RiskReduction: 15,
		})
	}

	// Lapsed warranty coverage.
	if p.WarrantyExpired(now) {
		recs = append(recs, Recommendation{
			Type:          RecPreventive,
			Priority:      RecPriorityMedium,
			Description:   "Renew or renegotiate roof warranty coverage",
			EstimatedCost: 1000,
			Timeframe:     "1-3 months",
			RiskReduction: 10,
		})
	}

	// Stable sort: equal priorities keep rule insertion order.
	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank(recs[i].Priority) > priorityRank(recs[j].Priority)
	})

	return recs
}
