package risk

import (
	"math"
	"time"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
)

// ─────────────────────────────────────────────────────────────────────────────
// Composite risk score
// ─────────────────────────────────────────────────────────────────────────────

// Factor weights.  They sum to 1.0; each factor value is normalised to 0-100
// before weighting so the composite score also lands in [0, 100].
const (
	weightAge         = 0.25
	weightCondition   = 0.30
	weightWeather     = 0.20
	weightMaintenance = 0.15
	weightWarranty    = 0.10
)

// Flat factor values for the two boolean factors.
const (
	weatherDamageFactorValue = 30.0
	warrantyExpiredFactorValue = 25.0
)

// Normalisation horizons.
const (
	ageHorizonYears        = 40.0
	maintenanceHorizonDays = 730.0
)

// CompositeScore computes the weighted five-factor risk score for a property
// given the condition score of its most recent inspection.  The returned
// factor breakdown preserves derivation order for explainability.
func CompositeScore(p property.Property, latest property.InspectionRecord, conditionScore float64, now time.Time) (float64, []Factor) {
	ageValue := math.Min(100, p.AgeYears(now)/ageHorizonYears*100)
	conditionValue := 100 - conditionScore

	weatherValue := 0.0
	if latest.WeatherDamage {
		weatherValue = weatherDamageFactorValue
	}

	maintenanceValue := math.Min(100, p.DaysSinceMaintenance(now)/maintenanceHorizonDays*100)

	warrantyValue := 0.0
	if p.WarrantyExpired(now) {
		warrantyValue = warrantyExpiredFactorValue
	}

	factors := []Factor{
		{Name: "age", Weight: weightAge, Value: ageValue},
		{Name: "condition", Weight: weightCondition, Value: conditionValue},
		{Name: "weather_damage", Weight: weightWeather, Value: weatherValue},
		{Name: "maintenance_recency", Weight: weightMaintenance, Value: maintenanceValue},
		{Name: "warranty_status", Weight: weightWarranty, Value: warrantyValue},
	}

	score := 0.0
	for i := range factors {
		factors[i].Contribution = factors[i].Weight * factors[i].Value
		score += factors[i].Contribution
	}

	return clamp(score, 0, 100), factors
}

// ─────────────────────────────────────────────────────────────────────────────
// Predicted maintenance date
// ─────────────────────────────────────────────────────────────────────────────

// PredictMaintenanceDate estimates the next maintenance date from the latest
// condition score and the condition trend direction.  The baseline is 12
// months out, pulled in to 3 months below a condition score of 40 and 6
// months below 60, then scaled by 0.7 for a declining trend or 1.3 (capped
// at 24 months) for an improving one.
func PredictMaintenanceDate(conditionScore float64, direction TrendDirection, now time.Time) time.Time {
	months := 12.0
	switch {
	case conditionScore < 40:
		months = 3
	case conditionScore < 60:
		months = 6
	}

	switch direction {
	case TrendDeclining:
		months *= 0.7
	case TrendImproving:
		months = math.Min(24, months*1.3)
	}

	days := int(math.Round(months * 30.44))
	return now.AddDate(0, 0, days)
}

// ─────────────────────────────────────────────────────────────────────────────
// Cost estimate and confidence
// ─────────────────────────────────────────────────────────────────────────────

// contingencyFactor is the fixed buffer applied to summed recommendation
// costs.
const contingencyFactor = 1.15

// EstimateCost sums the recommendation costs and applies the contingency
// buffer.
func EstimateCost(recs []Recommendation) float64 {
	total := 0.0
	for _, r := range recs {
		total += r.EstimatedCost
	}
	return total * contingencyFactor
}

// ConfidenceScore rates the reliability of an analysis from the volume and
// recency of its underlying data: base 0.5, up to +0.3 for inspection count,
// up to +0.2 for a fresh latest inspection, clamped to [0, 1].
func ConfidenceScore(inspectionCount int, daysSinceLatest float64) float64 {
	c := 0.5
	c += math.Min(0.3, float64(inspectionCount)*0.05)
	c += math.Max(0, 0.2-daysSinceLatest/365*0.1)
	return clamp(c, 0, 1)
}
