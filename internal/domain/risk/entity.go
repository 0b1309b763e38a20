package risk

import "time"

// Level is the risk tier derived from the composite risk score.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// LevelForScore maps a composite risk score to its tier.  Boundaries are
// exact: 80 is critical, 79.99 is high.
func LevelForScore(score float64) Level {
	switch {
	case score >= 80:
		return LevelCritical
	case score >= 60:
		return LevelHigh
	case score >= 35:
		return LevelMedium
	default:
		return LevelLow
	}
}

// RecommendationType classifies the intent of a recommendation.
type RecommendationType string

const (
	RecPreventive RecommendationType = "preventive"
	RecCorrective RecommendationType = "corrective"
	RecEmergency  RecommendationType = "emergency"
)

// RecPriority is the urgency attached to a recommendation.  Unlike report
// priorities, recommendations can be critical.
type RecPriority string

const (
	RecPriorityLow      RecPriority = "low"
	RecPriorityMedium   RecPriority = "medium"
	RecPriorityHigh     RecPriority = "high"
	RecPriorityCritical RecPriority = "critical"
)

// priorityRank orders recommendation priorities for sorting.
func priorityRank(p RecPriority) int {
	switch p {
	case RecPriorityCritical:
		return 4
	case RecPriorityHigh:
		return 3
	case RecPriorityMedium:
		return 2
	case RecPriorityLow:
		return 1
	default:
		return 0
	}
}

// Recommendation is one generated, never-stored maintenance suggestion.
type Recommendation struct {
	Type          RecommendationType `json:"type"`
	Priority      RecPriority        `json:"priority"`
	Description   string             `json:"description"`
	EstimatedCost float64            `json:"estimated_cost"`
	Timeframe     string             `json:"timeframe"`
	// RiskReduction estimates how many composite-score points acting on the
	// recommendation would remove (0-100).
	RiskReduction float64 `json:"risk_reduction"`
}

// TrendDirection describes the movement of a tracked metric.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// Trend is one derived metric movement across the inspection history.
type Trend struct {
	Metric        string         `json:"metric"`
	Direction     TrendDirection `json:"direction"`
	ChangeRatePct float64        `json:"change_rate_pct"`
	Timeframe     string         `json:"timeframe"`
	Significance  float64        `json:"significance"` // 0-1
}

// Factor is one weighted input to the composite risk score, retained for
// explainability in API responses.
type Factor struct {
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	Value        float64 `json:"value"`        // normalised 0-100 factor value
	Contribution float64 `json:"contribution"` // Weight * Value
}

// Analysis is the derived, ephemeral risk report for one property.  It is
// recomputed on every call and never persisted by the engine.
type Analysis struct {
	PropertyID   string `json:"property_id"`
	PropertyName string `json:"property_name"`

	Score   float64  `json:"score"` // 0-100
	Level   Level    `json:"level"`
	Factors []Factor `json:"factors"`

	PredictedMaintenance time.Time        `json:"predicted_maintenance"`
	Recommendations      []Recommendation `json:"recommendations"`
	Trends               []Trend          `json:"trends"`

	// CostEstimate is the summed recommendation cost including the 15%
	// contingency buffer.
	CostEstimate float64 `json:"cost_estimate"`
	// Confidence is the engine's self-reported reliability (0-1), based on
	// data volume and recency.
	Confidence float64 `json:"confidence"`

	InspectionCount int       `json:"inspection_count"`
	GeneratedAt     time.Time `json:"generated_at"`
}
