package risk

import (
	"fmt"
	"math"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
)

// ─────────────────────────────────────────────────────────────────────────────
// Trend analysis
// ─────────────────────────────────────────────────────────────────────────────

// Trend direction thresholds: a condition change above +5% is improving,
// below -5% declining, otherwise stable.
const trendChangeThresholdPct = 5.0

// AnalyzeTrends derives metric trends from an inspection history supplied
// newest-first.  It requires at least two records; with fewer it returns an
// empty list, never an error.
//
// Two trends are reported: the condition-score movement between the oldest
// and newest inspections, and the weather-damage frequency across the
// sampled history.
func AnalyzeTrends(history []property.InspectionRecord, table KeywordTable) []Trend {
	if len(history) < 2 {
		return nil
	}

	newest := history[0]
	oldest := history[len(history)-1]

	trends := make([]Trend, 0, 2)

	newestScore := table.ConditionScore(newest)
	oldestScore := table.ConditionScore(oldest)

	changePct := 0.0
	if oldestScore != 0 {
		changePct = (newestScore - oldestScore) / oldestScore * 100
	}

	direction := TrendStable
	switch {
	case changePct > trendChangeThresholdPct:
		direction = TrendImproving
	case changePct < -trendChangeThresholdPct:
		direction = TrendDeclining
	}

	months := int(math.Round(newest.CompletedAt.Sub(oldest.CompletedAt).Hours() / 24 / 30.44))
	if months < 1 {
		months = 1
	}

	trends = append(trends, Trend{
		Metric:        "condition_score",
		Direction:     direction,
		ChangeRatePct: changePct,
		Timeframe:     fmt.Sprintf("%d inspections over %d months", len(history), months),
		Significance:  math.Min(1, math.Abs(changePct)/50),
	})

	damaged := 0
	for _, rec := range history {
		if rec.WeatherDamage {
			damaged++
		}
	}
	frequency := float64(damaged) / float64(len(history))

	// Fixed step-function significance; a frequent-damage pattern is treated
	// as a declining weather-resilience trend.
	weatherDirection := TrendStable
	significance := 0.4
	if frequency > 0.5 {
		weatherDirection = TrendDeclining
		significance = 0.8
	}

	trends = append(trends, Trend{
		Metric:        "weather_damage_frequency",
		Direction:     weatherDirection,
		ChangeRatePct: frequency * 100,
		Timeframe:     fmt.Sprintf("across %d inspections", len(history)),
		Significance:  significance,
	})

	return trends
}

// conditionDirection extracts the condition-score trend direction from a
// derived trend list, defaulting to stable when trends are unavailable.
func conditionDirection(trends []Trend) TrendDirection {
	for _, tr := range trends {
		if tr.Metric == "condition_score" {
			return tr.Direction
		}
	}
	return TrendStable
}
