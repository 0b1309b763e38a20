// Package risk implements the risk analysis engine: condition scoring from
// inspection findings, the five-factor composite risk score, trend analysis,
// rule-based recommendations, maintenance prediction, and portfolio sweeps.
package risk

import (
	"strings"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
)

// ─────────────────────────────────────────────────────────────────────────────
// KeywordTable — versioned findings classifier
// ─────────────────────────────────────────────────────────────────────────────

// KeywordTable is an explicit, versioned lookup of findings keywords to
// signed condition-score adjustments.  Keeping the table as data rather than
// inline string matching lets it be tuned and tested independently of the
// scoring logic.  Matching is case-insensitive substring presence; a keyword
// contributes its weight once per inspection regardless of repetition.
type KeywordTable struct {
	Version string
	Weights map[string]float64
}

// baseConditionScore is the starting condition score before any keyword or
// report adjustments.
const baseConditionScore = 80.0

// Report priority penalties applied per linked report.
const (
	penaltyReportHigh   = 20.0
	penaltyReportMedium = 10.0
	penaltyReportLow    = 5.0
)

// DefaultKeywordTable returns the current production keyword table.
// Severe-issue keywords subtract 15, moderate-issue keywords subtract 8, and
// positive keywords add 5.
func DefaultKeywordTable() KeywordTable {
	return KeywordTable{
		Version: "v1",
		Weights: map[string]float64{
			// severe issues
			"leak":         -15,
			"damage":       -15,
			"missing":      -15,
			"cracked":      -15,
			"broken":       -15,
			"deteriorated": -15,
			// moderate issues
			"wear":          -8,
			"aging":         -8,
			"discoloration": -8,
			"loose":         -8,
			"minor":         -8,
			// positive signals
			"good":            5,
			"excellent":       5,
			"well-maintained": 5,
			"no issues":       5,
		},
	}
}

// ConditionScore derives a 0-100 condition score for one inspection record.
// The score starts at baseConditionScore, applies every matching keyword
// weight from the table, subtracts a penalty per linked report priority, and
// clamps the result to [0, 100].
func (t KeywordTable) ConditionScore(rec property.InspectionRecord) float64 {
	score := baseConditionScore

	findings := strings.ToLower(rec.Findings)
	for keyword, weight := range t.Weights {
		if strings.Contains(findings, keyword) {
			score += weight
		}
	}

	for _, report := range rec.Reports {
		switch report.Priority {
		case property.PriorityHigh:
			score -= penaltyReportHigh
		case property.PriorityMedium:
			score -= penaltyReportMedium
		case property.PriorityLow:
			score -= penaltyReportLow
		}
	}

	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
