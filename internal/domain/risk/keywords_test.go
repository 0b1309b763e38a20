package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
)

func record(findings string, reports ...property.InspectionReport) property.InspectionRecord {
	return property.InspectionRecord{
		ID:          "insp-1",
		PropertyID:  "prop-1",
		CompletedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Findings:    findings,
		Reports:     reports,
	}
}

func TestConditionScore_Keywords(t *testing.T) {
	t.Parallel()

	table := DefaultKeywordTable()

	tests := []struct {
		name     string
		findings string
		want     float64
	}{
		{"empty findings keeps the base", "", 80},
		{"single severe keyword", "active leak near the north drain", 65},
		{"single moderate keyword", "general wear on flashing", 72},
		{"single positive keyword", "membrane in good shape", 85},
		{"keyword counted once despite repetition", "leak here, another leak there, third leak", 65},
		{"case insensitive match", "CRACKED tiles on ridge", 65},
		{"mixed severities accumulate", "cracked shingles with minor wear", 49}, // 80-15-8-8
		{"multi-word positive keyword", "no issues observed", 85},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := table.ConditionScore(record(tt.findings))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestConditionScore_ReportPenalties(t *testing.T) {
	t.Parallel()

	table := DefaultKeywordTable()

	tests := []struct {
		name    string
		reports []property.InspectionReport
		want    float64
	}{
		{"no reports", nil, 80},
		{"one high priority report", []property.InspectionReport{{Priority: property.PriorityHigh}}, 60},
		{"one medium priority report", []property.InspectionReport{{Priority: property.PriorityMedium}}, 70},
		{"one low priority report", []property.InspectionReport{{Priority: property.PriorityLow}}, 75},
		{
			"penalties stack per report",
			[]property.InspectionReport{
				{Priority: property.PriorityHigh},
				{Priority: property.PriorityHigh},
				{Priority: property.PriorityLow},
			},
			35,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := table.ConditionScore(record("", tt.reports...))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestConditionScore_Clamping(t *testing.T) {
	t.Parallel()

	table := DefaultKeywordTable()

	// Six severe keywords plus stacked high reports push far below zero.
	rec := record("leak damage missing cracked broken deteriorated",
		property.InspectionReport{Priority: property.PriorityHigh},
		property.InspectionReport{Priority: property.PriorityHigh},
	)
	assert.Equal(t, 0.0, table.ConditionScore(rec))

	// Every positive keyword on a clean inspection stays capped at 100.
	clean := record("good excellent well-maintained no issues")
	assert.Equal(t, 100.0, table.ConditionScore(clean))
}

func TestDefaultKeywordTable_Versioned(t *testing.T) {
	t.Parallel()

	table := DefaultKeywordTable()
	assert.Equal(t, "v1", table.Version)
	assert.Len(t, table.Weights, 15)
}
