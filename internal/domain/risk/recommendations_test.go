package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
)

var recNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

// healthyProperty triggers no recommendation rules on its own.
func healthyProperty() property.Property {
	return property.Property{
		ID:                "prop-1",
		RoofType:          property.RoofAsphalt,
		InstalledAt:       timePtr(recNow.AddDate(-5, 0, 0)),
		LastMaintainedAt:  timePtr(recNow.AddDate(0, -3, 0)),
		WarrantyExpiresAt: timePtr(recNow.AddDate(5, 0, 0)),
	}
}

func TestReplacementCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		roofType property.RoofType
		want     float64
	}{
		{property.RoofAsphalt, 8000},
		{property.RoofMetal, 15000},
		{property.RoofTile, 12000},
		{property.RoofSlate, 20000},
		{property.RoofRubber, 10000},
		{property.RoofType("thatch"), 10000},
		{property.RoofType(""), 10000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ReplacementCost(tt.roofType), "roof type %q", tt.roofType)
	}
}

func TestGenerateRecommendations_NoRulesFire(t *testing.T) {
	t.Parallel()

	recs := GenerateRecommendations(healthyProperty(), property.InspectionRecord{}, 85, recNow)
	assert.Empty(t, recs)
}

func TestGenerateRecommendations_AgeRule(t *testing.T) {
	t.Parallel()

	p := healthyProperty()
	p.RoofType = property.RoofSlate

	p.InstalledAt = timePtr(recNow.AddDate(-25, 0, 0))
	recs := GenerateRecommendations(p, property.InspectionRecord{}, 85, recNow)
	require.Len(t, recs, 1)
	assert.Equal(t, RecPreventive, recs[0].Type)
	assert.Equal(t, RecPriorityMedium, recs[0].Priority)
	assert.Equal(t, 20000.0, recs[0].EstimatedCost)
	assert.Equal(t, "12-18 months", recs[0].Timeframe)

	p.InstalledAt = timePtr(recNow.AddDate(-35, 0, 0))
	recs = GenerateRecommendations(p, property.InspectionRecord{}, 85, recNow)
	require.Len(t, recs, 1)
	assert.Equal(t, RecPriorityHigh, recs[0].Priority)
	assert.Equal(t, "6-12 months", recs[0].Timeframe)
}

func TestGenerateRecommendations_ConditionRule(t *testing.T) {
	t.Parallel()

	p := healthyProperty()

	recs := GenerateRecommendations(p, property.InspectionRecord{}, 55, recNow)
	require.Len(t, recs, 1)
	assert.Equal(t, RecCorrective, recs[0].Type)
	assert.Equal(t, RecPriorityMedium, recs[0].Priority)
	// 5000 + (60-55)*200
	assert.Equal(t, 6000.0, recs[0].EstimatedCost)

	recs = GenerateRecommendations(p, property.InspectionRecord{}, 30, recNow)
	require.Len(t, recs, 1)
	assert.Equal(t, RecPriorityHigh, recs[0].Priority)
	// 5000 + (60-30)*200
	assert.Equal(t, 11000.0, recs[0].EstimatedCost)
}

func TestGenerateRecommendations_WeatherDamageRule(t *testing.T) {
	t.Parallel()

	recs := GenerateRecommendations(healthyProperty(), property.InspectionRecord{WeatherDamage: true}, 85, recNow)
	require.Len(t, recs, 1)
	assert.Equal(t, RecEmergency, recs[0].Type)
	assert.Equal(t, RecPriorityCritical, recs[0].Priority)
	assert.Equal(t, 3000.0, recs[0].EstimatedCost)
	assert.Equal(t, "1-2 weeks", recs[0].Timeframe)
}

func TestGenerateRecommendations_MaintenanceRule(t *testing.T) {
	t.Parallel()

	p := healthyProperty()

	p.LastMaintainedAt = timePtr(recNow.AddDate(0, 0, -400))
	recs := GenerateRecommendations(p, property.InspectionRecord{}, 85, recNow)
	require.Len(t, recs, 1)
	assert.Equal(t, RecPriorityLow, recs[0].Priority)

	p.LastMaintainedAt = timePtr(recNow.AddDate(0, 0, -800))
	recs = GenerateRecommendations(p, property.InspectionRecord{}, 85, recNow)
	require.Len(t, recs, 1)
	assert.Equal(t, RecPriorityMedium, recs[0].Priority)

	// A missing maintenance date (999 days) also fires at medium.
	p.LastMaintainedAt = nil
	recs = GenerateRecommendations(p, property.InspectionRecord{}, 85, recNow)
	require.Len(t, recs, 1)
	assert.Equal(t, RecPriorityMedium, recs[0].Priority)
}

func TestGenerateRecommendations_WarrantyRule(t *testing.T) {
	t.Parallel()

	p := healthyProperty()
	p.WarrantyExpiresAt = timePtr(recNow.AddDate(0, -1, 0))

	recs := GenerateRecommendations(p, property.InspectionRecord{}, 85, recNow)
	require.Len(t, recs, 1)
	assert.Equal(t, RecPreventive, recs[0].Type)
	assert.Equal(t, RecPriorityMedium, recs[0].Priority)
	assert.Equal(t, 1000.0, recs[0].EstimatedCost)
}

func TestGenerateRecommendations_AllRulesOrdered(t *testing.T) {
	t.Parallel()

	p := property.Property{
		ID:                "prop-1",
		RoofType:          property.RoofMetal,
		InstalledAt:       timePtr(recNow.AddDate(-35, 0, 0)), // high
		LastMaintainedAt:  timePtr(recNow.AddDate(0, 0, -400)), // low
		WarrantyExpiresAt: timePtr(recNow.AddDate(0, -1, 0)),   // medium
	}
	latest := property.InspectionRecord{WeatherDamage: true} // critical
	conditionScore := 55.0                                   // medium

	recs := GenerateRecommendations(p, latest, conditionScore, recNow)
	require.Len(t, recs, 5)

	// Descending priority; the two medium entries keep rule order
	// (corrective condition work before warranty renewal).
	assert.Equal(t, RecPriorityCritical, recs[0].Priority)
	assert.Equal(t, RecEmergency, recs[0].Type)
	assert.Equal(t, RecPriorityHigh, recs[1].Priority)
	assert.Equal(t, RecPriorityMedium, recs[2].Priority)
	assert.Equal(t, RecCorrective, recs[2].Type)
	assert.Equal(t, RecPriorityMedium, recs[3].Priority)
	assert.Equal(t, 1000.0, recs[3].EstimatedCost)
	assert.Equal(t, RecPriorityLow, recs[4].Priority)

	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, priorityRank(recs[i].Priority), priorityRank(recs[i-1].Priority))
	}
}
