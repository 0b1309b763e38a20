package property

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var refTime = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func TestProperty_AgeYears(t *testing.T) {
	tests := []struct {
		name        string
		installedAt *time.Time
		expected    float64
		delta       float64
	}{
		{"unknown install date", nil, 0, 0},
		{"ten year old roof", timePtr(refTime.AddDate(-10, 0, 0)), 10, 0.05},
		{"future install date clamps to zero", timePtr(refTime.AddDate(1, 0, 0)), 0, 0},
		{"installed today", timePtr(refTime), 0, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Property{InstalledAt: tt.installedAt}
			assert.InDelta(t, tt.expected, p.AgeYears(refTime), tt.delta)
		})
	}
}

func TestProperty_WarrantyExpired(t *testing.T) {
	assert.True(t, Property{}.WarrantyExpired(refTime), "missing warranty counts as expired")

	expired := Property{WarrantyExpiresAt: timePtr(refTime.AddDate(0, -1, 0))}
	assert.True(t, expired.WarrantyExpired(refTime))

	active := Property{WarrantyExpiresAt: timePtr(refTime.AddDate(2, 0, 0))}
	assert.False(t, active.WarrantyExpired(refTime))
}

func TestProperty_DaysSinceMaintenance(t *testing.T) {
	assert.Equal(t, 999.0, Property{}.DaysSinceMaintenance(refTime),
		"missing maintenance date pins the factor at its ceiling")

	p := Property{LastMaintainedAt: timePtr(refTime.AddDate(0, 0, -100))}
	assert.InDelta(t, 100, p.DaysSinceMaintenance(refTime), 0.01)

	future := Property{LastMaintainedAt: timePtr(refTime.AddDate(0, 0, 5))}
	assert.Equal(t, 0.0, future.DaysSinceMaintenance(refTime))
}
