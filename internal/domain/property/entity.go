// Package property defines the read-only platform entities the engine
// consumes: properties, their completed inspection history, and per-client
// seasonal inspection preferences.  These records are owned and persisted by
// the surrounding inspection platform; the engine never mutates them.
package property

import (
	"time"

	"github.com/roofsight/RoofSight-Engine/pkg/geo"
)

// Priority is the structured severity attached to an inspection report.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// RoofType identifies the installed roof system.  Unknown values fall back
// to default cost assumptions during analysis.
type RoofType string

const (
	RoofAsphalt RoofType = "asphalt"
	RoofMetal   RoofType = "metal"
	RoofTile    RoofType = "tile"
	RoofSlate   RoofType = "slate"
	RoofRubber  RoofType = "rubber"
)

// Property is the immutable input record for one roof under management.
type Property struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	Region      string          `json:"region"`
	Coordinates geo.Coordinates `json:"coordinates"`

	RoofAreaSqFt float64  `json:"roof_area_sqft"`
	RoofType     RoofType `json:"roof_type"`
	// InstalledAt is the roof system install date; nil when unknown.
	InstalledAt *time.Time `json:"installed_at,omitempty"`

	ManagerID   string `json:"manager_id"`
	ManagerName string `json:"manager_name"`

	SafetyConcern bool   `json:"safety_concern"`
	CustomerTier  string `json:"customer_tier"`

	WarrantyExpiresAt *time.Time `json:"warranty_expires_at,omitempty"`
	LastInspectedAt   *time.Time `json:"last_inspected_at,omitempty"`
	LastMaintainedAt  *time.Time `json:"last_maintained_at,omitempty"`
}

// AgeYears returns the roof system age in fractional years at the given
// reference time.  Zero when the install date is unknown.
func (p Property) AgeYears(now time.Time) float64 {
	if p.InstalledAt == nil || p.InstalledAt.After(now) {
		return 0
	}
	return now.Sub(*p.InstalledAt).Hours() / 24 / 365.25
}

// WarrantyExpired reports whether the warranty has lapsed at the given
// reference time.  A missing expiration date counts as expired.
func (p Property) WarrantyExpired(now time.Time) bool {
	return p.WarrantyExpiresAt == nil || p.WarrantyExpiresAt.Before(now)
}

// DaysSinceMaintenance returns whole days since the last recorded
// maintenance.  A missing maintenance date counts as 999 days, which pins the
// maintenance-recency risk factor at its ceiling.
func (p Property) DaysSinceMaintenance(now time.Time) float64 {
	if p.LastMaintainedAt == nil {
		return 999
	}
	d := now.Sub(*p.LastMaintainedAt).Hours() / 24
	if d < 0 {
		return 0
	}
	return d
}

// InspectionReport is a structured report attached to an inspection record.
type InspectionReport struct {
	ID            string   `json:"id"`
	Priority      Priority `json:"priority"`
	EstimatedCost float64  `json:"estimated_cost"`
}

// InspectionRecord is one completed inspection event for a property.
// Histories are supplied newest-first by the store.
type InspectionRecord struct {
	ID            string             `json:"id"`
	PropertyID    string             `json:"property_id"`
	CompletedAt   time.Time          `json:"completed_at"`
	Findings      string             `json:"findings"`
	Reports       []InspectionReport `json:"reports,omitempty"`
	WeatherDamage bool               `json:"weather_damage"`
}

// MonthRecommendation is one calendar month's seasonal inspection guidance.
type MonthRecommendation struct {
	Month       int      `json:"month"` // 1..12
	Recommended bool     `json:"recommended"`
	Conditions  []string `json:"conditions,omitempty"`
}

// SeasonalPreference is a stored per-client, per-region override of the
// default seasonal recommendation table.
type SeasonalPreference struct {
	ClientID string                  `json:"client_id"`
	Region   string                  `json:"region"`
	Months   [12]MonthRecommendation `json:"months"`
}
