// Package grouping partitions property portfolios into inspection groups
// under four strategies (geographic proximity, assigned manager, risk tier,
// custom rules) and provides seasonal scheduling recommendations.  All
// grouping is pure in-memory computation over already-fetched data; groups
// are built fresh on every call and never persisted by the engine.
package grouping

import (
	"time"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
	"github.com/roofsight/RoofSight-Engine/pkg/geo"
)

// GroupType identifies the strategy that produced a group.
type GroupType string

const (
	TypeGeographic      GroupType = "geographic"
	TypePropertyManager GroupType = "property_manager"
	TypeSeasonal        GroupType = "seasonal"
	TypeRiskBased       GroupType = "risk_based"
	TypeCustom          GroupType = "custom"
)

// ScoredProperty annotates a property with its composite risk score for the
// strategies that need one.
type ScoredProperty struct {
	Property  property.Property `json:"property"`
	RiskScore float64           `json:"risk_score"`
}

// GroupMetadata summarises a group for scheduling decisions.
type GroupMetadata struct {
	Centroid         geo.Coordinates `json:"centroid"`
	TotalAreaSqFt    float64         `json:"total_area_sq_ft"`
	AvgDistanceMiles float64         `json:"avg_distance_miles"`
	ManagerName      string          `json:"manager_name,omitempty"`
	AvgRiskScore     float64         `json:"avg_risk_score,omitempty"`
	// OptimizationScore is informational only (0-100); groups are never
	// rejected because of it.
	OptimizationScore float64 `json:"optimization_score"`
}

// PropertyGroup is one named partition of the input property list.  Every
// member satisfies the predicate of the strategy that built the group.
type PropertyGroup struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Type      GroupType           `json:"type"`
	Members   []property.Property `json:"members"`
	Metadata  GroupMetadata       `json:"metadata"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// centroidOf returns the mean coordinate of the members holding valid
// coordinates, and how many contributed.
func centroidOf(members []property.Property) (geo.Coordinates, int) {
	var sumLat, sumLng float64
	n := 0
	for _, m := range members {
		if !m.Coordinates.Valid() {
			continue
		}
		sumLat += m.Coordinates.Latitude
		sumLng += m.Coordinates.Longitude
		n++
	}
	if n == 0 {
		return geo.Coordinates{}, 0
	}
	return geo.Coordinates{Latitude: sumLat / float64(n), Longitude: sumLng / float64(n)}, n
}

// buildMetadata recomputes group metadata from the final member list: the
// centroid is the mean of member coordinates, spread is the average
// member-to-centroid distance.
func buildMetadata(groupType GroupType, members []property.Property, managerName string, avgRisk float64) GroupMetadata {
	md := GroupMetadata{ManagerName: managerName, AvgRiskScore: avgRisk}

	for _, m := range members {
		md.TotalAreaSqFt += m.RoofAreaSqFt
	}

	centroid, n := centroidOf(members)
	if n > 0 {
		md.Centroid = centroid
		total := 0.0
		for _, m := range members {
			if m.Coordinates.Valid() {
				total += centroid.Distance(m.Coordinates)
			}
		}
		md.AvgDistanceMiles = total / float64(n)
	}

	md.OptimizationScore = optimizationScore(groupType, len(members), md.AvgDistanceMiles, avgRisk)
	return md
}
