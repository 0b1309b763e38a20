// Package routing orders an inspection group into a visiting sequence using
// a greedy nearest-neighbor heuristic.  It is a heuristic planner, not an
// optimal-tour solver: no backtracking, no time windows, no traffic model.
package routing

import (
	"time"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
	"github.com/roofsight/RoofSight-Engine/pkg/geo"
)

// RoutePlan is the ordered visiting sequence for one inspector and day.
// Order is a permutation of exactly the coordinate-bearing input properties;
// everything else lands in Skipped, never silently reordered in.
type RoutePlan struct {
	InspectorID string    `json:"inspector_id,omitempty"`
	RouteDate   time.Time `json:"route_date,omitempty"`

	Start   geo.Coordinates     `json:"start"`
	Order   []property.Property `json:"order"`
	Skipped []property.Property `json:"skipped,omitempty"`

	TotalDistanceMiles float64 `json:"total_distance_miles"`
	EstimatedMinutes   float64 `json:"estimated_minutes"`
	// Score rates route efficiency (0-100) from the average leg distance.
	Score float64 `json:"score"`
}

// StopCount returns the number of routed stops.
func (r RoutePlan) StopCount() int { return len(r.Order) }

// PropertyIDs returns the ordered property identifiers of the route.
func (r RoutePlan) PropertyIDs() []string {
	ids := make([]string, len(r.Order))
	for i, p := range r.Order {
		ids[i] = p.ID
	}
	return ids
}
