package routing

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
	"github.com/roofsight/RoofSight-Engine/pkg/geo"
)

func at(id string, lat, lng float64) property.Property {
	return property.Property{
		ID:          id,
		Name:        "Site " + id,
		Coordinates: geo.Coordinates{Latitude: lat, Longitude: lng},
	}
}

func TestOptimize_NearestNeighborOrder(t *testing.T) {
	t.Parallel()

	// Start in the south; properties laid out northward.  Greedy
	// nearest-neighbor walks them in latitude order regardless of input
	// order.
	req := Request{
		Start: geo.Coordinates{Latitude: 32.0, Longitude: -96.8},
		Properties: []property.Property{
			at("far", 32.6, -96.8),
			at("near", 32.1, -96.8),
			at("mid", 32.3, -96.8),
		},
	}

	plan := NewOptimizer().Optimize(req)

	assert.Equal(t, []string{"near", "mid", "far"}, plan.PropertyIDs())
	assert.Equal(t, 3, plan.StopCount())
	assert.Empty(t, plan.Skipped)

	// 0.6 degrees of latitude ≈ 41.4 miles, walked in three legs.
	assert.InDelta(t, 41.4, plan.TotalDistanceMiles, 0.2)
}

func TestOptimize_TotalDistanceIsSumOfLegs(t *testing.T) {
	t.Parallel()

	req := Request{
		Start: geo.Coordinates{Latitude: 32.7767, Longitude: -96.7970},
		Properties: []property.Property{
			at("a", 32.9, -96.7),
			at("b", 33.1, -96.5),
			at("c", 32.8, -96.9),
		},
	}

	plan := NewOptimizer().Optimize(req)
	require.Len(t, plan.Order, 3)

	current := req.Start
	sum := 0.0
	for _, p := range plan.Order {
		sum += current.Distance(p.Coordinates)
		current = p.Coordinates
	}
	assert.InDelta(t, sum, plan.TotalDistanceMiles, 1e-9)
}

func TestOptimize_PermutationInvariant(t *testing.T) {
	t.Parallel()

	var props []property.Property
	for i := 0; i < 12; i++ {
		props = append(props, at(fmt.Sprintf("p%d", i), 32.5+float64(i%4)*0.1, -96.8-float64(i/4)*0.1))
	}

	plan := NewOptimizer().Optimize(Request{
		Start:      geo.Coordinates{Latitude: 32.5, Longitude: -96.8},
		Properties: props,
	})

	require.Len(t, plan.Order, len(props))
	seen := make(map[string]bool)
	for _, p := range plan.Order {
		assert.False(t, seen[p.ID], "duplicate stop %s", p.ID)
		seen[p.ID] = true
	}
	assert.Len(t, seen, len(props))
}

func TestOptimize_SkipsPropertiesWithoutCoordinates(t *testing.T) {
	t.Parallel()

	req := Request{
		Start: geo.Coordinates{Latitude: 32.0, Longitude: -96.8},
		Properties: []property.Property{
			at("routable", 32.1, -96.8),
			{ID: "no-coords", Name: "Missing Coordinates"},
		},
	}

	plan := NewOptimizer().Optimize(req)

	assert.Equal(t, []string{"routable"}, plan.PropertyIDs())
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, "no-coords", plan.Skipped[0].ID)
}

func TestOptimize_TimeEstimate(t *testing.T) {
	t.Parallel()

	// Two stops due north: ~6.9 miles each leg at the 0.1-degree spacing.
	req := Request{
		Start: geo.Coordinates{Latitude: 32.0, Longitude: -96.8},
		Properties: []property.Property{
			at("a", 32.1, -96.8),
			at("b", 32.2, -96.8),
		},
	}

	plan := NewOptimizer().Optimize(req)

	// distance/30*60 travel + 2*45 on site.
	want := plan.TotalDistanceMiles/30*60 + 90
	assert.InDelta(t, want, plan.EstimatedMinutes, 1e-9)
	assert.InDelta(t, 117.6, plan.EstimatedMinutes, 0.5)
}

func TestOptimize_CustomTimeModel(t *testing.T) {
	t.Parallel()

	opt := NewOptimizer(WithTravelSpeed(60), WithMinutesPerStop(30))
	plan := opt.Optimize(Request{
		Start:      geo.Coordinates{Latitude: 32.0, Longitude: -96.8},
		Properties: []property.Property{at("a", 32.1, -96.8)},
	})

	want := plan.TotalDistanceMiles/60*60 + 30
	assert.InDelta(t, want, plan.EstimatedMinutes, 1e-9)
}

func TestOptimize_EmptyInput(t *testing.T) {
	t.Parallel()

	plan := NewOptimizer().Optimize(Request{
		Start: geo.Coordinates{Latitude: 32.0, Longitude: -96.8},
	})

	assert.Empty(t, plan.Order)
	assert.Empty(t, plan.Skipped)
	assert.Zero(t, plan.TotalDistanceMiles)
	assert.Zero(t, plan.EstimatedMinutes)
	assert.Zero(t, plan.Score)
}

func TestOptimize_CarriesRequestIdentity(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	plan := NewOptimizer().Optimize(Request{
		InspectorID: "inspector-7",
		RouteDate:   date,
		Start:       geo.Coordinates{Latitude: 32.0, Longitude: -96.8},
		Properties:  []property.Property{at("a", 32.1, -96.8)},
	})

	assert.Equal(t, "inspector-7", plan.InspectorID)
	assert.Equal(t, date, plan.RouteDate)
}

func TestRouteScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, routeScore(0, 0))
	assert.Equal(t, 100.0, routeScore(10, 5))  // 2-mile legs
	assert.Equal(t, 90.0, routeScore(50, 5))   // 10-mile legs
	assert.Equal(t, 0.0, routeScore(1000, 5))  // absurd legs floor at zero
}
