package routing

import (
	"math"
	"time"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
	"github.com/roofsight/RoofSight-Engine/pkg/geo"
)

// ─────────────────────────────────────────────────────────────────────────────
// Optimizer — greedy nearest-neighbor route planner
// ─────────────────────────────────────────────────────────────────────────────

// Default time-model parameters, overridable via options and configuration.
const (
	DefaultTravelSpeedMPH = 30.0
	DefaultMinutesPerStop = 45.0
)

// Route efficiency scoring: legs averaging under comfortableLegMiles score
// 100; each mile beyond it costs legPenaltyPerMile points.
const (
	comfortableLegMiles = 5.0
	legPenaltyPerMile   = 2.0
)

// Optimizer plans visiting orders.  It is stateless and safe for concurrent
// use.
type Optimizer struct {
	travelSpeedMPH float64
	minutesPerStop float64
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithTravelSpeed overrides the assumed average travel speed in mph.
func WithTravelSpeed(mph float64) Option {
	return func(o *Optimizer) {
		if mph > 0 {
			o.travelSpeedMPH = mph
		}
	}
}

// WithMinutesPerStop overrides the assumed on-site duration per stop.
func WithMinutesPerStop(minutes float64) Option {
	return func(o *Optimizer) {
		if minutes > 0 {
			o.minutesPerStop = minutes
		}
	}
}

// NewOptimizer constructs an Optimizer with the default time model
// (30 mph travel, 45 minutes on site per stop).
func NewOptimizer(opts ...Option) *Optimizer {
	o := &Optimizer{
		travelSpeedMPH: DefaultTravelSpeedMPH,
		minutesPerStop: DefaultMinutesPerStop,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Request describes one route planning call.
type Request struct {
	Properties  []property.Property
	Start       geo.Coordinates
	InspectorID string
	RouteDate   time.Time
}

// Optimize orders the request's properties by repeatedly visiting the
// nearest unvisited coordinate-bearing property from the current position,
// starting at the request's start coordinate.  Properties without valid
// coordinates are reported in Skipped.  Equal distances resolve to the
// earlier input position, so the same input order always yields the same
// route.
func (o *Optimizer) Optimize(req Request) RoutePlan {
	plan := RoutePlan{
		InspectorID: req.InspectorID,
		RouteDate:   req.RouteDate,
		Start:       req.Start,
	}

	remaining := make([]property.Property, 0, len(req.Properties))
	for _, p := range req.Properties {
		if p.Coordinates.Valid() {
			remaining = append(remaining, p)
		} else {
			plan.Skipped = append(plan.Skipped, p)
		}
	}

	current := req.Start
	for len(remaining) > 0 {
		best := 0
		bestDist := current.Distance(remaining[0].Coordinates)
		for i := 1; i < len(remaining); i++ {
			if d := current.Distance(remaining[i].Coordinates); d < bestDist {
				best, bestDist = i, d
			}
		}

		next := remaining[best]
		plan.Order = append(plan.Order, next)
		plan.TotalDistanceMiles += bestDist
		current = next.Coordinates
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	plan.EstimatedMinutes = plan.TotalDistanceMiles/o.travelSpeedMPH*60 +
		float64(len(plan.Order))*o.minutesPerStop
	plan.Score = routeScore(plan.TotalDistanceMiles, len(plan.Order))

	return plan
}

// routeScore rates route efficiency from the average leg distance.
func routeScore(totalDistance float64, stops int) float64 {
	if stops == 0 {
		return 0
	}
	avgLeg := totalDistance / float64(stops)
	score := 100 - math.Max(0, avgLeg-comfortableLegMiles)*legPenaltyPerMile
	if score < 0 {
		return 0
	}
	return score
}
