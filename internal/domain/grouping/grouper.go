package grouping

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
)

// ─────────────────────────────────────────────────────────────────────────────
// Grouper — strategy dispatcher
// ─────────────────────────────────────────────────────────────────────────────

// Default geographic clustering constraints, overridable per call and via
// configuration.
const (
	DefaultMaxGroupSize     = 8
	DefaultMaxDistanceMiles = 10.0
)

// Grouper builds property groups.  It holds no state between calls; the
// injectable clock and ID source exist for deterministic tests.
type Grouper struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Grouper.
type Option func(*Grouper)

// WithClock overrides the group timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Grouper) { g.now = now }
}

// WithIDSource overrides the group ID generator.
func WithIDSource(newID func() string) Option {
	return func(g *Grouper) { g.newID = newID }
}

// NewGrouper constructs a Grouper with real time and uuid group IDs.
func NewGrouper(opts ...Option) *Grouper {
	g := &Grouper{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// newGroup stamps identity and timestamps onto a finished member list.
func (g *Grouper) newGroup(name string, groupType GroupType, members []property.Property, managerName string, avgRisk float64) PropertyGroup {
	now := g.now()
	return PropertyGroup{
		ID:        g.newID(),
		Name:      name,
		Type:      groupType,
		Members:   members,
		Metadata:  buildMetadata(groupType, members, managerName, avgRisk),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Geographic proximity
// ─────────────────────────────────────────────────────────────────────────────

// GeographicOptions bound geographic clustering.  Zero values fall back to
// the package defaults.
type GeographicOptions struct {
	MaxGroupSize     int
	MaxDistanceMiles float64
}

func (o GeographicOptions) withDefaults() GeographicOptions {
	if o.MaxGroupSize <= 0 {
		o.MaxGroupSize = DefaultMaxGroupSize
	}
	if o.MaxDistanceMiles <= 0 {
		o.MaxDistanceMiles = DefaultMaxDistanceMiles
	}
	return o
}

// ByGeographicProximity clusters properties greedily in input order: each
// unassigned property with valid coordinates seeds a new group, which then
// absorbs every remaining unassigned property within MaxDistanceMiles of the
// seed (not of the evolving centroid) until MaxGroupSize is reached.
//
// Properties without valid coordinates are excluded entirely.  The same input
// order always yields the same groups.
func (g *Grouper) ByGeographicProximity(props []property.Property, opts GeographicOptions) []PropertyGroup {
	opts = opts.withDefaults()

	assigned := make([]bool, len(props))
	var groups []PropertyGroup

	for i, seed := range props {
		if assigned[i] || !seed.Coordinates.Valid() {
			continue
		}

		members := []property.Property{seed}
		assigned[i] = true

		for j := i + 1; j < len(props); j++ {
			if len(members) >= opts.MaxGroupSize {
				break
			}
			if assigned[j] || !props[j].Coordinates.Valid() {
				continue
			}
			if seed.Coordinates.Distance(props[j].Coordinates) <= opts.MaxDistanceMiles {
				members = append(members, props[j])
				assigned[j] = true
			}
		}

		name := fmt.Sprintf("Area Group %d", len(groups)+1)
		groups = append(groups, g.newGroup(name, TypeGeographic, members, "", 0))
	}

	return groups
}

// ─────────────────────────────────────────────────────────────────────────────
// By property manager
// ─────────────────────────────────────────────────────────────────────────────

// UnassignedManagerGroup names the catch-all group for properties with no
// assigned manager.
const UnassignedManagerGroup = "Unassigned"

// ByPropertyManager partitions properties exactly on assigned-manager
// identity.  Groups appear in order of first occurrence in the input, with
// the Unassigned group holding every property lacking a manager.
func (g *Grouper) ByPropertyManager(props []property.Property) []PropertyGroup {
	byManager := make(map[string][]property.Property)
	var order []string

	for _, p := range props {
		name := p.ManagerName
		if name == "" {
			name = UnassignedManagerGroup
		}
		if _, seen := byManager[name]; !seen {
			order = append(order, name)
		}
		byManager[name] = append(byManager[name], p)
	}

	groups := make([]PropertyGroup, 0, len(order))
	for _, name := range order {
		groups = append(groups, g.newGroup(name, TypePropertyManager, byManager[name], name, 0))
	}
	return groups
}

// ─────────────────────────────────────────────────────────────────────────────
// By risk tier
// ─────────────────────────────────────────────────────────────────────────────

// riskTier buckets a composite score for grouping purposes: high at 80,
// medium at 60, low below.
func riskTier(score float64) string {
	switch {
	case score >= 80:
		return "high"
	case score >= 60:
		return "medium"
	default:
		return "low"
	}
}

var riskTierOrder = []string{"high", "medium", "low"}

var riskTierNames = map[string]string{
	"high":   "High Risk Properties",
	"medium": "Medium Risk Properties",
	"low":    "Low Risk Properties",
}

// ByRisk partitions scored properties into the three risk tiers, highest
// first, omitting empty tiers.  Group metadata records the tier's mean score.
func (g *Grouper) ByRisk(scored []ScoredProperty) []PropertyGroup {
	tiers := make(map[string][]ScoredProperty)
	for _, sp := range scored {
		tier := riskTier(sp.RiskScore)
		tiers[tier] = append(tiers[tier], sp)
	}

	var groups []PropertyGroup
	for _, tier := range riskTierOrder {
		members := tiers[tier]
		if len(members) == 0 {
			continue
		}

		props := make([]property.Property, len(members))
		total := 0.0
		for i, sp := range members {
			props[i] = sp.Property
			total += sp.RiskScore
		}
		avg := total / float64(len(members))

		groups = append(groups, g.newGroup(riskTierNames[tier], TypeRiskBased, props, "", avg))
	}
	return groups
}

// ─────────────────────────────────────────────────────────────────────────────
// Custom rules
// ─────────────────────────────────────────────────────────────────────────────

// CustomRules is an externally supplied constraint set.  Zero-valued fields
// impose no constraint.
type CustomRules struct {
	// MaxGroupSize and MaxDistanceMiles bound the geographic clustering pass.
	MaxGroupSize     int
	MaxDistanceMiles float64
	// SameManager restricts every group to properties sharing one manager.
	SameManager bool
	// ExcludeMonths suppresses grouping entirely when TargetMonth falls in
	// the excluded set.
	ExcludeMonths []time.Month
	// TargetMonth is the month the groups are being scheduled for; zero
	// means no seasonal check.
	TargetMonth time.Month
}

// monthExcluded reports whether the rules' target month is excluded.
func (r CustomRules) monthExcluded() bool {
	if r.TargetMonth == 0 {
		return false
	}
	for _, m := range r.ExcludeMonths {
		if m == r.TargetMonth {
			return true
		}
	}
	return false
}

// ByCustomRules applies an external rule set.  When SameManager is set the
// input is first partitioned by manager and each partition clustered
// geographically under the rules' size and distance bounds; otherwise the
// whole input is clustered in one pass.  An excluded target month yields no
// groups at all.
func (g *Grouper) ByCustomRules(props []property.Property, rules CustomRules) []PropertyGroup {
	if rules.monthExcluded() {
		return nil
	}

	opts := GeographicOptions{
		MaxGroupSize:     rules.MaxGroupSize,
		MaxDistanceMiles: rules.MaxDistanceMiles,
	}

	var groups []PropertyGroup
	if rules.SameManager {
		for _, partition := range g.ByPropertyManager(props) {
			manager := partition.Metadata.ManagerName
			for _, geoGroup := range g.ByGeographicProximity(partition.Members, opts) {
				name := fmt.Sprintf("%s - %s", manager, geoGroup.Name)
				groups = append(groups, g.newGroup(name, TypeCustom, geoGroup.Members, manager, 0))
			}
		}
	} else {
		for _, geoGroup := range g.ByGeographicProximity(props, opts) {
			name := fmt.Sprintf("Custom Group %d", len(groups)+1)
			groups = append(groups, g.newGroup(name, TypeCustom, geoGroup.Members, "", 0))
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Members) > len(groups[j].Members)
	})

	return groups
}
