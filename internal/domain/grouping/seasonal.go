package grouping

import (
	"context"

	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
	"github.com/roofsight/RoofSight-Engine/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Seasonal recommendations
// ─────────────────────────────────────────────────────────────────────────────

// defaultOffMonths are the months the default table marks as not recommended:
// deep winter (January, February, December) for weather and the peak summer
// months (July, August) for heat.
var defaultOffMonths = map[int][]string{
	1:  {"snow load", "freezing temperatures"},
	2:  {"snow load", "freezing temperatures"},
	7:  {"extreme heat"},
	8:  {"extreme heat"},
	12: {"snow load", "freezing temperatures"},
}

// DefaultSeasonalTable returns the fixed fallback recommendation table used
// for any client/region pair with no stored preference.  Months 1, 2, 7, 8,
// and 12 are not recommended; the remaining seven are.
func DefaultSeasonalTable() [12]property.MonthRecommendation {
	var table [12]property.MonthRecommendation
	for i := range table {
		month := i + 1
		conditions, off := defaultOffMonths[month]
		table[i] = property.MonthRecommendation{
			Month:       month,
			Recommended: !off,
			Conditions:  conditions,
		}
	}
	return table
}

// SeasonalAdvisor resolves the seasonal recommendation table for a
// client/region pair, falling back to the default table when no preference
// is stored or the store cannot be reached.
type SeasonalAdvisor struct {
	store property.Store
	log   logging.Logger
}

// NewSeasonalAdvisor constructs a SeasonalAdvisor.
func NewSeasonalAdvisor(store property.Store, log logging.Logger) *SeasonalAdvisor {
	return &SeasonalAdvisor{store: store, log: log.Named("seasonal")}
}

// Recommendations returns the 12-month table for the given client and
// region.  Store failures degrade to the default table, logged, never an
// error: scheduling guidance must always be available.
func (a *SeasonalAdvisor) Recommendations(ctx context.Context, clientID, region string) ([12]property.MonthRecommendation, error) {
	pref, err := a.store.GetSeasonalPreferences(ctx, clientID, region)
	if err != nil {
		a.log.Warn("seasonal preference lookup failed; using default table",
			logging.String("client_id", clientID),
			logging.String("region", region),
			logging.Err(err))
		return DefaultSeasonalTable(), nil
	}
	if pref == nil {
		return DefaultSeasonalTable(), nil
	}
	return pref.Months, nil
}
