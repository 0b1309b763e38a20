package property

import "context"

// ListFilter narrows a ListProperties call.  The zero value matches every
// property.
type ListFilter struct {
	ClientID  string
	ManagerID string
	Region    string
}

// Store is the read-only contract against the platform's property store.
// Implementations live under internal/infrastructure; the engine's services
// depend only on this interface.
//
// Absence is not an error: GetInspectionHistory returns an empty slice for a
// property with no completed inspections, and GetSeasonalPreferences returns
// (nil, nil) when no stored preference exists for the client/region pair.
type Store interface {
	// GetProperty returns a single property by ID, or (nil, nil) when no
	// such property exists.
	GetProperty(ctx context.Context, propertyID string) (*Property, error)

	// GetInspectionHistory returns the property's completed inspections,
	// newest-first.
	GetInspectionHistory(ctx context.Context, propertyID string) ([]InspectionRecord, error)

	// ListProperties returns all properties matching the filter.
	ListProperties(ctx context.Context, filter ListFilter) ([]Property, error)

	// GetSeasonalPreferences returns the stored seasonal preference for a
	// client/region pair, or (nil, nil) when none exists.
	GetSeasonalPreferences(ctx context.Context, clientID, region string) (*SeasonalPreference, error)
}
