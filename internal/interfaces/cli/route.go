package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roofsight/RoofSight-Engine/internal/application/planner"
	"github.com/roofsight/RoofSight-Engine/internal/domain/routing"
	"github.com/roofsight/RoofSight-Engine/pkg/geo"
)

// routeResult renders an optimized route, one row per stop.
type routeResult struct {
	routing.RoutePlan
}

func (r routeResult) TableHeaders() []string {
	return []string{"STOP", "PROPERTY", "NAME", "LATITUDE", "LONGITUDE"}
}

func (r routeResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Order))
	for i, p := range r.Order {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			p.ID,
			p.Name,
			fmt.Sprintf("%.5f", p.Coordinates.Latitude),
			fmt.Sprintf("%.5f", p.Coordinates.Longitude),
		})
	}
	return rows
}

// NewRouteCmd builds `roofsight route`.
func NewRouteCmd(provider ServiceProvider) *cobra.Command {
	var propertyIDs []string
	var startLat, startLng float64
	var inspectorID, routeDate string

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Plan the visit order for a set of properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(propertyIDs) == 0 {
				return fmt.Errorf("--property is required at least once")
			}

			var date time.Time
			if routeDate != "" {
				parsed, err := time.Parse("2006-01-02", routeDate)
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
				date = parsed
			}

			return withService(cmd, provider, func(_ *CLIContext, svc *planner.Service) error {
				plan, err := svc.OptimizeRoute(cmd.Context(), routing.Request{
					Start:       geo.Coordinates{Latitude: startLat, Longitude: startLng},
					InspectorID: inspectorID,
					RouteDate:   date,
				}, propertyIDs)
				if err != nil {
					return err
				}
				if err := PrintResult(cmd, routeResult{*plan}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n%.1f miles, ~%.0f minutes, efficiency %.0f/100\n",
					plan.TotalDistanceMiles, plan.EstimatedMinutes, plan.Score)
				if len(plan.Skipped) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%d properties skipped for missing coordinates\n", len(plan.Skipped))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&propertyIDs, "property", nil, "property ID to include (repeatable)")
	cmd.Flags().Float64Var(&startLat, "start-lat", 0, "start latitude")
	cmd.Flags().Float64Var(&startLng, "start-lng", 0, "start longitude")
	cmd.Flags().StringVar(&inspectorID, "inspector", "", "inspector the route is planned for")
	cmd.Flags().StringVar(&routeDate, "date", "", "route date (YYYY-MM-DD)")
	return cmd
}
