package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roofsight/RoofSight-Engine/internal/application/planner"
	"github.com/roofsight/RoofSight-Engine/internal/domain/grouping"
	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
)

// groupFlags holds the filter flags shared by grouping subcommands.
type groupFlags struct {
	clientID  string
	managerID string
	region    string
}

func (f *groupFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.clientID, "client-id", "", "restrict to one client's properties")
	cmd.Flags().StringVar(&f.managerID, "manager-id", "", "restrict to one manager's properties")
	cmd.Flags().StringVar(&f.region, "region", "", "restrict to one region")
}

func (f *groupFlags) filter() property.ListFilter {
	return property.ListFilter{ClientID: f.clientID, ManagerID: f.managerID, Region: f.region}
}

// groupList wraps grouping output for table rendering.
type groupList []grouping.PropertyGroup

func (g groupList) TableHeaders() []string {
	return []string{"GROUP", "NAME", "TYPE", "MEMBERS", "AVG DIST (MI)", "MANAGER"}
}

func (g groupList) TableRows() [][]string {
	rows := make([][]string, 0, len(g))
	for _, grp := range g {
		rows = append(rows, []string{
			grp.ID,
			grp.Name,
			string(grp.Type),
			strconv.Itoa(len(grp.Members)),
			fmt.Sprintf("%.1f", grp.Metadata.AvgDistanceMiles),
			grp.Metadata.ManagerName,
		})
	}
	return rows
}

// NewGroupCmd builds `roofsight group` with one subcommand per strategy.
func NewGroupCmd(provider ServiceProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Build inspection groups from the portfolio",
	}

	cmd.AddCommand(
		newGroupGeographicCmd(provider),
		newGroupByManagerCmd(provider),
		newGroupByRiskCmd(provider),
		newGroupCustomCmd(provider),
	)
	return cmd
}

func newGroupGeographicCmd(provider ServiceProvider) *cobra.Command {
	flags := &groupFlags{}
	var maxSize int
	var maxDistance float64

	cmd := &cobra.Command{
		Use:   "geographic",
		Short: "Cluster properties by distance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, provider, func(_ *CLIContext, svc *planner.Service) error {
				groups, err := svc.GroupByGeographicProximity(cmd.Context(), flags.filter(), grouping.GeographicOptions{
					MaxGroupSize:     maxSize,
					MaxDistanceMiles: maxDistance,
				})
				if err != nil {
					return err
				}
				return PrintResult(cmd, groupList(groups))
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&maxSize, "max-group-size", 0, "group capacity (0 uses the engine default)")
	cmd.Flags().Float64Var(&maxDistance, "max-distance", 0, "seed-to-member distance cap in miles (0 uses the engine default)")
	return cmd
}

func newGroupByManagerCmd(provider ServiceProvider) *cobra.Command {
	flags := &groupFlags{}

	cmd := &cobra.Command{
		Use:   "by-manager",
		Short: "Partition properties by property manager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, provider, func(_ *CLIContext, svc *planner.Service) error {
				groups, err := svc.GroupByPropertyManager(cmd.Context(), flags.filter())
				if err != nil {
					return err
				}
				return PrintResult(cmd, groupList(groups))
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newGroupByRiskCmd(provider ServiceProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "by-risk",
		Short: "Sweep the portfolio and tier properties by risk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, provider, func(_ *CLIContext, svc *planner.Service) error {
				groups, err := svc.GroupByRisk(cmd.Context())
				if err != nil {
					return err
				}
				return PrintResult(cmd, groupList(groups))
			})
		},
	}
	return cmd
}

func newGroupCustomCmd(provider ServiceProvider) *cobra.Command {
	flags := &groupFlags{}
	var maxSize int
	var maxDistance float64
	var sameManager bool
	var targetMonth int
	var excludeMonths []int

	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Cluster under caller-supplied constraints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if targetMonth < 0 || targetMonth > 12 {
				return fmt.Errorf("--target-month must be between 1 and 12")
			}
			rules := grouping.CustomRules{
				MaxGroupSize:     maxSize,
				MaxDistanceMiles: maxDistance,
				SameManager:      sameManager,
				TargetMonth:      time.Month(targetMonth),
			}
			for _, m := range excludeMonths {
				if m < 1 || m > 12 {
					return fmt.Errorf("--exclude-months entries must be between 1 and 12")
				}
				rules.ExcludeMonths = append(rules.ExcludeMonths, time.Month(m))
			}

			return withService(cmd, provider, func(_ *CLIContext, svc *planner.Service) error {
				groups, err := svc.GroupByCustomRules(cmd.Context(), flags.filter(), rules)
				if err != nil {
					return err
				}
				if groups == nil {
					PrintSuccess(cmd, "target month is excluded by the rules; no groups scheduled")
					return nil
				}
				return PrintResult(cmd, groupList(groups))
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&maxSize, "max-group-size", 0, "group capacity (0 uses the engine default)")
	cmd.Flags().Float64Var(&maxDistance, "max-distance", 0, "distance cap in miles (0 uses the engine default)")
	cmd.Flags().BoolVar(&sameManager, "same-manager", false, "require every group to share one manager")
	cmd.Flags().IntVar(&targetMonth, "target-month", 0, "month the groups are scheduled for (1-12)")
	cmd.Flags().IntSliceVar(&excludeMonths, "exclude-months", nil, "months grouping is suppressed in (1-12)")
	return cmd
}
