package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roofsight/RoofSight-Engine/internal/application/planner"
	"github.com/roofsight/RoofSight-Engine/internal/domain/property"
)

// monthTable renders the 12-month recommendation table.
type monthTable [12]property.MonthRecommendation

func (m monthTable) TableHeaders() []string {
	return []string{"MONTH", "RECOMMENDED", "CONDITIONS"}
}

func (m monthTable) TableRows() [][]string {
	rows := make([][]string, 0, 12)
	for _, rec := range m {
		recommended := "no"
		if rec.Recommended {
			recommended = "yes"
		}
		rows = append(rows, []string{
			time.Month(rec.Month).String(),
			recommended,
			strings.Join(rec.Conditions, "; "),
		})
	}
	return rows
}

// NewSeasonalCmd builds `roofsight seasonal`.
func NewSeasonalCmd(provider ServiceProvider) *cobra.Command {
	var clientID, region string

	cmd := &cobra.Command{
		Use:   "seasonal",
		Short: "Show the 12-month inspection recommendation table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if clientID == "" {
				return fmt.Errorf("--client-id is required")
			}
			return withService(cmd, provider, func(_ *CLIContext, svc *planner.Service) error {
				months, err := svc.SeasonalRecommendations(cmd.Context(), clientID, region)
				if err != nil {
					return err
				}
				return PrintResult(cmd, monthTable(months))
			})
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "client the table is computed for (required)")
	cmd.Flags().StringVar(&region, "region", "", "region climate profile to apply")
	return cmd
}
