package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roofsight/RoofSight-Engine/internal/application/planner"
	"github.com/roofsight/RoofSight-Engine/internal/domain/risk"
)

// analysisResult wraps one analysis for table output.
type analysisResult struct {
	risk.Analysis
}

func (r analysisResult) TableHeaders() []string {
	return []string{"PROPERTY", "SCORE", "LEVEL", "CONFIDENCE", "INSPECTIONS", "TOP FACTOR"}
}

func (r analysisResult) TableRows() [][]string {
	topFactor := ""
	if len(r.Factors) > 0 {
		topFactor = r.Factors[0].Name
	}
	return [][]string{{
		r.PropertyID,
		fmt.Sprintf("%.1f", r.Score),
		string(r.Level),
		fmt.Sprintf("%.2f", r.Confidence),
		strconv.Itoa(r.InspectionCount),
		topFactor,
	}}
}

// NewAnalyzeCmd builds `roofsight analyze <property-id>`.
func NewAnalyzeCmd(provider ServiceProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <property-id>",
		Short: "Run a risk analysis for one property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, provider, func(_ *CLIContext, svc *planner.Service) error {
				analysis, err := svc.AnalyzeProperty(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if analysis == nil {
					return fmt.Errorf("property %q has no completed inspection history", args[0])
				}
				if err := PrintResult(cmd, analysisResult{*analysis}); err != nil {
					return err
				}
				if len(analysis.Recommendations) > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
					for _, rec := range analysis.Recommendations {
						fmt.Fprintf(cmd.OutOrStdout(), "  - [%s/%s] %s (est. $%.0f)\n",
							rec.Type, rec.Priority, rec.Description, rec.EstimatedCost)
					}
				}
				return nil
			})
		},
	}
	return cmd
}

// sweepResult wraps a portfolio report for table output.
type sweepResult struct {
	planner.SweepReport
	top int
}

func (r sweepResult) TableHeaders() []string {
	return []string{"PROPERTY", "NAME", "SCORE", "LEVEL", "PREDICTED MAINTENANCE"}
}

func (r sweepResult) TableRows() [][]string {
	analyses := r.Analyses
	if r.top > 0 && len(analyses) > r.top {
		analyses = analyses[:r.top]
	}
	rows := make([][]string, 0, len(analyses))
	for _, a := range analyses {
		maintenance := ""
		if !a.PredictedMaintenance.IsZero() {
			maintenance = a.PredictedMaintenance.Format("2006-01")
		}
		rows = append(rows, []string{
			a.PropertyID,
			a.PropertyName,
			fmt.Sprintf("%.1f", a.Score),
			string(a.Level),
			maintenance,
		})
	}
	return rows
}

// NewSweepCmd builds `roofsight sweep`, the synchronous full-portfolio run.
func NewSweepCmd(provider ServiceProvider) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Analyze the whole portfolio, highest risk first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, provider, func(_ *CLIContext, svc *planner.Service) error {
				report, err := svc.AnalyzePortfolio(cmd.Context())
				if err != nil {
					return err
				}
				if err := PrintResult(cmd, sweepResult{SweepReport: *report, top: top}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d properties scored in %s\n",
					report.PropertiesScored, report.PropertiesTotal, report.Duration.Round(time.Millisecond))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "limit table output to the N highest-risk properties")
	return cmd
}
