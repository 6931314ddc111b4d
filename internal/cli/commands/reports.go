package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baselog-dev/baselog/internal/forms"
)

// NewReportsCmd creates the reports command group
func NewReportsCmd(env *Env) *cobra.Command {
	var r forms.ReportRange

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Sales reports",
	}
	cmd.PersistentFlags().StringVar(&r.From, "from", "", "Start date (YYYY-MM-DD), inclusive")
	cmd.PersistentFlags().StringVar(&r.To, "to", "", "End date (YYYY-MM-DD), inclusive")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "average",
			Short: "Average ticket over the range",
			RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
				avg, err := app.Dashboard.AverageTicket(cmd.Context(), r)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Average ticket: %s over %d sales\n", money(avg.Average), avg.Count)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "breakdown",
			Short: "Revenue share per product over the range",
			RunE: runner(env, func(cmd *cobra.Command, app *App, args []string) error {
				b, err := app.Dashboard.SalesBreakdown(cmd.Context(), r)
				if err != nil {
					return err
				}
				if len(b.Buckets) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No sales in range.")
					return nil
				}
				rows := make([][]string, 0, len(b.Buckets))
				for _, bk := range b.Buckets {
					rows = append(rows, []string{bk.Label, money(bk.Value), fmt.Sprintf("%.1f%%", bk.Percentage)})
				}
				return printTable(cmd.OutOrStdout(), []string{"PRODUCT", "REVENUE", "SHARE"}, rows)
			}),
		},
	)

	return cmd
}
