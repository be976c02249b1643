package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/lcurate/internal/deposit"
	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/spf13/cobra"
)

var depositsExact bool

var depositsCmd = &cobra.Command{
	Use:   "deposits",
	Short: "Show the deposit each request type requires",
	Long: `Read the base deposits and the arbitrator's arbitration cost from the
registry contract and show the total each request type locks up. A deposit
is returned when the request goes through unchallenged or wins its dispute.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		reg, err := newRegistry(ctx, nil)
		if err != nil {
			return err
		}
		sp := ui.NewSpinner("Reading deposits…").Start()
		all, err := reg.Deposits().All(ctx)
		sp.Stop()
		if err != nil {
			return err
		}

		symbol := nativeSymbol()
		format := deposit.Format
		if depositsExact {
			format = deposit.FormatExact
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Request", Width: 22},
			{Title: "Base deposit", Width: 16},
			{Title: "Arbitration", Width: 16},
			{Title: "Total", Width: 16},
		})
		for _, b := range all {
			t.AddRow(ui.Row{
				b.Kind.String(),
				format(b.BaseDeposit),
				format(b.ArbitrationCost),
				ui.Val(format(b.Total) + " " + symbol),
			})
		}
		fmt.Println(t.Render())
		if len(all) > 0 {
			fmt.Println(ui.Meta(fmt.Sprintf("Challenge period: %d day(s)", all[0].ChallengePeriodDays())))
		}
		return nil
	},
}

func init() {
	depositsCmd.Flags().BoolVar(&depositsExact, "exact", false, "show amounts without rounding")
}
