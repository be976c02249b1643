package cmd

import (
	"fmt"
	"math/big"
	"time"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"github.com/Mohsinsiddi/lcurate/internal/deposit"
	"github.com/Mohsinsiddi/lcurate/internal/store"
	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyLinks bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the registry transactions sent from this machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.History(historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println(ui.Meta("No transactions sent yet."))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Sent", Width: 19},
			{Title: "Action", Width: 16},
			{Title: "Item", Width: 13},
			{Title: "Deposit", Width: 12},
			{Title: "Tx", Width: 13},
		})
		for _, e := range entries {
			item := "—"
			if e.ItemID != "" {
				item = ui.TruncateID(e.ItemID)
			}
			t.AddRow(ui.Row{
				ui.Meta(e.SentAt.Local().Format(time.DateTime)),
				e.Method,
				item,
				formatWei(e.Deposit),
				ui.Addr(ui.TruncateID(e.Hash)),
			})
		}
		fmt.Println(t.Render())

		if historyLinks {
			for _, e := range entries {
				if url := txURL(e); url != "" {
					fmt.Println(ui.Meta(url))
				}
			}
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the local transaction history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.ClearHistory(); err != nil {
			return err
		}
		fmt.Println(ui.Success("History cleared."))
		return nil
	},
}

// formatWei renders a stored wei amount as ether, or "—" when unknown.
func formatWei(s string) string {
	wei, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return "—"
	}
	return deposit.Format(wei)
}

func txURL(e store.Entry) string {
	c, err := chain.NewRegistry().GetByName(e.Chain)
	if err != nil {
		return ""
	}
	return c.TxURL(e.Hash)
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyLinks, "links", false, "print block explorer links")
	historyCmd.AddCommand(historyClearCmd)
}
