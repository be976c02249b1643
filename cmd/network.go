package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Choose the chain the registry is read from and written to",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported chains",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()
		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 12},
			{Title: "Display", Width: 20},
			{Title: "Chain ID", Width: 10},
			{Title: "Currency", Width: 8},
			{Title: "Active", Width: 6},
		})
		for _, c := range reg.All() {
			active := ""
			if c.Name == cfg.Network {
				active = ui.StyleSuccess.Render("✓")
			}
			name := ui.ChainName(c.Name)
			if c.Testnet {
				name += ui.Meta(" (testnet)")
			}
			t.AddRow(ui.Row{name, c.DisplayName, fmt.Sprintf("%d", c.ChainID), c.NativeCurrency.Symbol, active})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use [chain]",
	Short: "Set the network the registry lives on",
	Long: `Set the chain and persist it to config. The registry address must exist on
that chain; change it with ` + "`lcurate config set registry <address>`" + ` if needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()
		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			var items []ui.PickerItem
			for _, c := range reg.All() {
				items = append(items, ui.PickerItem{
					Label:    c.Name,
					SubLabel: fmt.Sprintf("%s · %d", c.DisplayName, c.ChainID),
					Value:    c.Name,
					Current:  c.Name == cfg.Network,
				})
			}
			picked, err := ui.PickItem("Registry network", items)
			if err != nil {
				return err
			}
			if picked == "" {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
			name = picked
		}
		c, err := reg.GetByName(name)
		if err != nil {
			return fmt.Errorf("unknown chain %q; run `lcurate network list` to see all chains", name)
		}
		cfg.Network = c.Name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Network set to %s", ui.ChainName(c.DisplayName))))
		return nil
	},
}

var networkSwitchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Move the connected wallet onto the registry's chain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newAdapter()
		if err != nil {
			return err
		}
		if err := a.SwitchToExpectedChain(cmd.Context()); err != nil {
			return err
		}
		fmt.Println(ui.Success("Wallet switched to " + ui.ChainName(a.Expected().DisplayName)))
		return nil
	},
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd, networkSwitchCmd)
}
