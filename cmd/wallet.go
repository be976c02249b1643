package cmd

import (
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/Mohsinsiddi/lcurate/internal/wallet"
	"github.com/spf13/cobra"
)

var (
	walletKeyFlag string
	walletSigning bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the local wallets that sign registry transactions",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name> [address]",
	Short: "Add a wallet",
	Long: `Add a signing wallet from a private key, or a watch-only wallet from an address.

  # Signing wallet; the key is asked for without echo and kept in the OS keychain
  lcurate wallet add alice --signing

  # Watch-only wallet
  lcurate wallet add treasury 0xAbC...`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newWalletManager()

		if walletKeyFlag != "" || walletSigning {
			hexKey := walletKeyFlag
			if hexKey == "" {
				if !ui.Interactive() {
					return errors.New("--signing needs a terminal; pass the key with --key instead")
				}
				k, err := ui.Secret("Private key")
				if err != nil {
					return err
				}
				hexKey = k
			}
			if err := mgr.AddWithKey(name, hexKey); err != nil {
				return err
			}
			w, _ := mgr.Get(name)
			fmt.Println(ui.Success(fmt.Sprintf("Signing wallet %q added: %s", name, ui.Addr(w.Address))))
			fmt.Println(ui.Hint(fmt.Sprintf("Set as default with: lcurate wallet use %s", name)))
			return nil
		}

		if len(args) < 2 {
			return fmt.Errorf("address required for watch-only wallet\n  Usage: lcurate wallet add <name> <address>\n  Or for signing: lcurate wallet add <name> --signing")
		}
		if err := mgr.Add(name, &wallet.Wallet{Address: args[1], Type: wallet.TypeWatchOnly}); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Watch-only wallet %q added: %s", name, ui.Addr(args[1]))))
		fmt.Println(ui.Meta("Watch-only wallets can browse but cannot submit, remove or challenge."))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		wallets := newWalletManager().List()
		if len(wallets) == 0 {
			fmt.Println(ui.Info("No wallets configured yet."))
			fmt.Println(ui.Hint("Add one with: lcurate wallet add alice --signing"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Name", Width: 16},
			{Title: "Address", Width: 44},
			{Title: "Type", Width: 12},
			{Title: "Default", Width: 8},
		})
		for _, w := range wallets {
			def := ""
			if w.IsDefault {
				def = ui.StyleSuccess.Render("✓")
			}
			t.AddRow(ui.Row{ui.Val(w.Name), ui.Addr(w.Address), ui.Meta(walletTypeLabel(w.Type)), def})
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d wallet(s) configured", len(wallets))))
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !assumeYes {
			ok, err := ui.Confirm(fmt.Sprintf("Remove wallet %q?", name), nil)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
		}
		if err := newWalletManager().Remove(name); err != nil {
			return err
		}
		if cfg.DefaultWallet == name {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Println(ui.Success(fmt.Sprintf("Wallet %q removed.", name)))
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Set the wallet lcurate connects with",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newWalletManager()
		var name string
		if len(args) == 1 {
			name = args[0]
		} else {
			var items []ui.PickerItem
			for _, w := range mgr.List() {
				items = append(items, ui.PickerItem{
					Label:    w.Name,
					SubLabel: wallet.FormatWalletAddress(w.Address) + "  " + walletTypeLabel(w.Type),
					Value:    w.Name,
					Current:  w.IsDefault,
				})
			}
			if len(items) == 0 {
				return errors.New("no wallets configured; add one with `lcurate wallet add`")
			}
			picked, err := ui.PickItem("Default wallet", items)
			if err != nil {
				return err
			}
			if picked == "" {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
			name = picked
		}
		if err := mgr.SetDefault(name); err != nil {
			return err
		}
		cfg.DefaultWallet = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default wallet set to %q.", name)))
		fmt.Println(ui.Hint("Run `lcurate connect` to authorize it."))
		return nil
	},
}

var walletGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Generate a new EVM wallet",
	Long: `Generate a brand-new EVM keypair and store the private key in the OS keychain.

The private key is displayed ONCE immediately after creation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, hexKey, err := newWalletManager().Generate(args[0])
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("  %s  %s\n", ui.Meta("Wallet :"), ui.Val(w.Name))
		fmt.Printf("  %s  %s\n\n", ui.Meta("Address:"), ui.Addr(w.Address))
		fmt.Println(ui.DangerBox(
			ui.Warn("SAVE YOUR PRIVATE KEY. It is shown only once.") + "\n\n" +
				ui.Val(hexKey) + "\n\n" +
				ui.Hint("Fund the address before submitting: every request needs a deposit."),
		))
		return nil
	},
}

var walletExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Show the private key of a signing wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := newWalletManager()
		w, err := mgr.Get(name)
		if err != nil {
			return err
		}
		if !w.CanSign() {
			return fmt.Errorf("wallet %q is watch-only and has no key", name)
		}
		ok, err := ui.Confirm(fmt.Sprintf("Reveal the private key of %q?", name), [][2]string{{"Address", w.Address}})
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		hexKey, err := mgr.Keys().Retrieve(w.KeyRef)
		if err != nil {
			return err
		}
		fmt.Println(ui.DangerBox(ui.Warn("PRIVATE KEY. Do not share it.") + "\n\n" + ui.Val(hexKey)))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().StringVar(&walletKeyFlag, "key", "", "private key for a signing wallet (stored in OS keychain)")
	walletAddCmd.Flags().BoolVar(&walletSigning, "signing", false, "prompt for the private key without echo")
	walletCmd.AddCommand(walletAddCmd, walletListCmd, walletRemoveCmd, walletUseCmd,
		walletGenerateCmd, walletExportCmd)
}

// walletTypeLabel converts an internal wallet type to a user-friendly label.
func walletTypeLabel(t string) string {
	if t == wallet.TypeSigning {
		return "read-write"
	}
	return t
}
