package cmd

import (
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"github.com/Mohsinsiddi/lcurate/internal/deposit"
	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/Mohsinsiddi/lcurate/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the default wallet and move it onto the registry's chain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newAdapter()
		if err != nil {
			return err
		}
		unsubscribe := a.OnAccountsChanged(func(account string) {
			log.Debug("accounts changed", zap.String("account", account))
		})
		defer unsubscribe()

		account, err := a.Connect(ctx)
		if err != nil {
			return err
		}
		if err := a.SwitchToExpectedChain(ctx); err != nil {
			return err
		}
		notifier.Success("Connected " + wallet.FormatWalletAddress(account) + " on " + a.Expected().DisplayName)
		return nil
	},
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the connected account, its chain and balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newAdapter()
		if err != nil {
			return err
		}
		account := a.CurrentAccount(ctx)
		if account == "" {
			fmt.Println(ui.Meta(wallet.FormatWalletAddress("")))
			fmt.Println(ui.Hint("Run `lcurate connect` first."))
			return nil
		}

		id, err := a.ChainID(ctx)
		if err != nil {
			return err
		}
		pairs := [][2]string{{"Account", ui.Addr(account)}}
		c, err := chain.NewRegistry().GetByChainID(id)
		if err != nil {
			pairs = append(pairs, [2]string{"Chain", fmt.Sprintf("%d", id)})
		} else {
			pairs = append(pairs, [2]string{"Chain", ui.ChainName(c.DisplayName)})
		}
		if id != a.Expected().ChainID {
			pairs = append(pairs, [2]string{"", ui.Warn("registry is on " + a.Expected().DisplayName + "; run `lcurate network switch`")})
		}
		if c != nil {
			if node, err := dialNode(ctx, c); err == nil {
				if bal, err := node.Balance(ctx, common.HexToAddress(account)); err == nil {
					pairs = append(pairs, [2]string{"Balance", ui.Val(deposit.Format(bal) + " " + c.NativeCurrency.Symbol)})
				}
			}
		}
		fmt.Println(ui.KeyValueBlock("Wallet", pairs))
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Forget every connected account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newProvider().Disconnect(); err != nil && !errors.Is(err, wallet.ErrNotConnected) {
			return err
		}
		notifier.Success("Disconnected")
		return nil
	},
}
