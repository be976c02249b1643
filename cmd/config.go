package cmd

import (
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"github.com/Mohsinsiddi/lcurate/internal/config"
	"github.com/Mohsinsiddi/lcurate/internal/rpc"
	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs := make([][2]string, 0, len(config.Settings())+1)
		for _, s := range config.Settings() {
			v, _ := cfg.Get(s.Key)
			if v == "" {
				v = ui.Meta("(unset)")
			}
			pairs = append(pairs, [2]string{s.Key, v})
		}
		pairs = append(pairs, [2]string{"default-wallet", cfg.DefaultWallet})
		fmt.Println(ui.KeyValueBlock("Current Configuration", pairs))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := cfg.Get(args[0])
		if err != nil {
			return settingErr(err)
		}
		fmt.Println(v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := checkSetting(key, value); err != nil {
			return err
		}
		if err := cfg.Set(key, value); err != nil {
			return settingErr(err)
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		shown, _ := cfg.Get(key)
		fmt.Println(ui.Success(fmt.Sprintf("%s set to %s", key, ui.Val(shown))))
		return nil
	},
}

// checkSetting rejects values that would only fail later, at dial time.
func checkSetting(key, value string) error {
	switch key {
	case "registry":
		if !common.IsHexAddress(value) {
			return fmt.Errorf("invalid registry address %q", value)
		}
	case "rpc-algorithm":
		if _, err := rpc.ParseAlgorithm(value); err != nil {
			return err
		}
	case "network":
		if _, err := chain.NewRegistry().GetByName(value); err != nil {
			return fmt.Errorf("unknown chain %q; run `lcurate network list` to see all chains", value)
		}
	}
	return nil
}

func settingErr(err error) error {
	if !errors.Is(err, config.ErrUnknownSetting) {
		return err
	}
	msg := err.Error() + "\n  Known settings:"
	for _, s := range config.Settings() {
		msg += fmt.Sprintf("\n    %-14s %s", s.Key, s.Description)
	}
	return errors.New(msg)
}

func init() {
	configCmd.AddCommand(configListCmd, configGetCmd, configSetCmd)
}
