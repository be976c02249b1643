package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup wizard",
	Long:  "Walk through the registry, indexer and IPFS settings and save them.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.Interactive() {
			return fmt.Errorf("init needs a terminal; use `lcurate config set` instead")
		}
		fmt.Println(ui.Banner())

		var names []string
		for _, c := range chain.NewRegistry().All() {
			names = append(names, c.Name)
		}
		r := &ui.WizardResult{
			Network:      cfg.Network,
			RPCAlgorithm: cfg.RPCAlgorithm,
			Registry:     cfg.RegistryAddress,
			SubgraphURL:  cfg.SubgraphURL,
			SubgraphKey:  cfg.SubgraphAPIKey,
			IPFSAPIURL:   cfg.IPFSAPIURL,
			IPFSGateway:  cfg.IPFSGateway,
		}
		if err := ui.RunWizard(r, names); err != nil {
			return err
		}

		for key, v := range map[string]string{
			"network":       r.Network,
			"rpc-algorithm": r.RPCAlgorithm,
			"registry":      r.Registry,
			"subgraph-url":  r.SubgraphURL,
			"subgraph-key":  r.SubgraphKey,
			"ipfs-api":      r.IPFSAPIURL,
			"ipfs-gateway":  r.IPFSGateway,
		} {
			if err := cfg.Set(key, v); err != nil {
				return err
			}
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Println(ui.Success("lcurate configured."))
		if len(newWalletManager().List()) == 0 {
			fmt.Println(ui.Hint("Add a wallet to submit: lcurate wallet add <name> --signing"))
		}
		return nil
	},
}
