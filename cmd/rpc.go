package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"github.com/Mohsinsiddi/lcurate/internal/rpc"
	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "Manage RPC endpoints",
}

// chainArg resolves an optional chain argument, defaulting to the configured network.
func chainArg(args []string) (*chain.Chain, error) {
	if len(args) == 0 {
		return expectedChain()
	}
	c, err := chain.NewRegistry().GetByName(args[0])
	if err != nil {
		return nil, fmt.Errorf("unknown chain %q", args[0])
	}
	return c, nil
}

var rpcAddCmd = &cobra.Command{
	Use:   "add <chain> <url>",
	Short: "Add a custom RPC URL for a chain",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chainArg(args[:1])
		if err != nil {
			return err
		}
		if err := cfg.AddRPC(c.Name, args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Added RPC for %s: %s", ui.ChainName(c.Name), args[1])))
		return nil
	},
}

var rpcRemoveCmd = &cobra.Command{
	Use:   "remove <chain> <url>",
	Short: "Remove a custom RPC URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName, url := args[0], args[1]
		if err := cfg.RemoveRPC(chainName, url); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed RPC for %s: %s", chainName, url)))
		return nil
	},
}

var rpcListCmd = &cobra.Command{
	Use:   "list [chain]",
	Short: "List all RPCs for a chain",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chainArg(args)
		if err != nil {
			return err
		}
		fmt.Println(ui.StyleTitle.Render(fmt.Sprintf("RPCs for %s", c.DisplayName)))
		fmt.Println(ui.StyleHeader.Render("Built-in RPCs:"))
		for _, r := range c.RPCs {
			fmt.Printf("  %s\n", r)
		}
		if custom := cfg.GetRPCs(c.Name); len(custom) > 0 {
			fmt.Println(ui.StyleHeader.Render("Custom RPCs:"))
			for _, r := range custom {
				fmt.Printf("  %s\n", r)
			}
		}
		fmt.Println(ui.Meta("Selection: " + cfg.RPCAlgorithm))
		return nil
	},
}

var rpcBenchmarkCmd = &cobra.Command{
	Use:   "benchmark [chain]",
	Short: "Probe every RPC for a chain and show latency and height",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := chainArg(args)
		if err != nil {
			return err
		}
		fmt.Println(ui.StyleTitle.Render(fmt.Sprintf("Benchmarking %s RPCs...", c.DisplayName)))

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		results := rpc.ProbeAll(ctx, rpc.Candidates(c, cfg.GetRPCs(c.Name)), c.ChainID)

		t := ui.NewTable([]ui.Column{
			{Title: "RPC URL", Width: 44},
			{Title: "Latency", Width: 10},
			{Title: "Block #", Width: 12},
			{Title: "Status", Width: 12},
		})
		for _, r := range results {
			status := ui.Success("healthy")
			latency := fmt.Sprintf("%dms", r.Latency.Milliseconds())
			block := fmt.Sprintf("%d", r.BlockNumber)
			if r.Err != nil {
				status = ui.Err("down")
				latency, block = "—", "—"
				log.Debug("probe failed", zap.String("url", r.URL), zap.Error(r.Err))
			}
			t.AddRow(ui.Row{r.URL, latency, block, status})
		}
		fmt.Println(t.Render())
		return nil
	},
}

var rpcAlgorithmCmd = &cobra.Command{
	Use:   "algorithm <fastest|round-robin|failover>",
	Short: "Set the RPC selection algorithm",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		algo, err := rpc.ParseAlgorithm(args[0])
		if err != nil {
			return err
		}
		cfg.RPCAlgorithm = string(algo)
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("RPC algorithm set to %q", algo)))
		return nil
	},
}

func init() {
	rpcCmd.AddCommand(rpcAddCmd, rpcRemoveCmd, rpcListCmd, rpcBenchmarkCmd, rpcAlgorithmCmd)
}
