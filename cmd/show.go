package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/lcurate/internal/deposit"
	"github.com/Mohsinsiddi/lcurate/internal/ipfs"
	"github.com/Mohsinsiddi/lcurate/internal/listing"
	"github.com/Mohsinsiddi/lcurate/internal/subgraph"
	"github.com/Mohsinsiddi/lcurate/internal/tcr"
	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	showOnChain bool
	showOpen    bool
)

var showCmd = &cobra.Command{
	Use:   "show <itemID>",
	Short: "Show one frontend with its on-chain request state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := tcr.ParseItemID(args[0])
		if err != nil {
			return err
		}

		sp := ui.NewSpinner("Loading frontend…").Start()
		item, err := newSubgraph().Item(ctx, tcr.FormatItemID(id))
		sp.Stop()
		if err != nil {
			return err
		}
		if item == nil {
			fmt.Println(ui.Warn("Item not indexed: " + tcr.FormatItemID(id)))
		} else {
			fmt.Println(ui.ItemCard(*item, cfg.IPFSGateway, true))
			if showOpen {
				if locator := item.Prop(listing.LabelLocator); locator != subgraph.NotAvailable {
					ui.OpenURL(ipfs.GatewayURL(cfg.IPFSGateway, locator))
				}
			}
		}

		if !showOnChain {
			return nil
		}
		reg, err := newRegistry(ctx, nil)
		if err != nil {
			return err
		}
		info, req, err := reg.LatestRequest(ctx, id)
		if err != nil && !errors.Is(err, tcr.ErrNoRequests) {
			return err
		}
		pairs := [][2]string{
			{"Status", info.Status.Label()},
			{"Requests", info.NumberOfRequests.String()},
			{"Deposits held", deposit.Format(info.SumDeposit) + " " + nativeSymbol()},
		}
		if req != nil {
			pairs = append(pairs, requestPairs(ctx, reg, info, req)...)
		}
		fmt.Println(ui.KeyValueBlock("On-chain", pairs))
		return nil
	},
}

// requestPairs describes the latest request. The challenge deadline is shown
// only while the request can still be challenged.
func requestPairs(ctx context.Context, reg *tcr.Registry, info *tcr.ItemInfo, req *tcr.RequestInfo) [][2]string {
	pairs := [][2]string{
		{"Submitted", ui.FormatDate(req.SubmissionTime)},
		{"Requester", req.Requester().Hex()},
	}
	if c := req.Challenger(); c != (common.Address{}) {
		pairs = append(pairs, [2]string{"Challenger", c.Hex()})
	}
	switch {
	case req.Disputed && !req.Resolved:
		pairs = append(pairs, [2]string{"Dispute", req.DisputeID.String()})
	case req.Resolved:
		pairs = append(pairs, [2]string{"Ruling", req.Ruling.String()})
	case info.Status.Pending():
		if period, err := reg.ChallengePeriodDuration(ctx); err == nil {
			ends := req.SubmissionTime.Add(period)
			pairs = append(pairs, [2]string{"Challenge period ends", ends.Local().Format(time.DateTime)})
		}
	}
	return pairs
}

func init() {
	showCmd.Flags().BoolVar(&showOpen, "open", false, "open the frontend through the IPFS gateway")
	showCmd.Flags().BoolVar(&showOnChain, "onchain", true, "also read the latest request from the registry contract")
}
