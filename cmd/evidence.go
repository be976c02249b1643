package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/lcurate/internal/deposit"
	"github.com/Mohsinsiddi/lcurate/internal/flow"
	"github.com/Mohsinsiddi/lcurate/internal/listing"
	"github.com/Mohsinsiddi/lcurate/internal/subgraph"
	"github.com/Mohsinsiddi/lcurate/internal/tcr"
	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/spf13/cobra"
)

var (
	evidenceTitle string
	evidenceBody  string
	evidenceWait  bool
)

var removeCmd = &cobra.Command{
	Use:   "remove <itemID>",
	Short: "Request the removal of a registered frontend",
	Long: `Request the removal of a registered frontend. The evidence explaining why
is uploaded to IPFS and sent with the removal deposit.

Examples:
  lcurate remove 0x4f2c…e91a                        # asks for evidence
  lcurate remove 0x4f2c…e91a --title "Stale build" \
    --description "The locator serves a build that no longer matches the repo"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvidenceAction(cmd.Context(), tcr.ActionRemove, args[0])
	},
}

var challengeCmd = &cobra.Command{
	Use:   "challenge <itemID>",
	Short: "Challenge a pending registration or removal request",
	Long: `Challenge the pending request of a frontend. The dispute goes to the
registry's arbitrator; the challenge deposit depends on whether the
request is a registration or a removal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvidenceAction(cmd.Context(), tcr.ActionChallenge, args[0])
	},
}

// runItemAction runs the action available for an item picked in the browser.
func runItemAction(cmd *cobra.Command, it subgraph.Item) error {
	action := it.Action()
	if action == tcr.ActionNone {
		fmt.Println(ui.Meta(fmt.Sprintf("No action available for %s (%s).", ui.TruncateID(it.ItemID), it.Status.Label())))
		return nil
	}
	return runEvidenceAction(cmd.Context(), action, it.ItemID)
}

func runEvidenceAction(ctx context.Context, action tcr.Action, rawID string) error {
	id, err := tcr.ParseItemID(rawID)
	if err != nil {
		return err
	}

	ev := listing.Evidence{Title: evidenceTitle, Description: evidenceBody}
	if err := ev.Validate(); err != nil {
		if !ui.Interactive() {
			return err
		}
		if err := ui.EvidenceForm(action.Label(), &ev); err != nil {
			return err
		}
	}

	runner, reg, closeFn, err := newRunner(ctx, evidenceWait)
	if err != nil {
		return err
	}
	defer closeFn()

	kind := deposit.Removal
	if action == tcr.ActionChallenge {
		if kind, err = reg.ChallengeKind(ctx, id); err != nil {
			return err
		}
	}
	sp := ui.NewSpinner("Reading deposit…").Start()
	b, err := reg.Deposits().Deposit(ctx, kind)
	sp.Stop()
	if err != nil {
		return err
	}

	if !assumeYes {
		pairs := append([][2]string{
			{"Item", tcr.FormatItemID(id)},
			{"Evidence", ev.Title},
		}, depositPairs(b)...)
		ok, err := ui.Confirm(action.Label()+"?", pairs)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
	}

	var res *flow.Result
	if action == tcr.ActionChallenge {
		res, err = runner.Challenge(ctx, rawID, ev)
	} else {
		res, err = runner.Remove(ctx, rawID, ev)
	}
	if res != nil {
		printResult(res)
	}
	return err
}

func init() {
	for _, c := range []*cobra.Command{removeCmd, challengeCmd} {
		c.Flags().StringVar(&evidenceTitle, "title", "", "evidence title")
		c.Flags().StringVar(&evidenceBody, "description", "", "evidence description")
		c.Flags().BoolVar(&evidenceWait, "wait", false, "wait until the transaction is mined")
	}
}
