package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/lcurate/internal/deposit"
	"github.com/Mohsinsiddi/lcurate/internal/flow"
	"github.com/Mohsinsiddi/lcurate/internal/listing"
	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/spf13/cobra"
)

var (
	submitFile    string
	submitWait    bool
	submitListing = listing.New()
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a frontend to the registry",
	Long: `Submit a frontend for listing. The item is uploaded to IPFS and registered
with the submission deposit, which is returned if nobody challenges it
during the challenge period.

Fields come from --file (JSON or YAML), from flags, or from an interactive
form when stdin is a terminal. Flags override values read from --file.

Examples:
  lcurate submit                                  # interactive form
  lcurate submit --file frontend.yaml --yes --wait
  lcurate submit --name Uniswap --description "Swap UI" \
    --locator bafy... --repository https://github.com/Uniswap/interface \
    --commit 3f1a9c2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		l, err := submitInput(cmd)
		if err != nil {
			return err
		}
		if err := l.Validate(); err != nil {
			if !ui.Interactive() {
				return err
			}
			if err := ui.ListingForm(l); err != nil {
				return err
			}
		}

		runner, reg, closeFn, err := newRunner(ctx, submitWait)
		if err != nil {
			return err
		}
		defer closeFn()

		sp := ui.NewSpinner("Reading submission deposit…").Start()
		b, err := reg.Deposits().Deposit(ctx, deposit.Submission)
		sp.Stop()
		if err != nil {
			return err
		}
		if !assumeYes {
			ok, err := ui.Confirm("Submit this frontend?", submitPreview(l, b))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
		}

		res, err := runner.Submit(ctx, l)
		if res != nil {
			printResult(res)
		}
		return err
	},
}

// submitInput merges --file and the field flags into one listing.
func submitInput(cmd *cobra.Command) (*listing.Listing, error) {
	l := listing.New()
	if submitFile != "" {
		loaded, err := listing.Load(submitFile)
		if err != nil {
			return nil, err
		}
		l = loaded
	}
	flags := map[string]*string{
		"name":         &l.Name,
		"description":  &l.Description,
		"network-name": &l.NetworkName,
		"locator":      &l.LocatorID,
		"repository":   &l.RepositoryURL,
		"commit":       &l.CommitHash,
		"version-tag":  &l.VersionTag,
		"additional":   &l.AdditionalInfo,
	}
	from := map[string]string{
		"name":         submitListing.Name,
		"description":  submitListing.Description,
		"network-name": submitListing.NetworkName,
		"locator":      submitListing.LocatorID,
		"repository":   submitListing.RepositoryURL,
		"commit":       submitListing.CommitHash,
		"version-tag":  submitListing.VersionTag,
		"additional":   submitListing.AdditionalInfo,
	}
	for name, dst := range flags {
		if cmd.Flags().Changed(name) {
			*dst = from[name]
		}
	}
	l.Normalize()
	return l, nil
}

func submitPreview(l *listing.Listing, b *deposit.Breakdown) [][2]string {
	pairs := make([][2]string, 0, len(listing.Columns)+2)
	values := l.Values()
	for _, col := range listing.Columns {
		if v := values[col.Label]; v != "" {
			pairs = append(pairs, [2]string{col.Label, v})
		}
	}
	return append(pairs, depositPairs(b)...)
}

// depositPairs describes a deposit for a confirmation prompt.
func depositPairs(b *deposit.Breakdown) [][2]string {
	return [][2]string{
		{"Deposit", ui.Val(deposit.Format(b.Total) + " " + nativeSymbol())},
		{"Challenge period", fmt.Sprintf("%d day(s)", b.ChallengePeriodDays())},
	}
}

// printResult shows what a flow sent.
func printResult(res *flow.Result) {
	if res.Tx == nil {
		return
	}
	pairs := [][2]string{
		{"Tx", ui.Addr(res.Tx.Hash)},
		{"Item", res.ItemID},
	}
	if res.URI != "" {
		pairs = append(pairs, [2]string{"IPFS", res.URI})
	}
	if c, err := expectedChain(); err == nil {
		if url := c.TxURL(res.Tx.Hash); url != "" {
			pairs = append(pairs, [2]string{"Explorer", url})
		}
	}
	if res.Receipt != nil {
		pairs = append(pairs, [2]string{"Block", fmt.Sprintf("%d", res.Receipt.BlockNumber)})
	}
	fmt.Println(ui.KeyValueBlock("", pairs))
}

func init() {
	f := submitCmd.Flags()
	f.StringVarP(&submitFile, "file", "f", "", "read the listing from a JSON or YAML file")
	f.StringVar(&submitListing.Name, "name", "", listing.LabelName)
	f.StringVar(&submitListing.Description, "description", "", listing.LabelDescription)
	f.StringVar(&submitListing.NetworkName, "network-name", listing.DefaultNetwork, listing.LabelNetwork)
	f.StringVar(&submitListing.LocatorID, "locator", "", listing.LabelLocator)
	f.StringVar(&submitListing.RepositoryURL, "repository", "", listing.LabelRepository)
	f.StringVar(&submitListing.CommitHash, "commit", "", listing.LabelCommit)
	f.StringVar(&submitListing.VersionTag, "version-tag", "", listing.LabelVersion)
	f.StringVar(&submitListing.AdditionalInfo, "additional", "", listing.LabelAdditional)
	f.BoolVar(&submitWait, "wait", false, "wait until the transaction is mined")
}
