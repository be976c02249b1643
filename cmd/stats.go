package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/spf13/cobra"
)

var statsRegistryID string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show registry-wide counters from the indexer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sp := ui.NewSpinner("Loading registry stats…").Start()
		s, err := newSubgraph().Stats(cmd.Context(), statsRegistryID)
		sp.Stop()
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock("Registry", [][2]string{
			{"Registered", ui.Val(fmt.Sprintf("%d", s.NumberOfRegistered))},
			{"Registration pending", fmt.Sprintf("%d", s.NumberOfRegistrationRequested)},
			{"Removal pending", fmt.Sprintf("%d", s.NumberOfClearingRequested)},
			{"Not registered", fmt.Sprintf("%d", s.NumberOfAbsent)},
			{"Challenged registrations", fmt.Sprintf("%d", s.NumberOfChallengedRegistrations)},
			{"Challenged removals", fmt.Sprintf("%d", s.NumberOfChallengedClearing)},
			{"Total submitted", fmt.Sprintf("%d", s.Total())},
		}))
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsRegistryID, "registry-id", "1", "subgraph registry entity id")
}
