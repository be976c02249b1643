package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mohsinsiddi/lcurate/internal/config"
	"github.com/Mohsinsiddi/lcurate/internal/subgraph"
	"github.com/Mohsinsiddi/lcurate/internal/tcr"
	"github.com/Mohsinsiddi/lcurate/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listStatuses    []string
	listSearch      string
	listCached      bool
	listInteractive bool
	listLimit       int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List frontends in the registry",
	Long: `List the frontends indexed for the configured registry.

Only registered frontends are listed unless --status says otherwise.

Examples:
  lcurate list
  lcurate list --status all
  lcurate list --status pending --search uniswap
  lcurate list -i                 # interactive browser
  lcurate list --cached           # last successful fetch, no network`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		statuses, err := parseStatuses(listStatuses)
		if err != nil {
			return err
		}

		var items []subgraph.Item
		if listCached {
			items, err = cachedItems(statuses)
			if err != nil {
				return err
			}
			items = subgraph.ByStatus(items, statuses...)
		} else {
			sp := ui.NewSpinner("Loading frontends…").Start()
			items, err = newSubgraph().Items(ctx, subgraph.Filter{
				Registry: cfg.RegistryAddress,
				Statuses: statuses,
				First:    listLimit,
			})
			sp.Stop()
			if err != nil {
				return shown(err)
			}
			saveSnapshot(statuses, items)
		}

		items = subgraph.Search(items, listSearch)
		if len(items) == 0 {
			if listSearch != "" {
				fmt.Println(ui.Meta("No frontends match your search"))
			} else {
				fmt.Println(ui.Meta("No frontends found"))
			}
			return nil
		}

		if listInteractive && ui.Interactive() {
			title := fmt.Sprintf("Frontends · %d", len(items))
			picked, err := ui.RunBrowser(title, cfg.IPFSGateway, items)
			if err != nil || picked == nil {
				return err
			}
			return runItemAction(cmd, *picked)
		}

		fmt.Println(ui.ItemCards(items, cfg.IPFSGateway))
		fmt.Println(ui.Meta(fmt.Sprintf("%d frontend(s)", len(items))))
		return nil
	},
}

// parseStatuses turns --status values into statuses. No value means
// registered items only, "all" lifts the filter and "pending" expands to both
// request states.
func parseStatuses(raw []string) ([]tcr.Status, error) {
	var out []tcr.Status
	for _, r := range raw {
		switch strings.ToLower(strings.TrimSpace(r)) {
		case "":
			continue
		case "all", "any":
			return nil, nil
		case "pending":
			out = append(out, tcr.RegistrationRequested, tcr.ClearingRequested)
		case "removed", "not-registered":
			out = append(out, tcr.Absent)
		default:
			s, err := tcr.ParseStatus(strings.ReplaceAll(r, "-", ""))
			if err != nil {
				return nil, fmt.Errorf("%w (want all, registered, pending, registrationrequested, clearingrequested or absent)", err)
			}
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []tcr.Status{tcr.Registered}, nil
	}
	return out, nil
}

// statusesLabel names a status filter for display.
func statusesLabel(statuses []tcr.Status) string {
	if len(statuses) == 0 {
		return "all statuses"
	}
	labels := make([]string, len(statuses))
	for i, s := range statuses {
		labels[i] = s.Label()
	}
	return strings.Join(labels, ", ")
}

func cachedItems(statuses []tcr.Status) ([]subgraph.Item, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	snap, err := st.Snapshot(cfg.RegistryAddress)
	if err != nil {
		return nil, fmt.Errorf("%w; run `lcurate list` once while online", err)
	}
	fmt.Println(ui.Meta(fmt.Sprintf("Cached %s · %s",
		snap.FetchedAt.Local().Format(time.DateTime), statusesLabel(snap.Statuses))))
	if !snap.Covers(statuses) {
		refresh := "lcurate list"
		if len(listStatuses) > 0 {
			refresh += " --status " + strings.Join(listStatuses, ",")
		}
		fmt.Println(ui.Warn(fmt.Sprintf("Snapshot only holds %s; run `%s` online to refresh it",
			statusesLabel(snap.Statuses), refresh)))
	}
	return snap.Items, nil
}

func saveSnapshot(statuses []tcr.Status, items []subgraph.Item) {
	st, err := openStore()
	if err != nil {
		log.Warn("snapshot not saved", zap.Error(err))
		return
	}
	defer st.Close()
	if err := st.SaveSnapshot(cfg.RegistryAddress, statuses, items, time.Now()); err != nil {
		log.Warn("snapshot not saved", zap.Error(err))
	}
}

func init() {
	listCmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "filter by status: registered (default), pending, removed or all (repeatable)")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "case-insensitive text search over listing fields")
	listCmd.Flags().BoolVar(&listCached, "cached", false, "show the last fetched snapshot without network access")
	listCmd.Flags().BoolVarP(&listInteractive, "interactive", "i", false, "browse in an interactive table")
	listCmd.Flags().IntVar(&listLimit, "limit", config.MaxItemsPerQuery, "maximum items to fetch")
}
