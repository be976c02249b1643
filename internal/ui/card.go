package ui

import (
	"strings"
	"time"

	"github.com/Mohsinsiddi/lcurate/internal/ipfs"
	"github.com/Mohsinsiddi/lcurate/internal/listing"
	"github.com/Mohsinsiddi/lcurate/internal/subgraph"
	"github.com/charmbracelet/lipgloss"
)

const cardWidth = 72

// ItemCard renders one registry item the way the list view shows it. With
// expanded set the additional information is included.
func ItemCard(it subgraph.Item, gateway string, expanded bool) string {
	var sb strings.Builder

	network := StyleBadge.Background(ColorAddress).Render(it.Prop(listing.LabelNetwork))
	sb.WriteString(network + " " + StatusBadge(it.Status, it.Disputed()) + "\n\n")
	sb.WriteString(StyleValue.Render(it.Prop(listing.LabelName)) + "\n")
	sb.WriteString(StyleMeta.Width(cardWidth-4).Render(it.Prop(listing.LabelDescription)) + "\n\n")

	locator := it.Prop(listing.LabelLocator)
	pairs := [][2]string{
		{"Locator ID", TruncateMiddle(locator, 10, 6)},
		{"Repository", it.Prop(listing.LabelRepository)},
		{"Commit", TruncateMiddle(it.Prop(listing.LabelCommit), 7, 0)},
		{"Version", it.Prop(listing.LabelVersion)},
	}
	if locator != subgraph.NotAvailable {
		pairs = append(pairs, [2]string{"Gateway", ipfs.GatewayURL(gateway, locator)})
	}
	for _, p := range pairs {
		sb.WriteString(StyleMeta.Render(padLabel(p[0])) + " " + p[1] + "\n")
	}
	if expanded {
		sb.WriteString("\n" + StyleMeta.Render("Additional information") + "\n")
		sb.WriteString(StyleMeta.Width(cardWidth-4).Render(it.Prop(listing.LabelAdditional)) + "\n")
	}

	var submitted string
	if r := it.Latest(); r != nil {
		submitted = FormatDate(r.SubmittedAt())
	} else {
		submitted = FormatDate(time.Time{})
	}
	footer := StyleMeta.Render("Submitted "+submitted) + "  " + Addr(TruncateID(it.ItemID))
	if a := it.Action(); a.Label() != "" {
		footer += "  " + StyleWarning.Render("["+a.Label()+"]")
	}
	sb.WriteString("\n" + footer)

	return StyleBorder.Width(cardWidth).Render(sb.String())
}

// ItemCards renders items one below the other.
func ItemCards(items []subgraph.Item, gateway string) string {
	cards := make([]string, len(items))
	for i, it := range items {
		cards[i] = ItemCard(it, gateway, false)
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func padLabel(s string) string {
	const w = 12
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
