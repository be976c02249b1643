package subgraph

import (
	"strings"

	"github.com/Mohsinsiddi/lcurate/internal/tcr"
)

// Search keeps the items with a prop value containing q, ignoring case. An
// empty q keeps everything.
func Search(items []Item, q string) []Item {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		for _, p := range it.Props() {
			if p.Value != nil && strings.Contains(strings.ToLower(*p.Value), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// ByStatus keeps the items whose status is one of statuses.
func ByStatus(items []Item, statuses ...tcr.Status) []Item {
	if len(statuses) == 0 {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		for _, s := range statuses {
			if it.Status == s {
				out = append(out, it)
				break
			}
		}
	}
	return out
}
