// Package spotlight implements the quick search over the navigation menu.
package spotlight

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/granempresa/erp-portal/pkg/types"
)

// QuickLink is a menu entry the user can jump to.
type QuickLink struct {
	Label   string `json:"label"`
	Href    string `json:"href"`
	Icon    string `json:"icon,omitempty"`
	Section string `json:"section,omitempty"`
}

// FromNavigation flattens a menu into its reachable entries. Children carry
// the name of their parent as section and inherit its icon when they have none.
func FromNavigation(items []types.NavigationItem) []QuickLink {
	var out []QuickLink
	var walk func(items []types.NavigationItem, parent *types.NavigationItem)
	walk = func(items []types.NavigationItem, parent *types.NavigationItem) {
		for i := range items {
			item := &items[i]
			if item.Href != "" {
				link := QuickLink{Label: item.Name, Href: item.Href, Icon: item.Icon}
				if parent != nil {
					link.Section = parent.Name
					if link.Icon == "" {
						link.Icon = parent.Icon
					}
				}
				out = append(out, link)
			}
			walk(item.Children, item)
		}
	}
	walk(items, nil)
	return out
}

// Find ranks links whose label fuzzily contains q, closest first. A blank
// query matches nothing.
func Find(q string, links []QuickLink) []QuickLink {
	q = strings.TrimSpace(q)
	result := []QuickLink{}
	if q == "" || len(links) == 0 {
		return result
	}
	words := make([]string, len(links))
	for i, l := range links {
		words[i] = l.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(q, words)
	sort.Stable(ranks)
	for _, rank := range ranks {
		result = append(result, links[rank.OriginalIndex])
	}
	return result
}
