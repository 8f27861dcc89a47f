package types

import (
	"strings"

	"github.com/iota-uz/go-i18n/v2/i18n"
)

// NavigationItem is one entry of the SPA menu. Name is a locale message id.
// Items without AuthzObject are visible to every authenticated user.
type NavigationItem struct {
	Name        string           `json:"name"`
	Href        string           `json:"href"`
	Icon        string           `json:"icon,omitempty"`
	Children    []NavigationItem `json:"children,omitempty"`
	AuthzObject string           `json:"-"`
	AuthzAction string           `json:"-"`
}

// Action returns the authz action guarding the item, "list" by default.
func (n NavigationItem) Action() string {
	if strings.TrimSpace(n.AuthzAction) == "" {
		return "list"
	}
	return n.AuthzAction
}

// FilterNavigation keeps the items allow accepts, recursively. A denied parent
// hides its whole subtree.
func FilterNavigation(items []NavigationItem, allow func(NavigationItem) bool) []NavigationItem {
	filtered := make([]NavigationItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.AuthzObject) != "" && !allow(item) {
			continue
		}
		item.Children = FilterNavigation(item.Children, allow)
		filtered = append(filtered, item)
	}
	return filtered
}

// CollapseNavigation drops parents left without children and replaces a
// parent holding exactly one child with that child.
func CollapseNavigation(items []NavigationItem) []NavigationItem {
	out := make([]NavigationItem, 0, len(items))
	for _, item := range items {
		if len(item.Children) == 0 {
			if item.Href != "" {
				out = append(out, item)
			}
			continue
		}
		children := CollapseNavigation(item.Children)
		switch len(children) {
		case 0:
		case 1:
			out = append(out, children[0])
		default:
			item.Children = children
			out = append(out, item)
		}
	}
	return out
}

// TranslateNavigation replaces message ids with localized names. Unknown ids
// are kept as they are.
func TranslateNavigation(localizer *i18n.Localizer, items []NavigationItem) []NavigationItem {
	translated := make([]NavigationItem, 0, len(items))
	for _, item := range items {
		name := item.Name
		if localizer != nil {
			if msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: item.Name}); err == nil && msg != "" {
				name = msg
			}
		}
		item.Name = name
		item.Children = TranslateNavigation(localizer, item.Children)
		translated = append(translated, item)
	}
	return translated
}
