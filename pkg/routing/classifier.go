package routing

import (
	"cmp"
	"slices"
	"strings"
)

// JSON reports whether failures on routes of this class answer with the
// JSON error envelope instead of the SPA shell.
func (c RouteClass) JSON() bool {
	switch c {
	case RouteClassAPI, RouteClassAuthn, RouteClassOps:
		return true
	default:
		return false
	}
}

// Route is the result of classifying one request path.
type Route struct {
	Class RouteClass
	// Prefix is the allowlist prefix that matched; empty when no rule did.
	Prefix string
}

// Listed reports whether an allowlist rule covers the route.
func (r Route) Listed() bool {
	return r.Prefix != ""
}

// Classifier resolves paths against the allowlist, longest prefix first.
type Classifier struct {
	rules []AllowlistRule
}

func NewClassifier(rules []AllowlistRule) *Classifier {
	c := &Classifier{rules: make([]AllowlistRule, 0, len(rules))}
	for _, rule := range rules {
		prefix := strings.TrimSpace(rule.Prefix)
		if prefix == "" {
			continue
		}
		if prefix != "/" {
			prefix = strings.TrimRight(prefix, "/")
		}
		c.rules = append(c.rules, AllowlistRule{Prefix: prefix, Class: rule.Class})
	}
	slices.SortStableFunc(c.rules, func(a, b AllowlistRule) int {
		return cmp.Compare(len(b.Prefix), len(a.Prefix))
	})
	return c
}

// Route classifies path. Unlisted paths fall back to the SPA shell, except
// stray /api paths, which keep API semantics so they 404 as JSON.
func (c *Classifier) Route(path string) Route {
	for _, rule := range c.rules {
		if under(path, rule.Prefix) {
			return Route{Class: rule.Class, Prefix: rule.Prefix}
		}
	}
	if under(path, "/api") {
		return Route{Class: RouteClassAPI}
	}
	return Route{Class: RouteClassStatic}
}

// under reports whether path is prefix itself or continues it at a segment boundary.
func under(path, prefix string) bool {
	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	rest, ok := strings.CutPrefix(path, prefix)
	return ok && (rest == "" || rest[0] == '/')
}
