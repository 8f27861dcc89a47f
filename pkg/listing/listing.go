package listing

import (
	"cmp"
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/granempresa/erp-portal/pkg/composables"
	"github.com/granempresa/erp-portal/pkg/serrors"
	"github.com/granempresa/erp-portal/pkg/validation"
)

const dateLayout = "2006-01-02"

type Limits struct {
	Default int
	Max     int
}

var (
	limitsMu sync.RWMutex
	limits   = Limits{Default: 25, Max: 100}
)

// SetLimits replaces the page size defaults; called once at startup.
func SetLimits(l Limits) {
	if l.Default <= 0 || l.Max < l.Default {
		return
	}
	limitsMu.Lock()
	limits = l
	limitsMu.Unlock()
}

func currentLimits() Limits {
	limitsMu.RLock()
	defer limitsMu.RUnlock()
	return limits
}

// Query is the list request shared by every table in the portal.
type Query struct {
	Q       string `form:"q" json:"q,omitempty"`
	Sort    string `form:"sort" json:"sort,omitempty"`
	Order   string `form:"order" json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
	Page    int    `form:"page" json:"page" validate:"gte=0"`
	Limit   int    `form:"limit" json:"limit" validate:"gte=0"`
	Desde   string `form:"desde" json:"desde,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Hasta   string `form:"hasta" json:"hasta,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Filters map[string]string `form:"-" json:"filters,omitempty"`
}

// Fields describes how a row type is searched, filtered and sorted.
type Fields[T any] struct {
	// Text returns the values fuzzy search runs against.
	Text func(T) []string
	// Date is the value desde/hasta compare with.
	Date func(T) time.Time
	// Filters are exact filters keyed by query parameter.
	Filters map[string]func(T, string) bool
	// Sort is the whitelist of sortable fields.
	Sort map[string]func(a, b T) int
	// DefaultSort is used when the query has no sort and no search text.
	DefaultSort string
	DefaultDesc bool
}

type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// Parse decodes and validates a Query from the request URL.
func Parse[T any](r *http.Request, fields Fields[T]) (Query, error) {
	q, err := composables.UseQuery(&Query{}, r)
	if err != nil {
		return Query{}, serrors.NewValidationError(nil).Add("query", err.Error())
	}
	if err := validation.Struct(r.Context(), q); err != nil {
		return Query{}, err
	}
	values := r.URL.Query()
	for key := range fields.Filters {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			if q.Filters == nil {
				q.Filters = map[string]string{}
			}
			q.Filters[key] = v
		}
	}
	return Normalize(r.Context(), *q, fields)
}

// Normalize applies defaults and rejects sort fields outside the whitelist.
func Normalize[T any](_ context.Context, q Query, fields Fields[T]) (Query, error) {
	l := currentLimits()
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = l.Default
	}
	if q.Limit > l.Max {
		q.Limit = l.Max
	}
	q.Q = strings.TrimSpace(q.Q)
	q.Sort = strings.TrimSpace(q.Sort)
	if strings.HasPrefix(q.Sort, "-") {
		q.Sort = strings.TrimPrefix(q.Sort, "-")
		q.Order = "desc"
	}
	if q.Sort != "" {
		if _, ok := fields.Sort[q.Sort]; !ok {
			return Query{}, serrors.NewValidationError(nil).Add("sort", "unknown sort field "+q.Sort)
		}
	}
	if q.Desde != "" && q.Hasta != "" && q.Hasta < q.Desde {
		return Query{}, serrors.NewValidationError(nil).Add("hasta", "hasta must not be before desde")
	}
	return q, nil
}

// Apply filters, searches, sorts and paginates items. The input slice is not modified.
func Apply[T any](items []T, q Query, fields Fields[T]) Page[T] {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = currentLimits().Default
	}

	type ranked struct {
		item T
		rank int
	}
	matched := make([]ranked, 0, len(items))
	from, to, hasRange := dateRange(q)
	for _, item := range items {
		if !matchesFilters(item, q.Filters, fields.Filters) {
			continue
		}
		if hasRange && fields.Date != nil {
			d := fields.Date(item)
			if d.IsZero() || (!from.IsZero() && d.Before(from)) || (!to.IsZero() && !d.Before(to)) {
				continue
			}
		}
		rank := 0
		if q.Q != "" && fields.Text != nil {
			rank = bestRank(q.Q, fields.Text(item))
			if rank < 0 {
				continue
			}
		}
		matched = append(matched, ranked{item: item, rank: rank})
	}

	sortKey, desc := q.Sort, q.Order == "desc"
	if sortKey == "" && q.Q == "" {
		sortKey, desc = fields.DefaultSort, fields.DefaultDesc
	}
	if cmpFn, ok := fields.Sort[sortKey]; ok {
		slices.SortStableFunc(matched, func(a, b ranked) int {
			c := cmpFn(a.item, b.item)
			if desc {
				return -c
			}
			return c
		})
	} else if q.Q != "" {
		slices.SortStableFunc(matched, func(a, b ranked) int { return cmp.Compare(a.rank, b.rank) })
	}

	total := len(matched)
	page := Page[T]{
		Data:  make([]T, 0, min(q.Limit, total)),
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}
	if total > 0 {
		page.Pages = (total-1)/q.Limit + 1
	}
	// Compare page indexes before multiplying so huge page numbers cannot overflow.
	if q.Page < 1 || q.Page-1 >= page.Pages {
		return page
	}
	start := (q.Page - 1) * q.Limit
	end := min(start+q.Limit, total)
	for _, r := range matched[start:end] {
		page.Data = append(page.Data, r.item)
	}
	return page
}

// Filter runs Apply without pagination and returns every matching row, for exports.
func Filter[T any](items []T, q Query, fields Fields[T]) []T {
	q.Page = 1
	q.Limit = max(len(items), 1)
	return Apply(items, q, fields).Data
}

func matchesFilters[T any](item T, values map[string]string, filters map[string]func(T, string) bool) bool {
	for key, value := range values {
		fn, ok := filters[key]
		if !ok {
			continue
		}
		if !fn(item, value) {
			return false
		}
	}
	return true
}

// bestRank returns the lowest fuzzy distance across texts, or -1 when none match.
func bestRank(needle string, texts []string) int {
	best := -1
	for _, text := range texts {
		if text == "" {
			continue
		}
		r := fuzzy.RankMatchNormalizedFold(needle, text)
		if r >= 0 && (best < 0 || r < best) {
			best = r
		}
	}
	return best
}

func dateRange(q Query) (time.Time, time.Time, bool) {
	var from, to time.Time
	if q.Desde != "" {
		if d, err := time.Parse(dateLayout, q.Desde); err == nil {
			from = d
		}
	}
	if q.Hasta != "" {
		if d, err := time.Parse(dateLayout, q.Hasta); err == nil {
			to = d.AddDate(0, 0, 1)
		}
	}
	return from, to, !from.IsZero() || !to.IsZero()
}
