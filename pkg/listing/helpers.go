package listing

import (
	"cmp"
	"strconv"
	"strings"
	"time"
)

// Equal matches a string field case-insensitively.
func Equal[T any](get func(T) string) func(T, string) bool {
	return func(item T, value string) bool {
		return strings.EqualFold(strings.TrimSpace(get(item)), value)
	}
}

// Bool matches a boolean field against "true"/"false"/"1"/"0".
func Bool[T any](get func(T) bool) func(T, string) bool {
	return func(item T, value string) bool {
		want, err := strconv.ParseBool(value)
		if err != nil {
			return false
		}
		return get(item) == want
	}
}

func ByString[T any](get func(T) string) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(strings.ToLower(get(a)), strings.ToLower(get(b)))
	}
}

func ByNumber[T any, N cmp.Ordered](get func(T) N) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(get(a), get(b))
	}
}

func ByTime[T any](get func(T) time.Time) func(a, b T) int {
	return func(a, b T) int {
		return get(a).Compare(get(b))
	}
}

// ParseDate accepts the date formats the ERP backends emit and returns the zero
// time for anything else.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
