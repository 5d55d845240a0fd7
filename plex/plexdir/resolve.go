package plexdir

import "strings"

// MatchName returns the first record whose name contains query,
// case-insensitively, in collection order.
//
// Known limitation: with overlapping names ("Home" ahead of
// "Home Theater") the first match wins, even when a later name matches
// more precisely. Callers rely on this being deterministic.
func MatchName[T any](records []T, query string, name func(T) string) (T, bool) {
	query = strings.ToLower(query)
	for _, record := range records {
		if strings.Contains(strings.ToLower(name(record)), query) {
			return record, true
		}
	}
	var zero T
	return zero, false
}
