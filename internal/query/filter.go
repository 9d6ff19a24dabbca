// Package query filters, searches and aggregates items. The pure helpers
// work on any slice; Engine composes them over a store.
package query

import (
	"strings"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

// FilterType keeps items of type t. Any t other than "lost" or "found"
// disables the filter and returns items unchanged.
func FilterType(items []model.Item, t string) []model.Item {
	if !model.ValidItemType(t) {
		return items
	}
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Type == t {
			out = append(out, it)
		}
	}
	return out
}

// Search keeps items whose title, location or description contains q,
// ignoring case. An empty q returns items unchanged.
func Search(items []model.Item, q string) []model.Item {
	if q == "" {
		return items
	}
	q = strings.ToLower(q)
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if matches(&it, q) {
			out = append(out, it)
		}
	}
	return out
}

// matches expects q already lower-cased.
func matches(it *model.Item, q string) bool {
	return strings.Contains(strings.ToLower(it.Title), q) ||
		strings.Contains(strings.ToLower(it.Location), q) ||
		strings.Contains(strings.ToLower(it.Description), q)
}

// CountByCity counts items per city. Items without a city count under "".
func CountByCity(items []model.Item) map[string]int {
	out := map[string]int{}
	for _, it := range items {
		out[it.City]++
	}
	return out
}

// CountSince counts items created at or after since.
func CountSince(items []model.Item, since time.Time) int {
	n := 0
	for _, it := range items {
		if !it.CreatedAt.Before(since) {
			n++
		}
	}
	return n
}

// Since keeps items created at or after since.
func Since(items []model.Item, since time.Time) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if !it.CreatedAt.Before(since) {
			out = append(out, it)
		}
	}
	return out
}

// MostRecent returns the newest item by creation time, preferring the
// higher id on a tie, or nil when items is empty.
func MostRecent(items []model.Item) *model.Item {
	var best *model.Item
	for i := range items {
		it := &items[i]
		if best == nil || it.CreatedAt.After(best.CreatedAt) ||
			(it.CreatedAt.Equal(best.CreatedAt) && it.ID > best.ID) {
			best = it
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}
