package query

import (
	"testing"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

var fixture = []model.Item{
	{ID: 3, Title: "Black Umbrella", Type: "found", Location: "123 Main St, Evanston 60208", Description: "Near the library", City: "Evanston"},
	{ID: 2, Title: "Wallet", Type: "lost", Location: "Union Station", Description: "Brown LEATHER", City: "Chicago"},
	{ID: 1, Title: "Keys", Type: "lost", Location: "Gym", Description: "three keys on a ring", City: ""},
}

func ids(items []model.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterType(t *testing.T) {
	tests := []struct {
		typ  string
		want []int64
	}{
		{"lost", []int64{2, 1}},
		{"found", []int64{3}},
		{"", []int64{3, 2, 1}},
		{"stolen", []int64{3, 2, 1}},
		{"LOST", []int64{3, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			if got := ids(FilterType(fixture, tt.typ)); !equalIDs(got, tt.want) {
				t.Errorf("FilterType(%q) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		q    string
		want []int64
	}{
		{"umbrella", []int64{3}},
		{"EVANSTON", []int64{3}},
		{"leather", []int64{2}},
		{"station", []int64{2}},
		{"e", []int64{3, 2, 1}},
		{"", []int64{3, 2, 1}},
		{"bicycle", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			if got := ids(Search(fixture, tt.q)); !equalIDs(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}
}

func TestTypeAndSearchCompose(t *testing.T) {
	got := ids(Search(FilterType(fixture, "lost"), "e"))
	if !equalIDs(got, []int64{2, 1}) {
		t.Errorf("expected lost items matching 'e', got %v", got)
	}
	got = ids(Search(FilterType(fixture, "found"), "wallet"))
	if len(got) != 0 {
		t.Errorf("expected no found wallets, got %v", got)
	}
}

func TestCountByCity(t *testing.T) {
	got := CountByCity(fixture)
	if got["Evanston"] != 1 || got["Chicago"] != 1 || got[""] != 1 {
		t.Errorf("unexpected counts: %v", got)
	}
	if len(CountByCity(nil)) != 0 {
		t.Error("expected empty map for no items")
	}
}

func TestCountSince(t *testing.T) {
	now := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	items := []model.Item{
		{ID: 1, CreatedAt: now.AddDate(0, 0, -1)},
		{ID: 2, CreatedAt: now.AddDate(0, 0, -30)},
		{ID: 3, CreatedAt: now.AddDate(0, 0, -31)},
	}
	since := now.AddDate(0, 0, -30)
	if got := CountSince(items, since); got != 2 {
		t.Errorf("expected 2 items in window, got %d", got)
	}
	if got := ids(Since(items, since)); !equalIDs(got, []int64{1, 2}) {
		t.Errorf("unexpected items in window: %v", got)
	}
}

func TestMostRecent(t *testing.T) {
	if MostRecent(nil) != nil {
		t.Error("expected nil for no items")
	}

	at := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	items := []model.Item{
		{ID: 1, CreatedAt: at},
		{ID: 4, CreatedAt: at.Add(time.Hour)},
		{ID: 5, CreatedAt: at.Add(time.Hour)},
		{ID: 2, CreatedAt: at.Add(-time.Hour)},
	}
	got := MostRecent(items)
	if got == nil || got.ID != 5 {
		t.Errorf("expected item 5, got %+v", got)
	}
}
