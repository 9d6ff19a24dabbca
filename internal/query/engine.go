package query

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// DefaultRecentDays is the recency window used when none is given.
const DefaultRecentDays = 30

var recentDaysReason = fmt.Sprintf("days must be an integer between 1 and %d", model.MaxRecentDays)

// Source is the part of the store the engine reads from.
type Source interface {
	ListItems(ctx context.Context, f store.ItemFilter) ([]model.Item, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListReports(ctx context.Context) ([]model.Report, error)
}

// Engine answers listing, search and statistics requests. Every answer is
// computed from the current records; nothing is cached between calls.
type Engine struct {
	src        Source
	now        func() time.Time
	recentDays int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the time source used for recency windows.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRecentDays sets the window Stats reports recent items over.
func WithRecentDays(days int) Option {
	return func(e *Engine) {
		if days > 0 && days <= model.MaxRecentDays {
			e.recentDays = days
		}
	}
}

// New creates an Engine reading from src.
func New(src Source, opts ...Option) *Engine {
	e := &Engine{src: src, now: time.Now, recentDays: DefaultRecentDays}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RecentDays returns the configured recency window.
func (e *Engine) RecentDays() int {
	return e.recentDays
}

// items loads items, narrowed by type when typ is a valid item type.
func (e *Engine) items(ctx context.Context, typ string) ([]model.Item, error) {
	var f store.ItemFilter
	if model.ValidItemType(typ) {
		f.Type = typ
	}
	items, err := e.src.ListItems(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// List returns items newest first, narrowed by type and search. An empty
// search matches everything. The search is used verbatim, so surrounding
// whitespace is part of the substring.
func (e *Engine) List(ctx context.Context, typ, search string) ([]model.Item, error) {
	items, err := e.items(ctx, typ)
	if err != nil {
		return nil, err
	}
	return Search(items, search), nil
}

// Search returns items matching q, narrowed by type. Unlike List, an empty
// q matches nothing. A q of only spaces is still a substring to look for.
func (e *Engine) Search(ctx context.Context, q, typ string) ([]model.Item, error) {
	if q == "" {
		return []model.Item{}, nil
	}
	items, err := e.items(ctx, typ)
	if err != nil {
		return nil, err
	}
	return Search(items, q), nil
}

// ByCity counts all items per city.
func (e *Engine) ByCity(ctx context.Context) (map[string]int, error) {
	items, err := e.items(ctx, "")
	if err != nil {
		return nil, err
	}
	return CountByCity(items), nil
}

// Recent returns the items created within the last days days, newest
// first. A non-positive days uses the configured window; more than
// model.MaxRecentDays is a validation error.
func (e *Engine) Recent(ctx context.Context, days int) ([]model.Item, error) {
	if days <= 0 {
		days = e.recentDays
	}
	if days > model.MaxRecentDays {
		return nil, &model.ValidationError{Field: "days", Reason: recentDaysReason}
	}
	items, err := e.items(ctx, "")
	if err != nil {
		return nil, err
	}
	return Since(items, e.since(days)), nil
}

func (e *Engine) since(days int) time.Time {
	return e.now().AddDate(0, 0, -days)
}

// Stats scans every item, user and report and returns the aggregate view.
func (e *Engine) Stats(ctx context.Context) (*model.Stats, error) {
	items, err := e.items(ctx, "")
	if err != nil {
		return nil, err
	}
	users, err := e.src.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	reports, err := e.src.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	st := &model.Stats{
		TotalItems:   len(items),
		ByType:       map[string]int{model.ItemTypeLost: 0, model.ItemTypeFound: 0},
		ByStatus:     map[string]int{},
		ByCity:       CountByCity(items),
		RecentItems:  CountSince(items, e.since(e.recentDays)),
		RecentDays:   e.recentDays,
		TotalUsers:   len(users),
		TotalReports: len(reports),
		MostRecent:   MostRecent(items),
	}
	for _, it := range items {
		st.ByType[it.Type]++
		st.ByStatus[it.Status]++
	}
	st.LostItems = st.ByType[model.ItemTypeLost]
	st.FoundItems = st.ByType[model.ItemTypeFound]
	st.ActiveItems = st.ByStatus[model.ItemStatusActive]
	st.ResolvedItems = st.ByStatus[model.ItemStatusResolved]
	return st, nil
}
