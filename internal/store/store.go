// Package store holds users, items and reports behind one interface with
// interchangeable backends: an in-process Memory store and a SQL store that
// speaks SQLite or PostgreSQL.
package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

// Store is the persistence contract every backend satisfies. Missing ids
// yield *model.NotFoundError; duplicate usernames or emails yield
// *model.ConflictError. Writes are visible to the next read.
type Store interface {
	CreateUser(ctx context.Context, u *model.User) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	CreateItem(ctx context.Context, it *model.Item) (*model.Item, error)
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	ListItems(ctx context.Context, f ItemFilter) ([]model.Item, error)
	UpdateItem(ctx context.Context, id int64, p model.ItemPatch) (*model.Item, error)
	DeleteItem(ctx context.Context, id int64) (*model.Item, error)
	SetItemImage(ctx context.Context, id int64, data []byte, mime string) error
	GetItemImage(ctx context.Context, id int64) ([]byte, string, error)

	CreateReport(ctx context.Context, r *model.Report) (*model.Report, error)
	ListReports(ctx context.Context) ([]model.Report, error)

	JWTSecret(ctx context.Context) (string, error)
	RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

// ItemFilter narrows ListItems by equality. Empty fields match everything.
type ItemFilter struct {
	Type   string
	Status string
}

func (f ItemFilter) match(it *model.Item) bool {
	if f.Type != "" && it.Type != f.Type {
		return false
	}
	if f.Status != "" && it.Status != f.Status {
		return false
	}
	return true
}

// Option configures a backend.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces the time source used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// prepareItem fills in the fields a new item gets at creation.
func prepareItem(it model.Item, now time.Time) model.Item {
	it.ID = 0
	it.CreatedAt = now
	it.UpdatedAt = nil
	if it.Status == "" {
		it.Status = model.ItemStatusActive
	}
	if strings.TrimSpace(it.Location) == "" {
		it.Location = model.DeriveLocation(it.Address, it.City, it.ZipCode)
	}
	if strings.TrimSpace(it.Date) == "" {
		it.Date = now.Format(model.DateLayout)
	}
	it.ImageMime = ""
	return it
}

// sortNewestFirst orders items by creation time, newest first, breaking
// ties by descending id.
func sortNewestFirst(items []model.Item) {
	slices.SortStableFunc(items, func(a, b model.Item) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
