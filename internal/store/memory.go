package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

// Memory is a Store held entirely in process memory. Nothing survives a
// restart.
//
// Items sit behind an index lock plus one lock per record: updates take the
// index lock shared and the record lock exclusive, so writes to different
// items do not wait on each other. Creates and deletes take the index lock
// exclusively.
type Memory struct {
	now    func() time.Time
	secret string

	usersMu    sync.RWMutex
	users      []model.User
	nextUserID int64

	itemsMu    sync.RWMutex
	items      map[int64]*itemRecord
	nextItemID int64

	reportsMu    sync.RWMutex
	reports      []model.Report
	nextReportID int64

	tokensMu sync.Mutex
	revoked  map[string]time.Time
}

type itemRecord struct {
	mu    sync.Mutex
	item  model.Item
	image []byte
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...Option) (*Memory, error) {
	o := buildOptions(opts)
	secret, err := newSecret()
	if err != nil {
		return nil, err
	}
	return &Memory{
		now:     o.now,
		secret:  secret,
		items:   map[int64]*itemRecord{},
		revoked: map[string]time.Time{},
	}, nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *Memory) Close() error { return nil }

func (m *Memory) stamp() time.Time {
	return m.now().UTC()
}

// CreateUser creates a new user.
func (m *Memory) CreateUser(_ context.Context, u *model.User) (*model.User, error) {
	m.usersMu.Lock()
	defer m.usersMu.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username {
			return nil, &model.ConflictError{Field: "username"}
		}
		if existing.Email == u.Email {
			return nil, &model.ConflictError{Field: "email"}
		}
	}

	m.nextUserID++
	created := model.User{
		ID:        m.nextUserID,
		Username:  u.Username,
		Password:  u.Password,
		Email:     u.Email,
		CreatedAt: m.stamp(),
	}
	m.users = append(m.users, created)
	return &created, nil
}

// GetUser returns a user by ID.
func (m *Memory) GetUser(_ context.Context, id int64) (*model.User, error) {
	m.usersMu.RLock()
	defer m.usersMu.RUnlock()

	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, &model.NotFoundError{Entity: "user"}
}

// GetUserByUsername returns a user by username.
func (m *Memory) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.usersMu.RLock()
	defer m.usersMu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, &model.NotFoundError{Entity: "user"}
}

// ListUsers returns all users in insertion order.
func (m *Memory) ListUsers(context.Context) ([]model.User, error) {
	m.usersMu.RLock()
	defer m.usersMu.RUnlock()

	return slices.Clone(m.users), nil
}

// CreateItem creates a new item, deriving location and date when absent.
func (m *Memory) CreateItem(_ context.Context, it *model.Item) (*model.Item, error) {
	created := prepareItem(*it, m.stamp())

	m.itemsMu.Lock()
	defer m.itemsMu.Unlock()

	m.nextItemID++
	created.ID = m.nextItemID
	m.items[created.ID] = &itemRecord{item: created}
	return &created, nil
}

// withItem runs fn on the record for id while holding its lock.
func (m *Memory) withItem(id int64, fn func(rec *itemRecord)) error {
	m.itemsMu.RLock()
	defer m.itemsMu.RUnlock()

	rec, ok := m.items[id]
	if !ok {
		return &model.NotFoundError{Entity: "item"}
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	fn(rec)
	return nil
}

// GetItem returns an item by ID.
func (m *Memory) GetItem(_ context.Context, id int64) (*model.Item, error) {
	var it model.Item
	if err := m.withItem(id, func(rec *itemRecord) { it = rec.item }); err != nil {
		return nil, err
	}
	return &it, nil
}

// ListItems returns items matching the filter, newest first.
func (m *Memory) ListItems(_ context.Context, f ItemFilter) ([]model.Item, error) {
	m.itemsMu.RLock()
	var items []model.Item
	for _, rec := range m.items {
		rec.mu.Lock()
		if f.match(&rec.item) {
			items = append(items, rec.item)
		}
		rec.mu.Unlock()
	}
	m.itemsMu.RUnlock()

	sortNewestFirst(items)
	return items, nil
}

// UpdateItem applies the supplied fields to an item.
func (m *Memory) UpdateItem(_ context.Context, id int64, p model.ItemPatch) (*model.Item, error) {
	now := m.stamp()
	var it model.Item
	err := m.withItem(id, func(rec *itemRecord) {
		p.Apply(&rec.item, now)
		it = rec.item
	})
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// DeleteItem permanently removes an item and returns it.
func (m *Memory) DeleteItem(_ context.Context, id int64) (*model.Item, error) {
	m.itemsMu.Lock()
	defer m.itemsMu.Unlock()

	rec, ok := m.items[id]
	if !ok {
		return nil, &model.NotFoundError{Entity: "item"}
	}
	delete(m.items, id)
	it := rec.item
	return &it, nil
}

// SetItemImage sets an item's image data.
func (m *Memory) SetItemImage(_ context.Context, id int64, image []byte, mime string) error {
	now := m.stamp()
	return m.withItem(id, func(rec *itemRecord) {
		rec.image = slices.Clone(image)
		rec.item.ImageMime = mime
		rec.item.UpdatedAt = &now
	})
}

// GetItemImage returns an item's image data and MIME type.
func (m *Memory) GetItemImage(_ context.Context, id int64) ([]byte, string, error) {
	var data []byte
	var mime string
	err := m.withItem(id, func(rec *itemRecord) {
		data = slices.Clone(rec.image)
		mime = rec.item.ImageMime
	})
	if err != nil {
		return nil, "", err
	}
	return data, mime, nil
}

// CreateReport records a new report.
func (m *Memory) CreateReport(_ context.Context, r *model.Report) (*model.Report, error) {
	m.reportsMu.Lock()
	defer m.reportsMu.Unlock()

	m.nextReportID++
	created := *r
	created.ID = m.nextReportID
	created.SubmittedAt = m.stamp()
	m.reports = append(m.reports, created)
	return &created, nil
}

// ListReports returns all reports, newest first.
func (m *Memory) ListReports(context.Context) ([]model.Report, error) {
	m.reportsMu.RLock()
	reports := slices.Clone(m.reports)
	m.reportsMu.RUnlock()

	slices.SortStableFunc(reports, func(a, b model.Report) int {
		if c := b.SubmittedAt.Compare(a.SubmittedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return reports, nil
}

// JWTSecret returns the signing key generated when the store was created.
func (m *Memory) JWTSecret(context.Context) (string, error) {
	return m.secret, nil
}

// RevokeToken adds a token's JTI to the revocation list.
func (m *Memory) RevokeToken(_ context.Context, jti string, expiresAt time.Time) error {
	m.tokensMu.Lock()
	defer m.tokensMu.Unlock()

	now := m.stamp()
	for k, exp := range m.revoked {
		if exp.Before(now) {
			delete(m.revoked, k)
		}
	}
	m.revoked[jti] = expiresAt
	return nil
}

// IsTokenRevoked checks if a token's JTI has been revoked.
func (m *Memory) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	m.tokensMu.Lock()
	defer m.tokensMu.Unlock()

	_, ok := m.revoked[jti]
	return ok, nil
}
