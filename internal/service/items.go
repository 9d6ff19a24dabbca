package service

import (
	"context"
	"io"

	"go.opentelemetry.io/otel/attribute"

	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/metrics"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
	"github.com/erazemk/najdeno/internal/validate"
)

// ListItems returns items newest first. An invalid typ is ignored and an
// empty search matches everything.
func (s *Service) ListItems(ctx context.Context, typ, search string) (items []model.Item, err error) {
	ctx, span := start(ctx, "ListItems")
	defer func() { end(span, err) }()
	span.SetAttributes(attribute.String("item.type", typ))

	return s.engine.List(ctx, typ, search)
}

// SearchItems returns items matching q. An empty q matches nothing.
func (s *Service) SearchItems(ctx context.Context, q, typ string) (items []model.Item, err error) {
	ctx, span := start(ctx, "SearchItems")
	defer func() { end(span, err) }()
	span.SetAttributes(attribute.String("item.type", typ))

	return s.engine.Search(ctx, q, typ)
}

// AllItems returns every item newest first.
func (s *Service) AllItems(ctx context.Context) ([]model.Item, error) {
	return s.store.ListItems(ctx, store.ItemFilter{})
}

// GetItem returns an item by ID.
func (s *Service) GetItem(ctx context.Context, id int64) (it *model.Item, err error) {
	ctx, span := start(ctx, "GetItem")
	defer func() { end(span, err) }()
	span.SetAttributes(attribute.Int64("item.id", id))

	return s.store.GetItem(ctx, id)
}

// CreateItem validates req and stores a new item.
func (s *Service) CreateItem(ctx context.Context, req CreateItemRequest) (it *model.Item, err error) {
	ctx, span := start(ctx, "CreateItem")
	defer func() { end(span, err) }()

	req.normalize()
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	it, err = s.store.CreateItem(ctx, &model.Item{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Location:    req.Location,
		Address:     req.Address,
		City:        req.City,
		ZipCode:     req.ZipCode,
		Email:       req.Email,
		Date:        req.Date,
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("item.id", it.ID))
	metrics.ObserveItemEvent("created")
	return it, nil
}

// UpdateItem validates the supplied fields and applies them.
func (s *Service) UpdateItem(ctx context.Context, id int64, p model.ItemPatch) (it *model.Item, err error) {
	ctx, span := start(ctx, "UpdateItem")
	defer func() { end(span, err) }()
	span.SetAttributes(attribute.Int64("item.id", id))

	p.Trim()
	if err := validate.Patch(p); err != nil {
		return nil, err
	}

	it, err = s.store.UpdateItem(ctx, id, p)
	if err != nil {
		return nil, err
	}
	metrics.ObserveItemEvent("updated")
	if p.Status != nil && *p.Status == model.ItemStatusResolved {
		metrics.ObserveItemEvent("resolved")
	}
	return it, nil
}

// DeleteItem removes an item and returns it.
func (s *Service) DeleteItem(ctx context.Context, id int64) (it *model.Item, err error) {
	ctx, span := start(ctx, "DeleteItem")
	defer func() { end(span, err) }()
	span.SetAttributes(attribute.Int64("item.id", id))

	it, err = s.store.DeleteItem(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics.ObserveItemEvent("deleted")
	return it, nil
}

// SetItemImage processes an uploaded photo and attaches it to an item.
func (s *Service) SetItemImage(ctx context.Context, id int64, r io.Reader) (it *model.Item, err error) {
	ctx, span := start(ctx, "SetItemImage")
	defer func() { end(span, err) }()
	span.SetAttributes(attribute.Int64("item.id", id))

	photo, err := imaging.Process(r)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetItemImage(ctx, id, photo.Data, photo.MIME); err != nil {
		return nil, err
	}
	metrics.ObserveItemEvent("image_set")
	return s.store.GetItem(ctx, id)
}

// ItemImage returns an item's photo. An item without one is reported as a
// missing image.
func (s *Service) ItemImage(ctx context.Context, id int64) ([]byte, string, error) {
	data, mime, err := s.store.GetItemImage(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if data == nil {
		return nil, "", &model.NotFoundError{Entity: "image"}
	}
	return data, mime, nil
}

// Stats returns aggregate counts over all items.
func (s *Service) Stats(ctx context.Context) (st *model.Stats, err error) {
	ctx, span := start(ctx, "Stats")
	defer func() { end(span, err) }()

	return s.engine.Stats(ctx)
}

// ItemsByCity counts items per city.
func (s *Service) ItemsByCity(ctx context.Context) (map[string]int, error) {
	return s.engine.ByCity(ctx)
}

// RecentItems returns items created within the last days days.
func (s *Service) RecentItems(ctx context.Context, days int) ([]model.Item, error) {
	return s.engine.Recent(ctx, days)
}
