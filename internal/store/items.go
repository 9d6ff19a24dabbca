package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/najdeno/internal/model"
)

const itemColumns = `id, title, description, type, location, address, city, zip_code, email, date, status, image_mime, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*model.Item, error) {
	it := &model.Item{}
	var imageMime sql.NullString
	err := row.Scan(&it.ID, &it.Title, &it.Description, &it.Type, &it.Location,
		&it.Address, &it.City, &it.ZipCode, &it.Email, &it.Date, &it.Status,
		&imageMime, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	it.ImageMime = imageMime.String
	return it, nil
}

// CreateItem creates a new item, deriving location and date when absent.
func (s *SQL) CreateItem(ctx context.Context, it *model.Item) (*model.Item, error) {
	created := prepareItem(*it, s.stamp())
	err := s.db.QueryRowContext(ctx,
		s.q(`INSERT INTO items (title, description, type, location, address, city, zip_code, email, date, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		created.Title, created.Description, created.Type, created.Location, created.Address,
		created.City, created.ZipCode, created.Email, created.Date, created.Status, created.CreatedAt,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return &created, nil
}

// GetItem returns an item by ID.
func (s *SQL) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	it, err := scanItem(s.db.QueryRowContext(ctx,
		s.q(`SELECT `+itemColumns+` FROM items WHERE id = ?`), id,
	))
	if err == sql.ErrNoRows {
		return nil, &model.NotFoundError{Entity: "item"}
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return it, nil
}

// ListItems returns items matching the filter, newest first.
func (s *SQL) ListItems(ctx context.Context, f ItemFilter) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var where []string
	var args []any
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// UpdateItem applies the supplied fields in a single statement, so
// concurrent updates to the same item never lose each other's writes.
// SET expressions see the pre-update row, which lets a changed address,
// city or zip code rebuild the location from the columns left untouched.
// A blank date is rebuilt from created_at in a second statement of the same
// transaction.
func (s *SQL) UpdateItem(ctx context.Context, id int64, p model.ItemPatch) (*model.Item, error) {
	if !p.RederivesDate() {
		return s.updateItem(ctx, s.db, id, p)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	p.Date = nil
	it, err := s.updateItem(ctx, tx, id, p)
	if err != nil {
		return nil, err
	}
	it.Date = it.CreatedAt.UTC().Format(model.DateLayout)
	if _, err := tx.ExecContext(ctx, s.q(`UPDATE items SET date = ? WHERE id = ?`), it.Date, id); err != nil {
		return nil, fmt.Errorf("resetting item date: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item update: %w", err)
	}
	return it, nil
}

// queryer is the part of *sql.DB and *sql.Tx updateItem needs.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQL) updateItem(ctx context.Context, q queryer, id int64, p model.ItemPatch) (*model.Item, error) {
	var sets []string
	var args []any
	add := func(column string, v *string) {
		if v != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *v)
		}
	}
	add("title", p.Title)
	add("description", p.Description)
	add("type", p.Type)
	add("address", p.Address)
	add("city", p.City)
	add("zip_code", p.ZipCode)
	add("email", p.Email)
	add("date", p.Date)
	add("status", p.Status)
	if p.RederivesLocation() {
		sets = append(sets, "location = COALESCE(?, address) || ', ' || COALESCE(?, city) || ' ' || COALESCE(?, zip_code)")
		args = append(args, nullable(p.Address), nullable(p.City), nullable(p.ZipCode))
	} else {
		add("location", p.Location)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.stamp(), id)

	it, err := scanItem(q.QueryRowContext(ctx,
		s.q(`UPDATE items SET `+strings.Join(sets, ", ")+` WHERE id = ? RETURNING `+itemColumns),
		args...,
	))
	if err == sql.ErrNoRows {
		return nil, &model.NotFoundError{Entity: "item"}
	}
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return it, nil
}

// DeleteItem permanently removes an item and returns it.
func (s *SQL) DeleteItem(ctx context.Context, id int64) (*model.Item, error) {
	it, err := scanItem(s.db.QueryRowContext(ctx,
		s.q(`DELETE FROM items WHERE id = ? RETURNING `+itemColumns), id,
	))
	if err == sql.ErrNoRows {
		return nil, &model.NotFoundError{Entity: "item"}
	}
	if err != nil {
		return nil, fmt.Errorf("deleting item: %w", err)
	}
	return it, nil
}

// SetItemImage sets an item's image data.
func (s *SQL) SetItemImage(ctx context.Context, id int64, image []byte, mime string) error {
	result, err := s.db.ExecContext(ctx,
		s.q(`UPDATE items SET image = ?, image_mime = ?, updated_at = ? WHERE id = ?`),
		image, mime, s.stamp(), id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	if n == 0 {
		return &model.NotFoundError{Entity: "item"}
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type. An item without
// an image yields nil data and no error.
func (s *SQL) GetItemImage(ctx context.Context, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := s.db.QueryRowContext(ctx,
		s.q(`SELECT image, image_mime FROM items WHERE id = ?`), id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", &model.NotFoundError{Entity: "item"}
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
