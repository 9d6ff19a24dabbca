package model

import (
	"fmt"
	"strings"
	"time"
)

// Item is a lost-or-found listing.
type Item struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Location    string     `json:"location"`
	Address     string     `json:"address,omitempty"`
	City        string     `json:"city,omitempty"`
	ZipCode     string     `json:"zip_code,omitempty"`
	Email       string     `json:"email"`
	Date        string     `json:"date"`
	Status      string     `json:"status"`
	ImageMime   string     `json:"image_mime,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Item types.
const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

// Item statuses. Status is a free-form label; these are the ones the
// service itself assigns or reports on.
const (
	ItemStatusActive   = "active"
	ItemStatusResolved = "resolved"
)

// DateLayout formats an item's display date from its creation time ("July 05").
const DateLayout = "January 02"

// ValidItemType reports whether t is one of the two item types.
func ValidItemType(t string) bool {
	return t == ItemTypeLost || t == ItemTypeFound
}

// DeriveLocation builds the free-text location from its structured parts.
func DeriveLocation(address, city, zipCode string) string {
	return fmt.Sprintf("%s, %s %s", address, city, zipCode)
}

// ItemPatch holds the fields of a partial item update. Nil fields are left
// unchanged.
type ItemPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Location    *string `json:"location"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	ZipCode     *string `json:"zip_code"`
	Email       *string `json:"email"`
	Date        *string `json:"date"`
	Status      *string `json:"status"`
}

// RederivesLocation reports whether applying the patch recomputes the
// location from address, city and zip code. A blank location asks for the
// derived one, as it does on create.
func (p ItemPatch) RederivesLocation() bool {
	if p.Location != nil {
		return blank(*p.Location)
	}
	return p.Address != nil || p.City != nil || p.ZipCode != nil
}

// RederivesDate reports whether the patch resets the date to the one
// derived from the item's creation time.
func (p ItemPatch) RederivesDate() bool {
	return p.Date != nil && blank(*p.Date)
}

// Trim strips surrounding whitespace from every supplied field.
func (p *ItemPatch) Trim() {
	for _, f := range []*string{p.Title, p.Description, p.Type, p.Location, p.Address, p.City, p.ZipCode, p.Email, p.Date, p.Status} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

// Apply copies the supplied fields onto it and stamps UpdatedAt.
func (p ItemPatch) Apply(it *Item, now time.Time) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&it.Title, p.Title)
	set(&it.Description, p.Description)
	set(&it.Type, p.Type)
	set(&it.Address, p.Address)
	set(&it.City, p.City)
	set(&it.ZipCode, p.ZipCode)
	set(&it.Email, p.Email)
	set(&it.Status, p.Status)
	if p.RederivesDate() {
		it.Date = it.CreatedAt.UTC().Format(DateLayout)
	} else {
		set(&it.Date, p.Date)
	}
	if p.RederivesLocation() {
		it.Location = DeriveLocation(it.Address, it.City, it.ZipCode)
	} else {
		set(&it.Location, p.Location)
	}
	it.UpdatedAt = &now
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
