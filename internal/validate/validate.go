// Package validate checks request payloads before they reach the store.
//
// Payload structs declare their rules in `validate` tags:
//
//	present      non-empty after trimming surrounding whitespace
//	email_shape  contains both "@" and "."
//	oneof=...    exact membership (used for item type)
//	max=N        at most N characters, matching the database column
//
// The email rule is deliberately shallow and must stay that way to remain
// compatible with existing clients.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/najdeno/internal/model"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()

	// Report fields by their JSON names.
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	if err := val.RegisterValidation("present", present); err != nil {
		panic(err)
	}
	if err := val.RegisterValidation("email_shape", emailShape); err != nil {
		panic(err)
	}
	return val
}

func present(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return !f.IsZero()
	}
	return strings.TrimSpace(f.String()) != ""
}

func emailShape(fl validator.FieldLevel) bool {
	return EmailShape(fl.Field().String())
}

// EmailShape reports whether s contains both "@" and ".".
func EmailShape(s string) bool {
	return strings.Contains(s, "@") && strings.Contains(s, ".")
}

// Present reports whether s is non-empty after trimming whitespace.
func Present(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Struct validates payload against its tags. It returns nil or the first
// failing field, in declaration order, as a *model.ValidationError.
func Struct(payload any) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating payload: %w", err)
	}
	fe := verrs[0]
	return &model.ValidationError{Field: fe.Field(), Reason: reason(fe.Field(), fe.Tag(), fe.Param())}
}

// Column widths shared by items, reports and users. Every backend enforces
// them here so PostgreSQL's VARCHAR limits never surface as server errors.
const (
	MaxTitle    = 200
	MaxLocation = 500
	MaxAddress  = 255
	MaxCity     = 100
	MaxZipCode  = 10
	MaxEmail    = 100
	MaxDate     = 50
	MaxStatus   = 20
	MaxUsername = 50
)

// Patch validates the supplied fields of an item update with the same
// rules a create applies. Status is free-form but may not be blank. A blank
// location or date is allowed and means "derive it again".
func Patch(p model.ItemPatch) error {
	checks := []struct {
		field    string
		value    *string
		required bool
		max      int
	}{
		{"title", p.Title, true, MaxTitle},
		{"description", p.Description, true, 0},
		{"type", p.Type, true, 0},
		{"location", p.Location, false, MaxLocation},
		{"address", p.Address, true, MaxAddress},
		{"city", p.City, true, MaxCity},
		{"zip_code", p.ZipCode, true, MaxZipCode},
		{"email", p.Email, true, MaxEmail},
		{"date", p.Date, false, MaxDate},
		{"status", p.Status, true, MaxStatus},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if c.required && !Present(*c.value) {
			return &model.ValidationError{Field: c.field, Reason: reason(c.field, "present", "")}
		}
		if c.max > 0 && utf8.RuneCountInString(*c.value) > c.max {
			return &model.ValidationError{Field: c.field, Reason: reason(c.field, "max", strconv.Itoa(c.max))}
		}
	}
	if p.Type != nil && !model.ValidItemType(*p.Type) {
		return &model.ValidationError{Field: "type", Reason: reason("type", "oneof", "")}
	}
	if p.Email != nil && !EmailShape(*p.Email) {
		return &model.ValidationError{Field: "email", Reason: reason("email", "email_shape", "")}
	}
	return nil
}

func reason(field, tag, param string) string {
	switch tag {
	case "present", "required":
		return fmt.Sprintf("missing required field: %s", field)
	case "oneof":
		return fmt.Sprintf("%s must be 'lost' or 'found'", field)
	case "email_shape":
		return "invalid email"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	default:
		return fmt.Sprintf("invalid %s", field)
	}
}
