package service

import "strings"

// CreateItemRequest is the payload for reporting a lost or found item.
// Clients may send the zip code as either "zip_code" or "zipCode". The max
// lengths mirror the validate.Max* column widths.
type CreateItemRequest struct {
	Title       string `json:"title" validate:"present,max=200"`
	Description string `json:"description" validate:"present"`
	Type        string `json:"type" validate:"present,oneof=lost found"`
	Location    string `json:"location" validate:"max=500"`
	Address     string `json:"address" validate:"present,max=255"`
	City        string `json:"city" validate:"present,max=100"`
	ZipCode     string `json:"zip_code" validate:"present,max=10"`
	ZipCodeAlt  string `json:"zipCode" validate:"-"`
	Email       string `json:"email" validate:"present,email_shape,max=100"`
	Date        string `json:"date" validate:"max=50"`
}

func (r *CreateItemRequest) normalize() {
	trim(&r.Title, &r.Description, &r.Type, &r.Location, &r.Address, &r.City, &r.ZipCode, &r.ZipCodeAlt, &r.Email, &r.Date)
	if r.ZipCode == "" {
		r.ZipCode = r.ZipCodeAlt
	}
}

// CreateUserRequest is the payload for registering a user.
type CreateUserRequest struct {
	Username string `json:"username" validate:"present,max=50"`
	Password string `json:"password" validate:"present,max=72"`
	Email    string `json:"email" validate:"present,email_shape,max=100"`
}

func (r *CreateUserRequest) normalize() {
	trim(&r.Username, &r.Email)
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Username string `json:"username" validate:"present"`
	Password string `json:"password" validate:"present"`
}

func (r *LoginRequest) normalize() {
	trim(&r.Username)
}

// CreateReportRequest is the payload for submitting a report.
type CreateReportRequest struct {
	Title       string `json:"title" validate:"present,max=200"`
	Type        string `json:"type" validate:"present,oneof=lost found"`
	Address     string `json:"address" validate:"present,max=255"`
	City        string `json:"city" validate:"present,max=100"`
	ZipCode     string `json:"zip_code" validate:"present,max=10"`
	ZipCodeAlt  string `json:"zipCode" validate:"-"`
	Description string `json:"description" validate:"present"`
	Email       string `json:"email" validate:"present,email_shape,max=100"`
}

func (r *CreateReportRequest) normalize() {
	trim(&r.Title, &r.Type, &r.Address, &r.City, &r.ZipCode, &r.ZipCodeAlt, &r.Description, &r.Email)
	if r.ZipCode == "" {
		r.ZipCode = r.ZipCodeAlt
	}
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
