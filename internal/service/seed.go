package service

import (
	"context"
	"fmt"
	"log/slog"
)

var seedUsers = []CreateUserRequest{
	{Username: "user", Password: "password", Email: "user@example.com"},
	{Username: "admin", Password: "admin123", Email: "admin@example.com"},
	{Username: "jiani", Password: "student123", Email: "jianiwang2024@u.northwestern.edu"},
}

var seedItems = []CreateItemRequest{
	{
		Title:       "Black Umbrella",
		Description: "Black umbrella found near entrance",
		Type:        "found",
		Location:    "Pritzker Legal Research Center",
		Address:     "Northwestern University",
		City:        "Evanston",
		ZipCode:     "60208",
		Email:       "finder@example.com",
		Date:        "July 5",
	},
	{
		Title:       "Blue Jacket",
		Description: "Blue denim jacket, size M",
		Type:        "lost",
		Location:    "356-350 E Chicago Ave",
		Address:     "356 E Chicago Ave",
		City:        "Chicago",
		ZipCode:     "60611",
		Email:       "owner@example.com",
		Date:        "July 3",
	},
	{
		Title:       "iPhone 13",
		Description: "Black iPhone 13 with cracked screen protector",
		Type:        "lost",
		Location:    "Kellogg School of Management",
		Address:     "2211 Campus Dr",
		City:        "Evanston",
		ZipCode:     "60208",
		Email:       "student@northwestern.edu",
		Date:        "July 1",
	},
}

var seedReport = CreateReportRequest{
	Title:       "Lost Wallet",
	Type:        "lost",
	Address:     "Northwestern University",
	City:        "Evanston",
	ZipCode:     "60208",
	Description: "Brown leather wallet with student ID",
	Email:       "report@northwestern.edu",
}

// Seed loads the sample users, items and report. It does nothing when any
// user already exists and reports whether it wrote anything.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("checking for existing users: %w", err)
	}
	if len(users) > 0 {
		slog.Info("sample data already exists")
		return false, nil
	}

	for _, u := range seedUsers {
		if _, err := s.CreateUser(ctx, u); err != nil {
			return false, fmt.Errorf("seeding user %s: %w", u.Username, err)
		}
	}
	for _, it := range seedItems {
		if _, err := s.CreateItem(ctx, it); err != nil {
			return false, fmt.Errorf("seeding item %q: %w", it.Title, err)
		}
	}
	if _, err := s.CreateReport(ctx, seedReport); err != nil {
		return false, fmt.Errorf("seeding report: %w", err)
	}

	slog.Info("sample data initialized",
		"users", len(seedUsers), "items", len(seedItems), "reports", 1)
	return true, nil
}
