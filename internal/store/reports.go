package store

import (
	"context"
	"fmt"

	"github.com/erazemk/najdeno/internal/model"
)

const reportColumns = `id, title, type, address, city, zip_code, description, email, submitted_at`

// CreateReport records a new report.
func (s *SQL) CreateReport(ctx context.Context, r *model.Report) (*model.Report, error) {
	created := *r
	created.SubmittedAt = s.stamp()
	err := s.db.QueryRowContext(ctx,
		s.q(`INSERT INTO reports (title, type, address, city, zip_code, description, email, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		created.Title, created.Type, created.Address, created.City, created.ZipCode,
		created.Description, created.Email, created.SubmittedAt,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}
	return &created, nil
}

// ListReports returns all reports, newest first.
func (s *SQL) ListReports(ctx context.Context) ([]model.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports ORDER BY submitted_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var r model.Report
		if err := rows.Scan(&r.ID, &r.Title, &r.Type, &r.Address, &r.City, &r.ZipCode,
			&r.Description, &r.Email, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
