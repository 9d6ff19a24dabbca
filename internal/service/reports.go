package service

import (
	"context"

	"github.com/erazemk/najdeno/internal/metrics"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/validate"
)

// CreateReport validates req and records a report.
func (s *Service) CreateReport(ctx context.Context, req CreateReportRequest) (r *model.Report, err error) {
	ctx, span := start(ctx, "CreateReport")
	defer func() { end(span, err) }()

	req.normalize()
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	r, err = s.store.CreateReport(ctx, &model.Report{
		Title:       req.Title,
		Type:        req.Type,
		Address:     req.Address,
		City:        req.City,
		ZipCode:     req.ZipCode,
		Description: req.Description,
		Email:       req.Email,
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveReport()
	return r, nil
}

// ListReports returns all reports, newest first.
func (s *Service) ListReports(ctx context.Context) (reports []model.Report, err error) {
	ctx, span := start(ctx, "ListReports")
	defer func() { end(span, err) }()

	reports, err = s.store.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []model.Report{}
	}
	return reports, nil
}
