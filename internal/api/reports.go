package api

import (
	"bytes"
	"net/http"

	"github.com/erazemk/najdeno/internal/export"
	"github.com/erazemk/najdeno/internal/service"
)

// CreateReport handles POST /api/reports.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) error {
	var req service.CreateReportRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	report, err := h.svc.CreateReport(r.Context(), req)
	if err != nil {
		return err
	}
	respond(w, http.StatusCreated, report, "report submitted")
	return nil
}

// ListReports handles GET /api/reports.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) error {
	reports, err := h.svc.ListReports(r.Context())
	if err != nil {
		return err
	}
	respond(w, http.StatusOK, reports, "")
	return nil
}

// ExportReports handles GET /api/reports/export.
func (h *Handler) ExportReports(w http.ResponseWriter, r *http.Request) error {
	reports, err := h.svc.ListReports(r.Context())
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.Reports(&buf, reports); err != nil {
		return err
	}
	writeSpreadsheet(w, "reports.xlsx", &buf)
	return nil
}
