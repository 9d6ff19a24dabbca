// Package export writes items and reports as XLSX spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/najdeno/internal/model"
)

// ContentType is the MIME type of the written workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names.
const (
	ItemsSheet   = "Items"
	ReportsSheet = "Reports"
)

var itemHeader = []any{"ID", "Title", "Description", "Type", "Status", "Location", "Address", "City", "Zip Code", "Email", "Date", "Created At", "Updated At"}

var reportHeader = []any{"ID", "Title", "Type", "Address", "City", "Zip Code", "Description", "Email", "Submitted At"}

// Items writes items to w as a one-sheet workbook.
func Items(w io.Writer, items []model.Item) error {
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		updated := ""
		if it.UpdatedAt != nil {
			updated = it.UpdatedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []any{
			it.ID, it.Title, it.Description, it.Type, it.Status, it.Location,
			it.Address, it.City, it.ZipCode, it.Email, it.Date,
			it.CreatedAt.UTC().Format(time.RFC3339), updated,
		})
	}
	return write(w, ItemsSheet, itemHeader, rows)
}

// Reports writes reports to w as a one-sheet workbook.
func Reports(w io.Writer, reports []model.Report) error {
	rows := make([][]any, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []any{
			r.ID, r.Title, r.Type, r.Address, r.City, r.ZipCode, r.Description, r.Email,
			r.SubmittedAt.UTC().Format(time.RFC3339),
		})
	}
	return write(w, ReportsSheet, reportHeader, rows)
}

func write(w io.Writer, sheet string, header []any, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
