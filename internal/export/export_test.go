package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/erazemk/najdeno/internal/model"
)

func readSheet(t *testing.T, buf *bytes.Buffer, sheet string) [][]string {
	t.Helper()

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", sheet, err)
	}
	return rows
}

func TestItems(t *testing.T) {
	created := time.Date(2024, time.July, 5, 10, 0, 0, 0, time.UTC)
	items := []model.Item{
		{ID: 2, Title: "Blue Jacket", Type: "lost", Status: "active", City: "Chicago", CreatedAt: created},
		{ID: 1, Title: "Black Umbrella", Type: "found", Status: "resolved", City: "Evanston", CreatedAt: created, UpdatedAt: &created},
	}

	var buf bytes.Buffer
	if err := Items(&buf, items); err != nil {
		t.Fatalf("Items: %v", err)
	}

	rows := readSheet(t, &buf, ItemsSheet)
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "Title" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "2" || rows[1][1] != "Blue Jacket" || rows[1][7] != "Chicago" {
		t.Errorf("unexpected first row %v", rows[1])
	}
	if rows[2][12] != "2024-07-05T10:00:00Z" {
		t.Errorf("expected updated_at in last column, got %v", rows[2])
	}
}

func TestReportsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Reports(&buf, nil); err != nil {
		t.Fatalf("Reports: %v", err)
	}

	rows := readSheet(t, &buf, ReportsSheet)
	if len(rows) != 1 {
		t.Fatalf("expected only the header, got %d rows", len(rows))
	}
	if rows[0][8] != "Submitted At" {
		t.Errorf("unexpected header %v", rows[0])
	}
}
