package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"github.com/xuri/excelize/v2"
)

func seedExportData(t *testing.T) (*ExportService, *fakeRecordStore) {
	t.Helper()
	records := newFakeRecordStore()
	users := newFakeUserStore()
	catalog := newFakeCatalogStore()

	users.Create(context.Background(), &entity.User{
		Username: "jlopez", FullName: "Juana Lopez", Role: entity.RoleInspector,
	})
	catalog.Create(context.Background(), entity.CatalogPartNumber, &entity.CatalogEntry{
		ItemNumber: "PN-100", ItemName: "Main Board",
	})

	partID := 1
	danglingID := 999
	records.Create(context.Background(), &entity.DMTRecord{
		ReportNumber:        "DMT-20260831-0001",
		CreatedByID:         1,
		CreatedAt:           time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
		PartNumberID:        &partID,
		WorkCenterID:        &danglingID,
		DefectDescriptionEN: "bent pin",
		AnalysisZH:          "引脚弯曲",
	})

	return NewExportService(records, users, catalog), records
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("Expected UTF-8 BOM prefix")
	}
	rows, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	return rows
}

func TestExportCSVHeaderAndLabels(t *testing.T) {
	svc, _ := seedExportData(t)

	data, err := svc.ExportCSV(context.Background(), ExportFilter{}, entity.LangEN)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	rows := parseCSV(t, data)
	if len(rows) != 2 {
		t.Fatalf("Expected header + 1 row, got %d rows", len(rows))
	}
	if len(rows[0]) != 34 {
		t.Errorf("Expected 34 columns, got %d", len(rows[0]))
	}
	if rows[0][1] != "Report Number" || rows[0][33] != "SDR Number" {
		t.Errorf("Unexpected header layout: %v", rows[0])
	}

	row := rows[1]
	if row[1] != "DMT-20260831-0001" {
		t.Errorf("Expected report number, got %q", row[1])
	}
	if row[3] != "jlopez - Juana Lopez" {
		t.Errorf("Expected user label, got %q", row[3])
	}
	if row[4] != "No" {
		t.Errorf("Expected Is Closed No, got %q", row[4])
	}
	if row[5] != "PN-100 - Main Board" {
		t.Errorf("Expected part number label, got %q", row[5])
	}
	// Dangling work center reference resolves to empty
	if row[6] != "" {
		t.Errorf("Expected empty label for dangling reference, got %q", row[6])
	}
}

func TestExportCSVLanguageFallback(t *testing.T) {
	svc, _ := seedExportData(t)
	ctx := context.Background()

	// Spanish requested, es column empty: falls back to English
	data, err := svc.ExportCSV(ctx, ExportFilter{}, entity.LangES)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	rows := parseCSV(t, data)
	if rows[1][17] != "bent pin" {
		t.Errorf("Expected English fallback for defect description, got %q", rows[1][17])
	}

	// Chinese requested and zh column populated
	data, err = svc.ExportCSV(ctx, ExportFilter{}, entity.LangZH)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	rows = parseCSV(t, data)
	if rows[1][19] != "引脚弯曲" {
		t.Errorf("Expected Chinese analysis, got %q", rows[1][19])
	}
}

func TestExportFilterPassthrough(t *testing.T) {
	svc, records := seedExportData(t)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	_, err := svc.ExportCSV(context.Background(), ExportFilter{StartDate: &start, EndDate: &end}, entity.LangEN)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	f := records.lastFilter
	if f.CreatedAfter == nil || !f.CreatedAfter.Equal(start) {
		t.Errorf("Expected start date forwarded as created_after, got %v", f.CreatedAfter)
	}
	if f.CreatedBefore == nil || !f.CreatedBefore.Equal(end) {
		t.Errorf("Expected end date forwarded as created_before, got %v", f.CreatedBefore)
	}
	if f.Limit != 0 {
		t.Errorf("Expected unpaginated export, got limit %d", f.Limit)
	}
}

func TestExportXLSX(t *testing.T) {
	svc, _ := seedExportData(t)

	data, err := svc.ExportXLSX(context.Background(), ExportFilter{}, entity.LangEN)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	x, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to open workbook: %v", err)
	}
	defer x.Close()

	rows, err := x.GetRows("DMT Records")
	if err != nil {
		t.Fatalf("Failed to read sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header + 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "ID" || rows[1][1] != "DMT-20260831-0001" {
		t.Errorf("Unexpected sheet content: %v", rows[1])
	}
}
