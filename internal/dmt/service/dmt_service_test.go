package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"github.com/bitfantasy/dmt/internal/dmt/repository"
)

var (
	inspector = entity.Principal{ID: 10, Username: "ins", Role: entity.RoleInspector}
	operator  = entity.Principal{ID: 11, Username: "op", Role: entity.RoleOperator}
	tech      = entity.Principal{ID: 12, Username: "te", Role: entity.RoleTechEngineer}
	quality   = entity.Principal{ID: 13, Username: "qe", Role: entity.RoleQualityEngineer}
	admin     = entity.Principal{ID: 14, Username: "root", Role: entity.RoleAdmin}
)

func validCreateFields() map[string]any {
	return map[string]any{
		"part_number_id":     float64(1),
		"work_center_id":     float64(2),
		"customer_id":        float64(3),
		"prepared_by_id":     float64(4),
		"operation":          "OP-10",
		"quantity":           float64(5),
		"date":               "2026-08-31",
		"inspection_item_id": float64(6),
		"process_code_id":    float64(7),
		"defect_description": "bent pin on connector",
	}
}

func newDMTService() (*DMTService, *fakeRecordStore) {
	store := newFakeRecordStore()
	return NewDMTService(store, &fakeSequence{}), store
}

func TestCreateOnlyInspector(t *testing.T) {
	svc, _ := newDMTService()
	ctx := context.Background()

	for _, p := range []entity.Principal{operator, tech, quality, admin} {
		_, err := svc.Create(ctx, p, validCreateFields(), entity.LangEN)
		if !errors.Is(err, entity.ErrForbidden) {
			t.Errorf("Expected ErrForbidden for role %s, got %v", p.Role, err)
		}
	}
}

func TestCreateAggregatesMissingFields(t *testing.T) {
	svc, _ := newDMTService()

	fields := validCreateFields()
	delete(fields, "part_number_id")
	fields["operation"] = "   "
	fields["quantity"] = nil

	_, err := svc.Create(context.Background(), inspector, fields, entity.LangEN)
	var valErr *entity.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if len(valErr.Fields) != 3 {
		t.Errorf("Expected 3 missing fields in one error, got %v", valErr.Fields)
	}
}

func TestCreateAssignsReportNumber(t *testing.T) {
	svc, store := newDMTService()
	ctx := context.Background()

	first, err := svc.Create(ctx, inspector, validCreateFields(), entity.LangEN)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := svc.Create(ctx, inspector, validCreateFields(), entity.LangEN)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.HasPrefix(first.ReportNumber, "DMT-") || !strings.HasSuffix(first.ReportNumber, "-0001") {
		t.Errorf("Unexpected first report number %q", first.ReportNumber)
	}
	if !strings.HasSuffix(second.ReportNumber, "-0002") {
		t.Errorf("Unexpected second report number %q", second.ReportNumber)
	}
	if first.CreatedByID != inspector.ID {
		t.Errorf("Expected created_by_id %d, got %d", inspector.ID, first.CreatedByID)
	}
	if len(store.records) != 2 {
		t.Errorf("Expected 2 persisted records, got %d", len(store.records))
	}
}

func TestCreateFansOutLanguage(t *testing.T) {
	svc, _ := newDMTService()

	fields := validCreateFields()
	fields["defect_description"] = "pin doblado"

	rec, err := svc.Create(context.Background(), inspector, fields, entity.LangES)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rec.DefectDescriptionES != "pin doblado" {
		t.Errorf("Expected es column set, got %q", rec.DefectDescriptionES)
	}
	if rec.DefectDescriptionEN != "" || rec.DefectDescriptionZH != "" {
		t.Error("Expected other language columns empty")
	}
}

func TestUpdateFlowAcrossRoles(t *testing.T) {
	svc, _ := newDMTService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, inspector, validCreateFields(), entity.LangEN)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Operator adds analysis
	rec, err = svc.Update(ctx, rec.ID, operator, map[string]any{
		"analysis":       "solder bridge between pins",
		"analysis_by_id": float64(operator.ID),
	}, entity.LangEN)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Quality cannot close yet: disposition incomplete
	_, err = svc.Update(ctx, rec.ID, quality, map[string]any{"is_closed": true}, entity.LangEN)
	var gateErr *entity.IncompleteForClosingError
	if !errors.As(err, &gateErr) {
		t.Fatalf("Expected IncompleteForClosingError, got %v", err)
	}

	// Tech Engineer completes disposition and approval
	rec, err = svc.Update(ctx, rec.ID, tech, map[string]any{
		"final_disposition_id":       float64(1),
		"failure_code_id":            float64(2),
		"engineer_id":                float64(tech.ID),
		"disposition_approval_date":  "2026-09-01",
		"disposition_approved_by_id": float64(quality.ID),
	}, entity.LangEN)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Now Quality closes
	rec, err = svc.Update(ctx, rec.ID, quality, map[string]any{"is_closed": true}, entity.LangEN)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !rec.IsClosed {
		t.Fatal("Expected record closed")
	}

	// Closed record rejects everyone, Admin included
	_, err = svc.Update(ctx, rec.ID, admin, map[string]any{"operation": "OP-20"}, entity.LangEN)
	var closedErr *entity.RecordClosedError
	if !errors.As(err, &closedErr) {
		t.Errorf("Expected RecordClosedError, got %v", err)
	}
}

func TestUpdateRejectionLeavesRecordUnchanged(t *testing.T) {
	svc, store := newDMTService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, inspector, validCreateFields(), entity.LangEN)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	_, err = svc.Update(ctx, rec.ID, operator, map[string]any{
		"analysis":  "valid part",
		"is_closed": true,
	}, entity.LangEN)
	var fieldErr *entity.FieldNotAllowedError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("Expected FieldNotAllowedError, got %v", err)
	}

	stored := store.records[rec.ID]
	if stored.AnalysisEN != "" {
		t.Error("Expected no partial write on rejected update")
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newDMTService()
	_, err := svc.Update(context.Background(), 99, inspector, map[string]any{"operation": "x"}, entity.LangEN)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAdminOnly(t *testing.T) {
	svc, _ := newDMTService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, inspector, validCreateFields(), entity.LangEN)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := svc.Delete(ctx, rec.ID, inspector); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("Expected ErrForbidden for Inspector, got %v", err)
	}
	if err := svc.Delete(ctx, rec.ID, admin); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	// Second delete reports not found
	if err := svc.Delete(ctx, rec.ID, admin); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestListDateBoundsInclusiveAndOrdered(t *testing.T) {
	svc, store := newDMTService()
	ctx := context.Background()

	days := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	for _, day := range days {
		store.Create(ctx, &entity.DMTRecord{CreatedByID: inspector.ID, CreatedAt: day})
	}

	// Bounds land exactly on the first two records: both included
	after := days[0]
	before := days[1]
	items, err := svc.List(ctx, repository.ListFilter{CreatedAfter: &after, CreatedBefore: &before})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 records inside inclusive bounds, got %d", len(items))
	}
	if !items[0].CreatedAt.Equal(days[1]) || !items[1].CreatedAt.Equal(days[0]) {
		t.Errorf("Expected created_at DESC ordering, got %v then %v", items[0].CreatedAt, items[1].CreatedAt)
	}

	// Lower bound alone keeps the later two, newest first
	after = days[1]
	items, err = svc.List(ctx, repository.ListFilter{CreatedAfter: &after})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(items) != 2 || !items[0].CreatedAt.Equal(days[2]) {
		t.Errorf("Expected newest-first from 2024-06-15 on, got %v", items)
	}
}

func TestListClampsPagination(t *testing.T) {
	svc, store := newDMTService()
	ctx := context.Background()

	if _, err := svc.List(ctx, repository.ListFilter{Skip: -5}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if store.lastFilter.Skip != 0 || store.lastFilter.Limit != 100 {
		t.Errorf("Expected skip=0 limit=100, got skip=%d limit=%d", store.lastFilter.Skip, store.lastFilter.Limit)
	}

	if _, err := svc.List(ctx, repository.ListFilter{Limit: 5000}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if store.lastFilter.Limit != 1000 {
		t.Errorf("Expected limit clamped to 1000, got %d", store.lastFilter.Limit)
	}
}
