package rbac

import (
	"testing"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
)

func TestAllowedFieldsInspector(t *testing.T) {
	fields := AllowedFields(entity.RoleInspector)

	for _, f := range []string{"part_number_id", "quantity", "date", "defect_description", "report_number"} {
		if !fields.Contains(f) {
			t.Errorf("Expected Inspector to edit %q", f)
		}
	}
	for _, f := range []string{"analysis", "final_disposition_id", "is_closed", "sdr_number"} {
		if fields.Contains(f) {
			t.Errorf("Expected Inspector to be denied %q", f)
		}
	}
}

func TestAllowedFieldsOperator(t *testing.T) {
	fields := AllowedFields(entity.RoleOperator)

	for _, f := range []string{"process_description", "analysis", "analysis_by_id"} {
		if !fields.Contains(f) {
			t.Errorf("Expected Operator to edit %q", f)
		}
	}
	for _, f := range []string{"part_number_id", "final_disposition_id", "is_closed"} {
		if fields.Contains(f) {
			t.Errorf("Expected Operator to be denied %q", f)
		}
	}
}

func TestAllowedFieldsTechEngineer(t *testing.T) {
	fields := AllowedFields(entity.RoleTechEngineer)

	// Disposition plus the approval fields, but never the close flag
	for _, f := range []string{"analysis", "final_disposition_id", "engineer_id", "failure_code_id", "rework_hours", "disposition_approval_date", "disposition_approved_by_id", "sdr_number"} {
		if !fields.Contains(f) {
			t.Errorf("Expected Tech Engineer to edit %q", f)
		}
	}
	if fields.Contains("is_closed") {
		t.Error("Expected Tech Engineer to be denied is_closed")
	}
	if fields.Contains("part_number_id") {
		t.Error("Expected Tech Engineer to be denied part_number_id")
	}
}

func TestAllowedFieldsQualityEngineer(t *testing.T) {
	fields := AllowedFields(entity.RoleQualityEngineer)

	if !fields.Contains("is_closed") {
		t.Error("Expected Quality Engineer to edit is_closed")
	}
	for _, f := range []string{"part_number_id", "analysis", "final_disposition_id", "disposition_approval_date", "sdr_number"} {
		if fields.Contains(f) {
			t.Errorf("Expected Quality Engineer to be denied %q", f)
		}
	}
}

func TestAllowedFieldsAdmin(t *testing.T) {
	fields := AllowedFields(entity.RoleAdmin)

	for _, f := range []string{"part_number_id", "analysis", "final_disposition_id", "disposition_approval_date", "sdr_number", "is_closed", "report_number"} {
		if !fields.Contains(f) {
			t.Errorf("Expected Admin to edit %q", f)
		}
	}
}

func TestAllowedFieldsUnknownRole(t *testing.T) {
	fields := AllowedFields(entity.Role("Intern"))
	if len(fields) != 0 {
		t.Errorf("Expected empty set for unknown role, got %d fields", len(fields))
	}
}

func TestSectionVisible(t *testing.T) {
	cases := []struct {
		role    entity.Role
		section entity.Section
		want    bool
	}{
		{entity.RoleInspector, entity.SectionGeneral, true},
		{entity.RoleInspector, entity.SectionDefect, true},
		{entity.RoleInspector, entity.SectionAnalysis, false},
		{entity.RoleOperator, entity.SectionAnalysis, true},
		{entity.RoleOperator, entity.SectionGeneral, false},
		{entity.RoleTechEngineer, entity.SectionAnalysis, true},
		{entity.RoleTechEngineer, entity.SectionEngineer, true},
		// Tech Engineer fills the approval fields but the section stays hidden
		{entity.RoleTechEngineer, entity.SectionQuality, false},
		{entity.RoleQualityEngineer, entity.SectionQuality, true},
		{entity.RoleQualityEngineer, entity.SectionGeneral, false},
		{entity.RoleAdmin, entity.SectionGeneral, true},
		{entity.RoleAdmin, entity.SectionQuality, true},
		{entity.Role("Intern"), entity.SectionGeneral, false},
	}

	for _, tc := range cases {
		if got := SectionVisible(tc.role, tc.section); got != tc.want {
			t.Errorf("SectionVisible(%s, %s) = %v, want %v", tc.role, tc.section, got, tc.want)
		}
	}
}
