package lifecycle

import (
	"fmt"
	"math"
	"time"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
)

// multilingualFields 逻辑字段名 → 是否按 _en/_es/_zh 三列展开
var multilingualFields = map[string]struct{}{
	"defect_description":  {},
	"process_description": {},
	"analysis":            {},
	"engineering_remarks": {},
	"repair_process":      {},
}

// IsMultilingual 字段是否为多语言字段（按基础名判断）
func IsMultilingual(field string) bool {
	_, ok := multilingualFields[field]
	return ok
}

// ApplyMultilingual 多语言扇出：提交语言对应的列写入新值，
// 另外两列无条件清空。记录的叙述在任一时刻只有一种语言有效。
func ApplyMultilingual(rec *entity.DMTRecord, field, value string, lang entity.Language) {
	en, es, zh := "", "", ""
	switch lang {
	case entity.LangES:
		es = value
	case entity.LangZH:
		zh = value
	default:
		en = value
	}

	switch field {
	case "defect_description":
		rec.DefectDescriptionEN, rec.DefectDescriptionES, rec.DefectDescriptionZH = en, es, zh
	case "process_description":
		rec.ProcessDescriptionEN, rec.ProcessDescriptionES, rec.ProcessDescriptionZH = en, es, zh
	case "analysis":
		rec.AnalysisEN, rec.AnalysisES, rec.AnalysisZH = en, es, zh
	case "engineering_remarks":
		rec.EngineeringRemarksEN, rec.EngineeringRemarksES, rec.EngineeringRemarksZH = en, es, zh
	case "repair_process":
		rec.RepairProcessEN, rec.RepairProcessES, rec.RepairProcessZH = en, es, zh
	}
}

// setter 把JSON解码后的值写入记录字段，类型不符返回错误
type setter func(rec *entity.DMTRecord, value any) error

// setters 普通（非多语言）可写字段的赋值表。不在表中的键视为未知字段。
var setters = map[string]setter{
	"report_number": func(r *entity.DMTRecord, v any) error {
		s, err := asString(v)
		if err != nil {
			return err
		}
		r.ReportNumber = s
		return nil
	},
	"is_closed": func(r *entity.DMTRecord, v any) error {
		b, err := asBool(v)
		if err != nil {
			return err
		}
		r.IsClosed = b
		return nil
	},

	// Section 1
	"part_number_id":     intField(func(r *entity.DMTRecord, v *int) { r.PartNumberID = v }),
	"work_center_id":     intField(func(r *entity.DMTRecord, v *int) { r.WorkCenterID = v }),
	"customer_id":        intField(func(r *entity.DMTRecord, v *int) { r.CustomerID = v }),
	"level_id":           intField(func(r *entity.DMTRecord, v *int) { r.LevelID = v }),
	"area_id":            intField(func(r *entity.DMTRecord, v *int) { r.AreaID = v }),
	"prepared_by_id":     intField(func(r *entity.DMTRecord, v *int) { r.PreparedByID = v }),
	"operation":          stringField(func(r *entity.DMTRecord, v *string) { r.Operation = v }),
	"quantity":           intField(func(r *entity.DMTRecord, v *int) { r.Quantity = v }),
	"serial_number":      stringField(func(r *entity.DMTRecord, v *string) { r.SerialNumber = v }),
	"date":               timeField(func(r *entity.DMTRecord, v *time.Time) { r.Date = v }),
	"inspection_item_id": intField(func(r *entity.DMTRecord, v *int) { r.InspectionItemID = v }),
	"process_code_id":    intField(func(r *entity.DMTRecord, v *int) { r.ProcessCodeID = v }),

	// Section 3
	"analysis_by_id": intField(func(r *entity.DMTRecord, v *int) { r.AnalysisByID = v }),

	// Section 4
	"final_disposition_id":   intField(func(r *entity.DMTRecord, v *int) { r.FinalDispositionID = v }),
	"disposition_date":       timeField(func(r *entity.DMTRecord, v *time.Time) { r.DispositionDate = v }),
	"engineer_id":            intField(func(r *entity.DMTRecord, v *int) { r.EngineerID = v }),
	"failure_code_id":        intField(func(r *entity.DMTRecord, v *int) { r.FailureCodeID = v }),
	"rework_hours":           floatField(func(r *entity.DMTRecord, v *float64) { r.ReworkHours = v }),
	"responsible_department": stringField(func(r *entity.DMTRecord, v *string) { r.ResponsibleDepartment = v }),
	"material_scrap_cost":    floatField(func(r *entity.DMTRecord, v *float64) { r.MaterialScrapCost = v }),
	"other_cost":             floatField(func(r *entity.DMTRecord, v *float64) { r.OtherCost = v }),

	// Section 5
	"disposition_approval_date":  timeField(func(r *entity.DMTRecord, v *time.Time) { r.DispositionApprovalDate = v }),
	"disposition_approved_by_id": intField(func(r *entity.DMTRecord, v *int) { r.DispositionApprovedByID = v }),
	"sdr_number":                 stringField(func(r *entity.DMTRecord, v *string) { r.SDRNumber = v }),
}

func intField(assign func(*entity.DMTRecord, *int)) setter {
	return func(r *entity.DMTRecord, v any) error {
		p, err := asIntPtr(v)
		if err != nil {
			return err
		}
		assign(r, p)
		return nil
	}
}

func floatField(assign func(*entity.DMTRecord, *float64)) setter {
	return func(r *entity.DMTRecord, v any) error {
		p, err := asFloatPtr(v)
		if err != nil {
			return err
		}
		assign(r, p)
		return nil
	}
}

func stringField(assign func(*entity.DMTRecord, *string)) setter {
	return func(r *entity.DMTRecord, v any) error {
		p, err := asStringPtr(v)
		if err != nil {
			return err
		}
		assign(r, p)
		return nil
	}
}

func timeField(assign func(*entity.DMTRecord, *time.Time)) setter {
	return func(r *entity.DMTRecord, v any) error {
		p, err := asTimePtr(v)
		if err != nil {
			return err
		}
		assign(r, p)
		return nil
	}
}

// --- JSON值到字段类型的转换。encoding/json 解码到 map[string]any
// 时数字总是 float64，时间是字符串，这里做统一收敛。 ---

func asString(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func asStringPtr(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", v)
	}
	return &s, nil
}

func asBool(v any) (bool, error) {
	if v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected bool, got %T", v)
	}
	return b, nil
}

func asIntPtr(v any) (*int, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case float64:
		if n != math.Trunc(n) {
			return nil, fmt.Errorf("expected integer, got %v", n)
		}
		i := int(n)
		return &i, nil
	case int:
		i := n
		return &i, nil
	}
	return nil, fmt.Errorf("expected integer, got %T", v)
}

func asFloatPtr(v any) (*float64, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case float64:
		f := n
		return &f, nil
	case int:
		f := float64(n)
		return &f, nil
	}
	return nil, fmt.Errorf("expected number, got %T", v)
}

// timeLayouts 接受的时间格式：完整时间戳或纯日期
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func asTimePtr(v any) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		if t == "" {
			return nil, nil
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return &parsed, nil
			}
		}
		return nil, fmt.Errorf("invalid date value %q", t)
	case time.Time:
		return &t, nil
	}
	return nil, fmt.Errorf("expected date string, got %T", v)
}
