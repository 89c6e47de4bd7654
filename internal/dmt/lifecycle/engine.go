// Package lifecycle 实现DMT记录的状态机：开放/关闭两态、
// 字段级RBAC校验、多语言扇出和关闭前置条件检查。
package lifecycle

import (
	"fmt"
	"sort"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"github.com/bitfantasy/dmt/internal/dmt/rbac"
)

// Engine 校验并应用一次记录更新。无状态，可并发使用。
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// ApplyUpdate 按角色权限把fields合并到记录上，返回合并后的新记录。
// 任何一项校验失败整个更新都被拒绝，原记录不会被修改。
//
// 顺序：关闭守卫 → 字段权限校验 → 多语言扇出 → 普通字段赋值 →
// 关闭前置条件 → 返回副本。关闭守卫对所有角色生效，包括Admin。
func (e *Engine) ApplyUpdate(rec *entity.DMTRecord, role entity.Role, fields map[string]any, lang entity.Language) (*entity.DMTRecord, error) {
	if rec.IsClosed {
		return nil, &entity.RecordClosedError{ID: rec.ID}
	}

	allowed := rbac.AllowedFields(role)

	// 先整体校验，再落任何值。按字段名排序保证错误可复现。
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var unknown []string
	for _, name := range names {
		if IsMultilingual(name) {
			// 多语言字段按基础名做RBAC，三列一起写
			if !allowed.Contains(name) {
				return nil, &entity.FieldNotAllowedError{Field: name, Role: role}
			}
			continue
		}
		if _, ok := setters[name]; !ok {
			unknown = append(unknown, name)
			continue
		}
		if !allowed.Contains(name) {
			return nil, &entity.FieldNotAllowedError{Field: name, Role: role}
		}
	}
	if len(unknown) > 0 {
		return nil, &entity.ValidationError{Message: "unknown fields", Fields: unknown}
	}

	updated := *rec

	for _, name := range names {
		value := fields[name]
		if IsMultilingual(name) {
			text, err := asString(value)
			if err != nil {
				return nil, &entity.ValidationError{Message: fmt.Sprintf("field '%s': %v", name, err)}
			}
			ApplyMultilingual(&updated, name, text, lang)
			continue
		}
		if err := setters[name](&updated, value); err != nil {
			return nil, &entity.ValidationError{Message: fmt.Sprintf("field '%s': %v", name, err)}
		}
	}

	// 只有 open → closed 的迁移需要过关闭门：Section 4 的处置字段
	// 和 Section 5 的审批字段都齐了才允许关闭。检查合并后的记录，
	// 允许审批字段在同一次更新里补齐。
	if updated.IsClosed && !rec.IsClosed {
		if err := checkCloseGate(&updated); err != nil {
			return nil, err
		}
	}

	return &updated, nil
}

func checkCloseGate(rec *entity.DMTRecord) error {
	var missing []string
	if rec.FinalDispositionID == nil {
		missing = append(missing, "final_disposition_id")
	}
	if rec.FailureCodeID == nil {
		missing = append(missing, "failure_code_id")
	}
	if rec.EngineerID == nil {
		missing = append(missing, "engineer_id")
	}
	if len(missing) > 0 {
		return &entity.IncompleteForClosingError{Section: entity.SectionEngineer, Missing: missing}
	}

	if rec.DispositionApprovalDate == nil {
		missing = append(missing, "disposition_approval_date")
	}
	if rec.DispositionApprovedByID == nil {
		missing = append(missing, "disposition_approved_by_id")
	}
	if len(missing) > 0 {
		return &entity.IncompleteForClosingError{Section: entity.SectionQuality, Missing: missing}
	}
	return nil
}
