// Package rbac 定义DMT记录的字段级角色权限表。
// 纯查表，无状态，可并发调用。
package rbac

import "github.com/bitfantasy/dmt/internal/dmt/entity"

// 各分区的逻辑字段名。多语言字段在这里只出现基础名
// （defect_description 等），物理三列由 lifecycle 统一展开。
var (
	section1Fields = []string{
		"part_number_id", "work_center_id", "customer_id", "level_id", "area_id",
		"prepared_by_id", "operation", "quantity", "serial_number", "date",
		"inspection_item_id", "process_code_id",
	}
	section2Fields = []string{"defect_description"}
	section3Fields = []string{"process_description", "analysis", "analysis_by_id"}
	section4Fields = []string{
		"final_disposition_id", "disposition_date", "engineer_id", "failure_code_id",
		"rework_hours", "responsible_department", "material_scrap_cost", "other_cost",
		"engineering_remarks", "repair_process",
	}
	// Section 5 拆成两部分：审批字段由 Tech Engineer 代填，
	// 关闭标志只有 Quality Engineer（和 Admin）能动。
	section5ApprovalFields = []string{
		"disposition_approval_date", "disposition_approved_by_id", "sdr_number",
	}
)

// FieldCloseFlag 关闭标志字段名
const FieldCloseFlag = "is_closed"

// FieldSet 角色可写字段的集合
type FieldSet map[string]struct{}

// Contains 字段是否在集合内
func (s FieldSet) Contains(field string) bool {
	_, ok := s[field]
	return ok
}

func newFieldSet(groups ...[]string) FieldSet {
	set := FieldSet{}
	for _, g := range groups {
		for _, f := range g {
			set[f] = struct{}{}
		}
	}
	return set
}

var (
	inspectorFields = newFieldSet(section1Fields, section2Fields, []string{"report_number"})
	operatorFields  = newFieldSet(section3Fields)
	techFields      = newFieldSet(section3Fields, section4Fields, section5ApprovalFields)
	qualityFields   = newFieldSet([]string{FieldCloseFlag})
	adminFields     = newFieldSet(
		section1Fields, section2Fields, section3Fields, section4Fields,
		section5ApprovalFields, []string{"report_number", FieldCloseFlag},
	)
	emptyFields = FieldSet{}
)

// AllowedFields 返回角色可写的字段集合。Admin 等价于全字段通配；
// 未知角色返回空集（fail closed）。返回的集合为只读共享表。
func AllowedFields(role entity.Role) FieldSet {
	switch role {
	case entity.RoleAdmin:
		return adminFields
	case entity.RoleInspector:
		return inspectorFields
	case entity.RoleOperator:
		return operatorFields
	case entity.RoleTechEngineer:
		return techFields
	case entity.RoleQualityEngineer:
		return qualityFields
	}
	return emptyFields
}

// SectionVisible 角色是否可见某个分区。可见性独立于字段可写性，
// 且更严格：Tech Engineer 可代填 Section 5 审批字段但看不到该分区。
func SectionVisible(role entity.Role, section entity.Section) bool {
	switch role {
	case entity.RoleAdmin:
		return true
	case entity.RoleInspector:
		return section == entity.SectionGeneral || section == entity.SectionDefect
	case entity.RoleOperator:
		return section == entity.SectionAnalysis
	case entity.RoleTechEngineer:
		return section == entity.SectionAnalysis || section == entity.SectionEngineer
	case entity.RoleQualityEngineer:
		return section == entity.SectionQuality
	}
	return false
}
