package entity

// CatalogKind 基础资料目录的封闭集合，每个取值对应一张独立的表
type CatalogKind string

const (
	CatalogPartNumber     CatalogKind = "partnumber"
	CatalogWorkCenter     CatalogKind = "workcenter"
	CatalogCustomer       CatalogKind = "customer"
	CatalogLevel          CatalogKind = "level"
	CatalogArea           CatalogKind = "area"
	CatalogCalibration    CatalogKind = "calibration"
	CatalogInspectionItem CatalogKind = "inspectionitem"
	CatalogPreparedBy     CatalogKind = "preparedby"
	CatalogProcessCode    CatalogKind = "processcode"
	CatalogDisposition    CatalogKind = "disposition"
	CatalogFailureCode    CatalogKind = "failurecode"
)

// CatalogKinds 返回全部目录类型
func CatalogKinds() []CatalogKind {
	return []CatalogKind{
		CatalogPartNumber, CatalogWorkCenter, CatalogCustomer,
		CatalogLevel, CatalogArea, CatalogCalibration,
		CatalogInspectionItem, CatalogPreparedBy, CatalogProcessCode,
		CatalogDisposition, CatalogFailureCode,
	}
}

// ParseCatalogKind 解析路径参数中的目录类型
func ParseCatalogKind(s string) (CatalogKind, bool) {
	k := CatalogKind(s)
	switch k {
	case CatalogPartNumber, CatalogWorkCenter, CatalogCustomer,
		CatalogLevel, CatalogArea, CatalogCalibration,
		CatalogInspectionItem, CatalogPreparedBy, CatalogProcessCode,
		CatalogDisposition, CatalogFailureCode:
		return k, true
	}
	return "", false
}

// TableName 目录类型到表名的映射（穷举，不做字符串拼接）
func (k CatalogKind) TableName() string {
	switch k {
	case CatalogPartNumber:
		return "part_numbers"
	case CatalogWorkCenter:
		return "work_centers"
	case CatalogCustomer:
		return "customers"
	case CatalogLevel:
		return "levels"
	case CatalogArea:
		return "areas"
	case CatalogCalibration:
		return "calibrations"
	case CatalogInspectionItem:
		return "inspection_items"
	case CatalogPreparedBy:
		return "prepared_bys"
	case CatalogProcessCode:
		return "process_codes"
	case CatalogDisposition:
		return "dispositions"
	case CatalogFailureCode:
		return "failure_codes"
	}
	return ""
}

// CatalogEntry 目录条目，所有目录表共用同一结构
type CatalogEntry struct {
	ID         int    `json:"id" gorm:"primaryKey"`
	ItemNumber string `json:"item_number" gorm:"size:100;index;not null"`
	ItemName   string `json:"item_name" gorm:"size:255;not null"`
}
