package entity

import "time"

// DMTRecord 不合格品报告（Defect Management & Tracking）。
// 五个分区由不同角色渐进填写，关闭后整条记录不可再修改。
// 多语言字段各占三列（_en/_es/_zh），每次写入只有提交语言一列有效，
// 另外两列被清空——记录的叙述文本在任一时刻只以一种语言为准。
type DMTRecord struct {
	ID           int       `json:"id" gorm:"primaryKey"`
	ReportNumber string    `json:"report_number" gorm:"size:100;index"`
	IsClosed     bool      `json:"is_closed" gorm:"not null;default:false"`
	CreatedByID  int       `json:"created_by_id" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`

	// Section 1: 基础信息（Inspector）
	PartNumberID     *int       `json:"part_number_id" gorm:"index"`
	WorkCenterID     *int       `json:"work_center_id"`
	CustomerID       *int       `json:"customer_id"`
	LevelID          *int       `json:"level_id"`
	AreaID           *int       `json:"area_id"`
	PreparedByID     *int       `json:"prepared_by_id"`
	Operation        *string    `json:"operation" gorm:"size:255"`
	Quantity         *int       `json:"quantity"`
	SerialNumber     *string    `json:"serial_number" gorm:"size:255"`
	Date             *time.Time `json:"date"`
	InspectionItemID *int       `json:"inspection_item_id"`
	ProcessCodeID    *int       `json:"process_code_id"`

	// Section 2: 缺陷描述（Inspector）
	DefectDescriptionEN string `json:"defect_description_en" gorm:"column:defect_description_en;type:text"`
	DefectDescriptionES string `json:"defect_description_es" gorm:"column:defect_description_es;type:text"`
	DefectDescriptionZH string `json:"defect_description_zh" gorm:"column:defect_description_zh;type:text"`

	// Section 3: 过程分析（Operator / Tech Engineer）
	ProcessDescriptionEN string `json:"process_description_en" gorm:"column:process_description_en;type:text"`
	ProcessDescriptionES string `json:"process_description_es" gorm:"column:process_description_es;type:text"`
	ProcessDescriptionZH string `json:"process_description_zh" gorm:"column:process_description_zh;type:text"`
	AnalysisEN           string `json:"analysis_en" gorm:"column:analysis_en;type:text"`
	AnalysisES           string `json:"analysis_es" gorm:"column:analysis_es;type:text"`
	AnalysisZH           string `json:"analysis_zh" gorm:"column:analysis_zh;type:text"`
	AnalysisByID         *int   `json:"analysis_by_id"`

	// Section 4: 工程处置（Tech Engineer）
	FinalDispositionID    *int       `json:"final_disposition_id"`
	DispositionDate       *time.Time `json:"disposition_date"`
	EngineerID            *int       `json:"engineer_id"`
	FailureCodeID         *int       `json:"failure_code_id"`
	ReworkHours           *float64   `json:"rework_hours"`
	ResponsibleDepartment *string    `json:"responsible_department" gorm:"size:255"`
	MaterialScrapCost     *float64   `json:"material_scrap_cost"`
	OtherCost             *float64   `json:"other_cost"`
	EngineeringRemarksEN  string     `json:"engineering_remarks_en" gorm:"column:engineering_remarks_en;type:text"`
	EngineeringRemarksES  string     `json:"engineering_remarks_es" gorm:"column:engineering_remarks_es;type:text"`
	EngineeringRemarksZH  string     `json:"engineering_remarks_zh" gorm:"column:engineering_remarks_zh;type:text"`
	RepairProcessEN       string     `json:"repair_process_en" gorm:"column:repair_process_en;type:text"`
	RepairProcessES       string     `json:"repair_process_es" gorm:"column:repair_process_es;type:text"`
	RepairProcessZH       string     `json:"repair_process_zh" gorm:"column:repair_process_zh;type:text"`

	// Section 5: 质量关闭（Quality Engineer）
	DispositionApprovalDate *time.Time `json:"disposition_approval_date"`
	DispositionApprovedByID *int       `json:"disposition_approved_by_id"`
	SDRNumber               *string    `json:"sdr_number" gorm:"column:sdr_number;size:255"`
}

func (DMTRecord) TableName() string {
	return "dmt_records"
}
