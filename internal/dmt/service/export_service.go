package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"github.com/bitfantasy/dmt/internal/dmt/repository"
	"github.com/xuri/excelize/v2"
)

// utf8BOM Excel识别UTF-8需要的BOM前缀
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// exportHeader 导出列头，列序固定
var exportHeader = []string{
	"ID", "Report Number", "Created At", "Created By", "Is Closed",
	"Part Number", "Work Center", "Customer", "Level", "Area",
	"Prepared By", "Operation", "Quantity", "Serial Number", "Date",
	"Inspection Item", "Process Code",
	"Defect Description", "Process Description", "Analysis", "Analysis By",
	"Final Disposition", "Disposition Date", "Engineer", "Failure Code",
	"Rework Hours", "Responsible Department", "Material Scrap Cost", "Other Cost",
	"Engineering Remarks", "Repair Process",
	"Disposition Approval Date", "Disposition Approved By", "SDR Number",
}

// ExportFilter 导出的日期过滤（闭区间，作用在created_at上）
type ExportFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// ExportService 把DMT记录导出为CSV/XLSX：外键解析成"编码 - 名称"，
// 多语言列按请求语言取值、缺失回落英文。导出不分页。
type ExportService struct {
	records RecordStore
	users   UserStore
	catalog CatalogStore
}

func NewExportService(records RecordStore, users UserStore, catalog CatalogStore) *ExportService {
	return &ExportService{records: records, users: users, catalog: catalog}
}

// ExportCSV 导出UTF-8 BOM前缀的CSV
func (s *ExportService) ExportCSV(ctx context.Context, f ExportFilter, lang entity.Language) ([]byte, error) {
	rows, err := s.rows(ctx, f, lang)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportXLSX 同样的行模型导出为xlsx
func (s *ExportService) ExportXLSX(ctx context.Context, f ExportFilter, lang entity.Language) ([]byte, error) {
	rows, err := s.rows(ctx, f, lang)
	if err != nil {
		return nil, err
	}

	x := excelize.NewFile()
	defer x.Close()

	const sheet = "DMT Records"
	x.SetSheetName("Sheet1", sheet)

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := x.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := x.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	buf, err := x.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ExportService) rows(ctx context.Context, f ExportFilter, lang entity.Language) ([][]string, error) {
	records, err := s.records.FindAll(ctx, repository.ListFilter{
		CreatedAfter:  f.StartDate,
		CreatedBefore: f.EndDate,
	})
	if err != nil {
		return nil, err
	}

	res := newResolver(s.users, s.catalog)
	rows := make([][]string, 0, len(records))
	for i := range records {
		rows = append(rows, s.row(ctx, res, &records[i], lang))
	}
	return rows, nil
}

func (s *ExportService) row(ctx context.Context, res *labelResolver, r *entity.DMTRecord, lang entity.Language) []string {
	closed := "No"
	if r.IsClosed {
		closed = "Yes"
	}

	return []string{
		strconv.Itoa(r.ID),
		r.ReportNumber,
		fmtTimestamp(&r.CreatedAt),
		res.user(ctx, &r.CreatedByID),
		closed,
		res.catalog(ctx, entity.CatalogPartNumber, r.PartNumberID),
		res.catalog(ctx, entity.CatalogWorkCenter, r.WorkCenterID),
		res.catalog(ctx, entity.CatalogCustomer, r.CustomerID),
		res.catalog(ctx, entity.CatalogLevel, r.LevelID),
		res.catalog(ctx, entity.CatalogArea, r.AreaID),
		res.catalog(ctx, entity.CatalogPreparedBy, r.PreparedByID),
		strFrom(r.Operation),
		intFrom(r.Quantity),
		strFrom(r.SerialNumber),
		fmtTimestamp(r.Date),
		res.catalog(ctx, entity.CatalogInspectionItem, r.InspectionItemID),
		res.catalog(ctx, entity.CatalogProcessCode, r.ProcessCodeID),
		pickLang(r.DefectDescriptionEN, r.DefectDescriptionES, r.DefectDescriptionZH, lang),
		pickLang(r.ProcessDescriptionEN, r.ProcessDescriptionES, r.ProcessDescriptionZH, lang),
		pickLang(r.AnalysisEN, r.AnalysisES, r.AnalysisZH, lang),
		res.user(ctx, r.AnalysisByID),
		res.catalog(ctx, entity.CatalogDisposition, r.FinalDispositionID),
		fmtTimestamp(r.DispositionDate),
		res.user(ctx, r.EngineerID),
		res.catalog(ctx, entity.CatalogFailureCode, r.FailureCodeID),
		floatFrom(r.ReworkHours),
		strFrom(r.ResponsibleDepartment),
		floatFrom(r.MaterialScrapCost),
		floatFrom(r.OtherCost),
		pickLang(r.EngineeringRemarksEN, r.EngineeringRemarksES, r.EngineeringRemarksZH, lang),
		pickLang(r.RepairProcessEN, r.RepairProcessES, r.RepairProcessZH, lang),
		fmtTimestamp(r.DispositionApprovalDate),
		res.user(ctx, r.DispositionApprovedByID),
		strFrom(r.SDRNumber),
	}
}

// pickLang 取请求语言的列，空则回落英文
func pickLang(en, es, zh string, lang entity.Language) string {
	switch lang {
	case entity.LangES:
		if es != "" {
			return es
		}
	case entity.LangZH:
		if zh != "" {
			return zh
		}
	}
	return en
}

// labelResolver 外键→可读标签，带缓存。悬挂引用解析为空串，
// 导出不能因为目录里少了一条而失败。
type labelResolver struct {
	users    UserStore
	catalogs CatalogStore
	userCache map[int]string
	catCache map[entity.CatalogKind]map[int]string
}

func newResolver(users UserStore, catalog CatalogStore) *labelResolver {
	return &labelResolver{
		users:    users,
		catalogs: catalog,
		userCache: map[int]string{},
		catCache: map[entity.CatalogKind]map[int]string{},
	}
}

func (r *labelResolver) user(ctx context.Context, id *int) string {
	if id == nil {
		return ""
	}
	if label, ok := r.userCache[*id]; ok {
		return label
	}
	label := ""
	u, err := r.users.FindByID(ctx, *id)
	if err == nil {
		label = fmt.Sprintf("%s - %s", u.Username, u.FullName)
	} else if !errors.Is(err, repository.ErrNotFound) {
		// 查询报错按悬挂引用处理，同样给空串
		label = ""
	}
	r.userCache[*id] = label
	return label
}

func (r *labelResolver) catalog(ctx context.Context, kind entity.CatalogKind, id *int) string {
	if id == nil {
		return ""
	}
	cache, ok := r.catCache[kind]
	if !ok {
		cache = map[int]string{}
		r.catCache[kind] = cache
	}
	if label, ok := cache[*id]; ok {
		return label
	}
	label := ""
	e, err := r.catalogs.FindByID(ctx, kind, *id)
	if err == nil {
		label = fmt.Sprintf("%s - %s", e.ItemNumber, e.ItemName)
	}
	cache[*id] = label
	return label
}

func strFrom(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intFrom(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatFrom(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
