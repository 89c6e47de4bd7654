package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bitfantasy/dmt/internal/dmt/repository"
	"github.com/bitfantasy/dmt/internal/dmt/service"
	"github.com/gin-gonic/gin"
)

// DMTHandler DMT记录处理器
type DMTHandler struct {
	svc    *service.DMTService
	export *service.ExportService
}

// NewDMTHandler 创建DMT记录处理器
func NewDMTHandler(svc *service.DMTService, export *service.ExportService) *DMTHandler {
	return &DMTHandler{svc: svc, export: export}
}

// List 获取记录列表
func (h *DMTHandler) List(c *gin.Context) {
	var f repository.ListFilter

	if v := c.Query("is_closed"); v != "" {
		closed, err := strconv.ParseBool(v)
		if err != nil {
			BadRequest(c, "invalid is_closed")
			return
		}
		f.IsClosed = &closed
	}
	if v := c.Query("created_by_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			BadRequest(c, "invalid created_by_id")
			return
		}
		f.CreatedByID = &id
	}
	if v := c.Query("part_number_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			BadRequest(c, "invalid part_number_id")
			return
		}
		f.PartNumberID = &id
	}

	var ok bool
	if f.CreatedAfter, ok = queryDate(c, "created_after"); !ok {
		return
	}
	if f.CreatedBefore, ok = queryDate(c, "created_before"); !ok {
		return
	}

	f.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	records, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": records, "count": len(records)})
}

// Create 创建记录
func (h *DMTHandler) Create(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	record, err := h.svc.Create(c.Request.Context(), GetPrincipal(c), fields, QueryLanguage(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, record)
}

// Get 获取记录详情
func (h *DMTHandler) Get(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	record, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, record)
}

// Update 更新记录
func (h *DMTHandler) Update(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	record, err := h.svc.Update(c.Request.Context(), id, GetPrincipal(c), fields, QueryLanguage(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, record)
}

// Delete 删除记录
func (h *DMTHandler) Delete(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, GetPrincipal(c)); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"id": id})
}

// ExportCSV 导出CSV
func (h *DMTHandler) ExportCSV(c *gin.Context) {
	f, ok := exportFilter(c)
	if !ok {
		return
	}

	data, err := h.export.ExportCSV(c.Request.Context(), f, QueryLanguage(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	name := fmt.Sprintf("dmt_records_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(200, "text/csv; charset=utf-8", data)
}

// ExportXLSX 导出XLSX
func (h *DMTHandler) ExportXLSX(c *gin.Context) {
	f, ok := exportFilter(c)
	if !ok {
		return
	}

	data, err := h.export.ExportXLSX(c.Request.Context(), f, QueryLanguage(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	name := fmt.Sprintf("dmt_records_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func exportFilter(c *gin.Context) (service.ExportFilter, bool) {
	var f service.ExportFilter
	var ok bool
	if f.StartDate, ok = queryDate(c, "start_date"); !ok {
		return f, false
	}
	if f.EndDate, ok = queryDate(c, "end_date"); !ok {
		return f, false
	}
	return f, true
}

// queryDate 解析日期查询参数，接受 2006-01-02 和 RFC3339
func queryDate(c *gin.Context, key string) (*time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return nil, true
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, true
		}
	}
	BadRequest(c, "invalid "+key)
	return nil, false
}
