package handler

import (
	"strconv"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"github.com/bitfantasy/dmt/internal/dmt/service"
	"github.com/gin-gonic/gin"
)

// CatalogHandler 目录处理器，同一组接口服务全部目录类型
type CatalogHandler struct {
	svc *service.CatalogService
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// pathKind 解析路径中的目录类型，未知类型按404处理
func pathKind(c *gin.Context) (entity.CatalogKind, bool) {
	kind, ok := entity.ParseCatalogKind(c.Param("kind"))
	if !ok {
		NotFound(c, "unknown catalog type: "+c.Param("kind"))
		return "", false
	}
	return kind, true
}

// List 获取目录条目列表
func (h *CatalogHandler) List(c *gin.Context) {
	kind, ok := pathKind(c)
	if !ok {
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "1000"))

	entries, err := h.svc.List(c.Request.Context(), kind, skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": entries})
}

// Get 获取目录条目详情
func (h *CatalogHandler) Get(c *gin.Context) {
	kind, ok := pathKind(c)
	if !ok {
		return
	}
	id, ok := PathID(c)
	if !ok {
		return
	}

	entry, err := h.svc.Get(c.Request.Context(), kind, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, entry)
}

// Create 创建目录条目
func (h *CatalogHandler) Create(c *gin.Context) {
	kind, ok := pathKind(c)
	if !ok {
		return
	}

	var req service.CatalogEntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.svc.Create(c.Request.Context(), GetPrincipal(c), kind, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, entry)
}

// Update 更新目录条目
func (h *CatalogHandler) Update(c *gin.Context) {
	kind, ok := pathKind(c)
	if !ok {
		return
	}
	id, ok := PathID(c)
	if !ok {
		return
	}

	var req service.CatalogEntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.svc.Update(c.Request.Context(), GetPrincipal(c), kind, id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, entry)
}

// Delete 删除目录条目
func (h *CatalogHandler) Delete(c *gin.Context) {
	kind, ok := pathKind(c)
	if !ok {
		return
	}
	id, ok := PathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), GetPrincipal(c), kind, id); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"id": id})
}
