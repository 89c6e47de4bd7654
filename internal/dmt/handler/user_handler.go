package handler

import (
	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"github.com/bitfantasy/dmt/internal/dmt/service"
	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler 创建用户处理器
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List 获取用户列表，支持按角色过滤
func (h *UserHandler) List(c *gin.Context) {
	role := entity.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		BadRequest(c, "invalid role")
		return
	}

	users, err := h.svc.List(c.Request.Context(), role)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"items": users})
}

// Get 获取用户详情
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, user)
}

// Create 创建用户
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.Create(c.Request.Context(), GetPrincipal(c), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, user)
}

// Update 更新用户
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	var req service.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.Update(c.Request.Context(), GetPrincipal(c), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, user)
}

// Delete 删除用户
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), GetPrincipal(c), id); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{"id": id})
}
