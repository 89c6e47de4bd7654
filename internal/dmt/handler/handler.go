package handler

import (
	"errors"
	"strconv"

	"github.com/bitfantasy/dmt/internal/dmt/entity"
	"github.com/bitfantasy/dmt/internal/dmt/repository"
	"github.com/bitfantasy/dmt/internal/dmt/service"
	"github.com/bitfantasy/dmt/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers 处理器集合
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Catalog *CatalogHandler
	DMT     *DMTHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(svc.Auth),
		User:    NewUserHandler(svc.User),
		Catalog: NewCatalogHandler(svc.Catalog),
		DMT:     NewDMTHandler(svc.DMT, svc.Export),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// Forbidden 禁止访问响应
func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict 冲突响应
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// RespondError 把领域错误映射到HTTP状态
func RespondError(c *gin.Context, err error) {
	var (
		valErr    *entity.ValidationError
		fieldErr  *entity.FieldNotAllowedError
		closedErr *entity.RecordClosedError
		closeGate *entity.IncompleteForClosingError
	)

	switch {
	case errors.As(err, &valErr):
		BadRequest(c, valErr.Error())
	case errors.As(err, &closeGate):
		BadRequest(c, closeGate.Error())
	case errors.As(err, &fieldErr):
		Forbidden(c, fieldErr.Error())
	case errors.Is(err, entity.ErrForbidden):
		Forbidden(c, err.Error())
	case errors.As(err, &closedErr):
		BadRequest(c, closedErr.Error())
	case errors.Is(err, repository.ErrDuplicate):
		Conflict(c, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "resource not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetPrincipal 从上下文获取调用者身份
func GetPrincipal(c *gin.Context) entity.Principal {
	p, _ := middleware.CurrentPrincipal(c)
	return p
}

// PathID 解析路径中的整数ID
func PathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// QueryLanguage 解析language查询参数，缺省英文
func QueryLanguage(c *gin.Context) entity.Language {
	return entity.ParseLanguage(c.DefaultQuery("language", "en"))
}
