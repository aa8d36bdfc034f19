package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kindred/kcf/internal/logger"
	"github.com/kindred/kcf/internal/logic"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// handleError 根据错误类型映射HTTP状态码，内部错误不向客户端暴露细节
func handleError(c *gin.Context, err error) {
	var validationError *logic.ValidationError
	switch {
	case errors.As(err, &validationError):
		ErrorResponse(c, http.StatusBadRequest, validationError.Error())
	case errors.Is(err, logic.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, "记录不存在")
	case errors.Is(err, logic.ErrUnauthorized):
		ErrorResponse(c, http.StatusForbidden, "无权执行此操作")
	case errors.Is(err, logic.ErrInvalidCredentials):
		ErrorResponse(c, http.StatusUnauthorized, "邮箱或密码错误")
	default:
		logger.Error("Request failed: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "服务器内部错误")
	}
}

// currentUserId 从上下文获取认证中间件写入的用户ID
func currentUserId(c *gin.Context) int64 {
	return c.GetInt64("userId")
}
