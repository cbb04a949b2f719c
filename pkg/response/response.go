// Package response 统一 HTTP JSON 响应结构
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/optionrisk/pkg/logger"
)

// Response 统一响应体
type Response struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Success 返回 200 与数据
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:      0,
		Message:   "success",
		Data:      data,
		RequestID: c.GetString(string(logger.RequestIDKey)),
	})
}

// ErrorWithStatus 返回指定状态码的错误
func ErrorWithStatus(c *gin.Context, status int, message, detail string) {
	c.AbortWithStatusJSON(status, Response{
		Code:      status,
		Message:   message,
		Detail:    detail,
		RequestID: c.GetString(string(logger.RequestIDKey)),
	})
}
