package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"escalafon/internal/api/middleware"
)

const (
	// anonymousOperator 未携带操作人时写入审计列的值
	anonymousOperator = "anonymous"
	operatorMaxLen    = 64
)

// OperatorID 从请求头提取操作人，缺省或超长时返回 anonymous
func OperatorID(c *gin.Context) string {
	id := strings.TrimSpace(c.GetHeader(middleware.OperatorHeader))
	if id == "" || len(id) > operatorMaxLen {
		return anonymousOperator
	}
	return id
}
