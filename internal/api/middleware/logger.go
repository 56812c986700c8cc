package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OperatorHeader 操作人标识请求头（审计用，非鉴权）
const OperatorHeader = "X-Operator-ID"

// 探活与抓取指标的成功请求只记 debug
var quietRoutes = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// routeOf 路由模板；未匹配任何路由时为 unmatched
func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

// Logger 访问日志中间件
// 按路由模板记录，附带 request_id 与操作人，便于按单位/人员追查排班改动
func Logger(logger *zap.Logger) gin.HandlerFunc {
	access := logger.Named("access")

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		route := routeOf(c)

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
		}
		if op := strings.TrimSpace(c.GetHeader(OperatorHeader)); op != "" {
			fields = append(fields, zap.String("operator_id", op))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		switch {
		case status == http.StatusServiceUnavailable:
			// 部分写入或依赖不可用
			access.Error("服务不可用", fields...)
		case status >= 500:
			access.Error("请求处理失败", fields...)
		case status >= 400:
			access.Warn("客户端错误", fields...)
		case quietRoutes[route]:
			access.Debug("请求完成", fields...)
		default:
			access.Info("请求完成", fields...)
		}
	}
}
