package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escalafon/config"
	"escalafon/internal/api/handler"
	"escalafon/internal/api/middleware"
	"escalafon/pkg/metrics"
)

// maxBodyBytes 写接口请求体上限
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
//
// limiter 为 nil 时限流退化为进程内令牌桶；m 为 nil 时不暴露 /metrics。
func Setup(cfg *config.Config, h *handler.Handler, limiter middleware.SlidingWindow, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 运维端点 ──
	r.GET("/health", h.Health.Health)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	writeLimit := middleware.RateLimit(limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
	bodyLimit := middleware.BodyLimit(maxBodyBytes)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 单位模块
		deps := v1.Group("/dependencies")
		{
			deps.GET("", h.Dependency.ListDependencies)
			deps.GET("/:id", h.Dependency.GetDependency)
			deps.GET("/:id/roster", h.Roster.GetRoster)
			deps.GET("/:id/coverage", h.Roster.VerifyCoverage)
			deps.GET("/:id/daily-sheet", h.Roster.GetDailySheet)
		}

		// 排班模块
		rosterGroup := v1.Group("/roster")
		{
			rosterGroup.GET("/cell", h.Roster.ResolveCell)
			rosterGroup.POST("/assignments", writeLimit, bodyLimit, h.Roster.AssignDuty)
			rosterGroup.DELETE("/licenses", writeLimit, h.Roster.UnassignLicense)
		}

		// 值班记录模块
		guards := v1.Group("/guards")
		{
			guards.GET("", h.Guard.ListGuards)
			guards.POST("", writeLimit, bodyLimit, h.Guard.CreateGuard)
			guards.PUT("/:id", writeLimit, bodyLimit, h.Guard.UpdateGuard)
			guards.DELETE("/:id", writeLimit, h.Guard.DeleteGuard)
		}

		// 请假模块
		licenses := v1.Group("/licenses")
		{
			licenses.GET("", h.License.ListLicenses)
			licenses.POST("", writeLimit, bodyLimit, h.License.CreateLicense)
			licenses.PUT("/:id", writeLimit, bodyLimit, h.License.UpdateLicense)
			licenses.PUT("/:id/status", writeLimit, bodyLimit, h.License.UpdateLicenseStatus)
			licenses.DELETE("/:id", writeLimit, h.License.DeleteLicense)
		}

		v1.GET("/employees/:id/licenses", h.License.ListEmployeeLicenses)

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/roster", h.Export.ExportRoster)
			export.GET("/employees/:id/calendar", h.Export.ExportEmployeeCalendar)
		}
	}

	return r
}
