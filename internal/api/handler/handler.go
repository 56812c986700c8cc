package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"escalafon/internal/service"
	pkgerrors "escalafon/pkg/errors"
	"escalafon/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Roster     *RosterHandler
	Dependency *DependencyHandler
	Guard      *GuardHandler
	License    *LicenseHandler
	Export     *ExportHandler
	Health     *HealthHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, checks ...HealthCheck) *Handler {
	return &Handler{
		Roster:     NewRosterHandler(svc.Roster),
		Dependency: NewDependencyHandler(svc.Dependency),
		Guard:      NewGuardHandler(svc.Guard),
		License:    NewLicenseHandler(svc.License),
		Export:     NewExportHandler(svc.Export),
		Health:     NewHealthHandler(checks...),
	}
}

// handleCommonError 处理跨模块共用的业务错误，base 为模块错误码前缀（如 14000）
// 已写入响应时返回 true
func handleCommonError(c *gin.Context, base int, err error) bool {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, base+901, "日期格式错误，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrWindowTooLarge):
		response.BadRequest(c, base+902, "查询天数超出上限")
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, base+903, "人员不存在")
	case errors.Is(err, service.ErrDependencyNotFound):
		response.NotFound(c, base+904, "单位不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, base+909, "记录已被他人修改，请刷新后重试")
	default:
		return false
	}
	return true
}
