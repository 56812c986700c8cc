package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"escalafon/internal/dto"
	"escalafon/internal/roster"
	"escalafon/internal/service"
	"escalafon/pkg/response"
)

// RosterHandler 排班表模块 HTTP 处理器
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler 创建 RosterHandler
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// GetRoster 单位排班表
// GET /api/v1/dependencies/:id/roster?start=&days=
func (h *RosterHandler) GetRoster(c *gin.Context) {
	var req dto.WindowRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.rosterSvc.GetRoster(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, result)
}

// VerifyCoverage 在岗人数校验
// GET /api/v1/dependencies/:id/coverage?start=&days=
func (h *RosterHandler) VerifyCoverage(c *gin.Context) {
	var req dto.WindowRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.rosterSvc.VerifyCoverage(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, result)
}

// GetDailySheet 单位日报
// GET /api/v1/dependencies/:id/daily-sheet?date=
func (h *RosterHandler) GetDailySheet(c *gin.Context) {
	var req dto.DailySheetQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.rosterSvc.GetDailySheet(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, result)
}

// ResolveCell 单元格状态
// GET /api/v1/roster/cell?employee_id=&date=
func (h *RosterHandler) ResolveCell(c *gin.Context) {
	var req dto.CellQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.rosterSvc.ResolveCell(c.Request.Context(), &req)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, result)
}

// AssignDuty 排班
// POST /api/v1/roster/assignments
//
// 写入中途失败时返回 503，data 为已生效的部分。
func (h *RosterHandler) AssignDuty(c *gin.Context) {
	var req dto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.rosterSvc.AssignDuty(c.Request.Context(), &req, OperatorID(c))
	if err != nil {
		if errors.Is(err, roster.ErrStoreWrite) {
			response.StoreWriteFailed(c, 14007, "排班写入中途失败，已生效部分见 data", result)
			return
		}
		h.handleRosterError(c, err)
		return
	}
	response.Created(c, result)
}

// UnassignLicense 撤销人员当天的请假
// DELETE /api/v1/roster/licenses?employee_id=&date=
func (h *RosterHandler) UnassignLicense(c *gin.Context) {
	var req dto.CellQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.rosterSvc.UnassignLicense(c.Request.Context(), &req, OperatorID(c))
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, result)
}

// handleRosterError 统一处理排班模块业务错误
func (h *RosterHandler) handleRosterError(c *gin.Context, err error) {
	if handleCommonError(c, 14000, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrEmptyDutyType):
		response.BadRequest(c, 14005, "值班类型不能为空")
	case errors.Is(err, service.ErrNoLicenseOnDay):
		response.NotFound(c, 14006, "该人员当天没有请假记录")
	case errors.Is(err, roster.ErrStoreWrite):
		response.StoreWriteFailed(c, 14007, "存储写入失败", nil)
	case errors.Is(err, roster.ErrInvalidAssignment):
		response.BadRequest(c, 14008, "排班参数无效")
	default:
		response.InternalError(c)
	}
}
